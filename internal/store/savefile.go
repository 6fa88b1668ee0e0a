package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"tradefrontier/internal/game"
)

const charterFile = "charter.json"

// SaveFile keeps the live charter as one JSON document on disk.
type SaveFile struct {
	path string
}

func NewSaveFile(dir string) *SaveFile {
	return &SaveFile{path: filepath.Join(dir, charterFile)}
}

func (f *SaveFile) Path() string { return f.path }

func (f *SaveFile) LoadCharter(_ context.Context) (game.Document, error) {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return game.Document{}, game.ErrNoSave
		}
		return game.Document{}, fmt.Errorf("read charter: %w", err)
	}
	if len(raw) == 0 {
		return game.Document{}, game.ErrNoSave
	}
	return game.DecodeDocument(raw)
}

func (f *SaveFile) SaveCharter(_ context.Context, doc game.Document) error {
	raw, err := game.EncodeDocument(doc)
	if err != nil {
		return fmt.Errorf("encode charter: %w", err)
	}
	return writeFileAtomic(f.path, raw)
}

func (f *SaveFile) DeleteCharter(_ context.Context) error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete charter: %w", err)
	}
	return nil
}

// writeFileAtomic replaces path so readers never see a half-written file.
func writeFileAtomic(path string, raw []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
