package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"tradefrontier/internal/game"
)

func TestSaveFileMissingMeansNoSave(t *testing.T) {
	f := NewSaveFile(t.TempDir())
	if _, err := f.LoadCharter(context.Background()); !errors.Is(err, game.ErrNoSave) {
		t.Fatalf("got %v want ErrNoSave", err)
	}
}

func TestSaveFileRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested")
	f := NewSaveFile(dir)

	doc := game.Document{
		CharterID:     "c-1",
		Day:           9,
		Money:         4321,
		Cargo:         map[string]int{"Silk": 3},
		CargoCapacity: 36,
		LocationName:  "Irondeep",
		NewsSeed:      77,
		NewsHistory:   []string{"Day 8: calm seas"},
	}
	if err := f.SaveCharter(ctx, doc); err != nil {
		t.Fatalf("save: %v", err)
	}
	info, err := os.Stat(f.Path())
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("got mode %o want 600", perm)
	}

	got, err := f.LoadCharter(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Day != 9 || got.Money != 4321 || got.LocationName != "Irondeep" || got.Cargo["Silk"] != 3 {
		t.Fatalf("unexpected document: %+v", got)
	}

	if err := f.DeleteCharter(ctx); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := f.DeleteCharter(ctx); err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if _, err := f.LoadCharter(ctx); !errors.Is(err, game.ErrNoSave) {
		t.Fatalf("got %v want ErrNoSave after delete", err)
	}
}

func TestSaveFileCorrupt(t *testing.T) {
	dir := t.TempDir()
	f := NewSaveFile(dir)
	if err := os.WriteFile(f.Path(), []byte("[1,2,3]"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := f.LoadCharter(context.Background()); !errors.Is(err, game.ErrCorruptSave) {
		t.Fatalf("got %v want ErrCorruptSave", err)
	}
}
