package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"tradefrontier/internal/game"
)

const scoreboardFile = "scoreboard.json"

// FileLedger keeps the scoreboard as a JSON document next to the save.
type FileLedger struct {
	path string
	now  func() time.Time

	mu sync.Mutex
}

func NewFileLedger(dir string) *FileLedger {
	return &FileLedger{path: filepath.Join(dir, scoreboardFile), now: time.Now}
}

func (l *FileLedger) RecordScore(_ context.Context, entry game.ScoreEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	// An unreadable board is replaced rather than blocking the new score.
	board, _ := l.load()
	entries, added := game.RankScores(board.Entries, entry, game.ScoreboardLimit)
	if !added {
		return nil
	}
	board.Entries = entries
	board.UpdatedAt = l.now().UTC()
	raw, err := json.MarshalIndent(board, "", "  ")
	if err != nil {
		return fmt.Errorf("encode scoreboard: %w", err)
	}
	if err := writeFileAtomic(l.path, raw); err != nil {
		return fmt.Errorf("write scoreboard: %w", err)
	}
	return nil
}

func (l *FileLedger) TopScores(_ context.Context, limit int) ([]game.ScoreEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	board, err := l.load()
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(board.Entries) > limit {
		return board.Entries[:limit], nil
	}
	return board.Entries, nil
}

func (l *FileLedger) load() (game.Scoreboard, error) {
	raw, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return game.Scoreboard{Entries: []game.ScoreEntry{}}, nil
		}
		return game.Scoreboard{Entries: []game.ScoreEntry{}}, fmt.Errorf("read scoreboard: %w", err)
	}
	if len(raw) == 0 {
		return game.Scoreboard{Entries: []game.ScoreEntry{}}, nil
	}
	var board game.Scoreboard
	if err := json.Unmarshal(raw, &board); err != nil {
		return game.Scoreboard{Entries: []game.ScoreEntry{}}, fmt.Errorf("decode scoreboard: %w", err)
	}
	if board.Entries == nil {
		board.Entries = []game.ScoreEntry{}
	}
	return board, nil
}
