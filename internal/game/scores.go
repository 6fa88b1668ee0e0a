package game

import (
	"sort"
	"time"
)

// Scoreboard is the persisted ranking document.
type Scoreboard struct {
	Entries   []ScoreEntry `json:"entries"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// RankScores adds entry to entries, keeping the best limit by net worth. A
// second entry for a charter already on the board is dropped; the bool
// reports whether entry was added.
func RankScores(entries []ScoreEntry, entry ScoreEntry, limit int) ([]ScoreEntry, bool) {
	for _, e := range entries {
		if entry.CharterID != "" && e.CharterID == entry.CharterID {
			return entries, false
		}
	}
	out := make([]ScoreEntry, 0, len(entries)+1)
	out = append(out, entries...)
	out = append(out, entry)
	sort.SliceStable(out, func(i, j int) bool { return out[i].NetWorth > out[j].NetWorth })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, true
}
