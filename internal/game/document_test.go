package game

import (
	"errors"
	"testing"
)

func TestDecodeDocumentFallsBackPerField(t *testing.T) {
	raw := []byte(`{
		"location_name": "Sunspire",
		"day": "seven",
		"money": 4321,
		"cargo": {"Tea": 3},
		"cargo_capacity": null,
		"news_history": "not a list",
		"net_worth_history": [[1, 10000], [2, 10100]],
		"active_event": {"good": "Spices", "modifier": 1.35, "expires_on": 10}
	}`)
	doc, err := DecodeDocument(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc.Day != 1 {
		t.Fatalf("malformed day got %d want default 1", doc.Day)
	}
	if doc.Money != 4321 || doc.Cargo["Tea"] != 3 {
		t.Fatalf("money=%d tea=%d", doc.Money, doc.Cargo["Tea"])
	}
	if doc.CargoCapacity != StartingCapacity {
		t.Fatalf("null capacity got %d", doc.CargoCapacity)
	}
	if doc.NewsHistory != nil {
		t.Fatalf("malformed news history kept: %v", doc.NewsHistory)
	}
	if len(doc.NetWorthHistory) != 2 || doc.NetWorthHistory[1].Value != 10100 {
		t.Fatalf("net worth history %v", doc.NetWorthHistory)
	}
	if doc.ActiveEvent == nil || doc.ActiveEvent.ExpiresOn != 10 {
		t.Fatalf("active event %+v", doc.ActiveEvent)
	}
}

func TestDecodeDocumentAcceptsOlderKeys(t *testing.T) {
	doc, err := DecodeDocument([]byte(`{"city": "Irondeep", "news_event": {"good": "Iron", "modifier": 0.6, "expires_on": 4}}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc.LocationName != "Irondeep" || doc.ActiveEvent == nil || doc.ActiveEvent.Good != "Iron" {
		t.Fatalf("older keys not read: %+v", doc)
	}
}

func TestDecodeDocumentRejectsStructuralFailures(t *testing.T) {
	for _, raw := range []string{``, `{`, `[]`, `null`, `{"day": 3}`} {
		if _, err := DecodeDocument([]byte(raw)); !errors.Is(err, ErrCorruptSave) {
			t.Fatalf("%q: got %v want ErrCorruptSave", raw, err)
		}
	}
}

func TestRankScores(t *testing.T) {
	var board []ScoreEntry
	for i := 0; i < 30; i++ {
		board, _ = RankScores(board, ScoreEntry{CharterID: string(rune('a' + i)), NetWorth: i * 100}, ScoreboardLimit)
	}
	if len(board) != ScoreboardLimit {
		t.Fatalf("len %d want %d", len(board), ScoreboardLimit)
	}
	for i := 1; i < len(board); i++ {
		if board[i].NetWorth > board[i-1].NetWorth {
			t.Fatalf("not sorted at %d", i)
		}
	}
	if board[0].NetWorth != 2900 {
		t.Fatalf("top got %d", board[0].NetWorth)
	}
	if _, added := RankScores(board, ScoreEntry{CharterID: board[3].CharterID, NetWorth: 1e6}, ScoreboardLimit); added {
		t.Fatalf("duplicate charter entry added")
	}
}
