package market

import (
	"encoding/json"
	"testing"
)

func TestSeriesUpsertAndCap(t *testing.T) {
	s := NewSeries(PriceHistoryDays)
	for day := 1; day <= 30; day++ {
		s.Record(day, day*10)
		s.Record(day, day*10+1)
		if s.Len() > PriceHistoryDays {
			t.Fatalf("len %d exceeds cap", s.Len())
		}
	}
	pts := s.Points()
	if len(pts) != PriceHistoryDays {
		t.Fatalf("got %d points want %d", len(pts), PriceHistoryDays)
	}
	if pts[0].Day != 17 || pts[len(pts)-1].Day != 30 {
		t.Fatalf("unexpected span %d..%d", pts[0].Day, pts[len(pts)-1].Day)
	}
	for i, p := range pts {
		if p.Value != p.Day*10+1 {
			t.Fatalf("day %d: same-day write not kept, value %d", p.Day, p.Value)
		}
		if i > 0 && p.Day <= pts[i-1].Day {
			t.Fatalf("duplicate or unordered day %d", p.Day)
		}
	}
	if s.Record(3, 1) {
		t.Fatalf("stale write accepted")
	}
}

func TestRestoreSeriesSanitizes(t *testing.T) {
	in := []HistoryPoint{{5, 50}, {1, 10}, {5, 55}, {3, 30}}
	s := RestoreSeries(3, in)
	got := s.Points()
	want := []HistoryPoint{{1, 10}, {3, 30}, {5, 55}}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
}

func TestWindowBaselines(t *testing.T) {
	empty := Window(nil, 14, 180, 6)
	if len(empty) != 2 || empty[0] != (HistoryPoint{5, 180}) || empty[1] != (HistoryPoint{6, 180}) {
		t.Fatalf("empty window %v", empty)
	}
	first := Window(nil, 14, 180, 1)
	if first[0].Day != 1 || first[1].Day != 1 {
		t.Fatalf("day-one window %v", first)
	}
	single := Window([]HistoryPoint{{4, 201}}, 14, 180, 4)
	if len(single) != 2 || single[0] != (HistoryPoint{3, 180}) || single[1] != (HistoryPoint{4, 201}) {
		t.Fatalf("single window %v", single)
	}
	many := []HistoryPoint{{1, 1}, {2, 2}, {3, 3}, {4, 4}}
	if got := Window(many, 3, 0, 4); len(got) != 3 || got[0].Day != 2 {
		t.Fatalf("window of 3 got %v", got)
	}
	if got := Window(many, 0, 0, 4); len(got) != 4 {
		t.Fatalf("unbounded window got %v", got)
	}
}

func TestHistoryPointJSON(t *testing.T) {
	raw, err := json.Marshal([]HistoryPoint{{Day: 3, Value: 117}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != "[[3,117]]" {
		t.Fatalf("got %s", raw)
	}
	var back []HistoryPoint
	if err := json.Unmarshal([]byte("[[4, 120.0]]"), &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back[0] != (HistoryPoint{4, 120}) {
		t.Fatalf("got %v", back[0])
	}
	if err := json.Unmarshal([]byte("[[1,2,3]]"), &back); err == nil {
		t.Fatalf("expected error for triple")
	}
}

func TestLedgerExportRoundTrip(t *testing.T) {
	l := NewLedger()
	loc := DefaultRegistry().Start()
	for day := 1; day <= 20; day++ {
		l.RecordBoard(loc.Name, day, BoardFor(loc, day, nil, nil))
		l.RecordNetWorth(day, 10_000+day)
	}
	prices, net := l.Export()
	back := RestoreLedger(prices, net)
	for _, g := range GoodNames() {
		a, b := l.Prices(loc.Name, g), back.Prices(loc.Name, g)
		if len(a) != PriceHistoryDays || len(a) != len(b) {
			t.Fatalf("%s: len %d vs %d", g, len(a), len(b))
		}
		for i := range a {
			if a[i] != b[i] {
				t.Fatalf("%s[%d]: %v vs %v", g, i, a[i], b[i])
			}
		}
	}
	if len(back.NetWorth()) != 20 {
		t.Fatalf("net worth len %d", len(back.NetWorth()))
	}
}
