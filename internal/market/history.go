package market

import (
	"encoding/json"
	"fmt"
	"sort"
)

const (
	PriceHistoryDays    = 14
	NetWorthHistoryDays = 40
)

// HistoryPoint encodes as a two-element [day, value] array.
type HistoryPoint struct {
	Day   int
	Value int
}

func (p HistoryPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{p.Day, p.Value})
}

func (p *HistoryPoint) UnmarshalJSON(raw []byte) error {
	var pair []float64
	if err := json.Unmarshal(raw, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("history point: want 2 elements, got %d", len(pair))
	}
	p.Day = int(pair[0])
	p.Value = int(pair[1])
	return nil
}

// Series is a bounded time series holding at most one point per day, oldest
// evicted first.
type Series struct {
	limit  int
	points []HistoryPoint
}

func NewSeries(limit int) *Series {
	if limit < 1 {
		limit = 1
	}
	return &Series{limit: limit, points: make([]HistoryPoint, 0, limit)}
}

// RestoreSeries sorts by day, keeps the last value written for each day and
// trims to the newest limit points.
func RestoreSeries(limit int, points []HistoryPoint) *Series {
	s := NewSeries(limit)
	sorted := make([]HistoryPoint, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Day < sorted[j].Day })
	for _, p := range sorted {
		s.Record(p.Day, p.Value)
	}
	return s
}

// Record overwrites the last point when it has the same day and appends
// otherwise. Days before the last point are ignored.
func (s *Series) Record(day, value int) bool {
	if n := len(s.points); n > 0 {
		last := s.points[n-1]
		switch {
		case day == last.Day:
			s.points[n-1].Value = value
			return true
		case day < last.Day:
			return false
		}
	}
	s.points = append(s.points, HistoryPoint{Day: day, Value: value})
	if len(s.points) > s.limit {
		s.points = append(s.points[:0], s.points[len(s.points)-s.limit:]...)
	}
	return true
}

func (s *Series) Len() int { return len(s.points) }

func (s *Series) Points() []HistoryPoint {
	out := make([]HistoryPoint, len(s.points))
	copy(out, s.points)
	return out
}

// Window returns the newest n points (all when n <= 0). Charts need at least
// two points, so a lone point gets a baseline the day before, and an empty
// series becomes two baseline points bracketing day.
func Window(points []HistoryPoint, n, baseline, day int) []HistoryPoint {
	switch len(points) {
	case 0:
		start := day - 1
		if start < 1 {
			start = 1
		}
		return []HistoryPoint{{Day: start, Value: baseline}, {Day: day, Value: baseline}}
	case 1:
		p := points[0]
		return []HistoryPoint{{Day: p.Day - 1, Value: baseline}, p}
	}
	out := make([]HistoryPoint, len(points))
	copy(out, points)
	if n > 0 && n < 2 {
		n = 2
	}
	if n > 0 && len(out) > n {
		out = out[len(out)-n:]
	}
	return out
}

// Ledger holds price series per location and good, plus net worth.
type Ledger struct {
	prices   map[string]map[string]*Series
	netWorth *Series
}

func NewLedger() *Ledger {
	return &Ledger{
		prices:   make(map[string]map[string]*Series),
		netWorth: NewSeries(NetWorthHistoryDays),
	}
}

func RestoreLedger(prices map[string]map[string][]HistoryPoint, netWorth []HistoryPoint) *Ledger {
	l := NewLedger()
	for loc, goods := range prices {
		for good, pts := range goods {
			if len(pts) == 0 {
				continue
			}
			l.locationSeries(loc)[good] = RestoreSeries(PriceHistoryDays, pts)
		}
	}
	l.netWorth = RestoreSeries(NetWorthHistoryDays, netWorth)
	return l
}

func (l *Ledger) RecordBoard(location string, day int, board Board) {
	series := l.locationSeries(location)
	for good, price := range board {
		s, ok := series[good]
		if !ok {
			s = NewSeries(PriceHistoryDays)
			series[good] = s
		}
		s.Record(day, price)
	}
}

func (l *Ledger) RecordNetWorth(day, value int) {
	l.netWorth.Record(day, value)
}

func (l *Ledger) Prices(location, good string) []HistoryPoint {
	s, ok := l.prices[location][good]
	if !ok {
		return nil
	}
	return s.Points()
}

func (l *Ledger) NetWorth() []HistoryPoint {
	return l.netWorth.Points()
}

// Export copies the ledger into plain maps for persistence.
func (l *Ledger) Export() (map[string]map[string][]HistoryPoint, []HistoryPoint) {
	prices := make(map[string]map[string][]HistoryPoint, len(l.prices))
	for loc, goods := range l.prices {
		m := make(map[string][]HistoryPoint, len(goods))
		for good, s := range goods {
			m[good] = s.Points()
		}
		prices[loc] = m
	}
	return prices, l.netWorth.Points()
}

func (l *Ledger) locationSeries(location string) map[string]*Series {
	m, ok := l.prices[location]
	if !ok {
		m = make(map[string]*Series)
		l.prices[location] = m
	}
	return m
}
