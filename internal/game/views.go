package game

import (
	"context"

	"tradefrontier/internal/market"
)

func (s *Session) Status() Status {
	c := s.c
	st := Status{
		CharterID:     c.id,
		Day:           c.day,
		MaxDays:       MaxDays,
		Money:         c.money,
		NetWorth:      s.netWorth(),
		Location:      c.location.Name,
		CargoLoad:     s.cargoLoad(),
		CargoCapacity: c.capacity,
		Cargo:         copyCounts(c.cargo),
		Message:       c.message,
		Ticker:        c.news.Ticker(c.day),
		GameOver:      c.gameOver,
		Chart:         s.Chart(0),
	}
	for _, g := range market.Goods() {
		st.Quotes = append(st.Quotes, Quote{
			Good:  g.Name,
			Price: c.prices[g.Name],
			Bulk:  g.Bulk,
			Held:  c.cargo[g.Name],
		})
	}
	for _, loc := range s.registry.All() {
		r := Route{Location: loc.Name, Charm: loc.Charm, Current: loc == c.location}
		if !r.Current {
			r.Days = c.location.TravelTime(loc)
			r.Cost = c.location.TravelCost(loc)
		}
		st.Routes = append(st.Routes, r)
	}
	return st
}

// Chart returns the selected series at the current location, padded so it
// always has at least two points. window <= 0 returns the whole series.
func (s *Session) Chart(window int) Chart {
	c := s.c
	out := Chart{Option: c.chartOption, Options: ChartOptions()}
	if c.chartOption == NetWorthOption {
		out.Points = market.Window(c.history.NetWorth(), window, s.netWorth(), c.day)
		return out
	}
	baseline := s.netWorth()
	if g, err := market.LookupGood(c.chartOption); err == nil {
		baseline = g.BasePrice
	}
	out.Points = market.Window(c.history.Prices(c.location.Name, c.chartOption), window, baseline, c.day)
	return out
}

// News returns the recorded headlines, newest first.
func (s *Session) News() []string {
	out := make([]string, 0, len(s.c.newsHistory))
	for i := len(s.c.newsHistory) - 1; i >= 0; i-- {
		out = append(out, s.c.newsHistory[i])
	}
	return out
}

func (s *Session) Scores(ctx context.Context, limit int) ([]ScoreEntry, error) {
	if s.ledger == nil {
		return nil, nil
	}
	if limit <= 0 || limit > ScoreboardLimit {
		limit = ScoreboardLimit
	}
	return s.ledger.TopScores(ctx, limit)
}

// Prices is today's board at the current location.
func (s *Session) Prices() market.Board {
	out := make(market.Board, len(s.c.prices))
	for k, v := range s.c.prices {
		out[k] = v
	}
	return out
}

func (s *Session) Locations() []*market.Location {
	return s.registry.All()
}
