package cli

import (
	"context"

	"tradefrontier/internal/game"
)

// Trader is what the frontier commands drive: a local session or the API.
type Trader interface {
	Status(ctx context.Context) (game.Status, error)
	Travel(ctx context.Context, location string) (game.Status, error)
	Buy(ctx context.Context, good string, qty int) (game.Status, error)
	Sell(ctx context.Context, good string, qty int) (game.Status, error)
	Rest(ctx context.Context) (game.Status, error)
	Wait(ctx context.Context, days int) (game.Status, error)
	Upgrade(ctx context.Context) (game.Status, error)
	Save(ctx context.Context) (game.Status, error)
	Restart(ctx context.Context) (game.Status, error)
	SelectChart(ctx context.Context, delta int) (game.Status, error)
	Chart(ctx context.Context, window int) (game.Chart, error)
	News(ctx context.Context) (string, []string, error)
	Routes(ctx context.Context) ([]game.Route, error)
	Scores(ctx context.Context, limit int) ([]game.ScoreEntry, error)
}

// Local runs commands against an in-process session.
type Local struct {
	Session *game.Session
}

var (
	_ Trader = (*Local)(nil)
	_ Trader = (*Client)(nil)
)

func (l *Local) Status(context.Context) (game.Status, error) {
	return l.Session.Status(), nil
}

func (l *Local) Travel(ctx context.Context, location string) (game.Status, error) {
	return l.result(l.Session.Travel(ctx, location))
}

func (l *Local) Buy(ctx context.Context, good string, qty int) (game.Status, error) {
	return l.result(l.Session.Buy(ctx, good, qty))
}

func (l *Local) Sell(ctx context.Context, good string, qty int) (game.Status, error) {
	return l.result(l.Session.Sell(ctx, good, qty))
}

func (l *Local) Rest(ctx context.Context) (game.Status, error) {
	return l.result(l.Session.Rest(ctx))
}

func (l *Local) Wait(ctx context.Context, days int) (game.Status, error) {
	_, err := l.Session.AdvanceDays(ctx, days)
	return l.result(err)
}

func (l *Local) Upgrade(ctx context.Context) (game.Status, error) {
	return l.result(l.Session.UpgradeCargo(ctx))
}

func (l *Local) Save(ctx context.Context) (game.Status, error) {
	l.Session.Save(ctx)
	return l.Session.Status(), nil
}

func (l *Local) Restart(ctx context.Context) (game.Status, error) {
	l.Session.Restart(ctx)
	return l.Session.Status(), nil
}

func (l *Local) SelectChart(ctx context.Context, delta int) (game.Status, error) {
	l.Session.SelectChart(ctx, delta)
	return l.Session.Status(), nil
}

func (l *Local) Chart(_ context.Context, window int) (game.Chart, error) {
	return l.Session.Chart(window), nil
}

func (l *Local) News(context.Context) (string, []string, error) {
	return l.Session.Status().Ticker, l.Session.News(), nil
}

func (l *Local) Routes(context.Context) ([]game.Route, error) {
	return l.Session.Status().Routes, nil
}

func (l *Local) Scores(ctx context.Context, limit int) ([]game.ScoreEntry, error) {
	return l.Session.Scores(ctx, limit)
}

func (l *Local) result(err error) (game.Status, error) {
	return l.Session.Status(), err
}
