package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"tradefrontier/internal/api"
	"tradefrontier/internal/game"
	"tradefrontier/internal/market"
)

func newRemote(t *testing.T) *Client {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	session := game.Open(context.Background(), game.Options{
		Entropy: market.Stream(11),
		Logger:  logger,
	})
	srv := httptest.NewServer(api.New(logger, session).Handler())
	t.Cleanup(srv.Close)
	return NewClient(srv.URL + "/")
}

func TestClientDrivesRemoteCharter(t *testing.T) {
	ctx := context.Background()
	c := newRemote(t)

	st, err := c.Status(ctx)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if st.Day != 1 || st.Location != "Harborlight" {
		t.Fatalf("got day=%d location=%s", st.Day, st.Location)
	}

	st, err = c.Rest(ctx)
	if err != nil {
		t.Fatalf("rest: %v", err)
	}
	if st.Day != 2 {
		t.Fatalf("got day %d want 2", st.Day)
	}

	routes, err := c.Routes(ctx)
	if err != nil {
		t.Fatalf("routes: %v", err)
	}
	if len(routes) != len(market.DefaultRegistry().All()) {
		t.Fatalf("got %d routes want %d", len(routes), len(market.DefaultRegistry().All()))
	}

	chart, err := c.Chart(ctx, 4)
	if err != nil {
		t.Fatalf("chart: %v", err)
	}
	if len(chart.Points) < 2 {
		t.Fatalf("got %d points want at least 2", len(chart.Points))
	}
}

func TestClientSurfacesRejections(t *testing.T) {
	c := newRemote(t)
	_, err := c.Sell(context.Background(), "Silk", 3)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("got %v want APIError", err)
	}
	if apiErr.Status != http.StatusBadRequest {
		t.Fatalf("got status %d want 400", apiErr.Status)
	}
	if apiErr.Message != "No Silk to sell." {
		t.Fatalf("got %q want %q", apiErr.Message, "No Silk to sell.")
	}
}

func TestLocalMatchesSessionStatus(t *testing.T) {
	ctx := context.Background()
	session := game.Open(ctx, game.Options{
		Entropy: market.Stream(11),
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	var tr Trader = &Local{Session: session}

	st, err := tr.Buy(ctx, "tea", 1)
	if err != nil {
		t.Fatalf("buy: %v", err)
	}
	if st.Cargo["Tea"] != 1 {
		t.Fatalf("got %d tea want 1", st.Cargo["Tea"])
	}
	if _, err := tr.Travel(ctx, "harborlight"); !errors.Is(err, game.ErrAlreadyThere) {
		t.Fatalf("got %v want ErrAlreadyThere", err)
	}
}
