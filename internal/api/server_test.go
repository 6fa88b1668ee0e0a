package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"tradefrontier/internal/game"
	"tradefrontier/internal/market"
	"tradefrontier/internal/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	session := game.Open(context.Background(), game.Options{
		Store:   store.NewSaveFile(dir),
		Ledger:  store.NewFileLedger(dir),
		Entropy: market.Stream(7),
		Logger:  logger,
	})
	return New(logger, session)
}

func do(t *testing.T, s *Server, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeStatus(t *testing.T, rec *httptest.ResponseRecorder) game.Status {
	t.Helper()
	var st game.Status
	if err := json.Unmarshal(rec.Body.Bytes(), &st); err != nil {
		t.Fatalf("decode status: %v (%s)", err, rec.Body.String())
	}
	return st
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var out struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	return out.Error
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("got %d want 200", rec.Code)
	}
}

func TestCharterStartsInHarborlight(t *testing.T) {
	s := newTestServer(t)
	st := decodeStatus(t, do(t, s, http.MethodGet, "/v1/charter", "", nil))
	if st.Day != 1 || st.Money != game.StartingMoney || st.Location != "Harborlight" {
		t.Fatalf("unexpected start: day=%d money=%d location=%s", st.Day, st.Money, st.Location)
	}
	if len(st.Quotes) != len(market.Goods()) {
		t.Fatalf("got %d quotes want %d", len(st.Quotes), len(market.Goods()))
	}
}

func TestBuyAndRejections(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/v1/buy", `{"good":"Tea","qty":2}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("buy: got %d want 200 (%s)", rec.Code, rec.Body.String())
	}
	if st := decodeStatus(t, rec); st.Cargo["Tea"] != 2 {
		t.Fatalf("got %d tea want 2", st.Cargo["Tea"])
	}

	cases := []struct {
		name string
		path string
		body string
		code int
	}{
		{"unknown good", "/v1/buy", `{"good":"Opium","qty":1}`, http.StatusNotFound},
		{"zero qty", "/v1/buy", `{"good":"Tea","qty":0}`, http.StatusBadRequest},
		{"no stock", "/v1/sell", `{"good":"Gems","qty":1}`, http.StatusBadRequest},
		{"unknown field", "/v1/buy", `{"good":"Tea","qty":1,"price":1}`, http.StatusBadRequest},
		{"already there", "/v1/travel", `{"location":"Harborlight"}`, http.StatusBadRequest},
		{"unknown port", "/v1/travel", `{"location":"Atlantis"}`, http.StatusNotFound},
	}
	for _, tc := range cases {
		rec := do(t, s, http.MethodPost, tc.path, tc.body, nil)
		if rec.Code != tc.code {
			t.Fatalf("%s: got %d want %d (%s)", tc.name, rec.Code, tc.code, rec.Body.String())
		}
	}
	if msg := errorMessage(t, do(t, s, http.MethodPost, "/v1/travel", `{"location":"Harborlight"}`, nil)); msg != "Already in Harborlight." {
		t.Fatalf("got %q want %q", msg, "Already in Harborlight.")
	}
}

func TestIdempotentReplay(t *testing.T) {
	s := newTestServer(t)
	headers := map[string]string{"Idempotency-Key": "rest-1"}

	first := decodeStatus(t, do(t, s, http.MethodPost, "/v1/rest", "", headers))
	rec := do(t, s, http.MethodPost, "/v1/rest", "", headers)
	second := decodeStatus(t, rec)
	if first.Day != 2 || second.Day != 2 {
		t.Fatalf("got days %d/%d want 2/2", first.Day, second.Day)
	}
	if rec.Header().Get("Idempotent-Replay") != "true" {
		t.Fatalf("expected replay header")
	}
	if st := decodeStatus(t, do(t, s, http.MethodPost, "/v1/rest", "", nil)); st.Day != 3 {
		t.Fatalf("got day %d want 3", st.Day)
	}
}

func TestExpiredCharterIsClosed(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/v1/wait", `{"days":64}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("wait: got %d want 200 (%s)", rec.Code, rec.Body.String())
	}
	if st := decodeStatus(t, rec); !st.GameOver {
		t.Fatalf("expected game over at day %d", st.Day)
	}
	if rec := do(t, s, http.MethodPost, "/v1/rest", "", nil); rec.Code != http.StatusConflict {
		t.Fatalf("rest after expiry: got %d want 409", rec.Code)
	}
	if rec := do(t, s, http.MethodPost, "/v1/save", "", nil); rec.Code != http.StatusOK {
		t.Fatalf("save after expiry: got %d want 200", rec.Code)
	}

	var scores struct {
		Scores []game.ScoreEntry `json:"scores"`
	}
	if err := json.Unmarshal(do(t, s, http.MethodGet, "/v1/scores", "", nil).Body.Bytes(), &scores); err != nil {
		t.Fatalf("decode scores: %v", err)
	}
	if len(scores.Scores) != 1 {
		t.Fatalf("got %d scores want 1", len(scores.Scores))
	}

	st := decodeStatus(t, do(t, s, http.MethodPost, "/v1/restart", "", nil))
	if st.GameOver || st.Day != 1 {
		t.Fatalf("restart: got day=%d over=%v", st.Day, st.GameOver)
	}
}

func TestChartWindowAndSelection(t *testing.T) {
	s := newTestServer(t)
	if rec := do(t, s, http.MethodGet, "/v1/chart?window=abc", "", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("got %d want 400", rec.Code)
	}
	st := decodeStatus(t, do(t, s, http.MethodPost, "/v1/chart", `{"delta":1}`, nil))
	if st.Chart.Option != game.ChartOptions()[1] {
		t.Fatalf("got option %q want %q", st.Chart.Option, game.ChartOptions()[1])
	}

	var chart game.Chart
	if err := json.Unmarshal(do(t, s, http.MethodGet, "/v1/chart?window=5", "", nil).Body.Bytes(), &chart); err != nil {
		t.Fatalf("decode chart: %v", err)
	}
	if len(chart.Points) < 2 {
		t.Fatalf("got %d points want at least 2", len(chart.Points))
	}
}

func TestQueryIntegersAreValidated(t *testing.T) {
	s := newTestServer(t)
	for _, path := range []string{"/v1/chart?window=abc", "/v1/scores?limit=abc"} {
		rec := do(t, s, http.MethodGet, path, "", nil)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: got %d want 400", path, rec.Code)
		}
	}
	if rec := do(t, s, http.MethodGet, "/v1/scores?limit=3", "", nil); rec.Code != http.StatusOK {
		t.Fatalf("valid limit: got %d want 200", rec.Code)
	}
	if rec := do(t, s, http.MethodGet, "/v1/scores", "", nil); rec.Code != http.StatusOK {
		t.Fatalf("no limit: got %d want 200", rec.Code)
	}
}
