package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"tradefrontier/internal/game"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

const replayWindow = 64

// Server exposes one charter over HTTP. Requests are serialized onto the
// session because it is single threaded.
type Server struct {
	log *slog.Logger
	mux *chi.Mux

	mu      sync.Mutex
	session *game.Session
	replays map[string]game.Status
	order   []string
}

func New(logger *slog.Logger, session *game.Session) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		log:     logger,
		mux:     chi.NewRouter(),
		session: session,
		replays: make(map[string]game.Status),
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	r := s.mux
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Get("/charter", s.handleCharter)
		r.Get("/chart", s.handleChart)
		r.Get("/news", s.handleNews)
		r.Get("/locations", s.handleLocations)
		r.Get("/scores", s.handleScores)

		r.Post("/travel", s.handleTravel)
		r.Post("/buy", s.handleTrade(true))
		r.Post("/sell", s.handleTrade(false))
		r.Post("/rest", s.handleRest)
		r.Post("/wait", s.handleWait)
		r.Post("/upgrade", s.handleUpgrade)
		r.Post("/save", s.handleSave)
		r.Post("/restart", s.handleRestart)
		r.Post("/chart", s.handleSelectChart)
	})
}

func (s *Server) handleCharter(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.session.Status())
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	window := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("window")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "window must be an integer")
			return
		}
		window = n
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.session.Chart(window))
}

func (s *Server) handleNews(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.session.Status()
	writeJSON(w, http.StatusOK, map[string]any{
		"ticker":    st.Ticker,
		"headlines": s.session.News(),
	})
}

func (s *Server) handleLocations(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"routes": s.session.Status().Routes})
}

func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = n
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out, err := s.session.Scores(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if out == nil {
		out = []game.ScoreEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"scores": out})
}

func (s *Server) handleTravel(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Location string `json:"location"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.command(w, r, func(ctx context.Context) error {
		return s.session.Travel(ctx, in.Location)
	})
}

func (s *Server) handleTrade(buy bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Good string `json:"good"`
			Qty  int    `json:"qty"`
		}
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.command(w, r, func(ctx context.Context) error {
			if buy {
				return s.session.Buy(ctx, in.Good, in.Qty)
			}
			return s.session.Sell(ctx, in.Good, in.Qty)
		})
	}
}

func (s *Server) handleRest(w http.ResponseWriter, r *http.Request) {
	s.command(w, r, s.session.Rest)
}

func (s *Server) handleWait(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Days int `json:"days"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.command(w, r, func(ctx context.Context) error {
		_, err := s.session.AdvanceDays(ctx, in.Days)
		return err
	})
}

func (s *Server) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	s.command(w, r, s.session.UpgradeCargo)
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	s.command(w, r, func(ctx context.Context) error {
		s.session.Save(ctx)
		return nil
	})
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	s.command(w, r, func(ctx context.Context) error {
		s.session.Restart(ctx)
		return nil
	})
}

func (s *Server) handleSelectChart(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Delta int `json:"delta"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.command(w, r, func(ctx context.Context) error {
		s.session.SelectChart(ctx, in.Delta)
		return nil
	})
}

// command runs fn under the session lock and answers with the charter status.
// A repeated Idempotency-Key gets the first answer back without running fn.
func (s *Server) command(w http.ResponseWriter, r *http.Request, fn func(context.Context) error) {
	key := idempotencyKey(r)
	s.mu.Lock()
	defer s.mu.Unlock()

	if st, ok := s.replays[key]; ok {
		w.Header().Set("Idempotent-Replay", "true")
		writeJSON(w, http.StatusOK, st)
		return
	}
	if err := fn(r.Context()); err != nil {
		s.log.Debug("command rejected", "path", r.URL.Path, "err", err)
		writeDomainError(w, err)
		return
	}
	st := s.session.Status()
	s.remember(key, st)
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) remember(key string, st game.Status) {
	s.replays[key] = st
	s.order = append(s.order, key)
	if len(s.order) > replayWindow {
		delete(s.replays, s.order[0])
		s.order = s.order[1:]
	}
}

func writeDomainError(w http.ResponseWriter, err error) {
	msg := err.Error()
	var rej *game.Rejection
	if errors.As(err, &rej) {
		msg = rej.Message
	}
	switch {
	case errors.Is(err, game.ErrCharterClosed):
		writeError(w, http.StatusConflict, msg)
	case errors.Is(err, game.ErrUnknownGood), errors.Is(err, game.ErrUnknownLocation):
		writeError(w, http.StatusNotFound, msg)
	case errors.Is(err, game.ErrInsufficientFunds), errors.Is(err, game.ErrCargoFull),
		errors.Is(err, game.ErrNoStock), errors.Is(err, game.ErrAlreadyThere),
		errors.Is(err, game.ErrInvalidQuantity):
		writeError(w, http.StatusBadRequest, msg)
	default:
		writeError(w, http.StatusInternalServerError, msg)
	}
}

func decodeJSON(r *http.Request, out any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": strings.TrimSpace(message)})
}

func idempotencyKey(r *http.Request) string {
	key := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	if key != "" {
		return key
	}
	return uuid.NewString()
}
