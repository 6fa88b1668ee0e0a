package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"tradefrontier/internal/game"

	"github.com/google/uuid"
)

// APIError is a non-2xx answer from the frontier API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api status %d", e.Status)
	}
	return e.Message
}

// Client drives a charter hosted by frontier-api.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Retries int
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP: &http.Client{
			Timeout: 30 * time.Second,
		},
		Retries: 1,
	}
}

func (c *Client) Status(ctx context.Context) (game.Status, error) {
	var out game.Status
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/charter", nil, &out, "")
	return out, err
}

func (c *Client) Travel(ctx context.Context, location string) (game.Status, error) {
	return c.command(ctx, "/v1/travel", map[string]any{"location": location})
}

func (c *Client) Buy(ctx context.Context, good string, qty int) (game.Status, error) {
	return c.command(ctx, "/v1/buy", map[string]any{"good": good, "qty": qty})
}

func (c *Client) Sell(ctx context.Context, good string, qty int) (game.Status, error) {
	return c.command(ctx, "/v1/sell", map[string]any{"good": good, "qty": qty})
}

func (c *Client) Rest(ctx context.Context) (game.Status, error) {
	return c.command(ctx, "/v1/rest", nil)
}

func (c *Client) Wait(ctx context.Context, days int) (game.Status, error) {
	return c.command(ctx, "/v1/wait", map[string]any{"days": days})
}

func (c *Client) Upgrade(ctx context.Context) (game.Status, error) {
	return c.command(ctx, "/v1/upgrade", nil)
}

func (c *Client) Save(ctx context.Context) (game.Status, error) {
	return c.command(ctx, "/v1/save", nil)
}

func (c *Client) Restart(ctx context.Context) (game.Status, error) {
	return c.command(ctx, "/v1/restart", nil)
}

func (c *Client) SelectChart(ctx context.Context, delta int) (game.Status, error) {
	return c.command(ctx, "/v1/chart", map[string]any{"delta": delta})
}

func (c *Client) Chart(ctx context.Context, window int) (game.Chart, error) {
	var out game.Chart
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/chart?window="+strconv.Itoa(window), nil, &out, "")
	return out, err
}

func (c *Client) News(ctx context.Context) (string, []string, error) {
	var out struct {
		Ticker    string   `json:"ticker"`
		Headlines []string `json:"headlines"`
	}
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/news", nil, &out, "")
	return out.Ticker, out.Headlines, err
}

func (c *Client) Routes(ctx context.Context) ([]game.Route, error) {
	var out struct {
		Routes []game.Route `json:"routes"`
	}
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/locations", nil, &out, "")
	return out.Routes, err
}

func (c *Client) Scores(ctx context.Context, limit int) ([]game.ScoreEntry, error) {
	var out struct {
		Scores []game.ScoreEntry `json:"scores"`
	}
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/scores?limit="+strconv.Itoa(limit), nil, &out, "")
	return out.Scores, err
}

// command posts one charter command. Retries reuse the idempotency key so a
// lost response never applies the command twice.
func (c *Client) command(ctx context.Context, path string, body map[string]any) (game.Status, error) {
	var out game.Status
	err := c.jsonRequest(ctx, http.MethodPost, path, body, &out, uuid.NewString())
	return out, err
}

func (c *Client) jsonRequest(ctx context.Context, method, path string, in any, out any, idem string) error {
	var raw []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		raw = b
	}
	var err error
	for attempt := 0; attempt <= c.Retries; attempt++ {
		err = c.send(ctx, method, path, raw, out, idem)
		var apiErr *APIError
		if err == nil || errors.As(err, &apiErr) || ctx.Err() != nil {
			return err
		}
		if idem == "" && method != http.MethodGet {
			return err
		}
	}
	return err
}

func (c *Client) send(ctx context.Context, method, path string, raw []byte, out any, idem string) error {
	var body io.Reader
	if raw != nil {
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if raw != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if idem != "" {
		req.Header.Set("Idempotency-Key", idem)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var payload struct {
			Error string `json:"error"`
		}
		apiErr := &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(msg))}
		if json.Unmarshal(msg, &payload) == nil && payload.Error != "" {
			apiErr.Message = payload.Error
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
