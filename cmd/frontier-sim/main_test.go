package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"
)

func runSim(t *testing.T, seed int64, days int) string {
	t.Helper()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := simulate(context.Background(), &buf, logger, seed, days, 0); err != nil {
		t.Fatalf("simulate: %v", err)
	}
	return buf.String()
}

func TestSimulateIsReproducible(t *testing.T) {
	a := runSim(t, 42, 20)
	b := runSim(t, 42, 20)
	if a != b {
		t.Fatalf("same seed produced different output")
	}
	lines := strings.Split(strings.TrimSpace(a), "\n")
	if len(lines) != 21 {
		t.Fatalf("got %d lines want 21", len(lines))
	}
	var last dayReport
	if err := json.Unmarshal([]byte(lines[len(lines)-1]), &last); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if last.Day != 21 {
		t.Fatalf("got day %d want 21", last.Day)
	}
}

func TestSimulateStopsAtExpiry(t *testing.T) {
	out := runSim(t, 3, 500)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	var last dayReport
	if err := json.Unmarshal([]byte(lines[len(lines)-1]), &last); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !last.GameOver {
		t.Fatalf("expected the final line to be game over, got day %d", last.Day)
	}
}
