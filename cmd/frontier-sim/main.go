package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tradefrontier/internal/game"
	"tradefrontier/internal/market"

	"github.com/spf13/cobra"
)

type dayReport struct {
	Day      int          `json:"day"`
	Location string       `json:"location"`
	Money    int          `json:"money"`
	NetWorth int          `json:"net_worth"`
	Prices   market.Board `json:"prices"`
	Ticker   string       `json:"ticker,omitempty"`
	GameOver bool         `json:"game_over"`
}

func main() {
	var (
		seed  int64
		days  int
		every time.Duration
	)
	root := &cobra.Command{
		Use:          "frontier-sim",
		Short:        "Replay a seeded charter day by day as JSON lines",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
			return simulate(ctx, os.Stdout, logger, seed, days, every)
		},
	}
	root.Flags().Int64Var(&seed, "seed", 1, "entropy seed for the charter")
	root.Flags().IntVar(&days, "days", game.MaxDays, "days to simulate")
	root.Flags().DurationVar(&every, "every", 0, "pause between days")

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// simulate rests in the starting port and reports every day. The same seed
// always prints the same lines.
func simulate(ctx context.Context, out io.Writer, logger *slog.Logger, seed int64, days int, every time.Duration) error {
	session := game.Open(ctx, game.Options{
		Entropy: market.Stream(seed),
		Logger:  logger,
		Now:     func() time.Time { return time.Unix(0, 0).UTC() },
	})
	enc := json.NewEncoder(out)
	if err := enc.Encode(report(session)); err != nil {
		return err
	}

	var tick <-chan time.Time
	if every > 0 {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		tick = ticker.C
	}

	logger.Info("simulation started", "seed", seed, "days", days)
	for i := 0; i < days; i++ {
		if tick != nil {
			select {
			case <-ctx.Done():
				logger.Info("simulation interrupted", "day", session.Status().Day)
				return nil
			case <-tick:
			}
		}
		if err := session.Rest(ctx); err != nil {
			logger.Info("simulation finished", "day", session.Status().Day, "reason", err.Error())
			return nil
		}
		if err := enc.Encode(report(session)); err != nil {
			return err
		}
		if session.Status().GameOver {
			break
		}
	}
	logger.Info("simulation complete", "day", session.Status().Day)
	return nil
}

func report(s *game.Session) dayReport {
	st := s.Status()
	return dayReport{
		Day:      st.Day,
		Location: st.Location,
		Money:    st.Money,
		NetWorth: st.NetWorth,
		Prices:   s.Prices(),
		Ticker:   st.Ticker,
		GameOver: st.GameOver,
	}
}
