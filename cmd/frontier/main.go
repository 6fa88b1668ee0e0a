package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	cl "tradefrontier/internal/cli"
	"tradefrontier/internal/config"
	"tradefrontier/internal/game"
	"tradefrontier/internal/store"

	"github.com/spf13/cobra"
)

type app struct {
	cfg     config.Config
	remote  bool
	apiBase string
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	a := &app{cfg: cfg, apiBase: cfg.APIBaseURL}

	root := &cobra.Command{
		Use:          "frontier",
		Short:        "Trade Frontier: buy low, sell high, beat the calendar",
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVar(&a.remote, "remote", false, "play the charter hosted by frontier-api")
	root.PersistentFlags().StringVar(&a.apiBase, "api", cfg.APIBaseURL, "frontier-api base URL for --remote")

	root.AddCommand(
		newStatusCmd(a),
		newTravelCmd(a),
		newTradeCmd(a, "buy"),
		newTradeCmd(a, "sell"),
		newRestCmd(a),
		newWaitCmd(a),
		newUpgradeCmd(a),
		newSaveCmd(a),
		newRestartCmd(a),
		newChartCmd(a),
		newNewsCmd(a),
		newLocationsCmd(a),
		newScoresCmd(a),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// run opens the trader for one command and closes whatever it opened.
func (a *app) run(cmd *cobra.Command, fn func(ctx context.Context, tr cl.Trader) error) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	if a.remote {
		return fn(ctx, cl.NewClient(strings.TrimRight(strings.TrimSpace(a.apiBase), "/")))
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: a.cfg.SlogLevel()}))
	ledger, closeLedger, err := store.OpenLedger(ctx, a.cfg)
	if err != nil {
		logger.Warn("score ledger unavailable", "backend", a.cfg.ScoreBackend, "err", err)
		ledger = store.NewFileLedger(a.cfg.DataDir)
	}
	defer closeLedger()

	session := game.Open(ctx, game.Options{
		Store:       store.NewSaveFile(a.cfg.DataDir),
		Ledger:      ledger,
		Logger:      logger,
		SaveTimeout: a.cfg.SaveTimeout,
	})
	return fn(ctx, &cl.Local{Session: session})
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the charter, today's market and routes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func(ctx context.Context, tr cl.Trader) error {
				st, err := tr.Status(ctx)
				if err != nil {
					return err
				}
				renderStatus(st)
				return nil
			})
		},
	}
}

func newTravelCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "travel [location]",
		Short: "Sail to another port",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dest, err := argOrPrompt(args, 0, "Destination")
			if err != nil {
				return err
			}
			return a.run(cmd, func(ctx context.Context, tr cl.Trader) error {
				return renderCommand(tr.Travel(ctx, dest))
			})
		},
	}
}

func newTradeCmd(a *app, side string) *cobra.Command {
	short := "Buy crates at today's price"
	if side == "sell" {
		short = "Sell crates at today's price"
	}
	return &cobra.Command{
		Use:   side + " [good] [qty]",
		Short: short,
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			good, err := argOrPrompt(args, 0, "Good")
			if err != nil {
				return err
			}
			qty, err := intFromArgOrPrompt(args, 1, "Crates")
			if err != nil {
				return err
			}
			return a.run(cmd, func(ctx context.Context, tr cl.Trader) error {
				if side == "sell" {
					return renderCommand(tr.Sell(ctx, good, qty))
				}
				return renderCommand(tr.Buy(ctx, good, qty))
			})
		},
	}
}

func newRestCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rest",
		Short: "Spend a day in port",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func(ctx context.Context, tr cl.Trader) error {
				return renderCommand(tr.Rest(ctx))
			})
		},
	}
}

func newWaitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "wait [days]",
		Short: "Let several days pass in port",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			days, err := intFromArgOrPrompt(args, 0, "Days")
			if err != nil {
				return err
			}
			return a.run(cmd, func(ctx context.Context, tr cl.Trader) error {
				return renderCommand(tr.Wait(ctx, days))
			})
		},
	}
}

func newUpgradeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "upgrade",
		Short: fmt.Sprintf("Expand the cargo hold by %d for %d coin", game.UpgradeSpace, game.UpgradeCost),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func(ctx context.Context, tr cl.Trader) error {
				return renderCommand(tr.Upgrade(ctx))
			})
		},
	}
}

func newSaveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "save",
		Short: "Write the charter to disk",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func(ctx context.Context, tr cl.Trader) error {
				st, err := tr.Save(ctx)
				if err != nil {
					return err
				}
				printSuccess(st.Message)
				return nil
			})
		},
	}
}

func newRestartCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "restart",
		Short: "Abandon the charter and start over",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				answer, err := promptChoice("Abandon the current charter?", []string{"yes", "no"}, "no")
				if err != nil {
					return err
				}
				if answer != "yes" {
					printInfo("Charter kept.")
					return nil
				}
			}
			return a.run(cmd, func(ctx context.Context, tr cl.Trader) error {
				return renderCommand(tr.Restart(ctx))
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func newChartCmd(a *app) *cobra.Command {
	var (
		next   bool
		prev   bool
		window int
	)
	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Show the selected price or net worth trend",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func(ctx context.Context, tr cl.Trader) error {
				delta := 0
				if next {
					delta++
				}
				if prev {
					delta--
				}
				if delta != 0 {
					if _, err := tr.SelectChart(ctx, delta); err != nil {
						return err
					}
				}
				chart, err := tr.Chart(ctx, window)
				if err != nil {
					return err
				}
				renderChart(chart)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&next, "next", false, "select the next chart")
	cmd.Flags().BoolVar(&prev, "prev", false, "select the previous chart")
	cmd.Flags().IntVar(&window, "window", 14, "days to show, 0 for all")
	return cmd
}

func newNewsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "news",
		Short: "Show recent headlines",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func(ctx context.Context, tr cl.Trader) error {
				ticker, headlines, err := tr.News(ctx)
				if err != nil {
					return err
				}
				renderNews(ticker, headlines)
				return nil
			})
		},
	}
}

func newLocationsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "locations",
		Short: "List ports with travel time and cost",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func(ctx context.Context, tr cl.Trader) error {
				routes, err := tr.Routes(ctx)
				if err != nil {
					return err
				}
				renderRoutes(routes)
				return nil
			})
		},
	}
}

func newScoresCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "scores",
		Short: "Show the best finished charters",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func(ctx context.Context, tr cl.Trader) error {
				entries, err := tr.Scores(ctx, limit)
				if err != nil {
					return err
				}
				renderScores(entries)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", game.ScoreboardLimit, "entries to show")
	return cmd
}

func argOrPrompt(args []string, idx int, label string) (string, error) {
	if len(args) > idx && strings.TrimSpace(args[idx]) != "" {
		return strings.TrimSpace(args[idx]), nil
	}
	return promptRequired(label)
}

func intFromArgOrPrompt(args []string, idx int, label string) (int, error) {
	if len(args) > idx {
		v, err := strconv.Atoi(strings.TrimSpace(args[idx]))
		if err != nil {
			return 0, fmt.Errorf("%s must be a whole number", strings.ToLower(label))
		}
		return v, nil
	}
	return promptInt(label, 0)
}
