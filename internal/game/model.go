package game

import (
	"errors"

	"tradefrontier/internal/market"
)

const (
	StartingMoney    = 10_000
	StartingCapacity = 32
	MaxDays          = 64

	UpgradeCost  = 260
	UpgradeSpace = 4

	NewsHistoryLimit = 12
	ScoreboardLimit  = 25

	NetWorthOption = "Net Worth"

	welcomeMessage = "Welcome to Trade Frontier. Pick a destination to travel!"
	expiredMessage = "Your trading charter expires. Use Restart to begin anew."
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrCargoFull         = errors.New("cargo hold is full")
	ErrNoStock           = errors.New("no stock to sell")
	ErrAlreadyThere      = errors.New("already at destination")
	ErrCharterClosed     = errors.New("charter has expired")
	ErrInvalidQuantity   = errors.New("quantity must be positive")
	ErrUnknownGood       = market.ErrUnknownGood
	ErrUnknownLocation   = market.ErrUnknownLocation
	ErrNoSave            = errors.New("no saved charter")
	ErrCorruptSave       = errors.New("saved charter is corrupt")
)

// Rejection is a refused command. The charter is unchanged apart from its
// message, which carries the same text.
type Rejection struct {
	Err     error
	Message string
}

func (r *Rejection) Error() string { return r.Message }

func (r *Rejection) Unwrap() error { return r.Err }

// ChartOptions lists every series the chart can show, goods first.
func ChartOptions() []string {
	return append(market.GoodNames(), NetWorthOption)
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
