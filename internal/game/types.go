package game

import (
	"time"

	"tradefrontier/internal/market"
)

type Status struct {
	CharterID     string         `json:"charter_id"`
	Day           int            `json:"day"`
	MaxDays       int            `json:"max_days"`
	Money         int            `json:"money"`
	NetWorth      int            `json:"net_worth"`
	Location      string         `json:"location"`
	CargoLoad     int            `json:"cargo_load"`
	CargoCapacity int            `json:"cargo_capacity"`
	Cargo         map[string]int `json:"cargo"`
	Quotes        []Quote        `json:"quotes"`
	Routes        []Route        `json:"routes"`
	Message       string         `json:"message"`
	Ticker        string         `json:"ticker,omitempty"`
	GameOver      bool           `json:"game_over"`
	Chart         Chart          `json:"chart"`
}

type Quote struct {
	Good  string `json:"good"`
	Price int    `json:"price"`
	Bulk  int    `json:"bulk"`
	Held  int    `json:"held"`
}

type Route struct {
	Location string `json:"location"`
	Days     int    `json:"days"`
	Cost     int    `json:"cost"`
	Charm    int    `json:"charm"`
	Current  bool   `json:"current"`
}

type Chart struct {
	Option  string                `json:"option"`
	Options []string              `json:"options"`
	Points  []market.HistoryPoint `json:"points"`
}

// ScoreEntry is one finished charter on the scoreboard.
type ScoreEntry struct {
	ID           string         `json:"id"`
	CharterID    string         `json:"charter_id"`
	Timestamp    time.Time      `json:"timestamp"`
	Day          int            `json:"day"`
	LocationName string         `json:"location_name"`
	NetWorth     int            `json:"net_worth"`
	Money        int            `json:"money"`
	Cargo        map[string]int `json:"cargo"`
}
