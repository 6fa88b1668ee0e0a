package game

import (
	"bytes"
	"encoding/json"
	"fmt"

	"tradefrontier/internal/market"
)

// Document is the persisted charter. It carries no version: decoding is
// lenient per field and anything missing or malformed keeps its default.
type Document struct {
	CharterID           string                                      `json:"charter_id"`
	Day                 int                                         `json:"day"`
	Money               int                                         `json:"money"`
	Cargo               map[string]int                              `json:"cargo"`
	CargoCapacity       int                                         `json:"cargo_capacity"`
	LocationName        string                                      `json:"location_name"`
	GameOver            bool                                        `json:"game_over"`
	Message             string                                      `json:"message"`
	TrendPhase          map[string]float64                          `json:"trend_phase"`
	TrendVelocity       map[string]float64                          `json:"trend_velocity"`
	MarketTrend         map[string]float64                          `json:"market_trend"`
	NewsSeed            int64                                       `json:"news_seed"`
	ActiveEvent         *market.NewsEvent                           `json:"active_event,omitempty"`
	NewsHistory         []string                                    `json:"news_history"`
	PriceHistory        map[string]map[string][]market.HistoryPoint `json:"price_history"`
	NetWorthHistory     []market.HistoryPoint                       `json:"net_worth_history"`
	SelectedChartOption string                                      `json:"selected_chart_option"`
	ScoreRecorded       bool                                        `json:"score_recorded"`
}

func defaultDocument() Document {
	return Document{
		Day:           1,
		Money:         StartingMoney,
		Cargo:         map[string]int{},
		CargoCapacity: StartingCapacity,
		TrendPhase:    map[string]float64{},
		TrendVelocity: map[string]float64{},
		MarketTrend:   map[string]float64{},
		PriceHistory:  map[string]map[string][]market.HistoryPoint{},
	}
}

func EncodeDocument(doc Document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

// DecodeDocument fails only when raw is not a JSON object or names no
// location. Location validity is checked on restore.
func DecodeDocument(raw []byte) (Document, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrCorruptSave, err)
	}
	if fields == nil {
		return Document{}, fmt.Errorf("%w: not an object", ErrCorruptSave)
	}

	doc := defaultDocument()
	field(fields, "charter_id", &doc.CharterID)
	field(fields, "day", &doc.Day)
	field(fields, "money", &doc.Money)
	field(fields, "cargo", &doc.Cargo)
	field(fields, "cargo_capacity", &doc.CargoCapacity)
	// "city" and "news_event" are the keys older saves used.
	field(fields, "city", &doc.LocationName)
	field(fields, "location_name", &doc.LocationName)
	field(fields, "game_over", &doc.GameOver)
	field(fields, "message", &doc.Message)
	field(fields, "trend_phase", &doc.TrendPhase)
	field(fields, "trend_velocity", &doc.TrendVelocity)
	field(fields, "market_trend", &doc.MarketTrend)
	field(fields, "news_seed", &doc.NewsSeed)
	field(fields, "news_event", &doc.ActiveEvent)
	field(fields, "active_event", &doc.ActiveEvent)
	field(fields, "news_history", &doc.NewsHistory)
	field(fields, "price_history", &doc.PriceHistory)
	field(fields, "net_worth_history", &doc.NetWorthHistory)
	field(fields, "selected_chart_option", &doc.SelectedChartOption)
	field(fields, "score_recorded", &doc.ScoreRecorded)

	if doc.LocationName == "" {
		return Document{}, fmt.Errorf("%w: missing location", ErrCorruptSave)
	}
	return doc, nil
}

func field[T any](fields map[string]json.RawMessage, key string, dst *T) {
	raw, ok := fields[key]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return
	}
	*dst = v
}
