package market

import (
	"errors"
	"strings"
)

var ErrUnknownGood = errors.New("unknown good")

// Good is an immutable catalog entry. Bulk is the cargo capacity one unit uses.
type Good struct {
	Name      string `json:"name"`
	BasePrice int    `json:"base_price"`
	Bulk      int    `json:"bulk"`
}

var catalog = []Good{
	{Name: "Spices", BasePrice: 180, Bulk: 1},
	{Name: "Silk", BasePrice: 240, Bulk: 1},
	{Name: "Gems", BasePrice: 420, Bulk: 1},
	{Name: "Tea", BasePrice: 90, Bulk: 1},
	{Name: "Iron", BasePrice: 120, Bulk: 2},
}

// Goods returns the catalog in its fixed order. Draw order for prices follows it.
func Goods() []Good {
	out := make([]Good, len(catalog))
	copy(out, catalog)
	return out
}

func GoodNames() []string {
	out := make([]string, 0, len(catalog))
	for _, g := range catalog {
		out = append(out, g.Name)
	}
	return out
}

// LookupGood matches the exact name first, then case-insensitively.
func LookupGood(name string) (Good, error) {
	name = strings.TrimSpace(name)
	for _, g := range catalog {
		if g.Name == name {
			return g, nil
		}
	}
	for _, g := range catalog {
		if strings.EqualFold(g.Name, name) {
			return g, nil
		}
	}
	return Good{}, ErrUnknownGood
}

func goodIndex(name string) int {
	for i, g := range catalog {
		if g.Name == name {
			return i
		}
	}
	return -1
}
