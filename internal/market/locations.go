package market

import (
	"errors"
	"math"
	"strings"
)

var ErrUnknownLocation = errors.New("unknown location")

const (
	travelUnitsPerDay = 185.0
	travelBaseCost    = 18
	minTravelCost     = 12
)

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Location is immutable after NewLocation. Seed roots every price draw made
// for the location and must stay stable across releases so saves replay.
type Location struct {
	Name      string             `json:"name"`
	Position  Point              `json:"position"`
	PriceBias map[string]float64 `json:"price_bias"`
	Charm     int                `json:"charm"`
	Seed      int64              `json:"-"`
}

func NewLocation(name string, pos Point, bias map[string]float64, charm int) *Location {
	b := make(map[string]float64, len(bias))
	for k, v := range bias {
		b[k] = v
	}
	return &Location{
		Name:      name,
		Position:  pos,
		PriceBias: b,
		Charm:     charm,
		Seed:      LocationSeed(name),
	}
}

// LocationSeed is the sum of the name's code points times 7919.
func LocationSeed(name string) int64 {
	var sum int64
	for _, r := range name {
		sum += int64(r)
	}
	return sum * 7919
}

func (l *Location) Bias(good string) float64 {
	if v, ok := l.PriceBias[good]; ok {
		return v
	}
	return 1.0
}

func (l *Location) DistanceTo(other *Location) float64 {
	return math.Hypot(l.Position.X-other.Position.X, l.Position.Y-other.Position.Y)
}

// TravelTime is in whole days, never less than one.
func (l *Location) TravelTime(other *Location) int {
	days := int(math.Ceil(l.DistanceTo(other) / travelUnitsPerDay))
	if days < 1 {
		return 1
	}
	return days
}

// TravelCost discounts journeys between charming locations.
func (l *Location) TravelCost(other *Location) int {
	days := l.TravelTime(other)
	scenic := float64(l.Charm+other.Charm) / 80
	discount := clamp(0.5+scenic*0.4, 0.45, 1.0)
	cost := int(float64(travelBaseCost*days) * discount)
	if cost < minTravelCost {
		return minTravelCost
	}
	return cost
}

type Registry struct {
	locations []*Location
}

func NewRegistry(locations ...*Location) *Registry {
	return &Registry{locations: locations}
}

// DefaultRegistry is the frontier map every charter plays on.
func DefaultRegistry() *Registry {
	return NewRegistry(
		NewLocation("Harborlight", Point{110, 520}, map[string]float64{"Spices": 1.1, "Tea": 0.9}, 54),
		NewLocation("Sunspire", Point{270, 150}, map[string]float64{"Gems": 1.3, "Silk": 1.1}, 72),
		NewLocation("Verdant Vale", Point{480, 310}, map[string]float64{"Tea": 1.4, "Iron": 0.8}, 64),
		NewLocation("Irondeep", Point{320, 520}, map[string]float64{"Iron": 1.5, "Spices": 0.7}, 33),
		NewLocation("Azure Bay", Point{540, 120}, map[string]float64{"Silk": 0.9, "Spices": 1.2}, 81),
		NewLocation("Emberfall", Point{170, 320}, map[string]float64{"Gems": 1.2, "Iron": 1.1}, 58),
	)
}

func (r *Registry) All() []*Location {
	out := make([]*Location, len(r.locations))
	copy(out, r.locations)
	return out
}

// Start is the first registered location.
func (r *Registry) Start() *Location {
	return r.locations[0]
}

func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.locations))
	for _, l := range r.locations {
		out = append(out, l.Name)
	}
	return out
}

// ByName is the strict lookup used when restoring saves.
func (r *Registry) ByName(name string) (*Location, bool) {
	for _, l := range r.locations {
		if l.Name == name {
			return l, true
		}
	}
	return nil, false
}

// Lookup also accepts case-insensitive names and slugs like "azure-bay".
func (r *Registry) Lookup(name string) (*Location, error) {
	if l, ok := r.ByName(name); ok {
		return l, nil
	}
	want := Slug(name)
	for _, l := range r.locations {
		if Slug(l.Name) == want {
			return l, nil
		}
	}
	return nil, ErrUnknownLocation
}

func Slug(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.Join(strings.FieldsFunc(name, func(r rune) bool {
		return r == ' ' || r == '-' || r == '_'
	}), "-")
}
