package market

const (
	minTradePrice = 12
	priceStep     = 3
)

// Board is one day's price per good at one location.
type Board map[string]int

// Modifiers carries the per-good multipliers active on a day. Missing goods
// read as 1.0.
type Modifiers map[string]float64

func (m Modifiers) For(good string) float64 {
	if v, ok := m[good]; ok {
		return v
	}
	return 1.0
}

// PriceFor is pure: the same location, good, day and factors always give the
// same price. It replays the draws of the goods before it in catalog order so
// it agrees with BoardFor.
func PriceFor(loc *Location, good Good, day int, trend, event float64) int {
	idx := goodIndex(good.Name)
	r := PriceStream(loc.Seed, day)
	for i := 0; i < idx; i++ {
		r.Float64()
		r.Float64()
	}
	demand := Uniform(r, 0.85, 1.15)
	mood := Uniform(r, 0.94, 1.08)
	return quantize(float64(good.BasePrice) * loc.Bias(good.Name) * trend * event * demand * mood)
}

func BoardFor(loc *Location, day int, trends, events Modifiers) Board {
	r := PriceStream(loc.Seed, day)
	out := make(Board, len(catalog))
	for _, g := range catalog {
		demand := Uniform(r, 0.85, 1.15)
		mood := Uniform(r, 0.94, 1.08)
		raw := float64(g.BasePrice) * loc.Bias(g.Name) * trends.For(g.Name) * events.For(g.Name) * demand * mood
		out[g.Name] = quantize(raw)
	}
	return out
}

// quantize rounds down to a multiple of 3 with a floor of 12.
func quantize(raw float64) int {
	p := int(raw) / priceStep * priceStep
	if p < minTradePrice {
		return minTradePrice
	}
	return p
}
