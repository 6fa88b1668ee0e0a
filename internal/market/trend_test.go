package market

import (
	"math"
	"testing"
)

func TestTrendFactorStaysBounded(t *testing.T) {
	src := Stream(7)
	for run := 0; run < 5; run++ {
		trends := NewTrends(src)
		for day := 2; day <= 10_000; day++ {
			trends.Advance(day)
			for good, f := range trends.Factor {
				if f < 0.75 || f > 1.26 {
					t.Fatalf("run %d day %d %s: factor %v out of range", run, day, good, f)
				}
			}
		}
	}
}

func TestTrendVelocityIsSmoothed(t *testing.T) {
	trends := RestoreTrends(map[string]float64{"Tea": 1.0}, map[string]float64{"Tea": 0.05})
	before := trends.State["Tea"].Velocity
	trends.Advance(3)
	after := trends.State["Tea"].Velocity
	// target is within 0.055 ± 0.02, so one step moves at most 12% of the gap.
	if math.Abs(after-before) > 0.12*0.03+1e-12 {
		t.Fatalf("velocity jumped from %v to %v", before, after)
	}
	if got := trends.State["Tea"].Phase; math.Abs(got-(1.0+after)) > 1e-12 {
		t.Fatalf("phase got %v want %v", got, 1.0+after)
	}
}

func TestTrendsRestoreReproducesAdvance(t *testing.T) {
	a := NewTrends(Stream(99))
	for day := 2; day < 30; day++ {
		a.Advance(day)
	}
	b := RestoreTrends(a.Phases(), a.Velocities())
	for _, g := range GoodNames() {
		if a.Factor[g] != b.Factor[g] {
			t.Fatalf("%s: factor %v vs restored %v", g, a.Factor[g], b.Factor[g])
		}
	}
	for day := 30; day < 60; day++ {
		a.Advance(day)
		b.Advance(day)
	}
	for _, g := range GoodNames() {
		if a.Factor[g] != b.Factor[g] {
			t.Fatalf("%s diverged after restore: %v vs %v", g, a.Factor[g], b.Factor[g])
		}
	}
}

func TestTrendOffsetDependsOnlyOnName(t *testing.T) {
	for _, g := range GoodNames() {
		o := TrendOffset(g)
		if o != TrendOffset(g) {
			t.Fatalf("%s: offset not stable", g)
		}
		if o < 0 || o >= 2*math.Pi {
			t.Fatalf("%s: offset %v outside [0, 2π)", g, o)
		}
	}
}
