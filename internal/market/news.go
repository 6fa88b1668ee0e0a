package market

import (
	"fmt"
	"math"
	mathrand "math/rand"
)

const (
	newsSpawnChance = 0.12
	bullishChance   = 0.5
	minMagnitude    = 0.27
	maxMagnitude    = 0.48
	minEventDays    = 3
	maxEventDays    = 5
	bearishFloor    = 0.45
	defaultConclude = "Markets stabilize."
	bullishConclude = "boom calms"
	bearishConclude = "slump eases"
)

// NewsEvent biases one good's price everywhere for [StartedOn, ExpiresOn].
type NewsEvent struct {
	Good       string  `json:"good"`
	Location   string  `json:"location"`
	Modifier   float64 `json:"modifier"`
	Summary    string  `json:"summary"`
	Headline   string  `json:"headline"`
	Conclusion string  `json:"conclusion"`
	StartedOn  int     `json:"started_on"`
	ExpiresOn  int     `json:"expires_on"`
}

type NewsPhase uint8

const (
	NewsQuiet NewsPhase = iota
	NewsActive
)

func (p NewsPhase) String() string {
	if p == NewsActive {
		return "active"
	}
	return "quiet"
}

// NewsCycle is the single system-wide event slot. The zero value is quiet.
type NewsCycle struct {
	phase NewsPhase
	event NewsEvent
}

// RestoreNews rebuilds the slot from a saved event. Events already past their
// expiry on the saved day are dropped without a headline.
func RestoreNews(ev *NewsEvent, day int) NewsCycle {
	if ev == nil || day > ev.ExpiresOn {
		return NewsCycle{}
	}
	return NewsCycle{phase: NewsActive, event: *ev}
}

func (c NewsCycle) Phase() NewsPhase { return c.phase }

// Active returns the current event, if any.
func (c NewsCycle) Active() (NewsEvent, bool) {
	if c.phase != NewsActive {
		return NewsEvent{}, false
	}
	return c.event, true
}

// Step runs one day of the lifecycle and returns the headlines it produced:
// a fade headline when the active event has run out, then a creation headline
// if a new event spawns while the slot is quiet.
func (c *NewsCycle) Step(day int, newsSeed int64, locations []string) []string {
	var headlines []string
	if c.phase == NewsActive && day > c.event.ExpiresOn {
		conclusion := c.event.Conclusion
		if conclusion == "" {
			conclusion = defaultConclude
		}
		headlines = append(headlines, fmt.Sprintf("News fades: %s %s", c.event.Good, conclusion))
		c.phase = NewsQuiet
		c.event = NewsEvent{}
	}
	if c.phase == NewsQuiet {
		r := NewsStream(newsSeed, day)
		if r.Float64() < newsSpawnChance {
			c.event = spawnEvent(r, day, locations)
			c.phase = NewsActive
			headlines = append(headlines, c.event.Headline)
		}
	}
	return headlines
}

// Modifiers returns the event bias in effect on day.
func (c NewsCycle) Modifiers(day int) Modifiers {
	if c.phase != NewsActive || day > c.event.ExpiresOn {
		return Modifiers{}
	}
	return Modifiers{c.event.Good: c.event.Modifier}
}

// Ticker is the running banner for the active event, empty when quiet.
func (c NewsCycle) Ticker(day int) string {
	if c.phase != NewsActive || day > c.event.ExpiresOn {
		return ""
	}
	remaining := c.event.ExpiresOn - day + 1
	return fmt.Sprintf("News: %s (%dd)", c.event.Summary, remaining)
}

func spawnEvent(r *mathrand.Rand, day int, locations []string) NewsEvent {
	good := catalog[r.Intn(len(catalog))].Name
	bullish := r.Float64() < bullishChance
	magnitude := Uniform(r, minMagnitude, maxMagnitude)
	duration := minEventDays + r.Intn(maxEventDays-minEventDays+1)
	city := "the frontier"
	if len(locations) > 0 {
		city = locations[r.Intn(len(locations))]
	}
	pct := int(magnitude * 100)

	ev := NewsEvent{
		Good:      good,
		Location:  city,
		StartedOn: day,
		ExpiresOn: day + duration - 1,
	}
	if bullish {
		ev.Modifier = 1.0 + magnitude
		ev.Headline = fmt.Sprintf("News: %s festival sends %s demand surging (+%d%%).", city, good, pct)
		ev.Summary = fmt.Sprintf("%s boom after %s celebrations", good, city)
		ev.Conclusion = bullishConclude
	} else {
		ev.Modifier = math.Max(bearishFloor, 1.0-magnitude)
		ev.Headline = fmt.Sprintf("News: %s bottlenecks crash %s prices (-%d%%).", city, good, pct)
		ev.Summary = fmt.Sprintf("%s glut from %s overstock", good, city)
		ev.Conclusion = bearishConclude
	}
	return ev
}
