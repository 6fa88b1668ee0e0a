package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"tradefrontier/internal/market"

	"github.com/google/uuid"
)

const newsSeedSpan = int64(999_999_999)

var travelFlavor = []string{
	"Markets whisper of shifting prices...",
	"Local guides share hidden shortcuts.",
	"The crew stays in good spirits.",
	"You collect rumors of distant shortages.",
}

// CharterStore persists the live charter. LoadCharter returns ErrNoSave when
// nothing has been saved.
type CharterStore interface {
	LoadCharter(ctx context.Context) (Document, error)
	SaveCharter(ctx context.Context, doc Document) error
	DeleteCharter(ctx context.Context) error
}

// ScoreLedger keeps the ranked list of finished charters.
type ScoreLedger interface {
	RecordScore(ctx context.Context, entry ScoreEntry) error
	TopScores(ctx context.Context, limit int) ([]ScoreEntry, error)
}

type Options struct {
	Registry    *market.Registry
	Store       CharterStore
	Ledger      ScoreLedger
	Entropy     market.Entropy
	Logger      *slog.Logger
	Now         func() time.Time
	SaveTimeout time.Duration
}

// Session owns the one live charter. It is not safe for concurrent use.
type Session struct {
	registry    *market.Registry
	store       CharterStore
	ledger      ScoreLedger
	entropy     market.Entropy
	log         *slog.Logger
	now         func() time.Time
	saveTimeout time.Duration

	c *charter
}

type charter struct {
	id            string
	day           int
	money         int
	cargo         map[string]int
	capacity      int
	location      *market.Location
	gameOver      bool
	message       string
	trends        *market.Trends
	newsSeed      int64
	news          market.NewsCycle
	newsHistory   []string
	prices        market.Board
	history       *market.Ledger
	chartOption   string
	scoreRecorded bool
}

// Open resumes the saved charter, or starts a fresh one when there is no
// save or the save cannot be trusted.
func Open(ctx context.Context, opts Options) *Session {
	s := &Session{
		registry:    opts.Registry,
		store:       opts.Store,
		ledger:      opts.Ledger,
		entropy:     opts.Entropy,
		log:         opts.Logger,
		now:         opts.Now,
		saveTimeout: opts.SaveTimeout,
	}
	if s.registry == nil {
		s.registry = market.DefaultRegistry()
	}
	if s.entropy == nil {
		s.entropy = market.CryptoEntropy{}
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.saveTimeout <= 0 {
		s.saveTimeout = 5 * time.Second
	}

	if s.resume(ctx) {
		return s
	}
	s.startCharter(ctx)
	return s
}

func (s *Session) resume(ctx context.Context) bool {
	if s.store == nil {
		return false
	}
	doc, err := s.store.LoadCharter(ctx)
	if err != nil {
		if !errors.Is(err, ErrNoSave) {
			s.log.Warn("discarding unreadable charter", "err", err)
		}
		return false
	}
	c, err := s.restore(doc)
	if err != nil {
		s.log.Warn("discarding saved charter", "err", err, "location", doc.LocationName)
		return false
	}
	s.c = c
	s.refreshBoard()
	if c.gameOver && !c.scoreRecorded {
		s.recordScore(ctx)
		s.persist(ctx)
	}
	s.log.Info("charter resumed", "charter_id", c.id, "day", c.day, "location", c.location.Name)
	return true
}

func (s *Session) restore(doc Document) (*charter, error) {
	loc, ok := s.registry.ByName(doc.LocationName)
	if !ok {
		return nil, fmt.Errorf("%w: unknown location %q", ErrCorruptSave, doc.LocationName)
	}
	c := &charter{
		id:            doc.CharterID,
		day:           doc.Day,
		money:         doc.Money,
		cargo:         make(map[string]int),
		capacity:      doc.CargoCapacity,
		location:      loc,
		gameOver:      doc.GameOver,
		message:       doc.Message,
		trends:        market.RestoreTrends(doc.TrendPhase, doc.TrendVelocity),
		newsSeed:      doc.NewsSeed,
		history:       market.RestoreLedger(doc.PriceHistory, doc.NetWorthHistory),
		chartOption:   doc.SelectedChartOption,
		scoreRecorded: doc.ScoreRecorded,
	}
	if c.id == "" {
		c.id = uuid.NewString()
	}
	if c.day < 1 {
		c.day = 1
	}
	if c.capacity < 1 {
		c.capacity = StartingCapacity
	}
	if c.message == "" {
		c.message = fmt.Sprintf("Resumed charter in %s.", loc.Name)
	}
	if c.newsSeed <= 0 {
		c.newsSeed = s.freshNewsSeed()
	}
	for _, g := range market.GoodNames() {
		if n := doc.Cargo[g]; n > 0 {
			c.cargo[g] = n
		} else {
			c.cargo[g] = 0
		}
	}
	c.news = market.RestoreNews(doc.ActiveEvent, c.day)
	c.newsHistory = lastN(doc.NewsHistory, NewsHistoryLimit)
	if !validChartOption(c.chartOption) {
		c.chartOption = ChartOptions()[0]
	}
	return c, nil
}

// Document snapshots the live charter.
func (s *Session) Document() Document {
	c := s.c
	prices, netWorth := c.history.Export()
	doc := Document{
		CharterID:           c.id,
		Day:                 c.day,
		Money:               c.money,
		Cargo:               copyCounts(c.cargo),
		CargoCapacity:       c.capacity,
		LocationName:        c.location.Name,
		GameOver:            c.gameOver,
		Message:             c.message,
		TrendPhase:          c.trends.Phases(),
		TrendVelocity:       c.trends.Velocities(),
		MarketTrend:         c.trends.Modifiers(),
		NewsSeed:            c.newsSeed,
		NewsHistory:         lastN(c.newsHistory, NewsHistoryLimit),
		PriceHistory:        prices,
		NetWorthHistory:     netWorth,
		SelectedChartOption: c.chartOption,
		ScoreRecorded:       c.scoreRecorded,
	}
	if ev, ok := c.news.Active(); ok {
		doc.ActiveEvent = &ev
	}
	return doc
}

func (s *Session) startCharter(ctx context.Context) {
	cargo := make(map[string]int)
	for _, g := range market.GoodNames() {
		cargo[g] = 0
	}
	s.c = &charter{
		id:          uuid.NewString(),
		day:         1,
		money:       StartingMoney,
		cargo:       cargo,
		capacity:    StartingCapacity,
		location:    s.registry.Start(),
		message:     welcomeMessage,
		trends:      market.NewTrends(s.entropy),
		newsSeed:    s.freshNewsSeed(),
		history:     market.NewLedger(),
		chartOption: ChartOptions()[0],
	}
	s.refreshBoard()
	s.persist(ctx)
	s.log.Info("charter started", "charter_id", s.c.id, "location", s.c.location.Name)
}

func (s *Session) freshNewsSeed() int64 {
	return s.entropy.Int63n(newsSeedSpan) + 1
}

// AdvanceDays runs n simulated days where the trader is and returns the
// headlines they produced in order. Zero days is a no-op.
func (s *Session) AdvanceDays(ctx context.Context, n int) ([]string, error) {
	if s.c.gameOver {
		return nil, s.reject(ErrCharterClosed, expiredMessage)
	}
	if n < 0 {
		return nil, s.reject(ErrInvalidQuantity, "Days to wait must not be negative.")
	}
	if n == 0 {
		return nil, nil
	}
	headlines := s.advance(n)
	if s.finishIfExpired(ctx) {
		return headlines, nil
	}
	s.c.message = s.withDigest(
		fmt.Sprintf("You wait %d %s in %s.", n, plural(n, "day"), s.c.location.Name),
		headlines,
	)
	s.persist(ctx)
	return headlines, nil
}

// Rest spends one day in port.
func (s *Session) Rest(ctx context.Context) error {
	if s.c.gameOver {
		return s.reject(ErrCharterClosed, expiredMessage)
	}
	headlines := s.advance(1)
	if s.finishIfExpired(ctx) {
		return nil
	}
	s.c.message = s.withDigest(fmt.Sprintf("You spend a day networking in %s.", s.c.location.Name), headlines)
	s.persist(ctx)
	return nil
}

func (s *Session) Travel(ctx context.Context, destination string) error {
	c := s.c
	if c.gameOver {
		return s.reject(ErrCharterClosed, expiredMessage)
	}
	dest, err := s.registry.Lookup(destination)
	if err != nil {
		return s.reject(ErrUnknownLocation, fmt.Sprintf("No port called %s on the charts.", strings.TrimSpace(destination)))
	}
	if dest == c.location {
		return s.reject(ErrAlreadyThere, fmt.Sprintf("Already in %s.", dest.Name))
	}
	days := c.location.TravelTime(dest)
	cost := c.location.TravelCost(dest)
	if cost > c.money {
		return s.reject(ErrInsufficientFunds, "Not enough coin for that journey.")
	}

	c.money -= cost
	c.location = dest
	headlines := s.advance(days)
	if s.finishIfExpired(ctx) {
		return nil
	}

	encounter := s.travelEncounter(dest)
	c.history.RecordNetWorth(c.day, s.netWorth())
	c.message = s.withDigest(
		fmt.Sprintf("Reached %s in %d %s. Paid %d coin. %s", dest.Name, days, plural(days, "day"), cost, encounter),
		headlines,
	)
	s.persist(ctx)
	return nil
}

// travelEncounter rolls one draw for the arrival: a toll in [0, 0.10) when
// the purse is not empty, a bonus in [0.92, 1), flavor text otherwise.
func (s *Session) travelEncounter(dest *market.Location) string {
	c := s.c
	r := market.TravelStream(dest.Seed, c.day)
	chance := r.Float64()
	switch {
	case chance < 0.10 && c.money > 0:
		share := market.Uniform(r, 0.08, 0.18)
		if share < 0.05 {
			share = 0.05
		} else if share > 0.25 {
			share = 0.25
		}
		toll := int(float64(c.money) * share)
		c.money -= toll
		return fmt.Sprintf("Skyway toll collectors relieved you of %d coin.", toll)
	case chance >= 0.92:
		bonus := int(60 * market.Uniform(r, 1.0, 2.2))
		c.money += bonus
		return fmt.Sprintf("You entertained nobles en route and earned %d coin!", bonus)
	default:
		return travelFlavor[r.Intn(len(travelFlavor))]
	}
}

func (s *Session) Buy(ctx context.Context, goodName string, qty int) error {
	c := s.c
	if c.gameOver {
		return s.reject(ErrCharterClosed, expiredMessage)
	}
	if qty < 1 {
		return s.reject(ErrInvalidQuantity, "Pick at least one crate.")
	}
	good, err := market.LookupGood(goodName)
	if err != nil {
		return s.reject(ErrUnknownGood, fmt.Sprintf("Nobody here trades %s.", strings.TrimSpace(goodName)))
	}
	// Compare by division so a huge qty cannot overflow the products.
	if qty > (c.capacity-s.cargoLoad())/good.Bulk {
		return s.reject(ErrCargoFull, "Cargo hold is full.")
	}
	price := c.prices[good.Name]
	if price > 0 && qty > c.money/price {
		return s.reject(ErrInsufficientFunds, "Not enough coin to buy.")
	}
	total := price * qty
	c.money -= total
	c.cargo[good.Name] += qty
	c.message = fmt.Sprintf("Purchased %d %s of %s.", qty, plural(qty, "crate"), good.Name)
	c.history.RecordNetWorth(c.day, s.netWorth())
	s.persist(ctx)
	return nil
}

func (s *Session) Sell(ctx context.Context, goodName string, qty int) error {
	c := s.c
	if c.gameOver {
		return s.reject(ErrCharterClosed, expiredMessage)
	}
	if qty < 1 {
		return s.reject(ErrInvalidQuantity, "Pick at least one crate.")
	}
	good, err := market.LookupGood(goodName)
	if err != nil {
		return s.reject(ErrUnknownGood, fmt.Sprintf("Nobody here trades %s.", strings.TrimSpace(goodName)))
	}
	if c.cargo[good.Name] < qty {
		return s.reject(ErrNoStock, fmt.Sprintf("No %s to sell.", good.Name))
	}
	c.cargo[good.Name] -= qty
	c.money += c.prices[good.Name] * qty
	c.message = fmt.Sprintf("Sold %d %s of %s.", qty, plural(qty, "crate"), good.Name)
	c.history.RecordNetWorth(c.day, s.netWorth())
	s.persist(ctx)
	return nil
}

func (s *Session) UpgradeCargo(ctx context.Context) error {
	c := s.c
	if c.gameOver {
		return s.reject(ErrCharterClosed, expiredMessage)
	}
	if c.money < UpgradeCost {
		return s.reject(ErrInsufficientFunds, "Need more coin to upgrade cargo hold.")
	}
	c.money -= UpgradeCost
	c.capacity += UpgradeSpace
	c.message = fmt.Sprintf("Cargo hold expanded by %d. New capacity: %d.", UpgradeSpace, c.capacity)
	c.history.RecordNetWorth(c.day, s.netWorth())
	s.persist(ctx)
	return nil
}

// Save writes the charter on request. Like every write it is best effort.
func (s *Session) Save(ctx context.Context) {
	s.c.message = "Manifest logged. Charter saved."
	s.persist(ctx)
}

// Restart throws the charter away and starts a new one with fresh entropy.
func (s *Session) Restart(ctx context.Context) {
	if s.store != nil {
		wctx, cancel := context.WithTimeout(ctx, s.saveTimeout)
		if err := s.store.DeleteCharter(wctx); err != nil {
			s.log.Warn("delete charter failed", "err", err)
		}
		cancel()
	}
	s.startCharter(ctx)
}

// SelectChart moves the chart selection by delta, wrapping around.
func (s *Session) SelectChart(ctx context.Context, delta int) string {
	opts := ChartOptions()
	idx := 0
	for i, o := range opts {
		if o == s.c.chartOption {
			idx = i
			break
		}
	}
	idx = ((idx+delta)%len(opts) + len(opts)) % len(opts)
	s.c.chartOption = opts[idx]
	s.c.message = fmt.Sprintf("Reviewing trend for %s.", s.c.chartOption)
	s.persist(ctx)
	return s.c.chartOption
}

// advance runs up to n days and stops early when the charter expires.
func (s *Session) advance(n int) []string {
	c := s.c
	var headlines []string
	locations := s.registry.Names()
	for i := 0; i < n && !c.gameOver; i++ {
		c.day++
		c.trends.Advance(c.day)
		for _, h := range c.news.Step(c.day, c.newsSeed, locations) {
			headlines = append(headlines, h)
			s.recordHeadline(h)
		}
		s.refreshBoard()
		if c.day > MaxDays {
			c.gameOver = true
			c.message = expiredMessage
		}
	}
	return headlines
}

func (s *Session) finishIfExpired(ctx context.Context) bool {
	if !s.c.gameOver {
		return false
	}
	s.log.Info("charter expired", "charter_id", s.c.id, "day", s.c.day, "net_worth", s.netWorth())
	s.recordScore(ctx)
	s.persist(ctx)
	return true
}

// refreshBoard prices the current location for today and records it.
func (s *Session) refreshBoard() {
	c := s.c
	c.prices = market.BoardFor(c.location, c.day, c.trends.Modifiers(), c.news.Modifiers(c.day))
	c.history.RecordBoard(c.location.Name, c.day, c.prices)
	c.history.RecordNetWorth(c.day, s.netWorth())
}

func (s *Session) recordHeadline(h string) {
	if h == "" {
		return
	}
	s.c.newsHistory = append(s.c.newsHistory, fmt.Sprintf("Day %d: %s", s.c.day, h))
	s.c.newsHistory = lastN(s.c.newsHistory, NewsHistoryLimit)
}

// withDigest appends the day's headlines and the running ticker to msg.
func (s *Session) withDigest(msg string, headlines []string) string {
	parts := []string{msg}
	for _, h := range headlines {
		if h != "" {
			parts = append(parts, h)
		}
	}
	if ticker := s.c.news.Ticker(s.c.day); ticker != "" {
		parts = append(parts, ticker)
		s.recordHeadline(ticker)
	}
	return strings.Join(parts, " ")
}

func (s *Session) recordScore(ctx context.Context) {
	c := s.c
	if c.scoreRecorded {
		return
	}
	if s.ledger == nil {
		c.scoreRecorded = true
		return
	}
	entry := ScoreEntry{
		ID:           uuid.NewString(),
		CharterID:    c.id,
		Timestamp:    s.now().UTC(),
		Day:          c.day,
		LocationName: c.location.Name,
		NetWorth:     s.netWorth(),
		Money:        c.money,
		Cargo:        copyCounts(c.cargo),
	}
	wctx, cancel := context.WithTimeout(ctx, s.saveTimeout)
	defer cancel()
	if err := s.ledger.RecordScore(wctx, entry); err != nil {
		s.log.Warn("record score failed", "err", err, "charter_id", c.id)
		return
	}
	c.scoreRecorded = true
}

// persist writes the charter. Failures are logged and the in-memory charter
// stays authoritative.
func (s *Session) persist(ctx context.Context) {
	if s.store == nil {
		return
	}
	wctx, cancel := context.WithTimeout(ctx, s.saveTimeout)
	defer cancel()
	if err := s.store.SaveCharter(wctx, s.Document()); err != nil {
		s.log.Warn("save charter failed", "err", err, "charter_id", s.c.id)
	}
}

func (s *Session) reject(err error, msg string) error {
	s.c.message = msg
	return &Rejection{Err: err, Message: msg}
}

func (s *Session) cargoLoad() int {
	load := 0
	for _, g := range market.Goods() {
		load += s.c.cargo[g.Name] * g.Bulk
	}
	return load
}

func (s *Session) netWorth() int {
	total := s.c.money
	for good, n := range s.c.cargo {
		total += n * s.c.prices[good]
	}
	return total
}

func validChartOption(opt string) bool {
	for _, o := range ChartOptions() {
		if o == opt {
			return true
		}
	}
	return false
}

func lastN(in []string, n int) []string {
	if len(in) > n {
		in = in[len(in)-n:]
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func copyCounts(in map[string]int) map[string]int {
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
