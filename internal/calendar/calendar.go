// Package calendar answers whether a date is an exchange trading day.
//
// The set of trading dates is loaded once per Calendar from a Source and cached.
// When the source fails or returns nothing, the Calendar falls back to treating
// Monday through Friday as trading days and reports ModeWeekdayFallback. An empty
// source is cached like any other answer; a failed load is retried by the first
// lookup after the retry interval, and by Warm or Reload at once.
// Dates before the first or after the last loaded date also use the weekday rule,
// so scanning forward for the next trading day always terminates.
package calendar

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/ndewijer/Fund-Holdings-Backend/internal/model"
)

// Source supplies the trading dates of the exchange.
type Source interface {
	LoadTradeDates(ctx context.Context) ([]time.Time, error)
}

// Mode reports where trading-day answers come from.
type Mode int

const (
	// ModeUnloaded means the snapshot has not been loaded yet.
	ModeUnloaded Mode = iota
	// ModeCalendar means answers come from the loaded trading dates.
	ModeCalendar
	// ModeWeekdayFallback means loading failed or returned no dates; every weekday counts.
	ModeWeekdayFallback
)

func (m Mode) String() string {
	switch m {
	case ModeCalendar:
		return "calendar"
	case ModeWeekdayFallback:
		return "weekday-fallback"
	default:
		return "unloaded"
	}
}

const dateKey = "2006-01-02"

type snapshot struct {
	mode  Mode
	dates map[string]struct{}
	first time.Time
	last  time.Time

	// retryAt is set on snapshots built after a source error.
	retryAt time.Time
}

func (s *snapshot) failed() bool {
	return !s.retryAt.IsZero()
}

func (s *snapshot) stale(now time.Time) bool {
	return s.failed() && !now.Before(s.retryAt)
}

func (s *snapshot) isTradingDay(d time.Time) bool {
	day := model.DateOf(d)
	if s.mode != ModeCalendar || day.Before(s.first) || day.After(s.last) {
		return IsWeekday(day)
	}
	_, ok := s.dates[day.Format(dateKey)]
	return ok
}

// DefaultRetryAfter is how long a lookup serves the weekday fallback after a failed
// load before asking the source again.
const DefaultRetryAfter = 30 * time.Second

// Calendar is a lazily loaded, cached trading calendar. It is safe for concurrent use.
type Calendar struct {
	source      Source
	log         *zap.Logger
	loadTimeout time.Duration
	retryAfter  time.Duration
	now         func() time.Time

	group singleflight.Group
	mu    sync.RWMutex
	snap  *snapshot
}

// Option configures a Calendar.
type Option func(*Calendar)

// WithRetryAfter sets how long a failed load is served before lookups retry the source.
// Zero retries on the next lookup.
func WithRetryAfter(d time.Duration) Option {
	return func(c *Calendar) {
		if d >= 0 {
			c.retryAfter = d
		}
	}
}

// WithClock replaces the wall clock used for retry timing.
func WithClock(now func() time.Time) Option {
	return func(c *Calendar) { c.now = now }
}

// New creates a Calendar backed by source. Nothing is loaded until first use or Warm.
func New(source Source, log *zap.Logger, loadTimeout time.Duration, opts ...Option) *Calendar {
	if log == nil {
		log = zap.NewNop()
	}
	if loadTimeout <= 0 {
		loadTimeout = 10 * time.Second
	}
	c := &Calendar{
		source:      source,
		log:         log,
		loadTimeout: loadTimeout,
		retryAfter:  DefaultRetryAfter,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsTradingDay reports whether d (interpreted in the market timezone) is a trading day.
func (c *Calendar) IsTradingDay(d time.Time) bool {
	return c.current().isTradingDay(d)
}

// Mode reports whether the calendar is serving loaded dates or the weekday fallback.
func (c *Calendar) Mode() Mode {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snap == nil {
		return ModeUnloaded
	}
	return c.snap.mode
}

// Covers reports whether d lies inside the range of loaded trading dates.
// Outside that range answers come from the weekday rule.
func (c *Calendar) Covers(d time.Time) bool {
	s := c.current()
	if s.mode != ModeCalendar {
		return false
	}
	day := model.DateOf(d)
	return !day.Before(s.first) && !day.After(s.last)
}

// Warm loads the snapshot now if it is not loaded yet, or if the last load failed, and
// returns the source error, if any. The calendar stays usable after an error, in weekday
// fallback.
func (c *Calendar) Warm(ctx context.Context) error {
	if s := c.peek(); s != nil && !s.failed() {
		return nil
	}
	_, err := c.loadOnce(ctx, true)
	return err
}

// Reload replaces the snapshot with a fresh read from the source.
// When the read fails a previously loaded calendar is kept.
func (c *Calendar) Reload(ctx context.Context) error {
	_, err, _ := c.group.Do("reload", func() (any, error) {
		s, err := c.fetch(ctx)
		if err != nil {
			if cur := c.peek(); cur != nil && cur.mode == ModeCalendar {
				return cur, err
			}
		}
		c.install(s)
		return s, err
	})
	return err
}

// Close drops the cached snapshot. A later query loads it again.
func (c *Calendar) Close() error {
	c.mu.Lock()
	c.snap = nil
	c.mu.Unlock()
	return nil
}

func (c *Calendar) peek() *snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap
}

func (c *Calendar) current() *snapshot {
	s := c.peek()
	if s != nil && !s.stale(c.now()) {
		return s
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.loadTimeout)
	defer cancel()
	s, _ = c.loadOnce(ctx, false)
	return s
}

// loadOnce collapses concurrent loads into a single source read. A usable snapshot
// already in place is returned as is; with retryFailed a failed one is reloaded even
// before its retry time.
func (c *Calendar) loadOnce(ctx context.Context, retryFailed bool) (*snapshot, error) {
	v, err, _ := c.group.Do("load", func() (any, error) {
		if existing := c.peek(); existing != nil {
			if !existing.failed() || (!retryFailed && !existing.stale(c.now())) {
				return existing, nil
			}
		}
		s, err := c.fetch(ctx)
		c.install(s)
		return s, err
	})
	return v.(*snapshot), err
}

// fetch always returns a usable snapshot, falling back to weekdays on error.
// A snapshot from a failed read carries the time after which lookups retry.
func (c *Calendar) fetch(ctx context.Context) (*snapshot, error) {
	dates, err := c.source.LoadTradeDates(ctx)
	if err != nil {
		c.log.Warn("trading calendar load failed, using weekday fallback",
			zap.Error(err),
			zap.Duration("retry_after", c.retryAfter),
		)
		return &snapshot{mode: ModeWeekdayFallback, retryAt: c.now().Add(c.retryAfter)}, err
	}
	if len(dates) == 0 {
		c.log.Warn("trading calendar is empty, using weekday fallback")
		return &snapshot{mode: ModeWeekdayFallback}, nil
	}

	s := &snapshot{
		mode:  ModeCalendar,
		dates: make(map[string]struct{}, len(dates)),
	}
	for _, d := range dates {
		day := model.DateOf(d)
		s.dates[day.Format(dateKey)] = struct{}{}
		if s.first.IsZero() || day.Before(s.first) {
			s.first = day
		}
		if day.After(s.last) {
			s.last = day
		}
	}
	c.log.Info("trading calendar loaded",
		zap.Int("dates", len(s.dates)),
		zap.String("first", s.first.Format(dateKey)),
		zap.String("last", s.last.Format(dateKey)),
	)
	return s, nil
}

func (c *Calendar) install(s *snapshot) {
	c.mu.Lock()
	c.snap = s
	c.mu.Unlock()
}

// IsWeekday is the fallback trading-day rule: Monday through Friday.
func IsWeekday(d time.Time) bool {
	switch d.In(model.MarketLocation).Weekday() {
	case time.Saturday, time.Sunday:
		return false
	default:
		return true
	}
}

// Weekdays is a Source-free calendar that only applies the weekday rule.
type Weekdays struct{}

// IsTradingDay reports whether d is Monday through Friday.
func (Weekdays) IsTradingDay(d time.Time) bool {
	return IsWeekday(d)
}
