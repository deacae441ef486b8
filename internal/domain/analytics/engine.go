// Package analytics turns a dataset snapshot into dashboard views.
//
// Every view follows the same pipeline: filter the rows by the selection,
// group them, count or sum, sort descending by count (ties by label
// ascending) and truncate. Functions are pure: they never modify the dataset
// and may run concurrently on the same snapshot.
package analytics

import (
	"time"
)

// Engine computes views. Its zero value is not usable; call New.
type Engine struct {
	topCountries  int
	topAthletes   int
	rankingLimit  int
	scheduleCount int
	defaultSports int
	seed          uint64
	reference     time.Time
	gamesStart    time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithTopCountries bounds the global top-N country breakdown.
func WithTopCountries(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.topCountries = n
		}
	}
}

// WithTopAthletes bounds the athlete medal ranking.
func WithTopAthletes(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.topAthletes = n
		}
	}
}

// WithRankingLimit bounds the continent and gender ranking.
func WithRankingLimit(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.rankingLimit = n
		}
	}
}

// WithSchedule sets how many sports the schedule covers and how many are selected by default.
func WithSchedule(sports, defaults int) Option {
	return func(e *Engine) {
		if sports > 0 {
			e.scheduleCount = sports
		}
		if defaults >= 0 {
			e.defaultSports = defaults
		}
	}
}

// WithScheduleSeed seeds the synthetic schedule.
func WithScheduleSeed(seed int64) Option {
	return func(e *Engine) {
		e.seed = uint64(seed)
	}
}

// WithReferenceDate sets the day ages are computed against.
func WithReferenceDate(t time.Time) Option {
	return func(e *Engine) {
		if !t.IsZero() {
			e.reference = t
		}
	}
}

// WithGamesStart anchors the synthetic schedule.
func WithGamesStart(t time.Time) Option {
	return func(e *Engine) {
		if !t.IsZero() {
			e.gamesStart = t
		}
	}
}

// New creates an Engine with the Paris 2024 defaults.
func New(opts ...Option) *Engine {
	opening := time.Date(2024, 7, 26, 0, 0, 0, 0, time.UTC)
	e := &Engine{
		topCountries:  20,
		topAthletes:   10,
		rankingLimit:  15,
		scheduleCount: 15,
		defaultSports: 5,
		seed:          2024,
		reference:     opening,
		gamesStart:    opening,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}
