package service

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/okian/medalboard/internal/adapters/mq/queue"
	"github.com/okian/medalboard/internal/domain/analytics"
	"github.com/okian/medalboard/internal/domain/cache"
	"github.com/okian/medalboard/internal/domain/filter"
	"github.com/okian/medalboard/internal/domain/model"
	"github.com/okian/medalboard/internal/domain/types"
	"github.com/okian/medalboard/pkg/logger"
	"github.com/okian/medalboard/pkg/metrics"
)

// View names, also used as metric labels.
const (
	ViewOverview     = "overview"
	ViewFilters      = "filters"
	ViewGlobal       = "global"
	ViewAthleteNames = "athletes"
	ViewProfile      = "athletes_profile"
	ViewAges         = "athletes_ages"
	ViewGenders      = "athletes_genders"
	ViewTopAthletes  = "athletes_top"
	ViewSchedule     = "sports_schedule"
	ViewTreemap      = "sports_treemap"
	ViewVenues       = "sports_venues"
	ViewRanking      = "la28_ranking"
	ViewSunburst     = "la28_sunburst"
	ViewDistribution = "la28_distribution"
	ViewHeadToHead   = "la28_head_to_head"
	ViewDay          = "la28_day"
)

// viewDef is one cacheable computation over a dataset.
type viewDef struct {
	name    string
	query   string
	compute func(ds *model.Dataset) (any, error)
}

// run answers a view from the cache or computes and stores it.
func run[T any](ctx context.Context, s *Service, d viewDef) (T, error) {
	var zero T
	snap, err := s.snapshot(ctx)
	if err != nil {
		return zero, err
	}
	key := cache.Key{Generation: snap.Generation, View: d.name, Query: d.query}
	if v, ok := s.cache.Get(ctx, key); ok {
		if t, ok := v.(T); ok {
			metrics.RecordCacheHit(d.name)
			return t, nil
		}
	}
	metrics.RecordCacheMiss(d.name)

	start := time.Now()
	v, err := d.compute(snap.Dataset)
	metrics.RecordViewLatency(d.name, float64(time.Since(start).Milliseconds()))
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("view %s returned %T", d.name, v)
	}
	s.cache.Put(ctx, key, t)
	metrics.UpdateCacheSize(int(s.cache.Len()))
	return t, nil
}

func pure[T any](f func(ds *model.Dataset) T) func(*model.Dataset) (any, error) {
	return func(ds *model.Dataset) (any, error) { return f(ds), nil }
}

func fallible[T any](f func(ds *model.Dataset) (T, error)) func(*model.Dataset) (any, error) {
	return func(ds *model.Dataset) (any, error) {
		v, err := f(ds)
		if err != nil {
			return nil, err
		}
		return v, nil
	}
}

// enqueueWarmup pre-computes the default view of every page for gen.
func (s *Service) enqueueWarmup(ctx context.Context, gen uint64, ds *model.Dataset) {
	defs := []viewDef{
		s.overviewDef(),
		s.filtersDef(),
		s.globalDef(filter.Selection{}),
		s.agesDef(""),
		s.gendersDef(""),
		s.topAthletesDef(0),
		s.scheduleDef(nil, nil),
		s.treemapDef(),
		s.venuesDef(),
		s.rankingDef("", "", analytics.MetricTotal, 0),
		s.sunburstDef(""),
		s.distributionDef(analytics.MetricTotal, ""),
		s.dayDef(time.Time{}),
	}
	var queued int
	for _, d := range defs {
		job := queue.Job{
			Key:     cache.Key{Generation: gen, View: d.name, Query: d.query},
			Compute: func(context.Context) (any, error) { return d.compute(ds) },
		}
		if s.queue.Enqueue(ctx, job) {
			queued++
		}
	}
	s.logger.Debug(ctx, "warm-up jobs queued", logger.Int("jobs", queued), logger.Int("views", len(defs)))
}

func (s *Service) overviewDef() viewDef {
	return viewDef{name: ViewOverview, compute: pure(s.engine.Overview)}
}

func (s *Service) filtersDef() viewDef {
	return viewDef{name: ViewFilters, compute: pure(s.engine.FilterOptions)}
}

func (s *Service) globalDef(sel filter.Selection) viewDef {
	sel = sel.Normalize()
	return viewDef{name: ViewGlobal, query: sel.Key(), compute: pure(func(ds *model.Dataset) types.GlobalView {
		return s.engine.Global(ds, sel)
	})}
}

func (s *Service) agesDef(sport string) viewDef {
	return viewDef{name: ViewAges, query: sport, compute: pure(func(ds *model.Dataset) types.Figure {
		return s.engine.AgeDistribution(ds, sport)
	})}
}

func (s *Service) gendersDef(country string) viewDef {
	return viewDef{name: ViewGenders, query: country, compute: pure(func(ds *model.Dataset) types.Figure {
		return s.engine.GenderDistribution(ds, country)
	})}
}

func (s *Service) topAthletesDef(limit int) viewDef {
	return viewDef{name: ViewTopAthletes, query: strconv.Itoa(limit), compute: fallible(func(ds *model.Dataset) (types.Figure, error) {
		return s.engine.TopAthletes(ds, limit)
	})}
}

func (s *Service) scheduleDef(sports, venues []string) viewDef {
	q := url.Values{"sport": sports, "venue": venues}.Encode()
	return viewDef{name: ViewSchedule, query: q, compute: pure(func(ds *model.Dataset) types.ScheduleView {
		return s.engine.Schedule(ds, sports, venues)
	})}
}

func (s *Service) treemapDef() viewDef {
	return viewDef{name: ViewTreemap, compute: fallible(s.engine.SportTreemap)}
}

func (s *Service) venuesDef() viewDef {
	return viewDef{name: ViewVenues, compute: pure(s.engine.Venues)}
}

func (s *Service) rankingDef(continent, gender string, metric analytics.Metric, limit int) viewDef {
	q := url.Values{
		"continent": {continent},
		"gender":    {gender},
		"metric":    {metric.String()},
		"limit":     {strconv.Itoa(limit)},
	}.Encode()
	return viewDef{name: ViewRanking, query: q, compute: fallible(func(ds *model.Dataset) (types.RankingView, error) {
		return s.engine.Ranking(ds, continent, gender, metric, limit)
	})}
}

func (s *Service) sunburstDef(sport string) viewDef {
	return viewDef{name: ViewSunburst, query: sport, compute: fallible(func(ds *model.Dataset) (types.Figure, error) {
		return s.engine.AthleteSunburst(ds, sport)
	})}
}

func (s *Service) distributionDef(metric analytics.Metric, continent string) viewDef {
	q := url.Values{"metric": {metric.String()}, "continent": {continent}}.Encode()
	return viewDef{name: ViewDistribution, query: q, compute: fallible(func(ds *model.Dataset) (types.DistributionView, error) {
		return s.engine.Distribution(ds, metric, continent)
	})}
}

func (s *Service) dayDef(date time.Time) viewDef {
	q := ""
	if !date.IsZero() {
		q = date.Format(time.DateOnly)
	}
	return viewDef{name: ViewDay, query: q, compute: fallible(func(ds *model.Dataset) (types.DayView, error) {
		return s.engine.Day(ds, date)
	})}
}

// Overview returns the headline KPIs.
func (s *Service) Overview(ctx context.Context) (types.KPIs, error) {
	return run[types.KPIs](ctx, s, s.overviewDef())
}

// FilterOptions lists the values offered by the dashboard widgets.
func (s *Service) FilterOptions(ctx context.Context) (types.FilterOptions, error) {
	return run[types.FilterOptions](ctx, s, s.filtersDef())
}

// Global computes the Global Analysis page.
func (s *Service) Global(ctx context.Context, sel filter.Selection) (types.GlobalView, error) {
	return run[types.GlobalView](ctx, s, s.globalDef(sel))
}

// AthleteNames lists athletes whose name starts with prefix. Names are not
// cached: the prefix space is unbounded.
func (s *Service) AthleteNames(ctx context.Context, prefix string, limit int) ([]string, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	defer func() {
		metrics.RecordViewLatency(ViewAthleteNames, float64(time.Since(start).Milliseconds()))
	}()
	return s.engine.AthleteNames(snap.Dataset, prefix, limit), nil
}

// AthleteProfile returns the detail card of one athlete.
func (s *Service) AthleteProfile(ctx context.Context, name string) (types.AthleteProfile, error) {
	d := viewDef{name: ViewProfile, query: name, compute: fallible(func(ds *model.Dataset) (types.AthleteProfile, error) {
		return s.engine.AthleteProfile(ds, name)
	})}
	return run[types.AthleteProfile](ctx, s, d)
}

// AgeDistribution returns the age violins of a sport.
func (s *Service) AgeDistribution(ctx context.Context, sport string) (types.Figure, error) {
	return run[types.Figure](ctx, s, s.agesDef(sport))
}

// GenderDistribution returns the gender split of a country.
func (s *Service) GenderDistribution(ctx context.Context, country string) (types.Figure, error) {
	return run[types.Figure](ctx, s, s.gendersDef(country))
}

// TopAthletes ranks athletes by medals.
func (s *Service) TopAthletes(ctx context.Context, limit int) (types.Figure, error) {
	return run[types.Figure](ctx, s, s.topAthletesDef(limit))
}

// Schedule returns the Gantt chart.
func (s *Service) Schedule(ctx context.Context, sports, venues []string) (types.ScheduleView, error) {
	return run[types.ScheduleView](ctx, s, s.scheduleDef(sports, venues))
}

// SportTreemap returns the sport by medal treemap.
func (s *Service) SportTreemap(ctx context.Context) (types.TreemapView, error) {
	return run[types.TreemapView](ctx, s, s.treemapDef())
}

// Venues returns the venue map.
func (s *Service) Venues(ctx context.Context) (types.Figure, error) {
	return run[types.Figure](ctx, s, s.venuesDef())
}

// Ranking ranks countries within a continent and gender.
func (s *Service) Ranking(ctx context.Context, continent, gender string, metric analytics.Metric, limit int) (types.RankingView, error) {
	return run[types.RankingView](ctx, s, s.rankingDef(continent, gender, metric, limit))
}

// AthleteSunburst counts medallists by sport, country and gender.
func (s *Service) AthleteSunburst(ctx context.Context, sport string) (types.Figure, error) {
	return run[types.Figure](ctx, s, s.sunburstDef(sport))
}

// Distribution maps a metric with an optional continental breakdown.
func (s *Service) Distribution(ctx context.Context, metric analytics.Metric, continent string) (types.DistributionView, error) {
	return run[types.DistributionView](ctx, s, s.distributionDef(metric, continent))
}

// HeadToHead compares two countries.
func (s *Service) HeadToHead(ctx context.Context, a, b string) (types.HeadToHeadView, error) {
	q := url.Values{"a": {strings.ToUpper(a)}, "b": {strings.ToUpper(b)}}.Encode()
	d := viewDef{name: ViewHeadToHead, query: q, compute: fallible(func(ds *model.Dataset) (types.HeadToHeadView, error) {
		return s.engine.HeadToHead(ds, a, b)
	})}
	return run[types.HeadToHeadView](ctx, s, d)
}

// Day answers who won a day of the games. A zero date is the first day.
func (s *Service) Day(ctx context.Context, date time.Time) (types.DayView, error) {
	return run[types.DayView](ctx, s, s.dayDef(date))
}
