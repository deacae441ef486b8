// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/okian/medalboard/internal/adapters/render"
	service "github.com/okian/medalboard/internal/app"
	"github.com/okian/medalboard/internal/domain/analytics"
	"github.com/okian/medalboard/internal/domain/filter"
	"github.com/okian/medalboard/internal/domain/types"
	"github.com/okian/medalboard/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Overview(ctx context.Context) (types.KPIs, error)
	FilterOptions(ctx context.Context) (types.FilterOptions, error)
	Global(ctx context.Context, sel filter.Selection) (types.GlobalView, error)

	AthleteNames(ctx context.Context, prefix string, limit int) ([]string, error)
	AthleteProfile(ctx context.Context, name string) (types.AthleteProfile, error)
	AgeDistribution(ctx context.Context, sport string) (types.Figure, error)
	GenderDistribution(ctx context.Context, country string) (types.Figure, error)
	TopAthletes(ctx context.Context, limit int) (types.Figure, error)

	Schedule(ctx context.Context, sports, venues []string) (types.ScheduleView, error)
	SportTreemap(ctx context.Context) (types.TreemapView, error)
	Venues(ctx context.Context) (types.Figure, error)

	Ranking(ctx context.Context, continent, gender string, metric analytics.Metric, limit int) (types.RankingView, error)
	AthleteSunburst(ctx context.Context, sport string) (types.Figure, error)
	Distribution(ctx context.Context, metric analytics.Metric, continent string) (types.DistributionView, error)
	HeadToHead(ctx context.Context, a, b string) (types.HeadToHeadView, error)
	Day(ctx context.Context, date time.Time) (types.DayView, error)

	Render(ctx context.Context, f types.Figure, format render.Format) ([]byte, error)
	Reload(ctx context.Context) (uint64, error)
	Health(ctx context.Context) service.Health
}

// Server wires HTTP routes for the dashboard API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	adminHandler  *AdminHandler
	viewsHandler  *ViewsHandler
	chartsHandler *ChartsHandler
}

// Option configures a Server.
type Option func(*serverConfig)

type serverConfig struct {
	renderRate  rate.Limit
	renderBurst int
}

// WithRenderLimit bounds image rendering to perSecond requests with burst.
// A non-positive rate disables the limit.
func WithRenderLimit(perSecond float64, burst int) Option {
	return func(c *serverConfig) {
		if perSecond <= 0 {
			c.renderRate = rate.Inf
			return
		}
		c.renderRate = rate.Limit(perSecond)
		if burst > 0 {
			c.renderBurst = burst
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	cfg := serverConfig{renderRate: 5, renderBurst: 10}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Server{
		healthHandler: NewHealthHandler(deps),
		statsHandler:  NewStatsHandler(statsProvider),
		adminHandler:  NewAdminHandler(deps),
		viewsHandler:  NewViewsHandler(deps),
		chartsHandler: NewChartsHandler(deps, rate.NewLimiter(cfg.renderRate, cfg.renderBurst)),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("POST /admin/reload", MetricsMiddleware(s.adminHandler.HandleReload, "reload"))

	v := s.viewsHandler
	routes := []struct {
		path, endpoint string
		h              http.HandlerFunc
	}{
		{"/api/v1/filters", "filters", v.HandleFilters},
		{"/api/v1/overview", "overview", v.HandleOverview},
		{"/api/v1/global", "global", v.HandleGlobal},
		{"/api/v1/athletes", "athletes", v.HandleAthleteNames},
		{"/api/v1/athletes/profile", "athletes_profile", v.HandleProfile},
		{"/api/v1/athletes/ages", "athletes_ages", v.HandleAges},
		{"/api/v1/athletes/genders", "athletes_genders", v.HandleGenders},
		{"/api/v1/athletes/top", "athletes_top", v.HandleTopAthletes},
		{"/api/v1/sports/schedule", "sports_schedule", v.HandleSchedule},
		{"/api/v1/sports/treemap", "sports_treemap", v.HandleTreemap},
		{"/api/v1/sports/venues", "sports_venues", v.HandleVenues},
		{"/api/v1/la28/ranking", "la28_ranking", v.HandleRanking},
		{"/api/v1/la28/sunburst", "la28_sunburst", v.HandleSunburst},
		{"/api/v1/la28/distribution", "la28_distribution", v.HandleDistribution},
		{"/api/v1/la28/head-to-head", "la28_head_to_head", v.HandleHeadToHead},
		{"/api/v1/la28/day", "la28_day", v.HandleDay},
	}
	for _, r := range routes {
		mux.HandleFunc("GET "+r.path, MetricsMiddleware(r.h, r.endpoint))
	}
	mux.HandleFunc("GET /api/v1/charts/{file}", MetricsMiddleware(s.chartsHandler.HandleChart, "charts"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// msgDatasetUnavailable replaces load errors, which carry local file paths.
const msgDatasetUnavailable = "no dataset is loaded; see the server logs"

// writeError answers with the status and code of err's Kind. Server errors
// are logged; their message is not exposed.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := KindOf(err)
	msg := err.Error()
	if kind == KindDatasetUnavailable {
		logger.Get().Named("api").Warn(r.Context(), "dataset unavailable",
			logger.String("path", r.URL.Path),
			logger.Error(err),
		)
		msg = msgDatasetUnavailable
	}
	if kind.Status >= http.StatusInternalServerError && kind != KindDatasetUnavailable && kind != KindFeatureUnavailable {
		logger.Get().Named("api").Error(r.Context(), "request failed",
			logger.String("path", r.URL.Path),
			logger.Error(err),
		)
		msg = http.StatusText(kind.Status)
	}
	writeJSON(w, kind.Status, errorResponse{Code: kind.Code, Message: msg})
}

// respond writes v, or the error when err is set.
func respond(w http.ResponseWriter, r *http.Request, v any, err error) {
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}
