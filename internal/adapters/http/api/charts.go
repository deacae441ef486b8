package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/time/rate"

	"github.com/okian/medalboard/internal/adapters/render"
	"github.com/okian/medalboard/internal/domain/types"
	"github.com/okian/medalboard/pkg/metrics"
)

// figureFunc resolves one chart from its query parameters.
type figureFunc func(ctx context.Context, q url.Values) (types.Figure, error)

// ChartsHandler renders figures as PNG or SVG images.
type ChartsHandler struct {
	deps    Dependencies
	limiter *rate.Limiter
	figures map[string]figureFunc
}

// NewChartsHandler creates a charts handler. Rendering is CPU bound, so
// requests beyond limiter's budget are rejected with 429.
func NewChartsHandler(deps Dependencies, limiter *rate.Limiter) *ChartsHandler {
	h := &ChartsHandler{deps: deps, limiter: limiter}
	h.figures = map[string]figureFunc{
		"global-top-countries": h.global(func(v types.GlobalView) types.Figure { return v.TopCountries }),
		"global-continents":    h.global(func(v types.GlobalView) types.Figure { return v.Continents }),
		"global-map":           h.global(func(v types.GlobalView) types.Figure { return v.Map }),
		"global-sunburst":      h.global(func(v types.GlobalView) types.Figure { return v.Sunburst }),
		"global-treemap":       h.global(func(v types.GlobalView) types.Figure { return v.Treemap }),
		"athletes-ages": func(ctx context.Context, q url.Values) (types.Figure, error) {
			return deps.AgeDistribution(ctx, q.Get("sport"))
		},
		"athletes-genders": func(ctx context.Context, q url.Values) (types.Figure, error) {
			return deps.GenderDistribution(ctx, q.Get("country"))
		},
		"athletes-top": func(ctx context.Context, q url.Values) (types.Figure, error) {
			limit, err := intParam(q, "limit", 0)
			if err != nil {
				return types.Figure{}, err
			}
			return deps.TopAthletes(ctx, limit)
		},
		"sports-schedule": func(ctx context.Context, q url.Values) (types.Figure, error) {
			v, err := deps.Schedule(ctx, list(q, "sport"), list(q, "venue"))
			return v.Figure, err
		},
		"sports-treemap": func(ctx context.Context, _ url.Values) (types.Figure, error) {
			v, err := deps.SportTreemap(ctx)
			return v.Figure, err
		},
		"sports-venues": func(ctx context.Context, _ url.Values) (types.Figure, error) {
			return deps.Venues(ctx)
		},
		"la28-ranking": func(ctx context.Context, q url.Values) (types.Figure, error) {
			metric, err := metricParam(q)
			if err != nil {
				return types.Figure{}, err
			}
			limit, err := intParam(q, "limit", 0)
			if err != nil {
				return types.Figure{}, err
			}
			v, err := deps.Ranking(ctx, q.Get("continent"), q.Get("gender"), metric, limit)
			return v.Figure, err
		},
		"la28-sunburst": func(ctx context.Context, q url.Values) (types.Figure, error) {
			return deps.AthleteSunburst(ctx, q.Get("sport"))
		},
		"la28-map": func(ctx context.Context, q url.Values) (types.Figure, error) {
			metric, err := metricParam(q)
			if err != nil {
				return types.Figure{}, err
			}
			v, err := deps.Distribution(ctx, metric, q.Get("continent"))
			return v.Map, err
		},
		"la28-breakdown": func(ctx context.Context, q url.Values) (types.Figure, error) {
			metric, err := metricParam(q)
			if err != nil {
				return types.Figure{}, err
			}
			v, err := deps.Distribution(ctx, metric, q.Get("continent"))
			if err != nil {
				return types.Figure{}, err
			}
			if v.Breakdown == nil {
				return types.Figure{}, Wrap("the breakdown needs a continent", nil)
			}
			return *v.Breakdown, nil
		},
		"la28-head-to-head": func(ctx context.Context, q url.Values) (types.Figure, error) {
			v, err := deps.HeadToHead(ctx, q.Get("a"), q.Get("b"))
			return v.Figure, err
		},
		"la28-day": func(ctx context.Context, q url.Values) (types.Figure, error) {
			date, err := dateParam(q, "date")
			if err != nil {
				return types.Figure{}, err
			}
			v, err := deps.Day(ctx, date)
			return v.Figure, err
		},
	}
	return h
}

func (h *ChartsHandler) global(pick func(types.GlobalView) types.Figure) figureFunc {
	return func(ctx context.Context, q url.Values) (types.Figure, error) {
		sel, err := selection(q)
		if err != nil {
			return types.Figure{}, err
		}
		v, err := h.deps.Global(ctx, sel)
		return pick(v), err
	}
}

// HandleChart handles GET /api/v1/charts/{id}.{png,svg}.
func (h *ChartsHandler) HandleChart(w http.ResponseWriter, r *http.Request) {
	file := r.PathValue("file")
	dot := strings.LastIndexByte(file, '.')
	if dot <= 0 {
		writeError(w, r, Wrap(fmt.Sprintf("%q: expected {id}.png or {id}.svg", file), nil))
		return
	}
	id := file[:dot]
	format, err := render.ParseFormat(file[dot+1:])
	if err != nil {
		writeError(w, r, err)
		return
	}
	resolve, ok := h.figures[id]
	if !ok {
		writeError(w, r, fmt.Errorf("%q: %w", id, ErrUnknownView))
		return
	}

	if !h.limiter.Allow() {
		metrics.RecordRenderRejected()
		w.Header().Set("Retry-After", "1")
		writeError(w, r, ErrRateLimited)
		return
	}

	fig, err := resolve(r.Context(), r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}
	img, err := h.deps.Render(r.Context(), fig, format)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(img)
}

// ChartIDs lists the chart identifiers the handler resolves.
func (h *ChartsHandler) ChartIDs() []string {
	ids := make([]string, 0, len(h.figures))
	for id := range h.figures {
		ids = append(ids, id)
	}
	return ids
}
