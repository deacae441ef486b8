package api

import (
	"net/http"
	"strings"
)

// ViewsHandler serves the JSON views of every dashboard page.
type ViewsHandler struct {
	deps Dependencies
}

// NewViewsHandler creates a new views handler.
func NewViewsHandler(deps Dependencies) *ViewsHandler {
	return &ViewsHandler{deps: deps}
}

// HandleFilters handles GET /api/v1/filters.
func (h *ViewsHandler) HandleFilters(w http.ResponseWriter, r *http.Request) {
	v, err := h.deps.FilterOptions(r.Context())
	respond(w, r, v, err)
}

// HandleOverview handles GET /api/v1/overview.
func (h *ViewsHandler) HandleOverview(w http.ResponseWriter, r *http.Request) {
	v, err := h.deps.Overview(r.Context())
	respond(w, r, v, err)
}

// HandleGlobal handles GET /api/v1/global?noc=&sport=&medal=.
func (h *ViewsHandler) HandleGlobal(w http.ResponseWriter, r *http.Request) {
	sel, err := selection(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}
	v, err := h.deps.Global(r.Context(), sel)
	respond(w, r, v, err)
}

// HandleAthleteNames handles GET /api/v1/athletes?q=&limit=.
func (h *ViewsHandler) HandleAthleteNames(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, err := intParam(q, "limit", 50)
	if err != nil {
		writeError(w, r, err)
		return
	}
	v, err := h.deps.AthleteNames(r.Context(), q.Get("q"), limit)
	respond(w, r, v, err)
}

// HandleProfile handles GET /api/v1/athletes/profile?name=.
func (h *ViewsHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		writeError(w, r, Wrap("name is required", nil))
		return
	}
	v, err := h.deps.AthleteProfile(r.Context(), name)
	respond(w, r, v, err)
}

// HandleAges handles GET /api/v1/athletes/ages?sport=.
func (h *ViewsHandler) HandleAges(w http.ResponseWriter, r *http.Request) {
	v, err := h.deps.AgeDistribution(r.Context(), r.URL.Query().Get("sport"))
	respond(w, r, v, err)
}

// HandleGenders handles GET /api/v1/athletes/genders?country=.
func (h *ViewsHandler) HandleGenders(w http.ResponseWriter, r *http.Request) {
	v, err := h.deps.GenderDistribution(r.Context(), r.URL.Query().Get("country"))
	respond(w, r, v, err)
}

// HandleTopAthletes handles GET /api/v1/athletes/top?limit=.
func (h *ViewsHandler) HandleTopAthletes(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r.URL.Query(), "limit", 0)
	if err != nil {
		writeError(w, r, err)
		return
	}
	v, err := h.deps.TopAthletes(r.Context(), limit)
	respond(w, r, v, err)
}

// HandleSchedule handles GET /api/v1/sports/schedule?sport=&venue=.
func (h *ViewsHandler) HandleSchedule(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	v, err := h.deps.Schedule(r.Context(), list(q, "sport"), list(q, "venue"))
	respond(w, r, v, err)
}

// HandleTreemap handles GET /api/v1/sports/treemap.
func (h *ViewsHandler) HandleTreemap(w http.ResponseWriter, r *http.Request) {
	v, err := h.deps.SportTreemap(r.Context())
	respond(w, r, v, err)
}

// HandleVenues handles GET /api/v1/sports/venues.
func (h *ViewsHandler) HandleVenues(w http.ResponseWriter, r *http.Request) {
	v, err := h.deps.Venues(r.Context())
	respond(w, r, v, err)
}

// HandleRanking handles GET /api/v1/la28/ranking?continent=&gender=&metric=&limit=.
func (h *ViewsHandler) HandleRanking(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	metric, err := metricParam(q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	limit, err := intParam(q, "limit", 0)
	if err != nil {
		writeError(w, r, err)
		return
	}
	v, err := h.deps.Ranking(r.Context(), q.Get("continent"), q.Get("gender"), metric, limit)
	respond(w, r, v, err)
}

// HandleSunburst handles GET /api/v1/la28/sunburst?sport=.
func (h *ViewsHandler) HandleSunburst(w http.ResponseWriter, r *http.Request) {
	v, err := h.deps.AthleteSunburst(r.Context(), r.URL.Query().Get("sport"))
	respond(w, r, v, err)
}

// HandleDistribution handles GET /api/v1/la28/distribution?metric=&continent=.
func (h *ViewsHandler) HandleDistribution(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	metric, err := metricParam(q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	v, err := h.deps.Distribution(r.Context(), metric, q.Get("continent"))
	respond(w, r, v, err)
}

// HandleHeadToHead handles GET /api/v1/la28/head-to-head?a=&b=.
func (h *ViewsHandler) HandleHeadToHead(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	v, err := h.deps.HeadToHead(r.Context(), q.Get("a"), q.Get("b"))
	respond(w, r, v, err)
}

// HandleDay handles GET /api/v1/la28/day?date=YYYY-MM-DD.
func (h *ViewsHandler) HandleDay(w http.ResponseWriter, r *http.Request) {
	date, err := dateParam(r.URL.Query(), "date")
	if err != nil {
		writeError(w, r, err)
		return
	}
	v, err := h.deps.Day(r.Context(), date)
	respond(w, r, v, err)
}
