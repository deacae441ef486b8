package analytics

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/okian/medalboard/internal/domain/model"
	"github.com/okian/medalboard/internal/domain/types"
)

const day = 24 * time.Hour

// Schedule builds the Gantt chart of the first scheduled sports. Each sport
// spans its first to last medal day; sports without dated medals get a
// synthetic interval that is stable for a given seed. Empty sports select the
// default number of sports, empty venues select every venue.
func (e *Engine) Schedule(ds *model.Dataset, sports, venues []string) types.ScheduleView {
	intervals, synthetic := e.scheduleIntervals(ds)

	view := types.ScheduleView{
		Sports:    []string{},
		Venues:    []string{},
		Selected:  []string{},
		Synthetic: synthetic,
		Figure: types.Figure{
			ID:     "sports-schedule",
			Kind:   types.KindTimeline,
			Title:  "Olympic Event Schedule by Sport and Venue",
			XTitle: "Date and Time",
			YTitle: "Event",
		},
	}

	allSports := make(map[string]struct{}, len(intervals))
	allVenues := make(map[string]struct{}, len(intervals))
	for _, iv := range intervals {
		allSports[iv.Group] = struct{}{}
		allVenues[iv.Venue] = struct{}{}
	}
	view.Sports = sortedKeys(allSports)
	view.Venues = sortedKeys(allVenues)

	if len(sports) == 0 {
		n := e.defaultSports
		if n > len(view.Sports) {
			n = len(view.Sports)
		}
		sports = view.Sports[:n]
	}
	view.Selected = append(view.Selected, sports...)
	wantSport := toSet(sports)
	wantVenue := toSet(venues)

	for _, iv := range intervals {
		if !wantSport[iv.Group] {
			continue
		}
		if len(wantVenue) > 0 && !wantVenue[iv.Venue] {
			continue
		}
		view.Figure.Intervals = append(view.Figure.Intervals, iv)
	}
	sort.SliceStable(view.Figure.Intervals, func(i, j int) bool {
		a, b := view.Figure.Intervals[i], view.Figure.Intervals[j]
		if !a.Start.Equal(b.Start) {
			return a.Start.Before(b.Start)
		}
		return a.Label < b.Label
	})
	if len(view.Figure.Intervals) == 0 {
		view.Figure.Notice = "No events match the current sport and venue filters."
	}
	return view
}

func (e *Engine) scheduleIntervals(ds *model.Dataset) ([]types.Interval, bool) {
	// first scheduleCount sports in file order, with their first event
	var order []string
	firstEvent := make(map[string]string)
	for _, ev := range ds.Events {
		if ev.Sport == "" {
			continue
		}
		if _, ok := firstEvent[ev.Sport]; ok {
			continue
		}
		if len(order) == e.scheduleCount {
			break
		}
		order = append(order, ev.Sport)
		firstEvent[ev.Sport] = ev.Event
	}

	type span struct{ first, last time.Time }
	spans := make(map[string]*span)
	for _, m := range ds.Medals {
		if m.Date.IsZero() {
			continue
		}
		if _, ok := firstEvent[m.Sport]; !ok {
			continue
		}
		s, ok := spans[m.Sport]
		if !ok {
			spans[m.Sport] = &span{m.Date, m.Date}
			continue
		}
		if m.Date.Before(s.first) {
			s.first = m.Date
		}
		if m.Date.After(s.last) {
			s.last = m.Date
		}
	}

	venueBySport := make(map[string]string, len(ds.Venues))
	venueNames := make([]string, 0, len(ds.Venues))
	for _, v := range ds.Venues {
		venueNames = append(venueNames, v.Name)
		if _, ok := venueBySport[v.Sport]; !ok {
			venueBySport[v.Sport] = v.Name
		}
	}

	synthetic := false
	out := make([]types.Interval, 0, len(order))
	for _, sport := range order {
		label := firstEvent[sport]
		if label == "" {
			label = sport + " Final"
		}
		rng := e.sportRand(sport)
		iv := types.Interval{Label: label, Group: sport}
		if s, ok := spans[sport]; ok {
			iv.Start = s.first
			iv.Finish = s.last.Add(day)
		} else {
			synthetic = true
			iv.Start = e.gamesStart.Add(time.Duration(1+rng.IntN(10)) * day)
			iv.Finish = iv.Start.Add(time.Duration(3+rng.IntN(5)) * day)
		}
		switch v, ok := venueBySport[sport]; {
		case ok:
			iv.Venue = v
		case len(venueNames) > 0:
			iv.Venue = venueNames[rng.IntN(len(venueNames))]
		default:
			iv.Venue = "TBD"
		}
		out = append(out, iv)
	}
	return out, synthetic
}

// sportRand returns a generator that depends only on the seed and the sport.
func (e *Engine) sportRand(sport string) *rand.Rand {
	h := fnv.New64a()
	_, _ = h.Write([]byte(sport))
	return rand.New(rand.NewPCG(e.seed, h.Sum64()))
}

// SportTreemap counts medals.csv awards by sport and medal type. With fewer
// than two sports it falls back to sport totals.
func (e *Engine) SportTreemap(ds *model.Dataset) (types.TreemapView, error) {
	view := types.TreemapView{
		Figure: types.Figure{
			ID:    "sports-treemap",
			Kind:  types.KindTreemap,
			Title: "Total Medal Count by Sport (Drill-down by Medal Type)",
		},
	}
	if len(ds.Awards) == 0 {
		return view, fmt.Errorf("sport treemap needs medals.csv or medallists.csv: %w", ErrUnavailable)
	}

	const root = "All Sports"
	sports := make(map[string]struct{})
	for _, a := range ds.Awards {
		if a.Sport != "" && a.Type.Valid() {
			sports[a.Sport] = struct{}{}
		}
	}

	h := newHierarchy()
	if len(sports) > 1 {
		view.Detailed = true
		for _, a := range ds.Awards {
			if a.Sport == "" || !a.Type.Valid() {
				continue
			}
			h.add([]string{root, a.Sport, a.Type.Label()}, 1, a.Type.Color())
		}
	} else {
		view.Figure.Title = "Total Medal Count by Sport (Simplified View)"
		view.Figure.Notice = "Medal data by sport lacks variety (fewer than 2 sports), showing totals per sport."
		for _, a := range ds.Awards {
			sport := a.Sport
			if sport == "" {
				sport = "Unknown"
			}
			h.add([]string{root, sport}, 1, "")
		}
	}
	view.Figure.Nodes = h.list()
	return view, nil
}

// Venues places the competition venues on a map, sized by capacity.
func (e *Engine) Venues(ds *model.Dataset) types.Figure {
	f := types.Figure{
		ID:    "sports-venues",
		Kind:  types.KindScatterMap,
		Title: "Competition Venues (Approximate Locations)",
	}
	for _, v := range ds.Venues {
		f.Markers = append(f.Markers, types.Marker{
			Label: v.Name,
			Group: v.Sport,
			Lat:   v.Lat,
			Lon:   v.Lon,
			Size:  float64(v.Capacity),
		})
	}
	if len(f.Markers) == 0 {
		f.Notice = "Venue location data is not available."
	}
	return f
}

func toSet(values []string) map[string]bool {
	out := make(map[string]bool, len(values))
	for _, v := range values {
		out[v] = true
	}
	return out
}
