package analytics

import (
	"fmt"

	"github.com/okian/medalboard/internal/domain/filter"
	"github.com/okian/medalboard/internal/domain/model"
	"github.com/okian/medalboard/internal/domain/types"
)

// hierarchyMinGroups is the number of continent/country/sport groups the
// sunburst and treemap need before they are drawn.
const hierarchyMinGroups = 10

// Global computes the Global Analysis page for a selection.
func (e *Engine) Global(ds *model.Dataset, sel filter.Selection) types.GlobalView {
	sel = sel.Normalize()
	tallies := filter.Tallies(ds.Tallies, sel)

	view := types.GlobalView{
		Selection:    sel,
		KPIs:         talliesKPIs(ds, tallies),
		Map:          worldMap(ds, tallies),
		TopCountries: e.topCountriesFigure(ds, tallies, sel),
		Continents:   continentsFigure(ds, tallies, sel),
	}

	h, groups := medalHierarchy(ds, filter.Medals(ds.Medals, sel))
	view.HierarchyReady = groups > hierarchyMinGroups
	view.Sunburst = types.Figure{
		ID:    "global-sunburst",
		Kind:  types.KindSunburst,
		Title: "Medal Distribution by Geographic and Sport Hierarchy",
	}
	view.Treemap = view.Sunburst
	view.Treemap.ID = "global-treemap"
	view.Treemap.Kind = types.KindTreemap
	if view.HierarchyReady {
		nodes := h.list()
		view.Sunburst.Nodes = nodes
		view.Treemap.Nodes = nodes
	} else {
		notice := "Not enough per-athlete medal rows for the current filters to draw the continent, country and sport hierarchy."
		if !ds.HasMedals() {
			notice = "The hierarchy needs medallists.csv for the sport level."
		}
		view.Sunburst.Notice = notice
		view.Treemap.Notice = notice
	}
	return view
}

func worldMap(ds *model.Dataset, tallies []model.CountryTally) types.Figure {
	f := types.Figure{ID: "global-map", Kind: types.KindChoropleth, Title: "Total Medals by Country"}
	totals := newCounter()
	for _, t := range tallies {
		totals.add(t.NOC, t.Total)
	}
	for _, c := range totals.ranked() {
		f.Locations = append(f.Locations, types.Location{Code: c.Key, Label: ds.CountryLabel(c.Key), Value: float64(c.Value)})
	}
	if len(f.Locations) == 0 {
		f.Notice = "No medal data available for the current filters."
	}
	return f
}

// zeroed sums tallies per key with the unselected medal types set to zero.
func zeroed(tallies []model.CountryTally, key func(model.CountryTally) string, sel filter.Selection) *medalTable {
	table := newMedalTable()
	for _, t := range tallies {
		k := key(t)
		for _, m := range model.MedalTypes {
			n := t.Get(m)
			if !sel.AllowsMedal(m) {
				n = 0
			}
			table.add(k, m, n)
		}
	}
	return table
}

func (e *Engine) topCountriesFigure(ds *model.Dataset, tallies []model.CountryTally, sel filter.Selection) types.Figure {
	f := types.Figure{
		ID:          "global-top-countries",
		Kind:        types.KindGroupedBar,
		Title:       fmt.Sprintf("Top %d Nations by Total Medals", e.topCountries),
		XTitle:      "Medal Count",
		Orientation: types.Horizontal,
	}
	table := zeroed(tallies, func(t model.CountryTally) string { return t.NOC }, sel)
	nocs := table.ranked(model.MedalCount.Total)
	if len(nocs) > e.topCountries {
		nocs = nocs[:e.topCountries]
	}
	for _, noc := range nocs {
		f.Categories = append(f.Categories, ds.CountryLabel(noc))
	}
	f.Series = medalSeries(nocs, ds.CountryLabel, table.get, sel.AllowsMedal)
	if f.Empty() {
		f.Notice = "No medals for the current filters."
	}
	return f
}

func continentsFigure(ds *model.Dataset, tallies []model.CountryTally, sel filter.Selection) types.Figure {
	f := types.Figure{
		ID:     "global-continents",
		Kind:   types.KindGroupedBar,
		Title:  "Medal Totals by Continent",
		XTitle: "Continent",
		YTitle: "Medals",
	}
	table := zeroed(tallies, func(t model.CountryTally) string { return ds.Continent(t.NOC) }, sel)
	continents := make(map[string]struct{}, len(table.order))
	for _, c := range table.order {
		continents[c] = struct{}{}
	}
	keys := sortedKeys(continents)
	f.Categories = keys
	f.Series = medalSeries(keys, identity, table.get, sel.AllowsMedal)
	if f.Empty() {
		f.Notice = "Not enough medal data to compare continents."
	}
	return f
}

// medalHierarchy counts medal rows by continent, country label and sport.
// It returns the number of leaf groups.
func medalHierarchy(ds *model.Dataset, rows []model.Medal) (*hierarchy, int) {
	h := newHierarchy()
	for _, r := range rows {
		sport := r.Sport
		if sport == "" {
			sport = "All sports"
		}
		h.add([]string{ds.Continent(r.NOC), ds.CountryLabel(r.NOC), sport}, 1, "")
	}
	return h, h.leaves()
}
