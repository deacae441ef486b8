package analytics

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/okian/medalboard/internal/domain/model"
	"github.com/okian/medalboard/internal/domain/types"
)

// Metric selects the count a ranking orders by.
type Metric struct {
	// Medal is MedalNone for the total.
	Medal model.MedalType
}

// MetricTotal ranks by total medals.
var MetricTotal = Metric{} //nolint:gochecknoglobals // immutable value

// ParseMetric accepts "Total" and every medal spelling ParseMedalType does.
// An empty string is the total.
func ParseMetric(s string) (Metric, error) {
	if t := strings.ToLower(strings.TrimSpace(s)); t == "" || t == "total" {
		return MetricTotal, nil
	}
	m, ok := model.ParseMedalType(s)
	if !ok {
		return Metric{}, fmt.Errorf("metric %q: %w", s, ErrInvalidArgument)
	}
	return Metric{Medal: m}, nil
}

// String is the display name: Total or "Gold Medal".
func (m Metric) String() string {
	if m.Medal.Valid() {
		return m.Medal.Label()
	}
	return "Total"
}

// Of returns the metric value of c.
func (m Metric) Of(c model.MedalCount) int {
	if m.Medal.Valid() {
		return c.Get(m.Medal)
	}
	return c.Total()
}

// complete reports whether a medallist row has every field the LA28 views
// group on. Incomplete rows are left out of those views.
func complete(m model.Medal) bool {
	return !m.Date.IsZero() && m.Type.Valid() && m.NOC != "" && m.Sport != "" &&
		m.Athlete != "" && m.Gender != ""
}

func requireMedals(ds *model.Dataset, view string) error {
	if !ds.HasMedals() {
		return fmt.Errorf("%s needs medallists.csv: %w", view, ErrUnavailable)
	}
	return nil
}

// Ranking ranks countries by metric among medallists of a continent and
// gender. Empty or "All" continent and gender place no restriction.
// limit <= 0 uses the configured default.
func (e *Engine) Ranking(ds *model.Dataset, continent, gender string, metric Metric, limit int) (types.RankingView, error) {
	if limit <= 0 {
		limit = e.rankingLimit
	}
	view := types.RankingView{Continent: "All", Gender: "All", Metric: metric.String(), Rows: []types.RankRow{}}
	if !isAll(continent) {
		view.Continent = continent
	}
	if !isAll(gender) {
		view.Gender = gender
	}
	if err := requireMedals(ds, "ranking"); err != nil {
		return view, err
	}

	table := newMedalTable()
	for _, m := range ds.Medals {
		if !complete(m) {
			continue
		}
		if !isAll(continent) && ds.Continent(m.NOC) != continent {
			continue
		}
		if !isAll(gender) && !strings.EqualFold(m.Gender, gender) {
			continue
		}
		table.add(m.NOC, m.Type, 1)
	}

	nocs := table.ranked(metric.Of)
	if len(nocs) > limit {
		nocs = nocs[:limit]
	}
	view.Rows = rankRows(ds, nocs, table)

	scope := "Global"
	if !isAll(continent) {
		scope = continent
	}
	who := "(All Athletes)"
	if !isAll(gender) {
		who = fmt.Sprintf("(%s Athletes)", gender)
	}
	f := types.Figure{
		ID:         "la28-ranking",
		Title:      fmt.Sprintf("Top %d Countries in %s by %s %s", limit, scope, metric, who),
		XTitle:     "Country (NOC)",
		YTitle:     metric.String(),
		Categories: nocs,
	}
	if metric.Medal.Valid() {
		f.Kind = types.KindBar
		s := types.Series{Name: metric.String(), Color: metric.Medal.Color(), Labels: []string{}, Values: []float64{}}
		for _, noc := range nocs {
			s.Labels = append(s.Labels, noc)
			s.Values = append(s.Values, float64(metric.Of(table.get(noc))))
		}
		f.Series = []types.Series{s}
	} else {
		f.Kind = types.KindStackedBar
		f.Series = medalSeries(nocs, identity, table.get, allMedals)
	}
	if len(nocs) == 0 {
		f.Notice = "No data available for the selected filters."
	}
	view.Figure = f
	return view, nil
}

func rankRows(ds *model.Dataset, nocs []string, table *medalTable) []types.RankRow {
	rows := make([]types.RankRow, 0, len(nocs))
	for i, noc := range nocs {
		c := table.get(noc)
		rows = append(rows, types.RankRow{
			Rank:      i + 1,
			NOC:       noc,
			Country:   ds.CountryLabel(noc),
			Continent: ds.Continent(noc),
			Gold:      c.Gold,
			Silver:    c.Silver,
			Bronze:    c.Bronze,
			Total:     c.Total(),
		})
	}
	return rows
}

// AthleteSunburst counts unique medallists by sport, country and gender.
// An empty or "All Sports" sport covers every sport.
func (e *Engine) AthleteSunburst(ds *model.Dataset, sport string) (types.Figure, error) {
	label := "All Sports"
	if !isAll(sport) {
		label = sport
	}
	f := types.Figure{
		ID:    "la28-sunburst",
		Kind:  types.KindSunburst,
		Title: fmt.Sprintf("Unique Athlete Distribution by Sport, Country, and Gender (%s)", label),
	}
	if err := requireMedals(ds, "athlete sunburst"); err != nil {
		return f, err
	}

	type leaf struct{ sport, noc, gender string }
	athletes := make(map[leaf]map[string]struct{})
	for _, m := range ds.Medals {
		if !complete(m) {
			continue
		}
		if !isAll(sport) && m.Sport != sport {
			continue
		}
		if m.Sport == "" || m.NOC == "" || m.Gender == "" || m.Athlete == "" {
			continue
		}
		k := leaf{m.Sport, m.NOC, m.Gender}
		if athletes[k] == nil {
			athletes[k] = make(map[string]struct{})
		}
		athletes[k][m.Athlete] = struct{}{}
	}
	h := newHierarchy()
	for k, names := range athletes {
		h.add([]string{k.sport, k.noc, k.gender}, float64(len(names)), "")
	}
	f.Nodes = h.list()
	if len(f.Nodes) == 0 {
		f.Notice = "No data available for the selected sport."
	}
	return f, nil
}

// Distribution maps a metric over medals_total.csv and, for a continent,
// breaks down its ten best countries by medal type.
func (e *Engine) Distribution(ds *model.Dataset, metric Metric, continent string) (types.DistributionView, error) {
	view := types.DistributionView{
		Metric: metric.String(),
		Map: types.Figure{
			ID:    "la28-map",
			Kind:  types.KindChoropleth,
			Title: fmt.Sprintf("Global Distribution of %s Counts", metric),
		},
	}
	for _, t := range ds.Tallies {
		v := metric.Of(t.MedalCount)
		if !metric.Medal.Valid() {
			v = t.Total
		}
		view.Map.Locations = append(view.Map.Locations, types.Location{Code: t.NOC, Label: ds.CountryLabel(t.NOC), Value: float64(v)})
	}
	if len(view.Map.Locations) == 0 {
		view.Map.Notice = "Aggregated medal data is missing."
	}
	if isAll(continent) {
		return view, nil
	}

	view.Continent = continent
	if err := requireMedals(ds, "continental breakdown"); err != nil {
		return view, err
	}
	table := newMedalTable()
	for _, m := range ds.Medals {
		if !complete(m) {
			continue
		}
		if ds.Continent(m.NOC) == continent {
			table.add(m.NOC, m.Type, 1)
		}
	}
	const breakdownTop = 10
	nocs := table.ranked(model.MedalCount.Total)
	if len(nocs) > breakdownTop {
		nocs = nocs[:breakdownTop]
	}
	view.Rows = rankRows(ds, nocs, table)
	view.Breakdown = &types.Figure{
		ID:         "la28-breakdown",
		Kind:       types.KindStackedBar,
		Title:      fmt.Sprintf("Medal Tally in %s (Top %d)", continent, breakdownTop),
		XTitle:     "Country (NOC)",
		YTitle:     "Medal Count",
		Categories: nocs,
		Series:     medalSeries(nocs, identity, table.get, allMedals),
	}
	if len(nocs) == 0 {
		view.Breakdown.Notice = "No medallists from this continent."
	}
	return view, nil
}

// HeadToHead compares two countries sport by sport. Sports where neither won
// a medal are left out; the rest are ordered by combined total.
func (e *Engine) HeadToHead(ds *model.Dataset, a, b string) (types.HeadToHeadView, error) {
	a, b = strings.ToUpper(strings.TrimSpace(a)), strings.ToUpper(strings.TrimSpace(b))
	view := types.HeadToHeadView{A: a, B: b, Sports: []types.SportComparison{}}
	if a == "" || b == "" {
		return view, fmt.Errorf("two countries are required: %w", ErrInvalidArgument)
	}
	if err := requireMedals(ds, "head-to-head"); err != nil {
		return view, err
	}

	var totalA, totalB model.MedalCount
	perSport := make(map[string]*types.SportComparison)
	var found [2]bool
	for _, m := range ds.Medals {
		if !complete(m) {
			continue
		}
		var side int
		switch m.NOC {
		case a:
			side = 0
			totalA.Add(m.Type, 1)
		case b:
			side = 1
			totalB.Add(m.Type, 1)
		default:
			continue
		}
		found[side] = true
		c, ok := perSport[m.Sport]
		if !ok {
			c = &types.SportComparison{Sport: m.Sport}
			perSport[m.Sport] = c
		}
		if side == 0 {
			c.A++
		} else {
			c.B++
		}
		if a == b {
			// one row counts for both sides
			c.B = c.A
			totalB = totalA
			found[1] = true
		}
	}
	switch {
	case !found[0]:
		return view, fmt.Errorf("country %q has no medals: %w", a, ErrNotFound)
	case !found[1]:
		return view, fmt.Errorf("country %q has no medals: %w", b, ErrNotFound)
	}

	for _, c := range perSport {
		c.Combined = c.A + c.B
		view.Sports = append(view.Sports, *c)
	}
	sort.Slice(view.Sports, func(i, j int) bool {
		if view.Sports[i].Combined != view.Sports[j].Combined {
			return view.Sports[i].Combined > view.Sports[j].Combined
		}
		return view.Sports[i].Sport < view.Sports[j].Sport
	})

	for _, m := range model.MedalTypes {
		view.Summary = append(view.Summary, types.SummaryRow{Metric: m.Label(), A: totalA.Get(m), B: totalB.Get(m)})
	}
	view.Summary = append(view.Summary, types.SummaryRow{Metric: "Total", A: totalA.Total(), B: totalB.Total()})

	f := types.Figure{
		ID:     "la28-head-to-head",
		Kind:   types.KindGroupedBar,
		Title:  fmt.Sprintf("Medal Comparison: %s vs. %s by Sport", a, b),
		XTitle: "Sport",
		YTitle: "Total Medals",
	}
	sa := types.Series{Name: a, Color: palette[0], Labels: []string{}, Values: []float64{}}
	sb := types.Series{Name: b, Color: palette[4], Labels: []string{}, Values: []float64{}}
	for _, c := range view.Sports {
		f.Categories = append(f.Categories, c.Sport)
		sa.Labels = append(sa.Labels, c.Sport)
		sa.Values = append(sa.Values, float64(c.A))
		sb.Labels = append(sb.Labels, c.Sport)
		sb.Values = append(sb.Values, float64(c.B))
	}
	f.Series = []types.Series{sa, sb}
	view.Figure = f
	return view, nil
}

// Day lists the medals of one day of the games and its top country.
// A zero date selects the first medal day.
func (e *Engine) Day(ds *model.Dataset, date time.Time) (types.DayView, error) {
	view := types.DayView{Events: []types.DayEvent{}}
	first, last, ok := ds.MedalDates()
	if !ok {
		return view, fmt.Errorf("who won the day needs dated medallists: %w", ErrUnavailable)
	}
	view.Range = types.DateRange{First: first, Last: last}
	if date.IsZero() {
		date = first
	}
	date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	if date.Before(first) || date.After(last) {
		return view, fmt.Errorf("date %s outside %s..%s: %w",
			date.Format(time.DateOnly), first.Format(time.DateOnly), last.Format(time.DateOnly), ErrInvalidArgument)
	}
	view.Date = date

	perNOC := newCounter()
	table := newMedalTable()
	var rows []model.Medal
	for _, m := range ds.Medals {
		if !complete(m) {
			continue
		}
		if !m.Date.Equal(date) {
			continue
		}
		rows = append(rows, m)
		perNOC.add(m.NOC, 1)
		table.add(m.NOC, m.Type, 1)
	}

	view.Figure = types.Figure{
		ID:     "la28-day",
		Kind:   types.KindStackedBar,
		Title:  "Daily Medal Distribution by Country",
		XTitle: "NOC",
		YTitle: "Count",
	}
	if len(rows) == 0 {
		view.Figure.Notice = "No medal events recorded on " + date.Format("January 02, 2006") + "."
		return view, nil
	}

	ranked := perNOC.ranked()
	view.Top = &types.TopPerformer{NOC: ranked[0].Key, Medals: ranked[0].Value}
	nocs := make([]string, len(ranked))
	for i, c := range ranked {
		nocs[i] = c.Key
	}
	view.Figure.Categories = nocs
	view.Figure.Series = medalSeries(nocs, identity, table.get, allMedals)

	sort.SliceStable(rows, func(i, j int) bool {
		x, y := rows[i], rows[j]
		if x.Type != y.Type {
			return x.Type < y.Type
		}
		if x.NOC != y.NOC {
			return x.NOC < y.NOC
		}
		if x.Event != y.Event {
			return x.Event < y.Event
		}
		return x.Athlete < y.Athlete
	})
	for _, r := range rows {
		view.Events = append(view.Events, types.DayEvent{
			Medal:   r.Type.Label(),
			NOC:     r.NOC,
			Sport:   r.Sport,
			Event:   r.Event,
			Athlete: r.Athlete,
		})
	}
	return view, nil
}
