package analytics

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/okian/medalboard/internal/domain/model"
	"github.com/okian/medalboard/internal/domain/types"
)

var (
	coachPrefix = regexp.MustCompile(`(?i)^\s*(Personal|National)\s*[:\-]\s*`) //nolint:gochecknoglobals // compiled once
	coachNOC    = regexp.MustCompile(`\s*\([A-Z]{3}\)`)                         //nolint:gochecknoglobals // compiled once
)

// AthleteNames lists athlete names in file order. A non-empty prefix keeps
// names starting with it, case-insensitively. limit <= 0 keeps all.
func (e *Engine) AthleteNames(ds *model.Dataset, prefix string, limit int) []string {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	out := []string{}
	for _, a := range ds.Athletes {
		if a.Name == "" {
			continue
		}
		if prefix != "" && !strings.HasPrefix(strings.ToLower(a.Name), prefix) {
			continue
		}
		out = append(out, a.Name)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// AthleteProfile returns the detail card of the first athlete named name.
func (e *Engine) AthleteProfile(ds *model.Dataset, name string) (types.AthleteProfile, error) {
	a, ok := ds.Athlete(name)
	if !ok {
		return types.AthleteProfile{}, fmt.Errorf("athlete %q: %w", name, ErrNotFound)
	}

	raw := []string{}
	if a.Coach != "" {
		raw = append(raw, strings.Split(a.Coach, ",")...)
	}
	for _, l := range ds.Coaches {
		if l.AthleteCode == a.Code && a.Code != "" {
			raw = append(raw, l.CoachName)
		}
	}

	p := types.AthleteProfile{
		Code:        a.Code,
		Name:        a.Name,
		Initials:    initials(a.Name),
		Gender:      a.Gender,
		Country:     a.Country,
		NOC:         a.NOC,
		Height:      a.Height,
		Weight:      a.Weight,
		Coaches:     CleanCoaches(raw),
		Disciplines: append([]string{}, a.Disciplines...),
		OtherSports: append([]string{}, a.OtherSports...),
	}
	if age, ok := e.age(a.BirthDate); ok {
		p.Age = &age
	}
	return p, nil
}

// CleanCoaches strips "Personal:"/"National -" prefixes and "(NOC)" suffixes
// and removes blanks and duplicates, keeping first-seen order.
func CleanCoaches(names []string) []string {
	out := []string{}
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		n = coachPrefix.ReplaceAllString(n, "")
		n = strings.TrimSpace(coachNOC.ReplaceAllString(n, ""))
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

func initials(name string) string {
	name = strings.TrimSpace(name)
	switch utf8.RuneCountInString(name) {
	case 0:
		return "??"
	case 1:
		return strings.ToUpper(name) + "?"
	}
	r := []rune(name)
	return strings.ToUpper(string(r[:2]))
}

// age is whole 365-day years between birth and the reference date.
func (e *Engine) age(birth time.Time) (int, bool) {
	if birth.IsZero() {
		return 0, false
	}
	days := int(e.reference.Sub(birth).Hours() / 24)
	if days < 0 {
		return 0, false
	}
	return days / 365, true
}

// AgeDistribution draws one violin of athlete ages per gender. An empty or
// "All" sport covers every athlete.
func (e *Engine) AgeDistribution(ds *model.Dataset, sport string) types.Figure {
	f := types.Figure{
		ID:     "athletes-ages",
		Kind:   types.KindViolin,
		Title:  "Age Distribution of All Athletes",
		XTitle: "Gender",
		YTitle: "Age",
	}
	if !isAll(sport) {
		f.Title = "Age Distribution of Athletes in " + sport
	}

	byGender := make(map[string]*types.Distribution)
	for _, a := range ds.Athletes {
		if !isAll(sport) && !a.HasDiscipline(sport) {
			continue
		}
		age, ok := e.age(a.BirthDate)
		if !ok || a.Gender == "" {
			continue
		}
		d, ok := byGender[a.Gender]
		if !ok {
			d = &types.Distribution{Name: a.Gender}
			byGender[a.Gender] = d
		}
		d.Values = append(d.Values, float64(age))
		d.Labels = append(d.Labels, a.Name)
	}
	for i, g := range sortedKeys(byGender) {
		d := byGender[g]
		d.Color = palette[i%len(palette)]
		d.Summary = fiveNumber(d.Values)
		f.Distributions = append(f.Distributions, *d)
	}
	if f.Empty() {
		f.Notice = "No data available for age distribution."
	}
	return f
}

// GenderDistribution counts athletes per gender for a country name or NOC.
// An empty or "All" country counts every athlete.
func (e *Engine) GenderDistribution(ds *model.Dataset, country string) types.Figure {
	f := types.Figure{
		ID:     "athletes-genders",
		Kind:   types.KindBar,
		Title:  "Gender Distribution Worldwide",
		XTitle: "Gender",
		YTitle: "Count",
	}
	if !isAll(country) {
		f.Title = "Gender Distribution in " + country
	}
	c := newCounter()
	for _, a := range ds.Athletes {
		if a.Gender == "" {
			continue
		}
		if !isAll(country) && a.Country != country && a.NOC != strings.ToUpper(country) {
			continue
		}
		c.add(a.Gender, 1)
	}
	s := types.Series{Name: "count", Labels: []string{}, Values: []float64{}}
	for _, g := range c.ranked() {
		s.Labels = append(s.Labels, g.Key)
		s.Values = append(s.Values, float64(g.Value))
	}
	f.Series = []types.Series{s}
	f.Categories = s.Labels
	if f.Empty() {
		f.Notice = "No athletes match this country."
	}
	return f
}

// TopAthletes ranks athletes by the number of medals in medals.csv.
// limit <= 0 uses the configured default.
func (e *Engine) TopAthletes(ds *model.Dataset, limit int) (types.Figure, error) {
	if limit <= 0 {
		limit = e.topAthletes
	}
	f := types.Figure{
		ID:     "athletes-top",
		Kind:   types.KindBar,
		Title:  fmt.Sprintf("Top %d Athletes by Total Medals", limit),
		XTitle: "Athlete",
		YTitle: "Total medals",
	}
	if len(ds.Awards) == 0 {
		return f, fmt.Errorf("top athletes need medals.csv or medallists.csv: %w", ErrUnavailable)
	}

	// group by (code, name); a code may appear under several spellings
	type athleteKey struct{ code, name string }
	counts := make(map[athleteKey]int)
	for _, m := range ds.Awards {
		counts[athleteKey{m.Code, m.Name}]++
	}
	keys := make([]athleteKey, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := counts[keys[i]], counts[keys[j]]
		if a != b {
			return a > b
		}
		if keys[i].name != keys[j].name {
			return keys[i].name < keys[j].name
		}
		return keys[i].code < keys[j].code
	})
	if len(keys) > limit {
		keys = keys[:limit]
	}
	s := types.Series{Name: "total_medals", Color: model.Gold.Color(), Labels: []string{}, Values: []float64{}}
	for _, k := range keys {
		s.Labels = append(s.Labels, k.name)
		s.Values = append(s.Values, float64(counts[k]))
	}
	f.Series = []types.Series{s}
	f.Categories = s.Labels
	return f, nil
}
