// Package model contains the Olympic dataset entities passed between layers.
package model

import (
	"sort"
	"time"
)

// OtherContinent labels NOCs without a known continent.
const OtherContinent = "Other"

// Athlete is one row of athletes.csv.
type Athlete struct {
	Code        string
	Name        string
	Gender      string
	NOC         string
	Country     string
	Height      float64 // cm, 0 when unknown
	Weight      float64 // kg, 0 when unknown
	Disciplines []string
	OtherSports []string
	BirthDate   time.Time // zero when unknown
	Coach       string    // raw, comma separated
}

// HasDiscipline reports whether the athlete competes in d.
func (a Athlete) HasDiscipline(d string) bool {
	for _, x := range a.Disciplines {
		if x == d {
			return true
		}
	}
	return false
}

// Event is one row of events.csv.
type Event struct {
	Event     string
	Sport     string
	SportCode string
}

// CountryTally is one row of medals_total.csv joined with its country label and continent.
type CountryTally struct {
	NOC       string
	Country   string
	Continent string
	MedalCount
	Total int
}

// NOC is one row of nocs.csv.
type NOC struct {
	Code      string
	Country   string
	Continent string
}

// Medal is one medal awarded to one athlete (medallists.csv).
type Medal struct {
	Date        time.Time // zero when unknown
	Type        MedalType
	Athlete     string
	AthleteCode string
	Gender      string
	NOC         string
	Sport       string // discipline
	Event       string
}

// AthleteMedal is one award from medals.csv. Team events appear once with the team code.
type AthleteMedal struct {
	Code  string
	Name  string
	Type  MedalType
	NOC   string
	Sport string
}

// CoachLink associates an athlete with a coach (coaches.csv, teams.csv).
type CoachLink struct {
	AthleteCode string
	CoachName   string
}

// Venue is a competition site.
type Venue struct {
	Name     string
	Sport    string
	Lat      float64
	Lon      float64
	Capacity int
}

// Dataset is an immutable snapshot of every table. Build it with NewDataset.
type Dataset struct {
	Athletes []Athlete
	Events   []Event
	Tallies  []CountryTally
	NOCs     []NOC
	Medals   []Medal
	Awards   []AthleteMedal
	Coaches  []CoachLink
	Venues   []Venue
	LoadedAt time.Time

	// SyntheticAwards is set when Awards were derived from Medals.
	SyntheticAwards bool

	// ContinentFallback resolves NOCs that neither nocs.csv nor medals_total.csv place.
	ContinentFallback map[string]string

	tallyByNOC map[string]int
	continents map[string]string
	labels     map[string]string
	athletes   map[string]int
}

// NewDataset indexes d and returns it. The slices must not be modified afterwards.
func NewDataset(d Dataset) *Dataset {
	ds := d
	ds.tallyByNOC = make(map[string]int, len(ds.Tallies))
	ds.continents = make(map[string]string, len(ds.Tallies)+len(ds.NOCs))
	ds.labels = make(map[string]string, len(ds.Tallies)+len(ds.NOCs))
	ds.athletes = make(map[string]int, len(ds.Athletes))

	for _, n := range ds.NOCs {
		if n.Continent != "" {
			ds.continents[n.Code] = n.Continent
		}
		if n.Country != "" {
			ds.labels[n.Code] = n.Country
		}
	}
	for i, t := range ds.Tallies {
		ds.tallyByNOC[t.NOC] = i
		if t.Continent != "" {
			ds.continents[t.NOC] = t.Continent
		}
		if t.Country != "" {
			ds.labels[t.NOC] = t.Country
		}
	}
	for i, a := range ds.Athletes {
		if _, dup := ds.athletes[a.Name]; !dup {
			ds.athletes[a.Name] = i
		}
	}
	return &ds
}

// Tally returns the medals_total row of noc.
func (d *Dataset) Tally(noc string) (CountryTally, bool) {
	i, ok := d.tallyByNOC[noc]
	if !ok {
		return CountryTally{}, false
	}
	return d.Tallies[i], true
}

// Continent returns the continent of noc, or OtherContinent.
func (d *Dataset) Continent(noc string) string {
	if c, ok := d.continents[noc]; ok {
		return c
	}
	if c, ok := d.ContinentFallback[noc]; ok {
		return c
	}
	return OtherContinent
}

// CountryLabel returns the display name of noc, falling back to the code.
func (d *Dataset) CountryLabel(noc string) string {
	if l, ok := d.labels[noc]; ok {
		return l
	}
	return noc
}

// Athlete returns the first athlete named name.
func (d *Dataset) Athlete(name string) (Athlete, bool) {
	i, ok := d.athletes[name]
	if !ok {
		return Athlete{}, false
	}
	return d.Athletes[i], true
}

// HasMedals reports whether per-athlete medal rows were loaded.
func (d *Dataset) HasMedals() bool { return len(d.Medals) > 0 }

// Continents returns the sorted continents present in the tallies.
func (d *Dataset) Continents() []string {
	seen := make(map[string]struct{})
	for _, t := range d.Tallies {
		seen[d.Continent(t.NOC)] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// MedalDates returns the first and last medal day, or false when no row carries a date.
func (d *Dataset) MedalDates() (first, last time.Time, ok bool) {
	for _, m := range d.Medals {
		if m.Date.IsZero() {
			continue
		}
		if !ok || m.Date.Before(first) {
			first = m.Date
		}
		if !ok || m.Date.After(last) {
			last = m.Date
		}
		ok = true
	}
	return first, last, ok
}

// Rows returns the row count of every table, keyed by table name.
func (d *Dataset) Rows() map[string]int {
	return map[string]int{
		"athletes":     len(d.Athletes),
		"events":       len(d.Events),
		"medals_total": len(d.Tallies),
		"nocs":         len(d.NOCs),
		"medallists":   len(d.Medals),
		"medals":       len(d.Awards),
		"coaches":      len(d.Coaches),
		"venues":       len(d.Venues),
	}
}
