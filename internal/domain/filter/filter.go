// Package filter restricts dataset rows to a user selection.
//
// A selection constrains up to three dimensions: country (NOC), sport and
// medal type. Dimensions are AND-combined, values within a dimension are
// OR-combined, and an empty dimension places no restriction.
package filter

import (
	"net/url"
	"sort"
	"strings"

	"github.com/okian/medalboard/internal/domain/model"
)

// Selection is the sidebar state of the dashboard.
type Selection struct {
	NOCs   []string          `json:"nocs,omitempty"`
	Sports []string          `json:"sports,omitempty"`
	Medals []model.MedalType `json:"medals,omitempty"`
}

// Normalize returns a copy with upper-cased NOCs, trimmed values, no
// duplicates and a stable order, so equal selections share a Key.
func (s Selection) Normalize() Selection {
	out := Selection{
		NOCs:   uniqueSorted(s.NOCs, strings.ToUpper),
		Sports: uniqueSorted(s.Sports, func(v string) string { return v }),
	}
	seen := make(map[model.MedalType]bool, len(s.Medals))
	for _, m := range model.MedalTypes {
		for _, x := range s.Medals {
			if x == m && !seen[m] {
				seen[m] = true
				out.Medals = append(out.Medals, m)
			}
		}
	}
	return out
}

// IsEmpty reports whether the selection restricts nothing.
func (s Selection) IsEmpty() bool {
	return len(s.NOCs) == 0 && len(s.Sports) == 0 && len(s.Medals) == 0
}

// Key is a canonical string for cache keys. Call it on a normalized selection.
// Values are query-escaped, so separators inside a value cannot collide.
func (s Selection) Key() string {
	medals := make([]string, len(s.Medals))
	for i, m := range s.Medals {
		medals[i] = m.String()
	}
	return url.Values{"noc": s.NOCs, "sport": s.Sports, "medal": medals}.Encode()
}

// AllowsNOC reports whether noc passes the country constraint.
func (s Selection) AllowsNOC(noc string) bool {
	return len(s.NOCs) == 0 || contains(s.NOCs, noc)
}

// AllowsSport reports whether sport passes the sport constraint.
func (s Selection) AllowsSport(sport string) bool {
	return len(s.Sports) == 0 || contains(s.Sports, sport)
}

// AllowsMedal reports whether m passes the medal constraint.
func (s Selection) AllowsMedal(m model.MedalType) bool {
	if len(s.Medals) == 0 {
		return m.Valid()
	}
	for _, x := range s.Medals {
		if x == m {
			return true
		}
	}
	return false
}

// Tallies keeps the country tallies whose NOC is selected. Tallies carry no
// sport, and medal types are applied by the caller as zeroed columns.
func Tallies(rows []model.CountryTally, s Selection) []model.CountryTally {
	if len(s.NOCs) == 0 {
		return rows
	}
	out := make([]model.CountryTally, 0, len(rows))
	for _, r := range rows {
		if s.AllowsNOC(r.NOC) {
			out = append(out, r)
		}
	}
	return out
}

// Medals keeps the medal rows matching every dimension of s.
func Medals(rows []model.Medal, s Selection) []model.Medal {
	if s.IsEmpty() {
		return rows
	}
	out := make([]model.Medal, 0, len(rows))
	for _, r := range rows {
		if s.AllowsNOC(r.NOC) && s.AllowsSport(r.Sport) && s.AllowsMedal(r.Type) {
			out = append(out, r)
		}
	}
	return out
}

// Athletes keeps athletes of a selected NOC who compete in a selected sport.
func Athletes(rows []model.Athlete, s Selection) []model.Athlete {
	if len(s.NOCs) == 0 && len(s.Sports) == 0 {
		return rows
	}
	out := make([]model.Athlete, 0, len(rows))
	for _, r := range rows {
		if !s.AllowsNOC(r.NOC) {
			continue
		}
		if len(s.Sports) > 0 && !anyOf(r.Disciplines, s.Sports) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func uniqueSorted(in []string, norm func(string) string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = norm(strings.TrimSpace(v))
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	if len(out) == 0 {
		return nil
	}
	return out
}

func contains(set []string, v string) bool {
	for _, x := range set {
		if x == v {
			return true
		}
	}
	return false
}

func anyOf(values, set []string) bool {
	for _, v := range values {
		if contains(set, v) {
			return true
		}
	}
	return false
}
