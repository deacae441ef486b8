package analytics

import (
	"sort"

	"github.com/okian/medalboard/internal/domain/model"
	"github.com/okian/medalboard/internal/domain/types"
)

// Overview returns the headline numbers of the landing page.
func (e *Engine) Overview(ds *model.Dataset) types.KPIs {
	k := talliesKPIs(ds, ds.Tallies)
	k.Athletes = len(ds.Athletes)
	k.Events = len(ds.Events)
	sports := make(map[string]struct{})
	for _, ev := range ds.Events {
		if ev.Sport != "" {
			sports[ev.Sport] = struct{}{}
		}
	}
	k.Sports = len(sports)
	return k
}

func talliesKPIs(ds *model.Dataset, rows []model.CountryTally) types.KPIs {
	var k types.KPIs
	nocs := make(map[string]struct{}, len(rows))
	continents := make(map[string]struct{})
	for _, t := range rows {
		nocs[t.NOC] = struct{}{}
		continents[ds.Continent(t.NOC)] = struct{}{}
		k.Gold += t.Gold
		k.Silver += t.Silver
		k.Bronze += t.Bronze
		k.Total += t.Total
	}
	k.Countries = len(nocs)
	k.Continents = len(continents)
	return k
}

// FilterOptions lists the values offered by the dashboard widgets.
func (e *Engine) FilterOptions(ds *model.Dataset) types.FilterOptions {
	opts := types.FilterOptions{
		NOCs:   []types.Option{},
		Medals: make([]string, 0, len(model.MedalTypes)),
	}

	seenNOC := make(map[string]struct{}, len(ds.Tallies))
	for _, t := range ds.Tallies {
		if _, ok := seenNOC[t.NOC]; ok || t.NOC == "" {
			continue
		}
		seenNOC[t.NOC] = struct{}{}
		opts.NOCs = append(opts.NOCs, types.Option{Value: t.NOC, Label: ds.CountryLabel(t.NOC)})
	}
	sort.Slice(opts.NOCs, func(i, j int) bool { return opts.NOCs[i].Value < opts.NOCs[j].Value })

	sports := make(map[string]struct{})
	for _, ev := range ds.Events {
		sports[ev.Sport] = struct{}{}
	}
	opts.Sports = sortedKeys(sports)

	for _, m := range model.MedalTypes {
		opts.Medals = append(opts.Medals, m.String())
	}
	opts.Continents = ds.Continents()

	disciplines := make(map[string]struct{})
	countries := make(map[string]struct{})
	genders := make(map[string]struct{})
	for _, a := range ds.Athletes {
		for _, d := range a.Disciplines {
			disciplines[d] = struct{}{}
		}
		countries[a.Country] = struct{}{}
		genders[a.Gender] = struct{}{}
	}
	opts.Disciplines = sortedKeys(disciplines)
	opts.Countries = sortedKeys(countries)
	opts.Genders = sortedKeys(genders)

	if first, last, ok := ds.MedalDates(); ok {
		opts.Dates = &types.DateRange{First: first, Last: last}
	}
	return opts
}
