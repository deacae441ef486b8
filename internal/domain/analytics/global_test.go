package analytics_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/okian/medalboard/internal/domain/analytics"
	"github.com/okian/medalboard/internal/domain/filter"
	"github.com/okian/medalboard/internal/domain/model"
	"github.com/okian/medalboard/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestOverviewAndOptions(t *testing.T) {
	Convey("Given the fixture dataset", t, func() {
		e := analytics.New()
		ds := fixture()

		Convey("When computing the overview", func() {
			k := e.Overview(ds)

			Convey("Then it counts every table", func() {
				want := types.KPIs{Countries: 4, Continents: 4, Athletes: 5, Events: 6, Sports: 5, Gold: 100, Silver: 99, Bronze: 93, Total: 292}
				So(cmp.Diff(want, k), ShouldBeEmpty)
			})
		})

		Convey("When listing filter options", func() {
			o := e.FilterOptions(ds)

			Convey("Then values are sorted and unique", func() {
				So(o.NOCs[0], ShouldResemble, types.Option{Value: "CHN", Label: "China"})
				So(len(o.NOCs), ShouldEqual, 4)
				So(o.Sports, ShouldResemble, []string{"Artistic Gymnastics", "Athletics", "Diving", "Swimming", "Table Tennis"})
				So(o.Medals, ShouldResemble, []string{"Gold", "Silver", "Bronze"})
				So(o.Continents, ShouldResemble, []string{"Africa", "Asia", "Europe", "North America"})
				So(o.Genders, ShouldResemble, []string{"Female", "Male"})
				So(o.Dates, ShouldNotBeNil)
				So(o.Dates.First.Equal(date(28)), ShouldBeTrue)
				So(o.Dates.Last.Equal(date(31)), ShouldBeTrue)
			})
		})
	})
}

func TestGlobal(t *testing.T) {
	Convey("Given the fixture dataset", t, func() {
		e := analytics.New()
		ds := fixture()

		Convey("When no filter is selected", func() {
			v := e.Global(ds, filter.Selection{})

			Convey("Then the KPIs cover every country", func() {
				So(v.KPIs.Countries, ShouldEqual, 4)
				So(v.KPIs.Total, ShouldEqual, 292)
			})

			Convey("Then the map has one location per country", func() {
				So(len(v.Map.Locations), ShouldEqual, 4)
				So(v.Map.Locations[0], ShouldResemble, types.Location{Code: "USA", Label: "United States", Value: 126})
			})

			Convey("Then the top countries are sorted by total", func() {
				So(v.TopCountries.Categories, ShouldResemble, []string{"United States", "China", "France", "Kenya"})
				So(len(v.TopCountries.Series), ShouldEqual, 3)
				So(v.TopCountries.Series[0].Name, ShouldEqual, "Gold")
				So(v.TopCountries.Series[0].Color, ShouldEqual, "#FFD700")
			})

			Convey("Then the continent bars are alphabetical", func() {
				So(v.Continents.Categories, ShouldResemble, []string{"Africa", "Asia", "Europe", "North America"})
			})

			Convey("Then the sparse hierarchy is not drawn", func() {
				So(v.HierarchyReady, ShouldBeFalse)
				So(v.Sunburst.Nodes, ShouldBeEmpty)
				So(v.Sunburst.Notice, ShouldNotBeEmpty)
			})
		})

		Convey("When only gold is selected", func() {
			v := e.Global(ds, filter.Selection{Medals: []model.MedalType{model.Gold}})

			Convey("Then other medal types are zeroed and ties sort by code", func() {
				So(v.TopCountries.Categories, ShouldResemble, []string{"China", "United States", "France", "Kenya"})
				So(len(v.TopCountries.Series), ShouldEqual, 1)
				So(v.TopCountries.Series[0].Values, ShouldResemble, []float64{40, 40, 16, 4})
			})
		})

		Convey("When a country is selected", func() {
			v := e.Global(ds, filter.Selection{NOCs: []string{"fra"}})

			Convey("Then only that country remains", func() {
				So(v.Selection.NOCs, ShouldResemble, []string{"FRA"})
				So(v.KPIs.Countries, ShouldEqual, 1)
				So(v.TopCountries.Categories, ShouldResemble, []string{"France"})
				for _, l := range v.Map.Locations {
					So(l.Code, ShouldEqual, "FRA")
				}
			})
		})
	})

	Convey("Given more countries than the top-N bound", t, func() {
		e := analytics.New(analytics.WithTopCountries(20))
		ds := model.NewDataset(model.Dataset{Tallies: bigTallies(25)})

		Convey("When computing the top countries", func() {
			f := e.Global(ds, filter.Selection{}).TopCountries

			Convey("Then at most 20 groups remain in descending order", func() {
				So(len(f.Categories), ShouldEqual, 20)
				So(f.Categories[0], ShouldEqual, "Country N24")
				So(f.Categories[19], ShouldEqual, "Country N05")
				gold := f.Series[0].Values
				for i := 1; i < len(gold); i++ {
					So(gold[i], ShouldBeLessThanOrEqualTo, gold[i-1])
				}
			})
		})
	})

	Convey("Given a dense set of medal rows", t, func() {
		e := analytics.New()
		var medals []model.Medal
		for _, noc := range []string{"USA", "CHN", "FRA", "KEN"} {
			for _, sport := range []string{"Swimming", "Diving", "Judo"} {
				medals = append(medals, model.Medal{Type: model.Gold, NOC: noc, Sport: sport})
			}
		}
		ds := fixture()
		dense := model.NewDataset(model.Dataset{Tallies: ds.Tallies, Medals: medals})

		Convey("When computing the hierarchy", func() {
			v := e.Global(dense, filter.Selection{})

			Convey("Then more than ten groups make it ready", func() {
				So(v.HierarchyReady, ShouldBeTrue)
				var root types.Node
				for _, n := range v.Sunburst.Nodes {
					if n.ID == "Europe" {
						root = n
					}
				}
				So(root.Value, ShouldEqual, 3)
				So(v.Treemap.Kind, ShouldEqual, types.KindTreemap)
			})
		})
	})
}

func TestAggregationProperties(t *testing.T) {
	Convey("Given filtered medal rows", t, func() {
		ds := fixture()
		rows := filter.Medals(ds.Medals, filter.Selection{NOCs: []string{"USA"}})

		Convey("Then every row belongs to the country", func() {
			for _, r := range rows {
				So(r.NOC, ShouldEqual, "USA")
			}
		})

		Convey("Then per-type counts add up to the row count", func() {
			So(analytics.MedalCounts(rows).Total(), ShouldEqual, len(rows))
			So(analytics.MedalCounts(ds.Medals).Total(), ShouldEqual, len(ds.Medals))
		})
	})

	Convey("Given unsorted groups", t, func() {
		cs := []analytics.Count{{Key: "b", Value: 2}, {Key: "a", Value: 2}, {Key: "c", Value: 5}, {Key: "d", Value: 1}}

		Convey("When taking the top 3", func() {
			got := analytics.TopN(cs, 3)

			Convey("Then they are sorted by count with ties by key", func() {
				want := []analytics.Count{{Key: "c", Value: 5}, {Key: "a", Value: 2}, {Key: "b", Value: 2}}
				So(cmp.Diff(want, got), ShouldBeEmpty)
				So(cs[0].Key, ShouldEqual, "b") // input untouched
			})
		})

		Convey("When n is not positive", func() {
			So(len(analytics.TopN(cs, 0)), ShouldEqual, 4)
		})
	})
}
