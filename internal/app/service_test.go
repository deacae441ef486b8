package service_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	service "github.com/okian/medalboard/internal/app"
	"github.com/okian/medalboard/internal/domain/analytics"
	"github.com/okian/medalboard/internal/domain/filter"
	"github.com/okian/medalboard/internal/domain/model"
	"github.com/okian/medalboard/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// fakeLoader returns its dataset, or err when set.
type fakeLoader struct {
	mu    sync.Mutex
	ds    *model.Dataset
	err   error
	loads atomic.Int32
}

func (f *fakeLoader) Load(context.Context) (*model.Dataset, error) {
	f.loads.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ds, f.err
}

func (f *fakeLoader) set(ds *model.Dataset, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ds, f.err = ds, err
}

func dataset(usaGold int) *model.Dataset {
	return model.NewDataset(model.Dataset{
		Athletes: []model.Athlete{{Code: "1", Name: "MARCHAND Leon", Gender: "Male", NOC: "FRA"}},
		Events:   []model.Event{{Event: "Men's 400m Individual Medley", Sport: "Swimming"}},
		Tallies: []model.CountryTally{
			{NOC: "USA", Country: "United States", Continent: "North America", MedalCount: model.MedalCount{Gold: usaGold}, Total: usaGold},
			{NOC: "FRA", Country: "France", Continent: "Europe", MedalCount: model.MedalCount{Gold: 16, Silver: 26, Bronze: 22}, Total: 64},
		},
		Medals: []model.Medal{
			{Date: time.Date(2024, 7, 28, 0, 0, 0, 0, time.UTC), Type: model.Gold, Athlete: "MARCHAND Leon", AthleteCode: "1", Gender: "Male", NOC: "FRA", Sport: "Swimming"},
		},
	})
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a service over a working loader", t, func() {
		ctx := context.Background()
		l := &fakeLoader{ds: dataset(40)}
		svc := service.New(service.WithLoader(l), service.WithWorkerCount(2), service.WithQueueSize(32))

		Convey("When reloading before Start", func() {
			_, err := svc.Reload(ctx)
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
		})

		Convey("When getting stats before starting", func() {
			stats := svc.GetStats()
			So(stats["started"], ShouldEqual, false)
			So(stats["generation"], ShouldEqual, uint64(0))
		})

		Convey("When the service starts", func() {
			So(svc.Start(ctx), ShouldBeNil)
			defer func() { _ = svc.Stop(ctx) }()

			Convey("Then the dataset is published as generation 1", func() {
				h := svc.Health(ctx)
				So(h.Loaded, ShouldBeTrue)
				So(h.Generation, ShouldEqual, 1)
				So(h.LastError, ShouldBeEmpty)
				So(svc.GetStats()["started"], ShouldEqual, true)
			})

			Convey("Then warm-up fills the cache", func() {
				deadline := time.Now().Add(2 * time.Second)
				for svc.GetStats()["warmedViews"].(int64) == 0 && time.Now().Before(deadline) {
					time.Sleep(5 * time.Millisecond)
				}
				So(svc.GetStats()["warmedViews"], ShouldBeGreaterThan, 0)
			})

			Convey("Then views reflect the latest reload", func() {
				kpis, err := svc.Overview(ctx)
				So(err, ShouldBeNil)
				So(kpis.Gold, ShouldEqual, 56)

				l.set(dataset(10), nil)
				gen, err := svc.Reload(ctx)
				So(err, ShouldBeNil)
				So(gen, ShouldEqual, 2)

				kpis, err = svc.Overview(ctx)
				So(err, ShouldBeNil)
				So(kpis.Gold, ShouldEqual, 26)
			})

			Convey("Then a failed reload keeps serving the previous generation", func() {
				l.set(nil, errors.New("disk gone"))
				_, err := svc.Reload(ctx)
				So(err, ShouldNotBeNil)

				h := svc.Health(ctx)
				So(h.Generation, ShouldEqual, 1)
				So(h.LastError, ShouldContainSubstring, "disk gone")
				_, err = svc.Overview(ctx)
				So(err, ShouldBeNil)
			})

			Convey("Then starting twice is a no-op", func() {
				So(svc.Start(ctx), ShouldBeNil)
				So(l.loads.Load(), ShouldEqual, 1)
			})
		})
	})

	Convey("Given a loader that fails", t, func() {
		ctx := context.Background()
		svc := service.New(service.WithLoader(&fakeLoader{err: errors.New("no such dir")}), service.WithWarmup(false))
		So(svc.Start(ctx), ShouldBeNil)
		defer func() { _ = svc.Stop(ctx) }()

		Convey("Then views report the dataset as unavailable", func() {
			_, err := svc.Global(ctx, filter.Selection{})
			So(errors.Is(err, service.ErrDatasetUnavailable), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "no such dir")
			So(svc.Health(ctx).Loaded, ShouldBeFalse)
		})
	})
}

func TestService_Views(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := service.New(service.WithLoader(&fakeLoader{ds: dataset(40)}), service.WithWarmup(false))
		So(svc.Start(ctx), ShouldBeNil)
		defer func() { _ = svc.Stop(ctx) }()

		Convey("When a view is requested twice", func() {
			a, err := svc.Global(ctx, filter.Selection{NOCs: []string{"fra"}})
			So(err, ShouldBeNil)
			b, err := svc.Global(ctx, filter.Selection{NOCs: []string{"FRA"}})
			So(err, ShouldBeNil)

			Convey("Then equal selections share one cache entry", func() {
				So(a.KPIs, ShouldResemble, b.KPIs)
				So(a.KPIs.Total, ShouldEqual, 64)
				So(svc.GetStats()["cacheEntries"], ShouldEqual, int64(1))
			})
		})

		Convey("When list values contain separators", func() {
			_, err := svc.Schedule(ctx, []string{"Swimming,Diving"}, nil)
			So(err, ShouldBeNil)
			_, err = svc.Schedule(ctx, []string{"Swimming", "Diving"}, nil)
			So(err, ShouldBeNil)

			Convey("Then each selection gets its own cache entry", func() {
				So(svc.GetStats()["cacheEntries"], ShouldEqual, int64(2))
			})
		})

		Convey("When a view fails", func() {
			_, err := svc.AthleteProfile(ctx, "NOBODY")

			Convey("Then the domain error is returned and nothing is cached", func() {
				So(errors.Is(err, analytics.ErrNotFound), ShouldBeTrue)
				So(svc.GetStats()["cacheEntries"], ShouldEqual, int64(0))
			})
		})

		Convey("When listing athletes and the day", func() {
			names, err := svc.AthleteNames(ctx, "mar", 10)
			So(err, ShouldBeNil)
			So(names, ShouldResemble, []string{"MARCHAND Leon"})

			day, err := svc.Day(ctx, time.Time{})
			So(err, ShouldBeNil)
			So(day.Top.NOC, ShouldEqual, "FRA")
		})
	})
}
