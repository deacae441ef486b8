package loader_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/okian/medalboard/internal/adapters/loader"
	"github.com/okian/medalboard/internal/domain/model"
	"github.com/okian/medalboard/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

const (
	athletesCSV = "\ufeffcode,name,gender,country_code,country,height,weight,disciplines,birth_date,coach,other_sports\n" +
		"1,MARCHAND Leon,Male,FRA,France,187,77,['Swimming'],2002-05-17,\"Personal: BOWMAN Bob (USA)\",\n" +
		"2,LEDECKY Katie,Female,USA,United States,183.0,0,\"['Swimming', 'Open Water']\",1997-03-17,,\"['Triathlon']\"\n" +
		",,Female,USA,United States,,,,,,\n"
	eventsCSV = "event,tag,sport,sport_code\n" +
		"Men's 400m Individual Medley,swimming,Swimming,SWM\n" +
		"Women's 1500m,athletics,Athletics,ATH\n"
	talliesCSV = "country_code,country,Gold Medal,Silver Medal,Bronze Medal\n" +
		"USA,United States,40,44,42\n" +
		"FRA,France,16.0,26,22\n" +
		"XYZ,,1,0,0\n"
	nocsCSV = "code,country,country_long\n" +
		"USA,United States of America,United States of America\n" +
		"FRA,France,France\n"
	medallistsCSV = "medal_date,medal_type,name,gender,country_code,discipline,event,code_athlete\n" +
		"2024-07-28,Gold Medal,MARCHAND Leon,Male,FRA,Swimming,Men's 400m Individual Medley,1\n" +
		"2024-07-28 00:00:00,Silver Medal,LEDECKY Katie,Female,usa,Swimming,Women's 400m Freestyle,2\n" +
		"2024-07-29,Honorable Mention,X,Male,USA,Swimming,Other,9\n"
	coachesCSV = "athlete_id,coach_name\n1,LEFERT Fabien\n,\n"
)

func writeFiles(dir string, files map[string]string) {
	for name, body := range files {
		So(os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600), ShouldBeNil)
	}
}

func required() map[string]string {
	return map[string]string{
		"athletes.csv":     athletesCSV,
		"events.csv":       eventsCSV,
		"medals_total.csv": talliesCSV,
	}
}

func TestLoad(t *testing.T) {
	ctx := context.Background()

	Convey("Given a data directory with every file", t, func() {
		dir := t.TempDir()
		files := required()
		files["nocs.csv"] = nocsCSV
		files["medallists.csv"] = medallistsCSV
		files["coaches.csv"] = coachesCSV
		writeFiles(dir, files)

		loaded := time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)
		ds, err := loader.New(dir, loader.WithClock(func() time.Time { return loaded })).Load(ctx)

		Convey("Then it loads without error", func() {
			So(err, ShouldBeNil)
			So(ds.LoadedAt, ShouldEqual, loaded)
		})

		Convey("Then athletes are parsed", func() {
			So(len(ds.Athletes), ShouldEqual, 2)
			want := model.Athlete{
				Code: "2", Name: "LEDECKY Katie", Gender: "Female", NOC: "USA", Country: "United States",
				Height: 183, Disciplines: []string{"Swimming", "Open Water"}, OtherSports: []string{"Triathlon"},
				BirthDate: time.Date(1997, 3, 17, 0, 0, 0, 0, time.UTC),
			}
			So(cmp.Diff(want, ds.Athletes[1]), ShouldBeEmpty)
			So(ds.Athletes[0].Coach, ShouldEqual, "Personal: BOWMAN Bob (USA)")
			So(ds.Athletes[0].OtherSports, ShouldBeNil)
		})

		Convey("Then medal columns are normalized and totals computed", func() {
			usa, ok := ds.Tally("USA")
			So(ok, ShouldBeTrue)
			So(usa.MedalCount, ShouldResemble, model.MedalCount{Gold: 40, Silver: 44, Bronze: 42})
			So(usa.Total, ShouldEqual, 126)
			fra, _ := ds.Tally("FRA")
			So(fra.Gold, ShouldEqual, 16)
			So(fra.Total, ShouldEqual, 64)
		})

		Convey("Then labels prefer nocs.csv and fall back to the code", func() {
			usa, _ := ds.Tally("USA")
			So(usa.Country, ShouldEqual, "United States of America")
			xyz, _ := ds.Tally("XYZ")
			So(xyz.Country, ShouldEqual, "XYZ")
		})

		Convey("Then continents come from the builtin table or Other", func() {
			So(ds.Continent("FRA"), ShouldEqual, "Europe")
			So(ds.Continent("XYZ"), ShouldEqual, model.OtherContinent)
			So(ds.Continent("KEN"), ShouldEqual, "Africa")
		})

		Convey("Then unknown medal types are dropped and dates normalized", func() {
			So(len(ds.Medals), ShouldEqual, 2)
			So(ds.Medals[1].NOC, ShouldEqual, "USA")
			So(ds.Medals[1].Type, ShouldEqual, model.Silver)
			So(ds.Medals[1].Date.Equal(time.Date(2024, 7, 28, 0, 0, 0, 0, time.UTC)), ShouldBeTrue)
		})

		Convey("Then awards are derived from medallists", func() {
			So(ds.SyntheticAwards, ShouldBeTrue)
			So(len(ds.Awards), ShouldEqual, 2)
			So(ds.Awards[0].Name, ShouldEqual, "MARCHAND Leon")
		})

		Convey("Then coach links skip blank rows", func() {
			So(ds.Coaches, ShouldResemble, []model.CoachLink{{AthleteCode: "1", CoachName: "LEFERT Fabien"}})
		})

		Convey("Then default venues are used", func() {
			So(len(ds.Venues), ShouldEqual, 5)
			So(ds.Venues[0].Name, ShouldEqual, "Stade de France")
		})
	})

	Convey("Given medals.csv without medallists.csv", t, func() {
		dir := t.TempDir()
		files := required()
		files["medals.csv"] = "medal_type,medal_code,medal_date,name,gender,discipline,event,code,country_code\n" +
			"Gold Medal,1.0,2024-07-30,BILES Simone,Female,Artistic Gymnastics,Women's Team,3,USA\n" +
			"Bronze Medal,3.0,2024-07-31,JOHN Doe,Male,Judo,Men -60 kg,4,FRA\n"
		writeFiles(dir, files)

		ds, err := loader.Load(ctx, dir)

		Convey("Then medal rows and awards come from it", func() {
			So(err, ShouldBeNil)
			So(ds.SyntheticAwards, ShouldBeFalse)
			So(len(ds.Medals), ShouldEqual, 2)
			So(ds.Medals[0].Sport, ShouldEqual, "Artistic Gymnastics")
			So(ds.Awards[1], ShouldResemble, model.AthleteMedal{Code: "4", Name: "JOHN Doe", Type: model.Bronze, NOC: "FRA", Sport: "Judo"})
		})
	})

	Convey("Given venues.csv and countries.csv", t, func() {
		dir := t.TempDir()
		files := required()
		files["venues.csv"] = "venue,sport,latitude,longitude,capacity\nArena Paris Nord,Boxing,48.97,2.52,7000\n"
		files["countries.csv"] = "noc,region\nXYZ,Antarctica\n"
		writeFiles(dir, files)

		ds, err := loader.New(dir, loader.WithBuiltinVenues(false)).Load(ctx)

		Convey("Then they override the builtin tables", func() {
			So(err, ShouldBeNil)
			So(ds.Venues, ShouldResemble, []model.Venue{{Name: "Arena Paris Nord", Sport: "Boxing", Lat: 48.97, Lon: 2.52, Capacity: 7000}})
			So(ds.Continent("XYZ"), ShouldEqual, "Antarctica")
			So(ds.HasMedals(), ShouldBeFalse)
			So(ds.Awards, ShouldBeEmpty)
		})
	})

	Convey("Given a directory without a required file", t, func() {
		dir := t.TempDir()
		files := required()
		delete(files, "events.csv")
		writeFiles(dir, files)

		_, err := loader.Load(ctx, dir)

		Convey("Then it reports the missing file", func() {
			So(errors.Is(err, loader.ErrMissingFile), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "events.csv")
		})
	})

	Convey("Given a malformed file", t, func() {
		dir := t.TempDir()
		files := required()
		files["medals_total.csv"] = "country_code,Gold Medal\n\"USA,1\n"
		writeFiles(dir, files)

		_, err := loader.Load(ctx, dir)

		Convey("Then it reports ErrMalformed", func() {
			So(errors.Is(err, loader.ErrMalformed), ShouldBeTrue)
		})
	})

	Convey("Given a tally file without medal columns", t, func() {
		dir := t.TempDir()
		files := required()
		files["medals_total.csv"] = "country_code,country\nUSA,United States\n"
		writeFiles(dir, files)

		_, err := loader.Load(ctx, dir)
		So(errors.Is(err, loader.ErrMalformed), ShouldBeTrue)
	})

	Convey("Given an empty required file", t, func() {
		dir := t.TempDir()
		files := required()
		files["events.csv"] = ""
		writeFiles(dir, files)

		_, err := loader.Load(ctx, dir)
		So(errors.Is(err, loader.ErrMalformed), ShouldBeTrue)
	})

	Convey("Given a cancelled context", t, func() {
		dir := t.TempDir()
		writeFiles(dir, required())
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := loader.Load(cctx, dir)
		So(errors.Is(err, context.Canceled), ShouldBeTrue)
	})
}

func TestBuiltinContinents(t *testing.T) {
	Convey("Given the builtin table", t, func() {
		m := loader.BuiltinContinents()
		So(m["USA"], ShouldEqual, "North America")
		m["USA"] = "changed"

		Convey("Then callers get a copy", func() {
			So(loader.BuiltinContinents()["USA"], ShouldEqual, "North America")
		})
	})
}
