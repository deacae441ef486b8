package analytics_test

import (
	"fmt"
	"time"

	"github.com/okian/medalboard/internal/domain/model"
)

func date(d int) time.Time {
	return time.Date(2024, 7, d, 0, 0, 0, 0, time.UTC)
}

// bigTallies returns n countries where country i has i gold, 1 silver and no bronze.
func bigTallies(n int) []model.CountryTally {
	out := make([]model.CountryTally, 0, n)
	for i := 0; i < n; i++ {
		noc := fmt.Sprintf("N%02d", i)
		out = append(out, model.CountryTally{
			NOC:        noc,
			Country:    "Country " + noc,
			Continent:  "Europe",
			MedalCount: model.MedalCount{Gold: i, Silver: 1},
			Total:      i + 1,
		})
	}
	return out
}

func fixture() *model.Dataset {
	return model.NewDataset(model.Dataset{
		Athletes: []model.Athlete{
			{Code: "1", Name: "MARCHAND Leon", Gender: "Male", NOC: "FRA", Country: "France", Height: 187, Weight: 77,
				Disciplines: []string{"Swimming"}, BirthDate: time.Date(2002, 5, 17, 0, 0, 0, 0, time.UTC),
				Coach: "Personal: BOWMAN Bob (USA), National - LEFERT Fabien"},
			{Code: "2", Name: "LEDECKY Katie", Gender: "Female", NOC: "USA", Country: "United States",
				Disciplines: []string{"Swimming"}, OtherSports: []string{"Open Water"}, BirthDate: time.Date(1997, 3, 17, 0, 0, 0, 0, time.UTC)},
			{Code: "3", Name: "BILES Simone", Gender: "Female", NOC: "USA", Country: "United States",
				Disciplines: []string{"Artistic Gymnastics"}, BirthDate: time.Date(1997, 3, 14, 0, 0, 0, 0, time.UTC)},
			{Code: "4", Name: "KIPYEGON Faith", Gender: "Female", NOC: "KEN", Country: "Kenya",
				Disciplines: []string{"Athletics"}, BirthDate: time.Date(1994, 1, 10, 0, 0, 0, 0, time.UTC)},
			{Code: "5", Name: "Z", Gender: "Male", NOC: "CHN", Country: "China", Disciplines: []string{"Diving"}},
		},
		Events: []model.Event{
			{Event: "Men's 400m Individual Medley", Sport: "Swimming"},
			{Event: "Women's 800m Freestyle", Sport: "Swimming"},
			{Event: "Women's All-Around", Sport: "Artistic Gymnastics"},
			{Event: "Women's 1500m", Sport: "Athletics"},
			{Event: "Men's 10m Platform", Sport: "Diving"},
			{Event: "Men's Singles", Sport: "Table Tennis"},
		},
		Tallies: []model.CountryTally{
			{NOC: "USA", Country: "United States", Continent: "North America", MedalCount: model.MedalCount{Gold: 40, Silver: 44, Bronze: 42}, Total: 126},
			{NOC: "CHN", Country: "China", Continent: "Asia", MedalCount: model.MedalCount{Gold: 40, Silver: 27, Bronze: 24}, Total: 91},
			{NOC: "FRA", Country: "France", Continent: "Europe", MedalCount: model.MedalCount{Gold: 16, Silver: 26, Bronze: 22}, Total: 64},
			{NOC: "KEN", Country: "Kenya", Continent: "Africa", MedalCount: model.MedalCount{Gold: 4, Silver: 2, Bronze: 5}, Total: 11},
		},
		Medals: []model.Medal{
			{Date: date(28), Type: model.Gold, Athlete: "MARCHAND Leon", AthleteCode: "1", Gender: "Male", NOC: "FRA", Sport: "Swimming", Event: "Men's 400m Individual Medley"},
			{Date: date(28), Type: model.Silver, Athlete: "LEDECKY Katie", AthleteCode: "2", Gender: "Female", NOC: "USA", Sport: "Swimming", Event: "Women's 400m Freestyle"},
			{Date: date(28), Type: model.Bronze, Athlete: "X USA", Gender: "Male", NOC: "USA", Sport: "Swimming", Event: "Men's 400m Individual Medley"},
			{Date: date(30), Type: model.Gold, Athlete: "BILES Simone", AthleteCode: "3", Gender: "Female", NOC: "USA", Sport: "Artistic Gymnastics", Event: "Women's Team"},
			{Date: date(30), Type: model.Gold, Athlete: "CHILES Jordan", Gender: "Female", NOC: "USA", Sport: "Artistic Gymnastics", Event: "Women's Team"},
			{Date: date(30), Type: model.Silver, Athlete: "Y ITA", Gender: "Female", NOC: "ITA", Sport: "Artistic Gymnastics", Event: "Women's Team"},
			{Date: date(31), Type: model.Gold, Athlete: "Z", Gender: "Male", NOC: "CHN", Sport: "Diving", Event: "Men's 10m Platform"},
			{Date: date(31), Type: model.Silver, Athlete: "LEDECKY Katie", AthleteCode: "2", Gender: "Female", NOC: "USA", Sport: "Swimming", Event: "Women's 1500m Freestyle"},
		},
		Awards: []model.AthleteMedal{
			{Code: "1", Name: "MARCHAND Leon", Type: model.Gold, NOC: "FRA", Sport: "Swimming"},
			{Code: "1", Name: "MARCHAND Leon", Type: model.Gold, NOC: "FRA", Sport: "Swimming"},
			{Code: "2", Name: "LEDECKY Katie", Type: model.Silver, NOC: "USA", Sport: "Swimming"},
			{Code: "2", Name: "LEDECKY Katie", Type: model.Gold, NOC: "USA", Sport: "Swimming"},
			{Code: "3", Name: "BILES Simone", Type: model.Gold, NOC: "USA", Sport: "Artistic Gymnastics"},
			{Code: "4", Name: "KIPYEGON Faith", Type: model.Gold, NOC: "KEN", Sport: "Athletics"},
		},
		Coaches: []model.CoachLink{
			{AthleteCode: "1", CoachName: "BOWMAN Bob"},
			{AthleteCode: "1", CoachName: "Personal: NOUVEL Nicolas (FRA)"},
			{AthleteCode: "2", CoachName: "GEMMELL Bruce"},
		},
		Venues: []model.Venue{
			{Name: "Paris La Defense Arena", Sport: "Swimming", Lat: 48.894, Lon: 2.235, Capacity: 17000},
			{Name: "Stade de France", Sport: "Athletics", Lat: 48.922, Lon: 2.360, Capacity: 80000},
		},
		ContinentFallback: map[string]string{"ITA": "Europe"},
	})
}
