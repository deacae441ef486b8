package loader

import "github.com/okian/medalboard/internal/domain/model"

// nocContinents places the most common NOCs when neither nocs.csv nor
// countries.csv carry a continent.
var nocContinents = map[string]string{ //nolint:gochecknoglobals // lookup table
	"USA": "North America", "CAN": "North America", "MEX": "North America",
	"BRA": "South America", "ARG": "South America", "COL": "South America",
	"GBR": "Europe", "FRA": "Europe", "GER": "Europe", "ITA": "Europe", "BEL": "Europe",
	"KOR": "Asia", "JPN": "Asia", "CHN": "Asia", "IND": "Asia", "QAT": "Asia",
	"AUS": "Oceania", "NZL": "Oceania",
	"RSA": "Africa", "TUN": "Africa", "KEN": "Africa", "ETH": "Africa",
}

// BuiltinContinents returns a copy of the fallback NOC to continent table.
func BuiltinContinents() map[string]string {
	out := make(map[string]string, len(nocContinents))
	for k, v := range nocContinents {
		out[k] = v
	}
	return out
}

// defaultVenues are approximate Paris 2024 sites used without venues.csv.
func defaultVenues() []model.Venue {
	return []model.Venue{
		{Name: "Stade de France", Sport: "Athletics", Lat: 48.922, Lon: 2.360, Capacity: 80000},
		{Name: "Arena Bercy", Sport: "Basketball", Lat: 48.839, Lon: 2.378, Capacity: 15000},
		{Name: "Paris La Défense Arena", Sport: "Swimming", Lat: 48.894, Lon: 2.235, Capacity: 17000},
		{Name: "Place de la Concorde", Sport: "Skateboarding", Lat: 48.865, Lon: 2.322, Capacity: 30000},
		{Name: "Versailles", Sport: "Equestrian", Lat: 48.807, Lon: 2.128, Capacity: 15000},
	}
}
