package loader

import (
	"fmt"
	"strings"

	"github.com/okian/medalboard/internal/domain/model"
)

func parseNOCs(t *table) ([]model.NOC, error) {
	if t == nil {
		return nil, nil
	}
	codeCol := t.nocColumn()
	if codeCol < 0 {
		return nil, fmt.Errorf("%s: no noc/country_code/code column: %w", t.name, ErrMalformed)
	}
	countryCol := t.col("country", "country_name", "country_long")
	continentCol := t.col("continent", "region")

	out := make([]model.NOC, 0, len(t.rows))
	for _, row := range t.rows {
		code := strings.ToUpper(get(row, codeCol))
		if code == "" {
			continue
		}
		out = append(out, model.NOC{
			Code:      code,
			Country:   get(row, countryCol),
			Continent: get(row, continentCol),
		})
	}
	return out, nil
}

// parseCountryContinents reads the continent of each NOC from countries.csv.
// A file without a continent or region column contributes nothing.
func parseCountryContinents(t *table) map[string]string {
	if t == nil {
		return nil
	}
	nocCol := t.nocColumn()
	continentCol := t.col("continent", "region")
	if nocCol < 0 || continentCol < 0 {
		return nil
	}
	out := make(map[string]string, len(t.rows))
	for _, row := range t.rows {
		noc, c := strings.ToUpper(get(row, nocCol)), get(row, continentCol)
		if noc != "" && c != "" {
			out[noc] = c
		}
	}
	return out
}

// parseTallies reads medals_total.csv. The country label prefers nocs.csv,
// then the file's own column, then the NOC. The continent prefers nocs.csv,
// then fallback, then model.OtherContinent.
func parseTallies(t *table, nocs []model.NOC, fallback map[string]string) ([]model.CountryTally, error) {
	nocCol := t.nocColumn()
	if nocCol < 0 {
		return nil, fmt.Errorf("%s: no noc/country_code/code column: %w", t.name, ErrMalformed)
	}
	medalCols := make(map[model.MedalType]int, len(model.MedalTypes))
	for _, m := range model.MedalTypes {
		if i := t.colContaining(strings.ToLower(m.String())); i >= 0 {
			medalCols[m] = i
		}
	}
	if len(medalCols) == 0 {
		return nil, fmt.Errorf("%s: no gold/silver/bronze columns: %w", t.name, ErrMalformed)
	}
	totalCol := t.colContaining("total")
	countryCol := t.col("country", "country_name", "country_long")

	labels := make(map[string]string, len(nocs))
	continents := make(map[string]string, len(nocs))
	for _, n := range nocs {
		if _, seen := labels[n.Code]; !seen && n.Country != "" {
			labels[n.Code] = n.Country
		}
		if _, seen := continents[n.Code]; !seen && n.Continent != "" {
			continents[n.Code] = n.Continent
		}
	}

	out := make([]model.CountryTally, 0, len(t.rows))
	for _, row := range t.rows {
		noc := strings.ToUpper(get(row, nocCol))
		if noc == "" {
			continue
		}
		tally := model.CountryTally{NOC: noc}
		for m, i := range medalCols {
			tally.Add(m, count(get(row, i)))
		}
		if totalCol >= 0 && get(row, totalCol) != "" {
			tally.Total = count(get(row, totalCol))
		} else {
			tally.Total = tally.MedalCount.Total()
		}

		switch {
		case labels[noc] != "":
			tally.Country = labels[noc]
		case get(row, countryCol) != "":
			tally.Country = get(row, countryCol)
		default:
			tally.Country = noc
		}

		switch c, ok := continents[noc]; {
		case ok:
			tally.Continent = c
		case fallback[noc] != "":
			tally.Continent = fallback[noc]
		default:
			tally.Continent = model.OtherContinent
		}
		out = append(out, tally)
	}
	return out, nil
}

func parseAthletes(t *table) ([]model.Athlete, error) {
	idx, err := t.require("name")
	if err != nil {
		return nil, err
	}
	nameCol := idx[0]
	codeCol := t.col("code", "athlete_id", "code_athlete")
	nocCol := t.col("noc", "country_code")
	genderCol := t.col("gender", "sex")
	countryCol := t.col("country", "country_long")
	heightCol := t.col("height")
	weightCol := t.col("weight")
	disciplinesCol := t.col("disciplines", "discipline")
	otherCol := t.col("other_sports")
	birthCol := t.col("birth_date", "birthdate")
	coachCol := t.col("coach", "coaches")

	out := make([]model.Athlete, 0, len(t.rows))
	for _, row := range t.rows {
		name := get(row, nameCol)
		if name == "" {
			continue
		}
		out = append(out, model.Athlete{
			Code:        get(row, codeCol),
			Name:        name,
			Gender:      get(row, genderCol),
			NOC:         strings.ToUpper(get(row, nocCol)),
			Country:     get(row, countryCol),
			Height:      number(get(row, heightCol)),
			Weight:      number(get(row, weightCol)),
			Disciplines: parseList(get(row, disciplinesCol)),
			OtherSports: parseList(get(row, otherCol)),
			BirthDate:   day(get(row, birthCol)),
			Coach:       get(row, coachCol),
		})
	}
	return out, nil
}

func parseEvents(t *table) ([]model.Event, error) {
	idx, err := t.require("sport")
	if err != nil {
		return nil, err
	}
	sportCol := idx[0]
	eventCol := t.col("event", "event_name")
	codeCol := t.col("sport_code")

	out := make([]model.Event, 0, len(t.rows))
	for _, row := range t.rows {
		out = append(out, model.Event{
			Event:     get(row, eventCol),
			Sport:     get(row, sportCol),
			SportCode: get(row, codeCol),
		})
	}
	return out, nil
}

// parseMedals reads per-athlete medal rows from medallists.csv or medals.csv.
// Rows with an unrecognized medal type or no NOC are dropped.
func parseMedals(t *table) ([]model.Medal, error) {
	typeCol := t.col("medal_type", "medal")
	if typeCol < 0 {
		return nil, fmt.Errorf("%s: no medal_type column: %w", t.name, ErrMalformed)
	}
	nocCol := t.col("noc", "country_code")
	if nocCol < 0 {
		return nil, fmt.Errorf("%s: no noc/country_code column: %w", t.name, ErrMalformed)
	}
	dateCol := t.col("medal_date", "date")
	nameCol := t.col("name", "athlete_name")
	codeCol := t.col("code_athlete", "athlete_code", "code")
	genderCol := t.col("gender")
	sportCol := t.col("discipline", "sport")
	eventCol := t.col("event")

	out := make([]model.Medal, 0, len(t.rows))
	for _, row := range t.rows {
		m, ok := model.ParseMedalType(get(row, typeCol))
		noc := strings.ToUpper(get(row, nocCol))
		if !ok || noc == "" {
			continue
		}
		out = append(out, model.Medal{
			Date:        day(get(row, dateCol)),
			Type:        m,
			Athlete:     get(row, nameCol),
			AthleteCode: get(row, codeCol),
			Gender:      get(row, genderCol),
			NOC:         noc,
			Sport:       get(row, sportCol),
			Event:       get(row, eventCol),
		})
	}
	return out, nil
}

// parseAwards reads medals.csv, one row per award.
func parseAwards(t *table) ([]model.AthleteMedal, error) {
	typeCol := t.col("medal_type", "medal")
	if typeCol < 0 {
		return nil, fmt.Errorf("%s: no medal_type column: %w", t.name, ErrMalformed)
	}
	codeCol := t.col("code", "code_athlete")
	nameCol := t.col("name")
	nocCol := t.col("noc", "country_code")
	sportCol := t.col("discipline", "sport")

	out := make([]model.AthleteMedal, 0, len(t.rows))
	for _, row := range t.rows {
		m, ok := model.ParseMedalType(get(row, typeCol))
		if !ok {
			continue
		}
		out = append(out, model.AthleteMedal{
			Code:  get(row, codeCol),
			Name:  get(row, nameCol),
			Type:  m,
			NOC:   strings.ToUpper(get(row, nocCol)),
			Sport: get(row, sportCol),
		})
	}
	return out, nil
}

func awardsFromMedals(medals []model.Medal) []model.AthleteMedal {
	out := make([]model.AthleteMedal, 0, len(medals))
	for _, m := range medals {
		out = append(out, model.AthleteMedal{
			Code:  m.AthleteCode,
			Name:  m.Athlete,
			Type:  m.Type,
			NOC:   m.NOC,
			Sport: m.Sport,
		})
	}
	return out
}

// parseCoachLinks reads athlete_id/coach_name pairs. ok is false when the
// file exists without those columns.
func parseCoachLinks(t *table) (links []model.CoachLink, ok bool) {
	if t == nil {
		return nil, true
	}
	athleteCol := t.col("athlete_id")
	coachCol := t.col("coach_name")
	if athleteCol < 0 || coachCol < 0 {
		return nil, false
	}
	for _, row := range t.rows {
		a, c := get(row, athleteCol), get(row, coachCol)
		if a == "" || c == "" {
			continue
		}
		links = append(links, model.CoachLink{AthleteCode: a, CoachName: c})
	}
	return links, true
}

func parseVenues(t *table) ([]model.Venue, error) {
	nameCol := t.col("venue", "name")
	latCol := t.col("lat", "latitude")
	lonCol := t.col("lon", "lng", "longitude")
	if nameCol < 0 || latCol < 0 || lonCol < 0 {
		return nil, fmt.Errorf("%s: venue, lat and lon columns are required: %w", t.name, ErrMalformed)
	}
	sportCol := t.col("sport", "discipline")
	capCol := t.col("capacity")

	out := make([]model.Venue, 0, len(t.rows))
	for _, row := range t.rows {
		name := get(row, nameCol)
		if name == "" {
			continue
		}
		out = append(out, model.Venue{
			Name:     name,
			Sport:    get(row, sportCol),
			Lat:      number(get(row, latCol)),
			Lon:      number(get(row, lonCol)),
			Capacity: count(get(row, capCol)),
		})
	}
	return out, nil
}
