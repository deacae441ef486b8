package types

import (
	"time"

	"github.com/okian/medalboard/internal/domain/filter"
)

// KPIs are the headline numbers shown above the charts.
type KPIs struct {
	Countries  int `json:"countries"`
	Continents int `json:"continents,omitempty"`
	Athletes   int `json:"athletes,omitempty"`
	Events     int `json:"events,omitempty"`
	Sports     int `json:"sports,omitempty"`
	Gold       int `json:"gold"`
	Silver     int `json:"silver"`
	Bronze     int `json:"bronze"`
	Total      int `json:"total"`
}

// Option is one entry of a select widget.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// DateRange bounds the days of the games.
type DateRange struct {
	First time.Time `json:"first"`
	Last  time.Time `json:"last"`
}

// FilterOptions lists every value the dashboard widgets offer.
type FilterOptions struct {
	NOCs        []Option   `json:"nocs"`
	Sports      []string   `json:"sports"`
	Medals      []string   `json:"medals"`
	Continents  []string   `json:"continents"`
	Disciplines []string   `json:"disciplines"`
	Countries   []string   `json:"countries"`
	Genders     []string   `json:"genders"`
	Dates       *DateRange `json:"dates,omitempty"`
}

// GlobalView is the Global Analysis page.
type GlobalView struct {
	Selection      filter.Selection `json:"selection"`
	KPIs           KPIs             `json:"kpis"`
	Map            Figure           `json:"map"`
	TopCountries   Figure           `json:"top_countries"`
	Continents     Figure           `json:"continents"`
	HierarchyReady bool             `json:"hierarchy_ready"`
	Sunburst       Figure           `json:"sunburst"`
	Treemap        Figure           `json:"treemap"`
}

// AthleteProfile is the detail card of one athlete.
type AthleteProfile struct {
	Code        string   `json:"code"`
	Name        string   `json:"name"`
	Initials    string   `json:"initials"`
	Gender      string   `json:"gender,omitempty"`
	Country     string   `json:"country,omitempty"`
	NOC         string   `json:"noc,omitempty"`
	Height      float64  `json:"height,omitempty"`
	Weight      float64  `json:"weight,omitempty"`
	Age         *int     `json:"age,omitempty"`
	Coaches     []string `json:"coaches"`
	Disciplines []string `json:"disciplines"`
	OtherSports []string `json:"other_sports"`
}

// ScheduleView is the Gantt chart of the Sports and Events page.
type ScheduleView struct {
	Sports    []string `json:"sports"`
	Venues    []string `json:"venues"`
	Selected  []string `json:"selected"`
	Synthetic bool     `json:"synthetic"`
	Figure    Figure   `json:"figure"`
}

// TreemapView is the sport by medal type treemap.
type TreemapView struct {
	Detailed bool   `json:"detailed"`
	Figure   Figure `json:"figure"`
}

// RankRow is one country in a medal ranking.
type RankRow struct {
	Rank      int    `json:"rank"`
	NOC       string `json:"noc"`
	Country   string `json:"country"`
	Continent string `json:"continent"`
	Gold      int    `json:"gold"`
	Silver    int    `json:"silver"`
	Bronze    int    `json:"bronze"`
	Total     int    `json:"total"`
}

// RankingView ranks countries by a metric within a continent and gender.
type RankingView struct {
	Continent string    `json:"continent"`
	Gender    string    `json:"gender"`
	Metric    string    `json:"metric"`
	Rows      []RankRow `json:"rows"`
	Figure    Figure    `json:"figure"`
}

// DistributionView is the medal map with an optional continental breakdown.
type DistributionView struct {
	Metric    string    `json:"metric"`
	Continent string    `json:"continent,omitempty"`
	Map       Figure    `json:"map"`
	Breakdown *Figure   `json:"breakdown,omitempty"`
	Rows      []RankRow `json:"rows,omitempty"`
}

// SportComparison is one sport of a head-to-head comparison.
type SportComparison struct {
	Sport    string `json:"sport"`
	A        int    `json:"a"`
	B        int    `json:"b"`
	Combined int    `json:"combined"`
}

// SummaryRow is one metric of the head-to-head summary table.
type SummaryRow struct {
	Metric string `json:"metric"`
	A      int    `json:"a"`
	B      int    `json:"b"`
}

// HeadToHeadView compares two countries sport by sport.
type HeadToHeadView struct {
	A       string            `json:"a"`
	B       string            `json:"b"`
	Sports  []SportComparison `json:"sports"`
	Summary []SummaryRow      `json:"summary"`
	Figure  Figure            `json:"figure"`
}

// DayEvent is one medal awarded on the selected day.
type DayEvent struct {
	Medal   string `json:"medal"`
	NOC     string `json:"noc"`
	Sport   string `json:"sport"`
	Event   string `json:"event"`
	Athlete string `json:"athlete"`
}

// TopPerformer is the country with the most medals on a day.
type TopPerformer struct {
	NOC    string `json:"noc"`
	Medals int    `json:"medals"`
}

// DayView answers "who won the day".
type DayView struct {
	Date   time.Time     `json:"date"`
	Range  DateRange     `json:"range"`
	Top    *TopPerformer `json:"top,omitempty"`
	Figure Figure        `json:"figure"`
	Events []DayEvent    `json:"events"`
}
