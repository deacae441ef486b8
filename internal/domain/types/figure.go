// Package types contains the view and figure types returned by the API.
//
// A Figure describes a chart independently of any plotting library: the
// embedded site turns it into plotly traces and the render adapter turns the
// bar and pie kinds into PNG or SVG.
package types

import "time"

// Kind names a chart type.
type Kind string

// Chart kinds.
const (
	KindBar        Kind = "bar"
	KindGroupedBar Kind = "grouped_bar"
	KindStackedBar Kind = "stacked_bar"
	KindPie        Kind = "pie"
	KindChoropleth Kind = "choropleth"
	KindSunburst   Kind = "sunburst"
	KindTreemap    Kind = "treemap"
	KindTimeline   Kind = "timeline"
	KindScatterMap Kind = "scatter_map"
	KindViolin     Kind = "violin"
)

// Orientations of bar charts.
const (
	Vertical   = "v"
	Horizontal = "h"
)

// Series is one trace of a bar or pie chart. Labels and Values are parallel.
type Series struct {
	Name   string    `json:"name"`
	Color  string    `json:"color,omitempty"`
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// Len is the number of points.
func (s Series) Len() int { return len(s.Values) }

// Sum adds every value.
func (s Series) Sum() float64 {
	var t float64
	for _, v := range s.Values {
		t += v
	}
	return t
}

// Node is one sector of a sunburst or treemap. Parent is "" for roots.
// Values of inner nodes are the sum of their children.
type Node struct {
	ID     string  `json:"id"`
	Label  string  `json:"label"`
	Parent string  `json:"parent"`
	Value  float64 `json:"value"`
	Color  string  `json:"color,omitempty"`
}

// Location is one country of a choropleth, keyed by ISO-3 like NOC code.
type Location struct {
	Code  string  `json:"code"`
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Interval is one bar of a timeline.
type Interval struct {
	Label  string    `json:"label"`
	Group  string    `json:"group"`
	Venue  string    `json:"venue,omitempty"`
	Start  time.Time `json:"start"`
	Finish time.Time `json:"finish"`
}

// Marker is one point of a scatter map.
type Marker struct {
	Label string  `json:"label"`
	Group string  `json:"group"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Size  float64 `json:"size"`
}

// FiveNumber is the box plot summary of a sample.
type FiveNumber struct {
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
}

// Distribution is one violin of a violin chart.
type Distribution struct {
	Name    string     `json:"name"`
	Color   string     `json:"color,omitempty"`
	Values  []float64  `json:"values"`
	Labels  []string   `json:"labels,omitempty"`
	Summary FiveNumber `json:"summary"`
}

// Figure is a library-neutral chart description.
type Figure struct {
	ID          string `json:"id,omitempty"`
	Kind        Kind   `json:"kind"`
	Title       string `json:"title"`
	XTitle      string `json:"x_title,omitempty"`
	YTitle      string `json:"y_title,omitempty"`
	Orientation string `json:"orientation,omitempty"`

	// Categories fixes the axis order of bar charts.
	Categories []string `json:"categories,omitempty"`

	Series        []Series       `json:"series,omitempty"`
	Nodes         []Node         `json:"nodes,omitempty"`
	Locations     []Location     `json:"locations,omitempty"`
	Intervals     []Interval     `json:"intervals,omitempty"`
	Markers       []Marker       `json:"markers,omitempty"`
	Distributions []Distribution `json:"distributions,omitempty"`

	// Notice explains an empty or simplified figure to the reader.
	Notice string `json:"notice,omitempty"`
}

// Empty reports whether the figure has nothing to draw.
func (f Figure) Empty() bool {
	for _, s := range f.Series {
		if s.Len() > 0 {
			return false
		}
	}
	return len(f.Nodes) == 0 && len(f.Locations) == 0 && len(f.Intervals) == 0 &&
		len(f.Markers) == 0 && len(f.Distributions) == 0
}
