// Package render draws bar and pie figures as PNG or SVG images with go-chart.
package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/okian/medalboard/internal/domain/types"
	"github.com/okian/medalboard/pkg/metrics"
)

// Format is an image encoding.
type Format string

// Supported formats.
const (
	PNG Format = "png"
	SVG Format = "svg"
)

// ParseFormat accepts "png" and "svg" in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case PNG, SVG:
		return f, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrFormat)
}

// ContentType is the MIME type of the format.
func (f Format) ContentType() string {
	if f == SVG {
		return "image/svg+xml"
	}
	return "image/png"
}

func (f Format) provider() chart.RendererProvider {
	if f == SVG {
		return chart.SVG
	}
	return chart.PNG
}

// Supports reports whether a figure kind has an image form.
func Supports(k types.Kind) bool {
	switch k {
	case types.KindBar, types.KindGroupedBar, types.KindStackedBar, types.KindPie:
		return true
	}
	return false
}

// Renderer turns figures into images. It holds no state besides its size and
// is safe for concurrent use.
type Renderer struct {
	width  int
	height int
}

// New creates a Renderer, 1024x576 unless configured otherwise.
func New(opts ...Option) *Renderer {
	r := &Renderer{width: 1024, height: 576}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render encodes f in the given format.
func (r *Renderer) Render(ctx context.Context, f types.Figure, format Format) (out []byte, err error) {
	start := time.Now()
	defer func() {
		if err != nil {
			metrics.RecordRenderError(reason(err))
			return
		}
		metrics.RecordRenderLatency(string(format), float64(time.Since(start).Milliseconds()))
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if format != PNG && format != SVG {
		return nil, fmt.Errorf("%q: %w", format, ErrFormat)
	}
	if !Supports(f.Kind) {
		return nil, fmt.Errorf("%s: %w", f.Kind, ErrUnsupported)
	}
	if f.Empty() {
		return nil, fmt.Errorf("%s: %w", f.Title, ErrEmpty)
	}

	var buf bytes.Buffer
	switch f.Kind {
	case types.KindPie:
		err = r.pie(f, format, &buf)
	case types.KindStackedBar:
		err = r.stacked(f, format, &buf)
	default:
		err = r.bars(f, format, &buf)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func reason(err error) string {
	switch {
	case errors.Is(err, ErrUnsupported):
		return "unsupported"
	case errors.Is(err, ErrEmpty):
		return "empty"
	case errors.Is(err, ErrFormat):
		return "format"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "draw"
	}
}

// point is one drawable value with its color.
type point struct {
	label string
	value float64
	color string
}

// flatten lays the series of a bar figure out along its categories. With
// more than one series every bar is labeled "category (series)".
func flatten(f types.Figure) []point {
	multi := len(f.Series) > 1
	var out []point
	for _, cat := range categories(f) {
		for _, s := range f.Series {
			v, ok := valueOf(s, cat)
			if !ok {
				continue
			}
			label := cat
			if multi {
				label = cat + " (" + s.Name + ")"
			}
			out = append(out, point{label: label, value: v, color: s.Color})
		}
	}
	return out
}

// categories is the axis order: the figure's own, else first-seen labels.
func categories(f types.Figure) []string {
	if len(f.Categories) > 0 {
		return f.Categories
	}
	seen := make(map[string]bool)
	var out []string
	for _, s := range f.Series {
		for _, l := range s.Labels {
			if !seen[l] {
				seen[l] = true
				out = append(out, l)
			}
		}
	}
	return out
}

func valueOf(s types.Series, label string) (float64, bool) {
	for i, l := range s.Labels {
		if l == label && i < len(s.Values) {
			return s.Values[i], true
		}
	}
	return 0, false
}

func (r *Renderer) bars(f types.Figure, format Format, buf *bytes.Buffer) error {
	points := flatten(f)
	var peak float64
	for _, p := range points {
		peak = max(peak, p.value)
	}
	if peak <= 0 {
		return fmt.Errorf("%s: %w", f.Title, ErrEmpty)
	}

	bars := make([]chart.Value, 0, len(points))
	for _, p := range points {
		v := chart.Value{Label: p.label, Value: p.value}
		if p.color != "" {
			v.Style = chart.Style{FillColor: color(p.color), StrokeColor: color(p.color)}
		}
		bars = append(bars, v)
	}

	c := chart.BarChart{
		Title:      f.Title,
		Width:      r.width,
		Height:     r.height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Bottom: 20}},
		BarSpacing: 8,
		BarWidth:   barWidth(r.width, len(bars)),
		XAxis:      chart.Style{FontSize: 8, TextRotationDegrees: 45},
		YAxis: chart.YAxis{
			Name:  f.YTitle,
			Range: &chart.ContinuousRange{Min: 0, Max: peak},
		},
		Bars: bars,
	}
	if err := c.Render(format.provider(), buf); err != nil {
		return fmt.Errorf("draw %s: %w", f.Kind, err)
	}
	return nil
}

func (r *Renderer) stacked(f types.Figure, format Format, buf *bytes.Buffer) error {
	cats := categories(f)
	stacks := make([]chart.StackedBar, 0, len(cats))
	for _, cat := range cats {
		var values []chart.Value
		for _, s := range f.Series {
			v, ok := valueOf(s, cat)
			if !ok || v <= 0 {
				continue
			}
			values = append(values, chart.Value{
				Label: s.Name,
				Value: v,
				Style: chart.Style{FillColor: color(s.Color), StrokeColor: color(s.Color)},
			})
		}
		// bars are normalized to their own total, so empty ones cannot be drawn
		if len(values) == 0 {
			continue
		}
		stacks = append(stacks, chart.StackedBar{Name: cat, Values: values})
	}
	if len(stacks) == 0 {
		return fmt.Errorf("%s: %w", f.Title, ErrEmpty)
	}
	w := barWidth(r.width, len(stacks))
	if f.Orientation == types.Horizontal {
		w = barWidth(r.height, len(stacks))
	}
	for i := range stacks {
		stacks[i].Width = w
	}

	c := chart.StackedBarChart{
		Title:        f.Title,
		Width:        r.width,
		Height:       r.height,
		Background:   chart.Style{Padding: chart.Box{Top: 40}},
		BarSpacing:   8,
		IsHorizontal: f.Orientation == types.Horizontal,
		Bars:         stacks,
	}
	if err := c.Render(format.provider(), buf); err != nil {
		return fmt.Errorf("draw %s: %w", f.Kind, err)
	}
	return nil
}

func (r *Renderer) pie(f types.Figure, format Format, buf *bytes.Buffer) error {
	var values []chart.Value
	for _, p := range flatten(f) {
		if p.value <= 0 {
			continue
		}
		v := chart.Value{Label: p.label, Value: p.value}
		if p.color != "" {
			v.Style = chart.Style{FillColor: color(p.color)}
		}
		values = append(values, v)
	}
	if len(values) == 0 {
		return fmt.Errorf("%s: %w", f.Title, ErrEmpty)
	}

	c := chart.PieChart{
		Title:  f.Title,
		Width:  r.width,
		Height: r.height,
		Values: values,
	}
	if err := c.Render(format.provider(), buf); err != nil {
		return fmt.Errorf("draw %s: %w", f.Kind, err)
	}
	return nil
}

// barWidth spreads n bars over size pixels, leaving room for the axes.
func barWidth(size, n int) int {
	if n <= 0 {
		return 0
	}
	return max(4, (size-160)/n-8)
}

func color(hex string) drawing.Color {
	if hex == "" {
		return drawing.Color{}
	}
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}
