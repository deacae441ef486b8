package render_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/okian/medalboard/internal/adapters/render"
	"github.com/okian/medalboard/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func medals(kind types.Kind) types.Figure {
	return types.Figure{
		Kind:       kind,
		Title:      "Top Countries",
		Categories: []string{"United States", "China", "France"},
		Series: []types.Series{
			{Name: "Gold", Color: "#FFD700", Labels: []string{"United States", "China", "France"}, Values: []float64{40, 40, 16}},
			{Name: "Silver", Color: "#C0C0C0", Labels: []string{"United States", "France"}, Values: []float64{44, 26}},
		},
	}
}

func TestRender(t *testing.T) {
	ctx := context.Background()
	r := render.New(render.WithSize(640, 360))

	Convey("Given bar and pie figures", t, func() {
		Convey("Then a grouped bar renders as PNG", func() {
			out, err := r.Render(ctx, medals(types.KindGroupedBar), render.PNG)
			So(err, ShouldBeNil)
			So(bytes.HasPrefix(out, pngMagic), ShouldBeTrue)
		})

		Convey("Then a horizontal stacked bar renders as SVG", func() {
			f := medals(types.KindStackedBar)
			f.Orientation = types.Horizontal
			out, err := r.Render(ctx, f, render.SVG)
			So(err, ShouldBeNil)
			So(string(out), ShouldContainSubstring, "<svg")
		})

		Convey("Then a single series bar with equal values still renders", func() {
			f := types.Figure{Kind: types.KindBar, Title: "Ties", Series: []types.Series{
				{Name: "Total", Labels: []string{"A", "B"}, Values: []float64{3, 3}},
			}}
			out, err := r.Render(ctx, f, render.PNG)
			So(err, ShouldBeNil)
			So(bytes.HasPrefix(out, pngMagic), ShouldBeTrue)
		})

		Convey("Then a pie skips zero slices", func() {
			f := types.Figure{Kind: types.KindPie, Title: "Genders", Series: []types.Series{
				{Name: "Athletes", Labels: []string{"Female", "Male", "Mixed"}, Values: []float64{3, 2, 0}},
			}}
			out, err := r.Render(ctx, f, render.PNG)
			So(err, ShouldBeNil)
			So(bytes.HasPrefix(out, pngMagic), ShouldBeTrue)
		})
	})

	Convey("Given figures that cannot be drawn", t, func() {
		Convey("Then maps and hierarchies are unsupported", func() {
			_, err := r.Render(ctx, types.Figure{Kind: types.KindChoropleth, Locations: []types.Location{{Code: "USA", Value: 1}}}, render.PNG)
			So(errors.Is(err, render.ErrUnsupported), ShouldBeTrue)
			So(render.Supports(types.KindSunburst), ShouldBeFalse)
			So(render.Supports(types.KindPie), ShouldBeTrue)
		})

		Convey("Then empty and all-zero figures are ErrEmpty", func() {
			_, err := r.Render(ctx, types.Figure{Kind: types.KindBar}, render.PNG)
			So(errors.Is(err, render.ErrEmpty), ShouldBeTrue)

			zero := types.Figure{Kind: types.KindPie, Series: []types.Series{{Labels: []string{"A"}, Values: []float64{0}}}}
			_, err = r.Render(ctx, zero, render.SVG)
			So(errors.Is(err, render.ErrEmpty), ShouldBeTrue)

			zero.Kind = types.KindStackedBar
			_, err = r.Render(ctx, zero, render.SVG)
			So(errors.Is(err, render.ErrEmpty), ShouldBeTrue)
		})

		Convey("Then a cancelled context stops before drawing", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := r.Render(cctx, medals(types.KindBar), render.PNG)
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})
}

func TestParseFormat(t *testing.T) {
	Convey("Given format names", t, func() {
		f, err := render.ParseFormat(" SVG ")
		So(err, ShouldBeNil)
		So(f, ShouldEqual, render.SVG)
		So(f.ContentType(), ShouldEqual, "image/svg+xml")
		So(render.PNG.ContentType(), ShouldEqual, "image/png")

		_, err = render.ParseFormat("gif")
		So(errors.Is(err, render.ErrFormat), ShouldBeTrue)
	})
}
