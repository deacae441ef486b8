package render

import "errors"

// Sentinel errors returned by Render.
var (
	// ErrUnsupported is returned for figure kinds without a raster form.
	ErrUnsupported = errors.New("figure kind cannot be rendered")
	// ErrEmpty is returned when a figure has no positive value to draw.
	ErrEmpty = errors.New("figure has nothing to draw")
	// ErrFormat is returned for formats other than png and svg.
	ErrFormat = errors.New("unknown image format")
)
