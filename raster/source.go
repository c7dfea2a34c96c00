package raster

import "github.com/geoclip/geoclip/geo/window"

// Source opens raster resources by locator. It is the whole storage
// contract this toolkit needs: open, read a window, report the grid.
// Implementations must support windowed reads without materializing the
// full raster.
type Source interface {
	Open(locator string) (Dataset, error)
}

// Dataset is one opened raster resource. A Dataset lives for the duration
// of a single read call; the reader closes it on every exit path.
type Dataset interface {
	// Size returns the grid dimensions in pixels (width, height).
	Size() (width, height int)

	// Bands returns the band count.
	Bands() int

	// Transform returns the pixel-to-CRS geotransform.
	Transform() (window.Affine, error)

	// EPSG returns the dataset's CRS code, if it declares one.
	EPSG() (int, bool)

	// NoData returns the nodata sentinel, if the dataset declares one.
	NoData() (float64, bool)

	// Read fills buf with the window of one band, row-major. buf has
	// w.Pixels() capacity. Implementations read only the window.
	Read(band int, w window.Window, buf []float64) error

	Close() error
}
