// Package raster defines the value types for tiled multi-band rasters and
// implements windowed reads against them.
//
// A Ref is an immutable handle to a raster resource owned by some external
// platform: the toolkit never creates, mutates, or deletes the resource,
// it only reads windows out of it. Everything a read returns (a Windowed
// array) is owned by the caller.
package raster

import (
	"errors"
	"fmt"
	"time"

	"github.com/geoclip/geoclip/geo/window"
)

// ErrIO marks unreachable or corrupt raster storage.
var ErrIO = errors.New("raster storage error")

// Ref is a read-only handle to a tiled, multi-band raster resource.
// Locator is whatever string the storage layer resolves (a path, a
// /vsicurl/ URL, an object-store key). CRS is an EPSG code.
type Ref struct {
	Locator   string    `json:"locator"`
	CRS       int       `json:"crs"`
	Tile      string    `json:"tile,omitempty"`
	TimeStart time.Time `json:"time_start"`
	TimeEnd   time.Time `json:"time_end"`

	// Grid metadata as listed by the platform. Informational: reads take
	// the authoritative grid from the opened dataset, not from here.
	Bands  int `json:"bands,omitempty"`
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`
}

func (r Ref) IsValid() bool {
	return r.Validate() == nil
}

// Validate checks the fields a read depends on.
func (r Ref) Validate() error {
	if r.Locator == "" {
		return fmt.Errorf("empty locator")
	}
	if r.CRS <= 0 {
		return fmt.Errorf("unresolvable CRS %d", r.CRS)
	}
	if !r.TimeEnd.IsZero() && r.TimeEnd.Before(r.TimeStart) {
		return fmt.Errorf("acquisition range ends before it starts")
	}
	return nil
}

// Time returns the nominal acquisition time: the start of the range.
func (r Ref) Time() time.Time {
	return r.TimeStart
}

func (r Ref) String() string {
	return fmt.Sprintf("%s [EPSG:%d tile=%s %s]",
		r.Locator, r.CRS, r.Tile, r.TimeStart.Format(time.RFC3339))
}

// Collection is a sequence of refs sharing a geometry of interest,
// conventionally ordered by acquisition time.
type Collection []Ref

// Windowed is the in-memory result of a windowed read: all bands of one
// pixel window, band-major, plus the transform geolocating the window
// itself so pixel<->CRS mapping still works on the cropped array.
type Windowed struct {
	Data  []float64
	Bands int
	Rows  int
	Cols  int

	Transform window.Affine
	CRS       int

	NoData    float64
	HasNoData bool
}

// At returns the pixel value at (band, row, col). No bounds checking
// beyond the slice's own.
func (w *Windowed) At(band, row, col int) float64 {
	return w.Data[band*w.Rows*w.Cols+row*w.Cols+col]
}

// Band returns the backing slice for one band. The slice aliases Data.
func (w *Windowed) Band(band int) []float64 {
	n := w.Rows * w.Cols
	return w.Data[band*n : (band+1)*n]
}

// Shape returns (bands, rows, cols).
func (w *Windowed) Shape() (bands, rows, cols int) {
	return w.Bands, w.Rows, w.Cols
}

// Valid reports whether the pixel value is a real measurement, i.e. not
// the dataset's nodata sentinel.
func (w *Windowed) Valid(v float64) bool {
	return !w.HasNoData || v != w.NoData
}
