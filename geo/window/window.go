// Package window maps CRS-space envelopes onto raster pixel grids.
//
// A raster's pixel grid is addressed by (row, col) and tied to CRS space
// by an affine geotransform. Resolving a window means pushing an envelope
// through the inverse transform and rounding outward, so that every pixel
// touched by the envelope lands inside the window. Under-covering would
// silently drop valid pixels; covering costs at most one extra pixel per
// edge.
package window

import (
	"errors"
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

var (
	// ErrWindow marks a malformed or empty pixel window.
	ErrWindow = errors.New("malformed window")

	// ErrOutOfBounds marks an envelope that does not intersect the grid.
	ErrOutOfBounds = errors.New("geometry out of raster bounds")
)

// Affine is a geotransform in GDAL element order:
// [origin-x, pixel-width, row-rotation, origin-y, col-rotation, pixel-height].
// Pixel height is negative for north-up rasters.
type Affine [6]float64

// Apply maps fractional pixel coordinates to CRS coordinates.
func (a Affine) Apply(col, row float64) (x, y float64) {
	x = a[0] + col*a[1] + row*a[2]
	y = a[3] + col*a[4] + row*a[5]
	return x, y
}

// Invert returns the transform mapping CRS coordinates back to fractional
// pixel coordinates. A degenerate (zero-determinant) transform cannot
// address pixels at all and is rejected.
func (a Affine) Invert() (Affine, error) {
	det := a[1]*a[5] - a[2]*a[4]
	if det == 0 {
		return Affine{}, fmt.Errorf("%w: degenerate transform %v", ErrWindow, a)
	}
	inv := Affine{}
	inv[1] = a[5] / det
	inv[2] = -a[2] / det
	inv[4] = -a[4] / det
	inv[5] = a[1] / det
	inv[0] = -(inv[1]*a[0] + inv[2]*a[3])
	inv[3] = -(inv[4]*a[0] + inv[5]*a[3])
	return inv, nil
}

// PixelSize returns the absolute pixel dimensions in CRS units.
func (a Affine) PixelSize() (w, h float64) {
	return math.Abs(a[1]), math.Abs(a[5])
}

// Origin returns the CRS coordinates of the grid's (0,0) pixel corner.
func (a Affine) Origin() (x, y float64) {
	return a[0], a[3]
}

// Sub translates the transform to the origin of w, giving the cropped
// array its own pixel-to-CRS mapping.
func (a Affine) Sub(w Window) Affine {
	x, y := a.Apply(float64(w.MinCol), float64(w.MinRow))
	sub := a
	sub[0], sub[3] = x, y
	return sub
}

// Window is a half-open pixel rectangle: rows [MinRow, MaxRow) and
// columns [MinCol, MaxCol).
type Window struct {
	MinRow, MaxRow int
	MinCol, MaxCol int
}

func (w Window) Rows() int { return w.MaxRow - w.MinRow }
func (w Window) Cols() int { return w.MaxCol - w.MinCol }

// Pixels returns the number of pixels addressed by the window.
func (w Window) Pixels() int { return w.Rows() * w.Cols() }

func (w Window) IsEmpty() bool { return w.Rows() <= 0 || w.Cols() <= 0 }

func (w Window) String() string {
	return fmt.Sprintf("rows[%d:%d] cols[%d:%d]", w.MinRow, w.MaxRow, w.MinCol, w.MaxCol)
}

// Validate checks the window against a grid of the given dimensions.
func (w Window) Validate(width, height int) error {
	if w.IsEmpty() {
		return fmt.Errorf("%w: empty %s", ErrWindow, w)
	}
	if w.MinRow < 0 || w.MinCol < 0 || w.MaxRow > height || w.MaxCol > width {
		return fmt.Errorf("%w: %s exceeds grid %dx%d", ErrWindow, w, width, height)
	}
	return nil
}

// Bound returns the window's envelope in CRS coordinates under a.
func (w Window) Bound(a Affine) orb.Bound {
	x0, y0 := a.Apply(float64(w.MinCol), float64(w.MinRow))
	x1, y1 := a.Apply(float64(w.MaxCol), float64(w.MaxRow))
	return orb.Bound{
		Min: orb.Point{math.Min(x0, x1), math.Min(y0, y1)},
		Max: orb.Point{math.Max(x0, x1), math.Max(y0, y1)},
	}
}

// Resolve computes the minimal pixel window covering the envelope b on a
// grid of width x height pixels tied to CRS space by a.
//
// The envelope's corners are pushed through the inverse transform and the
// fractional results rounded outward (floor on the low edge, ceil on the
// high edge). A degenerate envelope (a point, or an edge lying exactly on
// a pixel boundary) still covers at least one pixel. The result is clamped
// to the grid; an envelope that misses the grid entirely resolves to
// ErrOutOfBounds rather than a defaulted window.
func Resolve(b orb.Bound, a Affine, width, height int) (Window, error) {
	if width <= 0 || height <= 0 {
		return Window{}, fmt.Errorf("%w: grid %dx%d", ErrWindow, width, height)
	}
	inv, err := a.Invert()
	if err != nil {
		return Window{}, err
	}

	// All four corners, so rotated transforms and the north-up row flip
	// come out right without special cases.
	minCol, minRow := math.Inf(1), math.Inf(1)
	maxCol, maxRow := math.Inf(-1), math.Inf(-1)
	for _, pt := range []orb.Point{
		{b.Min[0], b.Min[1]},
		{b.Min[0], b.Max[1]},
		{b.Max[0], b.Min[1]},
		{b.Max[0], b.Max[1]},
	} {
		col, row := inv.Apply(pt[0], pt[1])
		minCol = math.Min(minCol, col)
		maxCol = math.Max(maxCol, col)
		minRow = math.Min(minRow, row)
		maxRow = math.Max(maxRow, row)
	}

	w := Window{
		MinRow: int(math.Floor(minRow)),
		MaxRow: int(math.Ceil(maxRow)),
		MinCol: int(math.Floor(minCol)),
		MaxCol: int(math.Ceil(maxCol)),
	}
	// A point envelope, or one flush with a pixel boundary, covers the
	// pixel it touches.
	if w.MaxRow == w.MinRow {
		w.MaxRow++
	}
	if w.MaxCol == w.MinCol {
		w.MaxCol++
	}

	if w.MaxRow <= 0 || w.MaxCol <= 0 || w.MinRow >= height || w.MinCol >= width {
		return Window{}, fmt.Errorf("%w: envelope %v resolves to %s on grid %dx%d",
			ErrOutOfBounds, b, w, width, height)
	}

	w.MinRow = max(w.MinRow, 0)
	w.MinCol = max(w.MinCol, 0)
	w.MaxRow = min(w.MaxRow, height)
	w.MaxCol = min(w.MaxCol, width)
	if err := w.Validate(width, height); err != nil {
		return Window{}, err
	}
	return w, nil
}
