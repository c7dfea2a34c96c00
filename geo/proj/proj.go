// Package proj reprojects geometries between named coordinate reference
// systems.
//
// Every operation here declares its source and target CRS explicitly;
// nothing assumes lat/lon. The actual coordinate math lives behind the
// Transformer interface so the projection engine (GDAL/PROJ in production,
// a fixture in tests) stays swappable.
package proj

import (
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

var (
	// ErrInvalidCRS marks a CRS identifier that cannot be resolved.
	ErrInvalidCRS = errors.New("invalid CRS")

	// ErrInvalidGeometry marks a geometry that fails validity checks.
	ErrInvalidGeometry = errors.New("invalid geometry")
)

// Transformer maps coordinate slices from a source CRS to a target CRS,
// in place. xs and ys must be the same length.
type Transformer interface {
	Transform(xs, ys []float64) error
}

// Factory resolves a (source, target) EPSG pair to a Transformer.
type Factory func(srcEPSG, dstEPSG int) (Transformer, error)

// CachingFactory wraps f with an LRU of constructed transformers.
// Building a transformer means resolving two CRS definitions, which is
// expensive relative to transforming a handful of vertices, and callers
// tend to hit the same few CRS pairs over and over (one per tile zone).
func CachingFactory(f Factory, size int) Factory {
	cache, err := lru.New[[2]int, Transformer](size)
	if err != nil {
		// Only reachable with size <= 0.
		return f
	}
	return func(srcEPSG, dstEPSG int) (Transformer, error) {
		key := [2]int{srcEPSG, dstEPSG}
		if t, ok := cache.Get(key); ok {
			return t, nil
		}
		t, err := f(srcEPSG, dstEPSG)
		if err != nil {
			return nil, err
		}
		cache.Add(key, t)
		return t, nil
	}
}

// Validate checks a geometry for projectability: non-nil, closed rings,
// and non-zero area where area is what downstream windowing will consume.
func Validate(g orb.Geometry) error {
	switch v := g.(type) {
	case nil:
		return fmt.Errorf("%w: nil geometry", ErrInvalidGeometry)
	case orb.Point, orb.MultiPoint, orb.LineString, orb.Bound:
		return nil
	case orb.Ring:
		return validateRing(v)
	case orb.Polygon:
		if len(v) == 0 {
			return fmt.Errorf("%w: empty polygon", ErrInvalidGeometry)
		}
		for _, r := range v {
			if err := validateRing(r); err != nil {
				return err
			}
		}
	case orb.MultiPolygon:
		for _, p := range v {
			if err := Validate(p); err != nil {
				return err
			}
		}
	case orb.Collection:
		for _, m := range v {
			if err := Validate(m); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("%w: unsupported geometry type %s", ErrInvalidGeometry, g.GeoJSONType())
	}
	return nil
}

func validateRing(r orb.Ring) error {
	if len(r) < 4 {
		return fmt.Errorf("%w: ring has %d points, need at least 4", ErrInvalidGeometry, len(r))
	}
	if !r.Closed() {
		return fmt.Errorf("%w: ring not closed", ErrInvalidGeometry)
	}
	if planar.Area(r) == 0 {
		return fmt.Errorf("%w: zero-area ring", ErrInvalidGeometry)
	}
	return nil
}

// Project returns g's vertices mapped through t. The input is validated
// first and never mutated; vertex ordering is preserved, so the output is
// topologically equivalent to the input under the projection.
func Project(g orb.Geometry, t Transformer) (orb.Geometry, error) {
	if err := Validate(g); err != nil {
		return nil, err
	}
	switch v := g.(type) {
	case orb.Point:
		p, err := ProjectPoint(v, t)
		if err != nil {
			return nil, err
		}
		return p, nil
	case orb.Bound:
		b, err := ProjectBound(v, t)
		if err != nil {
			return nil, err
		}
		return b, nil
	}
	out := orb.Clone(g)
	if err := projectInPlace(out, t); err != nil {
		return nil, err
	}
	return out, nil
}

func projectInPlace(g orb.Geometry, t Transformer) error {
	switch v := g.(type) {
	case orb.MultiPoint:
		return projectPoints(v, t)
	case orb.LineString:
		return projectPoints(v, t)
	case orb.Ring:
		return projectPoints(v, t)
	case orb.Polygon:
		for _, r := range v {
			if err := projectPoints(r, t); err != nil {
				return err
			}
		}
	case orb.MultiLineString:
		for _, ls := range v {
			if err := projectPoints(ls, t); err != nil {
				return err
			}
		}
	case orb.MultiPolygon:
		for _, p := range v {
			if err := projectInPlace(p, t); err != nil {
				return err
			}
		}
	case orb.Collection:
		for i := range v {
			g2, err := Project(v[i], t)
			if err != nil {
				return err
			}
			v[i] = g2
		}
	default:
		return fmt.Errorf("%w: unsupported geometry type %s", ErrInvalidGeometry, g.GeoJSONType())
	}
	return nil
}

func projectPoints(pts []orb.Point, t Transformer) error {
	if len(pts) == 0 {
		return nil
	}
	xs := make([]float64, len(pts))
	ys := make([]float64, len(pts))
	for i, p := range pts {
		xs[i], ys[i] = p[0], p[1]
	}
	if err := t.Transform(xs, ys); err != nil {
		return err
	}
	for i := range pts {
		pts[i][0], pts[i][1] = xs[i], ys[i]
	}
	return nil
}

// ProjectPoint is the single-vertex convenience over Project.
func ProjectPoint(p orb.Point, t Transformer) (orb.Point, error) {
	xs, ys := []float64{p[0]}, []float64{p[1]}
	if err := t.Transform(xs, ys); err != nil {
		return orb.Point{}, err
	}
	return orb.Point{xs[0], ys[0]}, nil
}

// ProjectBound projects a box by way of its ring, then re-envelopes. A box
// does not stay a box under most projections, so the result is the
// envelope of the projected corners.
func ProjectBound(b orb.Bound, t Transformer) (orb.Bound, error) {
	ring := orb.Ring{
		{b.Min[0], b.Min[1]},
		{b.Max[0], b.Min[1]},
		{b.Max[0], b.Max[1]},
		{b.Min[0], b.Max[1]},
		{b.Min[0], b.Min[1]},
	}
	if err := projectPoints(ring, t); err != nil {
		return orb.Bound{}, err
	}
	return ring.Bound(), nil
}
