package raster

import (
	"fmt"
	"log/slog"

	"github.com/paulmach/orb"

	"github.com/geoclip/geoclip/geo/proj"
	"github.com/geoclip/geoclip/geo/window"
	"github.com/geoclip/geoclip/params"
)

// Reader performs windowed reads against a Source. It holds no open
// handles between calls: each read opens the dataset, reads exactly the
// requested window, and closes it, on failure paths included.
//
// A zero-value Reader is not usable; construct with NewReader.
type Reader struct {
	source Source
	projs  proj.Factory
	config params.ReadConfig
	logger *slog.Logger
}

// NewReader returns a Reader over src. projs resolves CRS pairs for
// geometry-addressed reads and may be nil if only window-addressed reads
// are used.
func NewReader(src Source, projs proj.Factory, cfg params.ReadConfig) *Reader {
	if projs != nil && cfg.ProjectionCacheSize > 0 {
		projs = proj.CachingFactory(projs, cfg.ProjectionCacheSize)
	}
	return &Reader{
		source: src,
		projs:  projs,
		config: cfg,
		logger: slog.With("reader", "raster"),
	}
}

// Read opens ref and reads the pixel window w across all bands.
//
// The returned array has shape (bands, w.Rows(), w.Cols()) and carries
// the sub-window's own geotransform. When fillInvalid is set, nodata
// pixels are replaced with the configured fill value; otherwise raw
// values are preserved so callers can compute statistics over the exact
// valid/invalid split.
func (rd *Reader) Read(ref Ref, w window.Window, fillInvalid bool) (*Windowed, error) {
	if err := ref.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrIO, ref.Locator, err)
	}
	ds, err := rd.source.Open(ref.Locator)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrIO, ref.Locator, err)
	}
	defer ds.Close()
	return rd.read(ds, ref, w, fillInvalid)
}

// ReadGeometry reads the minimal window covering g, which is expressed in
// srcEPSG. The geometry is projected into the raster's own CRS and its
// envelope resolved against the raster's own grid; a failed projection or
// resolution aborts the read rather than substituting a default window.
func (rd *Reader) ReadGeometry(ref Ref, g orb.Geometry, srcEPSG int, fillInvalid bool) (*Windowed, error) {
	if err := ref.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrIO, ref.Locator, err)
	}
	if rd.projs == nil {
		return nil, fmt.Errorf("%w: reader has no projection factory", proj.ErrInvalidCRS)
	}
	ds, err := rd.source.Open(ref.Locator)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrIO, ref.Locator, err)
	}
	defer ds.Close()

	dstEPSG, ok := ds.EPSG()
	if !ok {
		// Fall back to the CRS the platform listed for the resource.
		dstEPSG = ref.CRS
	}
	t, err := rd.projs(srcEPSG, dstEPSG)
	if err != nil {
		return nil, err
	}
	projected, err := proj.Project(g, t)
	if err != nil {
		return nil, err
	}

	gt, err := ds.Transform()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrIO, ref.Locator, err)
	}
	width, height := ds.Size()
	w, err := window.Resolve(projected.Bound(), gt, width, height)
	if err != nil {
		return nil, err
	}
	return rd.read(ds, ref, w, fillInvalid)
}

func (rd *Reader) read(ds Dataset, ref Ref, w window.Window, fillInvalid bool) (*Windowed, error) {
	width, height := ds.Size()
	if err := w.Validate(width, height); err != nil {
		return nil, err
	}
	gt, err := ds.Transform()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrIO, ref.Locator, err)
	}

	bands := ds.Bands()
	if bands <= 0 {
		return nil, fmt.Errorf("%w: %s: no bands", ErrIO, ref.Locator)
	}
	nodata, hasNodata := ds.NoData()

	out := &Windowed{
		Data:      make([]float64, bands*w.Pixels()),
		Bands:     bands,
		Rows:      w.Rows(),
		Cols:      w.Cols(),
		Transform: gt.Sub(w),
		NoData:    nodata,
		HasNoData: hasNodata,
	}
	if epsg, ok := ds.EPSG(); ok {
		out.CRS = epsg
	} else {
		out.CRS = ref.CRS
	}

	for b := 0; b < bands; b++ {
		if err := ds.Read(b, w, out.Band(b)); err != nil {
			return nil, fmt.Errorf("%w: %s band %d %s: %v", ErrIO, ref.Locator, b, w, err)
		}
	}

	if fillInvalid && hasNodata {
		filled := 0
		for i, v := range out.Data {
			if v == nodata {
				out.Data[i] = rd.config.FillValue
				filled++
			}
		}
		if filled > 0 {
			rd.logger.Debug("filled nodata", "locator", ref.Locator,
				"window", w.String(), "pixels", filled)
		}
	}
	return out, nil
}
