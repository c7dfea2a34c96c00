// Package gdal backs the raster Source contract and the projection
// Factory with GDAL, via godal. Locators are anything GDAL can open:
// plain paths, /vsicurl/ or /vsis3/ URLs, VRT strings.
package gdal

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/airbusgeo/godal"

	"github.com/geoclip/geoclip/geo/proj"
	"github.com/geoclip/geoclip/geo/window"
	"github.com/geoclip/geoclip/raster"
)

var registerOnce sync.Once

// Source opens datasets read-only through GDAL.
type Source struct{}

func NewSource() Source {
	registerOnce.Do(godal.RegisterAll)
	return Source{}
}

func (s Source) Open(locator string) (raster.Dataset, error) {
	ds, err := godal.Open(locator)
	if err != nil {
		return nil, err
	}
	return &dataset{ds: ds}, nil
}

type dataset struct {
	ds *godal.Dataset
}

func (d *dataset) Size() (width, height int) {
	st := d.ds.Structure()
	return st.SizeX, st.SizeY
}

func (d *dataset) Bands() int {
	return d.ds.Structure().NBands
}

func (d *dataset) Transform() (window.Affine, error) {
	gt, err := d.ds.GeoTransform()
	if err != nil {
		return window.Affine{}, err
	}
	return window.Affine(gt), nil
}

func (d *dataset) EPSG() (int, bool) {
	sr := d.ds.SpatialRef()
	if sr == nil {
		return 0, false
	}
	code, err := strconv.Atoi(sr.AuthorityCode(""))
	if err != nil || code <= 0 {
		return 0, false
	}
	return code, true
}

func (d *dataset) NoData() (float64, bool) {
	bands := d.ds.Bands()
	if len(bands) == 0 {
		return 0, false
	}
	return bands[0].NoData()
}

func (d *dataset) Read(band int, w window.Window, buf []float64) error {
	bands := d.ds.Bands()
	if band < 0 || band >= len(bands) {
		return fmt.Errorf("band %d out of range (%d bands)", band, len(bands))
	}
	// GDAL addresses windows as (x, y, width, height); only this block
	// is decompressed and read.
	return bands[band].Read(w.MinCol, w.MinRow, buf, w.Cols(), w.Rows())
}

func (d *dataset) Close() error {
	return d.ds.Close()
}

// Transformer resolves an EPSG pair through PROJ. It satisfies
// proj.Factory; wrap with proj.CachingFactory to amortize CRS resolution.
func Transformer(srcEPSG, dstEPSG int) (proj.Transformer, error) {
	registerOnce.Do(godal.RegisterAll)
	src, err := godal.NewSpatialRefFromEPSG(srcEPSG)
	if err != nil {
		return nil, fmt.Errorf("%w: EPSG:%d: %v", proj.ErrInvalidCRS, srcEPSG, err)
	}
	dst, err := godal.NewSpatialRefFromEPSG(dstEPSG)
	if err != nil {
		src.Close()
		return nil, fmt.Errorf("%w: EPSG:%d: %v", proj.ErrInvalidCRS, dstEPSG, err)
	}
	trn, err := godal.NewTransform(src, dst)
	if err != nil {
		src.Close()
		dst.Close()
		return nil, fmt.Errorf("%w: EPSG:%d -> EPSG:%d: %v", proj.ErrInvalidCRS, srcEPSG, dstEPSG, err)
	}
	return &transformer{trn: trn}, nil
}

type transformer struct {
	mu  sync.Mutex
	trn *godal.Transform
}

func (t *transformer) Transform(xs, ys []float64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.trn.TransformEx(xs, ys, nil, nil)
}
