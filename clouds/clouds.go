// Package clouds derives cloud-cover ratios from windowed mask reads and
// buckets acquisitions into usable and unusable sets.
package clouds

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/montanaflynn/stats"
	"github.com/paulmach/orb"

	"github.com/geoclip/geoclip/params"
	"github.com/geoclip/geoclip/raster"
)

// ErrEmptyMask marks a ratio computed over zero pixels.
var ErrEmptyMask = errors.New("empty mask window")

// Class is the usability bucket of an acquisition.
type Class int

const (
	Unusable Class = iota
	Usable
)

func (c Class) String() string {
	if c == Usable {
		return "usable"
	}
	return "unusable"
}

// Ratio reduces a windowed mask read to a scalar cloud-cover ratio: the
// mean of the mask band, treating each pixel as a cloud/shadow indicator
// (boolean or probability in [0,1]).
//
// The mean is pixel-count based, not area based. Reprojected masks can
// carry anisotropic pixels, and those are not weighted; this mirrors the
// upstream mask products and is a known approximation, left alone on
// purpose.
func Ratio(mask *raster.Windowed, band int) (float64, error) {
	if mask == nil || mask.Rows == 0 || mask.Cols == 0 {
		return 0, ErrEmptyMask
	}
	if band < 0 || band >= mask.Bands {
		return 0, fmt.Errorf("%w: band %d of %d", ErrEmptyMask, band, mask.Bands)
	}
	return RatioValues(mask.Band(band))
}

// RatioValues is Ratio over a bare pixel slice.
func RatioValues(pixels []float64) (float64, error) {
	if len(pixels) == 0 {
		return 0, ErrEmptyMask
	}
	mean, err := stats.Mean(stats.Float64Data(pixels))
	if err != nil {
		return 0, err
	}
	return mean, nil
}

// Classify buckets a cloud-cover ratio against a threshold. The
// comparison is strict: an acquisition exactly at the threshold is
// unusable.
func Classify(ratio, threshold float64) Class {
	if ratio < threshold {
		return Usable
	}
	return Unusable
}

// Selection is the result of splitting a mask collection by cover ratio.
type Selection struct {
	Usable   raster.Collection
	Unusable raster.Collection

	// Ratios holds the computed cover ratio per input ref, keyed by
	// locator.
	Ratios map[string]float64
}

// SelectUsable reads the mask window covering g for every ref in masks,
// computes each cover ratio, and splits the collection at the configured
// threshold. A failed read fails the selection; a silently skipped scene
// would bias the composite toward whatever happened to be readable.
func SelectUsable(rd *raster.Reader, masks raster.Collection, g orb.Geometry, srcEPSG int, cfg params.CloudConfig) (Selection, error) {
	sel := Selection{Ratios: make(map[string]float64, len(masks))}
	logger := slog.With("selector", "clouds")
	for _, ref := range masks {
		win, err := rd.ReadGeometry(ref, g, srcEPSG, false)
		if err != nil {
			return Selection{}, fmt.Errorf("mask %s: %w", ref.Locator, err)
		}
		ratio, err := Ratio(win, cfg.MaskBand)
		if err != nil {
			return Selection{}, fmt.Errorf("mask %s: %w", ref.Locator, err)
		}
		sel.Ratios[ref.Locator] = ratio
		class := Classify(ratio, cfg.Threshold)
		logger.Debug("classified acquisition",
			"tile", ref.Tile, "time", ref.TimeStart,
			"ratio", ratio, "class", class.String())
		if class == Usable {
			sel.Usable = append(sel.Usable, ref)
		} else {
			sel.Unusable = append(sel.Unusable, ref)
		}
	}
	return sel, nil
}
