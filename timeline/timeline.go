// Package timeline orders and joins time-stamped raster collections.
//
// Radar, optical, and synthesized daily streams never share exact
// timestamps, so nearest-in-time is the only meaningful join between
// them. Exact-match joins are deliberately not offered.
package timeline

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/geoclip/geoclip/raster"
)

// ErrEmptyCollection marks an alignment attempted against zero candidates.
var ErrEmptyCollection = errors.New("empty collection")

// SortByTime returns a copy of c ordered by acquisition start time.
// The sort is stable: refs sharing a start time keep their input order,
// and no deduplication happens.
func SortByTime(c raster.Collection) raster.Collection {
	out := make(raster.Collection, len(c))
	copy(out, c)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TimeStart.Before(out[j].TimeStart)
	})
	return out
}

// Nearest returns the ref in c whose acquisition start is closest to t.
// The collection need not be sorted; candidates are scanned in time
// order, so two equidistant candidates resolve to the earlier
// acquisition, and refs sharing that acquisition time resolve to the
// earlier input position.
func Nearest(t time.Time, c raster.Collection) (raster.Ref, error) {
	if len(c) == 0 {
		return raster.Ref{}, ErrEmptyCollection
	}
	sorted := SortByTime(c)
	best := 0
	bestDelta := absDuration(sorted[0].TimeStart.Sub(t))
	for i := 1; i < len(sorted); i++ {
		if d := absDuration(sorted[i].TimeStart.Sub(t)); d < bestDelta {
			best, bestDelta = i, d
		}
	}
	return sorted[best], nil
}

// NearestEach pairs every ref of a with its nearest-in-time ref of b.
func NearestEach(a, b raster.Collection) ([]Pair, error) {
	if len(b) == 0 {
		return nil, ErrEmptyCollection
	}
	pairs := make([]Pair, 0, len(a))
	for _, ref := range a {
		match, err := Nearest(ref.TimeStart, b)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, Pair{A: ref, B: match})
	}
	return pairs, nil
}

// Pair is one nearest-in-time match between two collections.
type Pair struct {
	A raster.Ref
	B raster.Ref
}

// Delta returns the signed acquisition time difference B - A.
func (p Pair) Delta() time.Duration {
	return p.B.TimeStart.Sub(p.A.TimeStart)
}

// PairMasks matches optical scenes to their mask rasters by shared
// spatial/temporal identity: same tile, identical acquisition window.
// Masks are produced 1:1 with optical scenes, so a scene without a mask
// is a hole in the upstream output and reported as an error.
func PairMasks(scenes, masks raster.Collection) ([]Pair, error) {
	type identity struct {
		tile       string
		start, end int64
	}
	byIdentity := make(map[identity]raster.Ref, len(masks))
	for _, m := range masks {
		id := identity{m.Tile, m.TimeStart.UnixNano(), m.TimeEnd.UnixNano()}
		// First listed mask wins; a second mask for the same identity is
		// upstream noise.
		if _, ok := byIdentity[id]; ok {
			continue
		}
		byIdentity[id] = m
	}
	pairs := make([]Pair, 0, len(scenes))
	for _, s := range scenes {
		m, ok := byIdentity[identity{s.Tile, s.TimeStart.UnixNano(), s.TimeEnd.UnixNano()}]
		if !ok {
			return nil, fmt.Errorf("no mask for scene %s", s)
		}
		pairs = append(pairs, Pair{A: s, B: m})
	}
	return pairs, nil
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
