package catalog

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/geoclip/geoclip/raster"
)

// ParseManifest decodes a platform result manifest into collections of
// raster references, keyed by sink name ("raster", "mask", "s1_raster",
// "s2_raster", ...).
//
// The manifest is a JSON object mapping each sink to an array of
// reference objects. Platforms are loose about field names, so the
// common aliases are all accepted:
//
//	{"s2_raster": [{"href": "...", "crs": "EPSG:32733",
//	                "time_start": "2018-06-06T09:30:00Z",
//	                "time_end": "2018-06-06T09:31:00Z",
//	                "tile": "33LVE", "bands": 4}]}
func ParseManifest(data []byte) (map[string]raster.Collection, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("manifest is not valid JSON")
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("manifest root is not an object")
	}

	out := make(map[string]raster.Collection)
	var parseErr error
	root.ForEach(func(sink, entries gjson.Result) bool {
		if !entries.IsArray() {
			parseErr = fmt.Errorf("sink %q is not an array", sink.String())
			return false
		}
		var coll raster.Collection
		for i, entry := range entries.Array() {
			ref, err := parseRef(entry)
			if err != nil {
				parseErr = fmt.Errorf("sink %q entry %d: %w", sink.String(), i, err)
				return false
			}
			coll = append(coll, ref)
		}
		out[sink.String()] = coll
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return out, nil
}

func parseRef(entry gjson.Result) (raster.Ref, error) {
	ref := raster.Ref{
		Locator: firstString(entry, "locator", "href", "url", "path"),
		Tile:    firstString(entry, "tile", "tile_id"),
		Bands:   int(entry.Get("bands").Int()),
		Width:   int(entry.Get("width").Int()),
		Height:  int(entry.Get("height").Int()),
	}

	crs, err := parseCRS(entry.Get("crs"))
	if err != nil {
		return raster.Ref{}, err
	}
	ref.CRS = crs

	start, err := parseTime(firstString(entry, "time_start", "start", "datetime"))
	if err != nil {
		return raster.Ref{}, fmt.Errorf("time_start: %w", err)
	}
	ref.TimeStart = start
	if s := firstString(entry, "time_end", "end"); s != "" {
		end, err := parseTime(s)
		if err != nil {
			return raster.Ref{}, fmt.Errorf("time_end: %w", err)
		}
		ref.TimeEnd = end
	} else {
		ref.TimeEnd = start
	}

	if err := ref.Validate(); err != nil {
		return raster.Ref{}, err
	}
	return ref, nil
}

// parseCRS accepts an EPSG code as a bare number ("32733", 32733) or
// authority-prefixed string ("EPSG:32733").
func parseCRS(v gjson.Result) (int, error) {
	switch v.Type {
	case gjson.Number:
		return int(v.Int()), nil
	case gjson.String:
		s := strings.TrimSpace(v.String())
		s = strings.TrimPrefix(strings.ToUpper(s), "EPSG:")
		code, err := strconv.Atoi(s)
		if err != nil {
			return 0, fmt.Errorf("unparseable CRS %q", v.String())
		}
		return code, nil
	default:
		return 0, fmt.Errorf("missing CRS")
	}
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("missing timestamp")
	}
	return time.Parse(time.RFC3339, s)
}

func firstString(entry gjson.Result, keys ...string) string {
	for _, k := range keys {
		if v := entry.Get(k); v.Exists() {
			return v.String()
		}
	}
	return ""
}
