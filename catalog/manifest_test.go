package catalog

import (
	"testing"
	"time"
)

const sampleManifest = `{
  "s2_raster": [
    {"href": "s3://products/S2_33LVE_20180601.tif", "crs": "EPSG:32733",
     "time_start": "2018-06-01T09:30:00Z", "time_end": "2018-06-01T09:31:00Z",
     "tile": "33LVE", "bands": 4, "width": 11000, "height": 11000},
    {"href": "s3://products/S2_33LVE_20180606.tif", "crs": "EPSG:32733",
     "time_start": "2018-06-06T09:30:00Z", "time_end": "2018-06-06T09:31:00Z",
     "tile": "33LVE", "bands": 4}
  ],
  "mask": [
    {"locator": "s3://products/MASK_33LVE_20180601.tif", "crs": 32733,
     "time_start": "2018-06-01T09:30:00Z", "tile": "33LVE", "bands": 1}
  ]
}`

func TestParseManifest(t *testing.T) {
	colls, err := ParseManifest([]byte(sampleManifest))
	if err != nil {
		t.Fatal(err)
	}
	if len(colls) != 2 {
		t.Fatalf("got %d sinks", len(colls))
	}

	s2 := colls["s2_raster"]
	if len(s2) != 2 {
		t.Fatalf("s2_raster has %d refs", len(s2))
	}
	if s2[0].Locator != "s3://products/S2_33LVE_20180601.tif" {
		t.Errorf("locator: %s", s2[0].Locator)
	}
	if s2[0].CRS != 32733 {
		t.Errorf("crs: %d", s2[0].CRS)
	}
	if s2[0].Tile != "33LVE" || s2[0].Bands != 4 || s2[0].Width != 11000 {
		t.Errorf("metadata lost: %+v", s2[0])
	}
	want := time.Date(2018, 6, 1, 9, 30, 0, 0, time.UTC)
	if !s2[0].TimeStart.Equal(want) {
		t.Errorf("time_start: %v", s2[0].TimeStart)
	}

	mask := colls["mask"]
	if len(mask) != 1 {
		t.Fatalf("mask has %d refs", len(mask))
	}
	// Numeric CRS and "locator" alias both accepted; missing time_end
	// falls back to time_start.
	if mask[0].CRS != 32733 {
		t.Errorf("numeric crs: %d", mask[0].CRS)
	}
	if !mask[0].TimeEnd.Equal(mask[0].TimeStart) {
		t.Errorf("time_end fallback: %v", mask[0].TimeEnd)
	}
}

func TestParseManifestErrors(t *testing.T) {
	cases := map[string]string{
		"NotJSON":     `{"mask": [`,
		"RootArray":   `[]`,
		"SinkScalar":  `{"mask": 7}`,
		"MissingCRS":  `{"mask": [{"href": "x", "time_start": "2018-06-01T00:00:00Z"}]}`,
		"BadCRS":      `{"mask": [{"href": "x", "crs": "utm33s", "time_start": "2018-06-01T00:00:00Z"}]}`,
		"MissingTime": `{"mask": [{"href": "x", "crs": 32733}]}`,
		"BadTime":     `{"mask": [{"href": "x", "crs": 32733, "time_start": "June 1"}]}`,
		"NoLocator":   `{"mask": [{"crs": 32733, "time_start": "2018-06-01T00:00:00Z"}]}`,
	}
	for name, manifest := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseManifest([]byte(manifest)); err == nil {
				t.Error("expected error")
			}
		})
	}
}
