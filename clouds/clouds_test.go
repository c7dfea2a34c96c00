package clouds

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/geoclip/geoclip/raster"
)

func maskWindow(rows, cols int, vals []float64) *raster.Windowed {
	return &raster.Windowed{Data: vals, Bands: 1, Rows: rows, Cols: cols}
}

func TestRatio(t *testing.T) {
	t.Run("AllValid", testRatioAllValid)
	t.Run("AllCloud", testRatioAllCloud)
	t.Run("HalfCloud", testRatioHalfCloud)
	t.Run("OrderInvariant", testRatioOrderInvariant)
	t.Run("Empty", testRatioEmpty)
	t.Run("BadBand", testRatioBadBand)
}

func testRatioAllValid(t *testing.T) {
	r, err := Ratio(maskWindow(100, 100, make([]float64, 10000)), 0)
	if err != nil {
		t.Fatal(err)
	}
	if r != 0.0 {
		t.Errorf("all-valid mask ratio %v, want exactly 0.0", r)
	}
}

func testRatioAllCloud(t *testing.T) {
	vals := make([]float64, 10000)
	for i := range vals {
		vals[i] = 1
	}
	r, err := Ratio(maskWindow(100, 100, vals), 0)
	if err != nil {
		t.Fatal(err)
	}
	if r != 1.0 {
		t.Errorf("all-cloud mask ratio %v, want exactly 1.0", r)
	}
}

// 5000 cloudy pixels of a 100x100 window is a ratio of exactly 0.5,
// and unusable at a 0.1 threshold.
func testRatioHalfCloud(t *testing.T) {
	vals := make([]float64, 10000)
	for i := 0; i < 5000; i++ {
		vals[i] = 1
	}
	r, err := Ratio(maskWindow(100, 100, vals), 0)
	if err != nil {
		t.Fatal(err)
	}
	if r != 0.5 {
		t.Errorf("ratio %v, want 0.5", r)
	}
	if Classify(r, 0.1) != Unusable {
		t.Error("half-cloud scene classified usable at 0.1 threshold")
	}
}

func testRatioOrderInvariant(t *testing.T) {
	vals := make([]float64, 400)
	for i := 0; i < 100; i++ {
		vals[i] = 1
	}
	before, err := RatioValues(vals)
	if err != nil {
		t.Fatal(err)
	}
	rand.New(rand.NewSource(1)).Shuffle(len(vals), func(i, j int) {
		vals[i], vals[j] = vals[j], vals[i]
	})
	after, err := RatioValues(vals)
	if err != nil {
		t.Fatal(err)
	}
	if before != after {
		t.Errorf("ratio changed under permutation: %v != %v", before, after)
	}
}

func testRatioEmpty(t *testing.T) {
	_, err := Ratio(nil, 0)
	if !errors.Is(err, ErrEmptyMask) {
		t.Errorf("expected ErrEmptyMask, got %v", err)
	}
	_, err = RatioValues(nil)
	if !errors.Is(err, ErrEmptyMask) {
		t.Errorf("expected ErrEmptyMask, got %v", err)
	}
}

func testRatioBadBand(t *testing.T) {
	_, err := Ratio(maskWindow(2, 2, make([]float64, 4)), 3)
	if !errors.Is(err, ErrEmptyMask) {
		t.Errorf("expected ErrEmptyMask, got %v", err)
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		ratio, threshold float64
		want             Class
	}{
		{0.0, 0.1, Usable},
		{0.0999, 0.1, Usable},
		{0.1, 0.1, Unusable}, // boundary is strict
		{0.5, 0.1, Unusable},
		{1.0, 1.0, Unusable},
		{0.0, 0.0, Unusable}, // zero threshold admits nothing
	}
	for _, c := range cases {
		if got := Classify(c.ratio, c.threshold); got != c.want {
			t.Errorf("Classify(%v, %v) = %s, want %s", c.ratio, c.threshold, got, c.want)
		}
	}
}
