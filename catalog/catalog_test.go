package catalog

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/geoclip/geoclip/raster"
)

func testRef(locator, tile string, t time.Time) raster.Ref {
	return raster.Ref{
		Locator:   locator,
		CRS:       32733,
		Tile:      tile,
		TimeStart: t,
		TimeEnd:   t.Add(time.Minute),
	}
}

func openTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestCatalogRoundTrip(t *testing.T) {
	c := openTestCatalog(t)

	t1 := time.Date(2018, 6, 1, 9, 30, 0, 0, time.UTC)
	t2 := time.Date(2018, 6, 6, 9, 30, 0, 0, time.UTC)
	t3 := time.Date(2018, 6, 11, 9, 30, 0, 0, time.UTC)

	// Out of order on purpose; List must come back time-sorted.
	err := c.Put("s2_raster",
		testRef("mem://b", "33LVE", t2),
		testRef("mem://c", "33LVE", t3),
		testRef("mem://a", "33LVE", t1),
	)
	if err != nil {
		t.Fatal(err)
	}

	got, err := c.List("s2_raster")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"mem://a", "mem://b", "mem://c"}
	if len(got) != len(want) {
		t.Fatalf("got %d refs", len(got))
	}
	for i, w := range want {
		if got[i].Locator != w {
			t.Errorf("position %d: got %s, want %s", i, got[i].Locator, w)
		}
	}
	if got[0].CRS != 32733 || got[0].Tile != "33LVE" {
		t.Errorf("ref fields lost in round trip: %+v", got[0])
	}
}

func TestCatalogPutIdempotent(t *testing.T) {
	c := openTestCatalog(t)
	ref := testRef("mem://a", "33LVE", time.Date(2018, 6, 1, 9, 30, 0, 0, time.UTC))

	for i := 0; i < 3; i++ {
		if err := c.Put("mask", ref); err != nil {
			t.Fatal(err)
		}
	}
	got, err := c.List("mask")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Errorf("re-put duplicated entry: %d refs", len(got))
	}
}

func TestCatalogValidatesRefs(t *testing.T) {
	c := openTestCatalog(t)
	bad := raster.Ref{Locator: "", CRS: 32733}
	if err := c.Put("mask", bad); err == nil {
		t.Error("expected validation error for empty locator")
	}
	if err := c.Put("", testRef("mem://a", "t", time.Now())); err == nil {
		t.Error("expected error for empty collection name")
	}
}

func TestCatalogCollections(t *testing.T) {
	c := openTestCatalog(t)
	now := time.Now().UTC().Truncate(time.Second)
	if err := c.Put("s1_raster", testRef("mem://r", "t", now)); err != nil {
		t.Fatal(err)
	}
	if err := c.Put("mask", testRef("mem://m", "t", now)); err != nil {
		t.Fatal(err)
	}
	names, err := c.Collections()
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 2 {
		t.Errorf("got collections %v", names)
	}

	if _, err := c.List("nope"); err == nil {
		t.Error("expected error listing unknown collection")
	}
}

func TestSceneKeyStable(t *testing.T) {
	ref := testRef("mem://a", "33LVE", time.Date(2018, 6, 1, 9, 30, 0, 0, time.UTC))
	k1, err := SceneKey(ref)
	if err != nil {
		t.Fatal(err)
	}
	k2, err := SceneKey(ref)
	if err != nil {
		t.Fatal(err)
	}
	if k1 != k2 {
		t.Errorf("key not stable: %s != %s", k1, k2)
	}

	other := testRef("mem://b", "33LVE", ref.TimeStart)
	k3, err := SceneKey(other)
	if err != nil {
		t.Fatal(err)
	}
	if k3 == k1 {
		t.Error("distinct refs share a key")
	}
}
