// Package catalog persists raster reference collections locally.
//
// The external platform lists its workflow outputs as named sinks of
// raster references. The catalog writes those listings into a small
// bbolt database (one bucket per sink) so later sessions can align and
// read without re-listing the platform. It stores references only, never
// pixel data; raster lifecycle stays with the platform.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/hashstructure/v2"
	bbolt "go.etcd.io/bbolt"

	"github.com/geoclip/geoclip/raster"
	"github.com/geoclip/geoclip/timeline"
)

type Catalog struct {
	db *bbolt.DB
}

// Open opens (creating as needed) the catalog database at path.
func Open(path string) (*Catalog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0770); err != nil {
		return nil, err
	}
	db, err := bbolt.Open(path, 0660, nil)
	if err != nil {
		return nil, err
	}
	return &Catalog{db: db}, nil
}

func (c *Catalog) Close() error {
	return c.db.Close()
}

// Put stores refs under the named collection. Re-putting an identical ref
// overwrites its own entry, so ingestion is idempotent.
func (c *Catalog) Put(collection string, refs ...raster.Ref) error {
	if collection == "" {
		return fmt.Errorf("empty collection name")
	}
	return c.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(collection))
		if err != nil {
			return err
		}
		for _, ref := range refs {
			if err := ref.Validate(); err != nil {
				return fmt.Errorf("ref %s: %w", ref.Locator, err)
			}
			key, err := SceneKey(ref)
			if err != nil {
				return err
			}
			v, err := json.Marshal(ref)
			if err != nil {
				return err
			}
			if err := bucket.Put([]byte(key), v); err != nil {
				return err
			}
		}
		return nil
	})
}

// List returns the named collection ordered by acquisition time.
func (c *Catalog) List(collection string) (raster.Collection, error) {
	var out raster.Collection
	err := c.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(collection))
		if bucket == nil {
			return fmt.Errorf("no such collection: %s", collection)
		}
		return bucket.ForEach(func(k, v []byte) error {
			var ref raster.Ref
			if err := json.Unmarshal(v, &ref); err != nil {
				return fmt.Errorf("corrupt entry %s: %w", k, err)
			}
			out = append(out, ref)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return timeline.SortByTime(out), nil
}

// Collections returns the stored collection names.
func (c *Catalog) Collections() ([]string, error) {
	var names []string
	err := c.db.View(func(tx *bbolt.Tx) error {
		return tx.ForEach(func(name []byte, _ *bbolt.Bucket) error {
			names = append(names, string(name))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}

// SceneKey derives a stable identity key for a ref: tile and acquisition
// start for human-scannable ordering, a structural hash for uniqueness.
func SceneKey(ref raster.Ref) (string, error) {
	hash, err := hashstructure.Hash(ref, hashstructure.FormatV2, nil)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s_%010d_%016x", ref.Tile, ref.TimeStart.Unix(), hash), nil
}
