package params

import (
	"path/filepath"

	"github.com/mitchellh/go-homedir"
)

var DatadirRoot = func() string {
	home, err := homedir.Dir()
	if err != nil {
		return ".geoclip"
	}
	return filepath.Join(home, ".geoclip")
}()

// CatalogPath returns the default on-disk location of the scene catalog.
func CatalogPath() string {
	return filepath.Join(DatadirRoot, DefaultCatalogConfig.DBName)
}

// CRSGeographic is the CRS regions of interest arrive in: WGS84 lat/lon.
const CRSGeographic = 4326
