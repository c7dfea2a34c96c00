package params

type Config struct {
	ReadConfig
	CloudConfig
	CatalogConfig
}

// ReadConfig tunes windowed raster reads.
type ReadConfig struct {
	// FillValue replaces nodata pixels when a read requests filling.
	FillValue float64

	// ProjectionCacheSize bounds the LRU of constructed CRS transformers.
	ProjectionCacheSize int
}

var DefaultReadConfig = ReadConfig{
	FillValue:           0,
	ProjectionCacheSize: 32,
}

// CloudConfig tunes usable/unusable classification of acquisitions.
type CloudConfig struct {
	// Threshold is the cloud-cover ratio at and above which an
	// acquisition is unusable. Strict: ratio == Threshold is unusable.
	Threshold float64

	// MaskBand selects the band of the mask raster holding the
	// cloud/shadow indicator.
	MaskBand int
}

var DefaultCloudConfig = CloudConfig{
	Threshold: 0.1,
	MaskBand:  0,
}

// CatalogConfig locates the scene catalog database.
type CatalogConfig struct {
	DBName string
}

var DefaultCatalogConfig = CatalogConfig{
	DBName: "catalog.db",
}
