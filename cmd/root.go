/*
Copyright © 2024 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/geoclip/geoclip/params"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "geoclip",
	Short: "Windowed access and temporal alignment for big tiled rasters",
	Long: `geoclip reads small windows out of very large tiled rasters.

It projects a region of interest into a raster's native CRS, resolves the
minimal covering pixel window, and reads only that window - never the full
file. On top of that it classifies optical acquisitions by cloud cover and
lines up radar, optical, and synthesized-daily streams by nearest
acquisition time.

Raster locators are anything GDAL opens: local paths, /vsicurl/, /vsis3/.
`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

var optVerbose bool

func init() {
	registerGlobalFlags(rootCmd.PersistentFlags())
	viper.SetEnvPrefix("geoclip")
	viper.AutomaticEnv()
}

func registerGlobalFlags(flags *pflag.FlagSet) {
	flags.BoolVarP(&optVerbose, "verbose", "v", false,
		"Enable debug logging")
	flags.String("catalog", params.CatalogPath(),
		"Path to the scene catalog database")
	viper.BindPFlag("catalog", flags.Lookup("catalog"))
}

func setDefaultSlog(cmd *cobra.Command, args []string) {
	if optVerbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	} else {
		slog.SetLogLoggerLevel(slog.LevelInfo)
	}
}

// loadROI reads a region of interest from a GeoJSON file: a bare
// geometry, a feature, or the first feature of a collection.
func loadROI(path string) (orb.Geometry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if g, err := geojson.UnmarshalGeometry(data); err == nil {
		return g.Geometry(), nil
	}
	if f, err := geojson.UnmarshalFeature(data); err == nil {
		return f.Geometry, nil
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("%s: not a GeoJSON geometry, feature, or collection", path)
	}
	if len(fc.Features) == 0 {
		return nil, fmt.Errorf("%s: empty feature collection", path)
	}
	return fc.Features[0].Geometry, nil
}
