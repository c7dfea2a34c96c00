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
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/geoclip/geoclip/catalog"
	"github.com/geoclip/geoclip/clouds"
	"github.com/geoclip/geoclip/common"
	"github.com/geoclip/geoclip/params"
	"github.com/geoclip/geoclip/raster"
	"github.com/geoclip/geoclip/raster/gdal"
)

var (
	optCloudsCollection string
	optCloudsROI        string
	optCloudsCRS        int
	optCloudsThreshold  float64
)

// cloudsCmd represents the clouds command
var cloudsCmd = &cobra.Command{
	Use:   "clouds",
	Short: "Classify a mask collection into usable and unusable acquisitions",
	Long: `Clouds reads the mask window covering the region of interest for
every acquisition in a catalog collection, computes the cloud-cover
ratio, and splits the collection at the threshold.

The ratio is the plain mean of the mask band: pixel-count based, not
area based.

  geoclip clouds --roi aoi.geojson --collection mask --threshold 0.1
`,
	Run: func(cmd *cobra.Command, args []string) {
		setDefaultSlog(cmd, args)

		g, err := loadROI(optCloudsROI)
		if err != nil {
			log.Fatalln(err)
		}

		cat, err := catalog.Open(viper.GetString("catalog"))
		if err != nil {
			log.Fatalln(err)
		}
		defer cat.Close()

		masks, err := cat.List(optCloudsCollection)
		if err != nil {
			log.Fatalln(err)
		}

		cfg := params.DefaultCloudConfig
		cfg.Threshold = optCloudsThreshold
		rd := raster.NewReader(gdal.NewSource(), gdal.Transformer, params.DefaultReadConfig)

		sel, err := clouds.SelectUsable(rd, masks, g, optCloudsCRS, cfg)
		if err != nil {
			log.Fatalln(err)
		}

		printSelection := func(label string, refs raster.Collection) {
			fmt.Printf("%s (%d):\n", label, len(refs))
			for _, ref := range refs {
				fmt.Printf("  %v  %s\n",
					common.DecimalToFixed(sel.Ratios[ref.Locator], 4), ref)
			}
		}
		printSelection("usable", sel.Usable)
		printSelection("unusable", sel.Unusable)
	},
}

func init() {
	rootCmd.AddCommand(cloudsCmd)
	cloudsCmd.Flags().StringVar(&optCloudsCollection, "collection", "mask",
		"Catalog collection holding the mask rasters")
	cloudsCmd.Flags().StringVar(&optCloudsROI, "roi", "",
		"GeoJSON file with the region of interest")
	cloudsCmd.Flags().IntVar(&optCloudsCRS, "crs", params.CRSGeographic,
		"EPSG code the ROI coordinates are expressed in")
	cloudsCmd.Flags().Float64Var(&optCloudsThreshold, "threshold", params.DefaultCloudConfig.Threshold,
		"Cloud-cover ratio at and above which an acquisition is unusable")
	cloudsCmd.MarkFlagRequired("roi")
}
