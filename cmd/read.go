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
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/montanaflynn/stats"
	"github.com/spf13/cobra"

	"github.com/geoclip/geoclip/geo/window"
	"github.com/geoclip/geoclip/params"
	"github.com/geoclip/geoclip/raster"
	"github.com/geoclip/geoclip/raster/gdal"
)

var (
	optReadWindow string
	optReadROI    string
	optReadCRS    int
	optReadFill   bool
)

// readCmd represents the read command
var readCmd = &cobra.Command{
	Use:   "read <locator>",
	Short: "Read one pixel window from a raster and summarize it",
	Long: `Read a window out of a raster without touching the rest of the file.

The window is given either explicitly in pixel coordinates, or as a
GeoJSON region of interest which is projected into the raster's own CRS
and covered by the minimal pixel rectangle.

Examples:

  geoclip read --window 6902:7002,2:102 /data/S2_33LVE_20180606.tif
  geoclip read --roi aoi.geojson --crs 4326 /vsicurl/https://host/big.tif
`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		setDefaultSlog(cmd, args)

		rd := raster.NewReader(gdal.NewSource(), gdal.Transformer, params.DefaultReadConfig)
		ref := raster.Ref{Locator: args[0], CRS: params.CRSGeographic}

		var out *raster.Windowed
		var err error
		switch {
		case optReadROI != "":
			g, lerr := loadROI(optReadROI)
			if lerr != nil {
				log.Fatalln(lerr)
			}
			out, err = rd.ReadGeometry(ref, g, optReadCRS, optReadFill)
		case optReadWindow != "":
			w, perr := parseWindow(optReadWindow)
			if perr != nil {
				log.Fatalln(perr)
			}
			out, err = rd.Read(ref, w, optReadFill)
		default:
			log.Fatalln("one of --window or --roi is required")
		}
		if err != nil {
			log.Fatalln(err)
		}

		bands, rows, cols := out.Shape()
		fmt.Printf("shape: %d band(s) x %d x %d (%s in memory)\n",
			bands, rows, cols, humanize.Bytes(uint64(len(out.Data)*8)))
		ox, oy := out.Transform.Origin()
		pw, ph := out.Transform.PixelSize()
		fmt.Printf("origin: (%.2f, %.2f) EPSG:%d, pixel %g x %g\n", ox, oy, out.CRS, pw, ph)
		if out.HasNoData {
			fmt.Printf("nodata: %g\n", out.NoData)
		}
		for b := 0; b < bands; b++ {
			data := stats.Float64Data(out.Band(b))
			min, _ := stats.Min(data)
			max, _ := stats.Max(data)
			mean, _ := stats.Mean(data)
			fmt.Printf("band %d: min=%g max=%g mean=%g\n", b, min, max, mean)
		}
	},
}

// parseWindow parses "rowStart:rowStop,colStart:colStop".
func parseWindow(s string) (window.Window, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return window.Window{}, fmt.Errorf("window %q: want rows,cols", s)
	}
	var vals [4]int
	for i, part := range parts {
		bounds := strings.Split(part, ":")
		if len(bounds) != 2 {
			return window.Window{}, fmt.Errorf("window %q: want start:stop", s)
		}
		for j, b := range bounds {
			v, err := strconv.Atoi(strings.TrimSpace(b))
			if err != nil {
				return window.Window{}, fmt.Errorf("window %q: %v", s, err)
			}
			vals[i*2+j] = v
		}
	}
	return window.Window{
		MinRow: vals[0], MaxRow: vals[1],
		MinCol: vals[2], MaxCol: vals[3],
	}, nil
}

func init() {
	rootCmd.AddCommand(readCmd)
	readCmd.Flags().StringVar(&optReadWindow, "window", "",
		"Explicit pixel window, rowStart:rowStop,colStart:colStop")
	readCmd.Flags().StringVar(&optReadROI, "roi", "",
		"GeoJSON file with the region of interest")
	readCmd.Flags().IntVar(&optReadCRS, "crs", params.CRSGeographic,
		"EPSG code the ROI coordinates are expressed in")
	readCmd.Flags().BoolVar(&optReadFill, "fill", false,
		"Replace nodata pixels with the fill value")
}
