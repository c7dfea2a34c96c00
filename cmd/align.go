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
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/geoclip/geoclip/catalog"
	"github.com/geoclip/geoclip/timeline"
)

var (
	optAlignFrom string
	optAlignTo   string
	optAlignAt   string
)

// alignCmd represents the align command
var alignCmd = &cobra.Command{
	Use:   "align",
	Short: "Join two collections by nearest acquisition time",
	Long: `Align matches acquisitions across asynchronously sampled streams.

Radar, optical, and synthesized-daily collections never share exact
timestamps; each entry of --from is paired with the nearest-in-time
entry of --to. With --at, a single reference timestamp is matched
against --to instead.

  geoclip align --from s1_raster --to s2_raster
  geoclip align --to s2_raster --at 2018-06-08T00:00:00Z
`,
	Run: func(cmd *cobra.Command, args []string) {
		setDefaultSlog(cmd, args)

		cat, err := catalog.Open(viper.GetString("catalog"))
		if err != nil {
			log.Fatalln(err)
		}
		defer cat.Close()

		to, err := cat.List(optAlignTo)
		if err != nil {
			log.Fatalln(err)
		}

		if optAlignAt != "" {
			at, err := time.Parse(time.RFC3339, optAlignAt)
			if err != nil {
				log.Fatalln(err)
			}
			match, err := timeline.Nearest(at, to)
			if err != nil {
				log.Fatalln(err)
			}
			fmt.Printf("%s  Δt=%v\n", match, match.TimeStart.Sub(at))
			return
		}

		from, err := cat.List(optAlignFrom)
		if err != nil {
			log.Fatalln(err)
		}
		pairs, err := timeline.NearestEach(from, to)
		if err != nil {
			log.Fatalln(err)
		}
		for _, p := range pairs {
			fmt.Printf("%s -> %s  Δt=%v\n", p.A, p.B, p.Delta())
		}
	},
}

func init() {
	rootCmd.AddCommand(alignCmd)
	alignCmd.Flags().StringVar(&optAlignFrom, "from", "",
		"Collection whose entries get matched")
	alignCmd.Flags().StringVar(&optAlignTo, "to", "",
		"Collection matched against")
	alignCmd.Flags().StringVar(&optAlignAt, "at", "",
		"Match a single RFC3339 timestamp instead of a whole collection")
	alignCmd.MarkFlagRequired("to")
}
