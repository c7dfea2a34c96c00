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
	"io"
	"log"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/geoclip/geoclip/catalog"
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest [manifest.json]",
	Short: "Ingest a platform result manifest into the scene catalog",
	Long: `Ingest reads a workflow result manifest - a JSON object mapping sink
names ("raster", "mask", "s1_raster", "s2_raster", ...) to arrays of
raster references - and stores each collection in the local catalog.

Reads stdin when no file is given:

  curl -s https://platform/runs/42/results | geoclip ingest
`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		setDefaultSlog(cmd, args)

		var data []byte
		var err error
		if len(args) == 1 {
			data, err = os.ReadFile(args[0])
		} else {
			data, err = io.ReadAll(os.Stdin)
		}
		if err != nil {
			log.Fatalln(err)
		}

		colls, err := catalog.ParseManifest(data)
		if err != nil {
			log.Fatalln(err)
		}

		cat, err := catalog.Open(viper.GetString("catalog"))
		if err != nil {
			log.Fatalln(err)
		}
		defer cat.Close()

		for name, refs := range colls {
			if err := cat.Put(name, refs...); err != nil {
				log.Fatalln(err)
			}
			fmt.Printf("%s: %s ref(s)\n", name, humanize.Comma(int64(len(refs))))
		}
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}
