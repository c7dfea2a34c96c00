package main

import "github.com/geoclip/geoclip/cmd"

func main() {
	cmd.Execute()
}
