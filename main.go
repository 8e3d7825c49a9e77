package main

import (
	"os"

	"film-map-cli/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
