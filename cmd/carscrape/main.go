// Package main is the entry point for the carscrape CLI.
package main

import (
	"os"

	"github.com/TWolbert/forzabot2/cmd/carscrape/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
