package main

import (
	"os"

	"github.com/dhkim/tessa/cmd/tessa/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
