package main

import (
	"os"

	"github.com/trogers1052/trade-journal/cmd/journal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
