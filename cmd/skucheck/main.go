package main

import (
	"os"

	"skucheck/cmd/skucheck/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
