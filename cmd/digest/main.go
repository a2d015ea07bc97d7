package main

import (
	"os"

	"PriceDigest/cmd/digest/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
