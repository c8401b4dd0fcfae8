package main

import (
	"os"

	"github.com/giansalex/cw-osmo-swap/cmd/bridgectl/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
