package main

import (
	"os"

	"github.com/dockcheck/dockcheck/internal/adapters/inbound/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
