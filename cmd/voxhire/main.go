package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/voxhire/voxhire-go/internal/cli"
)

// Set by goreleaser ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Local overrides for development; a missing .env is fine.
	_ = godotenv.Load()

	cli.SetVersionInfo(version, commit, date)
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
