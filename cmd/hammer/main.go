package main

// ============================================================================
// Responsibility:
// 1. CLI application entry point
// 2. Top-level error handling; all logic lives in internal/cli
// ============================================================================

import (
	"fmt"
	"os"

	"github.com/ChuLiYu/disk-hammer/internal/cli"
)

func main() {
	if err := cli.BuildCLI().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
