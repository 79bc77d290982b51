package main

import (
	"context"
	"os"

	"github.com/asynkron/spatch/internal/cli"
)

// main splits multi-file diffs into per-file patches.
func main() {
	os.Exit(cli.Run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}
