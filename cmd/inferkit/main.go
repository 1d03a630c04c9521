package main

import (
	"os"

	"github.com/inferkit/inferkit/internal/cli"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.SetVersion(version)
	os.Exit(cli.Main())
}
