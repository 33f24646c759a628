// Package main is the single-binary entrypoint for Tyria Tracker.
package main

import "github.com/tyria-tracker/tyria/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}
