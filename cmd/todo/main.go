package main

import "github.com/Makepad-fr/tada/internal/cli"

func main() {
	// Flags, config and subcommands are all handled by the CLI runner.
	cli.Execute()
}
