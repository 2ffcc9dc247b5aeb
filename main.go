package main

import (
	"fmt"
	"os"

	"timetracker/internal/cli"
)

var version = "dev"

func main() {
	if err := cli.Execute(version); err != nil {
		fmt.Fprintf(os.Stderr, "tt command execution failed: %v\n", err)
		os.Exit(1)
	}
}
