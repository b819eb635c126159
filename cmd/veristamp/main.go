// Command veristamp is the proof-of-originality CLI.
package main

import (
	"os"

	"github.com/veristamp/veristamp/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
