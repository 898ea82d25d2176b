package main

import (
	"os"

	"github.com/convergelab/converge/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
