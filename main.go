package main

import (
	"os"

	"github.com/crukhq/supporter-engagement/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
