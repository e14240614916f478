package main

import (
	"os"

	"github.com/abhisek/paesdx/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
