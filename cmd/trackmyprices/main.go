// Package main is the entry point for the trackmyprices server.
package main

import (
	"os"

	"github.com/varcodes/trackmyprices/cmd/trackmyprices/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
