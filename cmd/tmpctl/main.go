// Package main is the entry point for the tmpctl CLI client.
package main

import (
	"github.com/varcodes/trackmyprices/cmd/tmpctl/cmd"
)

func main() {
	cmd.Execute()
}
