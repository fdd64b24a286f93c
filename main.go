// Package main provides the entry point for pipesim.
// pipesim decodes LEGv8 assembly and models its flow through a 5-stage
// pipeline with load-use stalls.
//
// For the full CLI, use: go run ./cmd/pipesim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("pipesim - LEGv8 pipeline stall simulator")
	fmt.Println("")
	fmt.Println("Usage: pipesim [options] [file ...]")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -v         Log decoded instructions and hazards")
	fmt.Println("  -config    Path to JSON or YAML configuration file")
	fmt.Println("  -color     Colored output: auto, always or never")
	fmt.Println("  -chart     Print the stage chart")
	fmt.Println("  -cycles    Print the total cycle count")
	fmt.Println("  -annotate  Print each instruction next to its chart row")
	fmt.Println("  -json      Print a JSON report")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/pipesim' for the full CLI.")
	fmt.Println("Run 'go run ./cmd/benchmark' for the benchmark harness.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/pipesim' instead.")
	}
}
