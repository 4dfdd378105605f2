// Package main provides the entry point for axi2apb.
// axi2apb is a cycle-level model of an AXI-Lite to APB bridge built on Akita.
//
// For the full CLI, use: go run ./cmd/axi2apb
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("axi2apb - AXI-Lite to APB Bridge Model")
	fmt.Println("Built on Akita simulation framework")
	fmt.Println("")
	fmt.Println("Usage: axi2apb [options]")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -config      Path to bridge configuration JSON file")
	fmt.Println("  -workload    Path to workload TOML file")
	fmt.Println("  -wait-states Peripheral wait states per access")
	fmt.Println("  -trace       Log per-cycle state transitions")
	fmt.Println("  -v           Verbose output")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/axi2apb' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/axi2apb' instead.")
	}
}
