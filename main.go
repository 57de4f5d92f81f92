// Package main provides the entry point for lcsim.
// lcsim simulates the LC-2K instruction set on single-cycle, multicycle and
// pipelined processor models, the pipeline built on Akita.
//
// For the full CLI, use: go run ./cmd/lcsim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("lcsim - LC-2K Processor Simulator")
	fmt.Println("Built on Akita simulation framework")
	fmt.Println("")
	fmt.Println("Usage: lcsim [options] <machine-code file>")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -mode        single, multicycle, pipeline or cache")
	fmt.Println("  -trace       Print the machine state before every cycle")
	fmt.Println("  -config      Path to simulation configuration JSON file")
	fmt.Println("  -max-cycles  Stop after this many cycles")
	fmt.Println("  -block, -sets, -assoc  Cache geometry")
	fmt.Println("  -v           Verbose output")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/lcsim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/lcsim' instead.")
	}
}
