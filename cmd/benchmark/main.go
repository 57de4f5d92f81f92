// Command benchmark runs the LC-2K microbenchmarks on every processor model.
//
// Usage:
//
//	go run ./cmd/benchmark [flags]
//
// Flags:
//
//	-csv       Output results in CSV format (default: table)
//	-json      Output results in JSON format
//	-core      Run only the core benchmarks
//	-no-cache  Skip the cache-backed pipeline
//
// Example:
//
//	# Compare cycle counts across models
//	go run ./cmd/benchmark
//
//	# Output JSON for automated comparison
//	go run ./cmd/benchmark -json > results.json
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tebeka/atexit"

	"github.com/sarchlab/lcsim/benchmarks"
)

func main() {
	csvOutput := flag.Bool("csv", false, "Output results in CSV format")
	jsonOutput := flag.Bool("json", false, "Output results in JSON format")
	coreOnly := flag.Bool("core", false, "Run only the core benchmarks")
	noCache := flag.Bool("no-cache", false, "Skip the cache-backed pipeline")
	flag.Parse()

	config := benchmarks.DefaultConfig()
	config.Output = os.Stdout
	if *noCache {
		models := config.Models[:0]
		for _, m := range config.Models {
			if !m.Config.UsesCache() {
				models = append(models, m)
			}
		}
		config.Models = models
	}

	harness := benchmarks.NewHarness(config)
	if *coreOnly {
		harness.AddBenchmarks(benchmarks.GetCoreBenchmarks())
	} else {
		harness.AddBenchmarks(benchmarks.GetMicrobenchmarks())
	}

	results := harness.RunAll()

	switch {
	case *jsonOutput:
		if err := harness.PrintJSON(results); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			atexit.Exit(1)
		}
	case *csvOutput:
		harness.PrintCSV(results)
	default:
		harness.PrintResults(results)
	}

	for _, r := range results {
		if !r.Matches {
			fmt.Fprintf(os.Stderr, "%s on %s: %s\n", r.Name, r.Model, r.Error)
			atexit.Exit(1)
		}
	}

	atexit.Exit(0)
}
