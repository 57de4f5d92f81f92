// Package main provides a profiling wrapper for lcsim to identify performance bottlenecks.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime/pprof"
	"time"

	"github.com/tebeka/atexit"

	"github.com/sarchlab/lcsim/config"
	"github.com/sarchlab/lcsim/driver"
	"github.com/sarchlab/lcsim/loader"
)

var (
	mode       = flag.String("mode", string(config.ModePipeline), "Processor model to profile")
	cpuProfile = flag.String("cpuprofile", "", "write cpu profile to file")
	memProfile = flag.String("memprofile", "", "write memory profile to file")
	maxCycles  = flag.Uint64("max-cycles", 10000000, "max cycles to simulate (0 = unlimited)")
	repeat     = flag.Int("repeat", 1, "number of times to run the program")
)

func main() {
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: profile [options] <machine-code file>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		atexit.Exit(1)
	}

	prog, err := loader.Load(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		atexit.Exit(1)
	}

	cfg := config.DefaultSimConfig()
	cfg.Mode = config.Mode(*mode)
	cfg.MaxCycles = *maxCycles

	d, err := driver.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		atexit.Exit(1)
	}

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating CPU profile: %v\n", err)
			atexit.Exit(1)
		}

		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Error starting CPU profile: %v\n", err)
			atexit.Exit(1)
		}
		atexit.Register(func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		})
	}

	var cycles, instructions uint64
	start := time.Now()
	for i := 0; i < *repeat; i++ {
		out, err := d.Run(prog)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			atexit.Exit(1)
		}
		cycles += out.Summary.Cycles
		instructions += out.Summary.Instructions
	}
	elapsed := time.Since(start)

	if *memProfile != "" {
		f, err := os.Create(*memProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating memory profile: %v\n", err)
			atexit.Exit(1)
		}
		if err := pprof.WriteHeapProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing memory profile: %v\n", err)
		}
		_ = f.Close()
	}

	fmt.Printf("\nProfiling Results:\n")
	fmt.Printf("Mode: %s\n", cfg.Mode)
	fmt.Printf("Runs: %d\n", *repeat)
	fmt.Printf("Cycles simulated: %d\n", cycles)
	fmt.Printf("Instructions executed: %d\n", instructions)
	fmt.Printf("Elapsed time: %v\n", elapsed)
	if instructions > 0 {
		fmt.Printf("Instructions/second: %.0f\n", float64(instructions)/elapsed.Seconds())
	}

	atexit.Exit(0)
}
