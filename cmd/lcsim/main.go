// Package main provides the entry point for lcsim, a simulator for the
// LC-2K instruction set.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/tebeka/atexit"

	"github.com/sarchlab/lcsim/config"
	"github.com/sarchlab/lcsim/driver"
	"github.com/sarchlab/lcsim/loader"
	"github.com/sarchlab/lcsim/report"
)

func main() {
	atexit.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	mode       string
	trace      bool
	configPath string
	maxCycles  uint64
	blockSize  int
	numSets    int
	assoc      int
	verbose    bool
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("lcsim", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts options
	fs.StringVar(&opts.mode, "mode", string(config.ModePipeline),
		"Processor model: single, multicycle, pipeline or cache")
	fs.BoolVar(&opts.trace, "trace", false, "Print the machine state before every cycle")
	fs.StringVar(&opts.configPath, "config", "", "Path to simulation configuration JSON file")
	fs.Uint64Var(&opts.maxCycles, "max-cycles", 0, "Stop after this many cycles (0 means no limit)")
	fs.IntVar(&opts.blockSize, "block", 0, "Cache block size in words")
	fs.IntVar(&opts.numSets, "sets", 0, "Number of cache sets")
	fs.IntVar(&opts.assoc, "assoc", 0, "Cache associativity")
	fs.BoolVar(&opts.verbose, "v", false, "Verbose output")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: lcsim [options] <machine-code file>\n")
		fmt.Fprintf(stderr, "\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 1
	}

	cfg, err := buildConfig(fs, opts)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	prog, err := loader.Load(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	driverOpts := []driver.Option{driver.WithLogger(logger)}
	if cfg.Trace {
		driverOpts = append(driverOpts, driver.WithTraceWriter(stdout))
	}

	d, err := driver.New(cfg, driverOpts...)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	out, err := d.Run(prog)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	fmt.Fprintln(stdout, "machine halted")
	if cfg.Mode == config.ModeSingle || cfg.Mode == config.ModeCache {
		fmt.Fprintf(stdout, "total of %d instructions executed\n", out.Summary.Instructions)
	} else {
		fmt.Fprintf(stdout, "total of %d cycles executed\n", out.Summary.Cycles)
	}
	fmt.Fprintln(stdout, "final state of machine:")

	if err := report.WriteState(stdout, out.Regs, out.Memory); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	if opts.verbose || out.Summary.Cache != nil {
		if err := report.WriteSummary(stdout, out.Summary); err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 1
		}
	}

	return 0
}

// buildConfig starts from the config file, or the defaults, and applies
// the flags that were set explicitly. Setting any cache dimension turns the
// cache on for the pipeline.
func buildConfig(fs *flag.FlagSet, opts options) (*config.SimConfig, error) {
	cfg := config.DefaultSimConfig()
	if opts.configPath != "" {
		var err error
		cfg, err = config.LoadConfig(opts.configPath)
		if err != nil {
			return nil, err
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "mode":
			cfg.Mode = config.Mode(opts.mode)
		case "trace":
			cfg.Trace = opts.trace
		case "max-cycles":
			cfg.MaxCycles = opts.maxCycles
		case "block":
			cfg.Cache.BlockSize = opts.blockSize
			cfg.Cache.Enabled = true
		case "sets":
			cfg.Cache.NumSets = opts.numSets
			cfg.Cache.Enabled = true
		case "assoc":
			cfg.Cache.BlocksPerSet = opts.assoc
			cfg.Cache.Enabled = true
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
