// Package main provides the entry point for the axi2apb bridge model.
// It replays a scripted workload through the bridge and reports what the
// two clock domains did.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/axi2apb/periph"
	"github.com/sarchlab/axi2apb/timing/bridge"
	"github.com/sarchlab/axi2apb/timing/clock"
	"github.com/sarchlab/axi2apb/traffic"
)

var (
	configPath   = flag.String("config", "", "Path to bridge configuration JSON file")
	workloadPath = flag.String("workload", "", "Path to workload TOML file")
	saveConfig   = flag.String("save-config", "", "Write the effective configuration to this file and exit")
	maxCycles    = flag.Uint64("max-cycles", 100000, "Fast-domain cycle budget for the run")
	waitStates   = flag.Int("wait-states", 1, "Peripheral wait states per access")
	memSize      = flag.Uint64("mem-size", 64*1024, "Peripheral storage bytes per target")
	trace        = flag.Bool("trace", false, "Log per-cycle state transitions")
	verbose      = flag.Bool("v", false, "Verbose output")
)

func main() {
	flag.Parse()

	logger := newLogger(*trace)

	cfg := bridge.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = bridge.LoadConfig(*configPath)
		if err != nil {
			logger.Fatal().Err(err).Msg("cannot load configuration")
		}
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	if *saveConfig != "" {
		if err := cfg.SaveConfig(*saveConfig); err != nil {
			logger.Fatal().Err(err).Msg("cannot save configuration")
		}
		logger.Info().Str("path", *saveConfig).Msg("configuration written")
		return
	}

	wl := traffic.RoundTrip()
	if *workloadPath != "" {
		var err error
		wl, err = traffic.LoadWorkload(*workloadPath)
		if err != nil {
			logger.Fatal().Err(err).Msg("cannot load workload")
		}
	}

	logger.Info().
		Str("workload", wl.Name).
		Int("ops", len(wl.Ops)).
		Float64("fast_mhz", cfg.FastClockMHz).
		Float64("slow_mhz", cfg.SlowClockMHz).
		Msg("starting run")

	res, err := runSimulation(cfg, wl, *waitStates, *memSize, *maxCycles, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("run failed")
	}

	printReport(wl, res)

	switch {
	case !res.done:
		logger.Error().Uint64("max_cycles", *maxCycles).Msg("workload incomplete")
		os.Exit(1)
	case res.genStats.Mismatches > 0:
		logger.Error().Uint64("mismatches", res.genStats.Mismatches).Msg("read-back verification failed")
		os.Exit(1)
	}
	logger.Info().Msg("run complete")
}

// newLogger builds the console logger; trace enables debug-level output.
func newLogger(trace bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if trace {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).
		With().Timestamp().Logger()
}

// runResult carries the end-of-run state the report prints.
type runResult struct {
	stats    bridge.Statistics
	genStats traffic.Statistics
	results  []traffic.Result
	done     bool
	simTime  sim.VTimeInSec
}

// runSimulation builds the generator, peripherals, bridge, and clock
// domains, then runs until the fast-domain cycle budget is spent.
func runSimulation(
	cfg *bridge.Config,
	wl *traffic.Workload,
	waitStates int,
	memSize uint64,
	maxFastCycles uint64,
	logger zerolog.Logger,
) (*runResult, error) {
	gen := traffic.NewGenerator(wl, cfg.DataWidth)

	targets := make([]bridge.Peripheral, cfg.NumTargets)
	for i := range targets {
		rf, err := periph.NewRegisterFile(memSize, cfg.DataWidth,
			periph.WithWaitStates(waitStates))
		if err != nil {
			return nil, err
		}
		targets[i] = rf
	}

	b, err := bridge.New(*cfg, gen, targets, bridge.WithTraceLogger(logger))
	if err != nil {
		return nil, err
	}

	fastFreq := sim.Freq(cfg.FastClockMHz) * sim.MHz
	slowFreq := sim.Freq(cfg.SlowClockMHz) * sim.MHz

	sched := clock.NewScheduler()
	if _, err := sched.AddDomain("fast", fastFreq, b.TickFast); err != nil {
		return nil, err
	}
	if _, err := sched.AddDomain("slow", slowFreq, b.TickSlow); err != nil {
		return nil, err
	}

	horizon := sim.VTimeInSec(float64(maxFastCycles)) * fastFreq.Period()
	if err := sched.Run(horizon); err != nil {
		return nil, err
	}

	return &runResult{
		stats:    b.Statistics(),
		genStats: gen.Statistics(),
		results:  gen.Results(),
		done:     gen.Done(),
		simTime:  sched.Now(),
	}, nil
}

// printReport prints the end-of-run summary.
func printReport(wl *traffic.Workload, res *runResult) {
	s := res.stats
	g := res.genStats

	fmt.Printf("\n")
	fmt.Printf("Workload: %s\n", wl.Name)
	fmt.Printf("Simulated time: %.3f us\n", float64(res.simTime)*1e6)
	fmt.Printf("Fast cycles: %d\n", s.FastCycles)
	fmt.Printf("Slow cycles: %d\n", s.SlowCycles)
	fmt.Printf("Transactions: %d (%d writes, %d reads)\n",
		s.Transactions(), s.BackEnd.Writes, s.BackEnd.Reads)
	fmt.Printf("Slow cycles per transaction: %.2f\n", s.SlowCyclesPerTransaction())
	fmt.Printf("\n")
	fmt.Printf("Front end:\n")
	fmt.Printf("  Channel beats: AW=%d W=%d AR=%d B=%d R=%d\n",
		s.FrontEnd.AWBeats, s.FrontEnd.WBeats, s.FrontEnd.ARBeats,
		s.FrontEnd.BBeats, s.FrontEnd.RBeats)
	fmt.Printf("  Queue stalls:  write=%d read=%d cycles\n",
		s.FrontEnd.WriteStallCycles, s.FrontEnd.ReadStallCycles)
	fmt.Printf("Back end:\n")
	fmt.Printf("  Peripheral waits: %d cycles\n", s.BackEnd.WaitCycles)
	fmt.Printf("  Response waits:   %d entries, %d cycles\n",
		s.BackEnd.RspWaitEntries, s.BackEnd.RspWaitCycles)
	fmt.Printf("  Errors: slave=%d decode=%d\n",
		s.BackEnd.SlaveErrors, s.BackEnd.DecodeErrors)
	fmt.Printf("\n")
	fmt.Printf("Results: %d/%d ops done, %d errors, %d mismatches\n",
		g.WritesDone+g.ReadsDone, len(wl.Ops), g.Errors, g.Mismatches)

	if *verbose {
		for i, r := range res.results {
			op := wl.Ops[i]
			if !r.Done {
				fmt.Printf("  op %2d: %-5s addr=%#x  (no response)\n", i, op.Kind, op.Addr)
				continue
			}
			if op.IsWrite() {
				fmt.Printf("  op %2d: write addr=%#x data=%#x resp=%v\n",
					i, op.Addr, op.Data, r.Resp)
			} else {
				fmt.Printf("  op %2d: read  addr=%#x data=%#x resp=%v\n",
					i, op.Addr, r.Data, r.Resp)
			}
		}
	}
}
