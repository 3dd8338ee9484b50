package cmd

import (
	"fmt"
	"io"
	"math/rand"
	"os"

	"github.com/rs/xid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/samabhi/MEDnetworksimulation/sim"
	"github.com/samabhi/MEDnetworksimulation/sim/clinic"
	"github.com/samabhi/MEDnetworksimulation/sim/trace"
)

var (
	// CLI flags for the run
	configPath   string // Scenario YAML file
	seed         int64  // Seed for all random streams
	logLevel     string // Log verbosity level
	traceLevel   string // Trace verbosity: none, events
	traceFile    string // Write the trace here instead of stdout
	printSummary bool   // Print the run summary after the trace

	// CLI flags overriding the scenario config
	horizon          float64 // Virtual seconds to simulate
	numClinics       int     // Number of clinics
	capacity         float64 // Medication units per clinic
	initialLevel     float64 // Stock at time zero
	thresholdPercent float64 // Restock threshold (% of capacity)
	counterCapacity  int     // Slots of the shared service counter
	purchaseAmount   []int   // min,max units per customer
	purchaseRate     float64 // Units bought per second
	interArrival     []int   // min,max seconds between customers
	deliveryNormal   []int   // min,max transit seconds, normal roads
	deliveryTraffic  []int   // min,max transit seconds, heavy traffic
	deliveryReroute  []int   // min,max transit seconds, rerouted
	inspection       string  // Cron spec of stock inspections
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "mednet",
	Short: "Discrete-event simulator for a clinic medication supply network",
}

// runCmd executes the simulation using the scenario config and CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the clinic network simulation",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
		if !trace.IsValidTraceLevel(traceLevel) {
			return fmt.Errorf("invalid trace level %q (valid: none, events)", traceLevel)
		}

		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}
		runSeed := pickSeed(cmd, cfg)

		log := logrus.WithField("run_id", xid.New().String())
		log.Infof("Starting simulation: clinics=%d capacity=%.1f threshold=%.1f%% horizon=%.1f seed=%d",
			cfg.Clinics, cfg.Capacity, cfg.ThresholdPercent, cfg.Horizon, runSeed)

		st := trace.NewSimulationTrace(trace.TraceConfig{Level: trace.TraceLevel(traceLevel)})
		rng := sim.NewPartitionedRNG(sim.NewSimulationKey(runSeed))
		network, err := clinic.NewNetwork(cfg, rng, st)
		if err != nil {
			return err
		}
		if err := network.Run(); err != nil {
			// A failed run prints no trace.
			log.Errorf("Simulation halted: %v", err)
			return err
		}

		summary := trace.Summarize(st)
		if traceFile != "" {
			if err := writeTraceFile(traceFile, st); err != nil {
				return err
			}
		} else if err := writeOutput(cmd.OutOrStdout(), st, nil); err != nil {
			return err
		}
		if printSummary {
			if err := writeOutput(cmd.OutOrStdout(), nil, summary); err != nil {
				return err
			}
		}

		log.Info("Simulation complete.")
		return nil
	},
}

// pickSeed returns the --seed flag if given, the config seed if set, and
// otherwise a fresh seed in [10, 50].
func pickSeed(cmd *cobra.Command, cfg clinic.Config) int64 {
	if cmd.Flags().Changed("seed") {
		return seed
	}
	if cfg.Seed != nil {
		return *cfg.Seed
	}
	s := int64(10 + rand.Intn(41))
	logrus.Warnf("No seed given, using %d", s)
	return s
}

func writeOutput(w io.Writer, st *trace.SimulationTrace, summary *trace.TraceSummary) error {
	if st != nil {
		if _, err := st.WriteTo(w); err != nil {
			return fmt.Errorf("writing trace: %w", err)
		}
	}
	if summary != nil {
		summary.Print(w)
	}
	return nil
}

// writeTraceFile writes the trace to path via a temporary file, which is
// removed if the process exits before the rename.
func writeTraceFile(path string, st *trace.SimulationTrace) error {
	tmp := path + ".partial"
	file, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("creating trace file: %w", err)
	}
	done := false
	atexit.Register(func() {
		if !done {
			_ = os.Remove(tmp)
		}
	})

	if _, err := st.WriteTo(file); err != nil {
		file.Close()
		return fmt.Errorf("writing trace file: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing trace file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("renaming trace file: %w", err)
	}
	done = true
	logrus.Infof("Trace written to %s (%d records)", path, len(st.Records))
	return nil
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		atexit.Exit(1)
	}
	atexit.Exit(0)
}

// registerRunFlags binds the run flags of cmd to the package-level flag
// variables.
func registerRunFlags(cmd *cobra.Command) {
	defaults := clinic.DefaultConfig()

	cmd.Flags().StringVar(&configPath, "config", "", "Scenario YAML file (defaults are used for absent fields)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Seed for all random streams; when not given, the config seed is used, else a random seed in [10, 50]")
	cmd.Flags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	cmd.Flags().StringVar(&traceLevel, "trace-level", string(trace.TraceLevelEvents), "Trace level (none, events)")
	cmd.Flags().StringVar(&traceFile, "trace-file", "", "Write the trace to this file instead of stdout")
	cmd.Flags().BoolVar(&printSummary, "summary", true, "Print a summary after the trace")

	// Scenario overrides
	cmd.Flags().Float64Var(&horizon, "horizon", defaults.Horizon, "Virtual seconds to simulate")
	cmd.Flags().IntVar(&numClinics, "clinics", defaults.Clinics, "Number of clinics")
	cmd.Flags().Float64Var(&capacity, "capacity", defaults.Capacity, "Medication units per clinic")
	cmd.Flags().Float64Var(&initialLevel, "initial-level", defaults.InitialLevel, "Stock of each clinic at time zero")
	cmd.Flags().Float64Var(&thresholdPercent, "threshold", defaults.ThresholdPercent, "Restock threshold, in percent of capacity")
	cmd.Flags().IntVar(&counterCapacity, "counter-capacity", defaults.CounterCapacity, "Customers served at the shared counter at once")
	cmd.Flags().IntSliceVar(&purchaseAmount, "purchase-amount", rangeFlag(defaults.PurchaseAmount), "min,max units bought per customer")
	cmd.Flags().Float64Var(&purchaseRate, "purchase-rate", defaults.PurchaseRate, "Units bought per second")
	cmd.Flags().IntSliceVar(&interArrival, "inter-arrival", rangeFlag(defaults.InterArrival), "min,max seconds between customers at a clinic")
	cmd.Flags().IntSliceVar(&deliveryNormal, "delivery-normal", rangeFlag(defaults.Delivery.Normal), "min,max delivery seconds on normal roads")
	cmd.Flags().IntSliceVar(&deliveryTraffic, "delivery-traffic", rangeFlag(defaults.Delivery.Traffic), "min,max delivery seconds in heavy traffic")
	cmd.Flags().IntSliceVar(&deliveryReroute, "delivery-reroute", rangeFlag(defaults.Delivery.Reroute), "min,max delivery seconds when rerouted")
	cmd.Flags().StringVar(&inspection, "inspection", defaults.Inspection, "Stock inspection schedule (cron spec, e.g. \"@every 500s\")")
}

// init sets up CLI flags and subcommands
func init() {
	registerRunFlags(runCmd)

	// Attach subcommands to `root`
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(defaultsCmd)
}
