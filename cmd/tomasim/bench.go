package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sarchlab/tomasim/benchmarks"
	"github.com/sarchlab/tomasim/timing/latency"
)

func newBenchCmd(o *options) *cobra.Command {
	var (
		csvOutput  bool
		jsonOutput bool
		quick      bool
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Run the microbenchmark suite",
		Long: `Bench runs a set of small programs that each stress one scheduling
feature (station pressure, ROB occupancy, RAW chains, branches) and reports
cycles, CPI, stalls and flushes. Every run is checked against the functional
emulator.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config := benchmarks.DefaultConfig()
			config.Output = cmd.OutOrStdout()
			config.ROBSize = o.robSize
			config.AddStations = o.addStations
			config.MulStations = o.mulStations

			if o.configPath != "" {
				timing, err := latency.LoadConfig(o.configPath)
				if err != nil {
					return err
				}
				if err := timing.Validate(); err != nil {
					return err
				}
				config.Timing = timing
			}

			harness := benchmarks.NewHarness(config)
			if quick {
				harness.AddBenchmarks(benchmarks.GetCoreBenchmarks())
			} else {
				harness.AddBenchmarks(benchmarks.GetMicrobenchmarks())
			}

			results, err := harness.RunAll()
			if err != nil {
				return err
			}

			switch {
			case jsonOutput:
				if err := harness.PrintJSON(results); err != nil {
					return err
				}
			case csvOutput:
				harness.PrintCSV(results)
			default:
				harness.PrintResults(results)
			}

			for _, r := range results {
				if !r.Valid {
					return fmt.Errorf("benchmark %s does not match the emulator", r.Name)
				}
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&csvOutput, "csv", false, "output results in CSV format")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output results in JSON format")
	cmd.Flags().BoolVar(&quick, "quick", false, "run only the core benchmarks")

	return cmd
}
