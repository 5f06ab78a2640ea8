package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sarchlab/tomasim/timing/latency"
)

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config [path]",
		Short: "Write the default timing configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "timing.json"
			if len(args) > 0 {
				path = args[0]
			}

			if err := latency.DefaultTimingConfig().SaveConfig(path); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
}
