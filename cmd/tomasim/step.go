package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/sarchlab/tomasim/timing/core"
)

const stepHelp = `commands:
  s, step [n]   advance n cycles (default 1)
  u, undo [n]   go back n cycles (default 1)
  r, run [n]    run to completion, at most n cycles (default --max-cycles)
  p, show       print the stations, ROB, RAT and registers
  t, timeline   print the per-instruction timeline
  reset         restart the program
  dump          dump the full engine state
  q, quit       leave`

// defaultStepLimit bounds an interactive run. Every cycle adds an undo frame,
// so the limit is lower than for the run command.
const defaultStepLimit = 1000

func newStepCmd(o *options) *cobra.Command {
	var maxCycles uint64

	cmd := &cobra.Command{
		Use:   "step [program]",
		Short: "Step through a program interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, prog, err := o.newCore(cmd, args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Loaded %s: %d instructions\n", prog.Name, len(c.Program()))
			fmt.Fprintln(out, stepHelp)

			return repl(cmd.InOrStdin(), out, c, maxCycles)
		},
	}

	cmd.Flags().Uint64Var(&maxCycles, "max-cycles", defaultStepLimit,
		"cycles a run command may take before it stops (0 for no limit)")

	return cmd
}

// repl reads commands from in until quit or end of input. A run without a
// count stops after runLimit cycles.
func repl(in io.Reader, out io.Writer, c *core.Core, runLimit uint64) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprintf(out, "[cycle %d]> ", c.Cycle())
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		n := 0
		if len(fields) > 1 {
			v, err := strconv.Atoi(fields[1])
			if err != nil || v < 1 {
				fmt.Fprintf(out, "invalid count %q\n", fields[1])
				continue
			}
			n = v
		}

		switch strings.ToLower(fields[0]) {
		case "s", "step":
			for i := 0; i < max(n, 1); i++ {
				events := c.Step()
				fmt.Fprintf(out, "--- cycle %d ---\n", c.Cycle())
				printEvents(out, events)
				if c.IsFinished() {
					break
				}
			}
		case "u", "undo":
			for i := 0; i < max(n, 1); i++ {
				fmt.Fprintln(out, c.Undo())
			}
		case "r", "run":
			limit := runLimit
			if n > 0 {
				limit = uint64(n)
			}
			c.Run(limit)
			printReport(out, "", c)
			if !c.IsFinished() {
				fmt.Fprintf(out, "stopped at cycle %d without finishing\n", c.Cycle())
			}
		case "p", "show":
			printState(out, c)
		case "t", "timeline":
			printTimeline(out, c)
		case "reset":
			c.Reset()
			fmt.Fprintln(out, "reset")
		case "dump":
			spew.Fdump(out, c.Pipeline.Snapshot())
		case "h", "help":
			fmt.Fprintln(out, stepHelp)
		case "q", "quit", "exit":
			return nil
		default:
			fmt.Fprintf(out, "unknown command %q\n", fields[0])
		}
	}
}
