package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/sarchlab/tomasim/insts"
	"github.com/sarchlab/tomasim/timing/core"
	"github.com/sarchlab/tomasim/timing/pipeline"
)

func printEvents(w io.Writer, events []pipeline.Event) {
	for _, e := range events {
		fmt.Fprintln(w, e.String())
	}
}

// printReport prints the run summary and the non-zero registers.
func printReport(w io.Writer, name string, c *core.Core) {
	stats := c.Stats()

	fmt.Fprintf(w, "\n")
	if name != "" {
		fmt.Fprintf(w, "Program: %s\n", name)
	}
	fmt.Fprintf(w, "Finished: %v\n", c.IsFinished())
	fmt.Fprintf(w, "Total Cycles: %d\n", stats.Cycles)
	fmt.Fprintf(w, "Committed: %d\n", stats.Commits)
	fmt.Fprintf(w, "Issued: %d\n", stats.Issued)
	fmt.Fprintf(w, "Bubbles: %d\n", stats.Bubbles)
	fmt.Fprintf(w, "Flushes: %d\n", stats.Flushes)
	fmt.Fprintf(w, "IPC: %.3f\n", stats.IPC)
	fmt.Fprintf(w, "\n")

	printRegisters(w, c)
}

func printRegisters(w io.Writer, c *core.Core) {
	fmt.Fprintln(w, "Registers:")
	for i, v := range c.Registers() {
		if v != 0 {
			fmt.Fprintf(w, "  %s = %d\n", insts.RegName(uint8(i)), v)
		}
	}
}

// printState prints the reservation stations, the reorder buffer, the
// renamed registers and the register file.
func printState(w io.Writer, c *core.Core) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "STATION\tBUSY\tOP\tJ\tK\tDEST\tLEFT")
	for _, rs := range c.Stations() {
		if !rs.Busy {
			fmt.Fprintf(tw, "%s\tno\t\t\t\t\t\n", rs.Name)
			continue
		}
		fmt.Fprintf(tw, "%s\tyes\t%s\t%s\t%s\tROB%d\t%d\n",
			rs.Name, rs.Op, rs.J, rs.K, rs.Dest, rs.Latency)
	}
	fmt.Fprintln(tw)

	rob := c.ROB()
	program := c.Program()
	timeline := c.Timeline()
	fmt.Fprintln(tw, "ROB\tTAG\tINSTRUCTION\tVALUE\tREADY\t")
	for i, e := range rob.Entries {
		mark := ""
		if i == rob.Head {
			mark += "<head"
		}
		if i == rob.Tail {
			mark += "<tail"
		}
		if !e.Busy {
			fmt.Fprintf(tw, "%d\t\t\t\t\t%s\n", i, mark)
			continue
		}
		inst := &program[timeline[e.Record].Index]
		fmt.Fprintf(tw, "%d\t#%d\t%s\t%d\t%v\t%s\n", i, e.Tag, inst, e.Value, e.Ready, mark)
	}
	fmt.Fprintln(tw)

	rat := c.RAT()
	fmt.Fprintln(tw, "RAT\tROB")
	for reg, e := range rat {
		if e.Busy {
			fmt.Fprintf(tw, "%s\tROB%d\n", insts.RegName(uint8(reg)), e.ROB)
		}
	}

	_ = tw.Flush()

	fmt.Fprintln(w)
	printRegisters(w, c)
}

// printTimeline prints the cycle at which each issued instruction passed
// through each stage.
func printTimeline(w io.Writer, c *core.Core) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	program := c.Program()

	fmt.Fprintln(tw, "TAG\tINSTRUCTION\tISSUE\tEXEC\tWRITE\tCOMMIT\tSTATE")
	for _, rec := range c.Timeline() {
		fmt.Fprintf(tw, "#%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			rec.Tag, &program[rec.Index],
			cycleCell(rec.IssueCycle), cycleCell(rec.ExecStartCycle),
			cycleCell(rec.WriteCycle), cycleCell(rec.CommitCycle),
			rec.State)
	}

	_ = tw.Flush()
}

func cycleCell(cycle uint64) string {
	if cycle == 0 {
		return "-"
	}
	return fmt.Sprintf("%d", cycle)
}
