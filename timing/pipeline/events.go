package pipeline

import (
	"fmt"

	"github.com/sarchlab/tomasim/insts"
)

// EventKind tags an entry in a cycle's event log.
type EventKind uint8

// Event kinds.
const (
	EventIssue EventKind = iota
	EventStall
	EventWrite
	EventCommit
	EventFlush
	EventDone
)

var eventKindNames = [...]string{
	EventIssue:  "ISSUE",
	EventStall:  "STALL",
	EventWrite:  "WRITE",
	EventCommit: "COMMIT",
	EventFlush:  "FLUSH",
	EventDone:   "DONE",
}

func (k EventKind) String() string {
	if int(k) < len(eventKindNames) {
		return eventKindNames[k]
	}
	return "UNKNOWN"
}

// StallReason says why the issue stage could not issue.
type StallReason uint8

// Stall reasons.
const (
	StallNone StallReason = iota
	StallROBFull
	StallNoStation
)

func (r StallReason) String() string {
	switch r {
	case StallROBFull:
		return "reorder buffer full"
	case StallNoStation:
		return "no free reservation station"
	default:
		return "none"
	}
}

// Event is one entry of the log returned by Step.
type Event struct {
	Cycle uint64
	Kind  EventKind

	// Tag and Inst identify the instruction, if any.
	Tag  uint64
	Inst *insts.Instruction

	ROB     int    // ROB index involved, -1 if none
	Station string // Station name for ISSUE and WRITE
	Value   int64  // Result for WRITE and COMMIT

	Taken  bool        // Branch outcome for COMMIT and FLUSH
	Target int         // Redirect target for FLUSH
	Reason StallReason // For STALL
}

// String renders the event as a tagged log line.
func (e Event) String() string {
	tag := "[" + e.Kind.String() + "]"

	switch e.Kind {
	case EventIssue:
		return fmt.Sprintf("%s #%d %s -> ROB %d (%s)", tag, e.Tag, e.Inst, e.ROB, e.Station)
	case EventStall:
		return fmt.Sprintf("%s %s: %s", tag, e.Inst, e.Reason)
	case EventWrite:
		return fmt.Sprintf("%s %s finished, value=%d -> ROB %d", tag, e.Station, e.Value, e.ROB)
	case EventCommit:
		if e.Inst.Op.IsBranch() {
			return fmt.Sprintf("%s #%d %s not taken (ROB %d)", tag, e.Tag, e.Inst, e.ROB)
		}
		return fmt.Sprintf("%s #%d %s: %s = %d (ROB %d)",
			tag, e.Tag, e.Inst, insts.RegName(e.Inst.Rd), e.Value, e.ROB)
	case EventFlush:
		if e.Target == insts.NoTarget {
			return fmt.Sprintf("%s #%d %s taken, invalid target, program ends (ROB %d)",
				tag, e.Tag, e.Inst, e.ROB)
		}
		return fmt.Sprintf("%s #%d %s taken, refetch from %d (ROB %d)",
			tag, e.Tag, e.Inst, e.Target, e.ROB)
	case EventDone:
		return tag + " simulation finished"
	default:
		return tag
	}
}
