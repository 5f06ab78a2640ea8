package pipeline

import (
	"github.com/sarchlab/tomasim/emu"
)

// Snapshot is the complete mutable state of a pipeline. The loaded program
// and the undo history are not part of it.
type Snapshot struct {
	Registers emu.RegFile
	RAT       RAT
	ROB       ReorderBuffer
	Stations  StationPool

	// Queue holds the program indices still to be issued, in order.
	Queue []int

	Timeline []InstRecord
	NextTag  uint64
	Stats    Statistics
}

// Clone returns a deep copy of the snapshot.
func (s *Snapshot) Clone() Snapshot {
	c := *s
	c.ROB = s.ROB.Clone()
	c.Stations = s.Stations.Clone()
	c.Queue = append([]int(nil), s.Queue...)
	c.Timeline = append([]InstRecord(nil), s.Timeline...)
	return c
}

// history is a stack of snapshots taken before each cycle.
type history struct {
	frames []Snapshot
}

func (h *history) push(s *Snapshot) {
	h.frames = append(h.frames, s.Clone())
}

func (h *history) pop() (Snapshot, bool) {
	if len(h.frames) == 0 {
		return Snapshot{}, false
	}
	last := h.frames[len(h.frames)-1]
	h.frames[len(h.frames)-1] = Snapshot{}
	h.frames = h.frames[:len(h.frames)-1]
	return last, true
}

func (h *history) depth() int {
	return len(h.frames)
}

func (h *history) clear() {
	h.frames = nil
}
