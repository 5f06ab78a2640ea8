package pipeline

import "github.com/sarchlab/tomasim/insts"

// recover discards all speculative work after a mispredicted branch at the
// head of the reorder buffer and restarts issue at the branch target.
//
// Every other in-flight instruction is younger than the branch, so the whole
// RAT, every station and the whole ROB are dropped. The register file is
// left alone: it is only written at commit and holds no speculative values.
func (p *Pipeline) recover(branchROB int, branch *insts.Instruction) {
	s := &p.state

	for _, idx := range s.ROB.InFlight() {
		if idx == branchROB {
			continue
		}
		s.Timeline[s.ROB.Entries[idx].Record].State = StateFlushed
	}

	s.RAT.Clear()
	s.Stations.Clear()
	p.bus.Reset()
	s.ROB.Reset((branchROB + 1) % s.ROB.Capacity())
	s.Queue = p.refetch(p.redirectTarget(branch))
}

// redirectTarget returns the program index a taken branch continues from, or
// NoTarget if the branch target lies outside the program.
func (p *Pipeline) redirectTarget(branch *insts.Instruction) int {
	if branch.Target < 0 || branch.Target >= len(p.program) {
		return insts.NoTarget
	}
	return branch.Target
}

// refetch builds a fresh issue queue covering the program from target to its
// end. An invalid target yields an empty queue.
func (p *Pipeline) refetch(target int) []int {
	if target == insts.NoTarget {
		return nil
	}
	queue := make([]int, 0, len(p.program)-target)
	for i := target; i < len(p.program); i++ {
		queue = append(queue, i)
	}
	return queue
}
