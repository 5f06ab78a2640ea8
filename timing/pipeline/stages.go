package pipeline

import (
	"github.com/sarchlab/tomasim/emu"
	"github.com/sarchlab/tomasim/insts"
)

// commitStage retires the head of the reorder buffer if its result is ready.
// A branch found to be mispredicted triggers recovery instead of retiring.
func (p *Pipeline) commitStage(events []Event) []Event {
	s := &p.state
	entry := s.ROB.HeadEntry()
	if entry == nil || !entry.Ready {
		return events
	}

	idx := s.ROB.Head
	rec := &s.Timeline[entry.Record]
	inst := &p.program[rec.Index]
	cycle := s.Stats.Cycles

	if inst.Op.IsBranch() {
		taken := emu.BranchTaken(entry.Value)
		if p.branchPredictor.Resolve(&s.Stats.Branch, entry.PredictedTaken, taken) {
			s.Stats.Flushes++
			rec.State = StateCommitted
			rec.CommitCycle = cycle
			events = append(events, Event{
				Cycle:  cycle,
				Kind:   EventFlush,
				Tag:    entry.Tag,
				Inst:   inst,
				ROB:    idx,
				Taken:  taken,
				Target: p.redirectTarget(inst),
			})
			p.recover(idx, inst)
			return events
		}
	} else {
		s.RAT.ClearIfMatch(entry.Rd, idx)
		s.Registers.WriteReg(entry.Rd, entry.Value)
	}

	events = append(events, Event{
		Cycle: cycle,
		Kind:  EventCommit,
		Tag:   entry.Tag,
		Inst:  inst,
		ROB:   idx,
		Value: entry.Value,
	})

	rec.State = StateCommitted
	rec.CommitCycle = cycle
	s.Stats.Instructions++
	s.ROB.Retire()

	return events
}

// writeResultStage computes the result of every finished station and
// broadcasts all of them on the common data bus.
func (p *Pipeline) writeResultStage(events []Event) []Event {
	s := &p.state
	cycle := s.Stats.Cycles

	for _, i := range s.Stations.Finished() {
		rs := &s.Stations.Stations[i]
		p.bus.Put(BusResult{Station: i, ROB: rs.Dest, Value: rs.Result()})
	}

	for _, r := range p.bus.Drain(&s.ROB, &s.Stations) {
		entry := &s.ROB.Entries[r.ROB]
		rec := &s.Timeline[entry.Record]
		rec.State = StateWriteResult
		rec.WriteCycle = cycle
		if rec.ExecStartCycle == 0 {
			rec.ExecStartCycle = cycle
		}

		events = append(events, Event{
			Cycle:   cycle,
			Kind:    EventWrite,
			Tag:     entry.Tag,
			Inst:    &p.program[rec.Index],
			ROB:     r.ROB,
			Station: s.Stations.Stations[r.Station].Name,
			Value:   r.Value,
		})
	}

	return events
}

// executeStage counts down the latency of every station whose operands are
// all available.
func (p *Pipeline) executeStage() {
	s := &p.state
	for i := range s.Stations.Stations {
		rs := &s.Stations.Stations[i]
		if !rs.Executing() {
			continue
		}

		rs.Latency--

		rec := &s.Timeline[s.ROB.Entries[rs.Dest].Record]
		if rec.State == StateIssued {
			rec.State = StateExecuting
			rec.ExecStartCycle = s.Stats.Cycles
		}
	}
}

// issueStage issues the instruction at the head of the queue, in order.
// Without a free ROB entry and a free station of the right class it stalls
// and the same instruction is retried next cycle.
func (p *Pipeline) issueStage(events []Event) []Event {
	s := &p.state
	if len(s.Queue) == 0 {
		return events
	}

	inst := &p.program[s.Queue[0]]
	cycle := s.Stats.Cycles

	reason := StallNone
	stationIdx, stationFree := s.Stations.FindFree(inst.Op)
	switch {
	case s.ROB.Full():
		reason = StallROBFull
		s.Stats.ROBStalls++
	case !stationFree:
		reason = StallNoStation
		s.Stats.StationStalls++
	}
	if reason != StallNone {
		s.Stats.Stalls++
		return append(events, Event{
			Cycle:  cycle,
			Kind:   EventStall,
			Inst:   inst,
			ROB:    -1,
			Reason: reason,
		})
	}

	s.Queue = s.Queue[1:]

	robIdx, _ := s.ROB.Allocate()
	tag := s.NextTag
	s.NextTag++

	s.Timeline = append(s.Timeline, InstRecord{
		Tag:        tag,
		Index:      inst.Index,
		State:      StateIssued,
		IssueCycle: cycle,
	})

	entry := &s.ROB.Entries[robIdx]
	entry.Tag = tag
	entry.Op = inst.Op
	entry.Rd = inst.Rd
	entry.Record = len(s.Timeline) - 1
	if inst.Op.IsBranch() {
		entry.PredictedTaken = p.branchPredictor.Predict(inst).Taken
	}

	rs := &s.Stations.Stations[stationIdx]
	rs.Busy = true
	rs.Op = inst.Op
	rs.Dest = robIdx
	rs.Latency = p.latencyTable.GetLatency(inst.Op)
	rs.J = p.readOperand(inst.Src1)
	rs.K = p.readOperand(inst.Src2)

	// Sources are read before the destination is renamed, so an instruction
	// that reads its own destination sees the previous producer.
	if inst.WritesReg() {
		s.RAT.Rename(inst.Rd, robIdx)
	}

	s.Stats.Issued++

	return append(events, Event{
		Cycle:   cycle,
		Kind:    EventIssue,
		Tag:     tag,
		Inst:    inst,
		ROB:     robIdx,
		Station: rs.Name,
	})
}

// readOperand resolves a source operand at issue time.
func (p *Pipeline) readOperand(op insts.Operand) SlotOperand {
	s := &p.state
	if !op.IsRegister() {
		return Ready(op.Imm)
	}

	if robIdx, ok := s.RAT.Lookup(op.Reg); ok {
		producer := &s.ROB.Entries[robIdx]
		if producer.Ready {
			return Ready(producer.Value)
		}
		return Pending(robIdx)
	}

	return Ready(s.Registers.ReadReg(op.Reg))
}
