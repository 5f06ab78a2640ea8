package pipeline

import (
	"fmt"

	"github.com/sarchlab/tomasim/emu"
	"github.com/sarchlab/tomasim/insts"
)

// Default number of reservation stations per functional-unit class.
const (
	DefaultAddStations = 3
	DefaultMulStations = 2
)

// OperandState tells whether a station operand holds a value or waits for one.
type OperandState uint8

// Operand states.
const (
	OperandReady OperandState = iota
	OperandPending
)

// SlotOperand is a reservation station operand: either Ready(value) or
// Pending(rob), never both.
type SlotOperand struct {
	State OperandState
	Value int64 // Valid when Ready
	ROB   int   // Producer ROB index, valid when Pending
}

// Ready returns an operand that holds a value.
func Ready(value int64) SlotOperand {
	return SlotOperand{State: OperandReady, Value: value}
}

// Pending returns an operand waiting for the result of ROB entry rob.
func Pending(rob int) SlotOperand {
	return SlotOperand{State: OperandPending, ROB: rob}
}

// IsReady returns true if the operand holds a value.
func (o SlotOperand) IsReady() bool {
	return o.State == OperandReady
}

// String formats the operand the way the station tables show it.
func (o SlotOperand) String() string {
	if o.IsReady() {
		return fmt.Sprintf("%d", o.Value)
	}
	return fmt.Sprintf("ROB%d", o.ROB)
}

// ReservationStation holds one issued operation until its operands arrive
// and its latency elapses.
type ReservationStation struct {
	Name  string
	Class insts.UnitClass

	Busy    bool
	Op      insts.Op
	Dest    int    // ROB index receiving the result
	Latency uint64 // Remaining execution cycles

	J SlotOperand // First operand
	K SlotOperand // Second operand
}

// Clear frees the station. Name and Class are kept.
func (rs *ReservationStation) Clear() {
	*rs = ReservationStation{Name: rs.Name, Class: rs.Class}
}

// OperandsReady returns true if both operands hold values.
func (rs *ReservationStation) OperandsReady() bool {
	return rs.J.IsReady() && rs.K.IsReady()
}

// Executing returns true if the station is busy counting down its latency.
func (rs *ReservationStation) Executing() bool {
	return rs.Busy && rs.OperandsReady() && rs.Latency > 0
}

// Finished returns true if the station can write its result this cycle.
func (rs *ReservationStation) Finished() bool {
	return rs.Busy && rs.OperandsReady() && rs.Latency == 0
}

// Result computes the station's result from its operand values.
func (rs *ReservationStation) Result() int64 {
	return emu.Compute(rs.Op, rs.J.Value, rs.K.Value)
}

// StationPool holds the add-class stations followed by the mul-class
// stations.
type StationPool struct {
	Stations []ReservationStation
}

// NewStationPool creates addCount add-class and mulCount mul-class stations,
// named ADD_0.. and MUL_0...
func NewStationPool(addCount, mulCount int) StationPool {
	pool := StationPool{
		Stations: make([]ReservationStation, 0, addCount+mulCount),
	}
	for i := 0; i < addCount; i++ {
		pool.Stations = append(pool.Stations, ReservationStation{
			Name:  fmt.Sprintf("ADD_%d", i),
			Class: insts.UnitAdd,
		})
	}
	for i := 0; i < mulCount; i++ {
		pool.Stations = append(pool.Stations, ReservationStation{
			Name:  fmt.Sprintf("MUL_%d", i),
			Class: insts.UnitMul,
		})
	}
	return pool
}

// FindFree returns the index of the first free station able to execute op,
// or false if every such station is busy.
func (p *StationPool) FindFree(op insts.Op) (int, bool) {
	class := op.Class()
	for i := range p.Stations {
		rs := &p.Stations[i]
		if rs.Class == class && !rs.Busy {
			return i, true
		}
	}
	return 0, false
}

// Count returns the number of stations of a class.
func (p *StationPool) Count(class insts.UnitClass) int {
	n := 0
	for i := range p.Stations {
		if p.Stations[i].Class == class {
			n++
		}
	}
	return n
}

// Busy returns the number of busy stations.
func (p *StationPool) Busy() int {
	n := 0
	for i := range p.Stations {
		if p.Stations[i].Busy {
			n++
		}
	}
	return n
}

// Finished returns the indices of the stations ready to write a result.
func (p *StationPool) Finished() []int {
	var indices []int
	for i := range p.Stations {
		if p.Stations[i].Finished() {
			indices = append(indices, i)
		}
	}
	return indices
}

// Wakeup delivers a result to every busy station waiting on rob.
func (p *StationPool) Wakeup(rob int, value int64) {
	for i := range p.Stations {
		rs := &p.Stations[i]
		if !rs.Busy {
			continue
		}
		if !rs.J.IsReady() && rs.J.ROB == rob {
			rs.J = Ready(value)
		}
		if !rs.K.IsReady() && rs.K.ROB == rob {
			rs.K = Ready(value)
		}
	}
}

// Clear frees every station.
func (p *StationPool) Clear() {
	for i := range p.Stations {
		p.Stations[i].Clear()
	}
}

// Clone returns a deep copy of the pool.
func (p StationPool) Clone() StationPool {
	return StationPool{
		Stations: append([]ReservationStation(nil), p.Stations...),
	}
}
