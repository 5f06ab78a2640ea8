package pipeline

// InstState is the lifecycle state of an issued instruction.
type InstState uint8

// Instruction lifecycle states.
const (
	StateIssued InstState = iota
	StateExecuting
	StateWriteResult
	StateCommitted
	StateFlushed
)

func (s InstState) String() string {
	switch s {
	case StateIssued:
		return "Issued"
	case StateExecuting:
		return "Executing"
	case StateWriteResult:
		return "WriteResult"
	case StateCommitted:
		return "Committed"
	case StateFlushed:
		return "Flushed"
	default:
		return "Unknown"
	}
}

// InstRecord tracks one dynamic instance of an instruction from issue until
// it commits or is flushed. Cycle fields are 0 until the event happens.
type InstRecord struct {
	Tag   uint64 // Issue sequence number
	Index int    // Program index
	State InstState

	IssueCycle     uint64
	ExecStartCycle uint64
	WriteCycle     uint64
	CommitCycle    uint64
}
