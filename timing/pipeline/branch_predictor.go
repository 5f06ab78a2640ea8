package pipeline

import "github.com/sarchlab/tomasim/insts"

// BranchPredictorStats holds statistics for the branch predictor.
type BranchPredictorStats struct {
	// Predictions is the total number of branches resolved at commit.
	Predictions uint64
	// Correct is the number of correct predictions.
	Correct uint64
	// Mispredictions is the number of incorrect predictions.
	Mispredictions uint64
}

// Accuracy returns the prediction accuracy as a percentage.
func (s BranchPredictorStats) Accuracy() float64 {
	if s.Predictions == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Predictions) * 100
}

// MispredictionRate returns the misprediction rate as a percentage.
func (s BranchPredictorStats) MispredictionRate() float64 {
	if s.Predictions == 0 {
		return 0
	}
	return float64(s.Mispredictions) / float64(s.Predictions) * 100
}

// Prediction represents a branch prediction result.
type Prediction struct {
	// Taken indicates whether the branch is predicted to be taken.
	Taken bool
	// Target is the program index fetch continues from.
	Target int
}

// BranchPredictor implements the static predict-not-taken policy. Fetch
// always continues with the instruction after the branch; the branch is
// checked when it reaches the head of the reorder buffer.
type BranchPredictor struct{}

// NewBranchPredictor creates a predict-not-taken branch predictor.
func NewBranchPredictor() *BranchPredictor {
	return &BranchPredictor{}
}

// Predict makes a prediction for the branch at the given program index.
func (bp *BranchPredictor) Predict(inst *insts.Instruction) Prediction {
	return Prediction{Taken: false, Target: inst.Index + 1}
}

// Resolve compares a prediction against the actual outcome, updates the
// statistics and reports whether the prediction was wrong.
func (bp *BranchPredictor) Resolve(
	stats *BranchPredictorStats,
	predictedTaken, taken bool,
) (mispredicted bool) {
	stats.Predictions++
	if predictedTaken == taken {
		stats.Correct++
		return false
	}
	stats.Mispredictions++
	return true
}
