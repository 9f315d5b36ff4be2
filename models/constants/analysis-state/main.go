package analysisState

import (
	"snpdna/api/models/constants"
	"strings"
)

const (
	Unknown constants.AnalysisState = "UNKNOWN"

	Pending    constants.AnalysisState = "PENDING"
	Processing constants.AnalysisState = "PROCESSING"
	Completed  constants.AnalysisState = "COMPLETED"
	Failed     constants.AnalysisState = "FAILED"
)

func CastToAnalysisState(text string) constants.AnalysisState {
	switch strings.ToLower(text) {
	case "pending":
		return Pending
	case "processing":
		return Processing
	case "completed":
		return Completed
	case "failed":
		return Failed
	default:
		return Unknown
	}
}

func IsKnownAnalysisState(text string) bool {
	// attempt to cast to analysisState and
	// return if unknown state
	return CastToAnalysisState(text) != Unknown
}

// Rank orders the execution states for monotonicity checks :
// PENDING < PROCESSING < {COMPLETED, FAILED}.
// Client-stamped labels outside the execution state machine rank as -1.
func Rank(state constants.AnalysisState) int {
	switch state {
	case Pending:
		return 0
	case Processing:
		return 1
	case Completed, Failed:
		return 2
	default:
		return -1
	}
}

func IsTerminal(state constants.AnalysisState) bool {
	return state == Completed || state == Failed
}
