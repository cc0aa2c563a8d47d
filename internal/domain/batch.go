package domain

import "fmt"

// BatchStatus is the state of a batch run.
type BatchStatus string

// Possible batch status values
const (
	BatchStatusIdle     BatchStatus = "idle"
	BatchStatusRunning  BatchStatus = "running"
	BatchStatusStopping BatchStatus = "stopping"
	BatchStatusDone     BatchStatus = "done"
)

// BatchOutcome classifies a finished run for its summary message.
type BatchOutcome string

// Possible batch outcomes
const (
	BatchOutcomeNone      BatchOutcome = ""
	BatchOutcomeSucceeded BatchOutcome = "succeeded"
	BatchOutcomeStopped   BatchOutcome = "stopped"
	BatchOutcomeMixed     BatchOutcome = "mixed"
)

// BatchProgress is an observation of a batch run. Completed always equals
// Succeeded + Failed.
type BatchProgress struct {
	RunID     string       `json:"run_id"`
	AssetType AssetType    `json:"asset_type"`
	Status    BatchStatus  `json:"status"`
	Total     int          `json:"total"`
	Completed int          `json:"completed"`
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
	Cancelled bool         `json:"cancelled"`
	Running   []string     `json:"running,omitempty"`
	Outcome   BatchOutcome `json:"outcome,omitempty"`
	Message   string       `json:"message,omitempty"`
}

// Summarize classifies a finished run and builds its user-facing message.
func Summarize(total, succeeded, failed int, stopped bool) (BatchOutcome, string) {
	switch {
	case stopped:
		return BatchOutcomeStopped, fmt.Sprintf(
			"generation stopped: %d of %d completed (%d succeeded, %d failed)",
			succeeded+failed, total, succeeded, failed)
	case failed == 0:
		return BatchOutcomeSucceeded, fmt.Sprintf("all %d items generated successfully", succeeded)
	default:
		return BatchOutcomeMixed, fmt.Sprintf(
			"generation finished: %d succeeded, %d failed", succeeded, failed)
	}
}
