package domain

import "time"

// OutcomeStatus is the result of processing a single file.
type OutcomeStatus string

const (
	OutcomeSucceeded OutcomeStatus = "SUCCEEDED"
	OutcomeSkipped   OutcomeStatus = "SKIPPED"
	OutcomeFailed    OutcomeStatus = "FAILED"
)

// FileOutcome records what happened to one file during a run.
type FileOutcome struct {
	RunID        string        `json:"runId"`
	Filename     string        `json:"filename"`
	Status       OutcomeStatus `json:"status"`
	Records      int           `json:"records"`
	SkippedLines int           `json:"skippedLines"`
	Bytes        int64         `json:"bytes"`
	Err          error         `json:"-"`
	Duration     time.Duration `json:"duration"`
}

// ErrorMessage returns the failure cause, or an empty string.
func (o FileOutcome) ErrorMessage() string {
	if o.Err == nil {
		return ""
	}
	return o.Err.Error()
}

// RunSummary collects the per-file outcomes of one pipeline pass.
type RunSummary struct {
	RunID      string        `json:"runId"`
	Directory  string        `json:"directory"`
	StartedAt  time.Time     `json:"startedAt"`
	FinishedAt time.Time     `json:"finishedAt"`
	Outcomes   []FileOutcome `json:"outcomes"`
}

func (s RunSummary) count(status OutcomeStatus) int {
	n := 0
	for _, o := range s.Outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}

// Succeeded returns the number of files committed during the run.
func (s RunSummary) Succeeded() int { return s.count(OutcomeSucceeded) }

// Skipped returns the number of files skipped because they were already in the ledger.
func (s RunSummary) Skipped() int { return s.count(OutcomeSkipped) }

// Failed returns the number of files that failed.
func (s RunSummary) Failed() int { return s.count(OutcomeFailed) }
