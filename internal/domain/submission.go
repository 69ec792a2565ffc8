package domain

import "time"

// SubmissionSource names the driver that issued a create call.
type SubmissionSource string

const (
	SourceTUI        SubmissionSource = "tui"
	SourceAutomation SubmissionSource = "automation"
	SourceCLI        SubmissionSource = "cli"
)

// Submission is one recorded attempt to create a remote time entry.
type Submission struct {
	ID          int64            `json:"id"`
	SubmittedAt time.Time        `json:"submitted_at"`
	Source      SubmissionSource `json:"source"`
	Date        string           `json:"date"`
	ProjectID   int              `json:"project_id"`
	Description string           `json:"description"`
	Minutes     int              `json:"minutes"`
	IsBillable  bool             `json:"is_billable"`
	// Error is empty when the remote call succeeded.
	Error string `json:"error,omitempty"`
}

// Succeeded reports whether the remote create call went through.
func (s Submission) Succeeded() bool {
	return s.Error == ""
}
