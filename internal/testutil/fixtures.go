package testutil

import (
	"fmt"
	"time"

	"github.com/alexanderramin/vartui/internal/domain"
)

// SampleProjects returns a small catalogue in (client, name) order.
func SampleProjects() []domain.Project {
	return []domain.Project{
		{ID: 11, Name: "Backend", ClientName: "Acme"},
		{ID: 12, Name: "Mobile App", ClientName: "Acme"},
		{ID: 21, Name: "Design System", ClientName: "Globex"},
		{ID: 31, Name: "Website", ClientName: "Zeta"},
	}
}

// ManyProjects returns n projects named "Project 001".."Project n".
func ManyProjects(n int) []domain.Project {
	out := make([]domain.Project, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, domain.Project{ID: i, Name: fmt.Sprintf("Project %03d", i), ClientName: "Bulk"})
	}
	return out
}

// MustRange parses s and panics on error; for fixtures only.
func MustRange(s string) domain.DateRange {
	r, err := domain.ParseDateRange(s)
	if err != nil {
		panic(err)
	}
	return r
}

// PopulatedDays builds one Day per date in r, newest first, each holding
// perDay entries.
func PopulatedDays(r domain.DateRange, perDay int) []domain.Day {
	days := domain.BuildEmptyDays(r)
	for i := range days {
		for j := 0; j < perDay; j++ {
			days[i].Entries = append(days[i].Entries, domain.Entry{
				Project: "Backend",
				Hours:   0.5 * float64(j+1),
				Note:    fmt.Sprintf("task %d on %s", j+1, days[i].Date),
			})
		}
	}
	return days
}

// SubmissionOption customizes a test submission.
type SubmissionOption func(*domain.Submission)

func WithSubmissionError(msg string) SubmissionOption {
	return func(s *domain.Submission) { s.Error = msg }
}

func WithSubmittedAt(t time.Time) SubmissionOption {
	return func(s *domain.Submission) { s.SubmittedAt = t }
}

func WithSource(src domain.SubmissionSource) SubmissionOption {
	return func(s *domain.Submission) { s.Source = src }
}

func NewTestSubmission(description string, minutes int, opts ...SubmissionOption) *domain.Submission {
	s := &domain.Submission{
		Source:      domain.SourceTUI,
		Date:        "2024-03-01",
		ProjectID:   11,
		Description: description,
		Minutes:     minutes,
		IsBillable:  true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
