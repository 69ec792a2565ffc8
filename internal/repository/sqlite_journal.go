package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/vartui/internal/db"
	"github.com/alexanderramin/vartui/internal/domain"
)

// SQLiteJournal implements Journal on the local store.
type SQLiteJournal struct {
	db db.DBTX
}

func NewSQLiteJournal(database db.DBTX) *SQLiteJournal {
	return &SQLiteJournal{db: database}
}

// Record inserts s, filling SubmittedAt when zero and ID from the row.
func (r *SQLiteJournal) Record(ctx context.Context, s *domain.Submission) error {
	if s.SubmittedAt.IsZero() {
		s.SubmittedAt = nowUTC()
	}
	source := s.Source
	if source == "" {
		source = domain.SourceTUI
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO entry_journal (submitted_at, source, entry_date, project_id, description, minutes, is_billable, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.SubmittedAt.UTC().Format(time.RFC3339),
		string(source),
		s.Date,
		s.ProjectID,
		s.Description,
		s.Minutes,
		boolToInt(s.IsBillable),
		nullableString(s.Error),
	)
	if err != nil {
		return fmt.Errorf("recording submission: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading submission id: %w", err)
	}
	s.ID = id
	s.Source = source
	return nil
}

func (r *SQLiteJournal) Recent(ctx context.Context, limit int) ([]domain.Submission, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, submitted_at, source, entry_date, project_id, description, minutes, is_billable, error
		FROM entry_journal ORDER BY submitted_at DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing submissions: %w", err)
	}
	defer rows.Close()

	var out []domain.Submission
	for rows.Next() {
		var (
			s         domain.Submission
			submitted string
			source    string
			billable  int
			errText   sql.NullString
		)
		if err := rows.Scan(&s.ID, &submitted, &source, &s.Date, &s.ProjectID, &s.Description, &s.Minutes, &billable, &errText); err != nil {
			return nil, fmt.Errorf("scanning submission: %w", err)
		}
		s.SubmittedAt = parseTimestamp(submitted)
		s.Source = domain.SubmissionSource(source)
		s.IsBillable = intToBool(billable)
		s.Error = stringOrEmpty(errText)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating submissions: %w", err)
	}
	return out, nil
}
