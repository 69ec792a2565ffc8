package repository

import (
	"context"

	"github.com/alexanderramin/vartui/internal/domain"
)

// ProjectCache keeps the last successful project list per API root so a
// failed fetch can fall back to it.
type ProjectCache interface {
	Replace(ctx context.Context, baseURL string, projects []domain.Project) error
	// List returns projects in their stored (client, name) order.
	List(ctx context.Context, baseURL string) ([]domain.Project, error)
}

// Journal records every remote create attempt with its outcome.
type Journal interface {
	Record(ctx context.Context, s *domain.Submission) error
	// Recent returns at most limit submissions, newest first.
	Recent(ctx context.Context, limit int) ([]domain.Submission, error)
}
