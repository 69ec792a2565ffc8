package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/vartui/internal/db"
	"github.com/alexanderramin/vartui/internal/domain"
)

// SQLiteProjectCache implements ProjectCache on the local store.
type SQLiteProjectCache struct {
	db db.DBTX
	tx db.Transactor
}

func NewSQLiteProjectCache(database *sql.DB) *SQLiteProjectCache {
	return &SQLiteProjectCache{db: database, tx: db.NewSQLiteTransactor(database)}
}

// Replace swaps the cached list for baseURL in one transaction. Projects
// with a non-positive id are skipped.
func (r *SQLiteProjectCache) Replace(ctx context.Context, baseURL string, projects []domain.Project) error {
	fetchedAt := nowUTC().Format(time.RFC3339)
	return r.tx.InTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM project_cache WHERE base_url = ?`, baseURL); err != nil {
			return fmt.Errorf("clearing project cache: %w", err)
		}
		for i, p := range projects {
			if !p.Valid() {
				continue
			}
			_, err := tx.ExecContext(ctx,
				`INSERT OR REPLACE INTO project_cache (base_url, project_id, name, client_name, position, fetched_at)
				VALUES (?, ?, ?, ?, ?, ?)`,
				baseURL, p.ID, p.Name, p.ClientName, i, fetchedAt,
			)
			if err != nil {
				return fmt.Errorf("caching project %d: %w", p.ID, err)
			}
		}
		return nil
	})
}

func (r *SQLiteProjectCache) List(ctx context.Context, baseURL string) ([]domain.Project, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT project_id, name, client_name FROM project_cache WHERE base_url = ? ORDER BY position`,
		baseURL,
	)
	if err != nil {
		return nil, fmt.Errorf("listing cached projects: %w", err)
	}
	defer rows.Close()

	var projects []domain.Project
	for rows.Next() {
		var p domain.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.ClientName); err != nil {
			return nil, fmt.Errorf("scanning cached project: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating cached projects: %w", err)
	}
	return projects, nil
}
