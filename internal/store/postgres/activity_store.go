package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cornndawwg/the-icatalyst-crm/internal/models"
	"github.com/cornndawwg/the-icatalyst-crm/internal/tenant"
)

// ActivityStore implements store.ActivityStore using PostgreSQL.
type ActivityStore struct {
	pool *pgxpool.Pool
}

// NewActivityStore creates a new PostgreSQL-backed activity store.
func NewActivityStore(pool *pgxpool.Pool) *ActivityStore {
	return &ActivityStore{pool: pool}
}

const activitySelect = `
	SELECT activity_id, project_id, type, title, description, old_value,
	       new_value, created_by, created_at
	FROM project_activities`

func scanActivity(row pgx.Row) (*models.ProjectActivity, error) {
	a := &models.ProjectActivity{}
	err := row.Scan(
		&a.ActivityID,
		&a.ProjectID,
		&a.Type,
		&a.Title,
		&a.Description,
		&a.OldValue,
		&a.NewValue,
		&a.CreatedBy,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, mapPostgresError(err)
	}
	return a, nil
}

// List returns the most recent audit trail entries, newest first.
func (s *ActivityStore) List(ctx context.Context, tc tenant.Context, projectID uuid.UUID, limit int) ([]*models.ProjectActivity, error) {
	if err := requireProject(ctx, s.pool, tc, projectID); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = 50
	}

	rows, err := s.pool.Query(ctx, activitySelect+`
		WHERE project_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, projectID, limit)
	if err != nil {
		return nil, mapPostgresError(err)
	}
	defer rows.Close()

	activities := []*models.ProjectActivity{}
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPostgresError(err)
	}

	return activities, nil
}

// AddNote appends a manual note entry to the trail.
func (s *ActivityStore) AddNote(ctx context.Context, tc tenant.Context, projectID uuid.UUID, title, description string) (*models.ProjectActivity, error) {
	if err := requireProject(ctx, s.pool, tc, projectID); err != nil {
		return nil, err
	}

	if title == "" {
		title = "Note added"
	}

	a := &models.ProjectActivity{
		ProjectID:   projectID,
		Type:        models.ActivityNoteAdded,
		Title:       title,
		Description: description,
		CreatedBy:   tc.ActorID,
	}
	if err := insertActivity(ctx, s.pool, a); err != nil {
		return nil, err
	}

	return a, nil
}
