package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/cornndawwg/the-icatalyst-crm/internal/models"
	"github.com/cornndawwg/the-icatalyst-crm/internal/store"
	"github.com/cornndawwg/the-icatalyst-crm/internal/tenant"
)

// querier is the subset of pgx satisfied by both *pgxpool.Pool and pgx.Tx.
// Helpers that must run inside a caller's transaction take a querier, so an
// activity write can never be split from the mutation that produced it.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func newID() uuid.UUID {
	return uuid.Must(uuid.NewV7())
}

// requireProject verifies the project exists inside the tenant. A project
// in another organization is indistinguishable from an absent one.
func requireProject(ctx context.Context, q querier, tc tenant.Context, projectID uuid.UUID) error {
	var exists bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM projects WHERE project_id = $1 AND organization_id = $2
		)
	`, projectID, tc.OrgID).Scan(&exists)
	if err != nil {
		return mapPostgresError(err)
	}
	if !exists {
		return store.ErrProjectNotFound
	}
	return nil
}

// lockProject takes a row lock on the project inside the tenant, serializing
// writers that derive state from the project's children (task sortOrder).
func lockProject(ctx context.Context, q querier, tc tenant.Context, projectID uuid.UUID) error {
	var id uuid.UUID
	err := q.QueryRow(ctx, `
		SELECT project_id FROM projects
		WHERE project_id = $1 AND organization_id = $2
		FOR UPDATE
	`, projectID, tc.OrgID).Scan(&id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return store.ErrProjectNotFound
		}
		return mapPostgresError(err)
	}
	return nil
}

// insertActivity appends one audit trail entry. It always takes the
// caller's querier so the entry commits or rolls back with the triggering
// mutation.
func insertActivity(ctx context.Context, q querier, a *models.ProjectActivity) error {
	if a.ActivityID == uuid.Nil {
		a.ActivityID = newID()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}

	_, err := q.Exec(ctx, `
		INSERT INTO project_activities (
			activity_id, project_id, type, title, description,
			old_value, new_value, created_by, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		)
	`,
		a.ActivityID,
		a.ProjectID,
		a.Type,
		a.Title,
		a.Description,
		a.OldValue,
		a.NewValue,
		a.CreatedBy,
		a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert activity: %w", mapPostgresError(err))
	}
	return nil
}

// formatCostImpact renders a signed currency delta the way the activity
// feed displays it, e.g. "+$500.00" or "-$750.00".
func formatCostImpact(costChange float64) string {
	if costChange < 0 {
		return fmt.Sprintf("-$%.2f", -costChange)
	}
	return fmt.Sprintf("+$%.2f", costChange)
}
