package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/cornndawwg/the-icatalyst-crm/internal/models"
	"github.com/cornndawwg/the-icatalyst-crm/internal/store"
	"github.com/cornndawwg/the-icatalyst-crm/internal/tenant"
)

// ChangeOrderStore implements store.ChangeOrderStore using PostgreSQL.
type ChangeOrderStore struct {
	pool *pgxpool.Pool
}

// NewChangeOrderStore creates a new PostgreSQL-backed change order store.
func NewChangeOrderStore(pool *pgxpool.Pool) *ChangeOrderStore {
	return &ChangeOrderStore{pool: pool}
}

const changeOrderSelect = `
	SELECT change_order_id, project_id, title, description, reason,
	       cost_change, status, approved_by, approved_at, created_by,
	       created_at, updated_at
	FROM change_orders`

func scanChangeOrder(row pgx.Row) (*models.ChangeOrder, error) {
	co := &models.ChangeOrder{}
	err := row.Scan(
		&co.ChangeOrderID,
		&co.ProjectID,
		&co.Title,
		&co.Description,
		&co.Reason,
		&co.CostChange,
		&co.Status,
		&co.ApprovedBy,
		&co.ApprovedAt,
		&co.CreatedBy,
		&co.CreatedAt,
		&co.UpdatedAt,
	)
	if err != nil {
		return nil, mapPostgresError(err)
	}
	return co, nil
}

// Propose inserts a pending change order and records an activity entry
// describing the signed cost impact, in one transaction.
func (s *ChangeOrderStore) Propose(ctx context.Context, tc tenant.Context, projectID uuid.UUID, input store.ProposeChangeOrderInput) (*models.ChangeOrder, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback is safe to call after commit

	if err := requireProject(ctx, tx, tc, projectID); err != nil {
		return nil, err
	}

	now := time.Now()
	co := &models.ChangeOrder{
		ChangeOrderID: newID(),
		ProjectID:     projectID,
		Title:         input.Title,
		Description:   input.Description,
		Reason:        input.Reason,
		CostChange:    input.CostChange,
		Status:        models.ChangeOrderStatusPending,
		CreatedBy:     tc.ActorID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO change_orders (
			change_order_id, project_id, title, description, reason,
			cost_change, status, created_by, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		)
	`,
		co.ChangeOrderID,
		co.ProjectID,
		co.Title,
		co.Description,
		co.Reason,
		co.CostChange,
		co.Status,
		co.CreatedBy,
		co.CreatedAt,
		co.UpdatedAt,
	)
	if err != nil {
		return nil, mapPostgresError(err)
	}

	err = insertActivity(ctx, tx, &models.ProjectActivity{
		ProjectID:   projectID,
		Type:        models.ActivityChangeOrder,
		Title:       fmt.Sprintf("Change order created: %s", co.Title),
		Description: fmt.Sprintf("Cost impact: %s", formatCostImpact(co.CostChange)),
		CreatedBy:   tc.ActorID,
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit change order creation: %w", err)
	}

	log.Info().
		Str("change_order_id", co.ChangeOrderID.String()).
		Str("project_id", projectID.String()).
		Float64("cost_change", co.CostChange).
		Msg("Created change order")

	return co, nil
}

// Resolve transitions a pending change order to approved or rejected. The
// status predicate in the UPDATE is the concurrency guard: of two racing
// resolutions only one matches the pending row, the other gets zero rows
// and is reported as already resolved. Approval applies the cost change to
// the project's actual cost before commit.
func (s *ChangeOrderStore) Resolve(ctx context.Context, tc tenant.Context, projectID, changeOrderID uuid.UUID, status models.ChangeOrderStatus) (*models.ChangeOrder, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback is safe to call after commit

	co := &models.ChangeOrder{}
	err = tx.QueryRow(ctx, `
		UPDATE change_orders co
		SET status = $1, approved_by = $2, approved_at = now(), updated_at = now()
		FROM projects p
		WHERE co.change_order_id = $3
		  AND co.project_id = $4
		  AND p.project_id = co.project_id
		  AND p.organization_id = $5
		  AND co.status = 'pending'
		RETURNING co.change_order_id, co.project_id, co.title, co.description,
		          co.reason, co.cost_change, co.status, co.approved_by,
		          co.approved_at, co.created_by, co.created_at, co.updated_at
	`, status, tc.ActorID, changeOrderID, projectID, tc.OrgID).Scan(
		&co.ChangeOrderID,
		&co.ProjectID,
		&co.Title,
		&co.Description,
		&co.Reason,
		&co.CostChange,
		&co.Status,
		&co.ApprovedBy,
		&co.ApprovedAt,
		&co.CreatedBy,
		&co.CreatedAt,
		&co.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, s.classifyResolveMiss(ctx, tc, projectID, changeOrderID)
		}
		return nil, mapPostgresError(err)
	}

	if status == models.ChangeOrderStatusApproved {
		_, err = tx.Exec(ctx, `
			UPDATE projects
			SET actual_cost = actual_cost + $1, updated_at = now()
			WHERE project_id = $2 AND organization_id = $3
		`, co.CostChange, projectID, tc.OrgID)
		if err != nil {
			return nil, mapPostgresError(err)
		}
	}

	verb := "approved"
	if status == models.ChangeOrderStatusRejected {
		verb = "rejected"
	}
	err = insertActivity(ctx, tx, &models.ProjectActivity{
		ProjectID:   projectID,
		Type:        models.ActivityChangeOrder,
		Title:       fmt.Sprintf("Change order %s: %s", verb, co.Title),
		Description: fmt.Sprintf("Cost impact: %s", formatCostImpact(co.CostChange)),
		OldValue:    string(models.ChangeOrderStatusPending),
		NewValue:    string(status),
		CreatedBy:   tc.ActorID,
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit change order resolution: %w", err)
	}

	log.Info().
		Str("change_order_id", changeOrderID.String()).
		Str("project_id", projectID.String()).
		Str("status", string(status)).
		Msg("Resolved change order")

	return co, nil
}

// classifyResolveMiss distinguishes a change order that does not exist in
// the tenant from one that was already resolved.
func (s *ChangeOrderStore) classifyResolveMiss(ctx context.Context, tc tenant.Context, projectID, changeOrderID uuid.UUID) error {
	var current models.ChangeOrderStatus
	err := s.pool.QueryRow(ctx, `
		SELECT co.status
		FROM change_orders co
		JOIN projects p ON p.project_id = co.project_id
		WHERE co.change_order_id = $1
		  AND co.project_id = $2
		  AND p.organization_id = $3
	`, changeOrderID, projectID, tc.OrgID).Scan(&current)
	if err != nil {
		if err == pgx.ErrNoRows {
			return store.ErrChangeOrderNotFound
		}
		return mapPostgresError(err)
	}
	return fmt.Errorf("%w: already %s", store.ErrChangeOrderResolved, current)
}

// ListByProject returns all change orders for a project, newest first.
func (s *ChangeOrderStore) ListByProject(ctx context.Context, tc tenant.Context, projectID uuid.UUID) ([]*models.ChangeOrder, error) {
	if err := requireProject(ctx, s.pool, tc, projectID); err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, changeOrderSelect+`
		WHERE project_id = $1
		ORDER BY created_at DESC
	`, projectID)
	if err != nil {
		return nil, mapPostgresError(err)
	}
	defer rows.Close()

	orders := []*models.ChangeOrder{}
	for rows.Next() {
		co, err := scanChangeOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, co)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPostgresError(err)
	}

	return orders, nil
}
