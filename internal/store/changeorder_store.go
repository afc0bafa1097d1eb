package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/cornndawwg/the-icatalyst-crm/internal/models"
	"github.com/cornndawwg/the-icatalyst-crm/internal/tenant"
)

// ProposeChangeOrderInput is the validated input for raising a change order.
// CostChange may carry either sign.
type ProposeChangeOrderInput struct {
	Title       string
	Description string
	Reason      models.ChangeOrderReason
	CostChange  float64
}

// ChangeOrderStore owns proposed budget/scope changes.
type ChangeOrderStore interface {
	// Propose inserts a pending change order and records an activity entry
	// describing the signed cost impact, atomically.
	Propose(ctx context.Context, tc tenant.Context, projectID uuid.UUID, input ProposeChangeOrderInput) (*models.ChangeOrder, error)

	// Resolve transitions a pending change order to approved or rejected.
	// Approval increments the project's actualCost by the order's costChange
	// in the same transaction. The pending-state check is a conditional
	// update, so two concurrent resolutions cannot both apply; the loser
	// gets ErrChangeOrderResolved.
	Resolve(ctx context.Context, tc tenant.Context, projectID, changeOrderID uuid.UUID, status models.ChangeOrderStatus) (*models.ChangeOrder, error)

	// ListByProject returns all change orders for a project, newest first.
	ListByProject(ctx context.Context, tc tenant.Context, projectID uuid.UUID) ([]*models.ChangeOrder, error)
}
