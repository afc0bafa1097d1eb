package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cornndawwg/the-icatalyst-crm/internal/models"
	"github.com/cornndawwg/the-icatalyst-crm/internal/store"
	"github.com/cornndawwg/the-icatalyst-crm/internal/tenant"
)

// ChangeOrderStore implements store.ChangeOrderStore over shared in-memory
// state.
type ChangeOrderStore struct {
	*Store
}

// NewChangeOrderStore creates an in-memory change order store.
func NewChangeOrderStore(s *Store) *ChangeOrderStore {
	return &ChangeOrderStore{Store: s}
}

// Propose inserts a pending change order and records the signed cost impact
// in the activity trail.
func (s *ChangeOrderStore) Propose(_ context.Context, tc tenant.Context, projectID uuid.UUID, input store.ProposeChangeOrderInput) (*models.ChangeOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.projectInTenant(tc, projectID); err != nil {
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
	s.changeOrders[projectID] = append(s.changeOrders[projectID], co)

	s.appendActivity(projectID, &models.ProjectActivity{
		Type:        models.ActivityChangeOrder,
		Title:       fmt.Sprintf("Change order created: %s", co.Title),
		Description: fmt.Sprintf("Cost impact: %s", formatCostImpact(co.CostChange)),
		CreatedBy:   tc.ActorID,
	})

	return cloneChangeOrder(co), nil
}

// Resolve transitions a pending change order to approved or rejected. The
// pending check and the actual-cost increment happen under the same lock,
// so a second resolution always observes the terminal state and fails.
func (s *ChangeOrderStore) Resolve(_ context.Context, tc tenant.Context, projectID, changeOrderID uuid.UUID, status models.ChangeOrderStatus) (*models.ChangeOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.projectInTenant(tc, projectID)
	if err != nil {
		return nil, err
	}

	var co *models.ChangeOrder
	for _, c := range s.changeOrders[projectID] {
		if c.ChangeOrderID == changeOrderID {
			co = c
			break
		}
	}
	if co == nil {
		return nil, store.ErrChangeOrderNotFound
	}
	if co.Status != models.ChangeOrderStatusPending {
		return nil, fmt.Errorf("%w: already %s", store.ErrChangeOrderResolved, co.Status)
	}

	now := time.Now()
	co.Status = status
	actor := tc.ActorID
	co.ApprovedBy = &actor
	co.ApprovedAt = &now
	co.UpdatedAt = now

	if status == models.ChangeOrderStatusApproved {
		p.ActualCost += co.CostChange
		p.UpdatedAt = now
	}

	verb := "approved"
	if status == models.ChangeOrderStatusRejected {
		verb = "rejected"
	}
	s.appendActivity(projectID, &models.ProjectActivity{
		Type:        models.ActivityChangeOrder,
		Title:       fmt.Sprintf("Change order %s: %s", verb, co.Title),
		Description: fmt.Sprintf("Cost impact: %s", formatCostImpact(co.CostChange)),
		OldValue:    string(models.ChangeOrderStatusPending),
		NewValue:    string(status),
		CreatedBy:   tc.ActorID,
	})

	return cloneChangeOrder(co), nil
}

// ListByProject returns all change orders for a project, newest first.
func (s *ChangeOrderStore) ListByProject(_ context.Context, tc tenant.Context, projectID uuid.UUID) ([]*models.ChangeOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.projectInTenant(tc, projectID); err != nil {
		return nil, err
	}

	all := s.changeOrders[projectID]
	orders := make([]*models.ChangeOrder, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		orders = append(orders, cloneChangeOrder(all[i]))
	}
	return orders, nil
}
