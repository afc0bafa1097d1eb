package models

import (
	"time"

	"github.com/google/uuid"
)

// ChangeOrder is a proposed budget/scope change on a project. CostChange is
// a signed currency delta; approval applies it to the project's actualCost.
// Once resolved the record is immutable apart from the resolution fields.
type ChangeOrder struct {
	ChangeOrderID uuid.UUID         `json:"id"`
	ProjectID     uuid.UUID         `json:"projectId"`
	Title         string            `json:"title"`
	Description   string            `json:"description"`
	Reason        ChangeOrderReason `json:"reason"`
	CostChange    float64           `json:"costChange"`
	Status        ChangeOrderStatus `json:"status"`
	ApprovedBy    *uuid.UUID        `json:"approvedBy,omitempty"`
	ApprovedAt    *time.Time        `json:"approvedAt,omitempty"`
	CreatedBy     uuid.UUID         `json:"createdBy"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}
