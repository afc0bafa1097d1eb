package models

import (
	"time"

	"github.com/google/uuid"
)

// ProjectActivity is one append-only audit trail entry. Entries are created
// in the same transaction as the mutation they record and are never updated
// or deleted.
type ProjectActivity struct {
	ActivityID  uuid.UUID    `json:"id"`
	ProjectID   uuid.UUID    `json:"projectId"`
	Type        ActivityType `json:"type"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	OldValue    string       `json:"oldValue,omitempty"`
	NewValue    string       `json:"newValue,omitempty"`
	CreatedBy   uuid.UUID    `json:"createdBy"`
	CreatedAt   time.Time    `json:"createdAt"`
}
