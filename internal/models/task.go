package models

import (
	"time"

	"github.com/google/uuid"
)

// ProjectTask is an ordered unit of work within a project. SortOrder is
// assigned as max(existing)+1 at creation, so insertion order is preserved
// within a status group. CompletedAt is non-nil exactly when Status is
// completed; both are written in the same update.
type ProjectTask struct {
	TaskID      uuid.UUID    `json:"id"`
	ProjectID   uuid.UUID    `json:"projectId"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	DueDate     *time.Time   `json:"dueDate,omitempty"`
	AssignedTo  *uuid.UUID   `json:"assignedTo,omitempty"`
	SortOrder   int          `json:"sortOrder"`
	CompletedAt *time.Time   `json:"completedAt,omitempty"`
	CreatedBy   uuid.UUID    `json:"createdBy"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}
