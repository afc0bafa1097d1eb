package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/cornndawwg/the-icatalyst-crm/internal/models"
	"github.com/cornndawwg/the-icatalyst-crm/internal/tenant"
)

// AddTaskInput is the validated input for appending a task to a project.
type AddTaskInput struct {
	Title       string
	Description string
	Priority    models.TaskPriority
	DueDate     *time.Time
	AssignedTo  *uuid.UUID
}

// UpdateTaskInput is a partial task update; nil fields are left untouched.
// Setting Status to completed stamps CompletedAt in the same write; setting
// it to any other value clears CompletedAt.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *models.TaskStatus
	Priority    *models.TaskPriority
	DueDate     *time.Time
	AssignedTo  *uuid.UUID
}

// TaskStore owns the ordered task list of a project.
type TaskStore interface {
	// AddTask appends a task at sortOrder max+1 (0 for an empty project)
	// and records a task-added activity entry atomically.
	AddTask(ctx context.Context, tc tenant.Context, projectID uuid.UUID, input AddTaskInput) (*models.ProjectTask, error)

	// UpdateTask applies a partial update. Task updates do not write
	// activity entries.
	UpdateTask(ctx context.Context, tc tenant.Context, projectID, taskID uuid.UUID, input UpdateTaskInput) (*models.ProjectTask, error)

	// ListTasks returns tasks ordered so pending work surfaces before
	// completed work; within a status group insertion order is preserved.
	ListTasks(ctx context.Context, tc tenant.Context, projectID uuid.UUID) ([]*models.ProjectTask, error)
}
