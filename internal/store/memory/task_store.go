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

// TaskStore implements store.TaskStore over shared in-memory state.
type TaskStore struct {
	*Store
}

// NewTaskStore creates an in-memory task store.
func NewTaskStore(s *Store) *TaskStore {
	return &TaskStore{Store: s}
}

// AddTask appends a task at sortOrder max+1 (0 for an empty project) and
// records a task-added activity entry in the same critical section.
func (s *TaskStore) AddTask(_ context.Context, tc tenant.Context, projectID uuid.UUID, input store.AddTaskInput) (*models.ProjectTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.projectInTenant(tc, projectID); err != nil {
		return nil, err
	}

	sortOrder := 0
	for _, t := range s.tasks[projectID] {
		if t.SortOrder >= sortOrder {
			sortOrder = t.SortOrder + 1
		}
	}

	priority := input.Priority
	if !priority.Valid() {
		priority = models.TaskPriorityMedium
	}

	now := time.Now()
	task := &models.ProjectTask{
		TaskID:      newID(),
		ProjectID:   projectID,
		Title:       input.Title,
		Description: input.Description,
		Status:      models.TaskStatusPending,
		Priority:    priority,
		DueDate:     input.DueDate,
		AssignedTo:  input.AssignedTo,
		SortOrder:   sortOrder,
		CreatedBy:   tc.ActorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.tasks[projectID] = append(s.tasks[projectID], task)

	s.appendActivity(projectID, &models.ProjectActivity{
		Type:      models.ActivityTaskAdded,
		Title:     fmt.Sprintf("Task created: %s", task.Title),
		CreatedBy: tc.ActorID,
	})

	return cloneTask(task), nil
}

// UpdateTask applies a partial update. A status change to completed stamps
// CompletedAt; a change away from completed clears it.
func (s *TaskStore) UpdateTask(_ context.Context, tc tenant.Context, projectID, taskID uuid.UUID, input store.UpdateTaskInput) (*models.ProjectTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.projectInTenant(tc, projectID); err != nil {
		return nil, store.ErrTaskNotFound
	}

	var task *models.ProjectTask
	for _, t := range s.tasks[projectID] {
		if t.TaskID == taskID {
			task = t
			break
		}
	}
	if task == nil {
		return nil, store.ErrTaskNotFound
	}

	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		task.Status = *input.Status
		if *input.Status == models.TaskStatusCompleted {
			now := time.Now()
			task.CompletedAt = &now
		} else {
			task.CompletedAt = nil
		}
	}
	if input.Priority != nil {
		task.Priority = *input.Priority
	}
	if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if input.AssignedTo != nil {
		task.AssignedTo = input.AssignedTo
	}
	task.UpdatedAt = time.Now()

	return cloneTask(task), nil
}

// ListTasks returns the project's tasks, pending work first, insertion
// order within each status group.
func (s *TaskStore) ListTasks(_ context.Context, tc tenant.Context, projectID uuid.UUID) ([]*models.ProjectTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.projectInTenant(tc, projectID); err != nil {
		return nil, err
	}

	return s.sortedTasks(projectID), nil
}
