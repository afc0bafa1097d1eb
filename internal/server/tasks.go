package server

import (
	"net/http"
	"time"

	"github.com/cornndawwg/the-icatalyst-crm/internal/models"
	"github.com/cornndawwg/the-icatalyst-crm/internal/store"
	"github.com/cornndawwg/the-icatalyst-crm/internal/telemetry"
)

type addTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"dueDate"`
	AssignedTo  *string    `json:"assignedTo"`
}

func (s *Server) handleAddTask(w http.ResponseWriter, r *http.Request) {
	tc, ok := requireTenant(w, r)
	if !ok {
		return
	}
	projectID, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var req addTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if req.Title == "" {
		respondError(w, newValidationError("title", "is required"))
		return
	}

	input := store.AddTaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
	}
	if req.Priority != "" {
		priority := models.TaskPriority(req.Priority)
		if !priority.Valid() {
			respondError(w, newValidationError("priority", "must be one of low, medium, high"))
			return
		}
		input.Priority = priority
	}
	if input.AssignedTo, err = parseOptionalUUID("assignedTo", req.AssignedTo); err != nil {
		respondError(w, err)
		return
	}

	task, err := s.tasks.AddTask(r.Context(), tc, projectID, input)
	if err != nil {
		respondError(w, err)
		return
	}
	telemetry.GetMetrics().TasksCreatedTotal.Add(r.Context(), 1)

	respondJSON(w, http.StatusCreated, task)
}

type updateTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	Priority    *string    `json:"priority"`
	DueDate     *time.Time `json:"dueDate"`
	AssignedTo  *string    `json:"assignedTo"`
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	tc, ok := requireTenant(w, r)
	if !ok {
		return
	}
	projectID, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	taskID, err := pathUUID(r, "taskId")
	if err != nil {
		respondError(w, err)
		return
	}

	var req updateTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	input := store.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
	}
	if req.Status != nil {
		status := models.TaskStatus(*req.Status)
		if !status.Valid() {
			respondError(w, newValidationError("status", "must be one of pending, in-progress, completed"))
			return
		}
		input.Status = &status
	}
	if req.Priority != nil {
		priority := models.TaskPriority(*req.Priority)
		if !priority.Valid() {
			respondError(w, newValidationError("priority", "must be one of low, medium, high"))
			return
		}
		input.Priority = &priority
	}
	if input.AssignedTo, err = parseOptionalUUID("assignedTo", req.AssignedTo); err != nil {
		respondError(w, err)
		return
	}

	task, err := s.tasks.UpdateTask(r.Context(), tc, projectID, taskID, input)
	if err != nil {
		respondError(w, err)
		return
	}
	if input.Status != nil && *input.Status == models.TaskStatusCompleted {
		telemetry.GetMetrics().TasksCompletedTotal.Add(r.Context(), 1)
	}

	respondJSON(w, http.StatusOK, task)
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	tc, ok := requireTenant(w, r)
	if !ok {
		return
	}
	projectID, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	tasks, err := s.tasks.ListTasks(r.Context(), tc, projectID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"items": tasks})
}
