package server

import (
	"net/http"

	"github.com/cornndawwg/the-icatalyst-crm/internal/models"
	"github.com/cornndawwg/the-icatalyst-crm/internal/store"
)

type templateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
}

type createTemplateRequest struct {
	Name          string                `json:"name"`
	Category      string                `json:"category"`
	ProjectType   string                `json:"projectType"`
	DefaultBudget *float64              `json:"defaultBudget"`
	DefaultTasks  []templateTaskRequest `json:"defaultTasks"`
}

func (s *Server) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	tc, ok := requireTenant(w, r)
	if !ok {
		return
	}

	var req createTemplateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if req.Name == "" {
		respondError(w, newValidationError("name", "is required"))
		return
	}
	projectType := models.ProjectType(req.ProjectType)
	if !projectType.Valid() {
		respondError(w, newValidationError("projectType", "must be one of new-install, upgrade, service, design-only"))
		return
	}

	tasks := make([]models.TemplateTask, 0, len(req.DefaultTasks))
	for _, t := range req.DefaultTasks {
		if t.Title == "" {
			respondError(w, newValidationError("defaultTasks", "every task skeleton needs a title"))
			return
		}
		priority := models.TaskPriorityMedium
		if t.Priority != "" {
			priority = models.TaskPriority(t.Priority)
			if !priority.Valid() {
				respondError(w, newValidationError("defaultTasks", "unknown priority in task skeleton"))
				return
			}
		}
		tasks = append(tasks, models.TemplateTask{
			Title:       t.Title,
			Description: t.Description,
			Priority:    priority,
		})
	}

	tmpl, err := s.templates.Create(r.Context(), tc, store.CreateTemplateInput{
		Name:          req.Name,
		Category:      req.Category,
		ProjectType:   projectType,
		DefaultBudget: req.DefaultBudget,
		DefaultTasks:  tasks,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, tmpl)
}

func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	tc, ok := requireTenant(w, r)
	if !ok {
		return
	}
	templateID, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	tmpl, err := s.templates.Get(r.Context(), tc, templateID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, tmpl)
}

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	tc, ok := requireTenant(w, r)
	if !ok {
		return
	}

	templates, err := s.templates.List(r.Context(), tc)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"items": templates})
}
