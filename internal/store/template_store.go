package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/cornndawwg/the-icatalyst-crm/internal/models"
	"github.com/cornndawwg/the-icatalyst-crm/internal/tenant"
)

// CreateTemplateInput is the validated input for a reusable project
// template.
type CreateTemplateInput struct {
	Name          string
	Category      string
	ProjectType   models.ProjectType
	DefaultBudget *float64
	DefaultTasks  []models.TemplateTask
}

// TemplateStore owns reusable project templates. The project creation path
// reads a template and increments timesUsed inside its own transaction;
// TemplateStore itself never mutates usage counters.
type TemplateStore interface {
	Create(ctx context.Context, tc tenant.Context, input CreateTemplateInput) (*models.ProjectTemplate, error)
	Get(ctx context.Context, tc tenant.Context, templateID uuid.UUID) (*models.ProjectTemplate, error)
	List(ctx context.Context, tc tenant.Context) ([]*models.ProjectTemplate, error)
}
