package models

import (
	"time"

	"github.com/google/uuid"
)

// TemplateTask is a task skeleton inside a project template. Skeletons
// expand into concrete tasks, in order, when a project is created from the
// template.
type TemplateTask struct {
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Priority    TaskPriority `json:"priority,omitempty"`
}

// ProjectTemplate is a reusable blueprint for seeding new projects: a
// default budget plus an ordered default task list. TimesUsed is a monotonic
// counter incremented once per successful project creation from the
// template.
type ProjectTemplate struct {
	TemplateID     uuid.UUID      `json:"id"`
	OrganizationID uuid.UUID      `json:"organizationId"`
	Name           string         `json:"name"`
	Category       string         `json:"category,omitempty"`
	ProjectType    ProjectType    `json:"projectType"`
	DefaultBudget  *float64       `json:"defaultBudget,omitempty"`
	DefaultTasks   []TemplateTask `json:"defaultTasks"`
	TimesUsed      int            `json:"timesUsed"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}
