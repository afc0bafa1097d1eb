package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/cornndawwg/the-icatalyst-crm/internal/models"
	"github.com/cornndawwg/the-icatalyst-crm/internal/tenant"
)

// CreateProjectInput is the validated input for creating a project. When
// TemplateID is set, the template's default budget overrides EstimatedValue
// (only if the template defines one) and its default tasks are expanded
// with sortOrder 0..n-1, all inside the creation transaction.
type CreateProjectInput struct {
	Name                 string
	Description          string
	ProjectType          models.ProjectType
	CustomerID           uuid.UUID
	PropertyID           *uuid.UUID
	PrimaryPartnerID     *uuid.UUID
	StartDate            *time.Time
	ProjectedFinishDate  *time.Time
	MaterialDeliveryDate *time.Time
	EstimatedValue       *float64
	TemplateID           *uuid.UUID
}

// UpdateProjectInput is a partial update; nil fields are left untouched.
// Changes to Status and ProgressPercent are diffed against the current row
// and recorded in the activity log within the same transaction.
type UpdateProjectInput struct {
	Name                 *string
	Description          *string
	Status               *models.ProjectStatus
	ProjectType          *models.ProjectType
	StartDate            *time.Time
	EndDate              *time.Time
	ProjectedFinishDate  *time.Time
	MaterialDeliveryDate *time.Time
	EstimatedValue       *float64
	ActualCost           *float64
	MaterialsCost        *float64
	LaborCost            *float64
	HardwareCost         *float64
	ProgressPercent      *int
	PrimaryPartnerID     *uuid.UUID
}

// ProjectFilter narrows a project list. Search matches name and description
// case-insensitively.
type ProjectFilter struct {
	Status     models.ProjectStatus
	PartnerID  *uuid.UUID // matches primaryPartnerId
	CustomerID *uuid.UUID
	Search     string
	Page       int
	Limit      int
}

// ProjectPage is one page of joined project rows plus page metadata.
type ProjectPage struct {
	Items      []*models.ProjectListItem
	Pagination Pagination
}

// ProjectStore owns project records and their partner/member joins.
type ProjectStore interface {
	// Create inserts a project with status planning. Customer, property,
	// partner and template references must resolve inside the tenant.
	// Template task expansion, the "Project created" activity entry and the
	// template usage increment are atomic with the insert.
	Create(ctx context.Context, tc tenant.Context, input CreateProjectInput) (*models.Project, error)

	// Update applies a partial update and appends one activity entry per
	// changed status/progress field, atomically. Returns the updated
	// aggregate.
	Update(ctx context.Context, tc tenant.Context, projectID uuid.UUID, input UpdateProjectInput) (*models.ProjectDetail, error)

	// List returns a filtered, paginated page ordered by most recently
	// updated first.
	List(ctx context.Context, tc tenant.Context, filter ProjectFilter) (*ProjectPage, error)

	// GetByID returns the full aggregate: relations, last 50 activity
	// entries, ordered tasks and all change orders.
	GetByID(ctx context.Context, tc tenant.Context, projectID uuid.UUID) (*models.ProjectDetail, error)

	// Delete removes a project, detaching partner and member joins in the
	// same transaction.
	Delete(ctx context.Context, tc tenant.Context, projectID uuid.UUID) error

	// AddPartner attaches a collaborating partner and records a
	// member-added activity entry.
	AddPartner(ctx context.Context, tc tenant.Context, projectID, partnerID uuid.UUID, role string) (*models.ProjectPartner, error)

	// RemovePartner detaches a collaborating partner.
	RemovePartner(ctx context.Context, tc tenant.Context, projectID, partnerID uuid.UUID) error

	// AddMember assigns a user to the project and records a member-added
	// activity entry.
	AddMember(ctx context.Context, tc tenant.Context, projectID, userID uuid.UUID, role models.MemberRole, isLaborer bool) (*models.ProjectMember, error)
}
