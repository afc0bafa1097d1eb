package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/cornndawwg/the-icatalyst-crm/internal/models"
	"github.com/cornndawwg/the-icatalyst-crm/internal/tenant"
)

// ActivityStore reads the append-only audit trail and accepts manual notes.
// All other entry types are written by the component that performed the
// mutation, inside that mutation's transaction.
type ActivityStore interface {
	// List returns the most recent entries for a project, newest first.
	// A limit <= 0 defaults to 50.
	List(ctx context.Context, tc tenant.Context, projectID uuid.UUID, limit int) ([]*models.ProjectActivity, error)

	// AddNote appends a manual note-added entry. An empty title defaults to
	// "Note added".
	AddNote(ctx context.Context, tc tenant.Context, projectID uuid.UUID, title, description string) (*models.ProjectActivity, error)
}
