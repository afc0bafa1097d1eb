package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/cornndawwg/the-icatalyst-crm/internal/models"
	"github.com/cornndawwg/the-icatalyst-crm/internal/tenant"
)

// ActivityStore implements store.ActivityStore over shared in-memory state.
type ActivityStore struct {
	*Store
}

// NewActivityStore creates an in-memory activity store.
func NewActivityStore(s *Store) *ActivityStore {
	return &ActivityStore{Store: s}
}

// List returns the most recent audit trail entries, newest first.
func (s *ActivityStore) List(_ context.Context, tc tenant.Context, projectID uuid.UUID, limit int) ([]*models.ProjectActivity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.projectInTenant(tc, projectID); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = 50
	}
	return s.recentActivities(projectID, limit), nil
}

// AddNote appends a manual note entry to the trail.
func (s *ActivityStore) AddNote(_ context.Context, tc tenant.Context, projectID uuid.UUID, title, description string) (*models.ProjectActivity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.projectInTenant(tc, projectID); err != nil {
		return nil, err
	}

	if title == "" {
		title = "Note added"
	}
	a := s.appendActivity(projectID, &models.ProjectActivity{
		Type:        models.ActivityNoteAdded,
		Title:       title,
		Description: description,
		CreatedBy:   tc.ActorID,
	})
	return cloneActivity(a), nil
}
