package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/cornndawwg/the-icatalyst-crm/internal/models"
	"github.com/cornndawwg/the-icatalyst-crm/internal/store"
	"github.com/cornndawwg/the-icatalyst-crm/internal/tenant"
)

// TemplateStore implements store.TemplateStore over shared in-memory state.
type TemplateStore struct {
	*Store
}

// NewTemplateStore creates an in-memory template store.
func NewTemplateStore(s *Store) *TemplateStore {
	return &TemplateStore{Store: s}
}

// Create inserts a template with a zero usage counter.
func (s *TemplateStore) Create(_ context.Context, tc tenant.Context, input store.CreateTemplateInput) (*models.ProjectTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := append([]models.TemplateTask(nil), input.DefaultTasks...)
	if tasks == nil {
		tasks = []models.TemplateTask{}
	}

	now := time.Now()
	t := &models.ProjectTemplate{
		TemplateID:     newID(),
		OrganizationID: tc.OrgID,
		Name:           input.Name,
		Category:       input.Category,
		ProjectType:    input.ProjectType,
		DefaultBudget:  input.DefaultBudget,
		DefaultTasks:   tasks,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.templates[t.TemplateID] = t

	return cloneTemplate(t), nil
}

// Get returns a single template inside the tenant.
func (s *TemplateStore) Get(_ context.Context, tc tenant.Context, templateID uuid.UUID) (*models.ProjectTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.templates[templateID]
	if !ok || t.OrganizationID != tc.OrgID {
		return nil, store.ErrTemplateNotFound
	}
	return cloneTemplate(t), nil
}

// List returns the tenant's templates, most used first.
func (s *TemplateStore) List(_ context.Context, tc tenant.Context) ([]*models.ProjectTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	templates := []*models.ProjectTemplate{}
	for _, t := range s.templates {
		if t.OrganizationID == tc.OrgID {
			templates = append(templates, cloneTemplate(t))
		}
	}
	sort.Slice(templates, func(i, j int) bool {
		if templates[i].TimesUsed != templates[j].TimesUsed {
			return templates[i].TimesUsed > templates[j].TimesUsed
		}
		return templates[i].Name < templates[j].Name
	})
	return templates, nil
}
