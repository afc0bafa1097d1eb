// Package memory provides an in-memory store implementation for local
// development and tests. One mutex guards all state; values are cloned on
// the way in and out so callers can never alias internal state.
package memory

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cornndawwg/the-icatalyst-crm/internal/models"
	"github.com/cornndawwg/the-icatalyst-crm/internal/store"
	"github.com/cornndawwg/the-icatalyst-crm/internal/tenant"
)

// Store holds all in-memory state behind a single mutex. The per-entity
// store types share one Store the way the PostgreSQL stores share one pool;
// the mutex stands in for the database transaction, so each operation's
// reads and writes happen under one critical section.
type Store struct {
	mu sync.Mutex

	customers  map[uuid.UUID]*models.Customer
	partners   map[uuid.UUID]*models.Partner
	properties map[uuid.UUID]*models.Property
	templates  map[uuid.UUID]*models.ProjectTemplate
	projects   map[uuid.UUID]*models.Project

	// Children keyed by project, in insertion order.
	projectPartners map[uuid.UUID][]*models.ProjectPartner
	projectMembers  map[uuid.UUID][]*models.ProjectMember
	tasks           map[uuid.UUID][]*models.ProjectTask
	changeOrders    map[uuid.UUID][]*models.ChangeOrder
	activities      map[uuid.UUID][]*models.ProjectActivity
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		customers:       make(map[uuid.UUID]*models.Customer),
		partners:        make(map[uuid.UUID]*models.Partner),
		properties:      make(map[uuid.UUID]*models.Property),
		templates:       make(map[uuid.UUID]*models.ProjectTemplate),
		projects:        make(map[uuid.UUID]*models.Project),
		projectPartners: make(map[uuid.UUID][]*models.ProjectPartner),
		projectMembers:  make(map[uuid.UUID][]*models.ProjectMember),
		tasks:           make(map[uuid.UUID][]*models.ProjectTask),
		changeOrders:    make(map[uuid.UUID][]*models.ChangeOrder),
		activities:      make(map[uuid.UUID][]*models.ProjectActivity),
	}
}

func newID() uuid.UUID {
	return uuid.Must(uuid.NewV7())
}

// projectInTenant returns the live project record if it belongs to the
// caller's organization. Callers must hold the mutex.
func (s *Store) projectInTenant(tc tenant.Context, projectID uuid.UUID) (*models.Project, error) {
	p, ok := s.projects[projectID]
	if !ok || p.OrganizationID != tc.OrgID {
		return nil, store.ErrProjectNotFound
	}
	return p, nil
}

// appendActivity records one audit trail entry. Callers must hold the mutex
// so the entry lands in the same critical section as the mutation.
func (s *Store) appendActivity(projectID uuid.UUID, a *models.ProjectActivity) *models.ProjectActivity {
	a.ActivityID = newID()
	a.ProjectID = projectID
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	s.activities[projectID] = append(s.activities[projectID], a)
	return a
}

func cloneProject(p *models.Project) *models.Project {
	c := *p
	return &c
}

func cloneTask(t *models.ProjectTask) *models.ProjectTask {
	c := *t
	return &c
}

func cloneChangeOrder(co *models.ChangeOrder) *models.ChangeOrder {
	c := *co
	return &c
}

func cloneActivity(a *models.ProjectActivity) *models.ProjectActivity {
	c := *a
	return &c
}

func cloneTemplate(t *models.ProjectTemplate) *models.ProjectTemplate {
	c := *t
	c.DefaultTasks = append([]models.TemplateTask(nil), t.DefaultTasks...)
	if c.DefaultTasks == nil {
		c.DefaultTasks = []models.TemplateTask{}
	}
	return &c
}

func cloneCustomer(c *models.Customer) *models.Customer {
	cp := *c
	return &cp
}

func clonePartner(p *models.Partner) *models.Partner {
	cp := *p
	return &cp
}

func (s *Store) customerSummary(customerID uuid.UUID) *models.CustomerSummary {
	c, ok := s.customers[customerID]
	if !ok {
		return nil
	}
	return &models.CustomerSummary{
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
	}
}

func (s *Store) partnerSummary(partnerID uuid.UUID) *models.PartnerSummary {
	p, ok := s.partners[partnerID]
	if !ok {
		return nil
	}
	return &models.PartnerSummary{
		CompanyName: p.CompanyName,
		ContactName: p.ContactName,
		Type:        p.Type,
	}
}

func (s *Store) propertySummary(propertyID uuid.UUID) *models.PropertySummary {
	p, ok := s.properties[propertyID]
	if !ok {
		return nil
	}
	return &models.PropertySummary{
		Name:    p.Name,
		Address: p.Address,
		City:    p.City,
		State:   p.State,
	}
}

// sortedTasks returns the project's tasks ordered by status rank then
// insertion order. Callers must hold the mutex.
func (s *Store) sortedTasks(projectID uuid.UUID) []*models.ProjectTask {
	tasks := make([]*models.ProjectTask, 0, len(s.tasks[projectID]))
	for _, t := range s.tasks[projectID] {
		tasks = append(tasks, cloneTask(t))
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].Status.Rank() != tasks[j].Status.Rank() {
			return tasks[i].Status.Rank() < tasks[j].Status.Rank()
		}
		return tasks[i].SortOrder < tasks[j].SortOrder
	})
	return tasks
}

// recentActivities returns up to limit entries, newest first. Entries are
// stored in append order. Callers must hold the mutex.
func (s *Store) recentActivities(projectID uuid.UUID, limit int) []*models.ProjectActivity {
	all := s.activities[projectID]
	out := make([]*models.ProjectActivity, 0, limit)
	for i := len(all) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, cloneActivity(all[i]))
	}
	return out
}

// formatCostImpact renders a signed currency delta, e.g. "+$500.00".
func formatCostImpact(costChange float64) string {
	if costChange < 0 {
		return fmt.Sprintf("-$%.2f", -costChange)
	}
	return fmt.Sprintf("+$%.2f", costChange)
}
