package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cornndawwg/the-icatalyst-crm/internal/models"
	"github.com/cornndawwg/the-icatalyst-crm/internal/store"
	"github.com/cornndawwg/the-icatalyst-crm/internal/tenant"
)

// ProjectStore implements store.ProjectStore over shared in-memory state.
type ProjectStore struct {
	*Store
}

// NewProjectStore creates an in-memory project store.
func NewProjectStore(s *Store) *ProjectStore {
	return &ProjectStore{Store: s}
}

// Create inserts a project with status planning, expanding template tasks
// and bumping the template usage counter in the same critical section.
func (s *ProjectStore) Create(_ context.Context, tc tenant.Context, input store.CreateProjectInput) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.customers[input.CustomerID]; !ok || c.OrganizationID != tc.OrgID {
		return nil, store.ErrCustomerNotFound
	}
	if input.PropertyID != nil {
		if p, ok := s.properties[*input.PropertyID]; !ok || p.OrganizationID != tc.OrgID {
			return nil, store.ErrPropertyNotFound
		}
	}
	if input.PrimaryPartnerID != nil {
		if p, ok := s.partners[*input.PrimaryPartnerID]; !ok || p.OrganizationID != tc.OrgID {
			return nil, store.ErrPartnerNotFound
		}
	}

	var tmpl *models.ProjectTemplate
	if input.TemplateID != nil {
		t, ok := s.templates[*input.TemplateID]
		if !ok || t.OrganizationID != tc.OrgID {
			return nil, store.ErrTemplateNotFound
		}
		tmpl = t
	}

	estimatedValue := 0.0
	if input.EstimatedValue != nil {
		estimatedValue = *input.EstimatedValue
	}
	if tmpl != nil && tmpl.DefaultBudget != nil {
		estimatedValue = *tmpl.DefaultBudget
	}

	now := time.Now()
	project := &models.Project{
		ProjectID:            newID(),
		OrganizationID:       tc.OrgID,
		Name:                 input.Name,
		Description:          input.Description,
		Status:               models.ProjectStatusPlanning,
		ProjectType:          input.ProjectType,
		EstimatedValue:       estimatedValue,
		StartDate:            input.StartDate,
		ProjectedFinishDate:  input.ProjectedFinishDate,
		MaterialDeliveryDate: input.MaterialDeliveryDate,
		CustomerID:           input.CustomerID,
		PropertyID:           input.PropertyID,
		PrimaryPartnerID:     input.PrimaryPartnerID,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	s.projects[project.ProjectID] = project

	if tmpl != nil {
		for i, skel := range tmpl.DefaultTasks {
			title := skel.Title
			if title == "" {
				title = fmt.Sprintf("Task %d", i+1)
			}
			priority := skel.Priority
			if !priority.Valid() {
				priority = models.TaskPriorityMedium
			}
			s.tasks[project.ProjectID] = append(s.tasks[project.ProjectID], &models.ProjectTask{
				TaskID:      newID(),
				ProjectID:   project.ProjectID,
				Title:       title,
				Description: skel.Description,
				Status:      models.TaskStatusPending,
				Priority:    priority,
				SortOrder:   i,
				CreatedBy:   tc.ActorID,
				CreatedAt:   now,
				UpdatedAt:   now,
			})
		}
		tmpl.TimesUsed++
		tmpl.UpdatedAt = now
	}

	s.appendActivity(project.ProjectID, &models.ProjectActivity{
		Type:        models.ActivityStatusChange,
		Title:       "Project created",
		Description: fmt.Sprintf("Project %q was created", project.Name),
		NewValue:    string(models.ProjectStatusPlanning),
		CreatedBy:   tc.ActorID,
	})

	return cloneProject(project), nil
}

// Update applies a partial update and diffs status/progress into the
// activity trail.
func (s *ProjectStore) Update(ctx context.Context, tc tenant.Context, projectID uuid.UUID, input store.UpdateProjectInput) (*models.ProjectDetail, error) {
	s.mu.Lock()

	p, err := s.projectInTenant(tc, projectID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}

	if input.PrimaryPartnerID != nil {
		if partner, ok := s.partners[*input.PrimaryPartnerID]; !ok || partner.OrganizationID != tc.OrgID {
			s.mu.Unlock()
			return nil, store.ErrPartnerNotFound
		}
	}

	oldStatus := p.Status
	oldProgress := p.ProgressPercent

	if input.Name != nil {
		p.Name = *input.Name
	}
	if input.Description != nil {
		p.Description = *input.Description
	}
	if input.Status != nil {
		p.Status = *input.Status
	}
	if input.ProjectType != nil {
		p.ProjectType = *input.ProjectType
	}
	if input.StartDate != nil {
		p.StartDate = input.StartDate
	}
	if input.EndDate != nil {
		p.EndDate = input.EndDate
	}
	if input.ProjectedFinishDate != nil {
		p.ProjectedFinishDate = input.ProjectedFinishDate
	}
	if input.MaterialDeliveryDate != nil {
		p.MaterialDeliveryDate = input.MaterialDeliveryDate
	}
	if input.EstimatedValue != nil {
		p.EstimatedValue = *input.EstimatedValue
	}
	if input.ActualCost != nil {
		p.ActualCost = *input.ActualCost
	}
	if input.MaterialsCost != nil {
		p.MaterialsCost = *input.MaterialsCost
	}
	if input.LaborCost != nil {
		p.LaborCost = *input.LaborCost
	}
	if input.HardwareCost != nil {
		p.HardwareCost = *input.HardwareCost
	}
	if input.ProgressPercent != nil {
		p.ProgressPercent = *input.ProgressPercent
	}
	if input.PrimaryPartnerID != nil {
		p.PrimaryPartnerID = input.PrimaryPartnerID
	}
	p.UpdatedAt = time.Now()

	if input.Status != nil && *input.Status != oldStatus {
		s.appendActivity(projectID, &models.ProjectActivity{
			Type:      models.ActivityStatusChange,
			Title:     fmt.Sprintf("Status changed from %s to %s", oldStatus, *input.Status),
			OldValue:  string(oldStatus),
			NewValue:  string(*input.Status),
			CreatedBy: tc.ActorID,
		})
	}
	if input.ProgressPercent != nil && *input.ProgressPercent != oldProgress {
		s.appendActivity(projectID, &models.ProjectActivity{
			Type:      models.ActivityProgressUpdate,
			Title:     fmt.Sprintf("Progress updated to %d%%", *input.ProgressPercent),
			OldValue:  fmt.Sprintf("%d", oldProgress),
			NewValue:  fmt.Sprintf("%d", *input.ProgressPercent),
			CreatedBy: tc.ActorID,
		})
	}

	s.mu.Unlock()
	return s.GetByID(ctx, tc, projectID)
}

// List returns a filtered, paginated page ordered by most recently updated.
func (s *ProjectStore) List(_ context.Context, tc tenant.Context, filter store.ProjectFilter) (*store.ProjectPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}

	var matched []*models.Project
	for _, p := range s.projects {
		if p.OrganizationID != tc.OrgID {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if filter.PartnerID != nil && (p.PrimaryPartnerID == nil || *p.PrimaryPartnerID != *filter.PartnerID) {
			continue
		}
		if filter.CustomerID != nil && p.CustomerID != *filter.CustomerID {
			continue
		}
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(p.Name), needle) &&
				!strings.Contains(strings.ToLower(p.Description), needle) {
				continue
			}
		}
		matched = append(matched, p)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].UpdatedAt.After(matched[j].UpdatedAt)
	})

	total := len(matched)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	items := []*models.ProjectListItem{}
	for _, p := range matched[start:end] {
		item := &models.ProjectListItem{
			Project:  *cloneProject(p),
			Customer: s.customerSummary(p.CustomerID),
			Counts: models.ProjectCounts{
				Partners:     len(s.projectPartners[p.ProjectID]),
				Members:      len(s.projectMembers[p.ProjectID]),
				Tasks:        len(s.tasks[p.ProjectID]),
				ChangeOrders: len(s.changeOrders[p.ProjectID]),
			},
		}
		if p.PrimaryPartnerID != nil {
			item.PrimaryPartner = s.partnerSummary(*p.PrimaryPartnerID)
		}
		if p.PropertyID != nil {
			item.Property = s.propertySummary(*p.PropertyID)
		}
		items = append(items, item)
	}

	return &store.ProjectPage{
		Items:      items,
		Pagination: store.NewPagination(page, limit, total),
	}, nil
}

// GetByID returns the full project aggregate.
func (s *ProjectStore) GetByID(_ context.Context, tc tenant.Context, projectID uuid.UUID) (*models.ProjectDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.projectInTenant(tc, projectID)
	if err != nil {
		return nil, err
	}

	detail := &models.ProjectDetail{
		Project:  *cloneProject(p),
		Customer: s.customerSummary(p.CustomerID),
		Partners: []*models.ProjectPartner{},
		Members:  []*models.ProjectMember{},
		Tasks:    s.sortedTasks(projectID),
	}
	if p.PrimaryPartnerID != nil {
		detail.PrimaryPartner = s.partnerSummary(*p.PrimaryPartnerID)
	}
	if p.PropertyID != nil {
		detail.Property = s.propertySummary(*p.PropertyID)
	}

	for _, pp := range s.projectPartners[projectID] {
		c := *pp
		c.Partner = s.partnerSummary(pp.PartnerID)
		detail.Partners = append(detail.Partners, &c)
	}
	for _, m := range s.projectMembers[projectID] {
		c := *m
		detail.Members = append(detail.Members, &c)
	}

	orders := make([]*models.ChangeOrder, 0, len(s.changeOrders[projectID]))
	for i := len(s.changeOrders[projectID]) - 1; i >= 0; i-- {
		orders = append(orders, cloneChangeOrder(s.changeOrders[projectID][i]))
	}
	detail.ChangeOrders = orders
	detail.Activities = s.recentActivities(projectID, 50)

	return detail, nil
}

// Delete removes the project and everything attached to it.
func (s *ProjectStore) Delete(_ context.Context, tc tenant.Context, projectID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.projectInTenant(tc, projectID); err != nil {
		return err
	}

	delete(s.projects, projectID)
	delete(s.projectPartners, projectID)
	delete(s.projectMembers, projectID)
	delete(s.tasks, projectID)
	delete(s.changeOrders, projectID)
	delete(s.activities, projectID)
	return nil
}

// AddPartner attaches a collaborating partner.
func (s *ProjectStore) AddPartner(_ context.Context, tc tenant.Context, projectID, partnerID uuid.UUID, role string) (*models.ProjectPartner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.projectInTenant(tc, projectID); err != nil {
		return nil, err
	}
	partner, ok := s.partners[partnerID]
	if !ok || partner.OrganizationID != tc.OrgID {
		return nil, store.ErrPartnerNotFound
	}

	pp := &models.ProjectPartner{
		ProjectID: projectID,
		PartnerID: partnerID,
		Role:      role,
		Partner:   s.partnerSummary(partnerID),
		CreatedAt: time.Now(),
	}
	s.projectPartners[projectID] = append(s.projectPartners[projectID], pp)

	displayRole := role
	if displayRole == "" {
		displayRole = "collaborator"
	}
	s.appendActivity(projectID, &models.ProjectActivity{
		Type:        models.ActivityMemberAdded,
		Title:       fmt.Sprintf("Partner added: %s", partner.CompanyName),
		Description: fmt.Sprintf("Added %s as %s", partner.CompanyName, displayRole),
		CreatedBy:   tc.ActorID,
	})

	c := *pp
	return &c, nil
}

// RemovePartner detaches a collaborating partner; absent joins are ignored.
func (s *ProjectStore) RemovePartner(_ context.Context, tc tenant.Context, projectID, partnerID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.projectInTenant(tc, projectID); err != nil {
		return err
	}

	joins := s.projectPartners[projectID]
	for i, pp := range joins {
		if pp.PartnerID == partnerID {
			s.projectPartners[projectID] = append(joins[:i:i], joins[i+1:]...)
			break
		}
	}
	return nil
}

// AddMember assigns a user to the project.
func (s *ProjectStore) AddMember(_ context.Context, tc tenant.Context, projectID, userID uuid.UUID, role models.MemberRole, isLaborer bool) (*models.ProjectMember, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.projectInTenant(tc, projectID); err != nil {
		return nil, err
	}

	member := &models.ProjectMember{
		ProjectID: projectID,
		UserID:    userID,
		Role:      role,
		IsLaborer: isLaborer,
		CreatedAt: time.Now(),
	}
	s.projectMembers[projectID] = append(s.projectMembers[projectID], member)

	s.appendActivity(projectID, &models.ProjectActivity{
		Type:        models.ActivityMemberAdded,
		Title:       "Team member added",
		Description: fmt.Sprintf("Added team member as %s", role),
		CreatedBy:   tc.ActorID,
	})

	c := *member
	return &c, nil
}
