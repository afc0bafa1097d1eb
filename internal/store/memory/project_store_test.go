package memory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/cornndawwg/the-icatalyst-crm/internal/models"
	"github.com/cornndawwg/the-icatalyst-crm/internal/store"
	"github.com/cornndawwg/the-icatalyst-crm/internal/tenant"
)

func TestProjectStore_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates project with status planning", func(t *testing.T) {
		s := NewStore()
		tc := testTenant()
		customer := seedCustomer(t, s, tc)

		estimated := 25000.0
		p, err := NewProjectStore(s).Create(ctx, tc, store.CreateProjectInput{
			Name:           "Smith Residence",
			Description:    "Whole home audio",
			ProjectType:    models.ProjectTypeNewInstall,
			CustomerID:     customer.CustomerID,
			EstimatedValue: &estimated,
		})
		require.NoError(t, err)
		require.Equal(t, models.ProjectStatusPlanning, p.Status)
		require.Equal(t, tc.OrgID, p.OrganizationID)
		require.Equal(t, 25000.0, p.EstimatedValue)
		require.Equal(t, 0.0, p.ActualCost)
		require.Equal(t, 0, p.ProgressPercent)
	})

	t.Run("records a creation activity entry", func(t *testing.T) {
		s := NewStore()
		tc := testTenant()
		p := seedProject(t, s, tc)

		activities, err := NewActivityStore(s).List(ctx, tc, p.ProjectID, 10)
		require.NoError(t, err)
		require.Len(t, activities, 1)
		require.Equal(t, models.ActivityStatusChange, activities[0].Type)
		require.Equal(t, "Project created", activities[0].Title)
		require.Equal(t, "planning", activities[0].NewValue)
		require.Equal(t, tc.ActorID, activities[0].CreatedBy)
	})

	t.Run("unknown customer fails", func(t *testing.T) {
		s := NewStore()
		tc := testTenant()

		_, err := NewProjectStore(s).Create(ctx, tc, store.CreateProjectInput{
			Name:        "Orphan",
			ProjectType: models.ProjectTypeService,
			CustomerID:  uuid.Must(uuid.NewV7()),
		})
		require.ErrorIs(t, err, store.ErrCustomerNotFound)
	})

	t.Run("customer from another organization fails", func(t *testing.T) {
		s := NewStore()
		tc := testTenant()
		other := testTenant()
		customer := seedCustomer(t, s, other)

		_, err := NewProjectStore(s).Create(ctx, tc, store.CreateProjectInput{
			Name:        "Cross tenant",
			ProjectType: models.ProjectTypeService,
			CustomerID:  customer.CustomerID,
		})
		require.ErrorIs(t, err, store.ErrCustomerNotFound)
	})

	t.Run("unknown partner fails", func(t *testing.T) {
		s := NewStore()
		tc := testTenant()
		customer := seedCustomer(t, s, tc)
		partnerID := uuid.Must(uuid.NewV7())

		_, err := NewProjectStore(s).Create(ctx, tc, store.CreateProjectInput{
			Name:             "No partner",
			ProjectType:      models.ProjectTypeUpgrade,
			CustomerID:       customer.CustomerID,
			PrimaryPartnerID: &partnerID,
		})
		require.ErrorIs(t, err, store.ErrPartnerNotFound)
	})
}

func TestProjectStore_CreateFromTemplate(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*Store, tenant.Context, *models.Customer, *models.ProjectTemplate) {
		t.Helper()
		s := NewStore()
		tc := testTenant()
		customer := seedCustomer(t, s, tc)

		budget := 50000.0
		tmpl, err := NewTemplateStore(s).Create(ctx, tc, store.CreateTemplateInput{
			Name:          "Theater Build",
			Category:      "residential",
			ProjectType:   models.ProjectTypeNewInstall,
			DefaultBudget: &budget,
			DefaultTasks: []models.TemplateTask{
				{Title: "Site survey", Priority: models.TaskPriorityHigh},
				{Title: "Prewire", Priority: models.TaskPriorityMedium},
				{Title: "Rack build"},
			},
		})
		require.NoError(t, err)
		return s, tc, customer, tmpl
	}

	t.Run("expands default tasks in order", func(t *testing.T) {
		s, tc, customer, tmpl := setup(t)

		p, err := NewProjectStore(s).Create(ctx, tc, store.CreateProjectInput{
			Name:        "Jones Theater",
			ProjectType: models.ProjectTypeNewInstall,
			CustomerID:  customer.CustomerID,
			TemplateID:  &tmpl.TemplateID,
		})
		require.NoError(t, err)

		tasks, err := NewTaskStore(s).ListTasks(ctx, tc, p.ProjectID)
		require.NoError(t, err)
		require.Len(t, tasks, 3)
		for i, task := range tasks {
			require.Equal(t, i, task.SortOrder)
			require.Equal(t, models.TaskStatusPending, task.Status)
		}
		require.Equal(t, "Site survey", tasks[0].Title)
		require.Equal(t, models.TaskPriorityHigh, tasks[0].Priority)
		require.Equal(t, "Rack build", tasks[2].Title)
		require.Equal(t, models.TaskPriorityMedium, tasks[2].Priority)
	})

	t.Run("default budget overrides estimated value", func(t *testing.T) {
		s, tc, customer, tmpl := setup(t)

		requested := 10.0
		p, err := NewProjectStore(s).Create(ctx, tc, store.CreateProjectInput{
			Name:           "Budget override",
			ProjectType:    models.ProjectTypeNewInstall,
			CustomerID:     customer.CustomerID,
			EstimatedValue: &requested,
			TemplateID:     &tmpl.TemplateID,
		})
		require.NoError(t, err)
		require.Equal(t, 50000.0, p.EstimatedValue)
	})

	t.Run("increments usage counter once per creation", func(t *testing.T) {
		s, tc, customer, tmpl := setup(t)

		for i := 0; i < 2; i++ {
			_, err := NewProjectStore(s).Create(ctx, tc, store.CreateProjectInput{
				Name:        "Repeat",
				ProjectType: models.ProjectTypeNewInstall,
				CustomerID:  customer.CustomerID,
				TemplateID:  &tmpl.TemplateID,
			})
			require.NoError(t, err)
		}

		got, err := NewTemplateStore(s).Get(ctx, tc, tmpl.TemplateID)
		require.NoError(t, err)
		require.Equal(t, 2, got.TimesUsed)
	})

	t.Run("template from another organization fails", func(t *testing.T) {
		s, _, _, tmpl := setup(t)
		other := testTenant()
		customer := seedCustomer(t, s, other)

		_, err := NewProjectStore(s).Create(ctx, other, store.CreateProjectInput{
			Name:        "Stolen template",
			ProjectType: models.ProjectTypeNewInstall,
			CustomerID:  customer.CustomerID,
			TemplateID:  &tmpl.TemplateID,
		})
		require.ErrorIs(t, err, store.ErrTemplateNotFound)
	})

	t.Run("failed creation leaves the counter alone", func(t *testing.T) {
		s, tc, _, tmpl := setup(t)

		_, err := NewProjectStore(s).Create(ctx, tc, store.CreateProjectInput{
			Name:        "Bad customer",
			ProjectType: models.ProjectTypeNewInstall,
			CustomerID:  uuid.Must(uuid.NewV7()),
			TemplateID:  &tmpl.TemplateID,
		})
		require.ErrorIs(t, err, store.ErrCustomerNotFound)

		got, err := NewTemplateStore(s).Get(ctx, tc, tmpl.TemplateID)
		require.NoError(t, err)
		require.Equal(t, 0, got.TimesUsed)
	})
}

func TestProjectStore_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("status change appends one activity entry", func(t *testing.T) {
		s := NewStore()
		tc := testTenant()
		p := seedProject(t, s, tc)

		status := models.ProjectStatusActive
		detail, err := NewProjectStore(s).Update(ctx, tc, p.ProjectID, store.UpdateProjectInput{Status: &status})
		require.NoError(t, err)
		require.Equal(t, models.ProjectStatusActive, detail.Status)

		activities, err := NewActivityStore(s).List(ctx, tc, p.ProjectID, 10)
		require.NoError(t, err)
		require.Len(t, activities, 2)
		require.Equal(t, "Status changed from planning to active", activities[0].Title)
		require.Equal(t, "planning", activities[0].OldValue)
		require.Equal(t, "active", activities[0].NewValue)
	})

	t.Run("progress change appends one activity entry", func(t *testing.T) {
		s := NewStore()
		tc := testTenant()
		p := seedProject(t, s, tc)

		progress := 40
		detail, err := NewProjectStore(s).Update(ctx, tc, p.ProjectID, store.UpdateProjectInput{ProgressPercent: &progress})
		require.NoError(t, err)
		require.Equal(t, 40, detail.ProgressPercent)

		activities, err := NewActivityStore(s).List(ctx, tc, p.ProjectID, 10)
		require.NoError(t, err)
		require.Len(t, activities, 2)
		require.Equal(t, "Progress updated to 40%", activities[0].Title)
		require.Equal(t, models.ActivityProgressUpdate, activities[0].Type)
	})

	t.Run("unchanged values write no activity", func(t *testing.T) {
		s := NewStore()
		tc := testTenant()
		p := seedProject(t, s, tc)

		status := models.ProjectStatusPlanning
		progress := 0
		_, err := NewProjectStore(s).Update(ctx, tc, p.ProjectID, store.UpdateProjectInput{
			Status:          &status,
			ProgressPercent: &progress,
		})
		require.NoError(t, err)

		activities, err := NewActivityStore(s).List(ctx, tc, p.ProjectID, 10)
		require.NoError(t, err)
		require.Len(t, activities, 1)
	})

	t.Run("status and progress together append two entries", func(t *testing.T) {
		s := NewStore()
		tc := testTenant()
		p := seedProject(t, s, tc)

		status := models.ProjectStatusActive
		progress := 25
		_, err := NewProjectStore(s).Update(ctx, tc, p.ProjectID, store.UpdateProjectInput{
			Status:          &status,
			ProgressPercent: &progress,
		})
		require.NoError(t, err)

		activities, err := NewActivityStore(s).List(ctx, tc, p.ProjectID, 10)
		require.NoError(t, err)
		require.Len(t, activities, 3)
	})

	t.Run("nil fields leave the record untouched", func(t *testing.T) {
		s := NewStore()
		tc := testTenant()
		p := seedProject(t, s, tc)

		name := "Renamed"
		detail, err := NewProjectStore(s).Update(ctx, tc, p.ProjectID, store.UpdateProjectInput{Name: &name})
		require.NoError(t, err)
		require.Equal(t, "Renamed", detail.Name)
		require.Equal(t, models.ProjectStatusPlanning, detail.Status)
		require.Equal(t, p.EstimatedValue, detail.EstimatedValue)
	})

	t.Run("project from another organization is not found", func(t *testing.T) {
		s := NewStore()
		tc := testTenant()
		p := seedProject(t, s, tc)

		name := "Intruder"
		_, err := NewProjectStore(s).Update(ctx, testTenant(), p.ProjectID, store.UpdateProjectInput{Name: &name})
		require.ErrorIs(t, err, store.ErrProjectNotFound)
	})
}

func TestProjectStore_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the full aggregate with empty slices", func(t *testing.T) {
		s := NewStore()
		tc := testTenant()
		p := seedProject(t, s, tc)

		detail, err := NewProjectStore(s).GetByID(ctx, tc, p.ProjectID)
		require.NoError(t, err)
		require.Equal(t, p.ProjectID, detail.ProjectID)
		require.NotNil(t, detail.Customer)
		require.Equal(t, "Ada", detail.Customer.FirstName)
		require.NotNil(t, detail.Tasks)
		require.Empty(t, detail.Tasks)
		require.NotNil(t, detail.ChangeOrders)
		require.Empty(t, detail.ChangeOrders)
		require.NotNil(t, detail.Partners)
		require.NotNil(t, detail.Members)
		require.Len(t, detail.Activities, 1)
	})

	t.Run("cross tenant read is not found", func(t *testing.T) {
		s := NewStore()
		tc := testTenant()
		p := seedProject(t, s, tc)

		_, err := NewProjectStore(s).GetByID(ctx, testTenant(), p.ProjectID)
		require.ErrorIs(t, err, store.ErrProjectNotFound)
	})

	t.Run("activity trail is capped at 50 entries", func(t *testing.T) {
		s := NewStore()
		tc := testTenant()
		p := seedProject(t, s, tc)
		activities := NewActivityStore(s)

		for i := 0; i < 60; i++ {
			_, err := activities.AddNote(ctx, tc, p.ProjectID, "", "note")
			require.NoError(t, err)
		}

		detail, err := NewProjectStore(s).GetByID(ctx, tc, p.ProjectID)
		require.NoError(t, err)
		require.Len(t, detail.Activities, 50)
	})
}

func TestProjectStore_List(t *testing.T) {
	ctx := context.Background()

	t.Run("filters by status and paginates", func(t *testing.T) {
		s := NewStore()
		tc := testTenant()
		customer := seedCustomer(t, s, tc)
		projects := NewProjectStore(s)

		var created []*models.Project
		for i := 0; i < 3; i++ {
			p, err := projects.Create(ctx, tc, store.CreateProjectInput{
				Name:        "Project",
				ProjectType: models.ProjectTypeService,
				CustomerID:  customer.CustomerID,
			})
			require.NoError(t, err)
			created = append(created, p)
		}

		active := models.ProjectStatusActive
		_, err := projects.Update(ctx, tc, created[0].ProjectID, store.UpdateProjectInput{Status: &active})
		require.NoError(t, err)

		page, err := projects.List(ctx, tc, store.ProjectFilter{Status: models.ProjectStatusActive})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		require.Equal(t, 1, page.Pagination.Total)

		page, err = projects.List(ctx, tc, store.ProjectFilter{Page: 1, Limit: 2})
		require.NoError(t, err)
		require.Len(t, page.Items, 2)
		require.Equal(t, 3, page.Pagination.Total)
		require.Equal(t, 2, page.Pagination.TotalPages)
	})

	t.Run("search matches name and description", func(t *testing.T) {
		s := NewStore()
		tc := testTenant()
		customer := seedCustomer(t, s, tc)
		projects := NewProjectStore(s)

		_, err := projects.Create(ctx, tc, store.CreateProjectInput{
			Name:        "Cinema room",
			Description: "Dolby Atmos build",
			ProjectType: models.ProjectTypeNewInstall,
			CustomerID:  customer.CustomerID,
		})
		require.NoError(t, err)
		_, err = projects.Create(ctx, tc, store.CreateProjectInput{
			Name:        "Network refresh",
			ProjectType: models.ProjectTypeUpgrade,
			CustomerID:  customer.CustomerID,
		})
		require.NoError(t, err)

		page, err := projects.List(ctx, tc, store.ProjectFilter{Search: "atmos"})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		require.Equal(t, "Cinema room", page.Items[0].Name)
	})

	t.Run("never leaks another organization's projects", func(t *testing.T) {
		s := NewStore()
		tc := testTenant()
		seedProject(t, s, tc)

		page, err := NewProjectStore(s).List(ctx, testTenant(), store.ProjectFilter{})
		require.NoError(t, err)
		require.Empty(t, page.Items)
		require.Equal(t, 0, page.Pagination.Total)
	})

	t.Run("list items carry related counts", func(t *testing.T) {
		s := NewStore()
		tc := testTenant()
		p := seedProject(t, s, tc)

		_, err := NewTaskStore(s).AddTask(ctx, tc, p.ProjectID, store.AddTaskInput{Title: "Prewire"})
		require.NoError(t, err)

		page, err := NewProjectStore(s).List(ctx, tc, store.ProjectFilter{})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		require.Equal(t, 1, page.Items[0].Counts.Tasks)
		require.Equal(t, 0, page.Items[0].Counts.ChangeOrders)
	})
}

func TestProjectStore_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("removes the project and its children", func(t *testing.T) {
		s := NewStore()
		tc := testTenant()
		p := seedProject(t, s, tc)
		projects := NewProjectStore(s)

		_, err := NewTaskStore(s).AddTask(ctx, tc, p.ProjectID, store.AddTaskInput{Title: "Prewire"})
		require.NoError(t, err)

		require.NoError(t, projects.Delete(ctx, tc, p.ProjectID))

		_, err = projects.GetByID(ctx, tc, p.ProjectID)
		require.ErrorIs(t, err, store.ErrProjectNotFound)
		_, err = NewTaskStore(s).ListTasks(ctx, tc, p.ProjectID)
		require.ErrorIs(t, err, store.ErrProjectNotFound)
	})

	t.Run("cross tenant delete is not found", func(t *testing.T) {
		s := NewStore()
		tc := testTenant()
		p := seedProject(t, s, tc)

		err := NewProjectStore(s).Delete(ctx, testTenant(), p.ProjectID)
		require.ErrorIs(t, err, store.ErrProjectNotFound)
	})
}

func TestProjectStore_Partners(t *testing.T) {
	ctx := context.Background()

	t.Run("add partner records an activity entry", func(t *testing.T) {
		s := NewStore()
		tc := testTenant()
		p := seedProject(t, s, tc)
		partner := seedPartner(t, s, tc)

		pp, err := NewProjectStore(s).AddPartner(ctx, tc, p.ProjectID, partner.PartnerID, "")
		require.NoError(t, err)
		require.Equal(t, partner.PartnerID, pp.PartnerID)
		require.NotNil(t, pp.Partner)

		activities, err := NewActivityStore(s).List(ctx, tc, p.ProjectID, 10)
		require.NoError(t, err)
		require.Equal(t, "Partner added: Hilltop Builders", activities[0].Title)
		require.Equal(t, "Added Hilltop Builders as collaborator", activities[0].Description)
	})

	t.Run("remove partner tolerates an absent join", func(t *testing.T) {
		s := NewStore()
		tc := testTenant()
		p := seedProject(t, s, tc)
		partner := seedPartner(t, s, tc)
		projects := NewProjectStore(s)

		_, err := projects.AddPartner(ctx, tc, p.ProjectID, partner.PartnerID, "designer")
		require.NoError(t, err)

		require.NoError(t, projects.RemovePartner(ctx, tc, p.ProjectID, partner.PartnerID))
		require.NoError(t, projects.RemovePartner(ctx, tc, p.ProjectID, partner.PartnerID))

		detail, err := projects.GetByID(ctx, tc, p.ProjectID)
		require.NoError(t, err)
		require.Empty(t, detail.Partners)
	})

	t.Run("add member records an activity entry", func(t *testing.T) {
		s := NewStore()
		tc := testTenant()
		p := seedProject(t, s, tc)

		member, err := NewProjectStore(s).AddMember(ctx, tc, p.ProjectID, uuid.Must(uuid.NewV7()), models.MemberRoleTechnician, false)
		require.NoError(t, err)
		require.Equal(t, models.MemberRoleTechnician, member.Role)

		activities, err := NewActivityStore(s).List(ctx, tc, p.ProjectID, 10)
		require.NoError(t, err)
		require.Equal(t, "Team member added", activities[0].Title)
		require.Equal(t, models.ActivityMemberAdded, activities[0].Type)
	})
}
