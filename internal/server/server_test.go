package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/cornndawwg/the-icatalyst-crm/internal/models"
	memorystore "github.com/cornndawwg/the-icatalyst-crm/internal/store/memory"
	"github.com/cornndawwg/the-icatalyst-crm/internal/tenant"
)

func newTestMux(t *testing.T) *http.ServeMux {
	t.Helper()
	shared := memorystore.NewStore()
	srv := New(
		memorystore.NewProjectStore(shared),
		memorystore.NewTaskStore(shared),
		memorystore.NewChangeOrderStore(shared),
		memorystore.NewActivityStore(shared),
		memorystore.NewTemplateStore(shared),
		memorystore.NewDirectoryStore(shared),
	)
	return srv.Routes()
}

func testTenant() tenant.Context {
	return tenant.Context{
		OrgID:   uuid.Must(uuid.NewV7()),
		ActorID: uuid.Must(uuid.NewV7()),
		Role:    "admin",
	}
}

// do runs a request through the mux as the given tenant and returns the
// recorded response.
func do(t *testing.T, mux *http.ServeMux, tc tenant.Context, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req = req.WithContext(tenant.WithContext(req.Context(), tc))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(dst))
}

func errorKind(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp errorResponse
	decode(t, rec, &resp)
	return resp.Error.Kind
}

func createCustomer(t *testing.T, mux *http.ServeMux, tc tenant.Context) models.Customer {
	t.Helper()
	rec := do(t, mux, tc, http.MethodPost, "/customers", map[string]any{
		"firstName": "Ada",
		"lastName":  "Lovelace",
		"email":     "ada@example.com",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var customer models.Customer
	decode(t, rec, &customer)
	return customer
}

func createProject(t *testing.T, mux *http.ServeMux, tc tenant.Context, body map[string]any) models.Project {
	t.Helper()
	rec := do(t, mux, tc, http.MethodPost, "/projects", body)
	require.Equal(t, http.StatusCreated, rec.Code)
	var project models.Project
	decode(t, rec, &project)
	return project
}

func TestHealthz(t *testing.T) {
	rec := httptest.NewRecorder()
	Healthz(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	decode(t, rec, &body)
	require.Equal(t, "ok", body["status"])
}

func TestProjectLifecycleWorkflow(t *testing.T) {
	mux := newTestMux(t)
	tc := testTenant()

	customer := createCustomer(t, mux, tc)

	// Create a template with a default budget and task list.
	rec := do(t, mux, tc, http.MethodPost, "/templates", map[string]any{
		"name":          "Theater Build",
		"category":      "residential",
		"projectType":   "new-install",
		"defaultBudget": 50000,
		"defaultTasks": []map[string]any{
			{"title": "Site survey", "priority": "high"},
			{"title": "Prewire"},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var tmpl models.ProjectTemplate
	decode(t, rec, &tmpl)
	require.Equal(t, 0, tmpl.TimesUsed)

	// Create a project from the template.
	project := createProject(t, mux, tc, map[string]any{
		"name":           "Jones Theater",
		"projectType":    "new-install",
		"customerId":     customer.CustomerID.String(),
		"estimatedValue": 10,
		"templateId":     tmpl.TemplateID.String(),
	})
	require.Equal(t, models.ProjectStatusPlanning, project.Status)
	require.Equal(t, 50000.0, project.EstimatedValue)

	// The template seeded the task list in order.
	rec = do(t, mux, tc, http.MethodGet, "/projects/"+project.ProjectID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var detail models.ProjectDetail
	decode(t, rec, &detail)
	require.Len(t, detail.Tasks, 2)
	require.Equal(t, "Site survey", detail.Tasks[0].Title)
	require.Equal(t, 0, detail.Tasks[0].SortOrder)
	require.Equal(t, "Prewire", detail.Tasks[1].Title)
	require.Equal(t, 1, detail.Tasks[1].SortOrder)

	// Template usage was counted.
	rec = do(t, mux, tc, http.MethodGet, "/templates/"+tmpl.TemplateID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &tmpl)
	require.Equal(t, 1, tmpl.TimesUsed)

	// Move the project to active and bump progress.
	rec = do(t, mux, tc, http.MethodPut, "/projects/"+project.ProjectID.String(), map[string]any{
		"status":          "active",
		"progressPercent": 25,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &detail)
	require.Equal(t, models.ProjectStatusActive, detail.Status)
	require.Equal(t, 25, detail.ProgressPercent)

	// Both changes landed in the activity trail.
	rec = do(t, mux, tc, http.MethodGet, "/projects/"+project.ProjectID.String()+"/activity", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var activityPage struct {
		Items []models.ProjectActivity `json:"items"`
	}
	decode(t, rec, &activityPage)
	require.Len(t, activityPage.Items, 3)
	require.Equal(t, "Progress updated to 25%", activityPage.Items[0].Title)
	require.Equal(t, "Status changed from planning to active", activityPage.Items[1].Title)
	require.Equal(t, "Project created", activityPage.Items[2].Title)

	// Add and complete a task.
	rec = do(t, mux, tc, http.MethodPost, "/projects/"+project.ProjectID.String()+"/tasks", map[string]any{
		"title": "Rack build",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var task models.ProjectTask
	decode(t, rec, &task)
	require.Equal(t, 2, task.SortOrder)
	require.Equal(t, models.TaskPriorityMedium, task.Priority)

	rec = do(t, mux, tc, http.MethodPut,
		fmt.Sprintf("/projects/%s/tasks/%s", project.ProjectID, task.TaskID),
		map[string]any{"status": "completed"})
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &task)
	require.Equal(t, models.TaskStatusCompleted, task.Status)
	require.NotNil(t, task.CompletedAt)

	// Delete the project; a second read is gone.
	rec = do(t, mux, tc, http.MethodDelete, "/projects/"+project.ProjectID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, mux, tc, http.MethodGet, "/projects/"+project.ProjectID.String(), nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "not_found", errorKind(t, rec))
}

func TestChangeOrderWorkflow(t *testing.T) {
	mux := newTestMux(t)
	tc := testTenant()
	customer := createCustomer(t, mux, tc)
	project := createProject(t, mux, tc, map[string]any{
		"name":        "AV refresh",
		"projectType": "upgrade",
		"customerId":  customer.CustomerID.String(),
	})

	base := fmt.Sprintf("/projects/%s/change-orders", project.ProjectID)

	rec := do(t, mux, tc, http.MethodPost, base, map[string]any{
		"title":      "Add outdoor zone",
		"reason":     "scope-change",
		"costChange": 500,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var co models.ChangeOrder
	decode(t, rec, &co)
	require.Equal(t, models.ChangeOrderStatusPending, co.Status)

	// Approve it; actual cost moves by the cost change.
	rec = do(t, mux, tc, http.MethodPut, base+"/"+co.ChangeOrderID.String(), map[string]any{"status": "approved"})
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &co)
	require.Equal(t, models.ChangeOrderStatusApproved, co.Status)
	require.NotNil(t, co.ApprovedAt)

	rec = do(t, mux, tc, http.MethodGet, "/projects/"+project.ProjectID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var detail models.ProjectDetail
	decode(t, rec, &detail)
	require.Equal(t, 500.0, detail.ActualCost)

	// A second resolution conflicts.
	rec = do(t, mux, tc, http.MethodPut, base+"/"+co.ChangeOrderID.String(), map[string]any{"status": "rejected"})
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "conflict", errorKind(t, rec))

	// And the cost was not applied twice.
	rec = do(t, mux, tc, http.MethodGet, "/projects/"+project.ProjectID.String(), nil)
	decode(t, rec, &detail)
	require.Equal(t, 500.0, detail.ActualCost)

	// The trail shows proposal and resolution.
	rec = do(t, mux, tc, http.MethodGet, "/projects/"+project.ProjectID.String()+"/activity", nil)
	var activityPage struct {
		Items []models.ProjectActivity `json:"items"`
	}
	decode(t, rec, &activityPage)
	require.Equal(t, "Change order approved: Add outdoor zone", activityPage.Items[0].Title)
	require.Equal(t, "Change order created: Add outdoor zone", activityPage.Items[1].Title)
	require.Equal(t, "Cost impact: +$500.00", activityPage.Items[1].Description)
}

func TestValidationErrors(t *testing.T) {
	mux := newTestMux(t)
	tc := testTenant()

	t.Run("project without name", func(t *testing.T) {
		rec := do(t, mux, tc, http.MethodPost, "/projects", map[string]any{
			"projectType": "service",
			"customerId":  uuid.Must(uuid.NewV7()).String(),
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)

		var resp errorResponse
		decode(t, rec, &resp)
		require.Equal(t, "validation", resp.Error.Kind)
		require.Contains(t, resp.Error.Fields, "name")
	})

	t.Run("unknown project type", func(t *testing.T) {
		rec := do(t, mux, tc, http.MethodPost, "/projects", map[string]any{
			"name":        "Bad type",
			"projectType": "retrofit",
			"customerId":  uuid.Must(uuid.NewV7()).String(),
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "validation", errorKind(t, rec))
	})

	t.Run("malformed path UUID", func(t *testing.T) {
		rec := do(t, mux, tc, http.MethodGet, "/projects/not-a-uuid", nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "validation", errorKind(t, rec))
	})

	t.Run("progress out of range", func(t *testing.T) {
		customer := createCustomer(t, mux, tc)
		project := createProject(t, mux, tc, map[string]any{
			"name":        "Progress",
			"projectType": "service",
			"customerId":  customer.CustomerID.String(),
		})

		rec := do(t, mux, tc, http.MethodPut, "/projects/"+project.ProjectID.String(), map[string]any{
			"progressPercent": 120,
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)

		var resp errorResponse
		decode(t, rec, &resp)
		require.Contains(t, resp.Error.Fields, "progressPercent")
	})

	t.Run("change order without cost change", func(t *testing.T) {
		customer := createCustomer(t, mux, tc)
		project := createProject(t, mux, tc, map[string]any{
			"name":        "No cost",
			"projectType": "service",
			"customerId":  customer.CustomerID.String(),
		})

		rec := do(t, mux, tc, http.MethodPost, fmt.Sprintf("/projects/%s/change-orders", project.ProjectID), map[string]any{
			"title":  "Missing cost",
			"reason": "scope-change",
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)

		var resp errorResponse
		decode(t, rec, &resp)
		require.Contains(t, resp.Error.Fields, "costChange")
	})

	t.Run("resolution status must be terminal", func(t *testing.T) {
		customer := createCustomer(t, mux, tc)
		project := createProject(t, mux, tc, map[string]any{
			"name":        "Pending again",
			"projectType": "service",
			"customerId":  customer.CustomerID.String(),
		})

		rec := do(t, mux, tc, http.MethodPut,
			fmt.Sprintf("/projects/%s/change-orders/%s", project.ProjectID, uuid.Must(uuid.NewV7())),
			map[string]any{"status": "pending"})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "validation", errorKind(t, rec))
	})

	t.Run("note requires a description", func(t *testing.T) {
		customer := createCustomer(t, mux, tc)
		project := createProject(t, mux, tc, map[string]any{
			"name":        "Notes",
			"projectType": "service",
			"customerId":  customer.CustomerID.String(),
		})

		rec := do(t, mux, tc, http.MethodPost, "/projects/"+project.ProjectID.String()+"/activity", map[string]any{
			"title": "Empty",
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestNotFoundErrors(t *testing.T) {
	mux := newTestMux(t)
	tc := testTenant()

	t.Run("unknown project", func(t *testing.T) {
		rec := do(t, mux, tc, http.MethodGet, "/projects/"+uuid.Must(uuid.NewV7()).String(), nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Equal(t, "not_found", errorKind(t, rec))
	})

	t.Run("unknown customer reference on create", func(t *testing.T) {
		rec := do(t, mux, tc, http.MethodPost, "/projects", map[string]any{
			"name":        "Bad ref",
			"projectType": "service",
			"customerId":  uuid.Must(uuid.NewV7()).String(),
		})
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Equal(t, "not_found", errorKind(t, rec))
	})

	t.Run("another organization's project", func(t *testing.T) {
		customer := createCustomer(t, mux, tc)
		project := createProject(t, mux, tc, map[string]any{
			"name":        "Private",
			"projectType": "service",
			"customerId":  customer.CustomerID.String(),
		})

		rec := do(t, mux, testTenant(), http.MethodGet, "/projects/"+project.ProjectID.String(), nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestMissingTenantContext(t *testing.T) {
	mux := newTestMux(t)

	req := httptest.NewRequest(http.MethodGet, "/projects", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "unauthorized", errorKind(t, rec))
}

func TestListProjects(t *testing.T) {
	mux := newTestMux(t)
	tc := testTenant()
	customer := createCustomer(t, mux, tc)

	for i := 0; i < 3; i++ {
		createProject(t, mux, tc, map[string]any{
			"name":        fmt.Sprintf("Project %d", i),
			"projectType": "service",
			"customerId":  customer.CustomerID.String(),
		})
	}

	var page struct {
		Items      []models.ProjectListItem `json:"items"`
		Pagination struct {
			Page       int `json:"page"`
			Limit      int `json:"limit"`
			Total      int `json:"total"`
			TotalPages int `json:"totalPages"`
		} `json:"pagination"`
	}

	rec := do(t, mux, tc, http.MethodGet, "/projects?limit=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &page)
	require.Len(t, page.Items, 2)
	require.Equal(t, 3, page.Pagination.Total)
	require.Equal(t, 2, page.Pagination.TotalPages)

	rec = do(t, mux, tc, http.MethodGet, "/projects?page=2&limit=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &page)
	require.Len(t, page.Items, 1)

	rec = do(t, mux, tc, http.MethodGet, "/projects?search=project+1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &page)
	require.Len(t, page.Items, 1)
	require.Equal(t, "Project 1", page.Items[0].Name)

	rec = do(t, mux, tc, http.MethodGet, "/projects?status=bogus", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProjectPartnersAndMembers(t *testing.T) {
	mux := newTestMux(t)
	tc := testTenant()
	customer := createCustomer(t, mux, tc)
	project := createProject(t, mux, tc, map[string]any{
		"name":        "Team build",
		"projectType": "new-install",
		"customerId":  customer.CustomerID.String(),
	})

	rec := do(t, mux, tc, http.MethodPost, "/partners", map[string]any{
		"type":        "builder",
		"companyName": "Hilltop Builders",
		"contactName": "Sam Hill",
		"email":       "sam@hilltop.example.com",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var partner models.Partner
	decode(t, rec, &partner)

	rec = do(t, mux, tc, http.MethodPost, "/projects/"+project.ProjectID.String()+"/partners", map[string]any{
		"partnerId": partner.PartnerID.String(),
		"role":      "designer",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var pp models.ProjectPartner
	decode(t, rec, &pp)
	require.Equal(t, partner.PartnerID, pp.PartnerID)
	require.Equal(t, "designer", pp.Role)

	rec = do(t, mux, tc, http.MethodPost, "/projects/"+project.ProjectID.String()+"/members", map[string]any{
		"userId":    uuid.Must(uuid.NewV7()).String(),
		"role":      "technician",
		"isLaborer": false,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var member models.ProjectMember
	decode(t, rec, &member)
	require.Equal(t, models.MemberRoleTechnician, member.Role)

	rec = do(t, mux, tc, http.MethodPost, "/projects/"+project.ProjectID.String()+"/members", map[string]any{
		"userId": uuid.Must(uuid.NewV7()).String(),
		"role":   "foreman",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, mux, tc, http.MethodDelete,
		fmt.Sprintf("/projects/%s/partners/%s", project.ProjectID, partner.PartnerID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, mux, tc, http.MethodGet, "/projects/"+project.ProjectID.String(), nil)
	var detail models.ProjectDetail
	decode(t, rec, &detail)
	require.Empty(t, detail.Partners)
	require.Len(t, detail.Members, 1)
}
