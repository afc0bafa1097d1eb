// Package server implements the HTTP API over the store layer. Handlers
// validate input, pull the tenant context resolved by the auth middleware
// and translate store sentinels into the JSON error envelope.
package server

import (
	"net/http"

	"github.com/cornndawwg/the-icatalyst-crm/internal/store"
	"github.com/cornndawwg/the-icatalyst-crm/internal/tenant"
)

// Server holds the store implementations behind the HTTP API.
type Server struct {
	projects     store.ProjectStore
	tasks        store.TaskStore
	changeOrders store.ChangeOrderStore
	activities   store.ActivityStore
	templates    store.TemplateStore
	directory    store.DirectoryStore
}

// New creates a server over the given stores.
func New(
	projects store.ProjectStore,
	tasks store.TaskStore,
	changeOrders store.ChangeOrderStore,
	activities store.ActivityStore,
	templates store.TemplateStore,
	directory store.DirectoryStore,
) *Server {
	return &Server{
		projects:     projects,
		tasks:        tasks,
		changeOrders: changeOrders,
		activities:   activities,
		templates:    templates,
		directory:    directory,
	}
}

// Routes registers every handler on a new mux. The health endpoint is
// unauthenticated; the caller wraps everything else with the auth
// middleware.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /projects", s.handleListProjects)
	mux.HandleFunc("POST /projects", s.handleCreateProject)
	mux.HandleFunc("GET /projects/{id}", s.handleGetProject)
	mux.HandleFunc("PUT /projects/{id}", s.handleUpdateProject)
	mux.HandleFunc("DELETE /projects/{id}", s.handleDeleteProject)

	mux.HandleFunc("POST /projects/{id}/partners", s.handleAddProjectPartner)
	mux.HandleFunc("DELETE /projects/{id}/partners/{partnerId}", s.handleRemoveProjectPartner)
	mux.HandleFunc("POST /projects/{id}/members", s.handleAddProjectMember)

	mux.HandleFunc("GET /projects/{id}/tasks", s.handleListTasks)
	mux.HandleFunc("POST /projects/{id}/tasks", s.handleAddTask)
	mux.HandleFunc("PUT /projects/{id}/tasks/{taskId}", s.handleUpdateTask)

	mux.HandleFunc("GET /projects/{id}/change-orders", s.handleListChangeOrders)
	mux.HandleFunc("POST /projects/{id}/change-orders", s.handleProposeChangeOrder)
	mux.HandleFunc("PUT /projects/{id}/change-orders/{changeOrderId}", s.handleResolveChangeOrder)

	mux.HandleFunc("GET /projects/{id}/activity", s.handleListActivity)
	mux.HandleFunc("POST /projects/{id}/activity", s.handleAddNote)

	mux.HandleFunc("GET /templates", s.handleListTemplates)
	mux.HandleFunc("POST /templates", s.handleCreateTemplate)
	mux.HandleFunc("GET /templates/{id}", s.handleGetTemplate)

	mux.HandleFunc("GET /customers", s.handleListCustomers)
	mux.HandleFunc("POST /customers", s.handleCreateCustomer)
	mux.HandleFunc("GET /customers/{id}", s.handleGetCustomer)

	mux.HandleFunc("GET /partners", s.handleListPartners)
	mux.HandleFunc("POST /partners", s.handleCreatePartner)
	mux.HandleFunc("GET /partners/{id}", s.handleGetPartner)

	return mux
}

// Healthz responds to liveness probes. Mounted outside the auth middleware.
func Healthz(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// tenantFromRequest pulls the tenant context injected by the auth
// middleware.
func tenantFromRequest(r *http.Request) (tenant.Context, bool) {
	return tenant.FromContext(r.Context())
}
