package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/cornndawwg/the-icatalyst-crm/internal/models"
	"github.com/cornndawwg/the-icatalyst-crm/internal/store"
	"github.com/cornndawwg/the-icatalyst-crm/internal/telemetry"
	"github.com/cornndawwg/the-icatalyst-crm/internal/tenant"
)

// requireTenant pulls the tenant context or writes the unauthorized
// envelope. The auth middleware normally guarantees presence.
func requireTenant(w http.ResponseWriter, r *http.Request) (tenant.Context, bool) {
	tc, ok := tenantFromRequest(r)
	if !ok {
		respondJSON(w, http.StatusUnauthorized, errorResponse{Error: apiError{
			Kind:    "unauthorized",
			Message: "missing tenant context",
		}})
	}
	return tc, ok
}

type createProjectRequest struct {
	Name                 string     `json:"name"`
	Description          string     `json:"description"`
	ProjectType          string     `json:"projectType"`
	CustomerID           string     `json:"customerId"`
	PropertyID           *string    `json:"propertyId"`
	PrimaryPartnerID     *string    `json:"primaryPartnerId"`
	StartDate            *time.Time `json:"startDate"`
	ProjectedFinishDate  *time.Time `json:"projectedFinishDate"`
	MaterialDeliveryDate *time.Time `json:"materialDeliveryDate"`
	EstimatedValue       *float64   `json:"estimatedValue"`
	TemplateID           *string    `json:"templateId"`
}

func parseOptionalUUID(field string, value *string) (*uuid.UUID, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*value)
	if err != nil {
		return nil, newValidationError(field, "must be a valid UUID")
	}
	return &id, nil
}

func (req *createProjectRequest) toInput() (store.CreateProjectInput, error) {
	input := store.CreateProjectInput{
		Name:                 req.Name,
		Description:          req.Description,
		ProjectType:          models.ProjectType(req.ProjectType),
		StartDate:            req.StartDate,
		ProjectedFinishDate:  req.ProjectedFinishDate,
		MaterialDeliveryDate: req.MaterialDeliveryDate,
		EstimatedValue:       req.EstimatedValue,
	}

	if req.Name == "" {
		return input, newValidationError("name", "is required")
	}
	if !input.ProjectType.Valid() {
		return input, newValidationError("projectType", "must be one of new-install, upgrade, service, design-only")
	}

	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return input, newValidationError("customerId", "must be a valid UUID")
	}
	input.CustomerID = customerID

	if input.PropertyID, err = parseOptionalUUID("propertyId", req.PropertyID); err != nil {
		return input, err
	}
	if input.PrimaryPartnerID, err = parseOptionalUUID("primaryPartnerId", req.PrimaryPartnerID); err != nil {
		return input, err
	}
	if input.TemplateID, err = parseOptionalUUID("templateId", req.TemplateID); err != nil {
		return input, err
	}

	return input, nil
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	tc, ok := requireTenant(w, r)
	if !ok {
		return
	}

	var req createProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondError(w, err)
		return
	}

	project, err := s.projects.Create(r.Context(), tc, input)
	if err != nil {
		respondError(w, err)
		return
	}

	m := telemetry.GetMetrics()
	m.ProjectsCreatedTotal.Add(r.Context(), 1)
	if input.TemplateID != nil {
		m.TemplateInstantiationsTotal.Add(r.Context(), 1)
	}

	respondJSON(w, http.StatusCreated, project)
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	tc, ok := requireTenant(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	filter := store.ProjectFilter{
		Search: q.Get("search"),
		Page:   intQuery(q.Get("page"), 1),
		Limit:  intQuery(q.Get("limit"), 10),
	}

	if status := q.Get("status"); status != "" {
		ps := models.ProjectStatus(status)
		if !ps.Valid() {
			respondError(w, newValidationError("status", "unknown project status"))
			return
		}
		filter.Status = ps
	}
	var err error
	if filter.PartnerID, err = parseOptionalUUIDQuery("partnerId", q.Get("partnerId")); err != nil {
		respondError(w, err)
		return
	}
	if filter.CustomerID, err = parseOptionalUUIDQuery("customerId", q.Get("customerId")); err != nil {
		respondError(w, err)
		return
	}

	page, err := s.projects.List(r.Context(), tc, filter)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"items":      page.Items,
		"pagination": page.Pagination,
	})
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	tc, ok := requireTenant(w, r)
	if !ok {
		return
	}
	projectID, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	detail, err := s.projects.GetByID(r.Context(), tc, projectID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, detail)
}

type updateProjectRequest struct {
	Name                 *string    `json:"name"`
	Description          *string    `json:"description"`
	Status               *string    `json:"status"`
	ProjectType          *string    `json:"projectType"`
	StartDate            *time.Time `json:"startDate"`
	EndDate              *time.Time `json:"endDate"`
	ProjectedFinishDate  *time.Time `json:"projectedFinishDate"`
	MaterialDeliveryDate *time.Time `json:"materialDeliveryDate"`
	EstimatedValue       *float64   `json:"estimatedValue"`
	ActualCost           *float64   `json:"actualCost"`
	MaterialsCost        *float64   `json:"materialsCost"`
	LaborCost            *float64   `json:"laborCost"`
	HardwareCost         *float64   `json:"hardwareCost"`
	ProgressPercent      *int       `json:"progressPercent"`
	PrimaryPartnerID     *string    `json:"primaryPartnerId"`
}

func (req *updateProjectRequest) toInput() (store.UpdateProjectInput, error) {
	input := store.UpdateProjectInput{
		Name:                 req.Name,
		Description:          req.Description,
		StartDate:            req.StartDate,
		EndDate:              req.EndDate,
		ProjectedFinishDate:  req.ProjectedFinishDate,
		MaterialDeliveryDate: req.MaterialDeliveryDate,
		EstimatedValue:       req.EstimatedValue,
		ActualCost:           req.ActualCost,
		MaterialsCost:        req.MaterialsCost,
		LaborCost:            req.LaborCost,
		HardwareCost:         req.HardwareCost,
		ProgressPercent:      req.ProgressPercent,
	}

	if req.Status != nil {
		status := models.ProjectStatus(*req.Status)
		if !status.Valid() {
			return input, newValidationError("status", "unknown project status")
		}
		input.Status = &status
	}
	if req.ProjectType != nil {
		pt := models.ProjectType(*req.ProjectType)
		if !pt.Valid() {
			return input, newValidationError("projectType", "unknown project type")
		}
		input.ProjectType = &pt
	}
	if req.ProgressPercent != nil && (*req.ProgressPercent < 0 || *req.ProgressPercent > 100) {
		return input, newValidationError("progressPercent", "must be between 0 and 100")
	}

	var err error
	if input.PrimaryPartnerID, err = parseOptionalUUID("primaryPartnerId", req.PrimaryPartnerID); err != nil {
		return input, err
	}

	return input, nil
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	tc, ok := requireTenant(w, r)
	if !ok {
		return
	}
	projectID, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var req updateProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondError(w, err)
		return
	}

	started := time.Now()
	detail, err := s.projects.Update(r.Context(), tc, projectID, input)
	if err != nil {
		respondError(w, err)
		return
	}
	telemetry.GetMetrics().ProjectUpdateDuration.Record(r.Context(), float64(time.Since(started).Milliseconds()))

	respondJSON(w, http.StatusOK, detail)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	tc, ok := requireTenant(w, r)
	if !ok {
		return
	}
	projectID, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := s.projects.Delete(r.Context(), tc, projectID); err != nil {
		respondError(w, err)
		return
	}
	telemetry.GetMetrics().ProjectsDeletedTotal.Add(r.Context(), 1)

	respondJSON(w, http.StatusOK, map[string]string{"message": "project deleted"})
}

type addPartnerRequest struct {
	PartnerID string `json:"partnerId"`
	Role      string `json:"role"`
}

func (s *Server) handleAddProjectPartner(w http.ResponseWriter, r *http.Request) {
	tc, ok := requireTenant(w, r)
	if !ok {
		return
	}
	projectID, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var req addPartnerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	partnerID, err := uuid.Parse(req.PartnerID)
	if err != nil {
		respondError(w, newValidationError("partnerId", "must be a valid UUID"))
		return
	}

	pp, err := s.projects.AddPartner(r.Context(), tc, projectID, partnerID, req.Role)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, pp)
}

func (s *Server) handleRemoveProjectPartner(w http.ResponseWriter, r *http.Request) {
	tc, ok := requireTenant(w, r)
	if !ok {
		return
	}
	projectID, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	partnerID, err := pathUUID(r, "partnerId")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := s.projects.RemovePartner(r.Context(), tc, projectID, partnerID); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "partner removed"})
}

type addMemberRequest struct {
	UserID    string `json:"userId"`
	Role      string `json:"role"`
	IsLaborer bool   `json:"isLaborer"`
}

func (s *Server) handleAddProjectMember(w http.ResponseWriter, r *http.Request) {
	tc, ok := requireTenant(w, r)
	if !ok {
		return
	}
	projectID, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var req addMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		respondError(w, newValidationError("userId", "must be a valid UUID"))
		return
	}
	role := models.MemberRole(req.Role)
	if !role.Valid() {
		respondError(w, newValidationError("role", "must be one of project-manager, technician, laborer, subcontractor"))
		return
	}

	member, err := s.projects.AddMember(r.Context(), tc, projectID, userID, role, req.IsLaborer)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, member)
}
