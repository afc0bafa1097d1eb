package server

import (
	"net/http"

	"github.com/cornndawwg/the-icatalyst-crm/internal/models"
	"github.com/cornndawwg/the-icatalyst-crm/internal/store"
)

type createCustomerRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

func (s *Server) handleCreateCustomer(w http.ResponseWriter, r *http.Request) {
	tc, ok := requireTenant(w, r)
	if !ok {
		return
	}

	var req createCustomerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if req.FirstName == "" {
		respondError(w, newValidationError("firstName", "is required"))
		return
	}
	if req.LastName == "" {
		respondError(w, newValidationError("lastName", "is required"))
		return
	}
	if req.Email == "" {
		respondError(w, newValidationError("email", "is required"))
		return
	}

	customer, err := s.directory.CreateCustomer(r.Context(), tc, store.CreateCustomerInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, customer)
}

func (s *Server) handleGetCustomer(w http.ResponseWriter, r *http.Request) {
	tc, ok := requireTenant(w, r)
	if !ok {
		return
	}
	customerID, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	customer, err := s.directory.GetCustomer(r.Context(), tc, customerID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, customer)
}

func (s *Server) handleListCustomers(w http.ResponseWriter, r *http.Request) {
	tc, ok := requireTenant(w, r)
	if !ok {
		return
	}

	customers, err := s.directory.ListCustomers(r.Context(), tc)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"items": customers})
}

type createPartnerRequest struct {
	Type        string `json:"type"`
	CompanyName string `json:"companyName"`
	ContactName string `json:"contactName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Website     string `json:"website"`
	Notes       string `json:"notes"`
}

func (s *Server) handleCreatePartner(w http.ResponseWriter, r *http.Request) {
	tc, ok := requireTenant(w, r)
	if !ok {
		return
	}

	var req createPartnerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	partnerType := models.PartnerType(req.Type)
	if !partnerType.Valid() {
		respondError(w, newValidationError("type", "must be one of interior-designer, builder, architect"))
		return
	}
	if req.CompanyName == "" {
		respondError(w, newValidationError("companyName", "is required"))
		return
	}
	if req.ContactName == "" {
		respondError(w, newValidationError("contactName", "is required"))
		return
	}
	if req.Email == "" {
		respondError(w, newValidationError("email", "is required"))
		return
	}

	partner, err := s.directory.CreatePartner(r.Context(), tc, store.CreatePartnerInput{
		Type:        partnerType,
		CompanyName: req.CompanyName,
		ContactName: req.ContactName,
		Email:       req.Email,
		Phone:       req.Phone,
		Website:     req.Website,
		Notes:       req.Notes,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, partner)
}

func (s *Server) handleGetPartner(w http.ResponseWriter, r *http.Request) {
	tc, ok := requireTenant(w, r)
	if !ok {
		return
	}
	partnerID, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	partner, err := s.directory.GetPartner(r.Context(), tc, partnerID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, partner)
}

func (s *Server) handleListPartners(w http.ResponseWriter, r *http.Request) {
	tc, ok := requireTenant(w, r)
	if !ok {
		return
	}

	partners, err := s.directory.ListPartners(r.Context(), tc)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"items": partners})
}
