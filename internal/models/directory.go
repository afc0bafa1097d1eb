package models

import (
	"time"

	"github.com/google/uuid"
)

// Customer is the end client a project is delivered for.
type Customer struct {
	CustomerID     uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organizationId"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Partner is an interior designer, builder or architect the integrator
// collaborates with.
type Partner struct {
	PartnerID      uuid.UUID   `json:"id"`
	OrganizationID uuid.UUID   `json:"organizationId"`
	Type           PartnerType `json:"type"`
	CompanyName    string      `json:"companyName"`
	ContactName    string      `json:"contactName"`
	Email          string      `json:"email"`
	Phone          string      `json:"phone,omitempty"`
	Website        string      `json:"website,omitempty"`
	Notes          string      `json:"notes,omitempty"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
}

// Property is an optional site record a project is attached to.
type Property struct {
	PropertyID     uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organizationId"`
	Name           string    `json:"name"`
	Address        string    `json:"address,omitempty"`
	City           string    `json:"city,omitempty"`
	State          string    `json:"state,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// CustomerSummary is the customer projection embedded in project views.
type CustomerSummary struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// PartnerSummary is the partner projection embedded in project views.
type PartnerSummary struct {
	CompanyName string      `json:"companyName"`
	ContactName string      `json:"contactName"`
	Type        PartnerType `json:"type"`
}

// PropertySummary is the property projection embedded in project views.
type PropertySummary struct {
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
}
