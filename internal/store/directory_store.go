package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/cornndawwg/the-icatalyst-crm/internal/models"
	"github.com/cornndawwg/the-icatalyst-crm/internal/tenant"
)

// CreateCustomerInput is the validated input for a customer record.
type CreateCustomerInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

// CreatePartnerInput is the validated input for a partner record.
type CreatePartnerInput struct {
	Type        models.PartnerType
	CompanyName string
	ContactName string
	Email       string
	Phone       string
	Website     string
	Notes       string
}

// DirectoryStore owns the customer and partner reference records projects
// point at. Project creation resolves customerId/primaryPartnerId through
// this data; cross-tenant references fail as not found.
type DirectoryStore interface {
	CreateCustomer(ctx context.Context, tc tenant.Context, input CreateCustomerInput) (*models.Customer, error)
	GetCustomer(ctx context.Context, tc tenant.Context, customerID uuid.UUID) (*models.Customer, error)
	ListCustomers(ctx context.Context, tc tenant.Context) ([]*models.Customer, error)

	CreatePartner(ctx context.Context, tc tenant.Context, input CreatePartnerInput) (*models.Partner, error)
	GetPartner(ctx context.Context, tc tenant.Context, partnerID uuid.UUID) (*models.Partner, error)
	ListPartners(ctx context.Context, tc tenant.Context) ([]*models.Partner, error)
}
