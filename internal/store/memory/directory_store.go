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

// DirectoryStore implements store.DirectoryStore over shared in-memory
// state.
type DirectoryStore struct {
	*Store
}

// NewDirectoryStore creates an in-memory directory store.
func NewDirectoryStore(s *Store) *DirectoryStore {
	return &DirectoryStore{Store: s}
}

// CreateCustomer inserts a customer record in the tenant.
func (s *DirectoryStore) CreateCustomer(_ context.Context, tc tenant.Context, input store.CreateCustomerInput) (*models.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	c := &models.Customer{
		CustomerID:     newID(),
		OrganizationID: tc.OrgID,
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Email:          input.Email,
		Phone:          input.Phone,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.customers[c.CustomerID] = c
	return cloneCustomer(c), nil
}

// GetCustomer returns a single customer inside the tenant.
func (s *DirectoryStore) GetCustomer(_ context.Context, tc tenant.Context, customerID uuid.UUID) (*models.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.customers[customerID]
	if !ok || c.OrganizationID != tc.OrgID {
		return nil, store.ErrCustomerNotFound
	}
	return cloneCustomer(c), nil
}

// ListCustomers returns the tenant's customers ordered by name.
func (s *DirectoryStore) ListCustomers(_ context.Context, tc tenant.Context) ([]*models.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	customers := []*models.Customer{}
	for _, c := range s.customers {
		if c.OrganizationID == tc.OrgID {
			customers = append(customers, cloneCustomer(c))
		}
	}
	sort.Slice(customers, func(i, j int) bool {
		if customers[i].LastName != customers[j].LastName {
			return customers[i].LastName < customers[j].LastName
		}
		return customers[i].FirstName < customers[j].FirstName
	})
	return customers, nil
}

// CreatePartner inserts a partner record in the tenant.
func (s *DirectoryStore) CreatePartner(_ context.Context, tc tenant.Context, input store.CreatePartnerInput) (*models.Partner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	p := &models.Partner{
		PartnerID:      newID(),
		OrganizationID: tc.OrgID,
		Type:           input.Type,
		CompanyName:    input.CompanyName,
		ContactName:    input.ContactName,
		Email:          input.Email,
		Phone:          input.Phone,
		Website:        input.Website,
		Notes:          input.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.partners[p.PartnerID] = p
	return clonePartner(p), nil
}

// GetPartner returns a single partner inside the tenant.
func (s *DirectoryStore) GetPartner(_ context.Context, tc tenant.Context, partnerID uuid.UUID) (*models.Partner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.partners[partnerID]
	if !ok || p.OrganizationID != tc.OrgID {
		return nil, store.ErrPartnerNotFound
	}
	return clonePartner(p), nil
}

// ListPartners returns the tenant's partners ordered by company name.
func (s *DirectoryStore) ListPartners(_ context.Context, tc tenant.Context) ([]*models.Partner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	partners := []*models.Partner{}
	for _, p := range s.partners {
		if p.OrganizationID == tc.OrgID {
			partners = append(partners, clonePartner(p))
		}
	}
	sort.Slice(partners, func(i, j int) bool {
		return partners[i].CompanyName < partners[j].CompanyName
	})
	return partners, nil
}

// AddProperty inserts a property record in the tenant. Properties are
// referenced by projects but have no routes of their own.
func (s *DirectoryStore) AddProperty(_ context.Context, tc tenant.Context, name, address, city, state string) (*models.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := &models.Property{
		PropertyID:     newID(),
		OrganizationID: tc.OrgID,
		Name:           name,
		Address:        address,
		City:           city,
		State:          state,
		CreatedAt:      time.Now(),
	}
	s.properties[p.PropertyID] = p
	c := *p
	return &c, nil
}
