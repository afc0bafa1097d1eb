package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cornndawwg/the-icatalyst-crm/internal/models"
	"github.com/cornndawwg/the-icatalyst-crm/internal/store"
	"github.com/cornndawwg/the-icatalyst-crm/internal/tenant"
)

// DirectoryStore implements store.DirectoryStore using PostgreSQL.
type DirectoryStore struct {
	pool *pgxpool.Pool
}

// NewDirectoryStore creates a new PostgreSQL-backed directory store.
func NewDirectoryStore(pool *pgxpool.Pool) *DirectoryStore {
	return &DirectoryStore{pool: pool}
}

const customerSelect = `
	SELECT customer_id, organization_id, first_name, last_name, email,
	       phone, created_at, updated_at
	FROM customers`

const partnerSelect = `
	SELECT partner_id, organization_id, type, company_name, contact_name,
	       email, phone, website, notes, created_at, updated_at
	FROM partners`

func scanCustomer(row pgx.Row) (*models.Customer, error) {
	c := &models.Customer{}
	err := row.Scan(
		&c.CustomerID,
		&c.OrganizationID,
		&c.FirstName,
		&c.LastName,
		&c.Email,
		&c.Phone,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, mapPostgresError(err)
	}
	return c, nil
}

func scanPartner(row pgx.Row) (*models.Partner, error) {
	p := &models.Partner{}
	err := row.Scan(
		&p.PartnerID,
		&p.OrganizationID,
		&p.Type,
		&p.CompanyName,
		&p.ContactName,
		&p.Email,
		&p.Phone,
		&p.Website,
		&p.Notes,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, mapPostgresError(err)
	}
	return p, nil
}

// CreateCustomer inserts a customer record in the tenant.
func (s *DirectoryStore) CreateCustomer(ctx context.Context, tc tenant.Context, input store.CreateCustomerInput) (*models.Customer, error) {
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

	_, err := s.pool.Exec(ctx, `
		INSERT INTO customers (
			customer_id, organization_id, first_name, last_name, email,
			phone, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)
	`, c.CustomerID, c.OrganizationID, c.FirstName, c.LastName, c.Email, c.Phone, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return nil, mapPostgresError(err)
	}

	return c, nil
}

// GetCustomer returns a single customer inside the tenant.
func (s *DirectoryStore) GetCustomer(ctx context.Context, tc tenant.Context, customerID uuid.UUID) (*models.Customer, error) {
	c, err := scanCustomer(s.pool.QueryRow(ctx, customerSelect+`
		WHERE customer_id = $1 AND organization_id = $2
	`, customerID, tc.OrgID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, store.ErrCustomerNotFound
		}
		return nil, err
	}
	return c, nil
}

// ListCustomers returns the tenant's customers ordered by name.
func (s *DirectoryStore) ListCustomers(ctx context.Context, tc tenant.Context) ([]*models.Customer, error) {
	rows, err := s.pool.Query(ctx, customerSelect+`
		WHERE organization_id = $1
		ORDER BY last_name ASC, first_name ASC
	`, tc.OrgID)
	if err != nil {
		return nil, mapPostgresError(err)
	}
	defer rows.Close()

	customers := []*models.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPostgresError(err)
	}

	return customers, nil
}

// CreatePartner inserts a partner record in the tenant.
func (s *DirectoryStore) CreatePartner(ctx context.Context, tc tenant.Context, input store.CreatePartnerInput) (*models.Partner, error) {
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

	_, err := s.pool.Exec(ctx, `
		INSERT INTO partners (
			partner_id, organization_id, type, company_name, contact_name,
			email, phone, website, notes, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		)
	`, p.PartnerID, p.OrganizationID, p.Type, p.CompanyName, p.ContactName,
		p.Email, p.Phone, p.Website, p.Notes, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return nil, mapPostgresError(err)
	}

	return p, nil
}

// GetPartner returns a single partner inside the tenant.
func (s *DirectoryStore) GetPartner(ctx context.Context, tc tenant.Context, partnerID uuid.UUID) (*models.Partner, error) {
	p, err := scanPartner(s.pool.QueryRow(ctx, partnerSelect+`
		WHERE partner_id = $1 AND organization_id = $2
	`, partnerID, tc.OrgID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, store.ErrPartnerNotFound
		}
		return nil, err
	}
	return p, nil
}

// ListPartners returns the tenant's partners ordered by company name.
func (s *DirectoryStore) ListPartners(ctx context.Context, tc tenant.Context) ([]*models.Partner, error) {
	rows, err := s.pool.Query(ctx, partnerSelect+`
		WHERE organization_id = $1
		ORDER BY company_name ASC
	`, tc.OrgID)
	if err != nil {
		return nil, mapPostgresError(err)
	}
	defer rows.Close()

	partners := []*models.Partner{}
	for rows.Next() {
		p, err := scanPartner(rows)
		if err != nil {
			return nil, err
		}
		partners = append(partners, p)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPostgresError(err)
	}

	return partners, nil
}
