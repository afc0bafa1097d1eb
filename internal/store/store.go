// Package store defines the storage interfaces for the project lifecycle
// engine. Every method takes a tenant.Context so access is always scoped to
// one organization; a record outside the caller's organization is reported
// as not found, never as forbidden.
package store

import "errors"

// Sentinel errors for store operations. The HTTP layer maps these to the
// stable error kinds of the API contract.
var (
	ErrProjectNotFound     = errors.New("project not found")
	ErrCustomerNotFound    = errors.New("customer not found")
	ErrPartnerNotFound     = errors.New("partner not found")
	ErrPropertyNotFound    = errors.New("property not found")
	ErrTemplateNotFound    = errors.New("template not found")
	ErrTaskNotFound        = errors.New("task not found")
	ErrChangeOrderNotFound = errors.New("change order not found")

	// ErrChangeOrderResolved is returned when resolving a change order that
	// has already reached a terminal state. The cost increment must not be
	// applied a second time.
	ErrChangeOrderResolved = errors.New("change order already resolved")
)

// Pagination describes one page of a list result. Total is computed with
// the same filter predicate as the page itself.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewPagination derives page metadata from a total row count.
func NewPagination(page, limit, total int) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}
