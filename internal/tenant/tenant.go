// Package tenant carries the resolved organization scope of a request.
// Every store operation requires a tenant.Context; data access without one
// is a compile error, not a forgotten WHERE clause.
package tenant

import (
	"context"

	"github.com/google/uuid"
)

// Context identifies the organization and actor a request operates as.
// It is resolved once by the auth middleware and passed explicitly to
// every store method.
type Context struct {
	OrgID   uuid.UUID
	ActorID uuid.UUID
	Role    string
}

type contextKey int

const tenantContextKey contextKey = iota

// WithContext returns a context.Context carrying the tenant scope.
func WithContext(ctx context.Context, tc Context) context.Context {
	return context.WithValue(ctx, tenantContextKey, tc)
}

// FromContext extracts the tenant scope from the request context.
// The second return value is false for unauthenticated requests.
func FromContext(ctx context.Context) (Context, bool) {
	tc, ok := ctx.Value(tenantContextKey).(Context)
	return tc, ok
}
