package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/cornndawwg/the-icatalyst-crm/internal/store"
)

func TestMapPostgresError(t *testing.T) {
	t.Run("nil passes through", func(t *testing.T) {
		require.NoError(t, mapPostgresError(nil))
	})

	t.Run("non-postgres error passes through unchanged", func(t *testing.T) {
		err := errors.New("plain error")
		require.Equal(t, err, mapPostgresError(err))
	})

	t.Run("sentinels survive wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("loading project: %w", store.ErrProjectNotFound)
		require.ErrorIs(t, mapPostgresError(wrapped), store.ErrProjectNotFound)
	})

	t.Run("foreign key violation maps to project not found", func(t *testing.T) {
		err := mapPostgresError(&pgconn.PgError{
			Code:   pgerrcode.ForeignKeyViolation,
			Detail: "Key (project_id) is not present in table projects.",
		})
		require.ErrorIs(t, err, store.ErrProjectNotFound)
	})

	t.Run("unique violation names the constraint", func(t *testing.T) {
		err := mapPostgresError(&pgconn.PgError{
			Code:           pgerrcode.UniqueViolation,
			ConstraintName: "project_partners_pkey",
		})
		require.Error(t, err)
		require.Contains(t, err.Error(), "project_partners_pkey")
	})

	t.Run("serialization failure is marked retryable", func(t *testing.T) {
		err := mapPostgresError(&pgconn.PgError{Code: pgerrcode.SerializationFailure})
		require.Error(t, err)
		require.Contains(t, err.Error(), "retryable")
	})
}

func TestFormatCostImpact(t *testing.T) {
	require.Equal(t, "+$500.00", formatCostImpact(500))
	require.Equal(t, "-$750.00", formatCostImpact(-750))
	require.Equal(t, "+$0.00", formatCostImpact(0))
}
