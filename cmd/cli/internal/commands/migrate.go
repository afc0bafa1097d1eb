package commands

import (
	"context"
	"fmt"

	"github.com/cornndawwg/the-icatalyst-crm/internal/logger"
	postgresstore "github.com/cornndawwg/the-icatalyst-crm/internal/store/postgres"
)

type MigrateCmd struct {
	ConnString string `help:"PostgreSQL connection string" required:"" env:"POSTGRES_CONNECTION_STRING"`
}

func (m *MigrateCmd) Run(globals *Globals) error {
	logger.Setup(globals.Debug)
	ctx := context.Background()

	pool, err := postgresstore.NewPool(ctx, &postgresstore.PoolConfig{ConnString: m.ConnString})
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	return postgresstore.RunMigrations(ctx, pool)
}
