package main

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/cornndawwg/the-icatalyst-crm/cmd/cli/internal/commands"
)

var (
	version = "dev"
	cli     struct {
		Token   commands.TokenCmd   `cmd:"" help:"Generate an access token"`
		Migrate commands.MigrateCmd `cmd:"" help:"Run database migrations"`
		Debug   bool                `help:"Enable debug mode."`
		Version kong.VersionFlag
	}
)

func main() {
	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))
	err := cmd.Run(&commands.Globals{Debug: cli.Debug, Version: version})
	cmd.FatalIfErrorf(err)
}
