package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cornndawwg/the-icatalyst-crm/internal/auth"
)

type TokenCmd struct {
	Org        string        `help:"Organization ID" required:""`
	User       string        `help:"User ID" required:""`
	Role       string        `help:"Role claim" default:"admin"`
	TTL        time.Duration `help:"Token lifetime" default:"1h"`
	SigningKey string        `help:"JWT signing key" required:"" env:"ICATALYST_JWT_SECRET"`
}

func (t *TokenCmd) Run(_ context.Context) error {
	orgID, err := uuid.Parse(t.Org)
	if err != nil {
		return fmt.Errorf("invalid organization ID: %w", err)
	}
	userID, err := uuid.Parse(t.User)
	if err != nil {
		return fmt.Errorf("invalid user ID: %w", err)
	}

	token, err := auth.SignToken(t.SigningKey, orgID, userID, t.Role, t.TTL)
	if err != nil {
		return err
	}

	fmt.Println(token)
	return nil
}
