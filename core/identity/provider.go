package identity

import (
	"context"
	"errors"
	"time"
)

var (
	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("missing or invalid token")
	ErrNotFound           = errors.New("account not found")
)

// Account is the minimal identity record the provider keeps.
// Application data (role, progress, ...) lives in the profile store, keyed by ID.
type Account struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"` // UTC
}

// Provider is the identity collaborator: it owns credentials and bearer tokens.
// Every authenticated request costs one Verify round-trip; no session cache.
type Provider interface {
	// SignUp creates an account for the given credentials.
	// Fails with ErrEmailTaken when the email is already registered.
	SignUp(ctx context.Context, email, password, name string) (Account, error)
	// Authenticate verifies credentials and issues a bearer token.
	Authenticate(ctx context.Context, email, password string) (string, error)
	// Verify validates a bearer token and resolves it to its account.
	Verify(ctx context.Context, token string) (Account, error)
}
