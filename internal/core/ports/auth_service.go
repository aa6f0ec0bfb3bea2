package ports

import (
	"context"

	"github.com/fabrico/orders-api/internal/core/domain"
)

// IdentityAssertion carries a federated identity claim received from the
// client. The raw password never travels on this path; when the orchestrator
// falls back after a local failure only the email is populated.
type IdentityAssertion struct {
	UID   string
	Email string
	Name  string
}

// IdentityVerifier delegates assertion verification to the federated
// identity provider. Implementations do not apply local policy (block flags,
// roles); they only answer "does the provider vouch for this identity".
type IdentityVerifier interface {
	Verify(ctx context.Context, assertion IdentityAssertion) (*IdentityAssertion, error)
}

// AuthService defines the authentication use cases.
type AuthService interface {
	Register(ctx context.Context, name, email, password, role string) (*domain.Account, error)
	// Login resolves locally first and falls back to the federated provider
	// on any local failure. Both branches failing yields
	// domain.ErrInvalidCredentials with no indication of which branch failed.
	Login(ctx context.Context, email, password string) (string, *domain.Account, error)
	// FirebaseLogin resolves a verified federated identity, lazily creating
	// a customer account on first login.
	FirebaseLogin(ctx context.Context, assertion IdentityAssertion) (string, *domain.Account, error)
}
