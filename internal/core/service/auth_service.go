package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/fabrico/orders-api/internal/api/metrics"
	"github.com/fabrico/orders-api/internal/core/domain"
	"github.com/fabrico/orders-api/internal/core/ports"
)

// AuthService implements registration and the local-first, federated-fallback
// login flow. Accounts provisioned only in the local store (operational roles
// such as deliveryBoy) are resolved without ever reaching the identity
// provider, so they never see provider error codes.
type AuthService struct {
	repo      ports.AccountRepository
	verifier  ports.IdentityVerifier
	jwtSecret string
	tokenTTL  time.Duration
	logger    zerolog.Logger
}

func NewAuthService(repo ports.AccountRepository, verifier ports.IdentityVerifier, jwtSecret string, tokenTTL time.Duration, logger zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{repo: repo, verifier: verifier, jwtSecret: jwtSecret, tokenTTL: tokenTTL, logger: logger}
}

func (s *AuthService) Register(ctx context.Context, name, email, password, role string) (*domain.Account, error) {
	email = domain.NormalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if role == "" {
		role = domain.RoleCustomer
	}
	if !domain.ValidRole(role) {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	account := &domain.Account{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, account)
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Login resolves credentials in two sequential steps:
//
//  1. Local resolution against the account store.
//  2. On any local failure, a federated attempt using an email-only assertion.
//
// The second step runs only after the first has failed; both failing collapses
// into a single ErrInvalidCredentials so callers cannot probe which branch
// rejected them, nor whether the account exists.
//
// Note: a blocked local account still falls through to the federated attempt.
// That mirrors the deployed behavior and is flagged as a likely gap; do not
// change it without a product decision.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.Account, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, account, localErr := s.resolveLocal(ctx, email, password)
	if localErr == nil {
		metrics.LoginsTotal.WithLabelValues("local", "success").Inc()
		return token, account, nil
	}

	s.logger.Debug().Str("email", email).AnErr("reason", localErr).Msg("local resolution failed, trying federated")
	metrics.LoginsTotal.WithLabelValues("local", "failure").Inc()

	// The raw password is never forwarded; the provider is asked to vouch for
	// the email alone, which only succeeds when a separately established
	// federated identity exists for it.
	token, account, fedErr := s.resolveFederated(ctx, ports.IdentityAssertion{Email: email})
	if fedErr == nil {
		metrics.LoginsTotal.WithLabelValues("federated", "success").Inc()
		return token, account, nil
	}
	metrics.LoginsTotal.WithLabelValues("federated", "failure").Inc()

	return "", nil, domain.ErrInvalidCredentials
}

// FirebaseLogin authenticates a federated identity assertion received from
// the client, lazily creating a customer account on first login.
func (s *AuthService) FirebaseLogin(ctx context.Context, assertion ports.IdentityAssertion) (string, *domain.Account, error) {
	token, account, err := s.resolveFederated(ctx, assertion)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("federated", "failure").Inc()
		return "", nil, domain.ErrInvalidCredentials
	}
	metrics.LoginsTotal.WithLabelValues("federated", "success").Inc()
	return token, account, nil
}

// resolveLocal validates email/password against the account store.
// Failure reasons (not found, blocked, bad password) stay internal to the
// orchestrator.
func (s *AuthService) resolveLocal(ctx context.Context, email, password string) (string, *domain.Account, error) {
	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}

	// Blocked wins over password correctness.
	if account.Blocked {
		return "", nil, domain.ErrAccountBlocked
	}

	if !account.HasPassword() {
		return "", nil, domain.ErrBadPassword
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrBadPassword
	}

	token, err := s.generateToken(account)
	if err != nil {
		return "", nil, err
	}
	return token, account, nil
}

// resolveFederated verifies the assertion with the identity provider and maps
// it to a local account, creating one on first login. The block flag is not
// consulted on this path (observed behavior, preserved).
func (s *AuthService) resolveFederated(ctx context.Context, assertion ports.IdentityAssertion) (string, *domain.Account, error) {
	verified, err := s.verifier.Verify(ctx, assertion)
	if err != nil {
		return "", nil, domain.ErrInvalidAssertion
	}

	email := domain.NormalizeEmail(verified.Email)
	account, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrAccountNotFound) {
		account, err = s.createFederatedAccount(ctx, verified, email)
	}
	if err != nil {
		return "", nil, err
	}

	token, err := s.generateToken(account)
	if err != nil {
		return "", nil, err
	}
	return token, account, nil
}

// createFederatedAccount lazy-creates a customer account for a verified
// identity. A concurrent first login hitting the unique email index is
// resolved by re-reading.
func (s *AuthService) createFederatedAccount(ctx context.Context, verified *ports.IdentityAssertion, email string) (*domain.Account, error) {
	now := time.Now().UTC()
	account := &domain.Account{
		Name:        verified.Name,
		Email:       email,
		Role:        domain.RoleCustomer,
		FirebaseUID: verified.UID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.repo.Create(ctx, account)
	if errors.Is(err, domain.ErrAccountExists) {
		return s.repo.FindByEmail(ctx, email)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("email", email).Msg("federated account created")
	return created, nil
}

func (s *AuthService) generateToken(account *domain.Account) (string, error) {
	claims := jwt.MapClaims{
		"sub":   account.ID,
		"email": account.Email,
		"role":  account.Role,
		"exp":   time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
