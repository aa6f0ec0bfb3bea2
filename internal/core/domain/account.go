package domain

import (
	"errors"
	"strings"
	"time"
)

const (
	RoleCustomer    = "customer"
	RoleDeliveryBoy = "deliveryBoy"
	RoleAdmin       = "admin"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrAccountExists   = errors.New("account already exists")
	ErrAccountBlocked  = errors.New("account blocked")
	ErrBadPassword     = errors.New("password mismatch")
	// ErrInvalidAssertion is returned when the identity provider rejects a
	// federated identity assertion.
	ErrInvalidAssertion = errors.New("invalid identity assertion")
	// ErrInvalidCredentials is the only authentication failure that crosses
	// the HTTP boundary; resolver-specific reasons stay internal.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Account models an authenticated actor. PasswordHash is empty for accounts
// provisioned through the federated identity provider.
type Account struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Blocked      bool      `json:"is_blocked"`
	FirebaseUID  string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasPassword reports whether the account can be resolved locally at all.
func (a *Account) HasPassword() bool {
	return a.PasswordHash != ""
}

// ValidRole reports whether role is one of the enumerated access levels.
func ValidRole(role string) bool {
	switch role {
	case RoleCustomer, RoleDeliveryBoy, RoleAdmin:
		return true
	}
	return false
}

// NormalizeEmail canonicalizes an email for lookups. Emails are
// case-insensitive throughout the system.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
