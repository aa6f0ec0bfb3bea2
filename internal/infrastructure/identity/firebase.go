// Package identity implements the federated identity provider client.
//
// Verification is fully delegated: the verifier asks the provider's account
// lookup endpoint whether it vouches for the presented identity, and applies
// no local policy of its own.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/fabrico/orders-api/internal/core/domain"
	"github.com/fabrico/orders-api/internal/core/ports"
)

const defaultEndpoint = "https://identitytoolkit.googleapis.com"

var errProviderRejected = errors.New("identity provider rejected assertion")

// Config holds the provider connection settings.
type Config struct {
	// Endpoint overrides the provider base URL; used by tests.
	Endpoint string
	APIKey   string
	Timeout  time.Duration
}

// FirebaseVerifier checks identity assertions against the Firebase account
// lookup API.
type FirebaseVerifier struct {
	endpoint string
	apiKey   string
	client   *http.Client
	log      zerolog.Logger
}

func NewFirebaseVerifier(cfg Config, log zerolog.Logger) *FirebaseVerifier {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &FirebaseVerifier{
		endpoint: endpoint,
		apiKey:   cfg.APIKey,
		client:   &http.Client{Timeout: timeout},
		log:      log,
	}
}

type lookupRequest struct {
	LocalID []string `json:"localId,omitempty"`
	Email   []string `json:"email,omitempty"`
}

type lookupResponse struct {
	Users []struct {
		LocalID     string `json:"localId"`
		Email       string `json:"email"`
		DisplayName string `json:"displayName"`
		Disabled    bool   `json:"disabled"`
	} `json:"users"`
}

// Verify asks the provider to confirm the assertion. Lookup is by UID when
// present, otherwise by email alone (the orchestrator's fallback path).
// The returned assertion carries the provider's canonical identity fields.
func (v *FirebaseVerifier) Verify(ctx context.Context, assertion ports.IdentityAssertion) (*ports.IdentityAssertion, error) {
	if assertion.UID == "" && assertion.Email == "" {
		return nil, errProviderRejected
	}

	body := lookupRequest{}
	if assertion.UID != "" {
		body.LocalID = []string{assertion.UID}
	} else {
		body.Email = []string{domain.NormalizeEmail(assertion.Email)}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal lookup request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/accounts:lookup?key=%s", v.endpoint, v.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build lookup request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("account lookup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		v.log.Debug().Int("status", resp.StatusCode).Msg("identity lookup rejected")
		return nil, errProviderRejected
	}

	var result lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode lookup response: %w", err)
	}
	if len(result.Users) == 0 {
		return nil, errProviderRejected
	}

	user := result.Users[0]
	if user.Disabled {
		return nil, errProviderRejected
	}
	if assertion.UID != "" && user.LocalID != assertion.UID {
		return nil, errProviderRejected
	}
	if assertion.Email != "" && domain.NormalizeEmail(user.Email) != domain.NormalizeEmail(assertion.Email) {
		return nil, errProviderRejected
	}

	name := user.DisplayName
	if name == "" {
		name = assertion.Name
	}
	return &ports.IdentityAssertion{
		UID:   user.LocalID,
		Email: domain.NormalizeEmail(user.Email),
		Name:  name,
	}, nil
}
