package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/fabrico/orders-api/internal/core/domain"
	"github.com/fabrico/orders-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn      func(ctx context.Context, name, email, password, role string) (*domain.Account, error)
	loginFn         func(ctx context.Context, email, password string) (string, *domain.Account, error)
	firebaseLoginFn func(ctx context.Context, assertion ports.IdentityAssertion) (string, *domain.Account, error)
}

func (s *stubAuthService) Register(ctx context.Context, name, email, password, role string) (*domain.Account, error) {
	return s.registerFn(ctx, name, email, password, role)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.Account, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) FirebaseLogin(ctx context.Context, assertion ports.IdentityAssertion) (string, *domain.Account, error) {
	return s.firebaseLoginFn(ctx, assertion)
}

func postJSON(t *testing.T, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, *domain.Account, error) {
			if email != "admin@gmail.com" || password != "admin123" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return "tok", &domain.Account{Email: email, Role: domain.RoleAdmin}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := postJSON(t, "/api/auth/login", `{"email":"admin@gmail.com","password":"admin123"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Token string `json:"token"`
		User  struct {
			Role string `json:"role"`
		} `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Token != "tok" || resp.User.Role != domain.RoleAdmin {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAuthHandler_Login_FailureIsOpaque(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, *domain.Account, error) {
			// The internal reason must never surface.
			return "", nil, domain.ErrAccountBlocked
		},
	}
	h := NewAuthHandler(stub)

	c, rec := postJSON(t, "/api/auth/login", `{"email":"blocked@example.com","password":"x"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "invalid credentials") {
		t.Fatalf("expected generic error, got %s", rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "blocked") {
		t.Fatalf("internal failure reason leaked: %s", rec.Body.String())
	}
}

func TestAuthHandler_FirebaseLogin(t *testing.T) {
	stub := &stubAuthService{
		firebaseLoginFn: func(ctx context.Context, assertion ports.IdentityAssertion) (string, *domain.Account, error) {
			if assertion.UID != "uid-1" || assertion.Email != "new@example.com" {
				t.Fatalf("unexpected assertion: %+v", assertion)
			}
			return "tok", &domain.Account{Email: assertion.Email, Role: domain.RoleCustomer}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := postJSON(t, "/api/auth/firebase-login", `{"uid":"uid-1","email":"new@example.com","name":"New"}`)
	if err := h.FirebaseLogin(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthHandler_Register_Conflict(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, name, email, password, role string) (*domain.Account, error) {
			return nil, domain.ErrAccountExists
		},
	}
	h := NewAuthHandler(stub)

	c, rec := postJSON(t, "/api/auth/register", `{"name":"Bob","email":"bob@example.com","password":"x","role":"customer"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, name, email, password, role string) (*domain.Account, error) {
			if name != "Alice" || role != domain.RoleCustomer {
				t.Fatalf("unexpected args: %s %s", name, role)
			}
			return &domain.Account{Name: name, Email: email, Role: role}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := postJSON(t, "/api/auth/register", `{"name":"Alice","email":"alice@example.com","password":"secret","role":"customer"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}
