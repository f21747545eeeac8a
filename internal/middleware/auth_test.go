package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"

	"github.com/medlinkhq/medlink/internal/modules/user"
)

// stubRepo serves exactly one user. Only FindByID is exercised by the
// middleware; the embedded interface panics on anything else.
type stubRepo struct {
	user.Repository
	u *user.User
}

func (s *stubRepo) FindByID(_ context.Context, id string) (*user.User, error) {
	if s.u != nil && s.u.ID == id {
		cp := *s.u
		return &cp, nil
	}
	return nil, user.ErrNotFound
}

type echoResponse struct {
	Body struct {
		UserID string `json:"userId"`
		Role   string `json:"role"`
	}
}

func newTestAPI(t *testing.T, repo user.Repository, tokens *user.TokenIssuer) humatest.TestAPI {
	t.Helper()

	_, api := humatest.New(t)
	auth := NewAuth(tokens, repo, slog.New(slog.NewTextHandler(io.Discard, nil)))

	huma.Register(api, huma.Operation{
		Method:      http.MethodGet,
		Path:        "/protected",
		Middlewares: huma.Middlewares{auth.RequireAuth()},
	}, func(ctx context.Context, _ *struct{}) (*echoResponse, error) {
		ac := user.AuthFromContext(ctx)
		resp := &echoResponse{}
		resp.Body.UserID = ac.User.ID
		resp.Body.Role = string(ac.Role)
		return resp, nil
	})

	huma.Register(api, huma.Operation{
		Method:      http.MethodGet,
		Path:        "/admin-only",
		Middlewares: huma.Middlewares{auth.RequireAuth(), auth.RequireRole(user.RoleAdmin)},
	}, func(ctx context.Context, _ *struct{}) (*echoResponse, error) {
		return &echoResponse{}, nil
	})

	return api
}

func TestRequireAuth(t *testing.T) {
	tokens, err := user.NewTokenIssuer("test-secret")
	if err != nil {
		t.Fatalf("new token issuer: %v", err)
	}
	alice := &user.User{ID: "u-alice", Role: user.RolePatient, Verified: true}
	api := newTestAPI(t, &stubRepo{u: alice}, tokens)

	t.Run("missing header", func(t *testing.T) {
		resp := api.Get("/protected")
		if resp.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", resp.Code)
		}
	})

	t.Run("malformed token", func(t *testing.T) {
		resp := api.Get("/protected", "Authorization: Bearer not-a-token")
		if resp.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", resp.Code)
		}
	})

	t.Run("valid token", func(t *testing.T) {
		token, err := tokens.Issue(alice.ID, alice.Role)
		if err != nil {
			t.Fatalf("issue: %v", err)
		}
		resp := api.Get("/protected", "Authorization: Bearer "+token)
		if resp.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200; body %s", resp.Code, resp.Body.String())
		}
	})

	t.Run("deleted user", func(t *testing.T) {
		token, err := tokens.Issue("u-gone", user.RolePatient)
		if err != nil {
			t.Fatalf("issue: %v", err)
		}
		resp := api.Get("/protected", "Authorization: Bearer "+token)
		if resp.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", resp.Code)
		}
	})
}

func TestRequireRole(t *testing.T) {
	tokens, err := user.NewTokenIssuer("test-secret")
	if err != nil {
		t.Fatalf("new token issuer: %v", err)
	}
	alice := &user.User{ID: "u-alice", Role: user.RolePatient, Verified: true}
	api := newTestAPI(t, &stubRepo{u: alice}, tokens)

	t.Run("wrong role", func(t *testing.T) {
		token, _ := tokens.Issue(alice.ID, user.RolePatient)
		resp := api.Get("/admin-only", "Authorization: Bearer "+token)
		if resp.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", resp.Code)
		}
	})

	t.Run("role comes from the token claim", func(t *testing.T) {
		// The stored user is a Patient, but the token says Admin; the claim
		// wins until the token expires.
		token, _ := tokens.Issue(alice.ID, user.RoleAdmin)
		resp := api.Get("/admin-only", "Authorization: Bearer "+token)
		if resp.Code != http.StatusOK {
			t.Errorf("status = %d, want 200; body %s", resp.Code, resp.Body.String())
		}
	})
}
