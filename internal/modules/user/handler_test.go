package user

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
)

// stubService overrides only the operations a test needs; the embedded
// interface panics on anything else.
type stubService struct {
	Service
	register func(context.Context, RegisterInput) (*AuthResult, error)
	callback func(ctx context.Context, provider, state, code string) (*AuthResult, error)
}

func (s *stubService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	return s.register(ctx, input)
}

func (s *stubService) HandleOAuthCallback(ctx context.Context, provider, state, code string) (*AuthResult, error) {
	return s.callback(ctx, provider, state, code)
}

func newHandlerAPI(t *testing.T, svc Service) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	h := NewHandler(svc, slog.New(slog.NewTextHandler(io.Discard, nil)))
	passthrough := func(ctx huma.Context, next func(huma.Context)) { next(ctx) }
	h.RegisterRoutes(api, passthrough)
	return api
}

func TestRegisterEndpointRespondsCreated(t *testing.T) {
	svc := &stubService{
		register: func(_ context.Context, input RegisterInput) (*AuthResult, error) {
			phone := input.Phone
			return &AuthResult{
				User: &User{
					ID:       "u-1",
					FullName: input.FullName,
					Username: input.Username,
					Email:    input.Email,
					Phone:    &phone,
					Role:     input.Role,
				},
				Token: "issued-token",
			}, nil
		},
	}
	api := newHandlerAPI(t, svc)

	resp := api.Post("/auth/register", map[string]any{
		"fullName": "Ada Okafor",
		"username": "ada",
		"email":    "ada@example.com",
		"phone":    "+2348012345678",
		"password": "password-123",
		"role":     "Patient",
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body %s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), "issued-token") {
		t.Errorf("token missing from response body: %s", resp.Body.String())
	}
}

func TestOAuthCallbackFailureRedirectsWithErrorInQuery(t *testing.T) {
	svc := &stubService{
		callback: func(context.Context, string, string, string) (*AuthResult, error) {
			return nil, ErrOAuthStateInvalid
		},
	}
	api := newHandlerAPI(t, svc)

	resp := api.Get("/auth/google/callback?code=c&state=s")
	if resp.Code != http.StatusTemporaryRedirect {
		t.Fatalf("status = %d, want 307; body %s", resp.Code, resp.Body.String())
	}
	loc := resp.Header().Get("Location")
	if !strings.HasPrefix(loc, "/auth/error?") {
		t.Fatalf("Location = %q, want an /auth/error redirect", loc)
	}
	if !strings.Contains(loc, "error=ErrOAuthStateInvalid") {
		t.Errorf("Location = %q, want the error code in the query", loc)
	}
}

func TestOAuthCallbackSuccessRedirectsWithToken(t *testing.T) {
	svc := &stubService{
		callback: func(context.Context, string, string, string) (*AuthResult, error) {
			return &AuthResult{User: &User{ID: "u-1", Role: RolePatient}, Token: "issued-token"}, nil
		},
	}
	api := newHandlerAPI(t, svc)

	resp := api.Get("/auth/google/callback?code=c&state=s")
	if resp.Code != http.StatusTemporaryRedirect {
		t.Fatalf("status = %d, want 307; body %s", resp.Code, resp.Body.String())
	}
	if loc := resp.Header().Get("Location"); loc != "/auth/success?token=issued-token" {
		t.Errorf("Location = %q", loc)
	}
}
