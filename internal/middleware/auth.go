package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/medlinkhq/medlink/internal/httpx"
	"github.com/medlinkhq/medlink/internal/modules/user"
)

// Auth verifies bearer tokens and loads the authenticated user.
type Auth struct {
	tokens *user.TokenIssuer
	repo   user.Repository
	logger *slog.Logger
}

func NewAuth(tokens *user.TokenIssuer, repo user.Repository, logger *slog.Logger) *Auth {
	return &Auth{tokens: tokens, repo: repo, logger: logger}
}

func writeProblem(ctx huma.Context, err error) {
	perr := httpx.ToProblem(ctx.Context(), err)
	status := http.StatusInternalServerError
	if se, ok := perr.(huma.StatusError); ok {
		status = se.GetStatus()
	}
	ctx.SetHeader("Content-Type", "application/problem+json")
	ctx.SetStatus(status)
	_ = json.NewEncoder(ctx.BodyWriter()).Encode(perr)
}

// RequireAuth returns a huma middleware that rejects requests without a valid
// bearer token. Expired tokens are reported distinctly from malformed ones.
func (a *Auth) RequireAuth() func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		header := ctx.Header("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeProblem(ctx, user.ErrUnauthenticated)
			return
		}

		claims, err := a.tokens.Verify(token)
		if err != nil {
			writeProblem(ctx, err)
			return
		}

		u, err := a.repo.FindByID(ctx.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, user.ErrNotFound) {
				writeProblem(ctx, user.ErrUnauthenticated.WithDetail("user not found"))
				return
			}
			a.logger.Error("auth middleware: user lookup failed", "error", err)
			writeProblem(ctx, user.ErrInternal.WithCause(err))
			return
		}

		ac := &user.AuthContext{User: u, Role: claims.Role}
		next(huma.WithContext(ctx, user.WithAuthContext(ctx.Context(), ac)))
	}
}

// RequireRole returns a middleware that allows only the given roles. It must
// run after RequireAuth.
func (a *Auth) RequireRole(roles ...user.Role) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		ac := user.AuthFromContext(ctx.Context())
		if ac == nil {
			writeProblem(ctx, user.ErrUnauthenticated)
			return
		}
		for _, r := range roles {
			if ac.Role == r {
				next(ctx)
				return
			}
		}
		writeProblem(ctx, user.ErrForbidden)
	}
}
