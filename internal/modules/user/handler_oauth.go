package user

import (
	"context"
	"errors"
	"net/url"

	"github.com/medlinkhq/medlink/internal/httpx"
)

// --- DTOs ---

// OAuthLoginResponse redirects the browser to the provider's consent page.
type OAuthLoginResponse struct {
	Status   int
	Location string `header:"Location"`
}

type OAuthCallbackRequest struct {
	Code  string `query:"code"`
	State string `query:"state"`
}

// OAuthCallbackResponse redirects back to the frontend with the issued token
// in the query string.
type OAuthCallbackResponse struct {
	Status   int
	Location string `header:"Location"`
}

// --- Handlers ---

// OAuthLoginHandler starts the Google login flow with a temporary redirect.
func (h *Handler) OAuthLoginHandler(ctx context.Context, _ *struct{}) (*OAuthLoginResponse, error) {
	redirectURL, err := h.service.InitiateOAuthLogin(ctx, "google")
	if err != nil {
		h.logger.Error("failed to initiate oauth login", "error", err)
		return nil, httpx.ToProblem(ctx, err)
	}

	return &OAuthLoginResponse{Status: 307, Location: redirectURL}, nil
}

// OAuthCallbackHandler completes the Google flow and hands the result to the
// frontend via a redirect: the token in the query on success, a stable error
// code in the query on failure. The browser is mid-redirect here, so a problem
// document would dead-end the user.
func (h *Handler) OAuthCallbackHandler(ctx context.Context, input *OAuthCallbackRequest) (*OAuthCallbackResponse, error) {
	result, err := h.service.HandleOAuthCallback(ctx, "google", input.State, input.Code)
	if err != nil {
		h.logger.Warn("oauth callback failed", "error", err)
		code := "OAuthFailed"
		var de *DomainError
		if errors.As(err, &de) {
			code = de.Code
		}
		q := url.Values{"error": {code}}
		return &OAuthCallbackResponse{
			Status:   307,
			Location: "/auth/error?" + q.Encode(),
		}, nil
	}

	q := url.Values{"token": {result.Token}}
	return &OAuthCallbackResponse{
		Status:   307,
		Location: "/auth/success?" + q.Encode(),
	}, nil
}
