package user

import (
	"context"

	"github.com/medlinkhq/medlink/internal/httpx"
	"github.com/medlinkhq/medlink/internal/validation"
)

// --- DTOs ---

type SendVerificationRequest struct {
	UserID string `path:"userId"`
}

// SendVerificationResponse acknowledges the send. The code itself travels
// only through the email channel, never through the API.
type SendVerificationResponse struct {
	Body struct {
		Message string `json:"message"`
	}
}

type ConfirmVerificationRequest struct {
	UserID string `path:"userId"`
	Body   struct {
		Code string `json:"code" validate:"required,len=6,numeric"`
	}
}

type ConfirmVerificationResponse struct {
	Body struct {
		Message string `json:"message"`
		Token   string `json:"token"`
	}
}

// --- Handlers ---

// SendVerificationHandler issues a fresh verification code to the user's
// email, replacing any previously active code.
func (h *Handler) SendVerificationHandler(ctx context.Context, input *SendVerificationRequest) (*SendVerificationResponse, error) {
	if err := h.service.SendVerification(ctx, input.UserID); err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}

	resp := &SendVerificationResponse{}
	resp.Body.Message = "Verification code sent."
	return resp, nil
}

// ConfirmVerificationHandler checks the submitted code and marks the account
// verified, returning a fresh token that reflects the new state.
func (h *Handler) ConfirmVerificationHandler(ctx context.Context, input *ConfirmVerificationRequest) (*ConfirmVerificationResponse, error) {
	if verr := validation.ValidateStruct(&input.Body); verr != nil {
		return nil, httpx.ToProblem(ctx, verr)
	}

	token, err := h.service.ConfirmVerification(ctx, input.UserID, input.Body.Code)
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}

	resp := &ConfirmVerificationResponse{}
	resp.Body.Message = "Account verified."
	resp.Body.Token = token
	return resp, nil
}
