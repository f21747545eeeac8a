package user

import (
	"context"

	"github.com/medlinkhq/medlink/internal/httpx"
	"github.com/medlinkhq/medlink/internal/validation"
)

// --- DTOs ---

type ForgotPasswordRequest struct {
	Body struct {
		Email string `json:"email" validate:"required,email"`
	}
}

// ForgotPasswordResponse is the same whether or not the email is known, so
// the endpoint cannot be used to probe for accounts.
type ForgotPasswordResponse struct {
	Body struct {
		Message string `json:"message"`
	}
}

type ResetPasswordRequest struct {
	Token string `path:"token"`
	Body  struct {
		Password        string `json:"password" validate:"required,min=8"`
		ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	}
}

type ResetPasswordResponse struct {
	Body struct {
		Message string `json:"message"`
	}
}

// --- Handlers ---

// ForgotPasswordHandler starts the reset flow. The reset link is emailed;
// nothing about account existence is revealed in the response.
func (h *Handler) ForgotPasswordHandler(ctx context.Context, input *ForgotPasswordRequest) (*ForgotPasswordResponse, error) {
	if verr := validation.ValidateStruct(&input.Body); verr != nil {
		return nil, httpx.ToProblem(ctx, verr)
	}

	if err := h.service.InitiatePasswordReset(ctx, input.Body.Email); err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}

	resp := &ForgotPasswordResponse{}
	resp.Body.Message = "If an account exists for that email, a reset link has been sent."
	return resp, nil
}

// ResetPasswordHandler consumes the emailed token and sets the new password.
func (h *Handler) ResetPasswordHandler(ctx context.Context, input *ResetPasswordRequest) (*ResetPasswordResponse, error) {
	if verr := validation.ValidateStruct(&input.Body); verr != nil {
		return nil, httpx.ToProblem(ctx, verr)
	}

	if err := h.service.FinalizePasswordReset(ctx, input.Token, input.Body.Password); err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}

	resp := &ResetPasswordResponse{}
	resp.Body.Message = "Password has been reset."
	return resp, nil
}
