package user

import (
	"context"

	"github.com/medlinkhq/medlink/internal/httpx"
	"github.com/medlinkhq/medlink/internal/validation"
)

// --- DTOs ---

// RegisterRequest defines the structure for the user registration request body.
type RegisterRequest struct {
	Body struct {
		FullName   string `json:"fullName" validate:"required,min=2"`
		Username   string `json:"username" validate:"required,min=3,max=32"`
		Email      string `json:"email" validate:"required,email"`
		Phone      string `json:"phone" validate:"required,e164"`
		NationalID string `json:"nationalId,omitempty" validate:"omitempty,min=4"`
		Password   string `json:"password" validate:"required,min=8"`
		Role       string `json:"role" validate:"required,oneof=Doctor Patient Admin"`
	}
}

// AuthResponse is shared by register, login and verification confirm: the
// sanitized user plus a fresh bearer token.
type AuthResponse struct {
	Body struct {
		User  UserBody `json:"user"`
		Token string   `json:"token"`
	}
	Authorization string `header:"Authorization"`
}

type LoginRequest struct {
	Body struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}
}

type LogoutResponse struct {
	Body struct {
		Message string `json:"message"`
	}
}

type MeResponse struct {
	Body UserBody
}

func toAuthResponse(result *AuthResult) *AuthResponse {
	resp := &AuthResponse{}
	resp.Body.User = toUserBody(result.User)
	resp.Body.Token = result.Token
	resp.Authorization = "Bearer " + result.Token
	return resp
}

// --- Handlers ---

// RegisterHandler handles the user registration endpoint.
func (h *Handler) RegisterHandler(ctx context.Context, input *RegisterRequest) (*AuthResponse, error) {
	if verr := validation.ValidateStruct(&input.Body); verr != nil {
		return nil, httpx.ToProblem(ctx, verr)
	}

	result, err := h.service.Register(ctx, RegisterInput{
		FullName:   input.Body.FullName,
		Username:   input.Body.Username,
		Email:      input.Body.Email,
		Phone:      input.Body.Phone,
		NationalID: input.Body.NationalID,
		Password:   input.Body.Password,
		Role:       Role(input.Body.Role),
	})
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}

	h.logger.Info("user registered", "user_id", result.User.ID, "role", result.User.Role)
	return toAuthResponse(result), nil
}

// LoginHandler handles the email and password login endpoint.
func (h *Handler) LoginHandler(ctx context.Context, input *LoginRequest) (*AuthResponse, error) {
	if verr := validation.ValidateStruct(&input.Body); verr != nil {
		return nil, httpx.ToProblem(ctx, verr)
	}

	result, err := h.service.Login(ctx, input.Body.Email, input.Body.Password)
	if err != nil {
		h.logger.Warn("login attempt failed", "email", input.Body.Email, "error", err)
		return nil, httpx.ToProblem(ctx, err)
	}

	return toAuthResponse(result), nil
}

// LogoutHandler records the logout time for the authenticated user. Issued
// tokens remain valid until expiry.
func (h *Handler) LogoutHandler(ctx context.Context, _ *struct{}) (*LogoutResponse, error) {
	ac := AuthFromContext(ctx)
	if ac == nil {
		return nil, httpx.ToProblem(ctx, ErrUnauthenticated)
	}

	if err := h.service.Logout(ctx, ac.User.ID); err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}

	resp := &LogoutResponse{}
	resp.Body.Message = "Logged out successfully."
	return resp, nil
}

// MeHandler returns the authenticated user's profile.
func (h *Handler) MeHandler(ctx context.Context, _ *struct{}) (*MeResponse, error) {
	ac := AuthFromContext(ctx)
	if ac == nil {
		return nil, httpx.ToProblem(ctx, ErrUnauthenticated)
	}

	u, err := h.service.GetProfile(ctx, ac.User.ID)
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}

	return &MeResponse{Body: toUserBody(u)}, nil
}
