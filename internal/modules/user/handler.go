package user

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

// Handler holds the dependencies for the user module's HTTP handlers.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// NewHandler creates a new handler for the user module.
func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routing for the user module. Protected routes
// receive the bearer-auth middleware from the server wiring.
func (h *Handler) RegisterRoutes(api huma.API, requireAuth func(huma.Context, func(huma.Context))) {
	// --- Authentication ---
	huma.Register(api, huma.Operation{
		OperationID:   "auth-register",
		Method:        http.MethodPost,
		Path:          "/auth/register",
		Summary:       "Register a new user",
		Tags:          []string{"Auth"},
		DefaultStatus: http.StatusCreated,
	}, h.RegisterHandler)

	huma.Register(api, huma.Operation{
		OperationID: "auth-login",
		Method:      http.MethodPost,
		Path:        "/auth/login",
		Summary:     "Log in with email and password",
		Tags:        []string{"Auth"},
	}, h.LoginHandler)

	huma.Register(api, huma.Operation{
		OperationID: "auth-logout",
		Method:      http.MethodPost,
		Path:        "/auth/logout",
		Summary:     "Log out the current user",
		Tags:        []string{"Auth"},
		Middlewares: huma.Middlewares{requireAuth},
	}, h.LogoutHandler)

	huma.Register(api, huma.Operation{
		OperationID: "auth-me",
		Method:      http.MethodGet,
		Path:        "/auth/me",
		Summary:     "Get the current user's profile",
		Tags:        []string{"Auth"},
		Middlewares: huma.Middlewares{requireAuth},
	}, h.MeHandler)

	// --- Email verification ---
	huma.Register(api, huma.Operation{
		OperationID: "auth-send-verification",
		Method:      http.MethodGet,
		Path:        "/auth/{userId}/send-verification",
		Summary:     "Send a verification code to the user's email",
		Tags:        []string{"Auth"},
	}, h.SendVerificationHandler)

	huma.Register(api, huma.Operation{
		OperationID: "auth-verify",
		Method:      http.MethodPost,
		Path:        "/auth/verify/{userId}",
		Summary:     "Confirm a verification code",
		Tags:        []string{"Auth"},
	}, h.ConfirmVerificationHandler)

	// --- Password reset ---
	huma.Register(api, huma.Operation{
		OperationID: "auth-forgot-password",
		Method:      http.MethodPost,
		Path:        "/auth/forgot-password",
		Summary:     "Initiate a password reset",
		Tags:        []string{"Auth"},
	}, h.ForgotPasswordHandler)

	huma.Register(api, huma.Operation{
		OperationID: "auth-reset-password",
		Method:      http.MethodPost,
		Path:        "/auth/reset-password/{token}",
		Summary:     "Reset the password with a one-time token",
		Tags:        []string{"Auth"},
	}, h.ResetPasswordHandler)

	// --- Federated login ---
	huma.Register(api, huma.Operation{
		OperationID: "auth-google",
		Method:      http.MethodGet,
		Path:        "/auth/google",
		Summary:     "Redirect to Google for federated login",
		Tags:        []string{"Auth"},
	}, h.OAuthLoginHandler)

	huma.Register(api, huma.Operation{
		OperationID: "auth-google-callback",
		Method:      http.MethodGet,
		Path:        "/auth/google/callback",
		Summary:     "Handle the Google OAuth callback",
		Tags:        []string{"Auth"},
	}, h.OAuthCallbackHandler)
}

// UserBody is the sanitized user representation returned by the API.
type UserBody struct {
	ID         string    `json:"id"`
	FullName   string    `json:"fullName"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone,omitempty"`
	NationalID string    `json:"nationalId,omitempty"`
	Role       string    `json:"role"`
	Verified   bool      `json:"verified"`
	CreatedAt  time.Time `json:"createdAt"`
}

func toUserBody(u *User) UserBody {
	body := UserBody{
		ID:        u.ID,
		FullName:  u.FullName,
		Username:  u.Username,
		Email:     u.Email,
		Role:      string(u.Role),
		Verified:  u.Verified,
		CreatedAt: u.CreatedAt,
	}
	if u.Phone != nil {
		body.Phone = *u.Phone
	}
	if u.NationalID != nil {
		body.NationalID = *u.NationalID
	}
	return body
}
