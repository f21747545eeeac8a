package user

import (
	"net/http"

	"github.com/medlinkhq/medlink/internal/domain"
)

// DomainError aliases the shared domain error type so sentinels below read
// naturally at call sites within this package.
type DomainError = domain.Error

// --- Pre-defined domain errors ---

var (
	ErrNotFound = &DomainError{
		Code:       "ErrNotFound",
		HTTPStatus: http.StatusNotFound,
		Title:      "Not Found",
		Message:    "user not found",
		TypeURI:    "urn:problem:user/err-not-found",
	}

	// ErrInvalidCredentials is deliberately uniform for unknown email and for
	// wrong password, preventing user enumeration via error differences.
	ErrInvalidCredentials = &DomainError{
		Code:       "ErrInvalidCredentials",
		HTTPStatus: http.StatusUnauthorized,
		Title:      "Unauthorized",
		Message:    "Invalid credentials",
		TypeURI:    "urn:problem:user/err-invalid-credentials",
	}

	ErrUnauthenticated = &DomainError{
		Code:       "ErrUnauthenticated",
		HTTPStatus: http.StatusUnauthorized,
		Title:      "Unauthorized",
		Message:    "authentication required",
		TypeURI:    "urn:problem:user/err-unauthenticated",
	}

	ErrTokenExpired = &DomainError{
		Code:       "ErrTokenExpired",
		HTTPStatus: http.StatusUnauthorized,
		Title:      "Unauthorized",
		Message:    "token has expired",
		TypeURI:    "urn:problem:user/err-token-expired",
	}

	ErrTokenMalformed = &DomainError{
		Code:       "ErrTokenMalformed",
		HTTPStatus: http.StatusUnauthorized,
		Title:      "Unauthorized",
		Message:    "token is malformed or has an invalid signature",
		TypeURI:    "urn:problem:user/err-token-malformed",
	}

	ErrForbidden = &DomainError{
		Code:       "ErrForbidden",
		HTTPStatus: http.StatusForbidden,
		Title:      "Forbidden",
		Message:    "you are not allowed to perform this action",
		TypeURI:    "urn:problem:user/err-forbidden",
	}

	ErrEmailNotVerified = &DomainError{
		Code:       "ErrEmailNotVerified",
		HTTPStatus: http.StatusForbidden,
		Title:      "Forbidden",
		Message:    "account is not verified",
		TypeURI:    "urn:problem:user/err-email-not-verified",
	}

	ErrInvalidOTP = &DomainError{
		Code:       "ErrInvalidOTP",
		HTTPStatus: http.StatusBadRequest,
		Title:      "Bad Request",
		Message:    "invalid or expired verification code",
		TypeURI:    "urn:problem:user/err-invalid-otp",
	}

	ErrResendTooSoon = &DomainError{
		Code:       "ErrResendTooSoon",
		HTTPStatus: http.StatusTooManyRequests,
		Title:      "Too Many Requests",
		Message:    "please wait before requesting another code",
		TypeURI:    "urn:problem:user/err-resend-too-soon",
	}

	ErrTooManyAttempts = &DomainError{
		Code:       "ErrTooManyAttempts",
		HTTPStatus: http.StatusTooManyRequests,
		Title:      "Too Many Requests",
		Message:    "too many invalid attempts",
		TypeURI:    "urn:problem:user/err-too-many-attempts",
	}

	ErrInvalidResetToken = &DomainError{
		Code:       "ErrInvalidResetToken",
		HTTPStatus: http.StatusBadRequest,
		Title:      "Bad Request",
		Message:    "the provided token is invalid or has expired",
		TypeURI:    "urn:problem:user/err-invalid-reset-token",
	}

	ErrEmailExists = &DomainError{
		Code:       "ErrEmailExists",
		HTTPStatus: http.StatusConflict,
		Title:      "Conflict",
		Message:    "a user with this email already exists",
		TypeURI:    "urn:problem:user/err-email-exists",
		Context:    map[string]any{"field": "email"},
	}

	ErrUsernameExists = &DomainError{
		Code:       "ErrUsernameExists",
		HTTPStatus: http.StatusConflict,
		Title:      "Conflict",
		Message:    "this username is already taken",
		TypeURI:    "urn:problem:user/err-username-exists",
		Context:    map[string]any{"field": "username"},
	}

	ErrPhoneExists = &DomainError{
		Code:       "ErrPhoneExists",
		HTTPStatus: http.StatusConflict,
		Title:      "Conflict",
		Message:    "a user with this phone number already exists",
		TypeURI:    "urn:problem:user/err-phone-exists",
		Context:    map[string]any{"field": "phone"},
	}

	ErrNationalIDExists = &DomainError{
		Code:       "ErrNationalIDExists",
		HTTPStatus: http.StatusConflict,
		Title:      "Conflict",
		Message:    "a user with this national id already exists",
		TypeURI:    "urn:problem:user/err-national-id-exists",
		Context:    map[string]any{"field": "nationalId"},
	}

	// ErrConflict is the neutral fallback when a unique constraint fires that
	// no field-specific sentinel covers.
	ErrConflict = &DomainError{
		Code:       "ErrConflict",
		HTTPStatus: http.StatusConflict,
		Title:      "Conflict",
		Message:    "a user with these details already exists",
		TypeURI:    "urn:problem:user/err-conflict",
	}

	ErrInvalidRole = &DomainError{
		Code:       "ErrInvalidRole",
		HTTPStatus: http.StatusBadRequest,
		Title:      "Bad Request",
		Message:    "role must be one of Doctor, Patient or Admin",
		TypeURI:    "urn:problem:user/err-invalid-role",
	}

	ErrOAuthStateInvalid = &DomainError{
		Code:       "ErrOAuthStateInvalid",
		HTTPStatus: http.StatusBadRequest,
		Title:      "Bad Request",
		Message:    "invalid oauth state",
		TypeURI:    "urn:problem:user/err-oauth-state-invalid",
	}

	ErrOAuthStateExpired = &DomainError{
		Code:       "ErrOAuthStateExpired",
		HTTPStatus: http.StatusBadRequest,
		Title:      "Bad Request",
		Message:    "oauth state has expired",
		TypeURI:    "urn:problem:user/err-oauth-state-expired",
	}

	ErrOAuthExchangeFailed = &DomainError{
		Code:       "ErrOAuthExchangeFailed",
		HTTPStatus: http.StatusUnauthorized,
		Title:      "Unauthorized",
		Message:    "oauth authentication failed",
		TypeURI:    "urn:problem:user/err-oauth-exchange-failed",
	}

	ErrOAuthEmailMissing = &DomainError{
		Code:       "ErrOAuthEmailMissing",
		HTTPStatus: http.StatusBadRequest,
		Title:      "Bad Request",
		Message:    "email not provided by oauth provider",
		TypeURI:    "urn:problem:user/err-oauth-email-missing",
	}

	ErrInternal = &DomainError{
		Code:       "ErrInternal",
		HTTPStatus: http.StatusInternalServerError,
		Title:      "Internal Server Error",
		Message:    "internal server error",
		TypeURI:    "urn:problem:user/err-internal",
	}
)
