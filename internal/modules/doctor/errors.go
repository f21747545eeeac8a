package doctor

import (
	"net/http"

	"github.com/medlinkhq/medlink/internal/domain"
)

var (
	ErrNotFound = &domain.Error{
		Code:       "ErrDoctorNotFound",
		HTTPStatus: http.StatusNotFound,
		Title:      "Not Found",
		Message:    "doctor profile not found",
		TypeURI:    "urn:problem:doctor/err-not-found",
	}

	ErrProfileExists = &domain.Error{
		Code:       "ErrDoctorProfileExists",
		HTTPStatus: http.StatusConflict,
		Title:      "Conflict",
		Message:    "a profile already exists for this doctor",
		TypeURI:    "urn:problem:doctor/err-profile-exists",
	}

	ErrForbidden = &domain.Error{
		Code:       "ErrForbidden",
		HTTPStatus: http.StatusForbidden,
		Title:      "Forbidden",
		Message:    "you may only manage your own profile",
		TypeURI:    "urn:problem:doctor/err-forbidden",
	}

	ErrInternal = &domain.Error{
		Code:       "ErrInternal",
		HTTPStatus: http.StatusInternalServerError,
		Title:      "Internal Server Error",
		Message:    "something went wrong",
		TypeURI:    "urn:problem:doctor/err-internal",
	}
)
