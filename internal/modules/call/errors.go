package call

import (
	"net/http"

	"github.com/medlinkhq/medlink/internal/domain"
)

var (
	ErrNotFound = &domain.Error{
		Code:       "ErrCallNotFound",
		HTTPStatus: http.StatusNotFound,
		Title:      "Not Found",
		Message:    "call not found",
		TypeURI:    "urn:problem:call/err-not-found",
	}

	ErrForbidden = &domain.Error{
		Code:       "ErrForbidden",
		HTTPStatus: http.StatusForbidden,
		Title:      "Forbidden",
		Message:    "you are not a participant of this call",
		TypeURI:    "urn:problem:call/err-forbidden",
	}

	ErrIllegalTransition = &domain.Error{
		Code:       "ErrIllegalTransition",
		HTTPStatus: http.StatusConflict,
		Title:      "Conflict",
		Message:    "the call cannot move to the requested status",
		TypeURI:    "urn:problem:call/err-illegal-transition",
	}

	ErrInternal = &domain.Error{
		Code:       "ErrInternal",
		HTTPStatus: http.StatusInternalServerError,
		Title:      "Internal Server Error",
		Message:    "something went wrong",
		TypeURI:    "urn:problem:call/err-internal",
	}
)
