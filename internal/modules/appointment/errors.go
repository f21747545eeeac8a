package appointment

import (
	"net/http"

	"github.com/medlinkhq/medlink/internal/domain"
)

var (
	ErrNotFound = &domain.Error{
		Code:       "ErrAppointmentNotFound",
		HTTPStatus: http.StatusNotFound,
		Title:      "Not Found",
		Message:    "appointment not found",
		TypeURI:    "urn:problem:appointment/err-not-found",
	}

	ErrForbidden = &domain.Error{
		Code:       "ErrForbidden",
		HTTPStatus: http.StatusForbidden,
		Title:      "Forbidden",
		Message:    "you are not a participant of this appointment",
		TypeURI:    "urn:problem:appointment/err-forbidden",
	}

	ErrInvalidStatus = &domain.Error{
		Code:       "ErrInvalidAppointmentStatus",
		HTTPStatus: http.StatusBadRequest,
		Title:      "Bad Request",
		Message:    "unknown appointment status",
		TypeURI:    "urn:problem:appointment/err-invalid-status",
	}

	ErrIllegalTransition = &domain.Error{
		Code:       "ErrIllegalTransition",
		HTTPStatus: http.StatusConflict,
		Title:      "Conflict",
		Message:    "the appointment cannot move to the requested status",
		TypeURI:    "urn:problem:appointment/err-illegal-transition",
	}

	ErrPastSchedule = &domain.Error{
		Code:       "ErrPastSchedule",
		HTTPStatus: http.StatusBadRequest,
		Title:      "Bad Request",
		Message:    "appointments must be scheduled in the future",
		TypeURI:    "urn:problem:appointment/err-past-schedule",
	}

	ErrInternal = &domain.Error{
		Code:       "ErrInternal",
		HTTPStatus: http.StatusInternalServerError,
		Title:      "Internal Server Error",
		Message:    "something went wrong",
		TypeURI:    "urn:problem:appointment/err-internal",
	}
)
