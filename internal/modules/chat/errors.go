package chat

import (
	"net/http"

	"github.com/medlinkhq/medlink/internal/domain"
)

var (
	ErrNotFound = &domain.Error{
		Code:       "ErrChatSessionNotFound",
		HTTPStatus: http.StatusNotFound,
		Title:      "Not Found",
		Message:    "chat session not found",
		TypeURI:    "urn:problem:chat/err-not-found",
	}

	ErrForbidden = &domain.Error{
		Code:       "ErrForbidden",
		HTTPStatus: http.StatusForbidden,
		Title:      "Forbidden",
		Message:    "this chat session belongs to another user",
		TypeURI:    "urn:problem:chat/err-forbidden",
	}

	ErrSessionArchived = &domain.Error{
		Code:       "ErrSessionArchived",
		HTTPStatus: http.StatusConflict,
		Title:      "Conflict",
		Message:    "archived sessions do not accept new messages",
		TypeURI:    "urn:problem:chat/err-session-archived",
	}

	ErrAssistantUnavailable = &domain.Error{
		Code:       "ErrAssistantUnavailable",
		HTTPStatus: http.StatusServiceUnavailable,
		Title:      "Service Unavailable",
		Message:    "the medical assistant is temporarily unavailable",
		TypeURI:    "urn:problem:chat/err-assistant-unavailable",
	}

	ErrInternal = &domain.Error{
		Code:       "ErrInternal",
		HTTPStatus: http.StatusInternalServerError,
		Title:      "Internal Server Error",
		Message:    "something went wrong",
		TypeURI:    "urn:problem:chat/err-internal",
	}
)
