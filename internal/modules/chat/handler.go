package chat

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/medlinkhq/medlink/internal/httpx"
	"github.com/medlinkhq/medlink/internal/modules/user"
	"github.com/medlinkhq/medlink/internal/validation"
)

// Handler holds the dependencies for the chat module's HTTP handlers.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes sets up the routing for the chat module.
func (h *Handler) RegisterRoutes(api huma.API, requireAuth func(huma.Context, func(huma.Context))) {
	huma.Register(api, huma.Operation{
		OperationID: "chat-start",
		Method:      http.MethodPost,
		Path:        "/chat",
		Summary:     "Start a chat session with the medical assistant",
		Tags:        []string{"Chat"},
		Middlewares: huma.Middlewares{requireAuth},
	}, h.StartHandler)

	huma.Register(api, huma.Operation{
		OperationID: "chat-list",
		Method:      http.MethodGet,
		Path:        "/chat",
		Summary:     "List the caller's chat sessions",
		Tags:        []string{"Chat"},
		Middlewares: huma.Middlewares{requireAuth},
	}, h.ListHandler)

	huma.Register(api, huma.Operation{
		OperationID: "chat-get",
		Method:      http.MethodGet,
		Path:        "/chat/{sessionId}",
		Summary:     "Get a chat session with its transcript",
		Tags:        []string{"Chat"},
		Middlewares: huma.Middlewares{requireAuth},
	}, h.GetHandler)

	huma.Register(api, huma.Operation{
		OperationID: "chat-send",
		Method:      http.MethodPost,
		Path:        "/chat/{sessionId}/messages",
		Summary:     "Send a message in a chat session",
		Tags:        []string{"Chat"},
		Middlewares: huma.Middlewares{requireAuth},
	}, h.SendHandler)

	huma.Register(api, huma.Operation{
		OperationID: "chat-archive",
		Method:      http.MethodPost,
		Path:        "/chat/{sessionId}/archive",
		Summary:     "Archive a chat session",
		Tags:        []string{"Chat"},
		Middlewares: huma.Middlewares{requireAuth},
	}, h.ArchiveHandler)
}

// --- DTOs ---

type StartRequest struct {
	Body struct {
		Topic   string `json:"topic" validate:"max=200"`
		Message string `json:"message" validate:"max=4000"`
	}
}

type MessageBody struct {
	ID        string      `json:"id"`
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"createdAt"`
}

type SessionBody struct {
	ID        string        `json:"id"`
	Topic     string        `json:"topic,omitempty"`
	Status    SessionStatus `json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
}

type SessionResponse struct {
	Body struct {
		Session  SessionBody   `json:"session"`
		Messages []MessageBody `json:"messages"`
	}
}

type ListResponse struct {
	Body struct {
		Sessions []SessionBody `json:"sessions"`
	}
}

type SendRequest struct {
	SessionID string `path:"sessionId"`
	Body      struct {
		Message string `json:"message" validate:"required,max=4000"`
	}
}

type ExchangeResponse struct {
	Body struct {
		UserMessage      MessageBody `json:"userMessage"`
		AssistantMessage MessageBody `json:"assistantMessage"`
	}
}

type SessionIDRequest struct {
	SessionID string `path:"sessionId"`
}

type ArchiveResponse struct {
	Body struct {
		Message string `json:"message"`
	}
}

func toMessageBody(m *Message) MessageBody {
	return MessageBody{ID: m.ID, Role: m.Role, Content: m.Content, CreatedAt: m.CreatedAt}
}

func toSessionBody(s *Session) SessionBody {
	return SessionBody{ID: s.ID, Topic: s.Topic, Status: s.Status, CreatedAt: s.CreatedAt}
}

func toSessionResponse(swm *SessionWithMessages) *SessionResponse {
	resp := &SessionResponse{}
	resp.Body.Session = toSessionBody(swm.Session)
	resp.Body.Messages = make([]MessageBody, 0, len(swm.Messages))
	for _, m := range swm.Messages {
		resp.Body.Messages = append(resp.Body.Messages, toMessageBody(m))
	}
	return resp
}

// --- Handlers ---

func (h *Handler) StartHandler(ctx context.Context, input *StartRequest) (*SessionResponse, error) {
	if verr := validation.ValidateStruct(&input.Body); verr != nil {
		return nil, httpx.ToProblem(ctx, verr)
	}

	swm, err := h.service.StartSession(ctx, user.AuthFromContext(ctx), input.Body.Topic, input.Body.Message)
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	return toSessionResponse(swm), nil
}

func (h *Handler) ListHandler(ctx context.Context, _ *struct{}) (*ListResponse, error) {
	sessions, err := h.service.ListSessions(ctx, user.AuthFromContext(ctx))
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}

	resp := &ListResponse{}
	resp.Body.Sessions = make([]SessionBody, 0, len(sessions))
	for _, s := range sessions {
		resp.Body.Sessions = append(resp.Body.Sessions, toSessionBody(s))
	}
	return resp, nil
}

func (h *Handler) GetHandler(ctx context.Context, input *SessionIDRequest) (*SessionResponse, error) {
	swm, err := h.service.GetSession(ctx, user.AuthFromContext(ctx), input.SessionID)
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	return toSessionResponse(swm), nil
}

func (h *Handler) SendHandler(ctx context.Context, input *SendRequest) (*ExchangeResponse, error) {
	if verr := validation.ValidateStruct(&input.Body); verr != nil {
		return nil, httpx.ToProblem(ctx, verr)
	}

	exchange, err := h.service.SendMessage(ctx, user.AuthFromContext(ctx), input.SessionID, input.Body.Message)
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}

	resp := &ExchangeResponse{}
	resp.Body.UserMessage = toMessageBody(exchange.UserMessage)
	resp.Body.AssistantMessage = toMessageBody(exchange.AssistantMessage)
	return resp, nil
}

func (h *Handler) ArchiveHandler(ctx context.Context, input *SessionIDRequest) (*ArchiveResponse, error) {
	if err := h.service.ArchiveSession(ctx, user.AuthFromContext(ctx), input.SessionID); err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}

	resp := &ArchiveResponse{}
	resp.Body.Message = "Session archived."
	return resp, nil
}
