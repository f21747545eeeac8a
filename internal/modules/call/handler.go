package call

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

// Handler holds the dependencies for the call module's HTTP handlers.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes sets up the routing for the call module.
func (h *Handler) RegisterRoutes(api huma.API, requireAuth func(huma.Context, func(huma.Context))) {
	huma.Register(api, huma.Operation{
		OperationID: "call-initialize",
		Method:      http.MethodPost,
		Path:        "/calls",
		Summary:     "Initialize a call session",
		Tags:        []string{"Calls"},
		Middlewares: huma.Middlewares{requireAuth},
	}, h.InitializeHandler)

	huma.Register(api, huma.Operation{
		OperationID: "call-history",
		Method:      http.MethodGet,
		Path:        "/calls/history",
		Summary:     "List the caller's call history",
		Tags:        []string{"Calls"},
		Middlewares: huma.Middlewares{requireAuth},
	}, h.HistoryHandler)

	huma.Register(api, huma.Operation{
		OperationID: "call-get",
		Method:      http.MethodGet,
		Path:        "/calls/{callId}",
		Summary:     "Get call details",
		Tags:        []string{"Calls"},
		Middlewares: huma.Middlewares{requireAuth},
	}, h.GetHandler)

	huma.Register(api, huma.Operation{
		OperationID: "call-start",
		Method:      http.MethodPost,
		Path:        "/calls/{callId}/start",
		Summary:     "Start a scheduled call",
		Tags:        []string{"Calls"},
		Middlewares: huma.Middlewares{requireAuth},
	}, h.StartHandler)

	huma.Register(api, huma.Operation{
		OperationID: "call-end",
		Method:      http.MethodPost,
		Path:        "/calls/{callId}/end",
		Summary:     "End an ongoing call",
		Tags:        []string{"Calls"},
		Middlewares: huma.Middlewares{requireAuth},
	}, h.EndHandler)

	huma.Register(api, huma.Operation{
		OperationID: "call-cancel",
		Method:      http.MethodPost,
		Path:        "/calls/{callId}/cancel",
		Summary:     "Cancel a scheduled call",
		Tags:        []string{"Calls"},
		Middlewares: huma.Middlewares{requireAuth},
	}, h.CancelHandler)

	huma.Register(api, huma.Operation{
		OperationID: "call-missed",
		Method:      http.MethodPost,
		Path:        "/calls/{callId}/missed",
		Summary:     "Mark a scheduled call as missed",
		Tags:        []string{"Calls"},
		Middlewares: huma.Middlewares{requireAuth},
	}, h.MissedHandler)
}

// --- DTOs ---

type InitializeRequest struct {
	Body struct {
		AppointmentID string `json:"appointmentId,omitempty" validate:"omitempty,uuid"`
		DoctorID      string `json:"doctorId" validate:"required,uuid"`
		PatientID     string `json:"patientId" validate:"required,uuid"`
		Video         bool   `json:"video"`
		MediaURL      string `json:"mediaUrl" validate:"max=2048"`
	}
}

type CallBody struct {
	ID            string     `json:"id"`
	AppointmentID *string    `json:"appointmentId,omitempty"`
	DoctorID      string     `json:"doctorId"`
	PatientID     string     `json:"patientId"`
	Video         bool       `json:"video"`
	MediaURL      string     `json:"mediaUrl,omitempty"`
	Status        Status     `json:"status"`
	StartedAt     *time.Time `json:"startedAt,omitempty"`
	EndedAt       *time.Time `json:"endedAt,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	RecordingURL  string     `json:"recordingUrl,omitempty"`
	DurationSecs  float64    `json:"durationSeconds"`
	CreatedAt     time.Time  `json:"createdAt"`
}

type CallResponse struct {
	Body CallBody
}

type HistoryResponse struct {
	Body struct {
		Calls []CallBody `json:"calls"`
	}
}

type CallIDRequest struct {
	CallID string `path:"callId"`
}

type EndRequest struct {
	CallID string `path:"callId"`
	Body   struct {
		Notes        string `json:"notes" validate:"max=4000"`
		RecordingURL string `json:"recordingUrl" validate:"max=2048"`
	}
}

func toCallBody(c *Call) CallBody {
	return CallBody{
		ID:            c.ID,
		AppointmentID: c.AppointmentID,
		DoctorID:      c.DoctorID,
		PatientID:     c.PatientID,
		Video:         c.Video,
		MediaURL:      c.MediaURL,
		Status:        c.Status,
		StartedAt:     c.StartedAt,
		EndedAt:       c.EndedAt,
		Notes:         c.Notes,
		RecordingURL:  c.RecordingURL,
		DurationSecs:  c.Duration().Seconds(),
		CreatedAt:     c.CreatedAt,
	}
}

// --- Handlers ---

func (h *Handler) InitializeHandler(ctx context.Context, input *InitializeRequest) (*CallResponse, error) {
	if verr := validation.ValidateStruct(&input.Body); verr != nil {
		return nil, httpx.ToProblem(ctx, verr)
	}

	c, err := h.service.Initialize(ctx, user.AuthFromContext(ctx), InitializeInput{
		AppointmentID: input.Body.AppointmentID,
		DoctorID:      input.Body.DoctorID,
		PatientID:     input.Body.PatientID,
		Video:         input.Body.Video,
		MediaURL:      input.Body.MediaURL,
	})
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	return &CallResponse{Body: toCallBody(c)}, nil
}

func (h *Handler) HistoryHandler(ctx context.Context, _ *struct{}) (*HistoryResponse, error) {
	calls, err := h.service.History(ctx, user.AuthFromContext(ctx))
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}

	resp := &HistoryResponse{}
	resp.Body.Calls = make([]CallBody, 0, len(calls))
	for _, c := range calls {
		resp.Body.Calls = append(resp.Body.Calls, toCallBody(c))
	}
	return resp, nil
}

func (h *Handler) GetHandler(ctx context.Context, input *CallIDRequest) (*CallResponse, error) {
	c, err := h.service.Get(ctx, user.AuthFromContext(ctx), input.CallID)
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	return &CallResponse{Body: toCallBody(c)}, nil
}

func (h *Handler) StartHandler(ctx context.Context, input *CallIDRequest) (*CallResponse, error) {
	c, err := h.service.Start(ctx, user.AuthFromContext(ctx), input.CallID)
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	return &CallResponse{Body: toCallBody(c)}, nil
}

func (h *Handler) EndHandler(ctx context.Context, input *EndRequest) (*CallResponse, error) {
	if verr := validation.ValidateStruct(&input.Body); verr != nil {
		return nil, httpx.ToProblem(ctx, verr)
	}

	c, err := h.service.End(ctx, user.AuthFromContext(ctx), input.CallID, EndInput{
		Notes:        input.Body.Notes,
		RecordingURL: input.Body.RecordingURL,
	})
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	return &CallResponse{Body: toCallBody(c)}, nil
}

func (h *Handler) CancelHandler(ctx context.Context, input *CallIDRequest) (*CallResponse, error) {
	c, err := h.service.Cancel(ctx, user.AuthFromContext(ctx), input.CallID)
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	return &CallResponse{Body: toCallBody(c)}, nil
}

func (h *Handler) MissedHandler(ctx context.Context, input *CallIDRequest) (*CallResponse, error) {
	c, err := h.service.MarkMissed(ctx, user.AuthFromContext(ctx), input.CallID)
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	return &CallResponse{Body: toCallBody(c)}, nil
}
