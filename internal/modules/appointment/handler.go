package appointment

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

// Handler holds the dependencies for the appointment module's HTTP handlers.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes sets up the routing for the appointment module. All routes
// are bearer-protected; finer-grained participant checks live in the service.
func (h *Handler) RegisterRoutes(api huma.API, requireAuth func(huma.Context, func(huma.Context))) {
	huma.Register(api, huma.Operation{
		OperationID: "appointment-create",
		Method:      http.MethodPost,
		Path:        "/appointments",
		Summary:     "Book an appointment",
		Tags:        []string{"Appointments"},
		Middlewares: huma.Middlewares{requireAuth},
	}, h.CreateHandler)

	huma.Register(api, huma.Operation{
		OperationID: "appointment-list",
		Method:      http.MethodGet,
		Path:        "/appointments",
		Summary:     "List all appointments",
		Tags:        []string{"Appointments"},
		Middlewares: huma.Middlewares{requireAuth},
	}, h.ListAllHandler)

	huma.Register(api, huma.Operation{
		OperationID: "appointment-get",
		Method:      http.MethodGet,
		Path:        "/appointments/{appointmentId}",
		Summary:     "Get an appointment",
		Tags:        []string{"Appointments"},
		Middlewares: huma.Middlewares{requireAuth},
	}, h.GetHandler)

	huma.Register(api, huma.Operation{
		OperationID: "appointment-update-status",
		Method:      http.MethodPatch,
		Path:        "/appointments/{appointmentId}",
		Summary:     "Update an appointment's status",
		Tags:        []string{"Appointments"},
		Middlewares: huma.Middlewares{requireAuth},
	}, h.UpdateStatusHandler)

	huma.Register(api, huma.Operation{
		OperationID: "appointment-delete",
		Method:      http.MethodDelete,
		Path:        "/appointments/{appointmentId}",
		Summary:     "Delete an appointment",
		Tags:        []string{"Appointments"},
		Middlewares: huma.Middlewares{requireAuth},
	}, h.DeleteHandler)

	huma.Register(api, huma.Operation{
		OperationID: "appointment-list-by-patient",
		Method:      http.MethodGet,
		Path:        "/appointments/patient/{patientId}",
		Summary:     "List a patient's appointments",
		Tags:        []string{"Appointments"},
		Middlewares: huma.Middlewares{requireAuth},
	}, h.ListByPatientHandler)

	huma.Register(api, huma.Operation{
		OperationID: "appointment-list-by-doctor",
		Method:      http.MethodGet,
		Path:        "/appointments/doctor/{doctorId}",
		Summary:     "List a doctor's appointments",
		Tags:        []string{"Appointments"},
		Middlewares: huma.Middlewares{requireAuth},
	}, h.ListByDoctorHandler)
}

// --- DTOs ---

type CreateRequest struct {
	Body struct {
		PatientID   string    `json:"patientId,omitempty"`
		DoctorID    string    `json:"doctorId" validate:"required,uuid"`
		ScheduledAt time.Time `json:"scheduledAt" validate:"required"`
		Condition   string    `json:"condition" validate:"max=2000"`
	}
}

type AppointmentBody struct {
	ID          string    `json:"id"`
	PatientID   string    `json:"patientId"`
	DoctorID    string    `json:"doctorId"`
	ScheduledAt time.Time `json:"scheduledAt"`
	Condition   string    `json:"condition,omitempty"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

type AppointmentResponse struct {
	Body AppointmentBody
}

type ListResponse struct {
	Body struct {
		Appointments []AppointmentBody `json:"appointments"`
	}
}

type GetRequest struct {
	AppointmentID string `path:"appointmentId"`
}

type UpdateStatusRequest struct {
	AppointmentID string `path:"appointmentId"`
	Body          struct {
		Status string `json:"status" validate:"required,oneof=scheduled completed cancelled"`
	}
}

type DeleteResponse struct {
	Body struct {
		Message string `json:"message"`
	}
}

func toAppointmentBody(a *Appointment) AppointmentBody {
	return AppointmentBody{
		ID:          a.ID,
		PatientID:   a.PatientID,
		DoctorID:    a.DoctorID,
		ScheduledAt: a.ScheduledAt,
		Condition:   a.Condition,
		Status:      a.Status,
		CreatedAt:   a.CreatedAt,
	}
}

func toListResponse(appts []*Appointment) *ListResponse {
	resp := &ListResponse{}
	resp.Body.Appointments = make([]AppointmentBody, 0, len(appts))
	for _, a := range appts {
		resp.Body.Appointments = append(resp.Body.Appointments, toAppointmentBody(a))
	}
	return resp
}

// --- Handlers ---

func (h *Handler) CreateHandler(ctx context.Context, input *CreateRequest) (*AppointmentResponse, error) {
	if verr := validation.ValidateStruct(&input.Body); verr != nil {
		return nil, httpx.ToProblem(ctx, verr)
	}

	a, err := h.service.Create(ctx, user.AuthFromContext(ctx), CreateInput{
		PatientID:   input.Body.PatientID,
		DoctorID:    input.Body.DoctorID,
		ScheduledAt: input.Body.ScheduledAt,
		Condition:   input.Body.Condition,
	})
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	return &AppointmentResponse{Body: toAppointmentBody(a)}, nil
}

func (h *Handler) ListAllHandler(ctx context.Context, _ *struct{}) (*ListResponse, error) {
	appts, err := h.service.ListAll(ctx, user.AuthFromContext(ctx))
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	return toListResponse(appts), nil
}

func (h *Handler) GetHandler(ctx context.Context, input *GetRequest) (*AppointmentResponse, error) {
	a, err := h.service.Get(ctx, user.AuthFromContext(ctx), input.AppointmentID)
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	return &AppointmentResponse{Body: toAppointmentBody(a)}, nil
}

func (h *Handler) UpdateStatusHandler(ctx context.Context, input *UpdateStatusRequest) (*AppointmentResponse, error) {
	if verr := validation.ValidateStruct(&input.Body); verr != nil {
		return nil, httpx.ToProblem(ctx, verr)
	}

	a, err := h.service.UpdateStatus(ctx, user.AuthFromContext(ctx), input.AppointmentID, Status(input.Body.Status))
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	return &AppointmentResponse{Body: toAppointmentBody(a)}, nil
}

func (h *Handler) DeleteHandler(ctx context.Context, input *GetRequest) (*DeleteResponse, error) {
	if err := h.service.Delete(ctx, user.AuthFromContext(ctx), input.AppointmentID); err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}

	resp := &DeleteResponse{}
	resp.Body.Message = "Appointment deleted."
	return resp, nil
}

func (h *Handler) ListByPatientHandler(ctx context.Context, input *struct {
	PatientID string `path:"patientId"`
}) (*ListResponse, error) {
	appts, err := h.service.ListByPatient(ctx, user.AuthFromContext(ctx), input.PatientID)
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	return toListResponse(appts), nil
}

func (h *Handler) ListByDoctorHandler(ctx context.Context, input *struct {
	DoctorID string `path:"doctorId"`
}) (*ListResponse, error) {
	appts, err := h.service.ListByDoctor(ctx, user.AuthFromContext(ctx), input.DoctorID)
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	return toListResponse(appts), nil
}
