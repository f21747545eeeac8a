package doctor

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

// Handler holds the dependencies for the doctor module's HTTP handlers.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes sets up the routing for the doctor module. All routes are
// bearer-protected; create and update additionally require the Doctor or
// Admin role.
func (h *Handler) RegisterRoutes(api huma.API, requireAuth, requireDoctorRole func(huma.Context, func(huma.Context))) {
	huma.Register(api, huma.Operation{
		OperationID: "doctor-create",
		Method:      http.MethodPost,
		Path:        "/doctors",
		Summary:     "Create a doctor profile",
		Tags:        []string{"Doctors"},
		Middlewares: huma.Middlewares{requireAuth, requireDoctorRole},
	}, h.CreateHandler)

	huma.Register(api, huma.Operation{
		OperationID: "doctor-list",
		Method:      http.MethodGet,
		Path:        "/doctors",
		Summary:     "List doctor profiles",
		Tags:        []string{"Doctors"},
		Middlewares: huma.Middlewares{requireAuth},
	}, h.ListHandler)

	huma.Register(api, huma.Operation{
		OperationID: "doctor-nearby",
		Method:      http.MethodGet,
		Path:        "/doctors/nearby",
		Summary:     "Find doctors near a location",
		Tags:        []string{"Doctors"},
		Middlewares: huma.Middlewares{requireAuth},
	}, h.NearbyHandler)

	huma.Register(api, huma.Operation{
		OperationID: "doctor-get",
		Method:      http.MethodGet,
		Path:        "/doctors/{doctorId}",
		Summary:     "Get a doctor profile",
		Tags:        []string{"Doctors"},
		Middlewares: huma.Middlewares{requireAuth},
	}, h.GetHandler)

	huma.Register(api, huma.Operation{
		OperationID: "doctor-update",
		Method:      http.MethodPatch,
		Path:        "/doctors/{doctorId}",
		Summary:     "Update a doctor profile",
		Tags:        []string{"Doctors"},
		Middlewares: huma.Middlewares{requireAuth, requireDoctorRole},
	}, h.UpdateHandler)

	huma.Register(api, huma.Operation{
		OperationID: "doctor-delete",
		Method:      http.MethodDelete,
		Path:        "/doctors/{doctorId}",
		Summary:     "Delete a doctor profile",
		Tags:        []string{"Doctors"},
		Middlewares: huma.Middlewares{requireAuth, requireDoctorRole},
	}, h.DeleteHandler)

	huma.Register(api, huma.Operation{
		OperationID: "doctor-slots",
		Method:      http.MethodGet,
		Path:        "/doctors/{doctorId}/slots",
		Summary:     "List a doctor's available slots",
		Tags:        []string{"Doctors"},
		Middlewares: huma.Middlewares{requireAuth},
	}, h.SlotsHandler)
}

// --- DTOs ---

type profileBody struct {
	Specialization  string  `json:"specialization" validate:"required,min=2"`
	Bio             string  `json:"bio" validate:"max=2000"`
	ConsultationFee float64 `json:"consultationFee" validate:"gte=0"`
	AvailableSlots  []Slot  `json:"availableSlots"`
	Longitude       float64 `json:"longitude" validate:"gte=-180,lte=180"`
	Latitude        float64 `json:"latitude" validate:"gte=-90,lte=90"`
}

type CreateRequest struct {
	Body struct {
		profileBody
		UserID string `json:"userId,omitempty"`
	}
}

type DoctorBody struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	Specialization  string    `json:"specialization"`
	Bio             string    `json:"bio,omitempty"`
	ConsultationFee float64   `json:"consultationFee"`
	AvailableSlots  []Slot    `json:"availableSlots"`
	Longitude       float64   `json:"longitude"`
	Latitude        float64   `json:"latitude"`
	CreatedAt       time.Time `json:"createdAt"`
}

type DoctorResponse struct {
	Body DoctorBody
}

type ListRequest struct {
	Specialization string `query:"specialization"`
}

type ListResponse struct {
	Body struct {
		Doctors []DoctorBody `json:"doctors"`
	}
}

type NearbyRequest struct {
	Longitude float64 `query:"longitude"`
	Latitude  float64 `query:"latitude"`
	RadiusKm  float64 `query:"radiusKm"`
}

type GetRequest struct {
	DoctorID string `path:"doctorId"`
}

type UpdateRequest struct {
	DoctorID string `path:"doctorId"`
	Body     profileBody
}

type DeleteResponse struct {
	Body struct {
		Message string `json:"message"`
	}
}

type SlotsResponse struct {
	Body struct {
		Slots []Slot `json:"slots"`
	}
}

func toDoctorBody(d *Doctor) DoctorBody {
	return DoctorBody{
		ID:              d.ID,
		UserID:          d.UserID,
		Specialization:  d.Specialization,
		Bio:             d.Bio,
		ConsultationFee: d.ConsultationFee,
		AvailableSlots:  d.AvailableSlots,
		Longitude:       d.Longitude,
		Latitude:        d.Latitude,
		CreatedAt:       d.CreatedAt,
	}
}

func toProfileInput(b profileBody) ProfileInput {
	return ProfileInput{
		Specialization:  b.Specialization,
		Bio:             b.Bio,
		ConsultationFee: b.ConsultationFee,
		AvailableSlots:  b.AvailableSlots,
		Longitude:       b.Longitude,
		Latitude:        b.Latitude,
	}
}

// --- Handlers ---

func (h *Handler) CreateHandler(ctx context.Context, input *CreateRequest) (*DoctorResponse, error) {
	if verr := validation.ValidateStruct(&input.Body.profileBody); verr != nil {
		return nil, httpx.ToProblem(ctx, verr)
	}

	d, err := h.service.Create(ctx, user.AuthFromContext(ctx), input.Body.UserID, toProfileInput(input.Body.profileBody))
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	return &DoctorResponse{Body: toDoctorBody(d)}, nil
}

func (h *Handler) ListHandler(ctx context.Context, input *ListRequest) (*ListResponse, error) {
	doctors, err := h.service.List(ctx, input.Specialization)
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}

	resp := &ListResponse{}
	resp.Body.Doctors = make([]DoctorBody, 0, len(doctors))
	for _, d := range doctors {
		resp.Body.Doctors = append(resp.Body.Doctors, toDoctorBody(d))
	}
	return resp, nil
}

func (h *Handler) NearbyHandler(ctx context.Context, input *NearbyRequest) (*ListResponse, error) {
	doctors, err := h.service.Nearby(ctx, input.Longitude, input.Latitude, input.RadiusKm)
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}

	resp := &ListResponse{}
	resp.Body.Doctors = make([]DoctorBody, 0, len(doctors))
	for _, d := range doctors {
		resp.Body.Doctors = append(resp.Body.Doctors, toDoctorBody(d))
	}
	return resp, nil
}

func (h *Handler) GetHandler(ctx context.Context, input *GetRequest) (*DoctorResponse, error) {
	d, err := h.service.Get(ctx, input.DoctorID)
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	return &DoctorResponse{Body: toDoctorBody(d)}, nil
}

func (h *Handler) UpdateHandler(ctx context.Context, input *UpdateRequest) (*DoctorResponse, error) {
	if verr := validation.ValidateStruct(&input.Body); verr != nil {
		return nil, httpx.ToProblem(ctx, verr)
	}

	d, err := h.service.Update(ctx, user.AuthFromContext(ctx), input.DoctorID, toProfileInput(input.Body))
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	return &DoctorResponse{Body: toDoctorBody(d)}, nil
}

func (h *Handler) DeleteHandler(ctx context.Context, input *GetRequest) (*DeleteResponse, error) {
	if err := h.service.Delete(ctx, user.AuthFromContext(ctx), input.DoctorID); err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}

	resp := &DeleteResponse{}
	resp.Body.Message = "Doctor profile deleted."
	return resp, nil
}

func (h *Handler) SlotsHandler(ctx context.Context, input *GetRequest) (*SlotsResponse, error) {
	slots, err := h.service.Slots(ctx, input.DoctorID)
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}

	resp := &SlotsResponse{}
	resp.Body.Slots = slots
	return resp, nil
}
