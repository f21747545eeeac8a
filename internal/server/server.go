package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/medlinkhq/medlink/internal/config"
	"github.com/medlinkhq/medlink/internal/middleware"
	"github.com/medlinkhq/medlink/internal/modules/appointment"
	"github.com/medlinkhq/medlink/internal/modules/call"
	"github.com/medlinkhq/medlink/internal/modules/chat"
	"github.com/medlinkhq/medlink/internal/modules/doctor"
	"github.com/medlinkhq/medlink/internal/modules/user"
)

// Services bundles the module services the server exposes.
type Services struct {
	User        user.Service
	Doctor      doctor.Service
	Appointment appointment.Service
	Call        call.Service
	Chat        chat.Service
}

// New creates and configures the HTTP router, registering every module's
// routes behind the shared middleware chain.
func New(cfg *config.Config, log *slog.Logger, auth *middleware.Auth, services *Services) chi.Router {
	router := chi.NewMux()
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(chimw.Logger)
	router.Use(chimw.Recoverer)
	router.Use(chimw.Timeout(60 * time.Second))

	apiConfig := huma.DefaultConfig("MedLink API", "1.0.0")
	apiConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "JWT",
		},
	}
	api := humachi.New(router, apiConfig)

	requireAuth := auth.RequireAuth()
	requireDoctorRole := auth.RequireRole(user.RoleDoctor, user.RoleAdmin)

	user.NewHandler(services.User, log).RegisterRoutes(api, requireAuth)
	doctor.NewHandler(services.Doctor, log).RegisterRoutes(api, requireAuth, requireDoctorRole)
	appointment.NewHandler(services.Appointment, log).RegisterRoutes(api, requireAuth)
	call.NewHandler(services.Call, log).RegisterRoutes(api, requireAuth)
	chat.NewHandler(services.Chat, log).RegisterRoutes(api, requireAuth)

	huma.Register(api, huma.Operation{
		OperationID: "get-health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health Check",
		Description: "Responds with the server's health status.",
	}, func(ctx context.Context, input *struct{}) (*struct {
		Body struct {
			Status string `json:"status"`
		}
	}, error) {
		resp := &struct {
			Body struct {
				Status string `json:"status"`
			}
		}{}
		resp.Body.Status = "ok"
		return resp, nil
	})

	return router
}
