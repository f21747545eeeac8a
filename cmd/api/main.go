package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/danielgtaylor/huma/v2/humacli"

	"github.com/medlinkhq/medlink/internal/cache"
	"github.com/medlinkhq/medlink/internal/config"
	"github.com/medlinkhq/medlink/internal/database"
	"github.com/medlinkhq/medlink/internal/middleware"
	"github.com/medlinkhq/medlink/internal/modules/appointment"
	"github.com/medlinkhq/medlink/internal/modules/call"
	"github.com/medlinkhq/medlink/internal/modules/chat"
	"github.com/medlinkhq/medlink/internal/modules/doctor"
	"github.com/medlinkhq/medlink/internal/modules/user"
	"github.com/medlinkhq/medlink/internal/notification"
	"github.com/medlinkhq/medlink/internal/notification/templates"
	"github.com/medlinkhq/medlink/internal/server"
)

// Options for the CLI.
type Options struct {
	Port int `help:"Port to listen on" short:"p" default:"8080"`
}

func main() {
	cli := humacli.New(func(hooks humacli.Hooks, options *Options) {
		logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
		cfg := config.Load()
		if cfg == nil {
			logger.Error("failed to load configuration")
			os.Exit(1)
		}
		logger.Info("configuration loaded", "env", cfg.Server.Env)

		// --- Database & Cache ---
		dbPool := database.NewPostgresPool(cfg.Database.URL)
		if dbPool == nil {
			logger.Error("failed to connect to postgres")
			os.Exit(1)
		}
		hooks.OnStop(dbPool.Close)
		logger.Info("connected to postgres")

		redisClient := cache.NewRedisClient(cfg.Redis.URL)
		if redisClient == nil {
			logger.Error("failed to connect to redis")
			os.Exit(1)
		}
		hooks.OnStop(func() { redisClient.Close() })
		logger.Info("connected to redis")

		// --- Shared infrastructure ---
		tokens, err := user.NewTokenIssuer(cfg.JWTSecret)
		if err != nil {
			logger.Error("failed to create token issuer", "error", err)
			os.Exit(1)
		}
		notifier := notification.NewService(
			logger,
			notification.NewSMTPEmailSender(cfg.SMTP.Host, cfg.SMTP.Port,
				cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From, logger),
			notification.NewDummySMSSender(logger),
		)
		renderer := templates.NewEngine(templates.Config{}, logger)
		cooldown := cache.NewCooldown(redisClient)

		// --- Module Initialization (Bottom-Up) ---
		userRepo := user.NewRepository(dbPool)
		userService := user.NewService(&user.Config{
			Repo:     userRepo,
			Tokens:   tokens,
			Notifier: notifier,
			Renderer: renderer,
			Cooldown: cooldown,
			Logger:   logger,
			Config:   cfg,
		})

		doctorService := doctor.NewService(doctor.NewRepository(dbPool), logger)
		appointmentService := appointment.NewService(appointment.NewRepository(dbPool), logger)
		callService := call.NewService(call.NewRepository(dbPool), logger)
		chatService := chat.NewService(chat.NewRepository(dbPool), chat.NewCannedResponder(), logger)

		auth := middleware.NewAuth(tokens, userRepo, logger)
		router := server.New(cfg, logger, auth, &server.Services{
			User:        userService,
			Doctor:      doctorService,
			Appointment: appointmentService,
			Call:        callService,
			Chat:        chatService,
		})

		hooks.OnStart(func() {
			logger.Info(fmt.Sprintf("Starting server on port %d...", options.Port))
			if err := http.ListenAndServe(fmt.Sprintf(":%d", options.Port), router); err != nil {
				slog.Error("Server failed to start", "error", err)
				os.Exit(1)
			}
		})
	})
	cli.Run()
}
