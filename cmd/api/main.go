package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"mawared-backend/internal/autopilot"
	"mawared-backend/internal/config"
	"mawared-backend/internal/cron"
	"mawared-backend/internal/database"
	"mawared-backend/internal/handlers"
	"mawared-backend/internal/letters"
	"mawared-backend/internal/middleware"
	"mawared-backend/internal/storage"
	"mawared-backend/internal/store"
)

func main() {
	// 1. Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := log.With().Str("service", "mawared-backend").Logger()

	// 2. Connect to PostgreSQL
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()
	pool := db.GetPool()

	// 3. Initialize letter storage (local filesystem or Cloudflare R2)
	var fileStore storage.Store
	switch cfg.Storage.Driver {
	case "r2":
		fileStore, err = storage.NewR2Store(
			cfg.Storage.R2AccountID, cfg.Storage.R2AccessKey,
			cfg.Storage.R2SecretKey, cfg.Storage.R2Bucket, cfg.Storage.R2PublicURL,
		)
	default:
		fileStore, err = storage.NewLocalStore(cfg.Storage.LocalDir, cfg.Storage.LocalBaseURL)
	}
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize letter storage")
	}

	// 4. Assemble the autopilot runner from its sources and sinks
	tenants := store.NewTenantRepository(pool)
	complianceRepo := store.NewComplianceRepository(pool)
	runner := &autopilot.Runner{
		Tenants:   tenants,
		Settings:  store.NewSettingsRepository(pool),
		Employees: store.NewEmployeeRepository(pool),
		Status:    store.NewStatusService(pool),
		Snapshots: store.NewSnapshotRepository(pool),
		Renderer:  letters.NewRenderer(fileStore, cfg.Letters.ArabicFontPath),
		Tasks:     complianceRepo,
		Letters:   complianceRepo,
		Runs:      complianceRepo,
		Log:       logger,
	}

	// 5. Set up router with global middleware
	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:3001"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// 6. Initialize handlers with their dependencies
	autopilotHandler := handlers.NewAutopilotHandler(runner)
	complianceHandler := handlers.NewComplianceHandler(db)
	employeeHandler := handlers.NewEmployeeHandler(db)

	// 7. Public routes (no authentication required)
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Mawared Compliance API"))
	})
	r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		handlers.JSON(w, http.StatusOK, db.Health())
	})

	// 8. Protected routes (require valid JWT)
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWTSecret))

		// Read-only endpoints — accessible to all authenticated roles
		r.Get("/api/employees", employeeHandler.List)
		r.Get("/api/employees/{id}", employeeHandler.GetByID)
		r.Get("/api/compliance/runs", complianceHandler.ListRuns)
		r.Get("/api/compliance/tasks", complianceHandler.ListTasks)
		r.Get("/api/compliance/saudization", complianceHandler.Saudization)

		// Triggering a run is restricted to admins and rate limited: each
		// run fans out DB writes and PDF uploads per matched employee.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireMinRole("admin"))
			r.Use(middleware.RateLimit(rate.Every(10*time.Second), 3))
			r.Post("/api/compliance/autopilot/run", autopilotHandler.Run)
		})
	})

	// 9. Start the daily scheduler
	scheduler := cron.NewScheduler(runner, tenants, logger)
	if cfg.Cron.Enabled {
		if err := scheduler.Start(cfg.Cron.Schedule); err != nil {
			logger.Fatal().Err(err).Str("schedule", cfg.Cron.Schedule).Msg("failed to start scheduler")
		}
	}

	// 10. Start server with graceful shutdown
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: r,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("server started")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	<-done
	logger.Info().Msg("shutting down")

	if cfg.Cron.Enabled {
		scheduler.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server exited properly")
}
