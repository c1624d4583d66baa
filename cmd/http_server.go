package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/hr-records/api"
	"github.com/frahmantamala/hr-records/internal"
	"github.com/frahmantamala/hr-records/internal/absence"
	absencePostgres "github.com/frahmantamala/hr-records/internal/absence/postgres"
	"github.com/frahmantamala/hr-records/internal/auth"
	authPostgres "github.com/frahmantamala/hr-records/internal/auth/postgres"
	"github.com/frahmantamala/hr-records/internal/core/events"
	"github.com/frahmantamala/hr-records/internal/decisionlog"
	decisionlogPostgres "github.com/frahmantamala/hr-records/internal/decisionlog/postgres"
	"github.com/frahmantamala/hr-records/internal/employee"
	employeePostgres "github.com/frahmantamala/hr-records/internal/employee/postgres"
	"github.com/frahmantamala/hr-records/internal/feedback"
	feedbackPostgres "github.com/frahmantamala/hr-records/internal/feedback/postgres"
	"github.com/frahmantamala/hr-records/internal/textenhancer"
	"github.com/frahmantamala/hr-records/internal/transport/middleware"
	"github.com/frahmantamala/hr-records/internal/transport/rest"
	"github.com/frahmantamala/hr-records/pkg/logger"
	"github.com/frahmantamala/hr-records/pkg/metrics"

	"github.com/go-chi/chi"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config      *internal.Config
	Stores      *stores
	DecisionLog *pgxpool.Pool
	Enhancer    *textenhancer.Client
	Bus         *events.EventBus
	Metrics     *metrics.Collector
	Router      *chi.Mux
	Logger      *slog.Logger
}

func (d *Dependencies) Close() {
	if d.Enhancer != nil {
		d.Enhancer.Shutdown()
	}
	if d.DecisionLog != nil {
		d.DecisionLog.Close()
	}
	if d.Stores != nil {
		if err := d.Stores.Close(); err != nil {
			d.Logger.Error("Database close error", "error", err)
		}
	}
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}
	defer deps.Close()

	if err := setupRoutes(deps); err != nil {
		deps.Logger.Error("Failed to register routes", "error", err)
		return
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr, "env", deps.Config.App.Env)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
		// Let pending decision log writes land before the pools close.
		if err := deps.Bus.Wait(ctx); err != nil {
			deps.Logger.Error("Event handlers did not finish", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			deps.Logger.Error("Server failed to start", "error", err)
			return
		}
	}

	deps.Logger.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) error {
	cfg := deps.Config
	lg := deps.Logger

	doc, err := middleware.LoadOpenAPI(context.Background(), api.OpenAPI)
	if err != nil {
		return err
	}

	// Identity
	tokens := auth.NewJWTTokenGenerator(
		cfg.Security.JWTSecret,
		cfg.Security.JWTRefreshSecret,
		cfg.Security.AccessTokenDuration,
		cfg.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(authPostgres.NewRepository(deps.Stores.SQL), tokens, cfg.Security.BCryptCost, lg)

	// Directory
	employeeService := employee.NewService(
		employeePostgres.NewEmployeeRepository(deps.Stores.Gorm),
		employee.NewListCache(cfg.Cache.EmployeeListTTL, deps.Metrics),
		lg,
	)

	// Absences publish every status change; the decision log, when
	// configured, records them.
	bus := events.NewEventBus(lg)
	bus.SetHandlerTimeout(cfg.Events.HandlerTimeout)
	deps.Bus = bus
	handlers := rest.Handlers{
		Auth:     auth.NewHandler(authService),
		RBAC:     auth.NewRBACAuthorization(lg),
		Employee: employee.NewHandler(employeeService),
		Absence: absence.NewHandler(absence.NewService(
			absencePostgres.NewAbsenceRepository(deps.Stores.Gorm),
			employeeService,
			bus,
			lg,
		)),
		Feedback: feedback.NewHandler(feedback.NewService(
			feedbackPostgres.NewFeedbackRepository(deps.Stores.Gorm),
			employeeService,
			deps.Enhancer,
			lg,
		)),
	}

	health := rest.NewHealthHandler(deps.Metrics).AddCheck("database", deps.Stores.SQL.PingContext)
	if deps.DecisionLog != nil {
		decisions := decisionlogPostgres.NewRepository(deps.DecisionLog)
		decisionlog.NewRecorder(decisions, lg).Register(bus)
		handlers.Decisions = decisionlog.NewHandler(decisionlog.NewService(decisions, lg))
		health.AddCheck("decision_log", deps.DecisionLog.Ping)
	} else {
		lg.Warn("decision log disabled: no decision_log.source configured")
	}
	handlers.Health = health

	return rest.RegisterAllRoutes(deps.Router, handlers, rest.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		MetricsEnabled: cfg.Observability.Metrics.Enabled,
		MetricsPath:    cfg.Observability.Metrics.Path,
		Metrics:        deps.Metrics,
		OpenAPI:        api.OpenAPI,
		Doc:            doc,
	}, lg)
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	lg := logger.L()

	db, err := openStores(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	deps := &Dependencies{
		Config:  config,
		Stores:  db,
		Metrics: metrics.New(),
		Router:  chi.NewRouter(),
		Logger:  lg,
	}

	if config.DecisionLog.Source != "" {
		ctx, cancel := internal.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		pool, err := decisionlogPostgres.NewPool(ctx, config.DecisionLog)
		if err != nil {
			deps.Close()
			return nil, fmt.Errorf("failed to initialize decision log: %w", err)
		}
		deps.DecisionLog = pool
	}

	deps.Enhancer = textenhancer.NewClient(textenhancer.Config{
		BaseURL:      config.TextEnhancer.BaseURL,
		APIKey:       config.TextEnhancer.APIKey,
		Model:        config.TextEnhancer.Model,
		Timeout:      config.TextEnhancer.Timeout,
		MaxWorkers:   config.TextEnhancer.MaxWorkers,
		JobQueueSize: config.TextEnhancer.JobQueueSize,
	}, deps.Metrics, lg)
	if config.TextEnhancer.APIKey == "" {
		lg.Warn("text enhancer has no api key: feedback polishing uses the local rewrite")
	}

	return deps, nil
}
