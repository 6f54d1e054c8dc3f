package di

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/wire"
	"gorm.io/gorm"

	"ai-samples-api/internal/agui"
	"ai-samples-api/internal/app"
	"ai-samples-api/internal/config"
	"ai-samples-api/internal/database"
	"ai-samples-api/internal/health"
	"ai-samples-api/internal/http/handler"
	"ai-samples-api/internal/http/router"
	"ai-samples-api/internal/observability"
	"ai-samples-api/internal/repository"
	"ai-samples-api/internal/security"
	"ai-samples-api/internal/service"
)

const (
	readinessProbeTimeout  = 2 * time.Second
	serverStartGracePeriod = 10 * time.Second
)

var ConfigSet = wire.NewSet(config.Load)

var ObservabilitySet = wire.NewSet(
	provideObservabilityRuntime,
	provideAppLogger,
)

var RuntimeInfraSet = wire.NewSet(
	provideRuntimeDB,
	provideReadinessProbeRunner,
)

var RepositorySet = wire.NewSet(
	repository.NewUserRepository,
	repository.NewRoleRepository,
)

var SecuritySet = wire.NewSet(provideJWTManager)

var ServiceSet = wire.NewSet(
	service.NewAuthService,
	service.NewUserService,
	service.NewRoleService,
	wire.Bind(new(service.AuthServiceInterface), new(*service.AuthService)),
	wire.Bind(new(service.UserServiceInterface), new(*service.UserService)),
	wire.Bind(new(service.RoleServiceInterface), new(*service.RoleService)),
)

var AgentSet = wire.NewSet(provideAgentFactory)

var HTTPSet = wire.NewSet(
	handler.NewAuthHandler,
	handler.NewUserHandler,
	handler.NewRoleHandler,
	handler.NewAgentHandler,
	provideRouterDependencies,
	router.NewRouter,
	provideHTTPServer,
)

var AppSet = wire.NewSet(app.New)

// MigrationRunner applies schema migrations and seeds baseline data without
// starting the HTTP server.
type MigrationRunner struct {
	cfg    *config.Config
	db     *gorm.DB
	logger *slog.Logger
}

func NewMigrationRunner(cfg *config.Config, db *gorm.DB) *MigrationRunner {
	return &MigrationRunner{cfg: cfg, db: db, logger: observability.NewBootstrapLogger(cfg)}
}

func (m *MigrationRunner) Run() error {
	if err := database.Migrate(m.db); err != nil {
		return err
	}
	report, err := database.Seed(m.db, m.cfg, m.logger)
	if err != nil {
		return err
	}
	m.logger.Info("migration complete",
		"created_roles", report.CreatedRoles,
		"created_admin", report.CreatedAdmin)
	return nil
}

func provideObservabilityRuntime(cfg *config.Config) (*observability.Runtime, error) {
	bootstrapLogger := observability.NewBootstrapLogger(cfg)
	return observability.InitRuntime(context.Background(), cfg, bootstrapLogger)
}

func provideAppLogger(cfg *config.Config, runtime *observability.Runtime) *slog.Logger {
	return observability.InitLogger(cfg, runtime.LoggerProvider)
}

func provideOpenDB(cfg *config.Config) (*gorm.DB, error) {
	return database.Open(cfg)
}

func provideRuntimeDB(cfg *config.Config, logger *slog.Logger) (*gorm.DB, error) {
	db, err := database.Open(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	if _, err := database.Seed(db, cfg, logger); err != nil {
		return nil, err
	}
	return db, nil
}

func provideJWTManager(cfg *config.Config) *security.JWTManager {
	return security.NewJWTManager(cfg.JWTKey, cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTValidity())
}

// provideAgentFactory wires the agent subsystem only when configured. A nil
// factory keeps the routes mounted but answering 503.
func provideAgentFactory(cfg *config.Config) *agui.Factory {
	if !cfg.AgentEnabled {
		return nil
	}
	client := agui.NewAzureOpenAIClient(cfg.AgentEndpoint, cfg.AgentDeployment, cfg.AgentAPIKey)
	return agui.NewFactory(client)
}

func provideRouterDependencies(
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	roleHandler *handler.RoleHandler,
	agentHandler *handler.AgentHandler,
	jwt *security.JWTManager,
	readiness *health.ProbeRunner,
	cfg *config.Config,
) router.Dependencies {
	return router.Dependencies{
		AuthHandler:      authHandler,
		UserHandler:      userHandler,
		RoleHandler:      roleHandler,
		AgentHandler:     agentHandler,
		JWTManager:       jwt,
		CORSOrigins:      cfg.CORSAllowedOrigins,
		AuthRateLimitRPM: cfg.AuthRateLimitPerMin,
		APIRateLimitRPM:  cfg.APIRateLimitPerMin,
		Readiness:        readiness,
		EnableOTelHTTP:   cfg.OTELMetricsEnabled || cfg.OTELTracingEnabled,
	}
}

func provideHTTPServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           h,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func provideReadinessProbeRunner(db *gorm.DB) *health.ProbeRunner {
	return health.NewProbeRunner(readinessProbeTimeout, serverStartGracePeriod, health.NewDBChecker(db))
}
