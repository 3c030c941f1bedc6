package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/biometricleads/leads-system/internal/api/handler"
	"github.com/biometricleads/leads-system/internal/api/middleware"
	"github.com/biometricleads/leads-system/internal/core/domain"
	"github.com/biometricleads/leads-system/internal/core/ports"
	"github.com/biometricleads/leads-system/internal/core/service"
	"github.com/biometricleads/leads-system/internal/infrastructure/config"
	mongodb "github.com/biometricleads/leads-system/internal/infrastructure/db/mongo"
	redisdb "github.com/biometricleads/leads-system/internal/infrastructure/db/redis"
)

// Deps bundles the external resources the router wires together.
type Deps struct {
	Config *config.Config
	Mongo  *mongo.Client
	DB     *mongo.Database
	Redis  *redis.Client
	Mailer ports.MailSender
	Logger zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("leads"))

	// --- Repositories ---
	authRepo := mongodb.NewAuthRepository(deps.DB)
	leadRepo := mongodb.NewLeadRepository(deps.DB)
	biometricRepo := mongodb.NewBiometricRepository(deps.DB)
	notificationRepo := mongodb.NewNotificationRepository(deps.DB)
	tx := mongodb.NewTxRunner(deps.Mongo, deps.Config.Mongo.Transactions)
	guard := redisdb.NewDuplicateGuard(deps.Redis)

	// --- Services ---
	authService := service.NewAuthService(authRepo, deps.Config.JWTSecret, 24*time.Hour)
	notificationService := service.NewNotificationService(notificationRepo, deps.Logger)
	transitionService := service.NewTransitionService(
		leadRepo, biometricRepo, notificationService, tx, guard,
		deps.Config.DefaultOwnerID, deps.Logger,
	)
	leadService := service.NewLeadService(leadRepo, notificationService, deps.Logger)
	biometricService := service.NewBiometricService(biometricRepo, deps.Logger)
	searchService := service.NewSearchService(leadRepo, biometricRepo, notificationRepo, deps.Logger)
	dashboardService := service.NewDashboardService(leadRepo, biometricRepo, deps.Logger)
	reportService := service.NewReportService(dashboardService, authRepo, notificationService, deps.Mailer, deps.Logger)
	contactService := service.NewContactService(deps.Mailer, deps.Config.SupportEmail, deps.Logger)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService)
	leadHandler := handler.NewLeadHandler(leadService, transitionService)
	biometricHandler := handler.NewBiometricHandler(biometricService, transitionService)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	searchHandler := handler.NewSearchHandler(searchService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	reportHandler := handler.NewReportHandler(reportService, contactService)
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.DB, deps.Redis)

	authRequired := middleware.Auth(deps.Config.JWTSecret)

	// --- Public routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/v1/contact", reportHandler.Contact)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Authenticated routes ---
	v1 := e.Group("/v1", authRequired)

	v1.POST("/leads", leadHandler.Create)
	v1.GET("/leads", leadHandler.List)
	v1.GET("/leads/history", leadHandler.History)
	v1.GET("/leads/:id", leadHandler.Get)
	v1.POST("/leads/:id/status/:new_status", leadHandler.SetStatus)

	v1.GET("/biometrics", biometricHandler.List)
	v1.GET("/biometrics/:id", biometricHandler.Get)
	v1.POST("/biometrics/:id/:action", biometricHandler.Process)

	v1.GET("/notifications", notificationHandler.List)
	v1.GET("/notifications/unread-count", notificationHandler.UnreadCount)
	v1.POST("/notifications/read-all", notificationHandler.MarkAllRead)
	v1.POST("/notifications/:id/read", notificationHandler.MarkRead)

	v1.GET("/search", searchHandler.Search)
	v1.GET("/search/filters", searchHandler.FilterSuggestions)

	v1.GET("/dashboard", dashboardHandler.Metrics)
	v1.GET("/users/me/stats", dashboardHandler.UserStats)

	// Manual weekly-report trigger, admin only.
	v1.POST("/reports/weekly", reportHandler.Weekly, middleware.RBAC(domain.RoleAdmin))

	return e
}
