package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ebudgetmo/ebudgetmo-backend/internal/config"
	"github.com/ebudgetmo/ebudgetmo-backend/internal/handler"
	"github.com/ebudgetmo/ebudgetmo-backend/internal/middleware"
	"github.com/ebudgetmo/ebudgetmo-backend/internal/repository"
	"github.com/ebudgetmo/ebudgetmo-backend/internal/service"
	"github.com/ebudgetmo/ebudgetmo-backend/internal/websocket"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Open the key-value store
	store, err := repository.OpenStore(context.Background(), cfg, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.StorageBackend).Msg("Failed to open storage")
	}
	defer store.Close()
	log.Info().Str("backend", cfg.StorageBackend).Msg("Storage ready")

	// Initialize services
	clock := service.SystemClock{}
	ledgerService := service.NewLedgerService(store, clock, log.Logger)
	ledgerService.Load(context.Background())
	billsService := service.NewBillsService(store, clock, cfg.BillsRolloverPolicy, log.Logger)
	billsService.Load(context.Background())
	notificationService := service.NewNotificationService(ledgerService, billsService, clock)
	dashboardService := service.NewDashboardService(ledgerService, billsService, notificationService)
	imageService := service.NewImageService(service.AvatarWidth)
	profileService := service.NewProfileService(store, imageService, log.Logger)

	// Live updates for connected clients; changes also mark notifications stale
	hub := websocket.NewHub()
	publisher := websocket.MultiPublisher{notificationService, hub}
	ledgerService.SetEventPublisher(publisher)
	billsService.SetEventPublisher(publisher)

	// Periodic refresh of the upcoming bills and notifications
	refreshWorker := service.NewRefreshWorker(billsService, notificationService, log.Logger, service.RefreshWorkerConfig{
		BillsInterval:        cfg.Refresh.BillsInterval,
		NotificationInterval: cfg.Refresh.NotificationInterval,
	})
	refreshWorker.Start(context.Background())

	// Auth is optional for a single-user install
	var authMiddleware *middleware.AuthMiddleware
	var wsValidator handler.SubjectValidator
	if cfg.AuthEnabled() {
		jwtValidator, err := middleware.NewAuth0Validator(cfg.Auth0Domain, cfg.Auth0Audience)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create JWT validator")
		}
		authMiddleware = middleware.NewAuthMiddlewareWithValidator(jwtValidator)
		wsValidator = websocket.NewSubjectValidator(jwtValidator)
	} else {
		log.Warn().Msg("AUTH0_DOMAIN not set, API is unauthenticated")
	}

	rateLimiter := middleware.NewRateLimiterWithConfig(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)
	defer rateLimiter.Stop()

	// Initialize handlers
	handlers := handler.Handlers{
		Months:        handler.NewMonthHandler(ledgerService, dashboardService),
		Bills:         handler.NewBillsHandler(billsService),
		Notifications: handler.NewNotificationHandler(notificationService),
		Dashboard:     handler.NewDashboardHandler(dashboardService, billsService),
		Profile:       handler.NewProfileHandler(profileService),
		WebSocket:     handler.NewWebSocketHandler(hub, wsValidator, cfg.CORSOrigins),
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Register API routes
	handler.RegisterRoutes(e, authMiddleware, rateLimiter, handlers)

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	refreshWorker.Stop()

	// Drain pending document writes before the store closes
	if err := ledgerService.Flush(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to flush budget data")
	}
	if err := billsService.Flush(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to flush bills")
	}

	log.Info().Msg("Server exited")
}

// zerologMiddleware returns a middleware that logs requests using zerolog
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			log.Info().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Msg("request")

			return nil
		}
	}
}
