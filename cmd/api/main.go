package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"tenantnotes/cmd/internal/auth"
	"tenantnotes/cmd/internal/config"
	"tenantnotes/cmd/internal/domain/database"
	"tenantnotes/cmd/internal/domain/database/repository"
	"tenantnotes/cmd/internal/domain/policy"
	"tenantnotes/cmd/internal/http/handler"
	authmw "tenantnotes/cmd/internal/http/middleware"
	"tenantnotes/cmd/internal/infrastructure/aws/websocket"
	"tenantnotes/cmd/internal/metrics"
	"tenantnotes/cmd/internal/notification"
	"tenantnotes/cmd/internal/service"
	"tenantnotes/cmd/internal/service/jobs"
	"tenantnotes/cmd/internal/utils"
	"tenantnotes/cmd/internal/utils/validators"
)

const serviceName = "tenantnotes"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Loads env vars depending on environment
	if err := config.LoadEnvironment(ctx); err != nil {
		log.Fatalf("unable to load environment: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	log.SetLevel(logLevel(cfg.LogLevel))

	db, err := database.Open(database.Options{Driver: cfg.DBDriver, DSN: cfg.DSN()})
	if err != nil {
		log.Fatalf("unable to open database: %v", err)
	}

	if cfg.SeedDemoData {
		if err := database.SeedDemoData(ctx, db); err != nil {
			log.Fatalf("unable to seed demo data: %v", err)
		}
		log.Info("Demo tenants seeded")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	httpMetrics := metrics.NewHTTPMetrics(serviceName, registry)
	domainMetrics := metrics.NewDomainMetrics(registry)

	tokens, err := auth.NewTokenCodec(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		log.Fatalf("unable to create token codec: %v", err)
	}
	validate := validators.New()

	// Gettings repos
	tenantRepo := repository.NewTenantRepository(db)
	userRepo := repository.NewUserRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	connRepo := repository.NewConnectionRepository(db)

	var gateway websocket.GatewayClient
	var notifier notification.Notifier = notification.LogNotifier{}
	if cfg.HasGateway() {
		client, err := websocket.NewAWSGatewayClient(ctx, cfg.WSGatewayEndpoint, cfg.WSGatewayRegion)
		if err != nil {
			log.Fatalf("unable to create websocket gateway client: %v", err)
		}
		gateway = client
		notifier = notification.NewGatewayNotifier(connRepo, client, domainMetrics)
	}

	// Getting services
	quotaPolicy := policy.NewQuotaPolicy(cfg.FreeNoteLimit)
	quotaService := service.NewQuotaService(tenantRepo, noteRepo, quotaPolicy)
	authService := service.NewAuthService(userRepo, tokens, validate, domainMetrics)
	noteService := service.NewNoteService(noteRepo, quotaPolicy, notifier, validate, domainMetrics)
	tenantService := service.NewTenantService(tenantRepo, quotaService, validate)
	userService := service.NewUserService(userRepo, validate)
	invitationService := service.NewInvitationService(userRepo, tenantRepo, tenantService, notifier, validate)
	wsService := service.NewWebSocketService(connRepo, gateway)

	// Getting handlers
	routes := &handler.Routes{
		Auth:        handler.NewAuthDefault(authService, utils.DefaultCookieConfig(cfg.SecureCookies())),
		Notes:       handler.NewNoteDefault(noteService),
		Tenants:     handler.NewTenantDefault(tenantService),
		Users:       handler.NewUserDefault(userService),
		Invitations: handler.NewInvitationDefault(invitationService),
		WebSocket:   handler.NewWSDefault(wsService, tokens),
		GatewayAuth: authmw.NewGatewayMiddleware(cfg.WSCallbackSecret),
	}

	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(logLevel(cfg.LogLevel))
	e.Use(middleware.CORS())
	e.Use(middleware.BodyLimit("1M"))
	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())
	e.Use(httpMetrics.Middleware())
	e.Use(authmw.NewAuthMiddleware(auth.NewResolver(tokens)))

	handler.Register(e, routes, handler.NewLoginRateLimiter(cfg.LoginRateLimit))
	e.GET("/metrics", echo.WrapHandler(metrics.Handler(registry)))

	cleaner := jobs.NewConnectionCleaner(wsService, jobs.DefaultCleanupInterval)
	go cleaner.Start(ctx)

	go func() {
		if err := e.Start(cfg.ServerAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Errorf("graceful shutdown failed: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func logLevel(level string) log.Lvl {
	switch level {
	case "debug":
		return log.DEBUG
	case "warn":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	default:
		return log.INFO
	}
}
