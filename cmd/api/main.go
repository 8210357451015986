package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"admin-gateway/internal/audit"
	"admin-gateway/internal/auth"
	"admin-gateway/internal/config"
	"admin-gateway/internal/credentials"
	"admin-gateway/internal/gateway"
	"admin-gateway/internal/httpapi"
	"admin-gateway/internal/proxy"
	"admin-gateway/internal/rbac"
	"admin-gateway/internal/tenant"
	"admin-gateway/pkg/logger"
	"admin-gateway/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Events retained by the in-memory audit trail when DB_HOST is unset.
const memoryAuditLimit = 1000

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	var (
		registry    tenant.Registry  = tenant.NewMemoryRegistry()
		auditRepo   audit.Repository = audit.NewMemoryRepo(memoryAuditLimit)
		revocations auth.Revocations = auth.NewMemoryRevocations()
		writeGuard  utils.SlotGuard  = utils.NewMemorySlotGuard()
		db          *sql.DB
		rdb         *redis.Client
	)

	if cfg.HasPostgres() {
		db, err = utils.OpenPostgres(rootCtx, cfg.DB)
		if err != nil {
			log.Error("postgres init failed", "err", err)
			os.Exit(1)
		}
		defer db.Close()

		pgRegistry := tenant.NewPostgresRegistry(db)
		pgAudit := audit.NewPostgresRepo(db)
		if err := pgRegistry.EnsureSchema(rootCtx); err != nil {
			log.Error("tenant registry schema failed", "err", err)
			os.Exit(1)
		}
		if err := pgAudit.EnsureSchema(rootCtx); err != nil {
			log.Error("audit schema failed", "err", err)
			os.Exit(1)
		}
		registry, auditRepo = pgRegistry, pgAudit
	} else {
		log.Warn("DB_HOST not set; tenant registry and audit trail are in-memory")
	}

	if cfg.HasRedis() {
		rdb, err = utils.OpenRedis(rootCtx, cfg.Redis)
		if err != nil {
			log.Error("redis init failed", "err", err)
			os.Exit(1)
		}
		defer rdb.Close()

		revocations = auth.NewRedisRevocations(rdb)
		writeGuard = utils.NewRedisSlotGuard(rdb)
	} else {
		log.Warn("REDIS_HOST not set; session revocation and write guards are in-memory")
	}

	tokens, err := auth.NewManager(cfg.Auth)
	if err != nil {
		log.Error("auth init failed", "err", err)
		os.Exit(1)
	}
	sessions, err := auth.NewService(cfg.Auth, tokens, revocations)
	if err != nil {
		log.Error("auth init failed", "err", err)
		os.Exit(1)
	}

	gw, err := gateway.New(cfg.Backend, nil)
	if err != nil {
		log.Error("gateway init failed", "err", err)
		os.Exit(1)
	}

	permissions := rbac.NewEngine(proxy.NewPermissions(gw))
	resolver := tenant.NewResolver(proxy.NewTenants(gw), registry, cfg.Tenant.CookieTTL)
	// A selection change makes both tenants' cached rules stale for this caller.
	resolver.Subscribe(func(ctx context.Context, previous, current string) {
		if previous != "" {
			permissions.Invalidate(previous)
		}
		permissions.Invalidate(current)
		logger.From(ctx).Debug("tenant selection changed", "previous", previous, "tenant_id", current)
	})

	h := httpapi.Handlers{
		Auth:           sessions,
		Tenants:        resolver,
		Permissions:    permissions,
		Escalations:    proxy.NewEscalations(gw),
		Themes:         proxy.NewThemes(gw, cfg.Tenant.DefaultThemeColor),
		Files:          proxy.NewFiles(gw),
		Audit:          audit.NewService(auditRepo),
		WriteGuard:     writeGuard,
		WriteGuardTTL:  cfg.Tenant.WriteGuardTTL,
		MaxUploadBytes: cfg.Backend.MaxUploadBytes,
	}

	// Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))
	r.Use(credentials.Middleware(credentials.CookieOptions{Insecure: cfg.Auth.CookieInsecure}))

	registerRoutes(r, h, readiness{db: db, rdb: rdb})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.App.Env, "backend", cfg.Backend.URL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}
}
