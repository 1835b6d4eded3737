package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/logiport/backend/internal/application/document"
	"github.com/logiport/backend/internal/application/numbering"
	printingapp "github.com/logiport/backend/internal/application/printing"
	domain "github.com/logiport/backend/internal/domain/printing"
	"github.com/logiport/backend/internal/domain/shared"
	"github.com/logiport/backend/internal/infrastructure/cache"
	"github.com/logiport/backend/internal/infrastructure/config"
	"github.com/logiport/backend/internal/infrastructure/logger"
	"github.com/logiport/backend/internal/infrastructure/persistence"
	infra "github.com/logiport/backend/internal/infrastructure/printing"
	"github.com/logiport/backend/internal/infrastructure/printing/builders"
	"github.com/logiport/backend/internal/infrastructure/storage"
	"github.com/logiport/backend/internal/infrastructure/telemetry"
	"github.com/logiport/backend/internal/interfaces/http/handler"
	"github.com/logiport/backend/internal/interfaces/http/middleware"
	"github.com/logiport/backend/internal/interfaces/http/router"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

//	@title			Logiport Document API
//	@version		1.0
//	@description	Transaction numbering and trade document generation (invoices, packing lists, CMR, Form A)

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	UserRoles
//	@in							header
//	@name						X-User-Roles
//	@description				Comma-separated roles of the caller, set by the gateway

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	tp, mp, lp := setupTelemetry(cfg, log)
	defer shutdownTelemetry(log, tp, mp, lp)
	if lp.IsEnabled() {
		level, err := zapcore.ParseLevel(cfg.Telemetry.LogsLevel)
		if err != nil {
			log.Fatal("Invalid telemetry.logs_level", zap.Error(err))
		}
		log = lp.Bridge(log, level)
	}
	docMetrics, err := telemetry.NewDocumentMetrics(mp.Meter(telemetry.TracerName))
	if err != nil {
		log.Fatal("Failed to register document metrics", zap.Error(err))
	}

	log.Info("Starting document service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, log, logger.ParseGormLevel(cfg.Log.SQLLevel))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if cfg.Database.Driver != "postgres" {
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to migrate database", zap.Error(err))
		}
	}
	dbSystem := "sqlite"
	if cfg.Database.Driver == "postgres" {
		dbSystem = "postgresql"
	}
	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:  cfg.Telemetry.Enabled && cfg.Telemetry.DBTracing,
		DBSystem: dbSystem,
	}, log); err != nil {
		log.Fatal("Failed to enable database tracing", zap.Error(err))
	}
	if err := persistence.SeedDocumentTypes(context.Background(), db.DB); err != nil {
		log.Fatal("Failed to seed document types", zap.Error(err))
	}
	log.Info("Database connected", zap.String("driver", cfg.Database.Driver))

	// Repositories
	catalog := domain.DefaultCatalog()
	txRepo := persistence.NewGormTransactionRepository(db.DB)
	scope := persistence.NewGormTransactionScope(db.DB)

	// Rendering pipeline
	templateFs, err := infra.NewTemplateFS(cfg.Documents.TemplatesDir)
	if err != nil {
		log.Fatal("Failed to open templates", zap.Error(err))
	}
	builderRouter, err := builders.NewDefaultRouter(catalog, txRepo)
	if err != nil {
		log.Fatal("Invalid builder rules", zap.Error(err))
	}

	outputFs := afero.NewOsFs()
	chrome := infra.NewChromedpEngine(infra.ChromedpConfig{
		Disabled:  !cfg.Chromedp.Enabled,
		RemoteURL: cfg.Chromedp.RemoteURL,
		NoSandbox: cfg.Chromedp.NoSandbox,
		Timeout:   cfg.Chromedp.Timeout,
		Logger:    log,
	}, outputFs)
	defer func() { _ = chrome.Close() }()
	wkhtml := infra.NewWkhtmltopdfEngine(infra.WkhtmltopdfConfig{
		Disabled:   !cfg.Wkhtmltopdf.Enabled,
		BinaryPath: cfg.Wkhtmltopdf.BinaryPath,
		Timeout:    cfg.Wkhtmltopdf.Timeout,
		Logger:     log,
	})
	engines := infra.NewEngineChain(outputFs, log, chrome, wkhtml)
	log.Info("PDF engines", zap.Any("available", engines.Engines()))

	defaultLang, ok := shared.ParseLanguage(cfg.Documents.DefaultLanguage)
	if !ok {
		log.Fatal("Invalid default language", zap.String("lang", cfg.Documents.DefaultLanguage))
	}

	persistenceSvc := document.NewPersistenceService(scope, catalog, document.Config{
		MaxSequenceAttempts: cfg.Documents.MaxSequenceAttempts,
		GroupDocNoPrefix:    cfg.Documents.GroupDocNoPrefix,
	}, log)
	deps := printingapp.Deps{
		Catalog:       catalog,
		Transactions:  txRepo,
		DocumentTypes: persistence.NewGormDocumentTypeRepository(db.DB),
		Builders:      builderRouter,
		Templates:     infra.NewTemplateResolver(templateFs, catalog),
		Engine:        infra.NewTemplateEngine(),
		PDF:           engines,
		Paths:         infra.NewOutputPathAllocator(outputFs, cfg.Documents.OutputRoot, cfg.Documents.MaxOutputVersions),
		OutputFs:      outputFs,
		Persistence:   persistenceSvc,
		Authorizer:    middleware.NewRoleAuthorizer(cfg.HTTP.RenderRoles, log),
		Archiver:      newArchiver(cfg, log),
		Metrics:       docMetrics,
	}
	renderSvc := printingapp.NewRenderService(deps, printingapp.Config{
		PreferredEngine: cfg.Documents.PreferredEngine,
		DefaultLanguage: defaultLang,
	}, log)
	allocator := numbering.NewAllocator(scope, numbering.Config{
		MaxProbeAttempts: cfg.Documents.MaxProbeAttempts,
	}, log).WithMetrics(docMetrics)

	// HTTP
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := middleware.SetupValidator(); err != nil {
		log.Fatal("Failed to register validators", zap.Error(err))
	}

	engine := gin.New()
	corsCfg := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.AllowOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.HTTP.AllowOrigins
	}
	engine.Use(
		logger.Recovery(log),
		logger.GinMiddleware(log),
		middleware.CORSWithConfig(corsCfg),
		middleware.Secure(),
		middleware.BodyLimit(middleware.DefaultBodyLimit),
		middleware.Timeout(cfg.HTTP.RequestTimeout),
		middleware.UserRoles(),
	)
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	})...)

	var routeMiddleware []gin.HandlerFunc
	if store := newIdempotencyStore(cfg, log); store != nil {
		defer func() { _ = store.Close() }()
		routeMiddleware = append(routeMiddleware, middleware.Idempotency(store, cfg.Idempotency.TTL, log))
	}

	r := router.NewRouter(engine)
	r.Register(handler.DocumentRoutes(handler.NewDocumentHandler(renderSvc), routeMiddleware...)).
		Register(handler.NumberingRoutes(handler.NewNumberingHandler(allocator), routeMiddleware...))
	r.Register(handler.SystemRoutes(handler.NewSystemHandler(
		handler.WithDatabasePing(func(ctx context.Context) error {
			sqlDB, err := db.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}),
		handler.WithRoutes(r.Routes),
	)))
	r.Setup()

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	log.Info("Server exited")
}

// newArchiver returns the configured document archive, or nil when archiving is off
func newArchiver(cfg *config.Config, log *zap.Logger) printingapp.Archiver {
	if !cfg.Storage.Enabled {
		return nil
	}
	switch cfg.Storage.Driver {
	case "fs":
		a, err := storage.NewFSArchive(afero.NewOsFs(), cfg.Storage.Dir)
		if err != nil {
			log.Fatal("Failed to open archive directory", zap.Error(err))
		}
		log.Info("Archiving documents to directory", zap.String("dir", cfg.Storage.Dir))
		return a
	default:
		a, err := storage.NewS3Archive(&cfg.Storage,
			storage.WithLogger(log),
			storage.WithPresignExpiration(cfg.Storage.PresignExpiration),
		)
		if err != nil {
			log.Fatal("Failed to create S3 archive", zap.Error(err))
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.EnsureBucket(ctx); err != nil {
			log.Warn("Archive bucket not reachable; uploads will be retried per document", zap.Error(err))
		}
		log.Info("Archiving documents to S3", zap.String("bucket", a.Bucket()))
		return a
	}
}

// newIdempotencyStore returns the Idempotency-Key store, or nil when replay is off
func newIdempotencyStore(cfg *config.Config, log *zap.Logger) shared.IdempotencyStore {
	if !cfg.Idempotency.Enabled {
		return nil
	}
	if cfg.Idempotency.Driver == "redis" {
		rc := cfg.Idempotency.Redis
		store, err := cache.NewRedisIdempotencyStore(context.Background(), cache.RedisConfig{
			Addr:      rc.Addr,
			Password:  rc.Password,
			DB:        rc.DB,
			KeyPrefix: rc.KeyPrefix,
		})
		if err != nil {
			log.Fatal("Failed to connect idempotency store", zap.Error(err))
		}
		log.Info("Idempotency keys stored in Redis", zap.String("addr", rc.Addr))
		return store
	}
	log.Info("Idempotency keys stored in memory")
	return cache.NewInMemoryIdempotencyStore(0)
}

// setupTelemetry starts the OTLP providers. Disabled providers are no-ops.
func setupTelemetry(cfg *config.Config, log *zap.Logger) (*telemetry.TracerProvider, *telemetry.MeterProvider, *telemetry.LoggerProvider) {
	ctx := context.Background()
	tc := cfg.Telemetry

	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           tc.Enabled,
		CollectorEndpoint: tc.CollectorEndpoint,
		SamplingRatio:     tc.SamplingRatio,
		ServiceName:       tc.ServiceName,
		Insecure:          tc.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	mp, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           tc.Enabled && tc.MetricsEnabled,
		CollectorEndpoint: tc.CollectorEndpoint,
		ExportInterval:    tc.MetricsInterval,
		ServiceName:       tc.ServiceName,
		Insecure:          tc.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}
	lp, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           tc.Enabled && tc.LogsEnabled,
		CollectorEndpoint: tc.CollectorEndpoint,
		ServiceName:       tc.ServiceName,
		Insecure:          tc.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize log export", zap.Error(err))
	}
	return tp, mp, lp
}

func shutdownTelemetry(log *zap.Logger, tp *telemetry.TracerProvider, mp *telemetry.MeterProvider, lp *telemetry.LoggerProvider) {
	ctx := context.Background()
	if err := tp.Shutdown(ctx); err != nil {
		log.Warn("Tracer shutdown failed", zap.Error(err))
	}
	if err := mp.Shutdown(ctx); err != nil {
		log.Warn("Meter shutdown failed", zap.Error(err))
	}
	if err := lp.Shutdown(ctx); err != nil {
		log.Warn("Log exporter shutdown failed", zap.Error(err))
	}
}
