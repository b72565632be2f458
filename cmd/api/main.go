package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/cove-house/waitlist-service/internal/api/http"
	"github.com/cove-house/waitlist-service/internal/api/http/handlers"
	"github.com/cove-house/waitlist-service/internal/auth"
	"github.com/cove-house/waitlist-service/internal/bucket"
	"github.com/cove-house/waitlist-service/internal/config"
	"github.com/cove-house/waitlist-service/internal/events"
	"github.com/cove-house/waitlist-service/internal/mail"
	"github.com/cove-house/waitlist-service/internal/observability"
	"github.com/cove-house/waitlist-service/internal/persistence"
	"github.com/cove-house/waitlist-service/internal/ratelimit"
	"github.com/cove-house/waitlist-service/internal/referral"
	"github.com/cove-house/waitlist-service/internal/repository"
	"github.com/cove-house/waitlist-service/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	issuer, err := referral.NewIssuer(cfg.Referral.BaseURL)
	if err != nil {
		logger.Fatal("failed to init referral issuer", zap.Error(err))
	}

	mailer, err := mail.New(cfg.Mail, logger)
	if err != nil {
		logger.Fatal("failed to init mailer", zap.Error(err))
	}

	uploader, err := bucket.NewUploader(cfg.Bucket)
	if err != nil {
		logger.Fatal("failed to init bucket uploader", zap.Error(err))
	}
	if !uploader.Enabled() {
		logger.Warn("bucket uploads not configured; supply attachments will be skipped")
	}

	pool := pg.PoolHandle()
	entryRepo := repository.NewWaitlistRepository(pool)
	painPointRepo := repository.NewPainPointRepository(pool)
	eventRepo := repository.NewEventRepository(pool)
	recorder := events.NewRecorder(eventRepo, logger)

	verifier := auth.NewAdminVerifier(cfg.Admin)
	tokens := auth.NewTokenManager(cfg.Admin.SessionSecret, cfg.Admin.SessionTTLMinutes)

	waitlistService := service.NewWaitlistService(service.WaitlistDependencies{
		EntryRepo:     entryRepo,
		PainPointRepo: painPointRepo,
		Recorder:      recorder,
		Mailer:        mailer,
		Referral:      issuer,
		Admin:         verifier,
		Uploader:      uploader,
		Logger:        logger,
	})

	metrics := observability.NewMetrics()
	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	limiter := ratelimit.NewLimiter(redis.Client, cfg.RateLimit, logger)
	adminMiddleware := auth.NewAdminMiddleware(verifier, tokens)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:          handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Waitlist:        handlers.NewWaitlistHandler(waitlistService),
		PainPoints:      handlers.NewPainPointHandler(waitlistService),
		Admin:           handlers.NewAdminHandler(waitlistService, verifier, tokens),
		Analytics:       handlers.NewAnalyticsHandler(waitlistService),
		AdminMiddleware: adminMiddleware,
		Limiter:         limiter,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
