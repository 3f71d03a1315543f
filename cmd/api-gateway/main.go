package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/masjid-almuttaqin/kuliah-api/api/swagger"
	"github.com/masjid-almuttaqin/kuliah-api/internal/handler"
	"github.com/masjid-almuttaqin/kuliah-api/internal/middleware"
	"github.com/masjid-almuttaqin/kuliah-api/internal/repository"
	"github.com/masjid-almuttaqin/kuliah-api/internal/service"
	"github.com/masjid-almuttaqin/kuliah-api/pkg/cache"
	"github.com/masjid-almuttaqin/kuliah-api/pkg/config"
	"github.com/masjid-almuttaqin/kuliah-api/pkg/database"
	"github.com/masjid-almuttaqin/kuliah-api/pkg/logger"
	"github.com/masjid-almuttaqin/kuliah-api/pkg/mailer"
	corsmiddleware "github.com/masjid-almuttaqin/kuliah-api/pkg/middleware/cors"
	reqidmiddleware "github.com/masjid-almuttaqin/kuliah-api/pkg/middleware/requestid"
	"github.com/masjid-almuttaqin/kuliah-api/pkg/storage"
)

// @title Sistem Penilaian Kuliah API
// @version 1.0.0
// @description API penilaian kuliah Masjid Al-Muttaqin Wangsa Melawati
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	// Redis is optional. Without it caching and drafts degrade to
	// pass-through behaviour instead of failing the boot.
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching and drafts disabled", "error", err)
		redisClient = nil
	}

	store, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare report storage", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL)

	validate := validator.New()
	metrics := service.NewMetricsService()

	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	cacheService := service.NewCacheService(cacheRepo, metrics, cfg.Cache.TTL, logr, cfg.Cache.Enabled && redisClient != nil)

	lecturerRepo := repository.NewLecturerRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	evaluationRepo := repository.NewEvaluationRepository(db)
	userRepo := repository.NewUserRepository(db)
	draftRepo := repository.NewDraftRepository(redisClient)

	var mail mailer.Mailer
	if cfg.Email.Provider == "sendgrid" && cfg.Email.SendgridAPIKey != "" {
		mail = mailer.NewSendgridMailer(cfg.Email.SendgridAPIKey, cfg.Email.FromName, cfg.Email.FromEmail)
	} else {
		mail = mailer.NewConsoleMailer(logr)
	}
	notifications := service.NewNotificationService(mail, metrics, cfg.Email, logr)
	notifications.Start(ctx)
	defer notifications.Stop()

	authService := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		Secret:      cfg.JWT.Secret,
		TokenExpiry: cfg.JWT.Expiration,
		Issuer:      "kuliah-api",
	})
	lecturerService := service.NewLecturerService(lecturerRepo, cacheService, validate, logr)
	sessionService := service.NewSessionService(sessionRepo, cacheService, validate, logr)
	evaluationService := service.NewEvaluationService(evaluationRepo, lecturerRepo, cacheService, notifications, metrics, logr)
	dashboardService := service.NewDashboardService(evaluationRepo, lecturerRepo, cacheService, service.DashboardConfig{
		AlertThreshold: cfg.Alerts.Threshold,
		TrendMonths:    cfg.Trend.Months,
		CacheTTL:       cfg.Cache.TTL,
	}, logr)
	reportService := service.NewReportService(evaluationRepo, lecturerRepo, store, signer, cfg.PublicBaseURL, logr)
	draftService := service.NewDraftService(draftRepo, cfg.Drafts.TTL, logr)

	go cleanupLoop(ctx, reportService, cfg.Reports.SignedURLTTL, logr.Sugar())

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	systemHandler := handler.NewSystemHandler(db, redisClient, metrics)
	r.GET("/health", systemHandler.Health)
	r.GET("/ready", systemHandler.Ready)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.Register(r, cfg.APIPrefix, handler.Handlers{
		Auth:       handler.NewAuthHandler(authService),
		Lecturer:   handler.NewLecturerHandler(lecturerService),
		Session:    handler.NewSessionHandler(sessionService),
		Evaluation: handler.NewEvaluationHandler(evaluationService),
		Dashboard:  handler.NewDashboardHandler(dashboardService),
		Report:     handler.NewReportHandler(reportService, store),
		Draft:      handler.NewDraftHandler(draftService),
		QR:         handler.NewQRHandler(cfg.PublicBaseURL),
		System:     systemHandler,
	}, authService)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}

// cleanupLoop removes report artefacts whose signed URLs have expired.
func cleanupLoop(ctx context.Context, reports *service.ReportService, ttl time.Duration, logr *zap.SugaredLogger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := reports.CleanupExpired(ttl); err != nil {
				logr.Warnw("report cleanup failed", "error", err)
			}
		}
	}
}
