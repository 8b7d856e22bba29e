package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"

	_ "github.com/uad-deukouway/housing-api/api/swagger"
	"github.com/uad-deukouway/housing-api/internal/handler"
	"github.com/uad-deukouway/housing-api/internal/repository"
	"github.com/uad-deukouway/housing-api/internal/router"
	"github.com/uad-deukouway/housing-api/internal/service"
	"github.com/uad-deukouway/housing-api/pkg/cache"
	"github.com/uad-deukouway/housing-api/pkg/config"
	"github.com/uad-deukouway/housing-api/pkg/database"
	"github.com/uad-deukouway/housing-api/pkg/jobs"
	"github.com/uad-deukouway/housing-api/pkg/logger"
	"github.com/uad-deukouway/housing-api/pkg/mailer"
)

// @title Student Housing API
// @version 1.0.0
// @description Classifieds API for student accommodation
// @BasePath /api
// @schemes http https

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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("database connection failed", "error", err)
	}
	defer db.Close() //nolint:errcheck

	metrics := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if redisClient, err := cache.NewRedis(cfg.Redis); err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		cacheSvc = service.NewCacheService(nil, metrics, cfg.Stats.CacheTTL, logr, false)
	} else {
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		cacheSvc = service.NewCacheService(cacheRepo, metrics, cfg.Stats.CacheTTL, logr, cfg.Stats.CacheEnabled)
		defer cacheRepo.Close() //nolint:errcheck
	}

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	listingRepo := repository.NewListingRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	statsRepo := repository.NewStatisticsRepository(db)

	viewQueue := jobs.NewQueue("listing-views", func(ctx context.Context, job jobs.Job) error {
		id, ok := job.Payload.(string)
		if !ok {
			return fmt.Errorf("unexpected payload type %T", job.Payload)
		}
		return listingRepo.IncrementViews(ctx, id)
	}, jobs.QueueConfig{Workers: 2, MaxRetries: 1, Logger: logr})
	viewQueue.Start(context.Background())
	defer viewQueue.Stop()

	var sender mailer.Sender
	if cfg.SMTP.Host != "" {
		sender = mailer.NewSMTP(cfg.SMTP, cfg.Notify.From)
	} else {
		logr.Warn("smtp not configured, notification batches will only be logged")
		sender = mailer.NewLog(logr)
	}

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthServiceConfig{
		Secret:             cfg.Auth.Secret,
		SessionTTL:         cfg.Auth.SessionTTL,
		RejectBlockedLogin: cfg.Auth.RejectBlockedLogin,
	})
	listingSvc := service.NewListingService(listingRepo, cacheSvc, viewQueue, validate, logr)
	userSvc := service.NewUserService(userRepo, cacheSvc, logr)
	messageSvc := service.NewMessageService(messageRepo, validate, logr)
	statsSvc := service.NewStatisticsService(statsRepo, cacheSvc, metrics, logr)
	notifierSvc := service.NewNotifierService(userRepo, listingRepo, sender, metrics, logr, cfg.Notify)

	cookie := handler.CookieSettings{Domain: cfg.Auth.CookieDomain, Secure: cfg.Auth.CookieSecure}

	engine := router.New(router.Dependencies{
		Config:  cfg,
		Logger:  logr,
		Metrics: metrics,
		Auth:    authSvc,
		Users:   userRepo,

		AuthHandler:       handler.NewAuthHandler(authSvc, cookie),
		ListingHandler:    handler.NewListingHandler(listingSvc),
		ModerationHandler: handler.NewModerationHandler(listingSvc),
		UserHandler:       handler.NewUserHandler(userSvc),
		MessageHandler:    handler.NewMessageHandler(messageSvc),
		StatisticsHandler: handler.NewStatisticsHandler(statsSvc),
		NotifierHandler:   handler.NewNotifierHandler(notifierSvc),
		MetricsHandler:    handler.NewMetricsHandler(metrics, db),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logr.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logr.Sugar().Errorw("shutdown incomplete", "error", err)
	}
}
