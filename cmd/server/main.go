package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/business-management-api/internal/access"
	"github.com/yukikurage/business-management-api/internal/auth"
	"github.com/yukikurage/business-management-api/internal/cache"
	"github.com/yukikurage/business-management-api/internal/config"
	"github.com/yukikurage/business-management-api/internal/constants"
	"github.com/yukikurage/business-management-api/internal/database"
	"github.com/yukikurage/business-management-api/internal/handlers"
	"github.com/yukikurage/business-management-api/internal/logger"
	"github.com/yukikurage/business-management-api/internal/middleware"
	"github.com/yukikurage/business-management-api/internal/notify"
	"github.com/yukikurage/business-management-api/internal/repository"
	"github.com/yukikurage/business-management-api/internal/services"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	gin.SetMode(cfg.GinMode)
	logg := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Development: cfg.GinMode == gin.DebugMode,
	})
	defer func() { _ = logg.Sync() }()

	if err := run(cfg, logg); err != nil {
		logg.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logg *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg.Database, logg)
	if err != nil {
		return err
	}
	if err := database.Migrate(db, logg); err != nil {
		return err
	}
	if err := database.Seed(db); err != nil {
		return err
	}

	rdb, err := cache.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return err
	}
	defer rdb.Close()

	repos := repository.New(db)
	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.AccessTokenTTL, cfg.JWT.RefreshTokenTTL, cfg.JWT.ResetTokenTTL)
	hasher := auth.NewHasher(0)
	invites := cache.NewRedisCache(rdb, "invitation:")
	notifier := notify.NewNotifier(notify.NewRedisQueue(rdb, constants.InvitationQueueKey), logg)

	limiter, err := middleware.RateLimit(rdb, cfg.AuthRateLimit)
	if err != nil {
		return err
	}

	aiService := services.NewAIService(repos, cfg.OpenAIAPIKey)
	if !aiService.Enabled() {
		logg.Info("OPENAI_API_KEY not set, task drafts are disabled")
	}

	router, err := handlers.NewRouter(handlers.RouterConfig{
		Log:         logg,
		Gate:        access.NewGate(tokens),
		UserLoader:  repos.Users,
		AuthLimiter: limiter,
		Health: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			if err := sqlDB.PingContext(ctx); err != nil {
				return err
			}
			return rdb.Ping(ctx).Err()
		},
	}, handlers.Services{
		Auth:          services.NewAuthService(repos, tokens, hasher, invites, logg),
		Users:         services.NewUserService(repos, tokens, hasher, logg),
		Organizations: services.NewOrganizationService(repos, invites, notifier, cfg.InvitationTTL, logg),
		Departments:   services.NewDepartmentService(repos, logg),
		Meetings:      services.NewMeetingService(repos, logg),
		Tasks:         services.NewTaskService(repos, logg),
		AI:            aiService,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info("server starting", zap.String("addr", cfg.ServerAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logg.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
