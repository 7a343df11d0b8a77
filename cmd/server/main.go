package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/chenterphai/releasehub/internal/config"
	"github.com/chenterphai/releasehub/internal/events"
	"github.com/chenterphai/releasehub/internal/httpserver"
	"github.com/chenterphai/releasehub/internal/middleware"
	"github.com/chenterphai/releasehub/internal/models"
	"github.com/chenterphai/releasehub/internal/repo"
	"github.com/chenterphai/releasehub/internal/search"
	"github.com/chenterphai/releasehub/internal/service"
	"github.com/chenterphai/releasehub/pkg/db"
	"github.com/chenterphai/releasehub/pkg/logging"
	"github.com/chenterphai/releasehub/pkg/tokens"
)

func main() {
	cfg := config.Load()
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTAccessSecret, "JWT_SECRET")
	config.MustNonEmptyBytes(cfg.JWTRefreshSecret, "JWT_REFRESH_SECRET")

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gormDB, err := db.Open(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	if err := gormDB.AutoMigrate(&models.User{}, &models.RefreshToken{}, &models.Release{}); err != nil {
		log.Fatalf("db migrate error: %v", err)
	}

	tokenSvc := &tokens.Service{
		AccessSecret:  cfg.JWTAccessSecret,
		RefreshSecret: cfg.JWTRefreshSecret,
		AccessTTL:     cfg.AccessTokenTTL,
		RefreshTTL:    cfg.RefreshTokenTTL,
	}

	store := repo.New(gormDB)

	producer := events.NewProducer(cfg.KafkaBrokers)
	defer producer.Close()

	var releaseIndex *search.ReleaseIndex
	if cfg.ESURL != "" {
		esClient, err := search.NewClient(search.Config{
			URL:      cfg.ESURL,
			Username: cfg.ESUser,
			Password: cfg.ESPassword,
		})
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
		releaseIndex = search.NewReleaseIndex(esClient, search.DefaultReleaseIndex)
	}

	var limiter *middleware.RateLimiter
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		limiter = middleware.NewRateLimiter(rdb, cfg.AuthRateLimit, cfg.AuthRateWindow, "rl:auth")
	}

	authSvc := &service.AuthService{
		Repo:           store,
		Tokens:         tokenSvc,
		Producer:       producer,
		AdminWhitelist: cfg.AdminWhitelist,
	}
	releaseSvc := &service.ReleaseService{
		Repo:     store,
		Producer: producer,
		Search:   releaseIndex,
	}

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler:      &httpserver.AuthHTTP{Svc: authSvc, SecureCookie: cfg.IsProduction()},
		UserHandler:      &httpserver.UserHTTP{Svc: &service.UserService{Repo: store}},
		ReleaseHandler:   &httpserver.ReleaseHTTP{Svc: releaseSvc, Search: releaseIndex},
		Auth:             middleware.NewAuth(tokenSvc, store),
		RateLimiter:      limiter,
		Logger:           logger,
		WhitelistOrigins: cfg.WhitelistOrigins,
	})

	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	defer stopJanitor()
	go expiredTokenJanitor(janitorCtx, store, logger)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.ServerPort)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("echo start: %v", err)
		}
	}()
	logger.Info("server started", "port", cfg.ServerPort, "env", cfg.Env)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("echo shutdown: %v", err)
	}
}

// expiredTokenJanitor prunes refresh-token records past their natural
// expiry. Revocation checks do not depend on it: an expired token
// fails signature verification regardless of the record.
func expiredTokenJanitor(ctx context.Context, store *repo.GormRepo, logger *slog.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.DeleteExpiredRefreshTokens(ctx)
			if err != nil {
				logger.Error("token_janitor_error", "error", err)
				continue
			}
			if n > 0 {
				logger.Info("token_janitor_pruned", "count", n)
			}
		}
	}
}
