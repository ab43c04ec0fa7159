// Command api serves the Bisafix marketplace REST API.
//
//	@title			Bisafix Marketplace API
//	@version		1.0
//	@description	Registration, sessions, profiles and artisan verification for the Bisafix marketplace.
//	@BasePath		/api/v1
//	@securityDefinitions.apikey	BearerToken
//	@in							header
//	@name						Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/bisafix/marketplace-api/internal/api"
	"github.com/bisafix/marketplace-api/internal/api/handler"
	"github.com/bisafix/marketplace-api/internal/core/ports"
	"github.com/bisafix/marketplace-api/internal/core/service"
	"github.com/bisafix/marketplace-api/internal/infrastructure/config"
	mongostore "github.com/bisafix/marketplace-api/internal/infrastructure/db/mongo"
	pgstore "github.com/bisafix/marketplace-api/internal/infrastructure/db/postgres"
	redisstore "github.com/bisafix/marketplace-api/internal/infrastructure/db/redis"
	"github.com/bisafix/marketplace-api/internal/infrastructure/media"
	"github.com/bisafix/marketplace-api/internal/infrastructure/queue"
	"github.com/bisafix/marketplace-api/internal/infrastructure/session"
	"github.com/bisafix/marketplace-api/internal/pkg/password"
	"github.com/bisafix/marketplace-api/pkg/logger"
)

// userStore is implemented by both store drivers.
type userStore interface {
	ports.UserRepository
	ports.ArtisanRepository
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "api: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "bisafix-api",
	})

	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()

	mediaStore, err := media.NewStore(media.Config{
		Endpoint:  cfg.Media.Endpoint,
		AccessKey: cfg.Media.AccessKey,
		SecretKey: cfg.Media.SecretKey,
		Bucket:    cfg.Media.Bucket,
		UseSSL:    cfg.Media.UseSSL,
		PublicURL: cfg.Media.PublicURL,
	}, log)
	if err != nil {
		return err
	}
	if err := mediaStore.EnsureBucket(ctx); err != nil {
		log.Warn().Err(err).Msg("media bucket unavailable, uploads will fail until it is reachable")
	}

	sessions := session.NewProvider(rdb, cfg.Session.Secret, cfg.Session.TTL)
	userService := service.NewUserService(store, log)
	mediaService := service.NewMediaService(mediaStore, log)

	sweeper := queue.NewSweeper(cfg.Media.SweeperWorkers, mediaService, logger.Component("orphan_sweeper"))
	sweeper.Start(ctx)

	e := api.NewRouter(api.Dependencies{
		Auth:        service.NewAuthService(store, password.NewHasher(), sessions, log),
		Users:       userService,
		Artisans:    service.NewArtisanService(store, log),
		Media:       mediaService,
		Sessions:    sessions,
		Sweeper:     sweeper,
		RateLimiter: redisstore.NewRateLimitStore(rdb, cfg.RateLimit.Max, cfg.RateLimit.Window, log),
		Checks: map[string]handler.Checker{
			cfg.Store.Driver: store.Ping,
			"redis":          func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
			"media":          mediaStore.Ping,
		},
		Log:       log,
		ClientURL: cfg.ClientURL,
		Cookie: handler.CookieConfig{
			Name:   cfg.Session.CookieName,
			Domain: cfg.Session.CookieDomain,
			Secure: cfg.IsProduction(),
			TTL:    cfg.Session.TTL,
		},
		MediaFolder: cfg.Media.Folder,
		Metrics:     true,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      e,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Str("store", cfg.Store.Driver).Msg("server listening")
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

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (userStore, func(), error) {
	switch cfg.Store.Driver {
	case config.StoreDriverMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{
			URI:         cfg.Mongo.URI,
			Database:    cfg.Mongo.Database,
			MaxPoolSize: cfg.Mongo.MaxPoolSize,
		})
		if err != nil {
			return nil, nil, err
		}
		repo := mongostore.NewUserRepository(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, fmt.Errorf("mongo indexes: %w", err)
		}
		return repo, func() { _ = client.Disconnect(context.Background()) }, nil

	default:
		db, err := pgstore.Connect(ctx, pgstore.Config{
			URL:          cfg.Postgres.URL,
			MaxOpenConns: cfg.Postgres.MaxOpenConns,
			MaxIdleConns: cfg.Postgres.MaxIdleConns,
			AutoMigrate:  cfg.Postgres.AutoMigrate,
		}, log)
		if err != nil {
			return nil, nil, err
		}
		closeDB := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return pgstore.NewUserRepository(db), closeDB, nil
	}
}
