package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"blog-service/internal/auth"
	"blog-service/internal/config"
	apphttp "blog-service/internal/http"
	"blog-service/internal/repository"
	"blog-service/internal/repository/postgres"
	"blog-service/internal/repository/sqlite"
	"blog-service/internal/service"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("invalid config: %v", err)
	}
	configureLogger(logger, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	users, posts, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("open store: %v", err)
	}
	defer closeStore()

	if err := users.Init(ctx); err != nil {
		logger.Fatalf("init user repository: %v", err)
	}
	if err := posts.Init(ctx); err != nil {
		logger.Fatalf("init post repository: %v", err)
	}

	hasher, err := auth.NewHasher(auth.ArgonParams{
		Time:    cfg.Auth.Argon.Time,
		Memory:  cfg.Auth.Argon.Memory,
		Threads: cfg.Auth.Argon.Threads,
	})
	if err != nil {
		logger.Fatalf("setup password hasher: %v", err)
	}
	tokens := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.TokenTTL())

	userService := service.NewUserService(users, hasher, service.WithLogger(logger))
	postService := service.NewPostService(posts, service.WithLogger(logger))

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler := apphttp.NewHandler(userService, postService, tokens, logger, cfg.CORS.Origins)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}

	logger.Info("bye")
}

func configureLogger(logger *logrus.Logger, cfg config.Config) {
	if cfg.Log.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.Warnf("unknown log level %q, using info", cfg.Log.Level)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
}

func openStore(ctx context.Context, cfg config.Config, logger *logrus.Logger) (repository.UserRepository, repository.PostRepository, func(), error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		pool, err := postgres.Open(ctx, cfg.Database.URL, cfg.Database.MaxConns)
		if err != nil {
			return nil, nil, nil, err
		}
		logger.Info("using postgres store")
		return postgres.NewUserRepository(pool), postgres.NewPostRepository(pool), pool.Close, nil
	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.Database.Path)
		if err != nil {
			return nil, nil, nil, err
		}
		logger.Infof("using sqlite store at %s", cfg.Database.Path)
		return sqlite.NewUserRepository(db), sqlite.NewPostRepository(db), func() { _ = db.Close() }, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}
