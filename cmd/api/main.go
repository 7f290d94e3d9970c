package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"portfolio-api/internal/auth"
	"portfolio-api/internal/config"
	"portfolio-api/internal/geo"
	"portfolio-api/internal/httpapi"
	"portfolio-api/internal/portfolio"
	"portfolio-api/internal/upload"
	"portfolio-api/internal/visitor"
	"portfolio-api/pkg/logger"
	"portfolio-api/pkg/utils"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
)

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

	authManager, err := auth.NewManager(cfg.Auth)
	if err != nil {
		log.Error("auth init failed", "err", err)
		os.Exit(1)
	}

	db, err := utils.OpenPostgres(rootCtx, "pgx", cfg.PostgresDSN(), utils.PostgresPoolConfig{})
	if err != nil {
		log.Error("postgres init failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	contentRepo := portfolio.NewPostgresRepo(db)
	visitorRepo := visitor.NewPostgresRepo(db)
	if err := contentRepo.EnsureSchema(rootCtx); err != nil {
		log.Error("content schema init failed", "err", err)
		os.Exit(1)
	}
	if err := visitorRepo.EnsureSchema(rootCtx); err != nil {
		log.Error("visitor schema init failed", "err", err)
		os.Exit(1)
	}

	if cfg.App.SeedDB {
		if err := portfolio.Seed(rootCtx, contentRepo); err != nil {
			log.Error("seed failed", "err", err)
			os.Exit(1)
		}
	}

	rdb, err := utils.OpenRedis(rootCtx, utils.RedisConfig{Addr: cfg.RedisAddr()})
	if err != nil {
		log.Error("redis init failed", "err", err)
		os.Exit(1)
	}
	defer rdb.Close()

	uploads, err := upload.NewStorage(cfg.Upload.Dir)
	if err != nil {
		log.Error("upload storage init failed", "err", err)
		os.Exit(1)
	}

	geoClient := geo.NewClient(cfg.Geo.BaseURL, cfg.Geo.Timeout)
	recorder := visitor.NewRecorder(visitorRepo, geoClient,
		visitor.WithTrackLocal(cfg.Tracker.TrackLocal))
	analytics := visitor.NewAnalytics(visitorRepo)

	// Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))

	h := httpapi.Handlers{
		Auth:      authManager,
		Admin:     cfg.Auth,
		Repo:      contentRepo,
		Recorder:  recorder,
		Analytics: analytics,
		Uploads:   uploads,
		Cache:     rdb,
	}
	registerRoutes(r, h, auth.RequireAdmin(authManager), uploads.Dir())

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.App.Env)
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
