package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"classtrack/internal/app"
	"classtrack/internal/attendance"
	"classtrack/internal/config"
	"classtrack/internal/handler"
	"classtrack/internal/httpmiddleware"
	"classtrack/internal/store"
)

func main() {
	initDB := flag.Bool("init-db", false, "initialize the database schema and seed data, then exit")
	flag.Parse()

	cfg := config.Load()

	logger := app.NewLogger(cfg.Env)
	defer logger.Sync()
	sugar := logger.Sugar()

	if cfg.Env == "production" || cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := store.New(cfg.DBPath)
	if err != nil {
		sugar.Fatalw("open database", "path", cfg.DBPath, "err", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := store.Seed(ctx, db.Client); err != nil {
		sugar.Fatalw("seed database", "err", err)
	}

	if *initDB {
		sugar.Infow("database initialized", "path", cfg.DBPath)
		return
	}

	repo := attendance.NewRepository(db.Client)
	svc := attendance.NewService(repo, cfg.PublicBaseURL, cfg.SessionMinutes)
	h := handler.New(svc, sugar)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpmiddleware.RequestLogger(logger, "/healthz", "/metrics"))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
	}))
	r.Use(httpmiddleware.NewRateLimiter(cfg.RateLimitPerMin).Middleware())

	handler.Routes(r, h, cfg.WebDir)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sugar.Infow("server starting", "port", cfg.HTTPPort, "base_url", cfg.PublicBaseURL)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalw("server error", "err", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	sugar.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		sugar.Errorw("forced shutdown", "err", err)
	}
	sugar.Info("server exited")
}
