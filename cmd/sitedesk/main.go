// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the SiteDesk server. It loads
// configuration, connects to services, sets up routing, and starts the
// HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sitedesk/internal/config"
	"sitedesk/internal/content"
	"sitedesk/internal/database"
	"sitedesk/internal/handlers"
	"sitedesk/internal/models"
	"sitedesk/internal/render"
	"sitedesk/internal/router"
	"sitedesk/internal/session"
	"sitedesk/internal/storage"
	"sitedesk/internal/store"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL and run pending migrations.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed the default user in development (no-op if one exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Redis for sessions.
	redisClient, err := session.Connect(cfg.RedisHost, cfg.RedisPort, cfg.RedisPassword)
	if err != nil {
		slog.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	// In non-development environments, mark cookies as Secure (HTTPS-only).
	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(redisClient, secureCookies)

	renderer, err := render.New()
	if err != nil {
		slog.Error("failed to initialize template renderer", "error", err)
		os.Exit(1)
	}

	// Connect to S3-compatible object storage. Optional: without it the
	// dashboard still runs, with uploads disabled.
	var assets content.AssetStore
	storageClient, err := storage.New(
		cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
		cfg.S3Bucket, cfg.S3PublicURL,
	)
	if err != nil {
		slog.Error("failed to initialize object storage", "error", err)
		os.Exit(1)
	}
	if storageClient != nil {
		assets = storageClient
		slog.Info("object storage connected",
			"endpoint", cfg.S3Endpoint,
			"bucket", cfg.S3Bucket,
		)
	} else {
		slog.Warn("object storage not configured, uploads disabled")
	}

	// Data stores and the content layer on top of them.
	userStore := store.NewUserStore(db)
	imageStore := store.NewImageStore(db)
	featuredStore := store.NewFeaturedStore(db)

	editors := map[string]*content.Editor{
		"events": content.NewEditor(assets, store.NewCollectionStore(db, models.Events)),
		"blogs":  content.NewEditor(assets, store.NewCollectionStore(db, models.Blogs)),
		"about":  content.NewEditor(assets, store.NewCollectionStore(db, models.About)),
	}
	library := content.NewImageLibrary(assets, imageStore)
	selector := content.NewSelector(featuredStore, imageStore)

	// Handler groups.
	adminHandlers := handlers.NewAdmin(renderer, editors, library, selector)
	authHandlers := handlers.NewAuth(renderer, sessionStore, userStore)
	publicHandlers := handlers.NewPublic(renderer, editors["events"], editors["blogs"], selector)

	r := router.New(sessionStore, adminHandlers, authHandlers, publicHandlers, secureCookies)

	// WriteTimeout must accommodate multi-file gallery uploads.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
