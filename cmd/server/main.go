// Package main initializes and starts the PalmLink reference server,
// setting up configuration, logging, the database connection, repositories,
// services and HTTP handlers.
package main

import (
	"cmp"
	"context"
	"fmt"
	"time"

	nethttp "net/http"

	"go.uber.org/zap"

	"github.com/palmlink/palmlink/internal/auth"
	"github.com/palmlink/palmlink/internal/cache"
	"github.com/palmlink/palmlink/internal/config"
	"github.com/palmlink/palmlink/internal/db"
	"github.com/palmlink/palmlink/internal/logger"
	"github.com/palmlink/palmlink/internal/repository"
	"github.com/palmlink/palmlink/internal/server/handler/http"
	"github.com/palmlink/palmlink/internal/service"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

const profileCacheTTLSeconds = 300

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	// Initialize PostgreSQL connection.
	postgresDB, err := db.InitPostgres(options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}

	// Periodically drop scan history past the retention window.
	db.StartHistoryRetention(context.Background(), postgresDB,
		time.Hour,
		options.HistoryRetention,
		zapLogger,
	)

	// Initialize repositories.
	userRepo := repository.NewPostgresUserRepository(postgresDB)
	contactRepo := repository.NewPostgresContactRepository(postgresDB)
	historyRepo := repository.NewPostgresHistoryRepository(postgresDB)

	// Initialize token signing and the business-logic services.
	tokens, err := auth.NewTokenService(options.JWTSecret, auth.DefaultTTL)
	if err != nil {
		zapLogger.Fatal("cannot init token service", zap.Error(err))
	}

	matcher := service.SHA256Matcher{}
	profileCache := cache.New(options.CacheSizeMB, profileCacheTTLSeconds)

	authService := service.NewAuthService(userRepo, tokens, matcher)
	profileService := service.NewProfileService(userRepo, profileCache, zapLogger)
	contactService := service.NewContactService(contactRepo)
	recognizeService := service.NewRecognizeService(userRepo, contactRepo, historyRepo, matcher, zapLogger)
	historyService := service.NewHistoryService(historyRepo)

	// Create HTTP handlers.
	authHandler := &http.AuthHandler{Auth: authService, Log: zapLogger}
	profileHandler := &http.ProfileHandler{Profile: profileService, Log: zapLogger}
	contactHandler := &http.ContactHandler{Contacts: contactService, Log: zapLogger}
	scanHandler := &http.ScanHandler{Recognizer: recognizeService, History: historyService, Log: zapLogger}

	// Build the router with middleware and routes.
	router := http.NewRouter(authHandler, profileHandler, contactHandler, scanHandler, tokens, zapLogger)

	server := &nethttp.Server{
		Addr:    options.Addr,
		Handler: router,
	}

	zapLogger.Info("starting HTTP server", zap.String("addr", options.Addr))
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
}
