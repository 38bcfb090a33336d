package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/docuviet/hopdong/internal/acquire"
	"github.com/docuviet/hopdong/internal/config"
	dbRedis "github.com/docuviet/hopdong/internal/db/redis"
	logpkg "github.com/docuviet/hopdong/internal/logger"
	"github.com/docuviet/hopdong/internal/metrics"
	catalogrepo "github.com/docuviet/hopdong/internal/repository/catalog"
	contractrepo "github.com/docuviet/hopdong/internal/repository/contract"
	chiTransport "github.com/docuviet/hopdong/internal/transport/chi"
	openaiVision "github.com/docuviet/hopdong/internal/transport/openai"
	cataloguc "github.com/docuviet/hopdong/internal/usecase/catalog"
	contractuc "github.com/docuviet/hopdong/internal/usecase/contract"
	healthuc "github.com/docuviet/hopdong/internal/usecase/health"
	ingestuc "github.com/docuviet/hopdong/internal/usecase/ingest"
	searchuc "github.com/docuviet/hopdong/internal/usecase/search"
	"github.com/docuviet/hopdong/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting hopdong API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.String("acquisition_engine", cfg.Acquisition.Engine),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register ingestion metrics explicitly (no init())
	metrics.RegisterAcquisitionMetrics()

	engine, engineChecker := buildEngine(cfg, logger)

	contractRepo := contractrepo.New(store, cfg.Storage.KeyPrefix)
	catalogRepo := catalogrepo.New(store, cfg.Storage.KeyPrefix)

	ingestSvc := ingestuc.New(contractRepo, engine, catalogRepo, cfg.Storage.UploadDir)
	contractSvc := contractuc.New(contractRepo)
	searchSvc := searchuc.New(contractRepo)
	catalogSvc := cataloguc.New(catalogRepo)
	healthSvc := healthuc.New(store, engineChecker)

	server := chiTransport.NewServer(
		ingestSvc, contractSvc, searchSvc, catalogSvc, healthSvc,
		int64(cfg.Storage.MaxUploadMB)<<20, logger,
	)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildEngine selects the text recognition engine. The vision engine doubles
// as a health checker; the local CLI engine has nothing remote to probe.
func buildEngine(cfg config.Config, logger *zap.Logger) (ingestuc.Recognizer, healthuc.EngineChecker) {
	if cfg.Acquisition.Engine == "openai" {
		v := openaiVision.NewVision(&openaiVision.Config{
			APIKey:  cfg.Acquisition.OpenAI.APIKey,
			BaseURL: cfg.Acquisition.OpenAI.BaseURL,
			Model:   cfg.Acquisition.OpenAI.Model,
			Logger:  logger,
		})
		return v, v
	}

	t := acquire.NewTesseract(acquire.TesseractConfig{
		TesseractBin: cfg.Acquisition.Tesseract.TesseractBin,
		PdftotextBin: cfg.Acquisition.Tesseract.PdftotextBin,
		PdftoppmBin:  cfg.Acquisition.Tesseract.PdftoppmBin,
		Languages:    cfg.Acquisition.Tesseract.Languages,
		DPI:          cfg.Acquisition.Tesseract.DPI,
		Timeout:      time.Duration(cfg.Acquisition.Tesseract.TimeoutSec) * time.Second,
	}, logger)
	return t, nil
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
