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

	"github.com/Gatanot/GaussProject/internal/config"
	"github.com/Gatanot/GaussProject/internal/logger"
	"github.com/Gatanot/GaussProject/internal/metrics"
	documentrepo "github.com/Gatanot/GaussProject/internal/repository/document"
	querylogrepo "github.com/Gatanot/GaussProject/internal/repository/querylog"
	searchrepo "github.com/Gatanot/GaussProject/internal/repository/search"
	chiTransport "github.com/Gatanot/GaussProject/internal/transport/chi"
	gen "github.com/Gatanot/GaussProject/internal/transport/generated"
	healthuc "github.com/Gatanot/GaussProject/internal/usecase/health"
	searchuc "github.com/Gatanot/GaussProject/internal/usecase/search"
	trendinguc "github.com/Gatanot/GaussProject/internal/usecase/trending"
	"github.com/Gatanot/GaussProject/internal/version"
)

const recorderDrainTimeout = 5 * time.Second

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log, err := logger.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting gauss search server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("querylog_driver", cfg.QueryLog.Driver),
	)

	stores, err := openStores(&cfg, log)
	if err != nil {
		log.Fatal("Failed to create stores", zap.Error(err))
	}
	defer stores.Close()

	// Wait for stores to be ready
	ctx := context.Background()
	readiness := time.Duration(cfg.Database.ReadinessTimeout) * time.Second
	if err := stores.docs.WaitForReady(ctx, readiness); err != nil {
		log.Fatal("Database not ready", zap.Error(err))
	}
	if err := stores.log.WaitForReady(ctx, readiness); err != nil {
		log.Fatal("Query log not ready", zap.Error(err))
	}
	log.Info("Connected to stores")

	metrics.RegisterSearchMetrics()

	// Repositories
	searchRepo := searchrepo.New(stores.docs)
	documentRepo := documentrepo.New(stores.docs)
	queryLogRepo := querylogrepo.New(stores.log)

	// Query-log writer pool
	recorder, err := searchuc.NewAsyncRecorder(queryLogRepo, cfg.QueryLog.Workers, log)
	if err != nil {
		log.Fatal("Failed to create query log writer", zap.Error(err))
	}

	// Use case services
	searchSvc := searchuc.New(searchRepo, queryLogRepo, recorder, searchuc.Config{
		DefaultLimit:   cfg.Search.DefaultLimit,
		MaxLimit:       cfg.Search.MaxLimit,
		VocabularySize: cfg.Search.VocabularySize,
	})
	trendingSvc := trendinguc.New(documentRepo, queryLogRepo, cfg.Search.TrendingSize)
	healthSvc := healthuc.New(stores.docs, stores.separateLog())

	trustedProxies, err := chiTransport.ParseTrustedProxies(cfg.HTTP.TrustedProxies)
	if err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}

	server := chiTransport.NewServer(searchSvc, trendingSvc, healthSvc, log)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(log))
	r.Use(chiMiddleware.RequestID)
	r.Use(chiTransport.TrustedProxyMiddleware(trustedProxies))
	r.Use(wideEventMiddleware(log))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(chiTransport.RateLimitMiddleware(cfg.HTTP.RateLimit.RPS, cfg.HTTP.RateLimit.Burst))
	r.Use(chiTransport.ActorMiddleware(cfg.Auth.ActorHeader))
	r.Use(metrics.Middleware())
	gen.HandlerWithOptions(server, gen.ChiServerOptions{
		BaseRouter:       r,
		ErrorHandlerFunc: chiTransport.ParamErrorHandler,
	})

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
		log.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	log.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Error during shutdown", zap.Error(err))
	}

	// Drain pending query-log writes before the stores close.
	if err := recorder.Release(recorderDrainTimeout); err != nil {
		log.Warn("Query log writes still pending at shutdown", zap.Error(err))
	}

	log.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(log *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					log.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(gen.ErrorResponse{
						Code:    gen.ErrorResponseCodeInternalError,
						Message: "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(log *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := log.With(zap.String("request_id", requestID))
			ctx := logger.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				logger.Query(r.URL.Query().Get("q")),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
