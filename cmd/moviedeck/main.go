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

	"github.com/duma2005/moviedeck/internal/config"
	"github.com/duma2005/moviedeck/internal/db"
	dbPostgres "github.com/duma2005/moviedeck/internal/db/postgres"
	dbRedis "github.com/duma2005/moviedeck/internal/db/redis"
	logpkg "github.com/duma2005/moviedeck/internal/logger"
	"github.com/duma2005/moviedeck/internal/metrics"
	extcacherepo "github.com/duma2005/moviedeck/internal/repository/extcache"
	genrerepo "github.com/duma2005/moviedeck/internal/repository/genre"
	movierepo "github.com/duma2005/moviedeck/internal/repository/movie"
	personrepo "github.com/duma2005/moviedeck/internal/repository/person"
	ratingrepo "github.com/duma2005/moviedeck/internal/repository/rating"
	userrepo "github.com/duma2005/moviedeck/internal/repository/user"
	watchlistrepo "github.com/duma2005/moviedeck/internal/repository/watchlist"
	"github.com/duma2005/moviedeck/internal/transport/gemini"
	"github.com/duma2005/moviedeck/internal/transport/httpapi"
	openaiGen "github.com/duma2005/moviedeck/internal/transport/openai"
	authuc "github.com/duma2005/moviedeck/internal/usecase/auth"
	chatbotuc "github.com/duma2005/moviedeck/internal/usecase/chatbot"
	externaluc "github.com/duma2005/moviedeck/internal/usecase/external"
	healthuc "github.com/duma2005/moviedeck/internal/usecase/health"
	movieuc "github.com/duma2005/moviedeck/internal/usecase/movie"
	ratinguc "github.com/duma2005/moviedeck/internal/usecase/rating"
	watchlistuc "github.com/duma2005/moviedeck/internal/usecase/watchlist"
	"github.com/duma2005/moviedeck/internal/version"
)

const generatorTemperature = 0.4

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting moviedeck API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("generator_provider", cfg.Generator.Provider),
	)

	ctx := context.Background()

	pool, err := dbPostgres.New(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("Failed to create database pool", zap.Error(err))
	}
	defer pool.Close()

	if err := dbPostgres.WaitForReady(ctx, pool, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	if err := dbPostgres.EnsureSchema(ctx, pool); err != nil {
		logger.Fatal("Failed to apply schema", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Optional Redis cache for proxied external responses
	var cache db.Store
	if len(cfg.Cache.Addrs) > 0 {
		cache, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer cache.Close()
		logger.Info("Connected to cache", zap.Strings("addrs", cfg.Cache.Addrs))
	}

	// Register chat metrics explicitly (no init())
	metrics.RegisterChatMetrics()

	// Repositories
	movies := movierepo.New(pool)
	users := userrepo.New(pool)
	ratings := ratingrepo.New(pool)
	watchlist := watchlistrepo.New(pool)
	genres := genrerepo.New(pool)
	people := personrepo.New(pool)

	// Answer generator — provider switch, nil when no API key
	generator := buildGenerator(ctx, cfg.Generator, logger)

	// Use case services
	tokens := authuc.NewTokenIssuer(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLMin)*time.Minute)
	authSvc := authuc.New(users, tokens, logger)
	chatSvc := chatbotuc.New(movies, generator, logger)
	movieSvc := movieuc.New(movies, ratings, logger)
	ratingSvc := ratinguc.New(ratings, movies, logger)
	watchlistSvc := watchlistuc.New(watchlist, movies, logger)
	externalSvc := buildExternal(cfg, cache, logger)
	healthSvc := healthuc.New(pool, cachePinger(cache), generator != nil)

	server := httpapi.NewServer(
		chatSvc, authSvc, movieSvc, ratingSvc, watchlistSvc,
		genres, people, externalSvc, healthSvc, logger,
	)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
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

// buildGenerator picks the answer provider. Returns a nil interface when
// no API key is configured — the chat service then answers from the
// deterministic fallback alone.
func buildGenerator(ctx context.Context, cfg config.GeneratorConfig, logger *zap.Logger) chatbotuc.Generator {
	if cfg.APIKey == "" {
		logger.Warn("No generator API key configured, chat answers use fallback only")
		return nil
	}

	timeout := time.Duration(cfg.TimeoutSec) * time.Second

	switch cfg.Provider {
	case "openai":
		return openaiGen.New(&openaiGen.Config{
			APIKey:      cfg.APIKey,
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			Temperature: generatorTemperature,
			Timeout:     timeout,
			Logger:      logger,
		})
	default: // gemini
		gen, err := gemini.New(ctx, &gemini.Config{
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			Temperature: generatorTemperature,
			Timeout:     timeout,
			Logger:      logger,
		})
		if err != nil {
			logger.Fatal("Failed to create generator", zap.Error(err))
		}
		return gen
	}
}

// buildExternal assembles the upstream proxy service, wrapping each
// fetcher in a cache decorator when a cache store is configured.
func buildExternal(cfg config.Config, cache db.Store, logger *zap.Logger) *externaluc.Service {
	timeout := time.Duration(cfg.External.TimeoutSec) * time.Second
	ttl := time.Duration(cfg.Cache.TTLSec) * time.Second

	wrap := func(inner externaluc.Fetcher) externaluc.Fetcher {
		if cache == nil {
			return inner
		}
		return extcacherepo.New(inner, cache, ttl, metrics.ExternalCacheTotal, logger)
	}

	var omdb, trakt externaluc.Fetcher
	if cfg.External.OMDbAPIKey != "" {
		omdb = wrap(externaluc.NewHTTPFetcher(timeout, nil))
	}
	if cfg.External.TraktClientID != "" {
		trakt = wrap(externaluc.NewHTTPFetcher(timeout, externaluc.TraktHeaders(cfg.External.TraktClientID)))
	}

	return externaluc.New(omdb, trakt, cfg.External.OMDbAPIKey, cfg.External.TraktClientID, logger)
}

// cachePinger avoids a typed-nil interface when no cache is configured.
func cachePinger(cache db.Store) healthuc.CachePinger {
	if cache == nil {
		return nil
	}
	return cache
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

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

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
