package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/topicd/internal/config"
	"github.com/kailas-cloud/topicd/internal/db"
	dbRedis "github.com/kailas-cloud/topicd/internal/db/redis"
	"github.com/kailas-cloud/topicd/internal/domain"
	logpkg "github.com/kailas-cloud/topicd/internal/logger"
	"github.com/kailas-cloud/topicd/internal/metrics"
	budgetrepo "github.com/kailas-cloud/topicd/internal/repository/budget"
	"github.com/kailas-cloud/topicd/internal/repository/gencache"
	chiTransport "github.com/kailas-cloud/topicd/internal/transport/chi"
	"github.com/kailas-cloud/topicd/internal/transport/firebase"
	"github.com/kailas-cloud/topicd/internal/transport/gdrive"
	openaiGen "github.com/kailas-cloud/topicd/internal/transport/openai"
	authuc "github.com/kailas-cloud/topicd/internal/usecase/auth"
	documentuc "github.com/kailas-cloud/topicd/internal/usecase/document"
	generationuc "github.com/kailas-cloud/topicd/internal/usecase/generation"
	healthuc "github.com/kailas-cloud/topicd/internal/usecase/health"
	topicuc "github.com/kailas-cloud/topicd/internal/usecase/topic"
	usageuc "github.com/kailas-cloud/topicd/internal/usecase/usage"
	"github.com/kailas-cloud/topicd/internal/version"
)

func main() {
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

	logger.Info("Starting topicd API server",
		zap.String("version", version.String()),
		zap.String("env", env),
		zap.String("addr", cfg.HTTP.Addr()),
		zap.String("llm_provider", cfg.LLM.Provider),
		zap.String("llm_model", cfg.LLM.Model),
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
	)

	metrics.RegisterPipelineMetrics()

	ctx := context.Background()

	// Shared clients are built once here and only read afterwards.
	verifier, err := firebase.NewVerifier(ctx, firebase.Config{
		CredentialsFile: cfg.Auth.CredentialsFile,
		ProjectID:       cfg.Auth.ProjectID,
		CheckRevoked:    cfg.Auth.CheckRevoked,
	})
	if err != nil {
		logger.Fatal("Failed to initialize token verifier", zap.Error(err))
	}

	drive, err := gdrive.NewClient(ctx, gdrive.Config{ServiceAccountFile: cfg.Drive.ServiceAccountFile})
	if err != nil {
		logger.Fatal("Failed to initialize Drive client", zap.Error(err))
	}

	store := openStore(ctx, cfg.Cache, logger)
	if store != nil {
		defer store.Close()
	}

	// Single BudgetTracker shared by the generator chain and the usage service.
	var budget *generationuc.BudgetTracker
	if cfg.LLM.Budget.Enabled() {
		action := generationuc.BudgetActionWarn
		if cfg.LLM.Budget.Action == "reject" {
			action = generationuc.BudgetActionReject
		}
		budget = generationuc.NewBudgetTracker(
			cfg.LLM.Provider, cfg.LLM.Budget.DailyTokenLimit, cfg.LLM.Budget.MonthlyTokenLimit, action, logger,
		)
		if store != nil {
			budget.WithStore(ctx, budgetrepo.New(store, budgetrepo.DefaultDailyTTL, budgetrepo.DefaultMonthlyTTL))
		}
	}

	// nil interface, not a typed nil pointer, when the budget is off
	var budgetChecker generationuc.BudgetChecker
	var budgetReader usageuc.BudgetReader
	if budget != nil {
		budgetChecker = budget
		budgetReader = budget
	}

	backend := openaiGen.NewGenerator(&openaiGen.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     baseURL(cfg.LLM),
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Provider:    cfg.LLM.Provider,
		Logger:      logger,
	})
	generator := buildGenerator(backend, cfg, store, budgetChecker, logger)

	authSvc := authuc.New(verifier)
	documentSvc := documentuc.New(drive).
		WithFetchTimeout(time.Duration(cfg.Drive.FetchTimeoutSec) * time.Second).
		WithMaxFileBytes(cfg.Drive.MaxFileBytes)
	topicSvc := topicuc.New(generator)
	usageSvc := usageuc.New(budgetReader, cfg.LLM.Provider, cfg.LLM.Model)

	var storePinger healthuc.StorePinger
	if store != nil {
		storePinger = store
	}
	healthSvc := healthuc.New(storePinger, backend, drive)

	server := chiTransport.NewServer(documentSvc, topicSvc, usageSvc, healthSvc,
		chiTransport.WithCandidates(cfg.Topics.Candidates),
		chiTransport.WithMaxBodyBytes(cfg.HTTP.MaxBodyBytes),
	)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware("/metrics"))
	r.Use(chiTransport.BearerAuthMiddleware(authSvc))
	server.Routes(r)

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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

// openStore connects the optional key-value store. Returns nil when the cache is disabled.
func openStore(ctx context.Context, cfg config.CacheConfig, logger *zap.Logger) db.Store {
	if !cfg.Enabled {
		return nil
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:      cfg.Addrs,
		Password:   cfg.Password,
		ClientName: "topicd",
	})
	if err != nil {
		logger.Fatal("Failed to create cache store", zap.String("driver", cfg.Driver), zap.Error(err))
	}

	if err := store.WaitForReady(ctx, time.Duration(cfg.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Cache store not ready", zap.Error(err))
	}
	logger.Info("Connected to cache store",
		zap.String("driver", cfg.Driver),
		zap.Strings("addrs", cfg.Addrs),
	)
	return store
}

func baseURL(cfg config.LLMConfig) string {
	if cfg.BaseURL != "" {
		return cfg.BaseURL
	}
	return domain.DefaultGenerationConfig().BaseURL
}

// buildGenerator assembles the decorator chain: OpenAI -> Cached -> Instrumented.
func buildGenerator(
	base domain.Generator,
	cfg config.Config,
	store db.Store,
	budget generationuc.BudgetChecker,
	logger *zap.Logger,
) domain.Generator {
	generator := base
	if store != nil {
		generator = gencache.New(base, store, cfg.LLM.Model,
			time.Duration(cfg.Cache.TTLSec)*time.Second, metrics.GenerationCacheTotal, logger)
	}

	return generationuc.NewInstrumentedGenerator(
		generator, cfg.LLM.Provider, cfg.LLM.Model, budget, logger,
	).WithTimeout(time.Duration(cfg.LLM.TimeoutSec) * time.Second)
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					if rvr == http.ErrAbortHandler {
						panic(rvr)
					}
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.String("path", r.URL.Path),
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

			// Canonical log line, one per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
