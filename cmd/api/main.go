package main

// @title ToneSmith API
// @version 1.0
// @description Rewrites short drafts in a requested tone, with a free daily allowance and premium subscriptions.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the identity provider's JWT.

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/toneelevate/tonesmith/config"
	"github.com/toneelevate/tonesmith/pkg/ai/llm"
	apierrors "github.com/toneelevate/tonesmith/pkg/api/errors"
	"github.com/toneelevate/tonesmith/pkg/api/handlers"
	apimw "github.com/toneelevate/tonesmith/pkg/api/middleware"
	"github.com/toneelevate/tonesmith/pkg/auth"
	"github.com/toneelevate/tonesmith/pkg/billing"
	"github.com/toneelevate/tonesmith/pkg/cache"
	"github.com/toneelevate/tonesmith/pkg/database"
	"github.com/toneelevate/tonesmith/pkg/generation"
	"github.com/toneelevate/tonesmith/pkg/logger"
	"github.com/toneelevate/tonesmith/pkg/metrics"
	custommiddleware "github.com/toneelevate/tonesmith/pkg/middleware"
	"github.com/toneelevate/tonesmith/pkg/profiles"
	"github.com/toneelevate/tonesmith/pkg/quota"
	"github.com/toneelevate/tonesmith/pkg/tones"
)

func main() {
	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}
	log.Printf("🔧 Configuration loaded (environment: %s)", cfg.APIEnvironment)

	appLogger := logger.NewWithWriter(os.Stdout, cfg.LogLevel, cfg.LogFormat)

	// Initialize Sentry for error tracking
	if cfg.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.APIEnvironment,
			TracesSampleRate: 0.2,
			AttachStacktrace: true,
		})
		if err != nil {
			log.Printf("⚠️  Failed to initialize Sentry: %v", err)
		} else {
			log.Printf("✅ Sentry initialized (environment: %s)", cfg.APIEnvironment)
			defer sentry.Flush(2 * time.Second)
		}
	} else {
		log.Printf("ℹ️  Sentry disabled (no DSN configured)")
	}

	// Database holds the profiles table owned by the identity provider
	db, err := database.Open(database.Config{
		URL:         cfg.DatabaseURL,
		SSLMode:     cfg.DBSSLMode,
		SSLRootCert: cfg.DBSSLRootCert,
		Pool:        database.DefaultPoolConfig(),
	})
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Redis only backs token revocation, so the API runs without it
	var blacklist auth.Blacklist
	var tokenBlacklist *auth.TokenBlacklist
	var redisClient *cache.Client
	if cfg.RedisURL != "" {
		redisClient, err = cache.NewClient(cfg.RedisURL)
		if err != nil {
			log.Printf("⚠️  Redis unavailable, token revocation disabled: %v", err)
		} else {
			defer redisClient.Close()
			tokenBlacklist = auth.NewTokenBlacklist(redisClient)
			blacklist = tokenBlacklist
			log.Printf("✅ Redis connected")
		}
	}

	// Initialize Prometheus metrics
	var prometheusMetrics *metrics.Metrics
	if cfg.MetricsEnabled {
		prometheusMetrics = metrics.New(prometheus.DefaultRegisterer)
		log.Printf("✅ Prometheus metrics initialized")
	}

	registry, err := tones.Load(cfg.TonesFile)
	if err != nil {
		log.Fatalf("❌ Failed to load tones: %v", err)
	}
	log.Printf("🎨 %d tones loaded (default: %s)", len(registry.IDs()), registry.DefaultID())

	quotaLocation, err := cfg.QuotaLocation()
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	llmClient := newLLMClient(cfg, appLogger)
	profileStore := profiles.NewStore(db.DB, prometheusMetrics)
	authenticator := auth.NewAuthenticator(cfg.JWTSecret, cfg.JWTAudience, blacklist, appLogger)

	generationService := generation.NewService(generation.Components{
		Validator: generation.NewValidator(cfg.ValidContexts, cfg.MaxInputLength),
		Auth:      authenticator,
		Gate: quota.NewGate(profileStore, cfg.FreeSuggestionLimitPerDay, appLogger,
			quota.WithLocation(quotaLocation),
			quota.WithMetrics(prometheusMetrics),
		),
		Parser:    generation.NewIntentParser(llmClient, registry, cfg.ParserModel, prometheusMetrics, appLogger),
		Generator: generation.NewMessageGenerator(llmClient, registry, cfg.GenerationModel, prometheusMetrics, appLogger),
		Recorder:  quota.NewRecorder(profileStore, prometheusMetrics, appLogger),
	}, prometheusMetrics, appLogger)
	refiner := generation.NewRefiner(llmClient, profileStore, registry, cfg.RefineModel, prometheusMetrics, appLogger)

	checks := map[string]handlers.Pinger{"database": db}
	if redisClient != nil {
		checks["redis"] = redisClient
	}

	routes := handlers.Routes{
		Generate:    handlers.NewGenerateHandler(generationService, cfg.RequestTimeout),
		Tones:       handlers.NewTonesHandler(registry, cfg.ValidContexts),
		Refine:      handlers.NewRefineHandler(refiner, cfg.RequestTimeout),
		Health:      handlers.NewHealthHandler(checks),
		RequireAuth: apimw.RequireAuth(authenticator),
	}
	if tokenBlacklist != nil {
		routes.Auth = handlers.NewAuthHandler(tokenBlacklist)
	}

	if cfg.StripeSecretKey != "" {
		billingService := billing.NewService(
			billing.NewStripeClientAdapter(cfg.StripeSecretKey, nil),
			profileStore,
			&billing.StripeConfig{
				SecretKey:     cfg.StripeSecretKey,
				WebhookSecret: cfg.StripeWebhookSecret,
				SuccessURL:    cfg.StripeSuccessURL,
				CancelURL:     cfg.StripeCancelURL,
			},
			prometheusMetrics,
			appLogger,
		)
		routes.Billing = handlers.NewBillingHandler(billingService)
		log.Printf("💳 Stripe billing enabled")
	} else {
		log.Printf("ℹ️  Stripe billing disabled (no secret key configured)")
	}

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = apierrors.HTTPErrorHandler

	globalRateLimiter := custommiddleware.NewRateLimiter(cfg.RateLimitRequestsPerMinute, cfg.RateLimitBurst)
	limiterCtx, stopLimiter := context.WithCancel(context.Background())
	defer stopLimiter()
	go globalRateLimiter.Cleanup(limiterCtx, 5*time.Minute)

	// Global middleware
	e.Use(custommiddleware.RequestMeta(custommiddleware.CurrentAPIVersion))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogError:     true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Printf("[%s] %s - Status: %d (%s) request_id=%s", c.Request().Method, v.URI, v.Status, v.Latency, v.RequestID)
			return nil
		},
	}))
	e.Use(middleware.Recover())

	if cfg.SentryDSN != "" {
		e.Use(sentryecho.New(sentryecho.Options{
			Repanic: true,
		}))
	}

	if prometheusMetrics != nil {
		e.Use(prometheusMetrics.Middleware())
	}

	e.Use(custommiddleware.CORS(custommiddleware.DefaultCORSConfig(cfg.CORSAllowedOrigin)))
	e.Use(middleware.BodyLimit(cfg.BodyLimit))
	e.Use(middleware.Gzip())
	e.Use(custommiddleware.SecurityHeaders(custommiddleware.DefaultSecurityHeadersConfig()))
	e.Use(globalRateLimiter.RateLimitMiddleware())

	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{
			"name":        "ToneSmith API",
			"version":     custommiddleware.CurrentAPIVersion.Version,
			"status":      "running",
			"environment": cfg.APIEnvironment,
			"timestamp":   time.Now().Unix(),
		})
	})

	if prometheusMetrics != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	}

	routes.Register(e)

	// Start server
	address := fmt.Sprintf("%s:%s", cfg.APIHost, cfg.APIPort)
	log.Printf("🚀 ToneSmith API starting on %s", address)
	log.Printf("📝 Log level: %s, Log format: %s", cfg.LogLevel, cfg.LogFormat)
	log.Printf("🤖 LLM provider: %s (generation: %s, parser: %s)", cfg.LLMProvider, cfg.GenerationModel, cfg.ParserModel)
	log.Printf("🎟️  Free suggestions per day: %d", cfg.FreeSuggestionLimitPerDay)
	log.Printf("🌍 CORS: %s", cfg.CORSAllowedOrigin)
	log.Printf("🛡️  Rate limiting: %d req/min (burst: %d)", cfg.RateLimitRequestsPerMinute, cfg.RateLimitBurst)

	// Graceful shutdown
	go func() {
		if err := e.Start(address); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server gracefully stopped")
}

// newLLMClient picks the chat completion backend named by LLM_PROVIDER
func newLLMClient(cfg *config.Config, appLogger logger.Logger) llm.LLMClient {
	switch cfg.LLMProvider {
	case "ollama":
		return llm.NewOllamaClient(llm.OllamaConfig{
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.GenerationModel,
			Timeout: cfg.LLMTimeout,
		}, appLogger)
	default:
		return llm.NewOpenAIClient(llm.Config{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.GenerationModel,
			Timeout: cfg.LLMTimeout,
		}, appLogger)
	}
}
