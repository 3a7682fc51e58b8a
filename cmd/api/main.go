// Package main is the entry point for the book review API server.
// It wires together configuration, the in-memory stores, sessions, and the
// HTTP router.
package main

import (
	"flag"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/aoideee/lab-bookreviews/internal/auth"
	"github.com/aoideee/lab-bookreviews/internal/data"
	"github.com/aoideee/lab-bookreviews/internal/logger"
	"github.com/aoideee/lab-bookreviews/internal/relay"
	"github.com/aoideee/lab-bookreviews/internal/session"
)

// appVersion is the current version of the API, shown in logs and the healthcheck.
const appVersion = "1.0.0"

// serverConfig holds all the values that can be tweaked at startup via
// command-line flags. Every flag defaults to an environment variable.
type serverConfig struct {
	port        int    // TCP port the HTTP server listens on
	environment string // Runtime environment: development, staging, or production
	logLevel    string
	auth        struct {
		secret     string        // HMAC key for access tokens
		tokenTTL   time.Duration // Lifetime of an access token
		sessionTTL time.Duration // Idle lifetime of a server-side session
	}
	relay struct {
		timeout time.Duration
	}
	limiter struct {
		rps     float64
		burst   int
		enabled bool
	}
}

// applicationDependencies bundles every shared resource that HTTP handlers need.
// A pointer to this struct is passed as the receiver on all handler and route methods.
type applicationDependencies struct {
	config   serverConfig
	logger   *zap.Logger
	models   data.Models
	tokens   *auth.Tokens
	sessions *session.Manager
	relay    *relay.Client
}

func main() {
	// A missing .env file is fine; flags and the real environment still apply.
	_ = godotenv.Load()

	var settings serverConfig

	flag.IntVar(&settings.port, "port", envInt("PORT", 5000), "Server port")
	flag.StringVar(&settings.environment, "env", envString("APP_ENV", "development"), "Environment(development|staging|production)")
	flag.StringVar(&settings.logLevel, "log-level", envString("LOG_LEVEL", "info"), "Log level(debug|info|warn|error)")

	flag.StringVar(&settings.auth.secret, "jwt-secret", envString("JWT_SECRET", auth.DefaultSecret), "Access token signing secret")
	flag.DurationVar(&settings.auth.tokenTTL, "token-ttl", envDuration("TOKEN_TTL", time.Hour), "Access token lifetime")
	flag.DurationVar(&settings.auth.sessionTTL, "session-ttl", envDuration("SESSION_TTL", 24*time.Hour), "Session lifetime")

	flag.DurationVar(&settings.relay.timeout, "relay-timeout", envDuration("RELAY_TIMEOUT", 10*time.Second), "Timeout for relayed requests")

	flag.Float64Var(&settings.limiter.rps, "limiter-rps", envFloat("LIMITER_RPS", 2), "Rate limiter maximum requests per second")
	flag.IntVar(&settings.limiter.burst, "limiter-burst", envInt("LIMITER_BURST", 4), "Rate limiter maximum burst")
	flag.BoolVar(&settings.limiter.enabled, "limiter-enabled", envBool("LIMITER_ENABLED", true), "Enable rate limiter")

	flag.Parse()

	log, err := logger.New(settings.logLevel, settings.environment, zap.String("version", appVersion))
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
	defer log.Sync()

	if settings.auth.secret == auth.DefaultSecret {
		log.Warn("using the built-in token signing secret; set JWT_SECRET or -jwt-secret in production")
	}

	app := newApplication(settings, log, data.NewModels(data.SeedBooks()))

	if err := app.serve(); err != nil {
		log.Error("server error", zap.Error(err))
		os.Exit(1)
	}
}

// newApplication builds the dependencies shared by every handler.
func newApplication(settings serverConfig, log *zap.Logger, models data.Models) *applicationDependencies {
	return &applicationDependencies{
		config: settings,
		logger: log,
		models: models,
		tokens: auth.NewTokens(auth.TokenConfig{
			Secret: settings.auth.secret,
			TTL:    settings.auth.tokenTTL,
		}),
		sessions: session.NewManager(settings.auth.sessionTTL, settings.environment == "production"),
		relay:    relay.NewClient(settings.relay.timeout),
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if i, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return i
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if f, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return f
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return fallback
}
