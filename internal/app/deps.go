package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/fisacferrandez/contactform/internal/audit"
	"github.com/fisacferrandez/contactform/internal/botfilter"
	"github.com/fisacferrandez/contactform/internal/config"
	"github.com/fisacferrandez/contactform/internal/csrf"
	"github.com/fisacferrandez/contactform/internal/db"
	"github.com/fisacferrandez/contactform/internal/form"
	"github.com/fisacferrandez/contactform/internal/handlers"
	"github.com/fisacferrandez/contactform/internal/mailer"
	"github.com/fisacferrandez/contactform/internal/pipeline"
	"github.com/fisacferrandez/contactform/internal/ratelimit"
)

// buildDependencies assembles the gating pipeline and its collaborators from
// configuration. The returned cleanup releases any backend connections.
func buildDependencies(ctx context.Context, cfg config.Config, logger *slog.Logger) (handlers.Dependencies, func(), error) {
	cleanup := func() {}

	auditLog := audit.New(cfg.LogDir, logger)

	var redisClient *redis.Client
	if cfg.RateStore == config.StoreRedis {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
	}

	var store ratelimit.Store
	switch cfg.RateStore {
	case config.StoreMemory:
		store = ratelimit.NewMemoryStore()
	case config.StoreFile:
		store = ratelimit.NewFileStore(cfg.RateStorePath)
	case config.StoreRedis:
		store = ratelimit.NewRedisStore(redisClient)
		cleanup = func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("closing redis client", "error", err)
			}
		}
	case config.StorePostgres:
		pool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return handlers.Dependencies{}, nil, fmt.Errorf("connect to database: %w", err)
		}
		store = ratelimit.NewPostgresStore(pool)
		cleanup = pool.Close
	default:
		return handlers.Dependencies{}, nil, fmt.Errorf("unknown rate store backend %q", cfg.RateStore)
	}

	var sessions csrf.SessionStore
	if redisClient != nil {
		sessions = csrf.NewRedisSessionStore(redisClient)
	} else {
		sessions = csrf.NewInMemorySessionStore()
	}
	guard := csrf.NewGuard(sessions)

	var sender mailer.Sender
	if cfg.SMTP.Addr != "" {
		smtpSender, err := mailer.NewSMTPSender(cfg.SMTP, cfg.FromAddress)
		if err != nil {
			cleanup()
			return handlers.Dependencies{}, nil, err
		}
		sender = smtpSender
	} else {
		logger.Warn("no smtp relay configured, outbound mail will only be logged")
		sender = mailer.NewLogSender(logger)
	}

	proc := &pipeline.Pipeline{
		Limiter:      ratelimit.NewLimiter(store, cfg.MaxAttempts, cfg.LockoutWindow, auditLog),
		Bots:         botfilter.New(cfg.MinFormTime, auditLog),
		Fields:       form.NewValidator(cfg.RequiredFields),
		Tokens:       guard,
		Compose:      mailer.NewComposer(cfg.RecipientEmail, cfg.CompanyName, cfg.FromAddress),
		Sender:       sender,
		Audit:        auditLog,
		CSRFRequired: cfg.CSRFRequired,
	}

	deps := handlers.Dependencies{
		Processor:  proc,
		Tokens:     guard,
		Audit:      auditLog,
		LandingURL: cfg.LandingURL,
	}

	return deps, cleanup, nil
}
