package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/xavierca1/polyglot-leads/internal/config"
	"github.com/xavierca1/polyglot-leads/internal/infra/auth"
	"github.com/xavierca1/polyglot-leads/internal/infra/database"
	"github.com/xavierca1/polyglot-leads/internal/infra/http/handlers"
	"github.com/xavierca1/polyglot-leads/internal/infra/http/middleware"
	"github.com/xavierca1/polyglot-leads/internal/infra/http/server"
	"github.com/xavierca1/polyglot-leads/internal/infra/queue"
	"github.com/xavierca1/polyglot-leads/internal/infra/worker"
	"github.com/xavierca1/polyglot-leads/internal/usecase"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, dialect, err := database.Open(cfg.DBDriver, cfg.DSN())
	if err != nil {
		return err
	}
	defer db.Close()
	if err := database.Migrate(ctx, db, dialect); err != nil {
		return err
	}
	slog.Info("database ready", "driver", dialect)

	svc := newServices(cfg, db, dialect)
	enrich := svc.enrichLead()

	// Enrichment runs behind RabbitMQ when configured, in-process otherwise.
	var publisher usecase.EventPublisher
	var rabbit *queue.RabbitMQ
	if cfg.AMQPURL != "" {
		rabbit, err = queue.NewRabbitMQ(cfg.AMQPURL)
		if err != nil {
			return err
		}
		defer rabbit.Close()

		consumerCh, err := rabbit.Channel()
		if err != nil {
			return err
		}
		w := queue.NewWorker(consumerCh, enrich)
		go func() {
			if err := w.Start(ctx, queue.QueueName); err != nil {
				slog.Error("enrichment worker stopped", "error", err)
			}
		}()
		publisher = queue.NewProducer(rabbit.Ch)
	} else {
		slog.Warn("AMQP_URL not set, enrichment runs in-process")
		inline := queue.NewInlinePublisher(enrich)
		defer inline.Wait()
		publisher = inline
	}

	// Joined before inline.Wait runs.
	stopSweeper := worker.NewEnrichmentSweeper(svc.leadRepo, publisher, cfg.SweepInterval).Go(ctx)
	defer stopSweeper()

	var redisClient *redis.Client
	var limiter middleware.Limiter
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return err
		}
		redisClient = redis.NewClient(opts)
		defer redisClient.Close()
		limiter, err = middleware.NewRedisFixedWindowLimiter(redisClient, "ratelimit:leads", cfg.RateLimit, cfg.RateLimitWindow)
		if err != nil {
			return err
		}
	} else {
		ipLimiter := middleware.NewIPRateLimiter(cfg.RateLimit, cfg.RateLimitWindow)
		defer ipLimiter.Close()
		limiter = ipLimiter
	}

	var verifier middleware.TokenVerifier
	if cfg.Auth.Enabled() {
		v, err := auth.NewVerifier(auth.Config{
			Secret:       cfg.Auth.Secret,
			PublicKeyPEM: cfg.Auth.PublicKeyPEM,
			Issuer:       cfg.Auth.Issuer,
			Audience:     cfg.Auth.Audience,
		})
		if err != nil {
			return err
		}
		verifier = v
	} else {
		slog.Warn("no token verifier configured, the API runs in open mode")
	}

	var rabbitConn *amqp.Connection
	if rabbit != nil {
		rabbitConn = rabbit.Conn
	}

	router := server.NewRouter(server.Deps{
		Leads:          svc.leadHandler(publisher),
		Replies:        svc.replyHandler(),
		Health:         handlers.NewHealthHandler(db, rabbitConn, redisClient, cfg.Version),
		Auth:           middleware.NewAuthenticator(verifier, svc.agents),
		Limiter:        limiter,
		AllowedOrigins: cfg.AllowedOrigins,
		RequestLogging: cfg.RequestLogging,
		TrustProxy:     cfg.TrustProxy,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "port", cfg.Port, "agents", svc.agents.Len())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
