package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dispatch/cmd"
	httpadapter "dispatch/internal/adapters/in/http"
	"dispatch/internal/adapters/in/ws"
	"dispatch/internal/adapters/out/kafka"
	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/adapters/out/rabbitmq"
	redisadapter "dispatch/internal/adapters/out/redis"
	"dispatch/internal/adapters/out/routing"
	"dispatch/internal/core/application/eventhandlers"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/eventbus"
	"dispatch/internal/pkg/logging"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newRootCommand().Execute(); err != nil {
		log.Fatal(err)
	}
}

func newRootCommand() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "dispatch",
		Short:         "Delivery dispatch and lifecycle engine",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("failed to load %s: %w", envFile, err)
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional dotenv file with configuration")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API, tracking feed and background jobs",
			RunE: func(c *cobra.Command, _ []string) error {
				cfg, err := cmd.LoadConfig()
				if err != nil {
					return err
				}
				ctx, stop := signal.NotifyContext(c.Context(), os.Interrupt, syscall.SIGTERM)
				defer stop()
				return serve(ctx, cfg, logging.New(cfg.LogLevel, os.Stdout))
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create or update the database schema",
			RunE: func(_ *cobra.Command, _ []string) error {
				cfg, err := cmd.LoadConfig()
				if err != nil {
					return err
				}
				db, err := cmd.OpenDatabase(cfg)
				if err != nil {
					return fmt.Errorf("failed to connect to database: %w", err)
				}
				if err := postgres.Migrate(db); err != nil {
					return fmt.Errorf("failed to migrate: %w", err)
				}
				logging.New(cfg.LogLevel, os.Stdout).Info("Schema is up to date")
				return nil
			},
		},
	)
	return root
}

func serve(ctx context.Context, cfg cmd.Config, logger *slog.Logger) error {
	db, err := cmd.OpenDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	hub := ws.NewHub(logger)
	defer hub.Close()

	bus := eventbus.New(eventbus.Options{
		Workers:        cfg.EventWorkers,
		QueueSize:      cfg.EventQueueSize,
		HandlerTimeout: cfg.EventHandlerTimeout,
	}, logger)

	var broadcaster ports.Broadcaster = hub
	if cfg.RabbitMQURL != "" {
		b, err := rabbitmq.NewBroadcaster(ctx, cfg.RabbitMQURL, cfg.RabbitMQExchange, logger)
		if err != nil {
			return fmt.Errorf("failed to connect to rabbitmq: %w", err)
		}
		defer b.Close()
		broadcaster = b
		go rabbitmq.NewRelay(b, eventhandlers.TrackingTopicPrefix+"*", hub, logger).Run(ctx)
	}
	eventhandlers.Register(bus, eventhandlers.NewTrackingBroadcastHandler(broadcaster))

	if cfg.KafkaBrokers != "" {
		notifier, err := kafka.NewNotifier(cfg.KafkaBrokers, cfg.KafkaNotifyTopic, logger)
		if err != nil {
			return fmt.Errorf("failed to connect to kafka: %w", err)
		}
		defer notifier.Close()
		eventhandlers.Register(bus, eventhandlers.NewNotificationHandler(notifier))
	} else {
		logger.Warn("KAFKA_BROKERS is empty, notifications are disabled")
	}

	deps := cmd.Collaborators{Publisher: bus}
	if cfg.RedisAddr != "" {
		client, err := redisadapter.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer client.Close()
		deps.Limiter = redisadapter.NewPingLimiter(client, cfg.PingInterval)
	}
	if cfg.ORSAPIKey != "" {
		var opts []routing.Option
		if cfg.ORSBaseURL != "" {
			opts = append(opts, routing.WithBaseURL(cfg.ORSBaseURL))
		}
		if cfg.ORSProfile != "" {
			opts = append(opts, routing.WithProfile(cfg.ORSProfile))
		}
		deps.Router = routing.NewORSRouter(cfg.ORSAPIKey, opts...)
	} else {
		logger.Info("ORS_API_KEY is empty, ETAs use the average speed")
	}

	bus.Start()
	app := cmd.NewCompositionRoot(cfg, db, deps, logger)

	jobManager := app.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		return err
	}

	e, err := httpadapter.NewRouter(app.CreateServer(), hub, logger)
	if err != nil {
		jobManager.StopAll()
		return fmt.Errorf("failed to build router: %w", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "port", cfg.HTTPPort)
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", cfg.HTTPPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down")
	case err = <-serverErr:
		logger.Error("HTTP server failed", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if shutdownErr := e.Shutdown(shutdownCtx); shutdownErr != nil {
		logger.Error("HTTP server shutdown failed", "error", shutdownErr)
	}
	jobManager.StopAll()
	if closeErr := bus.Close(shutdownCtx); closeErr != nil {
		logger.Error("Event bus did not drain", "error", closeErr)
	}

	return err
}
