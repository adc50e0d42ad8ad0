package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/errs"
)

// Config holds every setting of the service. Values come from the environment.
type Config struct {
	HTTPPort string
	LogLevel string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	// Optional integrations. An empty value disables the integration.
	RabbitMQURL         string
	RabbitMQExchange    string
	KafkaBrokers        string
	KafkaNotifyTopic    string
	RedisAddr           string
	RedisPassword       string
	RedisDB             int
	ORSAPIKey           string
	ORSBaseURL          string
	ORSProfile          string
	RoutingTimeout      time.Duration
	PingInterval        time.Duration
	EventWorkers        int
	EventQueueSize      int
	EventHandlerTimeout time.Duration

	Assignment      services.AssignmentConfig
	AverageSpeedKmh float64
	Fee             services.FeePolicy

	DispatchSchedule  string
	DispatchBatchSize int
	PresenceSchedule  string
	StaleAfter        time.Duration
}

// DSN builds the Postgres connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// LoadConfig reads the configuration from the environment, applying defaults
// for anything unset. Malformed numbers and durations are reported together.
func LoadConfig() (Config, error) {
	env := envReader{}
	assignment := services.DefaultAssignmentConfig()
	fee := services.DefaultFeePolicy()

	cfg := Config{
		HTTPPort: env.str("HTTP_PORT", "8080"),
		LogLevel: env.str("LOG_LEVEL", "INFO"),

		DBHost:     env.str("DB_HOST", "localhost"),
		DBPort:     env.str("DB_PORT", "5432"),
		DBUser:     env.str("DB_USER", "postgres"),
		DBPassword: env.str("DB_PASSWORD", ""),
		DBName:     env.str("DB_NAME", "dispatch"),
		DBSslMode:  env.str("DB_SSLMODE", "disable"),

		RabbitMQURL:         env.str("RABBITMQ_URL", ""),
		RabbitMQExchange:    env.str("RABBITMQ_EXCHANGE", ""),
		KafkaBrokers:        env.str("KAFKA_BROKERS", ""),
		KafkaNotifyTopic:    env.str("KAFKA_NOTIFICATIONS_TOPIC", ""),
		RedisAddr:           env.str("REDIS_ADDR", ""),
		RedisPassword:       env.str("REDIS_PASSWORD", ""),
		RedisDB:             env.int("REDIS_DB", 0),
		ORSAPIKey:           env.str("ORS_API_KEY", ""),
		ORSBaseURL:          env.str("ORS_BASE_URL", ""),
		ORSProfile:          env.str("ORS_PROFILE", ""),
		RoutingTimeout:      env.duration("ROUTING_TIMEOUT", 2*time.Second),
		PingInterval:        env.duration("PING_INTERVAL", 2*time.Second),
		EventWorkers:        env.int("EVENT_WORKERS", 4),
		EventQueueSize:      env.int("EVENT_QUEUE_SIZE", 1024),
		EventHandlerTimeout: env.duration("EVENT_HANDLER_TIMEOUT", 5*time.Second),

		Assignment: services.AssignmentConfig{
			RadiusKm:        env.float("ASSIGNMENT_RADIUS_KM", assignment.RadiusKm),
			ExperienceCap:   env.int("ASSIGNMENT_EXPERIENCE_CAP", assignment.ExperienceCap),
			FreshnessWindow: env.duration("ASSIGNMENT_FRESHNESS_WINDOW", assignment.FreshnessWindow),
		},
		AverageSpeedKmh: env.float("AVERAGE_SPEED_KMH", 0),
		Fee: services.FeePolicy{
			BaseFee:    env.float("FEE_BASE", fee.BaseFee),
			PerKm:      env.float("FEE_PER_KM", fee.PerKm),
			MinimumFee: env.float("FEE_MINIMUM", fee.MinimumFee),
		},

		DispatchSchedule:  env.str("DISPATCH_SCHEDULE", ""),
		DispatchBatchSize: env.int("DISPATCH_BATCH_SIZE", 50),
		PresenceSchedule:  env.str("PRESENCE_SCHEDULE", ""),
		StaleAfter:        env.duration("DRIVER_STALE_AFTER", 10*time.Minute),
	}

	if cfg.Assignment.RadiusKm <= 0 {
		env.errs = append(env.errs, errs.NewValueIsOutOfRangeError("ASSIGNMENT_RADIUS_KM", cfg.Assignment.RadiusKm, 0, "unbounded"))
	}
	return cfg, errors.Join(env.errs...)
}

type envReader struct {
	errs []error
}

func (r *envReader) str(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func (r *envReader) int(key string, fallback int) int {
	v := r.str(key, "")
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.errs = append(r.errs, errs.NewValueIsInvalidErrorWithCause(key, err))
		return fallback
	}
	return n
}

func (r *envReader) float(key string, fallback float64) float64 {
	v := r.str(key, "")
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		r.errs = append(r.errs, errs.NewValueIsInvalidErrorWithCause(key, err))
		return fallback
	}
	return f
}

func (r *envReader) duration(key string, fallback time.Duration) time.Duration {
	v := r.str(key, "")
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		r.errs = append(r.errs, errs.NewValueIsInvalidErrorWithCause(key, err))
		return fallback
	}
	return d
}
