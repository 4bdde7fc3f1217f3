// Package config loads process configuration from the environment through
// viper. An optional .env file is read first so local runs need no exports.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	PublicBaseURL   string
	JWTSigningKey   string
	TokenTTL        time.Duration
	AdminToken      string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	LogLevel        string
}

// DatabaseConfig configures the postgres connection. An empty URL selects
// in-memory stores.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig configures the cache client. An empty URL disables caching.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig configures the outbox relay. No brokers disables the relay.
type KafkaConfig struct {
	Brokers          []string
	SubmissionsTopic string
	AuditTopic       string
	PollInterval     time.Duration
	BatchSize        int
}

// WidgetConfig configures embed snippets and the public feed.
type WidgetConfig struct {
	ScriptURL string
	FeedTTL   time.Duration
}

// CheckoutConfig configures the hosted checkout provider.
type CheckoutConfig struct {
	BaseURL       string
	APIKey        string
	WebhookSecret string
	SuccessURL    string
	CancelURL     string
	Timeout       time.Duration
}

// UploadConfig configures the media hosting service.
type UploadConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Config is the full process configuration.
type Config struct {
	Server              Server
	Database            DatabaseConfig
	Redis               RedisConfig
	Kafka               KafkaConfig
	Widget              WidgetConfig
	Checkout            CheckoutConfig
	Upload              UploadConfig
	SubmitRatePerMinute int
	UsageResetSchedule  string
}

const devSigningKey = "dev-secret-key-change-in-production"

func setDefaults(v *viper.Viper) {
	v.SetDefault("prooflayer_addr", ":8080")
	v.SetDefault("public_base_url", "http://localhost:8080")
	v.SetDefault("jwt_signing_key", devSigningKey)
	v.SetDefault("token_ttl", "24h")
	v.SetDefault("read_timeout", "10s")
	v.SetDefault("write_timeout", "30s")
	v.SetDefault("shutdown_timeout", "15s")
	v.SetDefault("log_level", "info")

	v.SetDefault("database_max_open_conns", 20)
	v.SetDefault("database_max_idle_conns", 5)
	v.SetDefault("database_conn_max_lifetime", "30m")

	v.SetDefault("redis_pool_size", 10)
	v.SetDefault("redis_min_idle_conns", 2)
	v.SetDefault("redis_dial_timeout", "5s")
	v.SetDefault("redis_read_timeout", "3s")
	v.SetDefault("redis_write_timeout", "3s")

	v.SetDefault("kafka_submissions_topic", "prooflayer.submissions")
	v.SetDefault("kafka_audit_topic", "prooflayer.audit")
	v.SetDefault("kafka_poll_interval", "2s")
	v.SetDefault("kafka_batch_size", 100)

	v.SetDefault("widget_script_url", "https://cdn.prooflayer.io/widget.js")
	v.SetDefault("widget_feed_ttl", "60s")

	v.SetDefault("checkout_timeout", "10s")
	v.SetDefault("upload_timeout", "5m")

	v.SetDefault("submit_rate_per_minute", 10)
	v.SetDefault("usage_reset_schedule", "@hourly")
}

// Load reads an optional env file (ignored when missing) and then binds the
// process environment.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) > 0 {
		_ = godotenv.Load(envFiles...)
	} else {
		_ = godotenv.Load()
	}

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	cfg := Config{
		Server: Server{
			Addr:            v.GetString("prooflayer_addr"),
			PublicBaseURL:   strings.TrimRight(v.GetString("public_base_url"), "/"),
			JWTSigningKey:   v.GetString("jwt_signing_key"),
			TokenTTL:        v.GetDuration("token_ttl"),
			AdminToken:      v.GetString("admin_token"),
			ReadTimeout:     v.GetDuration("read_timeout"),
			WriteTimeout:    v.GetDuration("write_timeout"),
			ShutdownTimeout: v.GetDuration("shutdown_timeout"),
			LogLevel:        v.GetString("log_level"),
		},
		Database: DatabaseConfig{
			URL:             v.GetString("database_url"),
			MaxOpenConns:    v.GetInt("database_max_open_conns"),
			MaxIdleConns:    v.GetInt("database_max_idle_conns"),
			ConnMaxLifetime: v.GetDuration("database_conn_max_lifetime"),
		},
		Redis: RedisConfig{
			URL:          v.GetString("redis_url"),
			PoolSize:     v.GetInt("redis_pool_size"),
			MinIdleConns: v.GetInt("redis_min_idle_conns"),
			DialTimeout:  v.GetDuration("redis_dial_timeout"),
			ReadTimeout:  v.GetDuration("redis_read_timeout"),
			WriteTimeout: v.GetDuration("redis_write_timeout"),
		},
		Kafka: KafkaConfig{
			Brokers:          splitList(v.GetString("kafka_brokers")),
			SubmissionsTopic: v.GetString("kafka_submissions_topic"),
			AuditTopic:       v.GetString("kafka_audit_topic"),
			PollInterval:     v.GetDuration("kafka_poll_interval"),
			BatchSize:        v.GetInt("kafka_batch_size"),
		},
		Widget: WidgetConfig{
			ScriptURL: v.GetString("widget_script_url"),
			FeedTTL:   v.GetDuration("widget_feed_ttl"),
		},
		Checkout: CheckoutConfig{
			BaseURL:       v.GetString("checkout_base_url"),
			APIKey:        v.GetString("checkout_api_key"),
			WebhookSecret: v.GetString("checkout_webhook_secret"),
			SuccessURL:    v.GetString("checkout_success_url"),
			CancelURL:     v.GetString("checkout_cancel_url"),
			Timeout:       v.GetDuration("checkout_timeout"),
		},
		Upload: UploadConfig{
			BaseURL: v.GetString("upload_base_url"),
			APIKey:  v.GetString("upload_api_key"),
			Timeout: v.GetDuration("upload_timeout"),
		},
		SubmitRatePerMinute: v.GetInt("submit_rate_per_minute"),
		UsageResetSchedule:  v.GetString("usage_reset_schedule"),
	}
	if cfg.Checkout.SuccessURL == "" {
		cfg.Checkout.SuccessURL = cfg.Server.PublicBaseURL + "/billing/success"
	}
	if cfg.Checkout.CancelURL == "" {
		cfg.Checkout.CancelURL = cfg.Server.PublicBaseURL + "/billing"
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the server cannot start with.
func (c Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("PROOFLAYER_ADDR must not be empty")
	}
	if c.Server.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	if len(c.Server.JWTSigningKey) < 16 {
		return fmt.Errorf("JWT_SIGNING_KEY must be at least 16 bytes")
	}
	if c.SubmitRatePerMinute <= 0 {
		return fmt.Errorf("SUBMIT_RATE_PER_MINUTE must be positive")
	}
	if len(c.Kafka.Brokers) > 0 && c.Database.URL == "" {
		return fmt.Errorf("KAFKA_BROKERS requires DATABASE_URL for the outbox")
	}
	return nil
}

// UsesDevSigningKey reports whether the built-in development key is active.
func (c Config) UsesDevSigningKey() bool {
	return c.Server.JWTSigningKey == devSigningKey
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
