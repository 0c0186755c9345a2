package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	aws_pkg "github.com/khushipatel79/e-commerce-BE/pkg/aws"
)

// Config holds all environment variables for the storefront API.
type Config struct {
	Env             string
	Port            string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  string

	MongoURI          string
	MongoDB           string
	MongoTransactions bool
	RedisURL          string
	IdempotencyTTL    time.Duration

	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	ResetTokenTTL   time.Duration
	FrontendURL     string
	AdminEmail      string
	AdminPassword   string

	SMTPHost       string
	SMTPPort       int
	SMTPUser       string
	SMTPPassword   string
	SMTPSenderName string

	EventsTopicARN        string
	EventsQueueURL        string
	NotificationsQueueURL string

	S3Bucket    string
	S3Prefix    string
	S3Endpoint  string
	CDNDomain   string
	CloudWatch  bool
	CWNamespace string

	UseSecrets    bool
	SecretsPrefix string
}

// NeedsAWS reports whether any AWS integration is configured.
func (c *Config) NeedsAWS() bool {
	return c.UseSecrets || c.CloudWatch || c.EventsTopicARN != "" || c.EventsQueueURL != "" ||
		c.NotificationsQueueURL != "" || c.S3Bucket != ""
}

// LoadConfig loads environment variables into Config and validates them.
// If AWS_USE_SECRETS=true it reads JWT_SECRET, MONGO_URI and SMTP_PASSWORD from
// Secrets Manager and falls back to env vars on failure.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Env:             getEnv("ENV", "development"),
		Port:            getEnv("PORT", "8080"),
		RequestTimeout:  getEnvDuration("REQUEST_TIMEOUT", 30*time.Second),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		AllowedOrigins:  getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),

		MongoURI:          os.Getenv("MONGO_URI"),
		MongoDB:           getEnv("MONGO_DB", "ecommerce"),
		MongoTransactions: getEnvBool("MONGO_TRANSACTIONS", true),
		RedisURL:          os.Getenv("REDIS_URL"),
		IdempotencyTTL:    getEnvDuration("IDEMPOTENCY_TTL", 24*time.Hour),

		JWTSecret:       os.Getenv("JWT_SECRET"),
		AccessTokenTTL:  getEnvDuration("ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTokenTTL: getEnvDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour),
		ResetTokenTTL:   getEnvDuration("RESET_TOKEN_TTL", 15*time.Minute),
		FrontendURL:     strings.TrimSuffix(getEnv("FRONTEND_URL", "http://localhost:3000"), "/"),
		AdminEmail:      os.Getenv("ADMIN_EMAIL"),
		AdminPassword:   os.Getenv("ADMIN_PASSWORD"),

		SMTPHost:       os.Getenv("SMTP_HOST"),
		SMTPPort:       getEnvInt("SMTP_PORT", 587),
		SMTPUser:       os.Getenv("SMTP_USER"),
		SMTPPassword:   os.Getenv("SMTP_PASSWORD"),
		SMTPSenderName: getEnv("SMTP_SENDER_NAME", "Storefront"),

		EventsTopicARN:        os.Getenv("EVENTS_TOPIC_ARN"),
		EventsQueueURL:        os.Getenv("EVENTS_QUEUE_URL"),
		NotificationsQueueURL: os.Getenv("NOTIFICATIONS_QUEUE_URL"),

		S3Bucket:    os.Getenv("S3_BUCKET_IMAGES"),
		S3Prefix:    getEnv("S3_PREFIX", "products/"),
		S3Endpoint:  getEnv("AWS_S3_ENDPOINT", os.Getenv("AWS_ENDPOINT")),
		CDNDomain:   os.Getenv("CDN_DOMAIN"),
		CloudWatch:  getEnvBool("CLOUDWATCH_ENABLED", false),
		CWNamespace: getEnv("CLOUDWATCH_NAMESPACE", "Storefront"),

		UseSecrets:    getEnvBool("AWS_USE_SECRETS", false),
		SecretsPrefix: getEnv("SECRETS_PREFIX", "storefront/"),
	}

	if cfg.UseSecrets {
		if awsCfg, err := aws_pkg.LoadAWSConfig(context.Background()); err == nil {
			applySecrets(context.Background(), cfg, aws_pkg.NewSecretsClient(awsCfg))
		} else {
			zap.L().Warn("Secrets Manager unavailable, using environment", zap.Error(err))
		}
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("MONGO_URI is required")
	}
	return cfg, nil
}

type secretGetter interface {
	GetSecret(ctx context.Context, name string) (string, error)
}

// applySecrets overrides sensitive values with those found in the secret store.
func applySecrets(ctx context.Context, cfg *Config, sm secretGetter) {
	targets := map[string]*string{
		"JWT_SECRET":    &cfg.JWTSecret,
		"MONGO_URI":     &cfg.MongoURI,
		"SMTP_PASSWORD": &cfg.SMTPPassword,
	}
	for name, dst := range targets {
		v, err := sm.GetSecret(ctx, cfg.SecretsPrefix+name)
		if err != nil {
			zap.L().Warn("Secret not loaded, keeping environment value", zap.String("secret", name), zap.Error(err))
			continue
		}
		if v != "" {
			*dst = v
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		zap.L().Warn("Invalid int value, using default", zap.String("key", key), zap.String("value", value))
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
		zap.L().Warn("Invalid bool value, using default", zap.String("key", key), zap.String("value", value))
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		zap.L().Warn("Invalid duration value, using default", zap.String("key", key), zap.String("value", value))
	}
	return defaultValue
}
