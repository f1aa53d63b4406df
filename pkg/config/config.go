package config

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"escapedia/pkg/client"
	"escapedia/pkg/logger"
)

type Config struct {
	Port string

	APIBaseURL string
	APITimeout time.Duration

	SessionCookieName   string
	SessionSecret       string
	SessionCookieSecure bool

	CloudinaryCloudName    string
	CloudinaryUploadPreset string

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	TimeZone        string
	Location        *time.Location
	CatalogPageSize int

	KafkaBrokers       []string
	KafkaActivityTopic string

	Log    *logger.Logger
	Client *client.Client
}

// Load reads the environment, validates it and exits on an invalid configuration.
func Load(serviceName string) *Config {
	cfg := FromEnv()
	cfg.Log = logger.New(logger.Config{
		Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
		Format:    logger.JSON,
		AddSource: true,
		Service:   serviceName,
	})

	if cfg.SessionSecret == "" {
		cfg.SessionSecret = ephemeralSecret()
		cfg.Log.Warn("SESSION_SECRET not set, using an ephemeral key; sessions will not survive a restart")
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}

	cfg.Location, _ = time.LoadLocation(cfg.TimeZone)
	cfg.Client = client.NewClient(client.Options{
		BaseURL:                cfg.APIBaseURL,
		Timeout:                cfg.APITimeout,
		CloudinaryCloudName:    cfg.CloudinaryCloudName,
		CloudinaryUploadPreset: cfg.CloudinaryUploadPreset,
	})

	cfg.LogConfiguration()
	return cfg
}

// FromEnv reads every setting without validating it.
func FromEnv() *Config {
	return &Config{
		Port: getEnvStr(EnvPort, DefaultPort),

		APIBaseURL: getEnvStr(EnvAPIBaseURL, DefaultAPIBaseURL),
		APITimeout: getEnvDuration(EnvAPITimeout, DefaultAPITimeout),

		SessionCookieName:   getEnvStr(EnvSessionCookieName, DefaultSessionCookieName),
		SessionSecret:       getEnvStr(EnvSessionSecret, ""),
		SessionCookieSecure: getEnvBool(EnvSessionCookieSecure, false),

		CloudinaryCloudName:    getEnvStr(EnvCloudinaryCloudName, ""),
		CloudinaryUploadPreset: getEnvStr(EnvCloudinaryUploadPreset, ""),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL: getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		TimeZone:        getEnvStr(EnvTimeZone, DefaultTimeZone),
		CatalogPageSize: getEnvNum(EnvCatalogPageSize, DefaultCatalogPageSize),

		KafkaBrokers:       getEnvList(EnvKafkaBrokers),
		KafkaActivityTopic: getEnvStr(EnvKafkaActivityTopic, DefaultKafkaActivityTopic),
	}
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if u, err := url.Parse(cfg.APIBaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errors = append(errors, fmt.Sprintf("APIBaseURL must be an absolute http(s) URL, got: %s", cfg.APIBaseURL))
	}

	if cfg.SessionCookieName == "" {
		errors = append(errors, "SessionCookieName cannot be empty")
	}
	if key, err := base64.StdEncoding.DecodeString(cfg.SessionSecret); err != nil {
		errors = append(errors, "SessionSecret must be base64 encoded")
	} else if n := len(key); n != 16 && n != 24 && n != 32 {
		errors = append(errors, fmt.Sprintf("SessionSecret must decode to 16, 24 or 32 bytes, got: %d", n))
	}

	if (cfg.CloudinaryCloudName == "") != (cfg.CloudinaryUploadPreset == "") {
		errors = append(errors, "CloudinaryCloudName and CloudinaryUploadPreset must be set together")
	}

	if _, err := time.LoadLocation(cfg.TimeZone); err != nil {
		errors = append(errors, fmt.Sprintf("TimeZone is not a known location, got: %s", cfg.TimeZone))
	}
	if cfg.CatalogPageSize <= 0 || cfg.CatalogPageSize > 100 {
		errors = append(errors, fmt.Sprintf("CatalogPageSize must be between 1 and 100, got: %d", cfg.CatalogPageSize))
	}

	if cfg.APITimeout <= 0 {
		errors = append(errors, fmt.Sprintf("APITimeout must be positive, got: %s", cfg.APITimeout))
	}
	if cfg.RateLimitWindow <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitWindow must be positive, got: %s", cfg.RateLimitWindow))
	}
	if cfg.RequestTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.IdempotencyTTL <= 0 {
		errors = append(errors, fmt.Sprintf("IdempotencyTTL must be positive, got: %s", cfg.IdempotencyTTL))
	}
	if cfg.ReadTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}

	if cfg.RateLimitRequests <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}

	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaActivityTopic == "" {
		errors = append(errors, "KafkaActivityTopic cannot be empty when KafkaBrokers is set")
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"port", cfg.Port,
		"api_base_url", cfg.APIBaseURL,
		"api_timeout", cfg.APITimeout,
		"session_cookie_name", cfg.SessionCookieName,
		"session_cookie_secure", cfg.SessionCookieSecure,
		"session_secret_set", os.Getenv(EnvSessionSecret) != "",
		"cloudinary_cloud_name", cfg.CloudinaryCloudName,
		"cloudinary_upload_preset_set", cfg.CloudinaryUploadPreset != "",
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"time_zone", cfg.TimeZone,
		"catalog_page_size", cfg.CatalogPageSize,
		"kafka_brokers", cfg.KafkaBrokers,
		"kafka_activity_topic", cfg.KafkaActivityTopic,
	)
}

// Today returns the current date in the configured time zone as YYYY-MM-DD.
func (cfg *Config) Today() string {
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	return time.Now().In(loc).Format("2006-01-02")
}

func ephemeralSecret() string {
	key := make([]byte, 32)
	_, _ = rand.Read(key)
	return base64.StdEncoding.EncodeToString(key)
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
