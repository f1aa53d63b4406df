package config

import "time"

const (
	DefaultPort       = "8080"
	DefaultAPIBaseURL = "http://localhost:4000/api"
	DefaultAPITimeout = 10 * time.Second
	DefaultLogLevel   = "info"

	DefaultSessionCookieName = "token"

	DefaultRateLimitRequests = 10
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 10 * time.Minute
	DefaultMaxRequestSize = 10 * 1024 * 1024 // 10MB, room for cover images

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultTimeZone        = "Europe/Madrid"
	DefaultCatalogPageSize = 12

	DefaultKafkaActivityTopic = "escapedia.activity"
)
