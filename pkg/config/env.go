package config

const (
	EnvPort       = "PORT"
	EnvLogLevel   = "LOG_LEVEL"
	EnvAPIBaseURL = "API_BASE_URL"
	EnvAPITimeout = "API_TIMEOUT"

	EnvSessionCookieName   = "SESSION_COOKIE_NAME"
	EnvSessionSecret       = "SESSION_SECRET"
	EnvSessionCookieSecure = "SESSION_COOKIE_SECURE"

	EnvCloudinaryCloudName    = "CLOUDINARY_CLOUD_NAME"
	EnvCloudinaryUploadPreset = "CLOUDINARY_UPLOAD_PRESET"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvTimeZone        = "TIME_ZONE"
	EnvCatalogPageSize = "CATALOG_PAGE_SIZE"

	EnvKafkaBrokers       = "KAFKA_BROKERS"
	EnvKafkaActivityTopic = "KAFKA_ACTIVITY_TOPIC"
)
