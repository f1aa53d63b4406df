package config

import (
	"strings"
	"testing"
	"time"
)

const testSecret = "lfQVRuulcL2iOhOJ2r8BYTweoSKwVAJnIF9U+AL+M60="

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv(EnvPort, "")
	t.Setenv(EnvSessionCookieName, "")
	t.Setenv(EnvKafkaBrokers, "")

	cfg := FromEnv()
	if cfg.Port != DefaultPort {
		t.Errorf("Port = %s, want %s", cfg.Port, DefaultPort)
	}
	if cfg.SessionCookieName != DefaultSessionCookieName {
		t.Errorf("SessionCookieName = %s", cfg.SessionCookieName)
	}
	if cfg.CatalogPageSize != 12 {
		t.Errorf("CatalogPageSize = %d, want 12", cfg.CatalogPageSize)
	}
	if len(cfg.KafkaBrokers) != 0 {
		t.Errorf("KafkaBrokers = %v, want none", cfg.KafkaBrokers)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv(EnvPort, "9090")
	t.Setenv(EnvAPITimeout, "3s")
	t.Setenv(EnvSessionCookieSecure, "true")
	t.Setenv(EnvKafkaBrokers, "k1:9092, k2:9092,")
	t.Setenv(EnvRateLimitRequests, "not-a-number")

	cfg := FromEnv()
	if cfg.Port != "9090" {
		t.Errorf("Port = %s", cfg.Port)
	}
	if cfg.APITimeout != 3*time.Second {
		t.Errorf("APITimeout = %s", cfg.APITimeout)
	}
	if !cfg.SessionCookieSecure {
		t.Error("SessionCookieSecure should be true")
	}
	if strings.Join(cfg.KafkaBrokers, "|") != "k1:9092|k2:9092" {
		t.Errorf("KafkaBrokers = %v", cfg.KafkaBrokers)
	}
	if cfg.RateLimitRequests != DefaultRateLimitRequests {
		t.Errorf("RateLimitRequests = %d, want fallback", cfg.RateLimitRequests)
	}
}

func validConfig() *Config {
	cfg := FromEnv()
	cfg.Port = "8080"
	cfg.APIBaseURL = "https://api.escapedia.test/api"
	cfg.SessionSecret = testSecret
	cfg.CloudinaryCloudName = ""
	cfg.CloudinaryUploadPreset = ""
	cfg.TimeZone = "Europe/Madrid"
	cfg.KafkaBrokers = nil
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"bad port", func(c *Config) { c.Port = "0" }, "Port must be between"},
		{"relative api url", func(c *Config) { c.APIBaseURL = "/api" }, "APIBaseURL"},
		{"short secret", func(c *Config) { c.SessionSecret = "c2hvcnQ=" }, "SessionSecret must decode"},
		{"half cloudinary", func(c *Config) { c.CloudinaryCloudName = "demo" }, "must be set together"},
		{"unknown zone", func(c *Config) { c.TimeZone = "Mars/Olympus" }, "TimeZone"},
		{"kafka without topic", func(c *Config) {
			c.KafkaBrokers = []string{"k:9092"}
			c.KafkaActivityTopic = ""
		}, "KafkaActivityTopic"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_AccumulatesErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Port = "x"
	cfg.RequestTimeout = 0
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "1. ") || !strings.Contains(err.Error(), "2. ") {
		t.Errorf("expected numbered list, got %q", err.Error())
	}
}
