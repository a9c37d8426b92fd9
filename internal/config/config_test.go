package config

import (
	"testing"
	"time"
)

// clearEnv blanks every variable Load reads so host settings cannot leak
// into assertions. Empty values fall through to defaults.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "READ_TIMEOUT", "READ_HEADER_TIMEOUT", "WRITE_TIMEOUT", "IDLE_TIMEOUT",
		"MAX_HEADER_BYTES", "GIN_MODE", "LOG_LEVEL", "LOG_PRETTY", "API_BASE_PATH",
		"DB_PATH", "AUTH_JWT_SECRET", "RATE_RPS", "RATE_BURST", "CORS_ALLOWED_ORIGINS",
		"ENABLE_HSTS", "HSTS_MAX_AGE",
		"SMTP_HOST", "SMTP_PORT", "SMTP_USERNAME", "SMTP_PASSWORD", "SMTP_FROM",
		"OTEL_ENABLED", "OTEL_EXPORTER_OTLP_ENDPOINT", "OTEL_EXPORTER_OTLP_INSECURE",
		"OTEL_SERVICE_NAME", "OTEL_TRACES_SAMPLER_ARG",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("port = %q", cfg.Port)
	}
	if cfg.GinMode != "release" {
		t.Fatalf("gin mode = %q", cfg.GinMode)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("log level = %q", cfg.LogLevel)
	}
	if cfg.APIBasePath != "/api/v1" {
		t.Fatalf("base path = %q", cfg.APIBasePath)
	}
	if cfg.DBPath != "petnet.db" {
		t.Fatalf("db path = %q", cfg.DBPath)
	}
	if cfg.RateRPS != 5.0 || cfg.RateBurst != 10 {
		t.Fatalf("rate = %v/%d", cfg.RateRPS, cfg.RateBurst)
	}
	if cfg.SMTP.Host != "" || cfg.SMTP.Port != 587 {
		t.Fatalf("smtp = %+v", cfg.SMTP)
	}
	if cfg.OTEL.Enabled {
		t.Fatal("otel must be off by default")
	}
	if cfg.ReadTimeout != 15*time.Second {
		t.Fatalf("read timeout = %v", cfg.ReadTimeout)
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("GIN_MODE", "test")
	t.Setenv("LOG_LEVEL", "WARNING")
	t.Setenv("API_BASE_PATH", "api/v2/")
	t.Setenv("RATE_RPS", "2.5")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("AUTH_JWT_SECRET", "s3cret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "9090" || cfg.GinMode != "test" {
		t.Fatalf("server = %q/%q", cfg.Port, cfg.GinMode)
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("log level = %q, want normalized warn", cfg.LogLevel)
	}
	if cfg.APIBasePath != "/api/v2" {
		t.Fatalf("base path = %q", cfg.APIBasePath)
	}
	if cfg.RateRPS != 2.5 {
		t.Fatalf("rate = %v", cfg.RateRPS)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 || cfg.CORS.AllowedOrigins[1] != "https://b.example" {
		t.Fatalf("cors = %v", cfg.CORS.AllowedOrigins)
	}
	if cfg.JWTSecret != "s3cret" {
		t.Fatalf("jwt secret = %q", cfg.JWTSecret)
	}
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOG_LEVEL", "verbose")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown log level")
	}
}

func TestLoad_InvalidGinModeFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("GIN_MODE", "turbo")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.GinMode != "release" {
		t.Fatalf("gin mode = %q", cfg.GinMode)
	}
}

func TestLoad_SMTPRequiresFrom(t *testing.T) {
	clearEnv(t)
	t.Setenv("SMTP_HOST", "mail.example.com")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when SMTP_HOST is set without SMTP_FROM")
	}

	t.Setenv("SMTP_FROM", "no-reply@example.com")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.SMTP.From != "no-reply@example.com" {
		t.Fatalf("smtp from = %q", cfg.SMTP.From)
	}
}

func TestLoad_SMTPPortBounds(t *testing.T) {
	clearEnv(t)
	t.Setenv("SMTP_HOST", "mail.example.com")
	t.Setenv("SMTP_FROM", "no-reply@example.com")
	t.Setenv("SMTP_PORT", "70000")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for out-of-range SMTP port")
	}
}

func TestLoad_RateLimitValidation(t *testing.T) {
	clearEnv(t)
	t.Setenv("RATE_RPS", "-1")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for negative RATE_RPS")
	}

	clearEnv(t)
	t.Setenv("RATE_BURST", "0")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for zero RATE_BURST")
	}
}

func TestLoad_SampleRatioValidation(t *testing.T) {
	clearEnv(t)
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "1.5")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for sample ratio above 1")
	}
}

func TestNormalizeBasePath(t *testing.T) {
	cases := []struct{ in, want string }{
		{"", "/"},
		{"/", "/"},
		{"api", "/api"},
		{"/api/v1", "/api/v1"},
		{"/api/v1/", "/api/v1"},
		{"  /api//  ", "/api"},
	}
	for _, tc := range cases {
		if got := normalizeBasePath(tc.in); got != tc.want {
			t.Errorf("normalizeBasePath(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
