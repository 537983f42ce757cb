package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.Env != "dev" {
		t.Errorf("Env = %q, want dev", cfg.Env)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Errorf("SessionTTL = %s, want 24h", cfg.SessionTTL)
	}
	if cfg.Production() {
		t.Error("dev config must not report production")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("FACE_SKIP", "false")
	t.Setenv("RATE_LIMIT_PER_MIN", "10")

	cfg := Load()
	if !cfg.Production() {
		t.Error("expected production")
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Errorf("SessionTTL = %s, want 30m", cfg.SessionTTL)
	}
	if cfg.FaceSkip {
		t.Error("FaceSkip should be false")
	}
	if cfg.RateLimitPerMin != 10 {
		t.Errorf("RateLimitPerMin = %d, want 10", cfg.RateLimitPerMin)
	}
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("SESSION_TTL", "soon")
	t.Setenv("FACE_SKIP", "maybe")

	cfg := Load()
	if cfg.SessionTTL != 24*time.Hour {
		t.Errorf("SessionTTL = %s, want fallback 24h", cfg.SessionTTL)
	}
	if !cfg.FaceSkip {
		t.Error("FaceSkip should fall back to true")
	}
}
