package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ENV", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("SCHEDULE_PATH", "")
	t.Setenv("SESSION_BACKEND", "")
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.SchedulePath != "data/doctor_schedule.json" {
		t.Fatalf("expected default schedule path, got %s", cfg.SchedulePath)
	}
	if cfg.DayOpen != "09:00" || cfg.DayClose != "17:00" {
		t.Fatalf("expected default day window, got %s-%s", cfg.DayOpen, cfg.DayClose)
	}
	if cfg.MaxOfferedSlots != 5 {
		t.Fatalf("expected default offered slots, got %d", cfg.MaxOfferedSlots)
	}
	if cfg.SessionBackend != "memory" {
		t.Fatalf("expected memory session backend, got %s", cfg.SessionBackend)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Fatalf("expected default session ttl, got %s", cfg.SessionTTL)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Fatalf("expected wildcard cors default, got %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SCHEDULE_PATH", "/var/lib/scheduler/ledger.json")
	t.Setenv("DAY_OPEN", "08:00")
	t.Setenv("DAY_CLOSE", "18:30")
	t.Setenv("MAX_OFFERED_SLOTS", "8")
	t.Setenv("SESSION_BACKEND", "Redis")
	t.Setenv("SESSION_TTL", "45m")
	t.Setenv("SESSION_CAPACITY", "500")
	t.Setenv("REDIS_ADDR", "localhost:6380")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000, https://clinic.example.com")
	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected override port, got %s", cfg.Port)
	}
	if cfg.SchedulePath != "/var/lib/scheduler/ledger.json" {
		t.Fatalf("expected schedule path override, got %s", cfg.SchedulePath)
	}
	if cfg.DayOpen != "08:00" || cfg.DayClose != "18:30" {
		t.Fatalf("expected day window override, got %s-%s", cfg.DayOpen, cfg.DayClose)
	}
	if cfg.MaxOfferedSlots != 8 {
		t.Fatalf("expected offered slots override, got %d", cfg.MaxOfferedSlots)
	}
	if cfg.SessionBackend != "redis" {
		t.Fatalf("expected lowered session backend, got %s", cfg.SessionBackend)
	}
	if cfg.SessionTTL != 45*time.Minute {
		t.Fatalf("expected session ttl override, got %s", cfg.SessionTTL)
	}
	if cfg.SessionCapacity != 500 {
		t.Fatalf("expected session capacity override, got %d", cfg.SessionCapacity)
	}
	if cfg.RedisAddr != "localhost:6380" {
		t.Fatalf("expected redis addr override, got %s", cfg.RedisAddr)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://clinic.example.com" {
		t.Fatalf("expected cors origins override, got %v", cfg.CORSAllowedOrigins)
	}
}

func TestGetEnvAsDurationInvalid(t *testing.T) {
	t.Setenv("SESSION_TTL", "soon")
	cfg := Load()
	if cfg.SessionTTL != 24*time.Hour {
		t.Fatalf("expected default ttl on invalid value, got %s", cfg.SessionTTL)
	}
}
