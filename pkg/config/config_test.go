package config

import (
	"testing"
	"time"

	gormlogger "gorm.io/gorm/logger"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.ServiceName != "booking-service" {
		t.Errorf("ServiceName = %q", cfg.ServiceName)
	}
	if cfg.DefaultLanguage != "en" {
		t.Errorf("DefaultLanguage = %q", cfg.DefaultLanguage)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("Server.Port = %q", cfg.Server.Port)
	}
	if cfg.DB.Host != "localhost" || cfg.DB.SSLMode != "disable" {
		t.Errorf("unexpected DB defaults: %#v", cfg.DB)
	}
	if cfg.DB.ConnMaxLifetime != time.Hour {
		t.Errorf("ConnMaxLifetime = %v", cfg.DB.ConnMaxLifetime)
	}
	if cfg.JWT.ExpirationHours != 24 {
		t.Errorf("JWT.ExpirationHours = %d", cfg.JWT.ExpirationHours)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SERVICE_NAME", "booking-api")
	t.Setenv("DEFAULT_LANGUAGE", "tr")
	t.Setenv("DB_NAME", "bookings")
	t.Setenv("DB_MAX_OPEN_CONNS", "25")
	t.Setenv("DB_CONN_MAX_LIFETIME", "30m")
	t.Setenv("DB_LOG_LEVEL", "silent")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.ServiceName != "booking-api" || cfg.DefaultLanguage != "tr" {
		t.Errorf("overrides not applied: %#v", cfg)
	}
	if cfg.DB.DBName != "bookings" || cfg.DB.MaxOpenConns != 25 {
		t.Errorf("DB overrides not applied: %#v", cfg.DB)
	}
	if cfg.DB.ConnMaxLifetime != 30*time.Minute {
		t.Errorf("ConnMaxLifetime = %v", cfg.DB.ConnMaxLifetime)
	}
	if cfg.DB.LogLevel != gormlogger.Silent {
		t.Errorf("LogLevel = %v", cfg.DB.LogLevel)
	}
}

func TestDSNFormat(t *testing.T) {
	db := DBConfig{
		Host: "db", Port: "5432", User: "svc", Password: "pw",
		DBName: "bookings", SSLMode: "disable",
	}
	want := "host=db port=5432 user=svc password=pw dbname=bookings sslmode=disable"
	if got := db.GetDSN(); got != want {
		t.Fatalf("GetDSN = %q, want %q", got, want)
	}
}

func TestUnknownLogLevelKeepsDefault(t *testing.T) {
	t.Setenv("DB_LOG_LEVEL", "loud")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.DB.LogLevel != gormlogger.Warn {
		t.Errorf("LogLevel = %v, want warn default", cfg.DB.LogLevel)
	}
}
