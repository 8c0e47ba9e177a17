package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cast"
)

const (
	defaultDatabaseDSN = "host=localhost user=postgres password=postgres dbname=labbooth port=5432 sslmode=disable"
	defaultCORSOrigins = "http://localhost:5173"
)

type Config struct {
	Env            string
	HTTPPort       string
	DatabaseDriver string // postgres veya sqlite
	DatabaseDSN    string
	AdminPassword  string
	JWTSecret      string
	CORSOrigins    string
	DedupWindow    time.Duration
	DedupStore     string // memory veya database
	LogLevel       string
	LogFile        string // boşsa sadece stdout
	MetricsPrefix  string
}

func Load() (*Config, error) {
	windowMs, err := cast.ToIntE(getEnv("DEDUP_WINDOW_MS", "5000"))
	if err != nil {
		return nil, fmt.Errorf("DEDUP_WINDOW_MS sayı olmalı: %w", err)
	}
	if windowMs <= 0 {
		return nil, errors.New("DEDUP_WINDOW_MS pozitif olmalı")
	}

	cfg := &Config{
		Env:            getEnv("APP_ENV", "development"),
		HTTPPort:       getEnv("HTTP_PORT", "8080"),
		DatabaseDriver: getEnv("DATABASE_DRIVER", "postgres"),
		DatabaseDSN:    getEnv("DATABASE_DSN", defaultDatabaseDSN),
		AdminPassword:  getEnv("ADMIN_PASSWORD", ""),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		CORSOrigins:    getEnv("CORS_ALLOWED_ORIGINS", defaultCORSOrigins),
		DedupWindow:    time.Duration(windowMs) * time.Millisecond,
		DedupStore:     getEnv("DEDUP_STORE", "memory"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFile:        getEnv("LOG_FILE", ""),
		MetricsPrefix:  getEnv("METRICS_PREFIX", "labbooth"),
	}

	if cfg.AdminPassword == "" {
		return nil, errors.New("ADMIN_PASSWORD tanımlanmamış")
	}
	// Token'lar eskiden admin şifresiyle imzalanıyordu, ayrı secret yoksa aynı davranış korunur
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = cfg.AdminPassword
	}

	switch cfg.DatabaseDriver {
	case "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("desteklenmeyen DATABASE_DRIVER: %q", cfg.DatabaseDriver)
	}
	switch cfg.DedupStore {
	case "memory", "database":
	default:
		return nil, fmt.Errorf("desteklenmeyen DEDUP_STORE: %q", cfg.DedupStore)
	}

	if cfg.DatabaseDriver == "postgres" && cfg.DatabaseDSN == defaultDatabaseDSN {
		log.Println("[WARN] DATABASE_DSN varsayılan değer kullanılıyor, production için kendi Postgres bağlantı bilgini tanımla.")
	}
	if cfg.CORSOrigins == defaultCORSOrigins {
		log.Println("[WARN] CORS_ALLOWED_ORIGINS varsayılan değer kullanılıyor.")
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
