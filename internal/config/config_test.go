package config

import (
	"testing"
	"time"
)

func TestLoad_ReportsMissingRequired(t *testing.T) {
	c := Config{}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestValidate_ProductionRequiresSSLMode(t *testing.T) {
	c := Config{
		App:   AppConfig{Env: "production", Port: 8080},
		DB:    DBConfig{Host: "localhost", Port: 5432, User: "postgres", Password: "x", Name: "genau", SSLMode: ""},
		Redis: RedisConfig{Host: "localhost", Port: 6379},
		Auth:  AuthConfig{JWTSecret: "secret", JWTIssuer: "genau"},
	}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for production without DB_SSLMODE")
	}
}

func TestValidate_LocalDefaultsSSLMode(t *testing.T) {
	c := Config{
		App:   AppConfig{Env: "local", Port: 8080},
		DB:    DBConfig{Host: "localhost", Port: 5432, User: "postgres", Password: "x", Name: "genau", SSLMode: ""},
		Redis: RedisConfig{Host: "localhost", Port: 6379},
		Auth:  AuthConfig{JWTSecret: "secret"},
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if c.DB.SSLMode != "disable" {
		t.Fatalf("expected sslmode disable default, got %q", c.DB.SSLMode)
	}
}

func TestLoadClient_Defaults(t *testing.T) {
	c, err := LoadClient()
	if err != nil {
		t.Fatalf("load client: %v", err)
	}
	if c.APIBaseURL == "" {
		t.Fatalf("expected API base URL default")
	}
	if c.EnableRefresh {
		t.Fatalf("refresh must default to disabled")
	}
	if c.RefreshMargin != 30*time.Second {
		t.Fatalf("refresh margin = %v", c.RefreshMargin)
	}
	if c.HTTPTimeout != 10*time.Second {
		t.Fatalf("http timeout = %v", c.HTTPTimeout)
	}
	if c.AuthChannel != "auth" {
		t.Fatalf("auth channel = %q", c.AuthChannel)
	}
}
