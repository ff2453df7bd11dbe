package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// chdir changes the working directory for the duration of the test,
// mirroring t.Chdir which requires Go 1.24.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatalf("Failed to restore working directory: %v", err)
		}
	})
}

func TestLoad_DefaultsWithoutConfigFile(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected load to succeed: %v", err)
	}

	if cfg.Engine.CatalogTimeout != 2*time.Second {
		t.Errorf("Expected 2s catalog timeout, got %v", cfg.Engine.CatalogTimeout)
	}
	if cfg.Engine.AvailabilityThreshold != "0" {
		t.Errorf("Expected threshold 0, got %q", cfg.Engine.AvailabilityThreshold)
	}
	if cfg.Engine.PartNumberPrefix != "BOM" {
		t.Errorf("Expected part number prefix BOM, got %q", cfg.Engine.PartNumberPrefix)
	}
	if cfg.Redis.Addr() != "localhost:6379" {
		t.Errorf("Expected localhost:6379, got %s", cfg.Redis.Addr())
	}

	dsn := cfg.Database.DSN()
	if dsn != "host=localhost port=5432 user= password= dbname= sslmode=disable" {
		t.Errorf("Unexpected DSN: %s", dsn)
	}
}

func TestLoad_ReadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	if err := os.MkdirAll(filepath.Join(dir, "configs"), 0755); err != nil {
		t.Fatalf("Failed to create configs dir: %v", err)
	}
	yaml := "database:\n" +
		"  host: db.prod\n" +
		"  port: 5433\n" +
		"  dbname: bomgen\n" +
		"engine:\n" +
		"  catalog_timeout: 5s\n" +
		"  availability_threshold: \"100\"\n" +
		"  part_number_prefix: \"710\"\n"
	if err := os.WriteFile(filepath.Join(dir, "configs", "config.yaml"), []byte(yaml), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected load to succeed: %v", err)
	}

	if cfg.Database.Host != "db.prod" || cfg.Database.Port != 5433 || cfg.Database.DBName != "bomgen" {
		t.Errorf("Unexpected database config: %+v", cfg.Database)
	}
	if cfg.Engine.CatalogTimeout != 5*time.Second {
		t.Errorf("Expected 5s catalog timeout, got %v", cfg.Engine.CatalogTimeout)
	}
	if cfg.Engine.AvailabilityThreshold != "100" {
		t.Errorf("Expected threshold 100, got %q", cfg.Engine.AvailabilityThreshold)
	}
	if cfg.Engine.PartNumberPrefix != "710" {
		t.Errorf("Expected part number prefix 710, got %q", cfg.Engine.PartNumberPrefix)
	}
	// File values that were not overridden keep their defaults.
	if cfg.Database.SSLMode != "disable" {
		t.Errorf("Expected sslmode disable, got %q", cfg.Database.SSLMode)
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("REDIS_HOST", "cache.internal")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected load to succeed: %v", err)
	}

	if cfg.Database.Host != "db.internal" {
		t.Errorf("Expected DB_HOST override, got %q", cfg.Database.Host)
	}
	if cfg.Redis.Addr() != "cache.internal:6379" {
		t.Errorf("Expected REDIS_HOST override, got %s", cfg.Redis.Addr())
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Expected LOG_LEVEL override, got %q", cfg.Log.Level)
	}
}
