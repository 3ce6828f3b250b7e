package config

import (
	"strings"
	"testing"
)

// setValidEnv points DATASET_DIR at a real directory so that Load can pass
// with otherwise default values.
func setValidEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATASET_DIR", t.TempDir())
	t.Setenv("PORT", "")
	t.Setenv("ADDRESS", "")
	t.Setenv("ENV", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("MAX_REQUEST_BODY", "")
	t.Setenv("MAX_HEADER_SIZE", "")
}

func TestLoadDefaults(t *testing.T) {
	setValidEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "8000" {
		t.Errorf("Port = %s, want 8000", cfg.Port)
	}
	if cfg.Address != "127.0.0.1" {
		t.Errorf("Address = %s, want 127.0.0.1", cfg.Address)
	}
	if cfg.Env != "dev" || cfg.LogLevel != "info" {
		t.Errorf("unexpected defaults: env=%s log=%s", cfg.Env, cfg.LogLevel)
	}
	if cfg.MaxRequestBody != 1048576 || cfg.MaxHeaderSize != 1048576 {
		t.Errorf("unexpected size limits: body=%d header=%d", cfg.MaxRequestBody, cfg.MaxHeaderSize)
	}
}

func TestLoadOverrides(t *testing.T) {
	setValidEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("ADDRESS", "0.0.0.0")
	t.Setenv("ENV", "prod")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("MAX_REQUEST_BODY", "2048")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "9090" || cfg.Address != "0.0.0.0" || cfg.Env != "prod" {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.MaxRequestBody != 2048 {
		t.Errorf("MaxRequestBody = %d, want 2048", cfg.MaxRequestBody)
	}
}

func TestLoadRejections(t *testing.T) {
	tests := []struct {
		name        string
		key         string
		value       string
		wantInError string
	}{
		{"non-numeric port", "PORT", "http", "PORT"},
		{"port out of range", "PORT", "70000", "PORT"},
		{"privileged port", "PORT", "80", "privileged"},
		{"bad address", "ADDRESS", "not-an-ip", "ADDRESS"},
		{"unknown env", "ENV", "production!", "ENV"},
		{"unknown log level", "LOG_LEVEL", "trace", "LOG_LEVEL"},
		{"negative body limit", "MAX_REQUEST_BODY", "-1", "MAX_REQUEST_BODY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setValidEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			if err == nil {
				t.Fatal("expected a validation error, got none")
			}
			if !strings.Contains(err.Error(), tt.wantInError) {
				t.Errorf("error %q does not mention %q", err, tt.wantInError)
			}
		})
	}
}

func TestLoadRejectsMissingDatasetDir(t *testing.T) {
	setValidEnv(t)
	t.Setenv("DATASET_DIR", "/nonexistent/dataset/dir")

	if _, err := Load(); err == nil {
		t.Error("expected an error for a missing dataset directory, got none")
	}
}
