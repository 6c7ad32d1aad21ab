package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

type sampleConfig struct {
	Name    string        `envconfig:"NAME" default:"kitchen"`
	Workers int           `envconfig:"WORKERS" default:"1"`
	Latency time.Duration `envconfig:"LATENCY" default:"100ms"`
}

func TestNewDefaults(t *testing.T) {
	conf, err := New[sampleConfig]("CFGTEST_DEFAULTS")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if conf.Name != "kitchen" || conf.Workers != 1 || conf.Latency != 100*time.Millisecond {
		t.Fatalf("unexpected defaults: %+v", conf)
	}
}

func TestNewWithEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	content := "CFGTEST_FILE_NAME=pizzeria\nCFGTEST_FILE_WORKERS=4\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("CFGTEST_FILE_WORKERS", "2")
	t.Cleanup(func() { _ = os.Unsetenv("CFGTEST_FILE_NAME") })

	conf, err := New[sampleConfig]("CFGTEST_FILE", WithEnvFile(path))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if conf.Name != "pizzeria" {
		t.Fatalf("unexpected name: %s", conf.Name)
	}
	if conf.Workers != 2 {
		t.Fatalf("process env must win over the file, got %d", conf.Workers)
	}
}

func TestNewMissingExplicitFile(t *testing.T) {
	if _, err := New[sampleConfig]("CFGTEST_MISSING", WithEnvFile(filepath.Join(t.TempDir(), "nope.env"))); err == nil {
		t.Fatal("expected error for missing env file")
	}
}
