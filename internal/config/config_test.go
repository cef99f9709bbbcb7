package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNew_Defaults(t *testing.T) {
	os.Unsetenv(EnvPort)
	os.Unsetenv(EnvLogLevel)
	os.Setenv(EnvDataDir, t.TempDir())
	defer os.Unsetenv(EnvDataDir)

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port() != DefaultPort {
		t.Errorf("Port = %d, want %d", cfg.Port(), DefaultPort)
	}
	if cfg.LogLevel() != DefaultLogLevel {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel(), DefaultLogLevel)
	}
	if cfg.FFmpegPath() != "ffmpeg" {
		t.Errorf("FFmpegPath = %q, want ffmpeg", cfg.FFmpegPath())
	}
	if cfg.MaxAnalysisClips() != DefaultMaxAnalysisClips {
		t.Errorf("MaxAnalysisClips = %d, want %d", cfg.MaxAnalysisClips(), DefaultMaxAnalysisClips)
	}
}

func TestNew_PortFromEnv(t *testing.T) {
	os.Setenv(EnvDataDir, t.TempDir())
	os.Setenv(EnvPort, "9123")
	defer os.Unsetenv(EnvDataDir)
	defer os.Unsetenv(EnvPort)

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port() != 9123 {
		t.Errorf("Port = %d, want 9123", cfg.Port())
	}
}

func TestNew_InvalidPort(t *testing.T) {
	os.Setenv(EnvDataDir, t.TempDir())
	os.Setenv(EnvPort, "not-a-port")
	defer os.Unsetenv(EnvDataDir)
	defer os.Unsetenv(EnvPort)

	if _, err := New(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestNew_FileOverrides(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte("port: 9500\nscene_threshold: 0.25\nffmpeg: /opt/ffmpeg/bin/ffmpeg\n")
	if err := os.WriteFile(filepath.Join(dir, ConfigFilename), yaml, 0o644); err != nil {
		t.Fatal(err)
	}

	os.Setenv(EnvDataDir, dir)
	os.Unsetenv(EnvPort)
	defer os.Unsetenv(EnvDataDir)

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port() != 9500 {
		t.Errorf("Port = %d, want 9500 from config file", cfg.Port())
	}
	if cfg.SceneThreshold() != 0.25 {
		t.Errorf("SceneThreshold = %v, want 0.25", cfg.SceneThreshold())
	}
	if cfg.FFmpegPath() != "/opt/ffmpeg/bin/ffmpeg" {
		t.Errorf("FFmpegPath = %q", cfg.FFmpegPath())
	}
}

func TestNew_EnvWinsOverFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ConfigFilename), []byte("port: 9500\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	os.Setenv(EnvDataDir, dir)
	os.Setenv(EnvPort, "9600")
	defer os.Unsetenv(EnvDataDir)
	defer os.Unsetenv(EnvPort)

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port() != 9600 {
		t.Errorf("Port = %d, want env override 9600", cfg.Port())
	}
}

func TestDBPath(t *testing.T) {
	dir := t.TempDir()
	os.Setenv(EnvDataDir, dir)
	defer os.Unsetenv(EnvDataDir)

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := filepath.Join(dir, DBFilename)
	if cfg.DBPath() != want {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath(), want)
	}
}
