package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	s, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if got := s.GetVenvDirectory(); got != "venv" {
		t.Errorf("GetVenvDirectory() = %q, expected %q", got, "venv")
	}
	if got := s.GetMaxParallelDownloads(); got != DefaultMaxParallel {
		t.Errorf("GetMaxParallelDownloads() = %d, expected %d", got, DefaultMaxParallel)
	}
	if got := s.GetQualityPreset(); got != DefaultQualityPreset {
		t.Errorf("GetQualityPreset() = %q, expected %q", got, DefaultQualityPreset)
	}
	if got := s.GetFilenameTemplate(); got != DefaultFilenameTemplate {
		t.Errorf("GetFilenameTemplate() = %q, expected %q", got, DefaultFilenameTemplate)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	tempDir := t.TempDir()
	cfgPath := filepath.Join(tempDir, "config.yaml")

	content := []byte("download_directory: /music\nmax_parallel_downloads: 4\nquality_preset: best\n")
	if err := os.WriteFile(cfgPath, content, 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	s, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if got := s.GetDownloadDirectory(); got != "/music" {
		t.Errorf("GetDownloadDirectory() = %q, expected %q", got, "/music")
	}
	if got := s.GetMaxParallelDownloads(); got != 4 {
		t.Errorf("GetMaxParallelDownloads() = %d, expected 4", got)
	}
	if got := s.GetQualityPreset(); got != QualityBest {
		t.Errorf("GetQualityPreset() = %q, expected %q", got, QualityBest)
	}
}

func TestLoad_MissingExplicitConfigFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("Expected error for missing explicit config file, got nil")
	}
}

func TestGetMaxParallelDownloads_Clamped(t *testing.T) {
	tempDir := t.TempDir()
	cfgPath := filepath.Join(tempDir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("max_parallel_downloads: 99\n"), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	s, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if got := s.GetMaxParallelDownloads(); got != 10 {
		t.Errorf("GetMaxParallelDownloads() = %d, expected clamp to 10", got)
	}
}

func TestGetQualityPreset_InvalidFallsBack(t *testing.T) {
	tempDir := t.TempDir()
	cfgPath := filepath.Join(tempDir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("quality_preset: turbo\n"), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	s, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if got := s.GetQualityPreset(); got != DefaultQualityPreset {
		t.Errorf("GetQualityPreset() = %q, expected fallback %q", got, DefaultQualityPreset)
	}
}

func TestGetFailedLogPath(t *testing.T) {
	tempDir := t.TempDir()
	cfgPath := filepath.Join(tempDir, "config.yaml")
	content := []byte("download_directory: /music\n")
	if err := os.WriteFile(cfgPath, content, 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	s, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	expected := filepath.Join("/music", DefaultFailedLogName)
	if got := s.GetFailedLogPath(); got != expected {
		t.Errorf("GetFailedLogPath() = %q, expected %q", got, expected)
	}
}
