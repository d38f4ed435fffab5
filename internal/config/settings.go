package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/finnapple/opusgrab/internal/platform"
)

// AppName is the application name, also used for config/env discovery
const AppName = "opusgrab"

// Quality presets for downloads
type QualityPreset string

const (
	QualityBest   QualityPreset = "best"
	QualityMedium QualityPreset = "medium"
	QualityAudio  QualityPreset = "audio"
)

// Settings keys
const (
	KeyDownloadDir      = "download_directory"
	KeyVenvDir          = "venv_directory"
	KeyMaxParallel      = "max_parallel_downloads"
	KeyQualityPreset    = "quality_preset"
	KeyFilenameTemplate = "filename_template"
	KeyFailedLog        = "failed_downloads_log"
)

// Default values
const (
	DefaultMaxParallel      = 2
	DefaultQualityPreset    = QualityAudio
	DefaultFilenameTemplate = "%(title)s.%(ext)s"
	DefaultFailedLogName    = "failed_downloads.txt"

	maxParallelCeiling = 10
)

// Settings manages application configuration backed by viper: a YAML config
// file in the user config directory overridden by OPUSGRAB_* environment
// variables.
type Settings struct {
	v *viper.Viper
}

// Load reads configuration from the given file, or from the default
// location when cfgFile is empty. A missing config file is not an error;
// defaults apply.
func Load(cfgFile string) (*Settings, error) {
	v := viper.New()

	v.SetDefault(KeyVenvDir, platform.DefaultVenvDir)
	v.SetDefault(KeyMaxParallel, DefaultMaxParallel)
	v.SetDefault(KeyQualityPreset, string(DefaultQualityPreset))
	v.SetDefault(KeyFilenameTemplate, DefaultFilenameTemplate)
	v.SetDefault(KeyFailedLog, DefaultFailedLogName)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if dir, err := defaultConfigDir(); err == nil {
			v.AddConfigPath(dir)
		}
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(AppName)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return &Settings{v: v}, nil
}

// defaultConfigDir returns the per-user config directory for the app
func defaultConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(base, AppName), nil
}

// Viper exposes the underlying viper instance for flag binding
func (s *Settings) Viper() *viper.Viper {
	return s.v
}

// GetDownloadDirectory returns the configured download directory
func (s *Settings) GetDownloadDirectory() string {
	dir := s.v.GetString(KeyDownloadDir)
	if dir == "" {
		defaultDir, err := platform.GetHomeMusicDir()
		if err != nil {
			defaultDir = filepath.Join(os.TempDir(), "opusgrab")
		}
		return defaultDir
	}
	return dir
}

// GetVenvDirectory returns the virtual environment directory
func (s *Settings) GetVenvDirectory() string {
	dir := s.v.GetString(KeyVenvDir)
	if dir == "" {
		return platform.DefaultVenvDir
	}
	return dir
}

// GetMaxParallelDownloads returns the maximum number of parallel downloads
func (s *Settings) GetMaxParallelDownloads() int {
	value := s.v.GetInt(KeyMaxParallel)
	if value < 1 {
		return DefaultMaxParallel
	}
	if value > maxParallelCeiling {
		return maxParallelCeiling
	}
	return value
}

// GetQualityPreset returns the configured quality preset
func (s *Settings) GetQualityPreset() QualityPreset {
	preset := QualityPreset(s.v.GetString(KeyQualityPreset))
	switch preset {
	case QualityBest, QualityMedium, QualityAudio:
		return preset
	default:
		return DefaultQualityPreset
	}
}

// GetFilenameTemplate returns the yt-dlp filename template
func (s *Settings) GetFilenameTemplate() string {
	template := s.v.GetString(KeyFilenameTemplate)
	if template == "" {
		return DefaultFilenameTemplate
	}
	return template
}

// GetFailedLogPath returns the path of the failed downloads log, resolved
// relative to the download directory unless absolute.
func (s *Settings) GetFailedLogPath() string {
	name := s.v.GetString(KeyFailedLog)
	if name == "" {
		name = DefaultFailedLogName
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.GetDownloadDirectory(), name)
}
