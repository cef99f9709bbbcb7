// Package config provides configuration management for the Draftcut Agent.
// Configuration is loaded from environment variables with sensible defaults,
// optionally overridden by a YAML config file in the data directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// Default values
	DefaultPort     = 8990
	DefaultLogLevel = "info"
	DefaultDataDir  = ".draftcut"

	// Environment variable names
	EnvPort     = "DRAFTCUT_PORT"
	EnvLogLevel = "DRAFTCUT_LOG_LEVEL"
	EnvDataDir  = "DRAFTCUT_DATA_DIR"
	EnvHeadless = "DRAFTCUT_HEADLESS"
	EnvFFmpeg   = "DRAFTCUT_FFMPEG"
	EnvFFprobe  = "DRAFTCUT_FFPROBE"

	// Database filename
	DBFilename = "draftcut.db"

	// Config file name inside the data directory
	ConfigFilename = "config.yaml"

	// Tool timeouts (seconds)
	DefaultTimeoutProbe     = 30
	DefaultTimeoutNormalize = 600
	DefaultTimeoutAnalyze   = 300
	DefaultTimeoutWaveform  = 120
	DefaultTimeoutExport    = 1800

	// Analysis defaults
	DefaultSceneThreshold   = 0.4
	DefaultSilenceNoiseDb   = -30.0
	DefaultMinSilenceSec    = 0.8
	DefaultMinClipSeconds   = 1.5
	DefaultMaxAnalysisClips = 12
)

// Config defines the application configuration interface
type Config interface {
	Port() int
	LogLevel() string
	DataDir() string
	DBPath() string
	ArtifactsDir() string
	DerivedDir() string
	Headless() bool
	FFmpegPath() string
	FFprobePath() string
	TimeoutProbe() time.Duration
	TimeoutNormalize() time.Duration
	TimeoutAnalyze() time.Duration
	TimeoutWaveform() time.Duration
	TimeoutExport() time.Duration
	SceneThreshold() float64
	SilenceNoiseDb() float64
	MinSilenceSeconds() float64
	MinClipSeconds() float64
	MaxAnalysisClips() int
}

// fileConfig mirrors the optional YAML override file.
type fileConfig struct {
	Port           int     `yaml:"port"`
	LogLevel       string  `yaml:"log_level"`
	Headless       *bool   `yaml:"headless"`
	FFmpeg         string  `yaml:"ffmpeg"`
	FFprobe        string  `yaml:"ffprobe"`
	SceneThreshold float64 `yaml:"scene_threshold"`
	SilenceNoiseDb float64 `yaml:"silence_noise_db"`
	MinSilenceSec  float64 `yaml:"min_silence_seconds"`
	MinClipSec     float64 `yaml:"min_clip_seconds"`
	MaxClips       int     `yaml:"max_analysis_clips"`
}

// EnvConfig reads configuration from environment variables
type EnvConfig struct {
	port     int
	logLevel string
	dataDir  string
	headless bool

	ffmpegPath  string
	ffprobePath string

	sceneThreshold float64
	silenceNoiseDb float64
	minSilenceSec  float64
	minClipSec     float64
	maxClips       int
}

// New creates a new EnvConfig with defaults, YAML file overrides, and
// environment variable overrides (environment wins).
func New() (*EnvConfig, error) {
	cfg := &EnvConfig{
		port:           DefaultPort,
		logLevel:       DefaultLogLevel,
		dataDir:        defaultDataDir(),
		ffmpegPath:     "ffmpeg",
		ffprobePath:    "ffprobe",
		sceneThreshold: DefaultSceneThreshold,
		silenceNoiseDb: DefaultSilenceNoiseDb,
		minSilenceSec:  DefaultMinSilenceSec,
		minClipSec:     DefaultMinClipSeconds,
		maxClips:       DefaultMaxAnalysisClips,
	}

	// Data dir first so the config file can be located
	if dd := os.Getenv(EnvDataDir); dd != "" {
		cfg.dataDir = dd
	}

	if err := cfg.applyFile(filepath.Join(cfg.dataDir, ConfigFilename)); err != nil {
		return nil, err
	}

	if p := os.Getenv(EnvPort); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvPort, err)
		}
		if port < 1 || port > 65535 {
			return nil, fmt.Errorf("invalid %s: port must be between 1 and 65535", EnvPort)
		}
		cfg.port = port
	}

	if ll := os.Getenv(EnvLogLevel); ll != "" {
		cfg.logLevel = ll
	}

	if h := os.Getenv(EnvHeadless); h != "" {
		cfg.headless = h == "1" || h == "true"
	}

	if f := os.Getenv(EnvFFmpeg); f != "" {
		cfg.ffmpegPath = f
	}
	if f := os.Getenv(EnvFFprobe); f != "" {
		cfg.ffprobePath = f
	}

	return cfg, nil
}

// applyFile merges overrides from the YAML config file if it exists.
func (c *EnvConfig) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("cannot read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("cannot parse %s: %w", path, err)
	}

	if fc.Port != 0 {
		if fc.Port < 1 || fc.Port > 65535 {
			return fmt.Errorf("invalid port in %s: %d", path, fc.Port)
		}
		c.port = fc.Port
	}
	if fc.LogLevel != "" {
		c.logLevel = fc.LogLevel
	}
	if fc.Headless != nil {
		c.headless = *fc.Headless
	}
	if fc.FFmpeg != "" {
		c.ffmpegPath = fc.FFmpeg
	}
	if fc.FFprobe != "" {
		c.ffprobePath = fc.FFprobe
	}
	if fc.SceneThreshold > 0 {
		c.sceneThreshold = fc.SceneThreshold
	}
	if fc.SilenceNoiseDb != 0 {
		c.silenceNoiseDb = fc.SilenceNoiseDb
	}
	if fc.MinSilenceSec > 0 {
		c.minSilenceSec = fc.MinSilenceSec
	}
	if fc.MinClipSec > 0 {
		c.minClipSec = fc.MinClipSec
	}
	if fc.MaxClips > 0 {
		c.maxClips = fc.MaxClips
	}

	return nil
}

// Port returns the HTTP server port
func (c *EnvConfig) Port() int {
	return c.port
}

// LogLevel returns the log level (debug, info, warn, error)
func (c *EnvConfig) LogLevel() string {
	return c.logLevel
}

// DataDir returns the data directory path
func (c *EnvConfig) DataDir() string {
	return c.dataDir
}

// DBPath returns the full path to the SQLite database file
func (c *EnvConfig) DBPath() string {
	return filepath.Join(c.dataDir, DBFilename)
}

// ArtifactsDir returns the directory finished exports are written to
func (c *EnvConfig) ArtifactsDir() string {
	return filepath.Join(c.dataDir, "artifacts")
}

// DerivedDir returns the directory for derived files (normalized media, waveforms)
func (c *EnvConfig) DerivedDir() string {
	return filepath.Join(c.dataDir, "derived")
}

// Headless reports whether the system tray should be skipped
func (c *EnvConfig) Headless() bool {
	return c.headless
}

func (c *EnvConfig) FFmpegPath() string {
	return c.ffmpegPath
}

func (c *EnvConfig) FFprobePath() string {
	return c.ffprobePath
}

func (c *EnvConfig) TimeoutProbe() time.Duration {
	return time.Duration(DefaultTimeoutProbe) * time.Second
}

func (c *EnvConfig) TimeoutNormalize() time.Duration {
	return time.Duration(DefaultTimeoutNormalize) * time.Second
}

func (c *EnvConfig) TimeoutAnalyze() time.Duration {
	return time.Duration(DefaultTimeoutAnalyze) * time.Second
}

func (c *EnvConfig) TimeoutWaveform() time.Duration {
	return time.Duration(DefaultTimeoutWaveform) * time.Second
}

func (c *EnvConfig) TimeoutExport() time.Duration {
	return time.Duration(DefaultTimeoutExport) * time.Second
}

func (c *EnvConfig) SceneThreshold() float64 {
	return c.sceneThreshold
}

func (c *EnvConfig) SilenceNoiseDb() float64 {
	return c.silenceNoiseDb
}

func (c *EnvConfig) MinSilenceSeconds() float64 {
	return c.minSilenceSec
}

func (c *EnvConfig) MinClipSeconds() float64 {
	return c.minClipSec
}

func (c *EnvConfig) MaxAnalysisClips() int {
	return c.maxClips
}

// defaultDataDir returns the default data directory path
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home is not available
		return DefaultDataDir
	}
	return filepath.Join(home, DefaultDataDir)
}

// Version information (set at build time via ldflags)
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)
