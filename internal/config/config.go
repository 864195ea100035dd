// Package config handles songdata configuration file management.
package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
)

// Config represents the songdata configuration
type Config struct {
	// Decode settings for the ffmpeg collaborator
	Decode DecodeConfig `json:"decode"`

	// Output settings for song data artifacts
	Output OutputConfig `json:"output"`

	// Batch settings
	Batch BatchConfig `json:"batch"`

	// Preview settings
	Preview PreviewConfig `json:"preview"`
}

// DecodeConfig contains decoder settings
type DecodeConfig struct {
	// FFmpegPath overrides the ffmpeg lookup in PATH
	FFmpegPath string `json:"ffmpegPath"`

	// FFprobePath overrides the ffprobe lookup in PATH
	FFprobePath string `json:"ffprobePath"`

	// SampleRate forces a decode rate; 0 keeps the stream's native rate
	SampleRate int `json:"sampleRate"`

	// MaxDurationSec caps how much audio is decoded; 0 decodes everything
	MaxDurationSec float64 `json:"maxDurationSec"`

	// LowPriority runs ffmpeg under nice
	LowPriority bool `json:"lowPriority"`
}

// OutputConfig contains artifact settings
type OutputConfig struct {
	// FileName for single-input runs (default: song_data.json)
	FileName string `json:"fileName"`

	// Dir for batch runs; empty writes next to each input
	Dir string `json:"dir"`
}

// BatchConfig contains worker pool settings
type BatchConfig struct {
	// Workers is the number of concurrent extractions; 0 picks NumCPU-1
	Workers int `json:"workers"`
}

// PreviewConfig contains preview renderer settings
type PreviewConfig struct {
	// SampleRate for rendered audio (default: 44100)
	SampleRate int `json:"sampleRate"`

	// Volume level 0.0 - 1.0 (default: 0.8)
	Volume float64 `json:"volume"`

	// StepMs overrides the sixteenth-note step derived from the bpm; 0 keeps it
	StepMs int `json:"stepMs"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Decode: DecodeConfig{
			LowPriority: true,
		},
		Output: OutputConfig{
			FileName: "song_data.json",
		},
		Preview: PreviewConfig{
			SampleRate: 44100,
			Volume:     0.8,
		},
	}
}

// DefaultDir returns ~/.config/songdata, falling back to a relative path
func DefaultDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".songdata"
	}
	return filepath.Join(dir, "songdata")
}

// Manager handles loading and saving configuration
type Manager struct {
	configDir  string
	configPath string
	config     *Config
}

// NewManager creates a new configuration manager
func NewManager(configDir string) *Manager {
	return &Manager{
		configDir:  configDir,
		configPath: filepath.Join(configDir, "config.json"),
		config:     DefaultConfig(),
	}
}

// Load reads the configuration from disk, creating a default file when
// none exists, then applies environment overrides.
func (m *Manager) Load() error {
	if err := os.MkdirAll(m.configDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(m.configPath); os.IsNotExist(err) {
		m.config = DefaultConfig()
		if err := m.Save(); err != nil {
			return err
		}
		log.Printf("[CONFIG] Wrote default config to %s", m.configPath)
		m.config.ApplyEnv()
		return nil
	}

	data, err := os.ReadFile(m.configPath)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	config := DefaultConfig() // Start with defaults
	if err := json.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	config.ApplyEnv()
	m.config = config
	return nil
}

// Save writes the configuration to disk
func (m *Manager) Save() error {
	if err := os.MkdirAll(m.configDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(m.config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(m.configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Get returns the current configuration
func (m *Manager) Get() *Config {
	return m.config
}

// GetPath returns the config file path
func (m *Manager) GetPath() string {
	return m.configPath
}

// Update updates the configuration and saves it
func (m *Manager) Update(config *Config) error {
	m.config = config
	return m.Save()
}

// ApplyEnv layers SONGDATA_* environment variables over c
func (c *Config) ApplyEnv() {
	c.Decode.FFmpegPath = envStr("SONGDATA_FFMPEG", c.Decode.FFmpegPath)
	c.Decode.FFprobePath = envStr("SONGDATA_FFPROBE", c.Decode.FFprobePath)
	c.Decode.SampleRate = envInt("SONGDATA_SAMPLE_RATE", c.Decode.SampleRate)
	c.Output.FileName = envStr("SONGDATA_OUTPUT", c.Output.FileName)
	c.Batch.Workers = envInt("SONGDATA_WORKERS", c.Batch.Workers)
	c.Preview.Volume = envFloat("SONGDATA_PREVIEW_VOLUME", c.Preview.Volume)
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Printf("[CONFIG] Ignoring %s=%q: not an integer", key, v)
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		log.Printf("[CONFIG] Ignoring %s=%q: not a number", key, v)
	}
	return fallback
}
