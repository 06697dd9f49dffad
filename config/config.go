// Package config manages application configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// yt-dlp settings
	YtdlpPath    string        `json:"ytdlp_path"`
	YtdlpTimeout time.Duration `json:"ytdlp_timeout"`

	// Credentials. YouTubeAPIKey enables the Data API providers; without it
	// all YouTube access goes through yt-dlp. OpenAIAPIKey enables the
	// Whisper transcription fallback.
	YouTubeAPIKey string `json:"youtube_api_key"`
	OpenAIAPIKey  string `json:"openai_api_key"`

	// WhisperModel is the OpenAI transcription model.
	WhisperModel string `json:"whisper_model"`

	// FallbackLanguage is used when transcription does not detect a language.
	FallbackLanguage string `json:"fallback_language"`

	// MaxPlaylistVideos caps playlist enumeration.
	MaxPlaylistVideos int `json:"max_playlist_videos"`

	// HTTPTimeout bounds individual HTTP requests (caption cue fetches).
	HTTPTimeout time.Duration `json:"http_timeout"`

	// Retry settings for individual provider calls.
	MaxRetries     int           `json:"max_retries"`
	InitialBackoff time.Duration `json:"initial_backoff"`
	MaxBackoff     time.Duration `json:"max_backoff"`
}

// DefaultConfig returns configuration with safe defaults.
func DefaultConfig() *Config {
	return &Config{
		YtdlpPath:         "yt-dlp",
		YtdlpTimeout:      10 * time.Minute,
		WhisperModel:      "whisper-1",
		FallbackLanguage:  "en",
		MaxPlaylistVideos: 50,
		HTTPTimeout:       30 * time.Second,
		MaxRetries:        3,
		InitialBackoff:    1 * time.Second,
		MaxBackoff:        20 * time.Second,
	}
}

// Load loads configuration from environment variables, a .env file, a config
// file, and defaults. Priority: env vars > .env > config file > defaults.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	if err := cfg.loadFromFile(); err != nil {
		// Config file is optional
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	// .env is optional; real env vars take precedence over its contents.
	_ = godotenv.Load()

	cfg.loadFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile attempts to load ytscribe.json from the current directory or
// the user config directory.
func (c *Config) loadFromFile() error {
	paths := []string{
		"ytscribe.json",
		filepath.Join(os.Getenv("HOME"), ".config", "ytscribe", "ytscribe.json"),
	}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return err
		}

		if err := json.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		return nil
	}

	return os.ErrNotExist
}

// loadFromEnv overrides config with environment variables.
func (c *Config) loadFromEnv() {
	if v := os.Getenv("YTSCRIBE_YTDLP_PATH"); v != "" {
		c.YtdlpPath = v
	}
	if v := os.Getenv("YTSCRIBE_YTDLP_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.YtdlpTimeout = d
		}
	}
	if v := os.Getenv("YOUTUBE_API_KEY"); v != "" {
		c.YouTubeAPIKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.OpenAIAPIKey = v
	}
	if v := os.Getenv("YTSCRIBE_WHISPER_MODEL"); v != "" {
		c.WhisperModel = v
	}
	if v := os.Getenv("YTSCRIBE_FALLBACK_LANGUAGE"); v != "" {
		c.FallbackLanguage = v
	}
	if v := os.Getenv("YTSCRIBE_MAX_PLAYLIST_VIDEOS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxPlaylistVideos = n
		}
	}
	if v := os.Getenv("YTSCRIBE_HTTP_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.HTTPTimeout = d
		}
	}
	if v := os.Getenv("YTSCRIBE_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxRetries = n
		}
	}
	if v := os.Getenv("YTSCRIBE_INITIAL_BACKOFF"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.InitialBackoff = d
		}
	}
	if v := os.Getenv("YTSCRIBE_MAX_BACKOFF"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.MaxBackoff = d
		}
	}
}

// Validate checks configuration validity.
func (c *Config) Validate() error {
	if c.YtdlpTimeout <= 0 {
		return fmt.Errorf("ytdlp_timeout must be positive")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http_timeout must be positive")
	}
	if c.MaxPlaylistVideos <= 0 {
		return fmt.Errorf("max_playlist_videos must be positive")
	}
	if c.FallbackLanguage == "" {
		return fmt.Errorf("fallback_language must not be empty")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be non-negative")
	}
	if c.InitialBackoff <= 0 {
		return fmt.Errorf("initial_backoff must be positive")
	}
	if c.MaxBackoff < c.InitialBackoff {
		return fmt.Errorf("max_backoff must be >= initial_backoff")
	}
	return nil
}
