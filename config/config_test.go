package config

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v", err)
	}
	if cfg.MaxPlaylistVideos != 50 {
		t.Errorf("MaxPlaylistVideos = %d, want 50", cfg.MaxPlaylistVideos)
	}
	if cfg.FallbackLanguage != "en" {
		t.Errorf("FallbackLanguage = %q, want en", cfg.FallbackLanguage)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("YTSCRIBE_YTDLP_PATH", "/opt/bin/yt-dlp")
	t.Setenv("YTSCRIBE_YTDLP_TIMEOUT", "2m")
	t.Setenv("YOUTUBE_API_KEY", "test-yt-key")
	t.Setenv("OPENAI_API_KEY", "test-oa-key")
	t.Setenv("YTSCRIBE_MAX_PLAYLIST_VIDEOS", "10")
	t.Setenv("YTSCRIBE_FALLBACK_LANGUAGE", "de")

	cfg := DefaultConfig()
	cfg.loadFromEnv()

	if cfg.YtdlpPath != "/opt/bin/yt-dlp" {
		t.Errorf("YtdlpPath = %q", cfg.YtdlpPath)
	}
	if cfg.YtdlpTimeout != 2*time.Minute {
		t.Errorf("YtdlpTimeout = %v, want 2m", cfg.YtdlpTimeout)
	}
	if cfg.YouTubeAPIKey != "test-yt-key" {
		t.Errorf("YouTubeAPIKey = %q", cfg.YouTubeAPIKey)
	}
	if cfg.OpenAIAPIKey != "test-oa-key" {
		t.Errorf("OpenAIAPIKey = %q", cfg.OpenAIAPIKey)
	}
	if cfg.MaxPlaylistVideos != 10 {
		t.Errorf("MaxPlaylistVideos = %d, want 10", cfg.MaxPlaylistVideos)
	}
	if cfg.FallbackLanguage != "de" {
		t.Errorf("FallbackLanguage = %q, want de", cfg.FallbackLanguage)
	}
}

func TestLoadFromEnv_IgnoresMalformedValues(t *testing.T) {
	t.Setenv("YTSCRIBE_YTDLP_TIMEOUT", "not-a-duration")
	t.Setenv("YTSCRIBE_MAX_PLAYLIST_VIDEOS", "not-a-number")

	cfg := DefaultConfig()
	cfg.loadFromEnv()

	if cfg.YtdlpTimeout != DefaultConfig().YtdlpTimeout {
		t.Errorf("YtdlpTimeout = %v, want default", cfg.YtdlpTimeout)
	}
	if cfg.MaxPlaylistVideos != 50 {
		t.Errorf("MaxPlaylistVideos = %d, want 50", cfg.MaxPlaylistVideos)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"zero ytdlp timeout", func(c *Config) { c.YtdlpTimeout = 0 }, true},
		{"zero http timeout", func(c *Config) { c.HTTPTimeout = 0 }, true},
		{"zero playlist cap", func(c *Config) { c.MaxPlaylistVideos = 0 }, true},
		{"empty fallback language", func(c *Config) { c.FallbackLanguage = "" }, true},
		{"negative retries", func(c *Config) { c.MaxRetries = -1 }, true},
		{"backoff inversion", func(c *Config) { c.MaxBackoff = c.InitialBackoff / 2 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
