package tts

import (
	"strings"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// resetViper clears global viper state for one test and restores it after.
func resetViper(t *testing.T, values map[string]interface{}) {
	t.Helper()
	saved := viper.AllSettings()
	viper.Reset()
	for key, value := range values {
		viper.Set(key, value)
	}
	t.Cleanup(func() {
		viper.Reset()
		for key, value := range saved {
			viper.Set(key, value)
		}
	})
}

// TestDefaultConfig tests that default configuration is valid.
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should be valid: %v", err)
	}
	if cfg.Engine != EngineAuto {
		t.Errorf("Default engine should be auto, got %s", cfg.Engine)
	}
	if cfg.MaxAttempts != DefaultMaxAttempts {
		t.Errorf("MaxAttempts = %d, want %d", cfg.MaxAttempts, DefaultMaxAttempts)
	}
	if cfg.RetryDelay != DefaultRetryDelay {
		t.Errorf("RetryDelay = %v, want %v", cfg.RetryDelay, DefaultRetryDelay)
	}
	if cfg.Lang != nil || cfg.Volume != nil || cfg.Pitch != nil || cfg.Rate != nil {
		t.Error("request properties should be unset by default")
	}
}

// TestConfigValidation tests configuration validation.
func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:   "valid config",
			modify: func(c *Config) {},
		},
		{
			name:   "engine is case insensitive",
			modify: func(c *Config) { c.Engine = "MOCK" },
		},
		{
			name:    "invalid engine",
			modify:  func(c *Config) { c.Engine = "festival" },
			wantErr: true,
			errMsg:  "invalid TTS engine",
		},
		{
			name:    "negative retry delay",
			modify:  func(c *Config) { c.RetryDelay = -time.Millisecond },
			wantErr: true,
			errMsg:  "retry_delay cannot be negative",
		},
		{
			name:   "zero volume is allowed",
			modify: func(c *Config) { c.Volume = lo.ToPtr(0.0) },
		},
		{
			name:    "volume too high",
			modify:  func(c *Config) { c.Volume = lo.ToPtr(1.5) },
			wantErr: true,
			errMsg:  "volume must be between",
		},
		{
			name:    "pitch too high",
			modify:  func(c *Config) { c.Pitch = lo.ToPtr(2.1) },
			wantErr: true,
			errMsg:  "pitch must be between",
		},
		{
			name:    "rate too low",
			modify:  func(c *Config) { c.Rate = lo.ToPtr(0.0) },
			wantErr: true,
			errMsg:  "rate must be between",
		},
		{
			name:   "valid lang",
			modify: func(c *Config) { c.Lang = lo.ToPtr("pt-BR") },
		},
		{
			name:    "invalid lang",
			modify:  func(c *Config) { c.Lang = lo.ToPtr("not a tag!") },
			wantErr: true,
			errMsg:  "invalid lang",
		},
		{
			name: "invalid espeak playback",
			modify: func(c *Config) {
				c.Engine = EngineEspeak
				c.Espeak.Playback = "pulse"
			},
			wantErr: true,
			errMsg:  "playback must be",
		},
		{
			name: "empty say binary",
			modify: func(c *Config) {
				c.Engine = EngineSay
				c.Say.Binary = ""
			},
			wantErr: true,
			errMsg:  "say binary path cannot be empty",
		},
		{
			name: "invalid mock outcome",
			modify: func(c *Config) {
				c.Engine = EngineMock
				c.Mock.Outcome = "explode"
			},
			wantErr: true,
			errMsg:  "outcome must be one of",
		},
		{
			name: "engine sections only checked when selected",
			modify: func(c *Config) {
				c.Engine = EngineMock
				c.Say.Binary = ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.errMsg)
			}
		})
	}
}

// TestEspeakPlaybackNormalized tests that playback is lowercased.
func TestEspeakPlaybackNormalized(t *testing.T) {
	cfg := DefaultEspeakConfig()
	cfg.Playback = "OTO"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.Playback != PlaybackOto {
		t.Errorf("Playback = %q, want %q", cfg.Playback, PlaybackOto)
	}
}

// TestToProperties tests conversion to speaker properties.
func TestToProperties(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Rate = lo.ToPtr(1.25)
	cfg.Voice = "Alex"

	props := cfg.ToProperties()
	if props.Voice != "Alex" || props.Rate == nil || *props.Rate != 1.25 {
		t.Errorf("ToProperties() = %+v", props)
	}
	if props.Lang != nil || props.Volume != nil || props.Pitch != nil {
		t.Errorf("unset fields should stay nil: %+v", props)
	}

	*cfg.Rate = 3
	if *props.Rate != 1.25 {
		t.Error("ToProperties() should copy pointer values")
	}
}

// TestSpeakerOptions tests conversion of retry settings.
func TestSpeakerOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxAttempts = 42
	cfg.RetryDelay = 5 * time.Millisecond

	o := newOptions(cfg.SpeakerOptions())
	if o.maxAttempts != DefaultMaxAttempts {
		t.Errorf("maxAttempts = %d, want clamped %d", o.maxAttempts, DefaultMaxAttempts)
	}
	if o.retryDelay != 5*time.Millisecond {
		t.Errorf("retryDelay = %v, want 5ms", o.retryDelay)
	}
}

// TestLoadConfigFromViper tests loading configuration from Viper.
func TestLoadConfigFromViper(t *testing.T) {
	resetViper(t, map[string]interface{}{
		"engine":             "mock",
		"max_attempts":       3,
		"retry_delay":        "250ms",
		"volume":             0.0,
		"rate":               1.5,
		"voice":              "Mock Voice 2",
		"espeak.playback":    "oto",
		"mock.voices":        []string{"A", "B"},
		"mock.empty_queries": 2,
		"mock.outcome":       "silent",
	})

	cfg, err := LoadConfigFromViper()
	if err != nil {
		t.Fatalf("LoadConfigFromViper() error = %v", err)
	}

	if cfg.Engine != EngineMock {
		t.Errorf("Engine = %v, want mock", cfg.Engine)
	}
	if cfg.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %v, want 3", cfg.MaxAttempts)
	}
	if cfg.RetryDelay != 250*time.Millisecond {
		t.Errorf("RetryDelay = %v, want 250ms", cfg.RetryDelay)
	}
	if cfg.Volume == nil || *cfg.Volume != 0 {
		t.Errorf("Volume = %v, want explicit 0", cfg.Volume)
	}
	if cfg.Rate == nil || *cfg.Rate != 1.5 {
		t.Errorf("Rate = %v, want 1.5", cfg.Rate)
	}
	if cfg.Pitch != nil || cfg.Lang != nil {
		t.Error("unset properties should stay nil")
	}
	if cfg.Voice != "Mock Voice 2" {
		t.Errorf("Voice = %q", cfg.Voice)
	}
	if cfg.Espeak.Playback != PlaybackOto {
		t.Errorf("Espeak.Playback = %q, want oto", cfg.Espeak.Playback)
	}
	if len(cfg.Mock.Voices) != 2 || cfg.Mock.EmptyQueries != 2 || cfg.Mock.Outcome != OutcomeSilent {
		t.Errorf("Mock = %+v", cfg.Mock)
	}
}

// TestLoadConfigEnvOverrides tests that BASICTTS_* variables win over Viper.
func TestLoadConfigEnvOverrides(t *testing.T) {
	resetViper(t, map[string]interface{}{
		"engine": "espeak",
		"pitch":  0.5,
	})
	t.Setenv("BASICTTS_ENGINE", "mock")
	t.Setenv("BASICTTS_PITCH", "1.25")
	t.Setenv("BASICTTS_MOCK_VOICES", "One,Two,Three")
	t.Setenv("BASICTTS_RETRY_DELAY", "1s")

	cfg, err := LoadConfigFromViper()
	if err != nil {
		t.Fatalf("LoadConfigFromViper() error = %v", err)
	}

	if cfg.Engine != EngineMock {
		t.Errorf("Engine = %q, want mock", cfg.Engine)
	}
	if cfg.Pitch == nil || *cfg.Pitch != 1.25 {
		t.Errorf("Pitch = %v, want 1.25", cfg.Pitch)
	}
	if len(cfg.Mock.Voices) != 3 || cfg.Mock.Voices[2] != "Three" {
		t.Errorf("Mock.Voices = %v", cfg.Mock.Voices)
	}
	if cfg.RetryDelay != time.Second {
		t.Errorf("RetryDelay = %v, want 1s", cfg.RetryDelay)
	}
}

// TestLoadConfigInvalid tests that invalid values are rejected.
func TestLoadConfigInvalid(t *testing.T) {
	resetViper(t, map[string]interface{}{
		"engine": "mock",
		"volume": 4.0,
	})

	if _, err := LoadConfigFromViper(); err == nil {
		t.Error("LoadConfigFromViper() should reject volume 4.0")
	}
}

// TestSetDefaults tests setting default values in Viper.
func TestSetDefaults(t *testing.T) {
	resetViper(t, nil)
	SetDefaults()

	if viper.GetString("engine") != EngineAuto {
		t.Errorf("engine = %v, want auto", viper.GetString("engine"))
	}
	if viper.GetInt("max_attempts") != DefaultMaxAttempts {
		t.Errorf("max_attempts = %v, want %d", viper.GetInt("max_attempts"), DefaultMaxAttempts)
	}
	if viper.GetString("say.binary") != "say" {
		t.Errorf("say.binary = %v, want say", viper.GetString("say.binary"))
	}
	if viper.IsSet("volume") {
		t.Error("volume should have no default")
	}
}
