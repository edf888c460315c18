package tts

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// LoadConfigFromViper loads configuration from Viper, then applies
// BASICTTS_* environment overrides on top.
func LoadConfigFromViper() (Config, error) {
	cfg := DefaultConfig()

	if viper.IsSet("engine") {
		cfg.Engine = viper.GetString("engine")
	}
	if viper.IsSet("max_attempts") {
		cfg.MaxAttempts = viper.GetInt("max_attempts")
	}
	if viper.IsSet("retry_delay") {
		if d, err := time.ParseDuration(viper.GetString("retry_delay")); err == nil {
			cfg.RetryDelay = d
		}
	}

	// Request properties stay nil unless explicitly set
	if viper.IsSet("lang") {
		cfg.Lang = lo.ToPtr(viper.GetString("lang"))
	}
	if viper.IsSet("volume") {
		cfg.Volume = lo.ToPtr(viper.GetFloat64("volume"))
	}
	if viper.IsSet("pitch") {
		cfg.Pitch = lo.ToPtr(viper.GetFloat64("pitch"))
	}
	if viper.IsSet("rate") {
		cfg.Rate = lo.ToPtr(viper.GetFloat64("rate"))
	}
	if viper.IsSet("voice") {
		cfg.Voice = viper.GetString("voice")
	}

	cfg.Espeak = loadEspeakConfig()
	cfg.Say = loadSayConfig()
	cfg.Mock = loadMockConfig()

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("unable to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid TTS configuration: %w", err)
	}

	return cfg, nil
}

// loadEspeakConfig loads espeak-specific configuration from Viper.
func loadEspeakConfig() EspeakConfig {
	cfg := DefaultEspeakConfig()

	if viper.IsSet("espeak.binary") {
		cfg.Binary = viper.GetString("espeak.binary")
	}
	if viper.IsSet("espeak.playback") {
		cfg.Playback = viper.GetString("espeak.playback")
	}
	if viper.IsSet("espeak.list_timeout") {
		if d, err := time.ParseDuration(viper.GetString("espeak.list_timeout")); err == nil {
			cfg.ListTimeout = d
		}
	}

	return cfg
}

// loadSayConfig loads say-specific configuration from Viper.
func loadSayConfig() SayConfig {
	cfg := DefaultSayConfig()

	if viper.IsSet("say.binary") {
		cfg.Binary = viper.GetString("say.binary")
	}
	if viper.IsSet("say.list_timeout") {
		if d, err := time.ParseDuration(viper.GetString("say.list_timeout")); err == nil {
			cfg.ListTimeout = d
		}
	}

	return cfg
}

// loadMockConfig loads mock-specific configuration from Viper.
func loadMockConfig() MockConfig {
	cfg := DefaultMockConfig()

	if viper.IsSet("mock.voices") {
		cfg.Voices = viper.GetStringSlice("mock.voices")
	}
	if viper.IsSet("mock.empty_queries") {
		cfg.EmptyQueries = viper.GetInt("mock.empty_queries")
	}
	if viper.IsSet("mock.outcome") {
		cfg.Outcome = viper.GetString("mock.outcome")
	}

	return cfg
}

// SetDefaults sets default values in Viper. Request properties have no
// defaults so the host engine's own values apply.
func SetDefaults() {
	defaults := DefaultConfig()

	viper.SetDefault("engine", defaults.Engine)
	viper.SetDefault("max_attempts", defaults.MaxAttempts)
	viper.SetDefault("retry_delay", defaults.RetryDelay.String())

	viper.SetDefault("espeak.playback", defaults.Espeak.Playback)
	viper.SetDefault("espeak.list_timeout", defaults.Espeak.ListTimeout.String())

	viper.SetDefault("say.binary", defaults.Say.Binary)
	viper.SetDefault("say.list_timeout", defaults.Say.ListTimeout.String())

	viper.SetDefault("mock.voices", defaults.Mock.Voices)
	viper.SetDefault("mock.empty_queries", defaults.Mock.EmptyQueries)
	viper.SetDefault("mock.outcome", defaults.Mock.Outcome)
}
