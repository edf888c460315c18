package tts

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// Engine names accepted in configuration.
const (
	EngineAuto   = "auto"
	EngineEspeak = "espeak"
	EngineSay    = "say"
	EngineMock   = "mock"
)

// Playback modes for the espeak engine.
const (
	PlaybackDevice = "device" // espeak plays through its own audio output
	PlaybackOto    = "oto"    // espeak renders WAV, we play it through oto
)

// Mock engine outcomes.
const (
	OutcomeEnd    = "end"
	OutcomeError  = "error"
	OutcomeSilent = "silent"
)

// Config contains all speech configuration options. Pointer fields are
// optional overrides; nil keeps the host engine's default.
type Config struct {
	Engine      string        `yaml:"engine" env:"BASICTTS_ENGINE"`
	MaxAttempts int           `yaml:"max_attempts" env:"BASICTTS_MAX_ATTEMPTS"`
	RetryDelay  time.Duration `yaml:"retry_delay" env:"BASICTTS_RETRY_DELAY"`

	// Request properties
	Lang   *string  `yaml:"lang" env:"BASICTTS_LANG"`
	Volume *float64 `yaml:"volume" env:"BASICTTS_VOLUME"`
	Pitch  *float64 `yaml:"pitch" env:"BASICTTS_PITCH"`
	Rate   *float64 `yaml:"rate" env:"BASICTTS_RATE"`
	Voice  string   `yaml:"voice" env:"BASICTTS_VOICE"`

	// Engine-specific configurations
	Espeak EspeakConfig `yaml:"espeak"`
	Say    SayConfig    `yaml:"say"`
	Mock   MockConfig   `yaml:"mock"`
}

// EspeakConfig contains espeak-ng engine settings.
type EspeakConfig struct {
	Binary      string        `yaml:"binary" env:"BASICTTS_ESPEAK_BINARY"`
	Playback    string        `yaml:"playback" env:"BASICTTS_ESPEAK_PLAYBACK"`
	ListTimeout time.Duration `yaml:"list_timeout" env:"BASICTTS_ESPEAK_LIST_TIMEOUT"`
}

// SayConfig contains macOS say engine settings.
type SayConfig struct {
	Binary      string        `yaml:"binary" env:"BASICTTS_SAY_BINARY"`
	ListTimeout time.Duration `yaml:"list_timeout" env:"BASICTTS_SAY_LIST_TIMEOUT"`
}

// MockConfig contains mock engine settings for testing.
type MockConfig struct {
	Voices       []string `yaml:"voices" env:"BASICTTS_MOCK_VOICES" envSeparator:","`
	EmptyQueries int      `yaml:"empty_queries" env:"BASICTTS_MOCK_EMPTY_QUERIES"`
	Outcome      string   `yaml:"outcome" env:"BASICTTS_MOCK_OUTCOME"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Engine:      EngineAuto,
		MaxAttempts: DefaultMaxAttempts,
		RetryDelay:  DefaultRetryDelay,

		Espeak: DefaultEspeakConfig(),
		Say:    DefaultSayConfig(),
		Mock:   DefaultMockConfig(),
	}
}

// DefaultEspeakConfig returns default espeak configuration. An empty
// binary means espeak-ng, then espeak, from PATH.
func DefaultEspeakConfig() EspeakConfig {
	return EspeakConfig{
		Playback:    PlaybackDevice,
		ListTimeout: 5 * time.Second,
	}
}

// DefaultSayConfig returns default say configuration.
func DefaultSayConfig() SayConfig {
	return SayConfig{
		Binary:      "say",
		ListTimeout: 5 * time.Second,
	}
}

// DefaultMockConfig returns default mock configuration.
func DefaultMockConfig() MockConfig {
	return MockConfig{
		Voices:  []string{"Mock Voice 1", "Mock Voice 2", "Mock Voice 3"},
		Outcome: OutcomeEnd,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	validEngines := []string{EngineAuto, EngineEspeak, EngineSay, EngineMock}
	engineValid := false
	for _, e := range validEngines {
		if strings.EqualFold(c.Engine, e) {
			engineValid = true
			c.Engine = e
			break
		}
	}
	if !engineValid {
		return fmt.Errorf("invalid TTS engine '%s': must be one of %v", c.Engine, validEngines)
	}

	if c.RetryDelay < 0 {
		return fmt.Errorf("retry_delay cannot be negative, got %v", c.RetryDelay)
	}

	if c.Lang != nil {
		if _, err := language.Parse(*c.Lang); err != nil {
			return fmt.Errorf("invalid lang %q: %w", *c.Lang, err)
		}
	}

	if c.Volume != nil && (*c.Volume < 0.0 || *c.Volume > 1.0) {
		return fmt.Errorf("volume must be between 0.0 and 1.0, got %f", *c.Volume)
	}

	if c.Pitch != nil && (*c.Pitch < 0.0 || *c.Pitch > 2.0) {
		return fmt.Errorf("pitch must be between 0.0 and 2.0, got %f", *c.Pitch)
	}

	if c.Rate != nil && (*c.Rate < 0.1 || *c.Rate > 10.0) {
		return fmt.Errorf("rate must be between 0.1 and 10.0, got %f", *c.Rate)
	}

	switch c.Engine {
	case EngineEspeak:
		if err := c.Espeak.Validate(); err != nil {
			return fmt.Errorf("espeak config: %w", err)
		}
	case EngineSay:
		if err := c.Say.Validate(); err != nil {
			return fmt.Errorf("say config: %w", err)
		}
	case EngineMock:
		if err := c.Mock.Validate(); err != nil {
			return fmt.Errorf("mock config: %w", err)
		}
	}

	return nil
}

// Validate checks if the espeak configuration is valid.
func (c *EspeakConfig) Validate() error {
	switch strings.ToLower(c.Playback) {
	case PlaybackDevice, PlaybackOto:
		c.Playback = strings.ToLower(c.Playback)
	default:
		return fmt.Errorf("playback must be %q or %q, got %q", PlaybackDevice, PlaybackOto, c.Playback)
	}

	if c.ListTimeout < 100*time.Millisecond {
		return fmt.Errorf("list_timeout must be at least 100ms, got %v", c.ListTimeout)
	}

	return nil
}

// Validate checks if the say configuration is valid.
func (c *SayConfig) Validate() error {
	if c.Binary == "" {
		return fmt.Errorf("say binary path cannot be empty")
	}

	if c.ListTimeout < 100*time.Millisecond {
		return fmt.Errorf("list_timeout must be at least 100ms, got %v", c.ListTimeout)
	}

	return nil
}

// Validate checks if the mock configuration is valid.
func (c *MockConfig) Validate() error {
	if c.EmptyQueries < 0 {
		return fmt.Errorf("empty_queries cannot be negative, got %d", c.EmptyQueries)
	}

	switch c.Outcome {
	case OutcomeEnd, OutcomeError, OutcomeSilent:
	default:
		return fmt.Errorf("outcome must be one of %q, %q, %q, got %q",
			OutcomeEnd, OutcomeError, OutcomeSilent, c.Outcome)
	}

	return nil
}

// ToProperties converts the request fields to speaker Properties.
func (c *Config) ToProperties() Properties {
	return Properties{
		Lang:   c.Lang,
		Volume: c.Volume,
		Pitch:  c.Pitch,
		Rate:   c.Rate,
		Voice:  c.Voice,
	}.snapshot()
}

// SpeakerOptions converts retry settings to Speaker options.
func (c *Config) SpeakerOptions() []Option {
	return []Option{
		WithMaxAttempts(c.MaxAttempts),
		WithRetryDelay(c.RetryDelay),
	}
}
