package tts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

const (
	// DefaultMaxAttempts is both the default and the upper bound for voice
	// list retries.
	DefaultMaxAttempts = 10

	// DefaultRetryDelay is the fixed wait before every voice query.
	DefaultRetryDelay = 100 * time.Millisecond
)

// Option configures a Gate or a Speaker.
type Option func(*options)

type options struct {
	retryDelay  time.Duration
	maxAttempts int
	logger      *log.Logger
}

// WithRetryDelay overrides the fixed wait before each voice query.
func WithRetryDelay(d time.Duration) Option {
	return func(o *options) {
		if d >= 0 {
			o.retryDelay = d
		}
	}
}

// WithMaxAttempts sets the retry budget Speak uses when none is given.
func WithMaxAttempts(n int) Option {
	return func(o *options) {
		o.maxAttempts = ClampAttempts(n)
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func newOptions(opts []Option) options {
	o := options{
		retryDelay:  DefaultRetryDelay,
		maxAttempts: DefaultMaxAttempts,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.logger == nil {
		o.logger = log.Default()
	}
	return o
}

// ClampAttempts bounds a retry count to [0, DefaultMaxAttempts].
func ClampAttempts(n int) int {
	if n < 0 {
		return 0
	}
	if n > DefaultMaxAttempts {
		return DefaultMaxAttempts
	}
	return n
}

// Gate decides whether the host can speak and waits for its voice data.
type Gate struct {
	host   *Host
	delay  time.Duration
	logger *log.Logger

	// wait suspends between voice queries; replaced in tests.
	wait func(ctx context.Context, d time.Duration) error
}

// NewGate creates a Capability Gate for host.
func NewGate(host *Host, opts ...Option) *Gate {
	o := newOptions(opts)
	return &Gate{
		host:   host,
		delay:  o.retryDelay,
		logger: o.logger,
		wait:   sleepContext,
	}
}

// CheckSupport returns a *SupportError naming the first missing primitive,
// checked in order: host, engine, voice enumeration, utterance constructor.
func (g *Gate) CheckSupport() error {
	switch {
	case g.host == nil:
		return &SupportError{Missing: PrimitiveHost}
	case g.host.Engine == nil:
		return &SupportError{Missing: PrimitiveEngine}
	}
	if _, ok := g.host.Engine.(VoiceLister); !ok {
		return &SupportError{Missing: PrimitiveVoiceList}
	}
	if g.host.NewUtterance == nil {
		return &SupportError{Missing: PrimitiveUtterance}
	}
	return nil
}

// Primitives lists the host primitives in the order they are checked.
func Primitives() []Primitive {
	return []Primitive{PrimitiveHost, PrimitiveEngine, PrimitiveVoiceList, PrimitiveUtterance}
}

// Missing returns every absent primitive, each checked on its own. A nil
// host is missing all of them.
func (g *Gate) Missing() []Primitive {
	if g.host == nil {
		return Primitives()
	}

	var missing []Primitive
	if g.host.Engine == nil {
		missing = append(missing, PrimitiveEngine, PrimitiveVoiceList)
	} else if _, ok := g.host.Engine.(VoiceLister); !ok {
		missing = append(missing, PrimitiveVoiceList)
	}
	if g.host.NewUtterance == nil {
		missing = append(missing, PrimitiveUtterance)
	}
	return missing
}

// IsSupported reports whether every required primitive is present. A
// missing primitive is logged as a warning naming it.
func (g *Gate) IsSupported() bool {
	err := g.CheckSupport()
	if err == nil {
		return true
	}
	g.warnUnsupported(err)
	return false
}

func (g *Gate) warnUnsupported(err error) {
	var se *SupportError
	if errors.As(err, &se) {
		g.logger.Warn("text-to-speech unsupported",
			"missing", string(se.Missing),
			"reason", se.Missing.Reason())
	}
}

// CheckVoices waits for the host to report a non-empty voice list. It makes
// at most ClampAttempts(maxAttempts)+1 queries, each preceded by the fixed
// retry delay, and fails with ErrNoVoicesAvailable when all come back empty.
func (g *Gate) CheckVoices(ctx context.Context, maxAttempts int) ([]Voice, error) {
	if err := g.CheckSupport(); err != nil {
		g.warnUnsupported(err)
		return nil, err
	}

	lister := g.host.Engine.(VoiceLister)
	attempts := ClampAttempts(maxAttempts)

	for remaining := attempts; ; remaining-- {
		if err := g.wait(ctx, g.delay); err != nil {
			return nil, fmt.Errorf("waiting for voices: %w", err)
		}

		voices := lister.Voices()
		if len(voices) > 0 {
			g.logger.Debug("Voices available",
				"count", len(voices),
				"query", attempts-remaining+1)
			return voices, nil
		}

		if remaining == 0 {
			break
		}
		g.logger.Debug("Voice list empty, retrying", "remaining", remaining)
	}

	return nil, NewError(ErrNoVoicesAvailable, "check voices", nil).
		WithContext("queries", attempts+1)
}

// IsSupported reports whether host exposes every required primitive.
func IsSupported(host *Host) bool {
	return NewGate(host).IsSupported()
}

// CheckVoices waits for host voice data with the default retry delay.
func CheckVoices(ctx context.Context, host *Host, maxAttempts int) ([]Voice, error) {
	return NewGate(host).CheckVoices(ctx, maxAttempts)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
