// Package mock provides a mock host speech engine for testing.
package mock

import (
	"errors"
	"sync"
	"time"

	"github.com/dgnsrekt/basictts/tts"
)

// Outcome controls how the mock engine settles a submitted utterance.
type Outcome string

const (
	// OutcomeEnd signals the end of speech.
	OutcomeEnd Outcome = tts.OutcomeEnd
	// OutcomeError signals an error.
	OutcomeError Outcome = tts.OutcomeError
	// OutcomeSilent never signals, like an engine that drops the request.
	OutcomeSilent Outcome = tts.OutcomeSilent
)

// ErrMockFailure is signaled by OutcomeError when no failure error is set.
var ErrMockFailure = errors.New("mock engine failure")

// Engine implements tts.Synthesizer and tts.VoiceLister in memory.
type Engine struct {
	mu sync.Mutex

	// Configuration
	voices       []tts.Voice
	emptyQueries int
	outcome      Outcome
	failureError error
	submitError  error
	delay        time.Duration // Simulated speaking time before the signal
	template     tts.Utterance

	// State
	queries int
	spoken  []tts.Utterance
	wg      sync.WaitGroup
}

// Option configures an Engine.
type Option func(*Engine)

// WithVoices sets the voice list.
func WithVoices(voices ...tts.Voice) Option {
	return func(e *Engine) {
		e.voices = append([]tts.Voice(nil), voices...)
	}
}

// WithVoiceNames sets the voice list from names, all en-US.
func WithVoiceNames(names ...string) Option {
	return func(e *Engine) {
		e.voices = VoicesFromNames(names)
	}
}

// WithEmptyQueries makes the first k voice queries return an empty list.
func WithEmptyQueries(k int) Option {
	return func(e *Engine) {
		e.emptyQueries = k
	}
}

// WithOutcome sets how utterances are settled.
func WithOutcome(o Outcome) Option {
	return func(e *Engine) {
		e.outcome = o
	}
}

// WithFailure makes every utterance signal err.
func WithFailure(err error) Option {
	return func(e *Engine) {
		e.outcome = OutcomeError
		e.failureError = err
	}
}

// WithSubmitError makes Speak refuse utterances outright.
func WithSubmitError(err error) Option {
	return func(e *Engine) {
		e.submitError = err
	}
}

// WithDelay settles utterances asynchronously after d.
func WithDelay(d time.Duration) Option {
	return func(e *Engine) {
		e.delay = d
	}
}

// New creates a new mock engine with three voices that always ends speech.
func New(opts ...Option) *Engine {
	e := &Engine{
		voices:  VoicesFromNames(tts.DefaultMockConfig().Voices),
		outcome: OutcomeEnd,
		template: tts.Utterance{
			Lang:   "en-US",
			Volume: -1,
			Pitch:  -1,
			Rate:   -1,
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// FromConfig creates a mock engine from configuration.
func FromConfig(cfg tts.MockConfig) *Engine {
	return New(
		WithVoiceNames(cfg.Voices...),
		WithEmptyQueries(cfg.EmptyQueries),
		WithOutcome(Outcome(cfg.Outcome)),
	)
}

// VoicesFromNames builds en-US local voices from names. The first is the default.
func VoicesFromNames(names []string) []tts.Voice {
	voices := make([]tts.Voice, 0, len(names))
	for i, name := range names {
		voices = append(voices, tts.Voice{
			Name:         name,
			Lang:         "en-US",
			URI:          "mock://" + name,
			LocalService: true,
			Default:      i == 0,
		})
	}
	return voices
}

// Voices returns the voice list, or nil for the first emptyQueries calls.
func (e *Engine) Voices() []tts.Voice {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.queries++
	if e.queries <= e.emptyQueries || len(e.voices) == 0 {
		return nil
	}
	return append([]tts.Voice(nil), e.voices...)
}

// Speak records u and settles it according to the configured outcome.
func (e *Engine) Speak(u *tts.Utterance) error {
	e.mu.Lock()
	if e.submitError != nil {
		err := e.submitError
		e.mu.Unlock()
		return err
	}
	e.spoken = append(e.spoken, *u)
	outcome, failure, delay := e.outcome, e.failureError, e.delay
	e.mu.Unlock()

	settle := func() {
		switch outcome {
		case OutcomeError:
			if failure == nil {
				failure = ErrMockFailure
			}
			u.Fail(failure)
		case OutcomeSilent:
		default:
			u.End()
		}
	}

	if delay <= 0 {
		settle()
		return nil
	}

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		time.Sleep(delay)
		settle()
	}()
	return nil
}

// NewUtterance returns a request carrying the mock's template defaults.
func (e *Engine) NewUtterance(text string) *tts.Utterance {
	u := e.template
	u.Text = text
	return &u
}

// Host wraps the engine in a tts.Host.
func (e *Engine) Host() *tts.Host {
	return &tts.Host{
		Engine:       e,
		NewUtterance: e.NewUtterance,
	}
}

// Close waits for pending delayed signals.
func (e *Engine) Close() error {
	e.wg.Wait()
	return nil
}

// Test control methods

// QueryCount returns the number of Voices calls.
func (e *Engine) QueryCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.queries
}

// Spoken returns copies of every submitted utterance.
func (e *Engine) Spoken() []tts.Utterance {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]tts.Utterance(nil), e.spoken...)
}

// SetOutcome changes the outcome for later utterances.
func (e *Engine) SetOutcome(o Outcome) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.outcome = o
}

// ClearFailure resets the engine to normal operation.
func (e *Engine) ClearFailure() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.outcome = OutcomeEnd
	e.failureError = nil
	e.submitError = nil
}
