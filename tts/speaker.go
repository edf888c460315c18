package tts

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
)

// suggestionLimit caps the voice names attached to an ErrInvalidVoice.
const suggestionLimit = 3

// Speaker speaks text on a host with a fixed set of properties. One Speak
// call may be in flight at a time.
type Speaker struct {
	host        *Host
	props       Properties
	gate        *Gate
	state       *StateMachine
	maxAttempts int
	logger      *log.Logger
}

// NewSpeaker binds a snapshot of props to host. It fails immediately with
// a *SupportError when the host is missing a required primitive.
func NewSpeaker(host *Host, props Properties, opts ...Option) (*Speaker, error) {
	o := newOptions(opts)
	gate := NewGate(host, opts...)
	if err := gate.CheckSupport(); err != nil {
		gate.warnUnsupported(err)
		return nil, err
	}

	return &Speaker{
		host:        host,
		props:       props.snapshot(),
		gate:        gate,
		state:       NewStateMachine(),
		maxAttempts: o.maxAttempts,
		logger:      o.logger,
	}, nil
}

// Properties returns a copy of the speaker's properties.
func (s *Speaker) Properties() Properties {
	return s.props.snapshot()
}

// Gate returns the Capability Gate the speaker waits on.
func (s *Speaker) Gate() *Gate {
	return s.gate
}

// State returns the lifecycle state of the latest Speak call.
func (s *Speaker) State() SpeakState {
	return s.state.Current()
}

// BuildRequest constructs an utterance from the host template and the
// speaker's properties. It returns nil when the requested voice is not in
// the host's current voice list.
func (s *Speaker) BuildRequest(text string) *Utterance {
	u := s.host.NewUtterance(text)
	if u == nil {
		s.logger.Debug("Host returned no utterance template, using zero defaults")
		u = &Utterance{Text: text}
	}

	s.props.apply(u)

	if s.props.Voice != "" {
		voice, ok := FindVoice(s.host.Voices(), s.props.Voice)
		if !ok {
			return nil
		}
		u.Voice = &voice
	}

	return u
}

// Speak speaks text using the speaker's retry budget for voice data.
func (s *Speaker) Speak(ctx context.Context, text string) error {
	return s.SpeakWithAttempts(ctx, text, s.maxAttempts)
}

// SpeakWithAttempts waits for voices (see Gate.CheckVoices), builds the
// request and submits it, then blocks until the engine signals the end of
// speech or an error. Voice check failures are returned unchanged.
//
// Cancelling ctx stops the wait but cannot stop an utterance the engine
// already accepted.
func (s *Speaker) SpeakWithAttempts(ctx context.Context, text string, attempts int) error {
	s.enter(StateAwaitingVoices)
	voices, err := s.gate.CheckVoices(ctx, attempts)
	if err != nil {
		s.enter(StateVoicesUnavailable)
		return err
	}

	s.enter(StateBuildingRequest)
	u := s.BuildRequest(text)
	if u == nil {
		s.enter(StateInvalidVoice)
		return NewError(ErrInvalidVoice, "speak", nil).
			WithContext("voice", s.props.Voice).
			WithContext("suggestions", SuggestVoices(s.props.Voice, voices, suggestionLimit))
	}

	done := make(chan error, 1)
	var once sync.Once
	settle := func(err error) {
		once.Do(func() { done <- err })
	}
	u.OnEnd = func() { settle(nil) }
	u.OnError = func(err error) {
		if err == nil {
			err = errors.New("engine reported an error")
		}
		settle(NewError(ErrSpeechFailed, "speak", err))
	}

	s.enter(StateSubmitted)
	s.logger.Debug("Submitting utterance",
		"chars", len(u.Text),
		"lang", u.Lang,
		"voice", voiceName(u.Voice))
	if err := s.host.Engine.Speak(u); err != nil {
		u.Fail(err)
	}

	select {
	case err := <-done:
		if err != nil {
			s.enter(StateErrored)
			return err
		}
		s.enter(StateEnded)
		return nil
	case <-ctx.Done():
		s.enter(StateAbandoned)
		return fmt.Errorf("waiting for speech to finish: %w", ctx.Err())
	}
}

func (s *Speaker) enter(to SpeakState) {
	from := s.state.Current()
	if !s.state.Transition(to) {
		s.logger.Debug("Ignoring invalid speak transition", "from", from, "to", to)
		return
	}
	s.logger.Debug("Speak state changed", "from", from, "to", to)
}

func voiceName(v *Voice) string {
	if v == nil {
		return ""
	}
	return v.Name
}
