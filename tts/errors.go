package tts

import (
	"errors"
	"fmt"
)

// Errors reported by the speech layer. Every failure is local to one call
// and leaves the Speaker usable for the next one.
var (
	// ErrUnsupported means a required host primitive is missing.
	ErrUnsupported = errors.New("text-to-speech is not supported")

	// ErrNoVoicesAvailable means every voice query came back empty.
	ErrNoVoicesAvailable = errors.New("no voices available for use")

	// ErrInvalidVoice means the requested voice name is not in the voice list.
	ErrInvalidVoice = errors.New("speech could not be initialized due to invalid voice")

	// ErrSpeechFailed means the host engine signaled an error while speaking.
	ErrSpeechFailed = errors.New("unable to speak the provided text")
)

// Primitive names a host capability the Capability Gate requires.
type Primitive string

const (
	PrimitiveHost      Primitive = "host"
	PrimitiveEngine    Primitive = "engine"
	PrimitiveVoiceList Primitive = "voices"
	PrimitiveUtterance Primitive = "utterance"
)

// Reason returns the diagnostic for a missing primitive.
func (p Primitive) Reason() string {
	switch p {
	case PrimitiveHost:
		return "host context is undefined"
	case PrimitiveEngine:
		return "speech engine is undefined"
	case PrimitiveVoiceList:
		return "speech engine voice enumeration is undefined"
	case PrimitiveUtterance:
		return "utterance constructor is undefined"
	default:
		return "unknown primitive"
	}
}

// SupportError reports which host primitive is missing.
type SupportError struct {
	Missing Primitive
}

// Error implements the error interface.
func (e *SupportError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUnsupported, e.Missing.Reason())
}

// Unwrap returns ErrUnsupported so errors.Is matches it.
func (e *SupportError) Unwrap() error {
	return ErrUnsupported
}

// Error carries a failure kind together with its cause and call context.
type Error struct {
	Kind    error                  // One of the package sentinels
	Op      string                 // Operation being performed
	Cause   error                  // Underlying error, if any
	Context map[string]interface{} // Additional context
}

// NewError creates an Error of the given kind.
func NewError(kind error, op string, cause error) *Error {
	return &Error{
		Kind:    kind,
		Op:      op,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	kind := "unknown TTS error"
	if e.Kind != nil {
		kind = e.Kind.Error()
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", kind, e.Cause)
	}
	return kind
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

// WithContext adds context to the error.
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// IsRetryable reports whether repeating the call may succeed.
// Missing primitives and unknown voices will not fix themselves.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	switch {
	case errors.Is(err, ErrUnsupported), errors.Is(err, ErrInvalidVoice):
		return false
	case errors.Is(err, ErrNoVoicesAvailable), errors.Is(err, ErrSpeechFailed):
		return true
	}
	return false
}
