package tts

import "sync"

// SpeakState is the position of a single Speak call in its lifecycle.
type SpeakState int

const (
	// StateIdle indicates no call has started.
	StateIdle SpeakState = iota
	// StateAwaitingVoices indicates the call is waiting for voice data.
	StateAwaitingVoices
	// StateVoicesUnavailable indicates voice data never arrived or the host is unsupported.
	StateVoicesUnavailable
	// StateBuildingRequest indicates the utterance is being constructed.
	StateBuildingRequest
	// StateInvalidVoice indicates the requested voice could not be bound.
	StateInvalidVoice
	// StateSubmitted indicates the utterance was handed to the engine.
	StateSubmitted
	// StateEnded indicates the engine finished speaking.
	StateEnded
	// StateErrored indicates the engine reported an error.
	StateErrored
	// StateAbandoned indicates the caller stopped waiting for the engine.
	StateAbandoned
)

// String returns the string representation of the state.
func (s SpeakState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingVoices:
		return "awaiting-voices"
	case StateVoicesUnavailable:
		return "voices-unavailable"
	case StateBuildingRequest:
		return "building-request"
	case StateInvalidVoice:
		return "invalid-voice"
	case StateSubmitted:
		return "submitted"
	case StateEnded:
		return "ended"
	case StateErrored:
		return "errored"
	case StateAbandoned:
		return "abandoned"
	default:
		return "unknown"
	}
}

// IsTerminal returns true if the call has settled.
func (s SpeakState) IsTerminal() bool {
	switch s {
	case StateVoicesUnavailable, StateInvalidVoice, StateEnded, StateErrored, StateAbandoned:
		return true
	}
	return false
}

// StateMachine tracks one Speak call at a time.
type StateMachine struct {
	mu          sync.RWMutex
	current     SpeakState
	transitions map[SpeakState][]SpeakState
	onEnter     map[SpeakState]func()
}

// NewStateMachine creates a state machine in StateIdle.
func NewStateMachine() *StateMachine {
	restart := []SpeakState{StateAwaitingVoices}
	return &StateMachine{
		current: StateIdle,
		transitions: map[SpeakState][]SpeakState{
			StateIdle:              restart,
			StateAwaitingVoices:    {StateVoicesUnavailable, StateBuildingRequest},
			StateBuildingRequest:   {StateInvalidVoice, StateSubmitted},
			StateSubmitted:         {StateEnded, StateErrored, StateAbandoned},
			StateVoicesUnavailable: restart,
			StateInvalidVoice:      restart,
			StateEnded:             restart,
			StateErrored:           restart,
			StateAbandoned:         restart,
		},
		onEnter: make(map[SpeakState]func()),
	}
}

// Transition moves to the given state if the table allows it.
func (sm *StateMachine) Transition(to SpeakState) bool {
	sm.mu.Lock()
	valid := false
	for _, state := range sm.transitions[sm.current] {
		if state == to {
			valid = true
			break
		}
	}
	if !valid {
		sm.mu.Unlock()
		return false
	}
	sm.current = to
	enterFn := sm.onEnter[to]
	sm.mu.Unlock()

	if enterFn != nil {
		enterFn()
	}
	return true
}

// Current returns the current state.
func (sm *StateMachine) Current() SpeakState {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.current
}

// OnEnter registers a callback for entering a state.
func (sm *StateMachine) OnEnter(state SpeakState, fn func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.onEnter[state] = fn
}
