package tts

// Synthesizer is the host speech engine. Speak submits an utterance and
// returns once it is queued; the outcome arrives later through the
// utterance's OnEnd or OnError callback. A non-nil return means the engine
// refused the utterance outright and no callback will follow.
type Synthesizer interface {
	Speak(u *Utterance) error
}

// VoiceLister is implemented by engines that can enumerate their voices.
// The list may be empty until the engine finishes loading voice data.
type VoiceLister interface {
	Voices() []Voice
}

// Host is the platform context a Speaker runs against. It is passed in
// explicitly so tests can construct a substitute per case.
type Host struct {
	// Engine speaks utterances. Nil means the host has no speech engine.
	Engine Synthesizer

	// NewUtterance returns a request carrying the host's own defaults for
	// lang, volume, pitch and rate. Nil means the host cannot build one.
	NewUtterance func(text string) *Utterance
}

// Voices returns the engine's current voice list, or nil when the host
// cannot enumerate voices.
func (h *Host) Voices() []Voice {
	if h == nil || h.Engine == nil {
		return nil
	}
	lister, ok := h.Engine.(VoiceLister)
	if !ok {
		return nil
	}
	return lister.Voices()
}

// Voice describes one voice offered by the host engine.
type Voice struct {
	Name         string // Name matched against Properties.Voice
	Lang         string // BCP-47 language tag (e.g., "en-US")
	URI          string // Engine-specific identifier
	LocalService bool   // Synthesized on this machine
	Default      bool   // Engine default voice
}

// Utterance is a single speech request.
type Utterance struct {
	Text   string
	Lang   string
	Volume float64
	Pitch  float64
	Rate   float64
	Voice  *Voice

	// OnEnd and OnError are the terminal signals. Engines call exactly one
	// of them, on any goroutine, through End and Fail.
	OnEnd   func()
	OnError func(err error)
}

// End delivers the end-of-speech signal.
func (u *Utterance) End() {
	if u.OnEnd != nil {
		u.OnEnd()
	}
}

// Fail delivers the engine error signal.
func (u *Utterance) Fail(err error) {
	if u.OnError != nil {
		u.OnError(err)
	}
}
