package tts

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// fakeEngine is a scripted host engine. It returns an empty voice list for
// the first emptyFor queries and then voices.
type fakeEngine struct {
	mu        sync.Mutex
	emptyFor  int
	voices    []Voice
	queries   int
	speakFn   func(u *Utterance) error
	submitted []*Utterance
}

func (f *fakeEngine) Voices() []Voice {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries++
	if f.queries <= f.emptyFor {
		return nil
	}
	return f.voices
}

func (f *fakeEngine) Speak(u *Utterance) error {
	f.mu.Lock()
	f.submitted = append(f.submitted, u)
	fn := f.speakFn
	f.mu.Unlock()

	if fn != nil {
		return fn(u)
	}
	u.End()
	return nil
}

func (f *fakeEngine) queryCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queries
}

func (f *fakeEngine) submitCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.submitted)
}

// speakOnlyEngine cannot enumerate voices.
type speakOnlyEngine struct{}

func (speakOnlyEngine) Speak(*Utterance) error { return nil }

// Template defaults mirror a host that leaves numeric fields unset.
const templateDefault = -1

func templateUtterance(text string) *Utterance {
	return &Utterance{
		Text:   text,
		Lang:   "en-US",
		Volume: templateDefault,
		Pitch:  templateDefault,
		Rate:   templateDefault,
	}
}

func newFakeHost(engine Synthesizer) *Host {
	return &Host{
		Engine:       engine,
		NewUtterance: templateUtterance,
	}
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

// countWaits replaces the gate's delay with a counter so tests do not sleep.
func countWaits(g *Gate) *int {
	n := new(int)
	g.wait = func(ctx context.Context, _ time.Duration) error {
		*n++
		return ctx.Err()
	}
	return n
}

func newTestSpeaker(engine *fakeEngine, props Properties) (*Speaker, *int, error) {
	s, err := NewSpeaker(newFakeHost(engine), props, WithLogger(quietLogger()))
	if err != nil {
		return nil, nil, err
	}
	return s, countWaits(s.gate), nil
}

func voicesNamed(names ...string) []Voice {
	voices := make([]Voice, 0, len(names))
	for _, name := range names {
		voices = append(voices, Voice{Name: name, Lang: "en-US", LocalService: true})
	}
	return voices
}
