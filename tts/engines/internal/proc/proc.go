// Package proc holds the plumbing shared by engines that drive a speech
// binary: voices are listed in the background after start and each
// utterance runs on its own goroutine, reporting back through the
// utterance callbacks.
package proc

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/basictts/internal/subprocess"
	"github.com/dgnsrekt/basictts/tts"
)

// defaultListTimeout bounds voice listing when none is configured.
const defaultListTimeout = 5 * time.Second

// ErrClosed is returned by Speak after Close.
var ErrClosed = errors.New("speech engine is closed")

// ListFunc lists the voices a binary offers.
type ListFunc func(ctx context.Context, runner *subprocess.Manager) ([]tts.Voice, error)

// Base runs a speech binary through a serialized subprocess manager.
type Base struct {
	name   string
	runner *subprocess.Manager

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.RWMutex
	voices  []tts.Voice
	listErr error
	loaded  chan struct{}
	closed  bool
}

// Start creates a Base and begins listing voices in the background. Until
// listing finishes Voices returns nil.
func Start(name string, list ListFunc, listTimeout time.Duration) *Base {
	if listTimeout <= 0 {
		listTimeout = defaultListTimeout
	}
	ctx, cancel := context.WithCancel(context.Background())
	b := &Base{
		name:   name,
		runner: subprocess.New(0),
		ctx:    ctx,
		cancel: cancel,
		loaded: make(chan struct{}),
	}

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		defer close(b.loaded)

		listCtx, cancelList := context.WithTimeout(ctx, listTimeout)
		defer cancelList()

		voices, err := list(listCtx, b.runner)

		b.mu.Lock()
		b.voices, b.listErr = voices, err
		b.mu.Unlock()

		if err != nil {
			log.Warn("Failed to list voices", "engine", name, "error", err)
			return
		}
		log.Debug("Voices loaded", "engine", name, "count", len(voices))
	}()

	return b
}

// Voices returns the listed voices, or nil while listing is in progress.
func (b *Base) Voices() []tts.Voice {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if len(b.voices) == 0 {
		return nil
	}
	return append([]tts.Voice(nil), b.voices...)
}

// Loaded is closed once voice listing has finished.
func (b *Base) Loaded() <-chan struct{} {
	return b.loaded
}

// ListErr returns the listing error, if any, once Loaded is closed.
func (b *Base) ListErr() error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.listErr
}

// Speak runs fn in the background and signals u with its result.
func (b *Base) Speak(u *tts.Utterance, fn func(ctx context.Context, runner *subprocess.Manager) error) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrClosed
	}
	b.wg.Add(1)
	b.mu.Unlock()

	go func() {
		defer b.wg.Done()
		if err := fn(b.ctx, b.runner); err != nil {
			log.Debug("Utterance failed", "engine", b.name, "error", err)
			u.Fail(err)
			return
		}
		u.End()
	}()
	return nil
}

// Close stops running subprocesses and waits for background work.
func (b *Base) Close() error {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()

	b.cancel()
	b.wg.Wait()
	return nil
}
