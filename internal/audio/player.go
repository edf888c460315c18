package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ebitengine/oto/v3"
)

// oto allows a single context per process; its format is fixed by the
// first sound played.
var (
	contextOnce   sync.Once
	contextShared *oto.Context
	contextFormat Format
	contextErr    error
)

// ErrFormatMismatch is returned when a sound does not match the format the
// audio device was opened with.
var ErrFormatMismatch = errors.New("sound format differs from the open audio device")

// drainPoll is how often Play checks whether the device buffer has drained.
const drainPoll = 10 * time.Millisecond

// Player plays decoded sounds one at a time.
type Player struct {
	mu         sync.Mutex
	bufferSize time.Duration
}

// NewPlayer creates a player. The audio device is opened on first use.
func NewPlayer() *Player {
	return &Player{bufferSize: 100 * time.Millisecond}
}

// PlayWAV decodes a WAV stream and plays it.
func (p *Player) PlayWAV(ctx context.Context, wav []byte) error {
	sound, err := DecodeWAV(wav)
	if err != nil {
		return err
	}
	return p.Play(ctx, sound)
}

// Play blocks until the sound finishes or ctx is cancelled, in which case
// playback stops and ctx.Err() is returned.
func (p *Player) Play(ctx context.Context, s Sound) error {
	if len(s.PCM) == 0 {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	otoCtx, err := p.openContext(s.Format)
	if err != nil {
		return err
	}

	player := otoCtx.NewPlayer(bytes.NewReader(s.PCM))
	defer player.Close()

	log.Debug("Playing sound",
		"sample_rate", s.Format.SampleRate,
		"channels", s.Format.Channels,
		"duration", s.Duration())

	player.Play()

	ticker := time.NewTicker(drainPoll)
	defer ticker.Stop()

	for player.IsPlaying() {
		select {
		case <-ctx.Done():
			player.Pause()
			return ctx.Err()
		case <-ticker.C:
		}
	}

	if err := player.Err(); err != nil {
		return fmt.Errorf("audio playback failed: %w", err)
	}
	return nil
}

func (p *Player) openContext(f Format) (*oto.Context, error) {
	contextOnce.Do(func() {
		c, ready, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   f.SampleRate,
			ChannelCount: f.Channels,
			Format:       oto.FormatSignedInt16LE,
			BufferSize:   p.bufferSize,
		})
		if err != nil {
			contextErr = fmt.Errorf("failed to open audio device: %w", err)
			return
		}
		<-ready
		contextShared = c
		contextFormat = f
	})

	if contextErr != nil {
		return nil, contextErr
	}
	if contextFormat != f {
		return nil, fmt.Errorf("%w: device %dHz/%dch, sound %dHz/%dch", ErrFormatMismatch,
			contextFormat.SampleRate, contextFormat.Channels, f.SampleRate, f.Channels)
	}
	return contextShared, nil
}
