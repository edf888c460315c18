// Package espeak drives espeak-ng (or classic espeak) as a host speech
// engine.
package espeak

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/basictts/internal/audio"
	"github.com/dgnsrekt/basictts/internal/paths"
	"github.com/dgnsrekt/basictts/internal/subprocess"
	"github.com/dgnsrekt/basictts/tts"
	"github.com/dgnsrekt/basictts/tts/engines/internal/proc"
)

// Binaries are tried in this order when no binary is configured.
var Binaries = []string{"espeak-ng", "espeak"}

// espeak's own defaults: amplitude 100, pitch 50, 175 words per minute.
const (
	amplitudeScale = 100
	pitchScale     = 50
	wordsPerMinute = 175
	uriPrefix      = "espeak:"
)

// Engine implements tts.Synthesizer and tts.VoiceLister.
type Engine struct {
	*proc.Base

	binary   string
	playback string
	player   *audio.Player
}

// New locates the binary and starts listing voices in the background.
func New(cfg tts.EspeakConfig) (*Engine, error) {
	candidates := Binaries
	if cfg.Binary != "" {
		candidates = []string{paths.Binary(cfg.Binary)}
	}
	binary, err := subprocess.LookPath(candidates...)
	if err != nil {
		return nil, fmt.Errorf("espeak: %w", err)
	}

	e := &Engine{
		binary:   binary,
		playback: cfg.Playback,
	}
	if e.playback == tts.PlaybackOto {
		e.player = audio.NewPlayer()
	}

	e.Base = proc.Start("espeak", func(ctx context.Context, runner *subprocess.Manager) ([]tts.Voice, error) {
		out, err := runner.Output(ctx, binary, "--voices")
		if err != nil {
			return nil, err
		}
		return ParseVoices(out), nil
	}, cfg.ListTimeout)

	log.Debug("espeak engine started", "binary", binary, "playback", e.playback)
	return e, nil
}

// Binary returns the resolved binary path.
func (e *Engine) Binary() string {
	return e.binary
}

// NewUtterance returns a request carrying espeak's defaults.
func (e *Engine) NewUtterance(text string) *tts.Utterance {
	return &tts.Utterance{
		Text:   text,
		Lang:   "en",
		Volume: 1,
		Pitch:  1,
		Rate:   1,
	}
}

// Speak queues u and returns immediately.
func (e *Engine) Speak(u *tts.Utterance) error {
	if e.player == nil {
		args := Args(u, false)
		return e.Base.Speak(u, func(ctx context.Context, runner *subprocess.Manager) error {
			_, err := runner.Run(ctx, u.Text, e.binary, args...)
			return err
		})
	}

	args := Args(u, true)
	return e.Base.Speak(u, func(ctx context.Context, runner *subprocess.Manager) error {
		wav, err := runner.Run(ctx, u.Text, e.binary, args...)
		if err != nil {
			return err
		}
		return e.player.PlayWAV(ctx, wav)
	})
}

// Host wraps the engine in a tts.Host.
func (e *Engine) Host() *tts.Host {
	return &tts.Host{
		Engine:       e,
		NewUtterance: e.NewUtterance,
	}
}

// Args builds the command line for u. Negative numeric fields leave
// espeak's own default in place. With toStdout espeak writes WAV data
// instead of playing it.
func Args(u *tts.Utterance, toStdout bool) []string {
	args := []string{"--stdin"}

	switch {
	case u.Voice != nil:
		args = append(args, "-v", voiceID(*u.Voice))
	case u.Lang != "":
		args = append(args, "-v", strings.ToLower(u.Lang))
	}

	if u.Volume >= 0 {
		args = append(args, "-a", strconv.Itoa(scale(u.Volume, amplitudeScale)))
	}
	if u.Pitch >= 0 {
		args = append(args, "-p", strconv.Itoa(scale(u.Pitch, pitchScale)))
	}
	if u.Rate > 0 {
		args = append(args, "-s", strconv.Itoa(scale(u.Rate, wordsPerMinute)))
	}
	if toStdout {
		args = append(args, "--stdout")
	}

	return args
}

// ParseVoices reads the table printed by `espeak --voices`:
//
//	Pty Language       Age/Gender VoiceName          File          Other Languages
//	 5  af              --/M      Afrikaans          gmw/af
func ParseVoices(out []byte) []tts.Voice {
	var voices []tts.Voice
	haveDefault := false

	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 5 || fields[0] == "Pty" {
			continue
		}
		if _, err := strconv.Atoi(fields[0]); err != nil {
			continue
		}

		lang := fields[1]
		v := tts.Voice{
			Name:         fields[3],
			Lang:         lang,
			URI:          uriPrefix + fields[4],
			LocalService: true,
		}
		if !haveDefault && (lang == "en" || strings.HasPrefix(lang, "en-")) {
			v.Default = true
			haveDefault = true
		}
		voices = append(voices, v)
	}

	return voices
}

// voiceID returns what -v expects: the voice file when the voice came
// from ParseVoices, otherwise its name.
func voiceID(v tts.Voice) string {
	if file, ok := strings.CutPrefix(v.URI, uriPrefix); ok && file != "" {
		return file
	}
	return v.Name
}

func scale(v float64, unit int) int {
	return int(v*float64(unit) + 0.5)
}
