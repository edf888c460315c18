// Package say drives the macOS say command as a host speech engine.
package say

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/basictts/internal/paths"
	"github.com/dgnsrekt/basictts/internal/subprocess"
	"github.com/dgnsrekt/basictts/tts"
	"github.com/dgnsrekt/basictts/tts/engines/internal/proc"
)

// say speaks at roughly 175 words per minute by default.
const (
	wordsPerMinute = 175
	uriPrefix      = "say:"
)

// voiceLine matches `say -v ?` rows such as
// "Eddy (English (US))  en_US    # Hello! My name is Eddy."
var voiceLine = regexp.MustCompile(`^(.+?)\s+([a-z]{2,3}(?:[_-][A-Za-z0-9]+)*)\s+#`)

// Engine implements tts.Synthesizer and tts.VoiceLister.
type Engine struct {
	*proc.Base

	binary string
}

// New locates the binary and starts listing voices in the background.
func New(cfg tts.SayConfig) (*Engine, error) {
	binary, err := subprocess.LookPath(paths.Binary(cfg.Binary))
	if err != nil {
		return nil, fmt.Errorf("say: %w", err)
	}

	e := &Engine{binary: binary}
	e.Base = proc.Start("say", func(ctx context.Context, runner *subprocess.Manager) ([]tts.Voice, error) {
		out, err := runner.Output(ctx, binary, "-v", "?")
		if err != nil {
			return nil, err
		}
		return ParseVoices(out), nil
	}, cfg.ListTimeout)

	log.Debug("say engine started", "binary", binary)
	return e, nil
}

// NewUtterance returns a request that leaves the system voice, volume and
// rate alone.
func (e *Engine) NewUtterance(text string) *tts.Utterance {
	return &tts.Utterance{
		Text:   text,
		Volume: -1,
		Pitch:  -1,
		Rate:   -1,
	}
}

// Speak queues u and returns immediately. Pitch is not supported by say
// and is ignored.
func (e *Engine) Speak(u *tts.Utterance) error {
	args := Args(u, e.Voices())
	input := Input(u)
	return e.Base.Speak(u, func(ctx context.Context, runner *subprocess.Manager) error {
		_, err := runner.Run(ctx, input, e.binary, args...)
		return err
	})
}

// Host wraps the engine in a tts.Host.
func (e *Engine) Host() *tts.Host {
	return &tts.Host{
		Engine:       e,
		NewUtterance: e.NewUtterance,
	}
}

// Args builds the command line for u. Without a bound voice the first
// voice matching u.Lang is used, if any.
func Args(u *tts.Utterance, voices []tts.Voice) []string {
	var args []string

	name := ""
	if u.Voice != nil {
		name = u.Voice.Name
	} else if u.Lang != "" {
		name = voiceForLang(voices, u.Lang)
	}
	if name != "" {
		args = append(args, "-v", name)
	}

	if u.Rate > 0 {
		args = append(args, "-r", strconv.Itoa(int(u.Rate*wordsPerMinute+0.5)))
	}

	return append(args, "-f", "-")
}

// Input returns the text fed to say, prefixed with an embedded volume
// command when the volume is set.
func Input(u *tts.Utterance) string {
	if u.Volume < 0 {
		return u.Text
	}
	return fmt.Sprintf("[[volm %s]] %s", strconv.FormatFloat(u.Volume, 'f', -1, 64), u.Text)
}

// ParseVoices reads the listing printed by `say -v ?`.
func ParseVoices(out []byte) []tts.Voice {
	var voices []tts.Voice

	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		m := voiceLine.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[1])
		voices = append(voices, tts.Voice{
			Name:         name,
			Lang:         strings.ReplaceAll(m[2], "_", "-"),
			URI:          uriPrefix + name,
			LocalService: true,
		})
	}

	return voices
}

func voiceForLang(voices []tts.Voice, lang string) string {
	for _, v := range voices {
		if strings.EqualFold(v.Lang, lang) {
			return v.Name
		}
	}
	prefix := strings.ToLower(lang) + "-"
	for _, v := range voices {
		if strings.HasPrefix(strings.ToLower(v.Lang), prefix) {
			return v.Name
		}
	}
	return ""
}
