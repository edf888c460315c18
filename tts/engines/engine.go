// Package engines builds host speech engines from configuration.
package engines

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/basictts/internal/platform"
	"github.com/dgnsrekt/basictts/tts"
	"github.com/dgnsrekt/basictts/tts/engines/espeak"
	"github.com/dgnsrekt/basictts/tts/engines/mock"
	"github.com/dgnsrekt/basictts/tts/engines/say"
)

// Names lists the engine names accepted in configuration.
func Names() []string {
	return []string{tts.EngineAuto, tts.EngineEspeak, tts.EngineSay, tts.EngineMock}
}

// Resolve maps a configured engine name to a concrete one. "auto" becomes
// the engine recommended for info, or the empty string when none fits.
func Resolve(name string, info platform.Info) string {
	name = strings.ToLower(name)
	if name == "" || name == tts.EngineAuto {
		return info.RecommendedEngine()
	}
	return name
}

// NewHost builds the host for cfg. The returned closer releases the
// engine's subprocesses and must be called when done.
func NewHost(cfg tts.Config) (*tts.Host, io.Closer, error) {
	info := platform.Detect()
	name := Resolve(cfg.Engine, info)

	log.Debug("Creating speech engine", "configured", cfg.Engine, "resolved", name)

	switch name {
	case tts.EngineMock:
		e := mock.FromConfig(cfg.Mock)
		return e.Host(), e, nil

	case tts.EngineEspeak:
		e, err := espeak.New(cfg.Espeak)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", tts.ErrUnsupported, err)
		}
		return e.Host(), e, nil

	case tts.EngineSay:
		e, err := say.New(cfg.Say)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", tts.ErrUnsupported, err)
		}
		return e.Host(), e, nil

	case "":
		return nil, nil, fmt.Errorf("%w: no speech engine for %s/%s", tts.ErrUnsupported, info.OS, info.Arch)

	default:
		return nil, nil, fmt.Errorf("unknown speech engine %q: must be one of %v", name, Names())
	}
}
