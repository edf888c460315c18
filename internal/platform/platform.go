// Package platform detects the operating system, CI runners and the audio
// stack, and picks the speech engine that fits them.
package platform

import (
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"
)

// OS is the operating system the process runs on.
type OS string

const (
	Linux   OS = "linux"
	Darwin  OS = "darwin"
	Windows OS = "windows"
	Unknown OS = "unknown"
)

// AudioSubsystem is the sound server or driver layer found on the host.
type AudioSubsystem string

const (
	AudioALSA       AudioSubsystem = "alsa"
	AudioPulseAudio AudioSubsystem = "pulseaudio"
	AudioPipeWire   AudioSubsystem = "pipewire"
	AudioCoreAudio  AudioSubsystem = "coreaudio"
	AudioWASAPI     AudioSubsystem = "wasapi"
	AudioNone       AudioSubsystem = "none"
)

// ciVars are environment variables set by common CI providers.
var ciVars = []string{
	"CI",
	"CONTINUOUS_INTEGRATION",
	"GITHUB_ACTIONS",
	"GITLAB_CI",
	"JENKINS_URL",
	"TRAVIS",
	"CIRCLECI",
	"BUILDKITE",
	"DRONE",
	"TEAMCITY_VERSION",
}

// Info describes the current host.
type Info struct {
	OS    OS
	Arch  string
	Audio AudioSubsystem
	IsCI  bool
}

// Detect inspects the current host.
func Detect() Info {
	info := Info{
		OS:   currentOS(runtime.GOOS),
		Arch: runtime.GOARCH,
		IsCI: IsCI(),
	}

	switch info.OS {
	case Linux:
		info.Audio = detectLinuxAudio()
	case Darwin:
		info.Audio = AudioCoreAudio
	case Windows:
		info.Audio = AudioWASAPI
	default:
		info.Audio = AudioNone
	}

	log.Debug("Platform detected",
		"os", info.OS,
		"arch", info.Arch,
		"audio", info.Audio,
		"is_ci", info.IsCI)

	return info
}

// IsCI reports whether the process runs under a CI provider.
func IsCI() bool {
	for _, name := range ciVars {
		if val := os.Getenv(name); val != "" && val != "false" {
			log.Debug("CI environment detected", "variable", name)
			return true
		}
	}
	return false
}

// RecommendedEngine returns the engine name "auto" resolves to, or the
// empty string when no engine fits the host.
func (i Info) RecommendedEngine() string {
	switch {
	case i.IsCI:
		return "mock"
	case i.OS == Linux:
		return "espeak"
	case i.OS == Darwin:
		return "say"
	default:
		return ""
	}
}

func currentOS(goos string) OS {
	switch goos {
	case "linux":
		return Linux
	case "darwin":
		return Darwin
	case "windows":
		return Windows
	default:
		return Unknown
	}
}

func detectLinuxAudio() AudioSubsystem {
	if commandAvailable("pactl") {
		if output, err := exec.Command("pactl", "info").Output(); err == nil {
			text := string(output)
			if strings.Contains(text, "PipeWire") {
				return AudioPipeWire
			}
			if strings.Contains(text, "Server Name") {
				return AudioPulseAudio
			}
		}
	}

	if _, err := os.Stat("/proc/asound"); err == nil {
		return AudioALSA
	}
	if commandAvailable("aplay") {
		return AudioALSA
	}

	return AudioNone
}

func commandAvailable(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
