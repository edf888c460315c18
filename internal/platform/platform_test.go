package platform

import (
	"runtime"
	"testing"
)

func clearCI(t *testing.T) {
	t.Helper()
	for _, name := range ciVars {
		t.Setenv(name, "")
	}
}

func TestIsCI(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		want  bool
	}{
		{name: "no variables", want: false},
		{name: "generic CI", key: "CI", value: "true", want: true},
		{name: "github actions", key: "GITHUB_ACTIONS", value: "true", want: true},
		{name: "jenkins url", key: "JENKINS_URL", value: "http://ci.local", want: true},
		{name: "explicit false", key: "CI", value: "false", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearCI(t)
			if tt.key != "" {
				t.Setenv(tt.key, tt.value)
			}
			if got := IsCI(); got != tt.want {
				t.Errorf("IsCI() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRecommendedEngine(t *testing.T) {
	tests := []struct {
		name string
		info Info
		want string
	}{
		{name: "ci wins", info: Info{OS: Darwin, IsCI: true}, want: "mock"},
		{name: "linux", info: Info{OS: Linux}, want: "espeak"},
		{name: "macos", info: Info{OS: Darwin}, want: "say"},
		{name: "windows", info: Info{OS: Windows}, want: ""},
		{name: "unknown", info: Info{OS: Unknown}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.info.RecommendedEngine(); got != tt.want {
				t.Errorf("RecommendedEngine() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCurrentOS(t *testing.T) {
	tests := map[string]OS{
		"linux":   Linux,
		"darwin":  Darwin,
		"windows": Windows,
		"plan9":   Unknown,
	}
	for goos, want := range tests {
		if got := currentOS(goos); got != want {
			t.Errorf("currentOS(%q) = %q, want %q", goos, got, want)
		}
	}
}

func TestDetect(t *testing.T) {
	clearCI(t)
	info := Detect()

	if info.OS != currentOS(runtime.GOOS) {
		t.Errorf("OS = %q, want %q", info.OS, currentOS(runtime.GOOS))
	}
	if info.Arch != runtime.GOARCH {
		t.Errorf("Arch = %q, want %q", info.Arch, runtime.GOARCH)
	}
	if info.IsCI {
		t.Error("IsCI should be false with CI variables cleared")
	}
	if info.Audio == "" {
		t.Error("Audio should always be set")
	}
}
