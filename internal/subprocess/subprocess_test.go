package subprocess

import (
	"context"
	"errors"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("Unix commands not available on Windows")
	}
}

func TestNew(t *testing.T) {
	if m := New(0); m.defaultTimeout != 0 {
		t.Errorf("Expected no timeout, got %v", m.defaultTimeout)
	}
	if m := New(-time.Second); m.defaultTimeout != 0 {
		t.Errorf("Expected negative timeout to clamp to 0, got %v", m.defaultTimeout)
	}
	if m := New(10 * time.Second); m.defaultTimeout != 10*time.Second {
		t.Errorf("Expected timeout 10s, got %v", m.defaultTimeout)
	}
}

func TestRun(t *testing.T) {
	skipOnWindows(t)
	m := New(5 * time.Second)

	tests := []struct {
		name        string
		input       string
		command     string
		args        []string
		expectError bool
		checkOutput func([]byte) bool
	}{
		{
			name:    "echo with stdin",
			input:   "hello world",
			command: "cat",
			checkOutput: func(output []byte) bool {
				return string(output) == "hello world"
			},
		},
		{
			name:    "word count",
			input:   "one two three four five",
			command: "wc",
			args:    []string{"-w"},
			checkOutput: func(output []byte) bool {
				return strings.TrimSpace(string(output)) == "5"
			},
		},
		{
			name:    "no stdin",
			command: "echo",
			args:    []string{"ready"},
			checkOutput: func(output []byte) bool {
				return strings.TrimSpace(string(output)) == "ready"
			},
		},
		{
			name:        "nonexistent command",
			input:       "test",
			command:     "nonexistent_command_xyz",
			expectError: true,
		},
		{
			name:        "failing command",
			command:     "sh",
			args:        []string{"-c", "echo oops >&2; exit 3"},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := m.Run(context.Background(), tt.input, tt.command, tt.args...)
			if (err != nil) != tt.expectError {
				t.Fatalf("Run() error = %v, expectError %v", err, tt.expectError)
			}
			if tt.checkOutput != nil && !tt.checkOutput(output) {
				t.Errorf("Unexpected output %q", output)
			}
		})
	}
}

func TestRunStderrInError(t *testing.T) {
	skipOnWindows(t)
	_, err := New(0).Output(context.Background(), "sh", "-c", "echo broken voice >&2; exit 1")
	if err == nil || !strings.Contains(err.Error(), "broken voice") {
		t.Errorf("Expected stderr in error, got %v", err)
	}
}

func TestRunTimeout(t *testing.T) {
	skipOnWindows(t)
	m := New(50 * time.Millisecond)

	start := time.Now()
	_, err := m.Output(context.Background(), "sleep", "5")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Expected deadline exceeded, got %v", err)
	}
	if time.Since(start) > 2*time.Second {
		t.Errorf("Timeout took too long: %v", time.Since(start))
	}
}

func TestRunCancelled(t *testing.T) {
	skipOnWindows(t)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := New(0).Output(ctx, "sleep", "5")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected cancellation, got %v", err)
	}
}

func TestRunSerialized(t *testing.T) {
	skipOnWindows(t)
	m := New(5 * time.Second)

	var wg sync.WaitGroup
	start := time.Now()
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := m.Output(context.Background(), "sleep", "0.05"); err != nil {
				t.Errorf("Output failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if elapsed := time.Since(start); elapsed < 150*time.Millisecond {
		t.Errorf("Runs overlapped: finished in %v", elapsed)
	}
}

func TestLookPath(t *testing.T) {
	skipOnWindows(t)

	path, err := LookPath("nonexistent_command_xyz", "", "sh")
	if err != nil {
		t.Fatalf("LookPath failed: %v", err)
	}
	if !strings.HasSuffix(path, "sh") {
		t.Errorf("Expected a path to sh, got %q", path)
	}

	_, err = LookPath("nonexistent_command_xyz", "also_missing_xyz")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	if !Available("sh") {
		t.Error("sh should be available")
	}
	if Available("nonexistent_command_xyz") {
		t.Error("nonexistent command should not be available")
	}
}
