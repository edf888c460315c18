// Package subprocess runs speech engine binaries one at a time.
package subprocess

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// ErrNotFound is returned by LookPath when none of the candidates exist.
var ErrNotFound = errors.New("binary not found in PATH")

// Manager serializes subprocess execution. Stdin is attached before the
// process starts so input can never race the child's first read.
type Manager struct {
	mu sync.Mutex

	// defaultTimeout applies when ctx has no deadline; zero means none.
	defaultTimeout time.Duration
}

// New creates a Manager. A timeout of zero leaves runs unbounded unless the
// caller's context carries a deadline.
func New(timeout time.Duration) *Manager {
	if timeout < 0 {
		timeout = 0
	}
	return &Manager{defaultTimeout: timeout}
}

// Run executes name with args, feeding input on stdin when it is not empty,
// and returns stdout.
func (m *Manager) Run(ctx context.Context, input string, name string, args ...string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, hasDeadline := ctx.Deadline(); !hasDeadline && m.defaultTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.defaultTimeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, name, args...)
	if input != "" {
		cmd.Stdin = strings.NewReader(input)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.Debug("Running subprocess", "name", name, "args", args, "stdin_bytes", len(input))

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start process: %w", err)
	}
	err := cmd.Wait()

	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return nil, fmt.Errorf("subprocess %s timed out: %w", name, ctxErr)
		}
		return nil, fmt.Errorf("subprocess %s cancelled: %w", name, ctxErr)
	}

	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("subprocess %s failed: %w\nstderr: %s", name, err, msg)
		}
		return nil, fmt.Errorf("subprocess %s failed: %w", name, err)
	}

	return stdout.Bytes(), nil
}

// Output executes name without stdin and returns stdout.
func (m *Manager) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	return m.Run(ctx, "", name, args...)
}

// LookPath returns the full path of the first candidate found in PATH.
func LookPath(candidates ...string) (string, error) {
	for _, name := range candidates {
		if name == "" {
			continue
		}
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrNotFound, strings.Join(candidates, ", "))
}

// Available reports whether name can be found in PATH.
func Available(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
