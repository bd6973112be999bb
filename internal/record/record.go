// Package record captures user audio through an external command.
package record

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// DefaultCommand records a few seconds of microphone audio with ALSA.
const DefaultCommand = "arecord -q -d 3 -f S16_LE -r 16000 {path}"

// Recorder captures one pronunciation attempt and returns the audio path.
type Recorder interface {
	Record(ctx context.Context, word string) (string, error)
}

// CommandRecorder runs a capture command with a {path} placeholder.
type CommandRecorder struct {
	Command string
	Dir     string
}

// NewCommandRecorder builds a recorder writing into dir. An empty command
// selects the default.
func NewCommandRecorder(command, dir string) *CommandRecorder {
	if command == "" {
		command = DefaultCommand
	}
	return &CommandRecorder{Command: command, Dir: dir}
}

// Record captures audio for one attempt at the word.
func (r *CommandRecorder) Record(ctx context.Context, word string) (string, error) {
	if err := os.MkdirAll(r.Dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(r.Dir, fmt.Sprintf("%s_attempt.wav", sanitize(word)))

	fields := strings.Fields(r.Command)
	if len(fields) == 0 {
		return "", errors.New("record: capture command is empty")
	}
	args := make([]string, 0, len(fields)-1)
	replaced := false
	for _, f := range fields[1:] {
		if strings.Contains(f, "{path}") {
			f = strings.ReplaceAll(f, "{path}", path)
			replaced = true
		}
		args = append(args, f)
	}
	if !replaced {
		return "", errors.New("record: capture command has no {path} placeholder")
	}

	cmd := exec.CommandContext(ctx, fields[0], args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("capture command failed: %w: %s", err, strings.TrimSpace(string(out)))
	}
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("capture produced no audio: %w", err)
	}
	return path, nil
}

func sanitize(word string) string {
	return strings.ReplaceAll(strings.ToLower(word), " ", "_")
}
