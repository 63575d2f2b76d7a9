package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// CommandRunner defines the interface for running external commands
// This allows mocking exec.Command in tests
type CommandRunner interface {
	// CombinedOutput runs a command to completion and returns stdout and stderr together
	CombinedOutput(ctx context.Context, name string, args ...string) ([]byte, error)

	// Output runs a command to completion and returns its stdout
	Output(ctx context.Context, name string, args ...string) ([]byte, error)

	// Stream starts a command and returns its stdout. Closing the stream waits for
	// the process and reports its exit status.
	Stream(ctx context.Context, name string, args ...string) (io.ReadCloser, error)
}

// ExecCommandRunner is the production implementation using os/exec
type ExecCommandRunner struct{}

// CombinedOutput executes a command and returns stdout and stderr together
func (r *ExecCommandRunner) CombinedOutput(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.CombinedOutput()
}

// Output executes a command and returns its output
func (r *ExecCommandRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.Output()
}

// Stream starts a command with its stdout connected to the returned reader
func (r *ExecCommandRunner) Stream(ctx context.Context, name string, args ...string) (io.ReadCloser, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return &processStream{cmd: cmd, stdout: stdout, stderr: &stderr}, nil
}

type processStream struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr *bytes.Buffer
	closed bool
	err    error
}

func (s *processStream) Read(p []byte) (int, error) {
	return s.stdout.Read(p)
}

// Close releases the pipe and reaps the process. It is safe to call more than once.
func (s *processStream) Close() error {
	if s.closed {
		return s.err
	}
	s.closed = true
	_ = s.stdout.Close()
	if err := s.cmd.Wait(); err != nil {
		msg := strings.TrimSpace(s.stderr.String())
		if msg != "" {
			s.err = fmt.Errorf("%w: %s", err, msg)
		} else {
			s.err = err
		}
	}
	return s.err
}

// commandLine renders a command for the transcript
func commandLine(name string, args []string) string {
	return name + " " + strings.Join(args, " ")
}
