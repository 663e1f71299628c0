package ffmpeg

import (
	"bytes"
	"context"
	"os"
	"os/exec"

	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog"
)

// CommandRunner defines the interface for running external commands
// This allows mocking exec.Command in tests
type CommandRunner interface {
	// Run executes a command, streaming stderr through
	Run(ctx context.Context, name string, args ...string) error

	// Output executes a command and returns its stdout. On a non-zero
	// exit the returned error is an *exec.ExitError carrying stderr.
	Output(ctx context.Context, name string, args ...string) ([]byte, error)

	// Capture executes a command and returns stdout and stderr
	// separately, for tools that report results on stderr
	Capture(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

// ExecCommandRunner is the production implementation using os/exec
type ExecCommandRunner struct{}

// Run executes a command and returns any error
func (r *ExecCommandRunner) Run(ctx context.Context, name string, args ...string) error {
	logCommand(ctx, name, args)
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Output executes a command and returns its output
func (r *ExecCommandRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	logCommand(ctx, name, args)
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.Output()
}

// Capture executes a command and returns both output streams
func (r *ExecCommandRunner) Capture(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	logCommand(ctx, name, args)
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

func logCommand(ctx context.Context, name string, args []string) {
	zerolog.Ctx(ctx).Debug().
		Str("cmd", shellquote.Join(append([]string{name}, args...)...)).
		Msg("running command")
}
