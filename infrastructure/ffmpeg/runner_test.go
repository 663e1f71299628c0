package ffmpeg

import (
	"context"
)

// fakeRunner is a mock CommandRunner recording the last invocation
type fakeRunner struct {
	lastName string
	lastArgs []string
	output   []byte
	stderr   []byte
	err      error
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) error {
	f.lastName, f.lastArgs = name, args
	return f.err
}

func (f *fakeRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	f.lastName, f.lastArgs = name, args
	if f.err != nil {
		return nil, f.err
	}
	return f.output, nil
}

func (f *fakeRunner) Capture(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	f.lastName, f.lastArgs = name, args
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.output, f.stderr, nil
}

var _ CommandRunner = (*fakeRunner)(nil)

func hasArg(args []string, want string) bool {
	for _, a := range args {
		if a == want {
			return true
		}
	}
	return false
}

func argAfter(args []string, flag string) string {
	for i, a := range args {
		if a == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}
