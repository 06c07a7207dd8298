package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	log "github.com/sirupsen/logrus"
)

var logger = log.WithField("package", "process")

// Result is the captured outcome of one external process invocation
type Result struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// Success reports whether the process exited with status zero
func (r *Result) Success() bool {
	return r.ExitCode == 0
}

// Runner defines the interface for running external commands
type Runner interface {
	// Run executes name with args and captures its output.
	// A non-zero exit is reported through Result.ExitCode, not as an error;
	// err is only set when the process could not be run at all.
	Run(ctx context.Context, name string, args ...string) (*Result, error)
}

// ExecRunner runs commands with os/exec
type ExecRunner struct{}

// Ensure ExecRunner implements Runner
var _ Runner = (*ExecRunner)(nil)

// NewExecRunner creates a new exec-backed runner
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes the command, keeping stdout and stderr apart
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (*Result, error) {
	cmdLine := strings.Join(append([]string{name}, args...), " ")
	logger.WithField("cmd", cmdLine).Debug("Running command")

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := &Result{
		Stdout: stdout.Bytes(),
		Stderr: stderr.Bytes(),
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && ctx.Err() == nil {
			result.ExitCode = exitErr.ExitCode()
			logger.WithField("cmd", cmdLine).WithField("exitCode", result.ExitCode).Debug("Command exited with non-zero status")
			return result, nil
		}
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%s cancelled: %w", name, ctx.Err())
		}
		return nil, fmt.Errorf("failed to run %s: %w", name, err)
	}

	return result, nil
}
