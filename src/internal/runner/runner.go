package runner

import (
	"context"
	"fmt"

	"github.com/gh-nvat/attrdiff/src/pkg/process"
)

type Runner struct {
	RunMode  string
	Instance RunnerInterface
}

// New creates the runner for options.RunMode. A nil process runner uses os/exec.
func New(ctx context.Context, options *Options, proc process.Runner) (*Runner, error) {
	var instance RunnerInterface
	var err error
	switch options.RunMode {
	case RUN_MODE_DIFF:
		instance, err = NewRunnerDiff(ctx, options, proc)
	case RUN_MODE_PR:
		instance, err = NewRunnerGitHub(ctx, options, proc)
	case RUN_MODE_PATH:
		instance, err = NewRunnerPath(ctx, options, proc)
	default:
		return nil, fmt.Errorf("invalid run mode: %s", options.RunMode)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s runner: %w", options.RunMode, err)
	}
	return &Runner{
		RunMode:  options.RunMode,
		Instance: instance,
	}, nil
}
