package runner

import (
	"context"
	"fmt"

	"github.com/gh-nvat/attrdiff/src/pkg/process"
	"github.com/gh-nvat/attrdiff/src/pkg/reference"
)

// RunnerGitHub diffs the head of a pull request against its base
type RunnerGitHub struct {
	RunnerBase

	number int
}

// make RunnerGitHub implement RunnerInterface
var _ RunnerInterface = (*RunnerGitHub)(nil)

func NewRunnerGitHub(ctx context.Context, options *Options, runner process.Runner) (*RunnerGitHub, error) {
	baseRunner, err := NewRunnerBase(ctx, options, runner)
	if err != nil {
		return nil, err
	}
	number, err := reference.ParsePullRequestID(options.PRNumber)
	if err != nil {
		return nil, err
	}
	return &RunnerGitHub{
		RunnerBase: *baseRunner,
		number:     number,
	}, nil
}

func (r *RunnerGitHub) Initialize() error {
	if err := r.RunnerBase.Initialize(); err != nil {
		return err
	}
	if r.GHClient == nil {
		return fmt.Errorf("GitHub client is not initialized")
	}
	return nil
}

// Process resolves the pull request and diffs head against base
func (r *RunnerGitHub) Process() error {
	logger.WithField("repo", r.GHClient.Upstream()).WithField("number", r.number).Info("Process: starting...")

	result, err := r.Engine.DiffPullRequest(r.Context, r.GHClient, r.Options.PRNumber)
	if err != nil {
		return err
	}
	r.Result = result

	logger.WithField("attributes", len(result.Attributes)).Info("Process: done.")
	return nil
}
