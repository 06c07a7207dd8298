package runner

import (
	"context"
	"fmt"
	"io"

	"github.com/gh-nvat/attrdiff/src/pkg/process"
)

// RunnerDiff diffs two arbitrary references
type RunnerDiff struct {
	RunnerBase
}

// make RunnerDiff implement RunnerInterface
var _ RunnerInterface = (*RunnerDiff)(nil)

func NewRunnerDiff(ctx context.Context, options *Options, runner process.Runner) (*RunnerDiff, error) {
	baseRunner, err := NewRunnerBase(ctx, options, runner)
	if err != nil {
		return nil, err
	}
	if options.Expr == "" || options.Against == "" {
		return nil, fmt.Errorf("diff requires an expression and a reference to diff against")
	}
	return &RunnerDiff{
		RunnerBase: *baseRunner,
	}, nil
}

func (r *RunnerDiff) Initialize() error {
	return r.RunnerBase.Initialize()
}

func (r *RunnerDiff) Process() error {
	return r.RunnerBase.Process()
}

func (r *RunnerDiff) Output(w io.Writer) error {
	return r.RunnerBase.Output(w)
}
