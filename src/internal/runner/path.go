package runner

import (
	"context"
	"fmt"
	"io"

	"github.com/gh-nvat/attrdiff/src/pkg/process"
)

// RunnerPath materializes a single reference and reports its local path
type RunnerPath struct {
	RunnerBase

	Path string
}

// make RunnerPath implement RunnerInterface
var _ RunnerInterface = (*RunnerPath)(nil)

func NewRunnerPath(ctx context.Context, options *Options, runner process.Runner) (*RunnerPath, error) {
	baseRunner, err := NewRunnerBase(ctx, options, runner)
	if err != nil {
		return nil, err
	}
	if options.Expr == "" {
		return nil, fmt.Errorf("path requires an expression")
	}
	return &RunnerPath{
		RunnerBase: *baseRunner,
	}, nil
}

func (r *RunnerPath) Initialize() error {
	return r.RunnerBase.Initialize()
}

// Process resolves and materializes Options.Expr
func (r *RunnerPath) Process() error {
	logger.Info("Process: starting...")

	location, err := r.Engine.Resolve(r.Context, r.Options.Expr)
	if err != nil {
		return err
	}
	path, err := r.Engine.Materialize(r.Context, location)
	if err != nil {
		return err
	}
	r.Path = path

	logger.WithField("path", path).Info("Process: done.")
	return nil
}

// Output prints the materialized path; output modes do not apply
func (r *RunnerPath) Output(w io.Writer) error {
	if r.Path == "" {
		return fmt.Errorf("nothing to output: runner has not processed")
	}
	if _, err := fmt.Fprintln(w, r.Path); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
