package evaluate

import (
	"context"
	"fmt"
	"strings"

	"github.com/gh-nvat/attrdiff/src/pkg/models"
	"github.com/gh-nvat/attrdiff/src/pkg/process"
	log "github.com/sirupsen/logrus"
)

var logger = log.WithField("package", "evaluate")

const DefaultEvaluator = "nix-env"

// DefaultListArgs list every attribute path together with its output path
var DefaultListArgs = []string{"-qaP", "--out-path", "--show-trace"}

// AttributeEnumerator defines the interface for listing the attributes of a tree
type AttributeEnumerator interface {
	// Enumerate runs the evaluator on tree and returns its listing
	Enumerate(ctx context.Context, tree string) (*models.PackageListing, error)
}

// Enumerator lists attributes by invoking the external evaluator
type Enumerator struct {
	runner  process.Runner
	command []string
	args    []string
}

// Ensure Enumerator implements AttributeEnumerator
var _ AttributeEnumerator = (*Enumerator)(nil)

// NewEnumerator creates a new enumerator. command is the evaluator invocation
// prefix and listArgs the flags that follow "-f <tree>"; empty values fall
// back to nix-env defaults.
func NewEnumerator(runner process.Runner, command []string, listArgs []string) *Enumerator {
	if len(command) == 0 {
		command = []string{DefaultEvaluator}
	}
	if len(listArgs) == 0 {
		listArgs = DefaultListArgs
	}
	return &Enumerator{
		runner:  runner,
		command: command,
		args:    listArgs,
	}
}

// Enumerate runs: <evaluator> -f <tree> <listArgs...>
func (e *Enumerator) Enumerate(ctx context.Context, tree string) (*models.PackageListing, error) {
	args := append([]string{}, e.command[1:]...)
	args = append(args, "-f", tree)
	args = append(args, e.args...)

	logger.WithField("tree", tree).Info("Enumerating attributes...")
	res, err := e.runner.Run(ctx, e.command[0], args...)
	if err != nil {
		return nil, fmt.Errorf("failed to run evaluator on %s: %w", tree, err)
	}
	if !res.Success() {
		return nil, &EvaluationError{Tree: tree, ExitCode: res.ExitCode, Stderr: string(res.Stderr)}
	}

	listing := &models.PackageListing{
		Tree:  tree,
		Lines: ParseListing(string(res.Stdout)),
	}
	logger.WithField("tree", tree).WithField("attributes", len(listing.Lines)).Info("Enumerated attributes")
	return listing, nil
}

// ParseListing splits evaluator output into normalized listing lines,
// dropping blank ones.
func ParseListing(output string) []string {
	var lines []string
	for _, line := range strings.Split(output, "\n") {
		line = models.NormalizeLine(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
