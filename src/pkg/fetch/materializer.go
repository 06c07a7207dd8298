package fetch

import (
	"context"
	"fmt"
	"strings"

	"github.com/gh-nvat/attrdiff/src/pkg/models"
	"github.com/gh-nvat/attrdiff/src/pkg/process"
	log "github.com/sirupsen/logrus"
)

var logger = log.WithField("package", "fetch")

const DefaultFetcher = "nix-prefetch-url"

// TreeMaterializer defines the interface for turning locations into local trees
type TreeMaterializer interface {
	// Materialize returns a local path holding the tree behind location
	Materialize(ctx context.Context, location models.Location) (string, error)
}

// Materializer resolves locations to local paths, calling the external
// fetcher only for remote or archived locations.
type Materializer struct {
	runner  process.Runner
	command []string
}

// Ensure Materializer implements TreeMaterializer
var _ TreeMaterializer = (*Materializer)(nil)

// NewMaterializer creates a new materializer. command is the fetcher
// invocation prefix, e.g. ["nix-prefetch-url"].
func NewMaterializer(runner process.Runner, command ...string) *Materializer {
	if len(command) == 0 {
		command = []string{DefaultFetcher}
	}
	return &Materializer{
		runner:  runner,
		command: command,
	}
}

// Materialize returns the local path of the tree behind location
func (m *Materializer) Materialize(ctx context.Context, location models.Location) (string, error) {
	if location.IsLocal() && !location.Archive {
		logger.WithField("path", location.Path).Debug("Using local tree as-is")
		return location.Path, nil
	}
	return m.fetch(ctx, location.FetchURL(), location.Archive)
}

// fetch runs: <fetcher> --print-path [--unpack] <url>
// and takes the second line of stdout as the resulting store path.
func (m *Materializer) fetch(ctx context.Context, url string, unpack bool) (string, error) {
	args := append([]string{}, m.command[1:]...)
	args = append(args, "--print-path")
	if unpack {
		args = append(args, "--unpack")
	}
	args = append(args, url)

	logger.WithField("url", url).WithField("unpack", unpack).Info("Fetching...")
	res, err := m.runner.Run(ctx, m.command[0], args...)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}
	if !res.Success() {
		return "", &FetchError{URL: url, ExitCode: res.ExitCode, Stderr: string(res.Stderr)}
	}

	path, err := parseFetchOutput(string(res.Stdout))
	if err != nil {
		return "", &FetchError{URL: url, Stderr: string(res.Stderr), Err: err}
	}
	logger.WithField("url", url).WithField("path", path).Info("Fetched")
	return path, nil
}

// parseFetchOutput expects two lines: the hash, then the path
func parseFetchOutput(stdout string) (string, error) {
	lines := strings.Split(strings.TrimRight(stdout, "\n"), "\n")
	if len(lines) < 2 {
		return "", fmt.Errorf("expected hash and path lines, got %d line(s): %q", len(lines), stdout)
	}
	path := strings.TrimSpace(lines[1])
	if path == "" {
		return "", fmt.Errorf("empty path in fetcher output: %q", stdout)
	}
	return path, nil
}
