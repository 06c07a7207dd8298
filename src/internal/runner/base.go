package runner

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/gh-nvat/attrdiff/src/pkg/config"
	"github.com/gh-nvat/attrdiff/src/pkg/diff"
	"github.com/gh-nvat/attrdiff/src/pkg/evaluate"
	"github.com/gh-nvat/attrdiff/src/pkg/fetch"
	"github.com/gh-nvat/attrdiff/src/pkg/github"
	"github.com/gh-nvat/attrdiff/src/pkg/models"
	"github.com/gh-nvat/attrdiff/src/pkg/process"
	"github.com/gh-nvat/attrdiff/src/pkg/reference"
	"github.com/gh-nvat/attrdiff/src/pkg/template"

	log "github.com/sirupsen/logrus"
)

var logger *log.Entry = log.WithFields(log.Fields{
	"package": "runner",
})

type RunnerBase struct {
	Context context.Context
	Options *Options

	Config   *config.Config
	Runner   process.Runner
	GHClient *github.Client
	Engine   *diff.Engine
	Renderer *template.Renderer

	Result *models.DiffResult

	cancel context.CancelFunc
}

// make RunnerBase implement RunnerInterface
var _ RunnerInterface = (*RunnerBase)(nil)

func NewRunnerBase(ctx context.Context, options *Options, runner process.Runner) (*RunnerBase, error) {
	if options == nil {
		return nil, fmt.Errorf("options are required")
	}
	if runner == nil {
		runner = process.NewExecRunner()
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return &RunnerBase{
		Context:  ctx,
		Options:  options,
		Runner:   runner,
		Renderer: template.NewRenderer(),
	}, nil
}

// Initialize loads configuration and wires the resolver, materializer,
// enumerator and GitHub client into the diff engine.
func (r *RunnerBase) Initialize() error {
	logger.Info("Initializing runner: starting...")

	cfg, err := r.loadConfig()
	if err != nil {
		return err
	}
	if r.Options.Repo != "" {
		cfg.GitHub.Upstream = r.Options.Repo
	}
	loader := config.NewLoader()
	if err := loader.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	r.Config = cfg
	r.applyTimeout()

	ghClient, err := github.NewClient(github.ClientOptions{
		Token:    github.TokenFromEnv(r.lookup),
		APIURL:   cfg.GitHub.APIURL,
		Host:     cfg.GitHub.Host,
		Upstream: cfg.GitHub.Upstream,
	})
	if err != nil {
		return fmt.Errorf("failed to create GitHub client: %w", err)
	}
	r.GHClient = ghClient

	searchPath := cfg.SearchPath(r.lookup)
	logger.WithField("variable", searchPath.Variable).WithField("entries", len(searchPath.Entries)).Debug("Loaded search path")

	resolver := reference.NewResolver(cfg.Hosting(), searchPath, ghClient)
	materializer := fetch.NewMaterializer(r.Runner, cfg.Tools.Fetcher...)
	enumerator := evaluate.NewEnumerator(r.Runner, cfg.Tools.Evaluator, cfg.Tools.EvaluatorArgs)
	r.Engine = diff.NewEngine(resolver, materializer, enumerator)

	logger.Info("Initialize runner: done.")
	return nil
}

func (r *RunnerBase) loadConfig() (*config.Config, error) {
	loader := config.NewLoader()
	if r.Options.ConfigPath != "" {
		cfg, err := loader.Load(r.Options.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config %s: %w", r.Options.ConfigPath, err)
		}
		return cfg, nil
	}
	cfg, err := loader.LoadDefault()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// applyTimeout bounds the runner context by the --timeout flag, falling back
// to the configured timeout. Zero means no deadline.
func (r *RunnerBase) applyTimeout() {
	timeout := r.Options.Timeout
	if timeout == 0 && r.Config != nil {
		timeout = r.Config.Timeout.Duration
	}
	if timeout <= 0 {
		return
	}
	if r.Context == nil {
		r.Context = context.Background()
	}
	r.Context, r.cancel = context.WithTimeout(r.Context, timeout)
	logger.WithField("timeout", timeout).Debug("Invocation deadline set")
}

// Close releases the deadline set during Initialize
func (r *RunnerBase) Close() {
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}

func (r *RunnerBase) lookup(key string) string {
	if r.Options.Getenv != nil {
		return r.Options.Getenv(key)
	}
	return os.Getenv(key)
}

// Process diffs Options.Expr against Options.Against
func (r *RunnerBase) Process() error {
	logger.Info("Process: starting...")
	if r.Engine == nil {
		return fmt.Errorf("runner is not initialized")
	}

	result, err := r.Engine.Diff(r.Context, r.Options.Expr, r.Options.Against)
	if err != nil {
		return err
	}
	r.Result = result

	logger.WithField("attributes", len(result.Attributes)).Info("Process: done.")
	return nil
}

// Output renders the diff result in the requested output mode
func (r *RunnerBase) Output(w io.Writer) error {
	if r.Result == nil {
		return fmt.Errorf("nothing to output: runner has not processed")
	}

	var rendered string
	var err error
	if r.Options.Output == template.OutputTemplate {
		if r.Options.TemplatePath == "" {
			return fmt.Errorf("--output template requires --template")
		}
		rendered, err = r.Renderer.RenderFile(r.Options.TemplatePath, r.Result)
	} else {
		rendered, err = r.Renderer.Render(r.Options.Output, r.Result)
	}
	if err != nil {
		return fmt.Errorf("failed to render output: %w", err)
	}

	if _, err := io.WriteString(w, rendered); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
