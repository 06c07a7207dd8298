package runner

import "time"

const (
	RUN_MODE_DIFF = "diff"
	RUN_MODE_PR   = "pr"
	RUN_MODE_PATH = "path"
)

type Options struct {
	// Run mode
	RunMode string // "diff", "pr" or "path"

	// Common options
	ConfigPath     string // empty: ./attrdiff.yaml when present, else defaults
	Output         string // "list", "attrs" or "template"
	TemplatePath   string // Go template used with --output template
	Timeout        time.Duration
	TraceOutputDir string

	// diff / path options
	Expr    string
	Against string

	// pr options
	PRNumber string // bare number or pr://<number>
	Repo     string // overrides the configured upstream repository

	// Getenv looks up environment variables, defaults to os.Getenv
	Getenv func(string) string
}
