package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gh-nvat/attrdiff/src/internal/runner"
	"github.com/gh-nvat/attrdiff/src/pkg/template"
	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

type globalOptions struct {
	configPath     string
	timeout        time.Duration
	traceOutputDir string
	debug          bool
	quiet          bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	global := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "attrdiff",
		Short: "List the package attributes that differ between two package trees",
		Long: `attrdiff evaluates two versions of a package tree and prints the attributes
whose output paths differ, so only those need to be rebuilt or tested.

References may be local paths, file:// or https:// URLs (archives are unpacked),
nixpath://<name>, github://<owner>/<repo>/<ref>, channel://<name>, ref://<name>
or pr://<number>.`,
		Version:       fmt.Sprintf("%s (built: %s)", Version, BuildTime),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&global.configPath, "config", "", "Path to config file (default: ./attrdiff.yaml when present)")
	cmd.PersistentFlags().DurationVar(&global.timeout, "timeout", 0, "Abort the whole invocation after this long (0 disables, overrides config)")
	cmd.PersistentFlags().StringVar(&global.traceOutputDir, "trace-output", "", "Write a performance report to this directory")
	cmd.PersistentFlags().BoolVar(&global.debug, "debug", false, "Enable debug logging")
	cmd.PersistentFlags().BoolVar(&global.quiet, "quiet", false, "Only log warnings and errors")

	cmd.AddCommand(
		newDiffCmd(global),
		newPRCmd(global),
		newPathCmd(global),
	)
	return cmd
}

func newDiffCmd(global *globalOptions) *cobra.Command {
	opts := &runner.Options{RunMode: runner.RUN_MODE_DIFF}

	cmd := &cobra.Command{
		Use:   "diff <expr> <against>",
		Short: "List attributes of <expr> that differ from <against>",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Expr = args[0]
			opts.Against = args[1]
			return run(cmd.Context(), global, opts)
		},
	}
	addOutputFlags(cmd, opts)
	return cmd
}

func newPRCmd(global *globalOptions) *cobra.Command {
	opts := &runner.Options{RunMode: runner.RUN_MODE_PR}

	cmd := &cobra.Command{
		Use:   "pr <number>",
		Short: "List attributes changed by a pull request (head against base)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.PRNumber = args[0]
			return run(cmd.Context(), global, opts)
		},
	}
	addOutputFlags(cmd, opts)
	cmd.Flags().StringVar(&opts.Repo, "repo", "", "Repository the pull request belongs to (owner/repo, default from config)")
	return cmd
}

func newPathCmd(global *globalOptions) *cobra.Command {
	opts := &runner.Options{RunMode: runner.RUN_MODE_PATH}

	cmd := &cobra.Command{
		Use:   "path <expr>",
		Short: "Print the local path <expr> materializes to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Expr = args[0]
			return run(cmd.Context(), global, opts)
		},
	}
	addOutputFlags(cmd, opts)
	return cmd
}

func addOutputFlags(cmd *cobra.Command, opts *runner.Options) {
	cmd.Flags().StringVar(&opts.Output, "output", template.OutputList,
		fmt.Sprintf("Output mode: %s", strings.Join(template.OutputModes, ", ")))
	cmd.Flags().StringVar(&opts.TemplatePath, "template", "", "Go template file used with --output template")
}
