package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gh-nvat/attrdiff/src/internal/runner"
	"github.com/gh-nvat/attrdiff/src/pkg/template"
	"github.com/gh-nvat/attrdiff/src/pkg/trace"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

func run(ctx context.Context, global *globalOptions, opts *runner.Options) error {
	if err := validateOptions(opts); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}

	setupLogging(global)

	// .env may carry NIX_PATH or GH_TOKEN
	_ = godotenv.Load()

	opts.ConfigPath = global.configPath
	opts.Timeout = global.timeout
	opts.TraceOutputDir = global.traceOutputDir
	opts.Getenv = os.Getenv

	shutdown, err := trace.InitTracer("attrdiff", opts.TraceOutputDir != "", opts.TraceOutputDir)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	defer shutdown()

	r, err := runner.New(ctx, opts, nil)
	if err != nil {
		return err
	}
	defer r.Instance.Close()

	if err := r.Instance.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	if err := r.Instance.Process(); err != nil {
		return err
	}
	return r.Instance.Output(os.Stdout)
}

func validateOptions(opts *runner.Options) error {
	if opts.RunMode == runner.RUN_MODE_PATH {
		return nil
	}
	switch opts.Output {
	case template.OutputList, template.OutputAttrs:
	case template.OutputTemplate:
		if opts.TemplatePath == "" {
			return fmt.Errorf("--output template requires --template")
		}
	default:
		return fmt.Errorf("--output must be one of list, attrs or template, got: %s", opts.Output)
	}
	return nil
}

func setupLogging(global *globalOptions) {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	switch {
	case global.debug:
		log.SetLevel(log.DebugLevel)
	case global.quiet:
		log.SetLevel(log.WarnLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}
}
