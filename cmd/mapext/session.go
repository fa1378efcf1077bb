package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"mapext/internal/config"
	"mapext/internal/diagnostic"
	"mapext/internal/frontend"
	"mapext/internal/gen"
	"mapext/internal/pipeline"
)

type globalOptions struct {
	configPath     string
	color          string
	quiet          bool
	verbose        bool
	jobs           int
	maxDiagnostics int
}

func readGlobalOptions(cmd *cobra.Command) (globalOptions, error) {
	flags := cmd.Root().PersistentFlags()

	var (
		opts globalOptions
		err  error
	)

	if opts.configPath, err = flags.GetString("config"); err != nil {
		return opts, fmt.Errorf("failed to get config flag: %w", err)
	}

	if opts.color, err = flags.GetString("color"); err != nil {
		return opts, fmt.Errorf("failed to get color flag: %w", err)
	}

	switch opts.color {
	case "auto", "on", "off":
	default:
		return opts, fmt.Errorf("unknown color mode %q (want auto|on|off)", opts.color)
	}

	if opts.quiet, err = flags.GetBool("quiet"); err != nil {
		return opts, fmt.Errorf("failed to get quiet flag: %w", err)
	}

	if opts.verbose, err = flags.GetBool("verbose"); err != nil {
		return opts, fmt.Errorf("failed to get verbose flag: %w", err)
	}

	if opts.jobs, err = flags.GetInt("jobs"); err != nil {
		return opts, fmt.Errorf("failed to get jobs flag: %w", err)
	}

	if opts.maxDiagnostics, err = flags.GetInt("max-diagnostics"); err != nil {
		return opts, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	return opts, nil
}

// session holds everything one command invocation needs. The runner keeps
// its caches for the session's lifetime.
type session struct {
	opts   globalOptions
	cfg    *config.Config
	marker gen.Marker
	logger hclog.Logger
	loader *frontend.Loader
	runner *pipeline.Runner
	out    io.Writer
	errOut io.Writer
}

func newSession(cmd *cobra.Command) (*session, error) {
	opts, err := readGlobalOptions(cmd)
	if err != nil {
		return nil, err
	}

	cfg, cfgPath, err := config.Load(opts.configPath, ".")
	if err != nil {
		return nil, err
	}

	if opts.jobs > 0 {
		cfg.Jobs = opts.jobs
	}

	level := hclog.Info

	switch {
	case opts.verbose:
		level = hclog.Debug
	case opts.quiet:
		level = hclog.Warn
	}

	logColor := hclog.AutoColor

	switch opts.color {
	case "on":
		logColor = hclog.ForceColor
	case "off":
		logColor = hclog.ColorOff
	}

	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "mapext",
		Level:  level,
		Output: cmd.ErrOrStderr(),
		Color:  logColor,
	})

	if cfgPath != "" {
		logger.Debug("loaded configuration", "path", cfgPath)
	}

	marker := gen.Marker{Tool: cfg.GeneratorConfig().Tool, Suffix: cfg.Output.Suffix}

	return &session{
		opts:   opts,
		cfg:    cfg,
		marker: marker,
		logger: logger,
		loader: &frontend.Loader{Logger: logger.Named("loader"), Generated: marker.IsGenerated},
		runner: pipeline.NewRunner(cfg.PipelineOptions(logger)),
		out:    cmd.OutOrStdout(),
		errOut: cmd.ErrOrStderr(),
	}, nil
}

// run loads patterns and runs the pipeline once.
func (s *session) run(ctx context.Context, patterns []string) (*frontend.Compilation, *pipeline.Result, error) {
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	comp, err := s.loader.Load(ctx, patterns...)
	if err != nil {
		return nil, nil, err
	}

	decls, err := comp.Declarations(s.cfg.Directive, s.cfg.Rules())
	if err != nil {
		return nil, nil, fmt.Errorf("discovering declarations: %w", err)
	}

	s.logger.Debug("discovered declarations", "count", len(decls), "packages", len(comp.Packages))

	res, err := s.runner.Run(ctx, decls)
	if err != nil {
		return nil, nil, fmt.Errorf("running pipeline: %w", err)
	}

	for _, step := range res.Steps {
		s.logger.Debug("step", "name", step.Step, "index", step.Index, "reason", step.Reason.String())
	}

	return comp, res, nil
}

// report prints diagnostics and returns errDiagnostics if any is an error.
func (s *session) report(res *pipeline.Result) error {
	omitted, err := diagnostic.Print(s.errOut, &res.Diagnostics, diagnostic.PrintOptions{
		Color: s.useColor(),
		Max:   s.opts.maxDiagnostics,
	})
	if err != nil {
		return fmt.Errorf("printing diagnostics: %w", err)
	}

	if omitted > 0 {
		fmt.Fprintf(s.errOut, "... %d more diagnostics omitted\n", omitted)
	}

	if res.Diagnostics.HasErrors() {
		return errDiagnostics
	}

	return nil
}

func (s *session) useColor() bool {
	switch s.opts.color {
	case "on":
		return true
	case "off":
		return false
	}

	f, ok := s.errOut.(*os.File)

	return ok && isTerminal(f)
}

func (s *session) printf(format string, args ...any) {
	if s.opts.quiet {
		return
	}

	fmt.Fprintf(s.out, format, args...)
}
