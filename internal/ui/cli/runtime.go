package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	coreapp "webpackalias/internal/core/app"
	"webpackalias/internal/core/config"
	"webpackalias/internal/shared/observability"
)

// Run executes the command line and returns the process exit code.
// Rewritten source and reports go to stdout; logs go to stderr.
func Run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseOptions(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if opts.version {
		fmt.Fprintf(stdout, "webpackalias v%s\n", versionString)
		return 0
	}

	configureLogging(stderr, opts.verbose)

	if err := validateModeCompatibility(opts); err != nil {
		fmt.Fprintln(stderr, err.Error())
		return 2
	}

	cfg, cfgPath, err := loadConfig(opts.configPath)
	if err != nil {
		slog.Error("failed to load config", "path", opts.configPath, "error", err)
		return 1
	}
	if cfgPath != "" {
		slog.Debug("loaded config", "path", cfgPath)
	}
	config.ApplyEnvOverrides(cfg)
	applyModeOptions(opts, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, cfg.Observability.OTLPEndpoint, cfg.Observability.ServiceName)
	if err != nil {
		slog.Error("failed to initialize tracing", "error", err)
		return 1
	}
	defer flushTracing(shutdownTracing)

	app, err := coreapp.New(cfg)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		return 1
	}
	defer app.Close()
	app.DryRun = opts.dryRun

	if addr := cfg.Observability.MetricsAddr; addr != "" {
		server := NewObservabilityServer(addr, coreapp.NewHealthService(app))
		if err := server.Start(ctx); err != nil {
			slog.Error("failed to start observability server", "addr", addr, "error", err)
			return 1
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Stop(shutdownCtx)
		}()
	}

	switch {
	case opts.resolve != "":
		return runResolve(app, opts, stdout)
	case opts.stdinFilename != "":
		return runStdin(ctx, app, opts.stdinFilename, stdin, stdout)
	}

	summary, err := app.Run(ctx)
	if err != nil {
		slog.Error("rewrite failed", "error", err)
		return 1
	}
	printSummary(stdout, summary, opts.dryRun)

	if !opts.watch {
		if summary.Failed > 0 {
			return 1
		}
		return 0
	}

	if err := app.StartWatcher(); err != nil {
		slog.Error("failed to start watcher", "error", err)
		return 1
	}
	slog.Info("watching for changes", "paths", cfg.Paths, "debounce", cfg.Watch.Debounce)
	<-ctx.Done()
	slog.Info("shutting down")
	return 0
}

func runResolve(app *coreapp.App, opts cliOptions, stdout io.Writer) int {
	res, err := app.Explain(opts.resolve, opts.from)
	if err != nil {
		slog.Error("failed to resolve dependency", "dependency", opts.resolve, "from", opts.from, "error", err)
		return 1
	}
	slog.Debug("resolution",
		"dependency", res.Dependency,
		"kind", res.Kind,
		"alias", res.Alias,
		"module_dir", res.ModuleDir,
	)
	fmt.Fprintln(stdout, res.Output)
	return 0
}

func runStdin(ctx context.Context, app *coreapp.App, filename string, stdin io.Reader, stdout io.Writer) int {
	src, err := io.ReadAll(stdin)
	if err != nil {
		slog.Error("failed to read stdin", "error", err)
		return 1
	}
	result, err := app.TransformSource(ctx, filename, src)
	if err != nil {
		slog.Error("failed to rewrite source", "path", filename, "error", err)
		return 1
	}
	if _, err := stdout.Write(result.Source); err != nil {
		slog.Error("failed to write output", "error", err)
		return 1
	}
	return 0
}

func printSummary(w io.Writer, summary coreapp.Summary, dryRun bool) {
	for _, f := range summary.Files {
		if f.Changed == 0 {
			continue
		}
		if dryRun {
			fmt.Fprintf(w, "would rewrite %s -> %s (%d of %d dependencies)\n", f.Path, f.Output, f.Changed, f.Dependencies)
		} else {
			fmt.Fprintf(w, "rewrote %s -> %s (%d of %d dependencies)\n", f.Path, f.Output, f.Changed, f.Dependencies)
		}
	}
	fmt.Fprintf(w, "%d files processed, %d changed, %d failed in %s\n",
		len(summary.Files), summary.ChangedFiles(), summary.Failed, summary.Duration.Round(time.Millisecond))
}

// loadConfig reads the tool config. A missing default config file means
// defaults apply; an explicitly named file must exist.
func loadConfig(path string) (*config.Config, string, error) {
	cfg, err := config.Load(path)
	if err == nil {
		return cfg, path, nil
	}
	if path == defaultConfigPath && os.IsNotExist(err) {
		return config.DefaultConfig(), "", nil
	}
	return nil, "", err
}

func applyModeOptions(opts cliOptions, cfg *config.Config) {
	if len(opts.args) > 0 {
		cfg.Paths = append([]string(nil), opts.args...)
	}
	if opts.outDir != "" {
		cfg.OutDir = opts.outDir
	}
	if opts.metricsAddr != "" {
		cfg.Observability.MetricsAddr = opts.metricsAddr
	}
}

func validateModeCompatibility(opts cliOptions) error {
	modes := 0
	for _, on := range []bool{opts.resolve != "", opts.stdinFilename != "", opts.watch} {
		if on {
			modes++
		}
	}
	if modes > 1 {
		return fmt.Errorf("--resolve, --stdin-filename and --watch cannot be combined")
	}
	if (opts.resolve == "") != (opts.from == "") {
		return fmt.Errorf("--resolve and --from must be used together")
	}
	if opts.dryRun && (opts.resolve != "" || opts.stdinFilename != "") {
		return fmt.Errorf("--dry-run only applies to batch and watch modes")
	}
	if len(opts.args) > 0 && (opts.resolve != "" || opts.stdinFilename != "") {
		return fmt.Errorf("positional paths only apply to batch and watch modes")
	}
	return nil
}

func configureLogging(output io.Writer, verbose bool) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)
}

func flushTracing(shutdown func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		slog.Warn("failed to flush traces", "error", err)
	}
}
