package app

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"webpackalias/internal/core/config"
	"webpackalias/internal/core/errors"
	"webpackalias/internal/core/watcher"
	"webpackalias/internal/engine/parser"
	"webpackalias/internal/engine/resolver"
	"webpackalias/internal/engine/rewriter"
	"webpackalias/internal/engine/webpack"
	"webpackalias/internal/shared/observability"
	"webpackalias/internal/shared/probe"
	"webpackalias/internal/shared/util"

	"github.com/gobwas/glob"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type App struct {
	Config *config.Config
	Parser *parser.Parser
	DryRun bool

	fs           probe.FS
	extensions   map[string]bool
	excludeDirs  []glob.Glob
	excludeFiles []glob.Glob

	// The resolution config is built once, from the bundler config nearest
	// to the first file processed, and reused for every later file.
	mu            sync.Mutex
	resolver      *resolver.Resolver
	activeWatcher *watcher.Watcher
}

type Option func(*App)

// WithFS replaces the filesystem used for resolution probes.
func WithFS(fsys probe.FS) Option {
	return func(a *App) {
		if fsys != nil {
			a.fs = fsys
		}
	}
}

func New(cfg *config.Config, opts ...Option) (*App, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := config.Validate(cfg); err != nil {
		return nil, errors.Wrap(err, errors.CodeValidationError, "invalid configuration")
	}

	exts := make(map[string]bool, len(cfg.Extensions))
	for _, ext := range cfg.Extensions {
		exts[ext] = true
	}

	a := &App{
		Config:       cfg,
		Parser:       parser.NewParser(parser.NewGrammarLoader()),
		fs:           probe.OS(),
		extensions:   exts,
		excludeDirs:  compileGlobs(cfg.Exclude.Dirs),
		excludeFiles: compileGlobs(cfg.Exclude.Files),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Resolver returns the shared resolver, building the resolution config from
// filename on first use. A configured webpack_config skips discovery.
func (a *App) Resolver(filename string) (*resolver.Resolver, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.resolver != nil {
		return a.resolver, nil
	}

	var (
		cfg webpack.ResolutionConfig
		err error
	)
	if a.Config.WebpackConfig != "" {
		var f *webpack.File
		f, err = webpack.Load(a.Config.WebpackConfig)
		if err == nil {
			cfg = webpack.Derive(f, a.fs)
		}
	} else {
		cfg, err = webpack.NewResolutionConfig(filename, a.fs)
	}
	if err != nil {
		return nil, err
	}

	a.resolver = resolver.New(cfg, a.fs)
	observability.ModuleDirs.Set(float64(len(cfg.ModuleDirs)))
	slog.Info("resolution config loaded",
		"aliases", strings.Join(util.SortedStringKeys(cfg.Aliases), ","),
		"extensions", strings.Join(cfg.Extensions, ","),
		"module_dirs", len(cfg.ModuleDirs),
		"package_dirs", len(cfg.NodeModulesDirs),
	)
	return a.resolver, nil
}

func (a *App) loadedResolver() *resolver.Resolver {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.resolver
}

func (a *App) loadedWatcher() *watcher.Watcher {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.activeWatcher
}

// TransformSource rewrites every dependency literal in src. Files the parser
// has no grammar for are returned untouched.
func (a *App) TransformSource(ctx context.Context, filename string, src []byte) (rewriter.Result, error) {
	return a.transform(ctx, filename, "", src)
}

// transform rewrites src as read from filename. A non-empty output names the
// file the result will be written to; relative results are then expressed
// from there instead of from filename.
func (a *App) transform(ctx context.Context, filename, output string, src []byte) (rewriter.Result, error) {
	abs, err := filepath.Abs(filename)
	if err != nil {
		return rewriter.Result{}, errors.Wrap(err, errors.CodeInternal, "resolve absolute path").
			WithContext(errors.CtxPath, filename)
	}

	_, span := observability.Tracer.Start(ctx, "App.TransformSource", trace.WithAttributes(
		attribute.String("path", abs),
	))
	defer span.End()

	if !a.Parser.IsSupportedPath(abs) {
		slog.Debug("passing through unsupported file", "path", abs)
		return rewriter.Result{Source: src}, nil
	}

	r, err := a.Resolver(abs)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "resolution config")
		return rewriter.Result{}, err
	}

	var deps rewriter.DependencyResolver = r
	if output != "" {
		deps = outputResolver{
			app:    a,
			inner:  r,
			srcDir: filepath.Dir(abs),
			outDir: filepath.Dir(output),
		}
		span.SetAttributes(attribute.String("output", output))
	}

	start := time.Now()
	result, err := rewriter.New(a.Parser, deps).Rewrite(abs, src)
	observability.ProcessingDuration.WithLabelValues(parser.LanguageForPath(abs)).Observe(time.Since(start).Seconds())
	if err != nil {
		observability.FilesProcessedTotal.WithLabelValues(observability.StatusFailed).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "rewrite")
		return rewriter.Result{}, errors.AddContext(err, errors.CtxPath, abs)
	}

	for _, rep := range result.Replacements {
		observability.DependenciesResolvedTotal.WithLabelValues(string(rep.Resolution.Kind)).Inc()
		slog.Debug("resolved dependency",
			"path", abs,
			"dependency", rep.Dependency.Value,
			"output", rep.Resolution.Output,
			"kind", rep.Resolution.Kind,
		)
	}

	status := observability.StatusUnchanged
	if result.ChangedCount() > 0 {
		status = observability.StatusRewritten
	}
	observability.FilesProcessedTotal.WithLabelValues(status).Inc()
	span.SetAttributes(
		attribute.Int("dependencies", len(result.Replacements)),
		attribute.Int("changed", result.ChangedCount()),
	)
	return result, nil
}

// Explain resolves a single dependency as if it appeared in from.
func (a *App) Explain(dependency, from string) (resolver.Resolution, error) {
	abs, err := filepath.Abs(from)
	if err != nil {
		return resolver.Resolution{}, errors.Wrap(err, errors.CodeInternal, "resolve absolute path").
			WithContext(errors.CtxPath, from)
	}
	r, err := a.Resolver(abs)
	if err != nil {
		return resolver.Resolution{}, errors.AddContext(err, errors.CtxDependency, dependency)
	}
	return r.Explain(dependency, abs), nil
}

func (a *App) Close() error {
	if w := a.loadedWatcher(); w != nil {
		return w.Close()
	}
	return nil
}

// compileGlobs compiles patterns already checked by config validation.
func compileGlobs(patterns []string) []glob.Glob {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		if g, err := glob.Compile(p); err == nil {
			globs = append(globs, g)
		}
	}
	return globs
}
