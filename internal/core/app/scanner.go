package app

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"webpackalias/internal/core/errors"
	"webpackalias/internal/shared/util"

	"github.com/gobwas/glob"
	"github.com/google/uuid"
)

// FileReport describes one processed source file.
type FileReport struct {
	Path         string
	Output       string
	Dependencies int
	Changed      int
}

type Summary struct {
	RunID    string
	Files    []FileReport
	Failed   int
	Duration time.Duration
}

// ChangedFiles counts files with at least one rewritten dependency.
func (s Summary) ChangedFiles() int {
	n := 0
	for _, f := range s.Files {
		if f.Changed > 0 {
			n++
		}
	}
	return n
}

// Run rewrites every source file under the configured paths into out_dir.
// A bundler config that cannot be found or parsed aborts the run; per-file
// failures are logged and counted.
func (a *App) Run(ctx context.Context) (Summary, error) {
	summary := Summary{RunID: uuid.NewString()}
	logger := slog.With("run_id", summary.RunID)
	start := time.Now()

	if a.Config.OutDir == "" && !a.DryRun {
		return summary, errors.New(errors.CodeValidationError, "out_dir is required to rewrite files in batch mode")
	}

	files, err := a.ScanDirectories(a.Config.Paths, a.Config.Exclude.Dirs, a.Config.Exclude.Files)
	if err != nil {
		return summary, err
	}
	logger.Info("scan complete", "files", len(files), "dry_run", a.DryRun)

	if len(files) > 0 {
		if _, err := a.Resolver(files[0]); err != nil {
			return summary, err
		}
	}

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		report, err := a.ProcessFile(ctx, path)
		if err != nil {
			summary.Failed++
			logger.Warn("failed to process file", "path", path, "error", err)
			continue
		}
		summary.Files = append(summary.Files, report)
	}

	summary.Duration = time.Since(start)
	logger.Info("run complete",
		"files", len(summary.Files),
		"changed", summary.ChangedFiles(),
		"failed", summary.Failed,
		"duration", summary.Duration,
	)
	return summary, nil
}

// ScanDirectories walks paths and returns the absolute, sorted list of
// source files with a configured extension. Directories whose base name
// matches excludeDirs are skipped (the roots themselves never are), as is
// out_dir.
func (a *App) ScanDirectories(paths []string, excludeDirs, excludeFiles []string) ([]string, error) {
	dirGlobs := make([]glob.Glob, 0, len(excludeDirs))
	for _, p := range excludeDirs {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude dir pattern %q: %w", p, err)
		}
		dirGlobs = append(dirGlobs, g)
	}

	fileGlobs := make([]glob.Glob, 0, len(excludeFiles))
	for _, p := range excludeFiles {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude file pattern %q: %w", p, err)
		}
		fileGlobs = append(fileGlobs, g)
	}

	seen := make(map[string]bool)
	var files []string
	for _, root := range paths {
		absRoot, err := filepath.Abs(root)
		if err != nil {
			return nil, err
		}
		err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			base := filepath.Base(path)
			if d.IsDir() {
				if path == absRoot {
					return nil
				}
				if a.inOutDir(path) {
					return filepath.SkipDir
				}
				for _, g := range dirGlobs {
					if g.Match(base) {
						return filepath.SkipDir
					}
				}
				return nil
			}

			if !a.hasSourceExtension(path) {
				return nil
			}
			for _, g := range fileGlobs {
				if g.Match(base) {
					return nil
				}
			}

			if !seen[path] {
				seen[path] = true
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeNotFound, "scan input path").
				WithContext(errors.CtxPath, root)
		}
	}

	sort.Strings(files)
	return files, nil
}

// ProcessFile rewrites path and, unless in dry-run mode, writes the result
// to its mirrored location under out_dir. Relative references in the result
// are valid from that location.
func (a *App) ProcessFile(ctx context.Context, path string) (FileReport, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return FileReport{}, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return FileReport{}, errors.Wrap(err, errors.CodeNotFound, "stat source file").
			WithContext(errors.CtxPath, abs)
	}
	content, err := os.ReadFile(abs)
	if err != nil {
		return FileReport{}, errors.Wrap(err, errors.CodeInternal, "read source file").
			WithContext(errors.CtxPath, abs)
	}

	var out string
	if a.Config.OutDir != "" {
		if out, err = a.OutputPath(abs); err != nil {
			return FileReport{}, err
		}
	}

	result, err := a.transform(ctx, abs, out, content)
	if err != nil {
		return FileReport{}, err
	}

	report := FileReport{
		Path:         abs,
		Output:       out,
		Dependencies: len(result.Replacements),
		Changed:      result.ChangedCount(),
	}

	if out == "" || a.DryRun {
		return report, nil
	}
	if err := util.WriteFileWithDirs(out, result.Source, info.Mode().Perm()); err != nil {
		return FileReport{}, errors.Wrap(err, errors.CodeInternal, "write rewritten file").
			WithContext(errors.CtxPath, out)
	}
	slog.Debug("wrote rewritten file", "path", abs, "output", out, "changed", report.Changed)
	return report, nil
}

// OutputPath maps a source file into out_dir. The file keeps its path
// relative to the input root containing it; with several input roots that
// relative path is prefixed by the root's base name.
func (a *App) OutputPath(path string) (string, error) {
	if a.Config.OutDir == "" {
		return "", errors.New(errors.CodeValidationError, "out_dir is not configured")
	}
	outDir, err := filepath.Abs(a.Config.OutDir)
	if err != nil {
		return "", err
	}

	root, err := a.containingRoot(path)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", err
	}
	if len(a.Config.Paths) > 1 {
		rel = filepath.Join(filepath.Base(root), rel)
	}
	return filepath.Join(outDir, rel), nil
}

// containingRoot returns the deepest configured input root holding path.
func (a *App) containingRoot(path string) (string, error) {
	best := ""
	for _, p := range a.Config.Paths {
		absRoot, err := filepath.Abs(p)
		if err != nil {
			continue
		}
		if util.IsWithin(path, absRoot) && len(absRoot) > len(best) {
			best = absRoot
		}
	}
	if best == "" {
		return "", errors.New(errors.CodeValidationError, "file is outside every input path").
			WithContext(errors.CtxPath, path)
	}
	return best, nil
}

func (a *App) inOutDir(path string) bool {
	return a.Config.OutDir != "" && util.IsWithin(path, a.Config.OutDir)
}

func (a *App) hasSourceExtension(path string) bool {
	return a.extensions[strings.ToLower(filepath.Ext(path))]
}
