package app

import (
	"path/filepath"
	"strings"

	"webpackalias/internal/engine/resolver"
	"webpackalias/internal/engine/rewriter"
)

// outputResolver re-expresses resolutions made for a source file so they hold
// from that file's location under out_dir. Targets that are themselves
// mirrored point at their mirrored copy; anything else points back at the
// original file.
type outputResolver struct {
	app    *App
	inner  rewriter.DependencyResolver
	srcDir string
	outDir string
}

func (r outputResolver) Explain(dependency, filename string) resolver.Resolution {
	res := r.inner.Explain(dependency, filename)
	if res.Kind == resolver.KindDeferred {
		return res
	}

	target := filepath.Join(r.srcDir, filepath.FromSlash(res.Output))
	if mirrored, ok := r.app.mirroredPath(target); ok {
		target = mirrored
	}

	out := resolver.RelativeImport(r.outDir, target)
	if strings.HasSuffix(res.Output, "/") && !strings.HasSuffix(out, "/") {
		out += "/"
	}
	res.Output = out
	return res
}

// mirroredPath returns where a batch run writes path, if it writes it at all.
func (a *App) mirroredPath(path string) (string, bool) {
	if a.Config.OutDir == "" || !a.hasSourceExtension(path) || a.inOutDir(path) {
		return "", false
	}
	root, err := a.containingRoot(path)
	if err != nil || a.isExcluded(root, path) {
		return "", false
	}
	out, err := a.OutputPath(path)
	if err != nil {
		return "", false
	}
	return out, true
}

// isExcluded applies the exclude patterns to path the way a scan of root
// would: directory patterns to every directory below root, file patterns to
// the base name.
func (a *App) isExcluded(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return true
	}
	parts := strings.Split(rel, string(filepath.Separator))
	for _, dir := range parts[:len(parts)-1] {
		for _, g := range a.excludeDirs {
			if g.Match(dir) {
				return true
			}
		}
	}
	base := parts[len(parts)-1]
	for _, g := range a.excludeFiles {
		if g.Match(base) {
			return true
		}
	}
	return false
}
