// Package resolver rewrites bundler-style dependency strings into plain
// relative paths that ordinary module resolution can follow.
package resolver

import (
	"path/filepath"

	"webpackalias/internal/engine/webpack"
	"webpackalias/internal/shared/probe"
)

type Kind string

const (
	// KindRelative: a relative dependency, at most an extension was appended.
	KindRelative Kind = "relative"
	// KindRewritten: a bare dependency rewritten to a relative path.
	KindRewritten Kind = "rewritten"
	// KindDeferred: a bare dependency left for ordinary package resolution.
	KindDeferred Kind = "deferred"
)

// Resolution describes how one dependency was resolved.
type Resolution struct {
	Dependency string
	Output     string
	Kind       Kind
	// Alias is the alias value applied, if any.
	Alias string
	// ModuleDir is the module directory the dependency matched, if any.
	ModuleDir string
}

type Resolver struct {
	cfg webpack.ResolutionConfig
	fs  probe.FS
}

func New(cfg webpack.ResolutionConfig, fsys probe.FS) *Resolver {
	if fsys == nil {
		fsys = probe.OS()
	}
	return &Resolver{cfg: cfg, fs: fsys}
}

func (r *Resolver) Config() webpack.ResolutionConfig {
	return r.cfg
}

// Resolve returns the string to substitute for dependency in filename.
func (r *Resolver) Resolve(dependency, filename string) string {
	return r.Explain(dependency, filename).Output
}

func (r *Resolver) Explain(dependency, filename string) Resolution {
	res := Resolution{Dependency: dependency}
	if IsRelative(dependency) {
		res.Kind = KindRelative
		res.Output = r.resolveRelative(dependency, filename)
		return res
	}

	mod := ParseModulePath(dependency)
	if alias, ok := r.cfg.Aliases[mod.First]; ok && alias != "" {
		mod = mod.WithAlias(alias)
		res.Alias = alias
	}

	dir, ext, ok := r.locateModuleDir(mod)
	if !ok || r.cfg.IsPackageDir(dir) {
		res.Kind = KindDeferred
		res.ModuleDir = dir
		res.Output = mod.String()
		return res
	}

	matched := filepath.Join(dir, mod.First) + ext
	target := matched
	if mod.Rest != "" {
		target = filepath.Join(matched, mod.Rest)
	}
	out := RelativeImport(filepath.Dir(filename), target)
	if mod.Rest != "" {
		restExt, _ := r.resolveExtension(target)
		out += restExt
	}

	res.Kind = KindRewritten
	res.ModuleDir = dir
	res.Output = out
	return res
}

func (r *Resolver) resolveRelative(dependency, filename string) string {
	target := filepath.Join(filepath.Dir(filename), dependency)
	ext, _ := r.resolveExtension(target)
	return dependency + ext
}

// resolveExtension returns the first configured extension for which target's
// parent directory holds an entry named base(target)+ext.
func (r *Resolver) resolveExtension(target string) (string, bool) {
	dir := filepath.Dir(target)
	for _, ext := range r.cfg.Extensions {
		if probe.DirHas(r.fs, dir, filepath.Base(target+ext)) {
			return ext, true
		}
	}
	return "", false
}

// locateModuleDir picks the first module directory that can serve mod. With a
// sub-path the directory only needs an entry named mod.First; without one,
// mod.First itself has to match an extension.
func (r *Resolver) locateModuleDir(mod ModulePath) (dir, ext string, ok bool) {
	for _, candidate := range r.cfg.ModuleDirs {
		if mod.Rest != "" {
			if probe.DirHas(r.fs, candidate, mod.First) {
				return candidate, "", true
			}
			continue
		}
		if ext, found := r.resolveExtension(filepath.Join(candidate, mod.First)); found {
			return candidate, ext, true
		}
	}
	return "", "", false
}
