package webpack

import (
	"log/slog"
	"path/filepath"

	"webpackalias/internal/shared/probe"
)

const packageDirName = "node_modules"

var (
	DefaultExtensions         = []string{"", ".bundle.js", ".web.js", ".js"}
	DefaultModulesDirectories = []string{"node_modules", "web_modules"}
)

// ResolutionConfig is the derived search state. It is built once per run and
// never mutated afterwards.
type ResolutionConfig struct {
	Aliases map[string]string
	// Extensions are tried in order; the empty string allows extensionless
	// matches.
	Extensions []string
	// ModuleDirs are absolute, deduplicated, existing directories in
	// root, modulesDirectories, fallback order.
	ModuleDirs []string
	// NodeModulesDirs is the subset of ModuleDirs holding installed packages.
	// Matches there are left for ordinary package resolution.
	NodeModulesDirs []string
}

// Derive computes the ResolutionConfig for f. Relative directories are taken
// relative to the configuration file; directories fsys cannot see are dropped.
func Derive(f *File, fsys probe.FS) ResolutionConfig {
	rs := f.Resolve

	aliases := make(map[string]string, len(rs.Alias))
	for k, v := range rs.Alias {
		aliases[k] = v
	}

	extensions := DefaultExtensions
	if rs.Extensions.IsSet() {
		extensions = []string(rs.Extensions)
	}

	modulesDirs := StringList(DefaultModulesDirectories)
	if rs.ModulesDirectories.IsSet() {
		modulesDirs = rs.ModulesDirectories
	}

	base := filepath.Dir(f.Path)
	seen := make(map[string]bool)
	var moduleDirs []string
	for _, group := range []StringList{rs.Root, modulesDirs, rs.Fallback} {
		for _, dir := range group {
			abs := dir
			if !filepath.IsAbs(abs) {
				abs = filepath.Join(base, dir)
			}
			abs = filepath.Clean(abs)
			if seen[abs] {
				continue
			}
			seen[abs] = true
			if !fsys.IsDir(abs) {
				slog.Debug("skipping missing module directory", "path", abs)
				continue
			}
			moduleDirs = append(moduleDirs, abs)
		}
	}

	var nodeModules []string
	for _, dir := range moduleDirs {
		if filepath.Base(dir) == packageDirName {
			nodeModules = append(nodeModules, dir)
		}
	}

	return ResolutionConfig{
		Aliases:         aliases,
		Extensions:      append([]string(nil), extensions...),
		ModuleDirs:      moduleDirs,
		NodeModulesDirs: nodeModules,
	}
}

// NewResolutionConfig reads the configuration nearest to startFile and
// derives from it. Failure is fatal for the run.
func NewResolutionConfig(startFile string, fsys probe.FS) (ResolutionConfig, error) {
	f, err := Read(startFile)
	if err != nil {
		return ResolutionConfig{}, err
	}
	return Derive(f, fsys), nil
}

// IsPackageDir reports whether dir is one of the NodeModulesDirs.
func (c ResolutionConfig) IsPackageDir(dir string) bool {
	for _, d := range c.NodeModulesDirs {
		if d == dir {
			return true
		}
	}
	return false
}
