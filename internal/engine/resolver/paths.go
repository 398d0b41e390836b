package resolver

import (
	"path/filepath"
	"strings"
)

// IsRelative reports whether dep is resolved against the referencing file
// rather than the module search path.
func IsRelative(dep string) bool {
	return strings.HasPrefix(dep, ".")
}

// ModulePath is a bare dependency split at its first slash.
type ModulePath struct {
	First string
	Rest  string
}

func ParseModulePath(dep string) ModulePath {
	first, rest, _ := strings.Cut(dep, "/")
	return ModulePath{First: first, Rest: rest}
}

func (m ModulePath) String() string {
	if m.Rest == "" {
		return m.First
	}
	return m.First + "/" + m.Rest
}

// WithAlias substitutes the first segment with alias. The caller's own rest
// wins; the alias's trailing segments only fill in when there is none.
func (m ModulePath) WithAlias(alias string) ModulePath {
	target := ParseModulePath(alias)
	rest := m.Rest
	if rest == "" {
		rest = target.Rest
	}
	return ModulePath{First: target.First, Rest: rest}
}

// RelativeImport returns target relative to fromDir in slash form. The result
// always starts with "./" or "../" so it cannot be read as a bare module name,
// including when the first segment is a dot-directory such as ".storybook".
func RelativeImport(fromDir, target string) string {
	rel, err := filepath.Rel(fromDir, target)
	if err != nil {
		rel = target
	}
	rel = filepath.ToSlash(rel)
	switch {
	case rel == ".":
		return "./"
	case rel == "..":
		return "../"
	case strings.HasPrefix(rel, "../"):
		return rel
	}
	return "./" + rel
}
