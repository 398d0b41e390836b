// Package rewriter substitutes resolved dependency strings back into source
// text, leaving every other byte untouched.
package rewriter

import (
	"bytes"
	"sort"
	"strings"

	"webpackalias/internal/engine/parser"
	"webpackalias/internal/engine/resolver"
)

// DependencyResolver is the part of *resolver.Resolver the rewriter needs.
type DependencyResolver interface {
	Explain(dependency, filename string) resolver.Resolution
}

// SourceParser is the part of *parser.Parser the rewriter needs.
type SourceParser interface {
	ParseFile(path string, content []byte) (*parser.File, error)
}

type Replacement struct {
	Dependency parser.Dependency
	Resolution resolver.Resolution
}

// Changed reports whether the literal's text differs after resolution.
func (r Replacement) Changed() bool {
	return r.Dependency.Value != r.Resolution.Output
}

type Result struct {
	Source       []byte
	Replacements []Replacement
}

// ChangedCount returns how many literals were altered.
func (r Result) ChangedCount() int {
	n := 0
	for _, rep := range r.Replacements {
		if rep.Changed() {
			n++
		}
	}
	return n
}

type Rewriter struct {
	parser   SourceParser
	resolver DependencyResolver
}

func New(p SourceParser, r DependencyResolver) *Rewriter {
	return &Rewriter{parser: p, resolver: r}
}

// Rewrite resolves every dependency literal in src once, in source order.
// filename must be absolute. Literals containing escape sequences are left
// verbatim, since their raw text is not the module name.
func (rw *Rewriter) Rewrite(filename string, src []byte) (Result, error) {
	file, err := rw.parser.ParseFile(filename, src)
	if err != nil {
		return Result{}, err
	}

	deps := append([]parser.Dependency(nil), file.Dependencies...)
	sort.SliceStable(deps, func(i, j int) bool { return deps[i].Start < deps[j].Start })

	result := Result{Replacements: make([]Replacement, 0, len(deps))}
	var out bytes.Buffer
	out.Grow(len(src))
	last := uint(0)
	for _, dep := range deps {
		if dep.Start < last {
			// Overlapping literal; the enclosing one was already replaced.
			continue
		}
		if strings.ContainsRune(dep.Value, '\\') {
			continue
		}
		res := rw.resolver.Explain(dep.Value, filename)
		result.Replacements = append(result.Replacements, Replacement{Dependency: dep, Resolution: res})

		var quote byte
		if dep.Start > 0 {
			quote = src[dep.Start-1]
		}
		out.Write(src[last:dep.Start])
		out.WriteString(escapeLiteral(res.Output, quote))
		last = dep.End
	}
	out.Write(src[last:])

	result.Source = out.Bytes()
	return result, nil
}

// escapeLiteral makes s safe to place between quote characters.
func escapeLiteral(s string, quote byte) string {
	if !strings.ContainsAny(s, "\\'\"`$") {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\', c == quote && quote != 0:
			b.WriteByte('\\')
		case c == '$' && quote == '`' && i+1 < len(s) && s[i+1] == '{':
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	return b.String()
}
