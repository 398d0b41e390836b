package parser

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// dependencyCallees are call targets whose first argument names a module.
var dependencyCallees = map[string]bool{
	"require":                   true,
	"require.resolve":           true,
	"require.requireActual":     true,
	"require.requireMock":       true,
	"jest.mock":                 true,
	"jest.unmock":               true,
	"jest.doMock":               true,
	"jest.dontMock":             true,
	"jest.setMock":              true,
	"jest.genMockFromModule":    true,
	"jest.createMockFromModule": true,
	"jest.requireActual":        true,
	"jest.requireMock":          true,
}

// DependencyExtractor finds module-naming string literals in JavaScript and
// TypeScript syntax trees.
type DependencyExtractor struct {
	language string
}

func NewDependencyExtractor(language string) *DependencyExtractor {
	return &DependencyExtractor{language: language}
}

func (e *DependencyExtractor) Extract(root *sitter.Node, source []byte, filePath string) (*File, error) {
	file := &File{
		Path:     filePath,
		Language: e.language,
	}

	ctx := &ExtractionContext{Source: source, File: file}
	engine := NewExtractorEngine(map[string]NodeHandler{
		"import_statement": e.extractImport,
		"export_statement": e.extractExport,
		"call_expression":  e.extractCall,
	})
	engine.Walk(ctx, root)

	return file, nil
}

func (e *DependencyExtractor) extractImport(ctx *ExtractionContext, node *sitter.Node) bool {
	if ctx.AddLiteral(node.ChildByFieldName("source"), FormImport) {
		return true
	}
	// TypeScript: import x = require("y")
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child.Kind() == "import_require_clause" {
			ctx.AddLiteral(child.ChildByFieldName("source"), FormImportRequire)
			return true
		}
	}
	return true
}

func (e *DependencyExtractor) extractExport(ctx *ExtractionContext, node *sitter.Node) bool {
	// Re-exports carry a source; local exports may still contain calls.
	return ctx.AddLiteral(node.ChildByFieldName("source"), FormExport)
}

func (e *DependencyExtractor) extractCall(ctx *ExtractionContext, node *sitter.Node) bool {
	fn := node.ChildByFieldName("function")
	if fn == nil {
		return false
	}

	form := ""
	if fn.Kind() == "import" {
		form = FormDynamicImport
	} else {
		callee := normalizeCallee(ctx.Text(fn))
		if dependencyCallees[callee] {
			form = callee
		}
	}
	if form == "" {
		return false
	}

	args := node.ChildByFieldName("arguments")
	if args == nil || args.NamedChildCount() == 0 {
		return false
	}
	ctx.AddLiteral(args.NamedChild(0), form)
	// Factories passed to jest.mock and friends may hold further requires.
	return false
}

func normalizeCallee(value string) string {
	return strings.Join(strings.Fields(value), "")
}
