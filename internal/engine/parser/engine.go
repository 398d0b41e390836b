package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// NodeHandler processes a node. Returning true skips the node's children.
type NodeHandler func(ctx *ExtractionContext, node *sitter.Node) bool

// ExtractionContext carries shared state/helpers used by all extractors.
type ExtractionContext struct {
	Source []byte
	File   *File
}

// ExtractorEngine walks the syntax tree and dispatches node handlers by kind.
type ExtractorEngine struct {
	handlers map[string]NodeHandler
}

func NewExtractorEngine(handlers map[string]NodeHandler) *ExtractorEngine {
	return &ExtractorEngine{handlers: handlers}
}

func (e *ExtractorEngine) Walk(ctx *ExtractionContext, node *sitter.Node) {
	if node == nil {
		return
	}

	if handler, ok := e.handlers[node.Kind()]; ok {
		if handler(ctx, node) {
			return
		}
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		e.Walk(ctx, node.Child(i))
	}
}

func (c *ExtractionContext) Text(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	start, end := node.StartByte(), node.EndByte()
	if start >= end || end > uint(len(c.Source)) {
		return ""
	}
	return string(c.Source[start:end])
}

func (c *ExtractionContext) Location(node *sitter.Node) Location {
	return Location{
		File:   c.File.Path,
		Line:   int(node.StartPosition().Row) + 1,
		Column: int(node.StartPosition().Column) + 1,
	}
}

// AddLiteral records node as a dependency if it is a plain string literal or
// a template string without substitutions. Anything else is ignored.
func (c *ExtractionContext) AddLiteral(node *sitter.Node, form string) bool {
	if node == nil {
		return false
	}
	switch node.Kind() {
	case "string":
	case "template_string":
		for i := uint(0); i < node.NamedChildCount(); i++ {
			if node.NamedChild(i).Kind() == "template_substitution" {
				return false
			}
		}
	default:
		return false
	}

	start, end := node.StartByte(), node.EndByte()
	if end-start < 2 || end > uint(len(c.Source)) {
		return false
	}
	start++
	end--

	c.File.Dependencies = append(c.File.Dependencies, Dependency{
		Value:    string(c.Source[start:end]),
		Start:    start,
		End:      end,
		Form:     form,
		Location: c.Location(node),
	})
	return true
}
