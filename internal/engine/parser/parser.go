package parser

import (
	"fmt"

	"webpackalias/internal/core/errors"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

type Extractor interface {
	Extract(node *sitter.Node, source []byte, filePath string) (*File, error)
}

type Parser struct {
	loader     *GrammarLoader
	extractors map[string]Extractor
	pools      map[string]*ParserPool
}

// NewParser returns a parser with the dependency extractor registered for
// every supported language.
func NewParser(loader *GrammarLoader) *Parser {
	p := &Parser{
		loader:     loader,
		extractors: make(map[string]Extractor),
		pools:      make(map[string]*ParserPool),
	}
	for _, lang := range []string{LangJavaScript, LangTypeScript, LangTSX} {
		p.RegisterExtractor(lang, NewDependencyExtractor(lang))
		p.pools[lang] = NewParserPool(loader.Language(lang))
	}
	return p
}

func (p *Parser) RegisterExtractor(lang string, e Extractor) {
	p.extractors[lang] = e
}

func (p *Parser) IsSupportedPath(path string) bool {
	return LanguageForPath(path) != ""
}

func (p *Parser) ParseFile(path string, content []byte) (*File, error) {
	lang := LanguageForPath(path)
	if lang == "" {
		return nil, errors.New(errors.CodeNotSupported, "unsupported language").
			WithContext(errors.CtxPath, path)
	}

	extractor := p.extractors[lang]
	if extractor == nil {
		return nil, errors.New(errors.CodeNotSupported, fmt.Sprintf("no extractor for: %s", lang))
	}

	pool := p.pools[lang]
	sp := pool.Get()
	defer pool.Put(sp)

	tree := sp.Parse(content, nil)
	if tree == nil {
		return nil, errors.New(errors.CodeInternal, "parse failed").
			WithContext(errors.CtxPath, path)
	}
	defer tree.Close()

	res, err := extractor.Extract(tree.RootNode(), content, path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "extraction failed")
	}
	return res, nil
}
