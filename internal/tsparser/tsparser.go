// Package tsparser is the concrete ast.Parser spec.md places out of scope
// (§1, §6): a tree-sitter-typescript backed parser producing the neutral
// ast.ParsedSource the rewriters in internal/rewrite and the detectors in
// internal/polyfill consume. Grounded on bennypowers-cem's generate
// package, which is the only repo in the corpus driving
// tree-sitter/go-tree-sitter directly.
package tsparser

import (
	"fmt"
	"sync"

	ts "github.com/tree-sitter/go-tree-sitter"
	tsTypescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/denoland/dnt-sub000/internal/ast"
)

var (
	tsLanguage  = ts.NewLanguage(tsTypescript.LanguageTypescript())
	tsxLanguage = ts.NewLanguage(tsTypescript.LanguageTSX())
)

// Parser implements ast.Parser. Parsers are not safe for concurrent Parse
// calls in tree-sitter, so Parser pools one *ts.Parser per language
// variant rather than building one per call.
type Parser struct {
	ts  sync.Pool
	tsx sync.Pool
}

// New returns a ready-to-use Parser.
func New() *Parser {
	return &Parser{
		ts:  sync.Pool{New: func() any { return newRawParser(tsLanguage) }},
		tsx: sync.Pool{New: func() any { return newRawParser(tsxLanguage) }},
	}
}

func newRawParser(lang *ts.Language) *ts.Parser {
	p := ts.NewParser()
	if err := p.SetLanguage(lang); err != nil {
		panic(fmt.Sprintf("tsparser: setting language: %v", err))
	}
	return p
}

// pool picks the tree-sitter grammar variant for req.MediaType, the media
// type name (e.g. "TypeScript", "Tsx", "Jsx") the caller assigned this
// module's declared media type (spec.md §4.6/§6).
func (p *Parser) pool(req ast.ParseRequest) *sync.Pool {
	switch req.MediaType {
	case "Tsx", "Jsx":
		return &p.tsx
	default:
		return &p.ts
	}
}

// ParseProgram parses req.Text into the neutral ast.ParsedSource.
func (p *Parser) ParseProgram(req ast.ParseRequest) (ast.ParsedSource, error) {
	pool := p.pool(req)
	rawParser := pool.Get().(*ts.Parser)
	defer pool.Put(rawParser)

	src := []byte(req.Text)
	tree := rawParser.Parse(src, nil)
	if tree == nil {
		return ast.ParsedSource{}, fmt.Errorf("tsparser: failed to parse %s", req.Specifier)
	}
	defer tree.Close()

	lines := newLineIndex(src)
	b := &builder{src: src, lines: lines}
	root := b.build(tree.RootNode(), nil, nil)

	var out ast.ParsedSource
	out.Root = root
	out.Comments = b.comments
	if req.CaptureTokens {
		out.Tokens = b.tokens
	}
	if req.ScopeAnalysis {
		out.Scope = newScope(root.(*node))
	}
	return out, nil
}

type builder struct {
	src      []byte
	lines    lineIndex
	comments []ast.Comment
	tokens   []ast.Token
}

// build constructs the node for tsn and recurses into its children. scope
// is the scope owner active at tsn's position; nodes whose kind opens a
// new scope (introducesScope) become the owner for their own children,
// except for the one child that is the declaration's own bound name (it
// stays registered in the enclosing scope — a function's own name isn't
// visible only inside its own body).
func (b *builder) build(tsn *ts.Node, parent ast.Node, scope *node) ast.Node {
	n := &node{
		kind: kindOf(tsn),
		pos:  ast.Position{Start: int(tsn.StartByte()), End: int(tsn.EndByte())},
		text: tsn.Utf8Text(b.src),
		line: b.lines.lineAt(int(tsn.StartByte())),
		scope: scope,
	}
	n.parent = parent

	ownScope := scope
	if introducesScope[tsn.Kind()] {
		n.scopeDecls = make(map[string]bool)
		ownScope = n
	}
	nameChild := declNameChild(tsn)

	count := int(tsn.ChildCount())
	n.children = make([]ast.Node, 0, count)
	for i := 0; i < count; i++ {
		c := tsn.Child(uint(i))
		if c == nil {
			continue
		}
		childScope := ownScope
		if sameNode(c, nameChild) {
			childScope = scope
		}
		cn := b.build(c, n, childScope)
		if cnode, ok := cn.(*node); ok {
			cnode.isDecl = sameNode(c, nameChild) || (cnode.kind == ast.KindIdentifier && tsn.Kind() == "object_pattern" && c.Kind() == "shorthand_property_identifier_pattern")
			if cnode.kind == ast.KindIdentifier && cnode.isDecl && childScope != nil {
				childScope.scopeDecls[cnode.text] = true
			}
			if c.Kind() == "comment" {
				b.comments = append(b.comments, ast.Comment{
					Position: cnode.pos,
					Text:     cnode.text,
					Line:     cnode.line,
				})
			}
			if int(c.ChildCount()) == 0 && c.Kind() != "comment" {
				b.tokens = append(b.tokens, ast.Token{
					Position: cnode.pos,
					Text:     cnode.text,
					Line:     cnode.line,
				})
			}
		}
		n.children = append(n.children, cn)
	}
	return n
}
