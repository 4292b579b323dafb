// Package ast defines the neutral AST representation the core pipeline
// depends on. spec.md places "the concrete AST parser and scope analyzer"
// out of scope as an external collaborator (§1, §6); this package is that
// boundary. A concrete implementation lives in internal/tsparser, backed
// by tree-sitter, but the rewriters in internal/rewrite and the detectors
// in internal/polyfill only ever see the interfaces below.
package ast

// Kind is a coarse syntactic classification of a Node, sufficient for the
// rewriters without requiring a full TypeScript grammar enum.
type Kind int

const (
	KindUnknown Kind = iota
	KindProgram
	KindIdentifier
	KindMemberExpression  // obj.prop
	KindCallExpression    // callee(args...)
	KindImportDeclaration // import ... from "..."
	KindExportAllDeclaration
	KindExportNamedDeclaration
	KindImportCall // dynamic import(...)
	KindTSImportType
	KindTSModuleDeclaration // declare module "..."
	KindTSTypeQuery         // typeof x
	KindTSQualifiedName     // T.U in a type position
	KindStringLiteral
	KindObjectPattern  // destructuring {a, b}
	KindVariableDeclarator
	KindImportMeta // import.meta
	KindComment
)

// Position is a 0-based byte offset range into the source text.
type Position struct {
	Start, End int
}

// Node is the minimal surface every rewriter/detector needs: its kind, its
// source range, literal text, and structural access to children/parent.
// Concrete parsers (tree-sitter, or any other) implement this over their
// native tree without the core needing to know about it.
type Node interface {
	Kind() Kind
	Position() Position
	Text() string
	Children() []Node
	Parent() Node

	// IsDeclarationIdent reports whether this identifier node sits in a
	// declaration-binding position (let/const/class/function/param name,
	// etc.) rather than being a value/type reference — spec.md §4.8's
	// "declaration identifiers" skip list.
	IsDeclarationIdent() bool
}

// Comment is a single line or block comment with its extended range
// (including the comment delimiters) and its trimmed text.
type Comment struct {
	Position    Position // delimiters included
	Text        string   // delimiters included
	Line        int      // 0-based line number the comment starts on
}

// Token is a single lexical token, used by ignore-line scanning to find
// "the next token" after a directive comment.
type Token struct {
	Position Position
	Text     string
	Line     int // 0-based line number
}

// ParseRequest mirrors spec.md §6's parse_program input.
type ParseRequest struct {
	Specifier      string
	Text           string
	MediaType      string
	CaptureTokens  bool
	ScopeAnalysis  bool
}

// ParsedSource is the result of parsing: a root Node plus the scope,
// comment and token side-tables the rewriters consume.
type ParsedSource struct {
	Root     Node
	Comments []Comment
	Tokens   []Token
	Scope    Scope
}

// Scope answers the two scope-analysis questions the pipeline needs
// (spec.md §4.7, §9): is a name declared at module top level, and is a
// given identifier node a free reference (bound in the "unresolved"
// scope) rather than shadowed by some enclosing declaration.
type Scope interface {
	// TopLevelDecls returns every identifier name bound by a top-level
	// declaration (var/let/const, class/function/interface/type/module/
	// namespace, destructuring keys, import specifiers).
	TopLevelDecls() map[string]bool

	// IsUnresolved reports whether the identifier node `n` is a free
	// reference: nothing in any enclosing scope (not just top level)
	// binds its name. Naive "not top-level-declared" checks are
	// insufficient because nested declarations also shadow (spec.md §9).
	IsUnresolved(n Node) bool
}

// Parser is the external collaborator spec.md §6 describes.
type Parser interface {
	ParseProgram(req ParseRequest) (ParsedSource, error)
}
