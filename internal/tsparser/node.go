package tsparser

import (
	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/denoland/dnt-sub000/internal/ast"
)

// node is the concrete ast.Node tree-sitter backs. The whole tree is built
// eagerly (not lazily wrapped) so Parent() is a plain field read instead of
// a tree-sitter cursor walk, and so scope analysis (scope.go) can attach
// its own bookkeeping to the nodes it needs without a second pass.
type node struct {
	kind     ast.Kind
	pos      ast.Position
	text     string
	line     int
	children []ast.Node
	parent   ast.Node
	isDecl   bool

	// scope is the nearest enclosing scope owner at this node's position;
	// only scope owners (see introducesScope) carry a non-nil scopeDecls.
	scope      *node
	scopeDecls map[string]bool
}

func (n *node) Kind() ast.Kind          { return n.kind }
func (n *node) Position() ast.Position  { return n.pos }
func (n *node) Text() string            { return n.text }
func (n *node) Children() []ast.Node    { return n.children }
func (n *node) Parent() ast.Node        { return n.parent }
func (n *node) IsDeclarationIdent() bool { return n.isDecl }

// declNameField maps a declaration-introducing tree-sitter node kind to
// the field holding its bound identifier. import_specifier is handled
// separately since the binding is "alias" when present, "name" otherwise.
var declNameField = map[string]string{
	"variable_declarator":            "name",
	"function_declaration":           "name",
	"generator_function_declaration": "name",
	"class_declaration":              "name",
	"abstract_class_declaration":     "name",
	"interface_declaration":          "name",
	"type_alias_declaration":         "name",
	"enum_declaration":               "name",
	"module":                         "name",
	"internal_module":                "name",
	"namespace_import":               "name",
	"required_parameter":             "pattern",
	"optional_parameter":             "pattern",
	"catch_clause":                   "parameter",
	"public_field_definition":        "name",
	"method_definition":              "name",
}

// introducesScope lists tree-sitter node kinds that open a fresh lexical
// scope: declarations inside them don't leak to the enclosing one, and a
// name bound here shadows the same name further out (spec.md §9).
var introducesScope = map[string]bool{
	"program":                         true,
	"function_declaration":           true,
	"function_expression":            true,
	"generator_function_declaration": true,
	"generator_function_expression":  true,
	"arrow_function":                 true,
	"method_definition":              true,
	"class_body":                     true,
	"catch_clause":                   true,
	"statement_block":                true,
	"internal_module":                true,
	"module":                         true,
}

func kindOf(tsn *ts.Node) ast.Kind {
	switch tsn.Kind() {
	case "program":
		return ast.KindProgram
	case "identifier", "property_identifier", "type_identifier",
		"shorthand_property_identifier", "shorthand_property_identifier_pattern":
		return ast.KindIdentifier
	case "member_expression":
		return ast.KindMemberExpression
	case "call_expression":
		if isDynamicImport(tsn) {
			return ast.KindImportCall
		}
		return ast.KindCallExpression
	case "import_statement":
		return ast.KindImportDeclaration
	case "export_statement":
		if isExportAll(tsn) {
			return ast.KindExportAllDeclaration
		}
		return ast.KindExportNamedDeclaration
	case "import_type":
		return ast.KindTSImportType
	case "ambient_declaration", "internal_module", "module":
		return ast.KindTSModuleDeclaration
	case "type_query":
		return ast.KindTSTypeQuery
	case "nested_type_identifier", "qualified_name":
		return ast.KindTSQualifiedName
	case "string", "string_fragment":
		return ast.KindStringLiteral
	case "object_pattern":
		return ast.KindObjectPattern
	case "variable_declarator":
		return ast.KindVariableDeclarator
	case "meta_property":
		if tsn.ChildCount() > 0 {
			if c := tsn.Child(0); c != nil && c.Kind() == "import" {
				return ast.KindImportMeta
			}
		}
		return ast.KindUnknown
	case "comment":
		return ast.KindComment
	default:
		return ast.KindUnknown
	}
}

func isDynamicImport(tsn *ts.Node) bool {
	fn := tsn.ChildByFieldName("function")
	return fn != nil && fn.Kind() == "import"
}

func isExportAll(tsn *ts.Node) bool {
	for i := 0; i < int(tsn.ChildCount()); i++ {
		c := tsn.Child(uint(i))
		if c == nil {
			continue
		}
		if c.Kind() == "*" {
			return true
		}
		if c.Kind() == "namespace_export" {
			for j := 0; j < int(c.ChildCount()); j++ {
				gc := c.Child(uint(j))
				if gc != nil && gc.Kind() == "*" {
					return true
				}
			}
		}
	}
	return false
}

// declNameChild returns the raw tree-sitter child of tsn that, if present,
// is a declaration binding rather than a reference — the child isDeclIdent
// should treat specially when deciding which scope to register the name
// into (see buildNode in tsparser.go).
func declNameChild(tsn *ts.Node) *ts.Node {
	kind := tsn.Kind()
	if kind == "import_specifier" {
		if alias := tsn.ChildByFieldName("alias"); alias != nil {
			return alias
		}
		return tsn.ChildByFieldName("name")
	}
	field, ok := declNameField[kind]
	if !ok {
		return nil
	}
	return tsn.ChildByFieldName(field)
}

func sameNode(a, b *ts.Node) bool {
	if a == nil || b == nil {
		return false
	}
	return a.Id() == b.Id()
}
