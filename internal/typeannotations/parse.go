package typeannotations

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/toyz/pystubgen/internal/errors"
	"github.com/toyz/pystubgen/internal/importhelpers"
)

// exprNode is `Term ('|' Term)*`
type exprNode struct {
	Terms []*termNode `parser:"@@ ( '|' @@ )*"`
}

type termNode struct {
	Ellipsis bool         `parser:"  @Ellipsis"`
	Literal  *literalNode `parser:"| @@"`
	Ref      *refNode     `parser:"| @@"`
}

type literalNode struct {
	Values []string `parser:"'Literal' '[' @String ( ',' @String )* ']'"`
}

type refNode struct {
	Path []string    `parser:"@Ident ( '.' @Ident )*"`
	Args []*exprNode `parser:"( '[' @@ ( ',' @@ )* ']' )?"`
}

var expressionParser = participle.MustBuild[exprNode](
	participle.Lexer(lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Ellipsis", Pattern: `\.\.\.`},
		{Name: "String", Pattern: `'(\\'|[^'])*'|"(\\"|[^"])*"`},
		{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
		{Name: "Punct", Pattern: `[\[\],.|]`},
		{Name: "Whitespace", Pattern: `\s+`},
	})),
	participle.Elide("Whitespace"),
	participle.UseLookahead(2),
)

var builtinNames = []string{"str", "int", "float", "bool", "bytes", "object", "dict", "list", "set", "tuple", "type"}

// Resolver maps a bare name that is not a typing or builtin name to an
// annotation, usually a declaration of the package being built.
type Resolver func(name string) (FakeAnnotation, bool)

// ExpressionOptions control how parsed names become annotations
type ExpressionOptions struct {
	Resolve Resolver
	// LiteralName names multi-value literals: the first one gets the name
	// as is, later ones a numeric suffix.
	LiteralName string
}

type expressionBuilder struct {
	ExpressionOptions
	literals int
}

// ParseExpression parses a Python type expression such as
// `Dict[str, List[Literal['a', 'b']]]`, `datetime.datetime` or `str | None`.
func ParseExpression(expr string, opts ExpressionOptions) (FakeAnnotation, error) {
	node, err := expressionParser.ParseString("", expr)
	if err != nil {
		return nil, errors.Wrap(errors.TypeAnnotationErrorCode, fmt.Sprintf("invalid type expression %q", expr), err)
	}
	b := &expressionBuilder{ExpressionOptions: opts}
	return b.buildExpr(node)
}

func (b *expressionBuilder) buildExpr(node *exprNode) (FakeAnnotation, error) {
	terms := make([]FakeAnnotation, 0, len(node.Terms))
	for _, term := range node.Terms {
		built, err := b.buildTerm(term)
		if err != nil {
			return nil, err
		}
		terms = append(terms, built)
	}
	if len(terms) == 1 {
		return terms[0], nil
	}
	return NewTypeUnion("", terms...)
}

func (b *expressionBuilder) buildTerm(term *termNode) (FakeAnnotation, error) {
	switch {
	case term.Ellipsis:
		return Ellipsis, nil
	case term.Literal != nil:
		values := make([]string, len(term.Literal.Values))
		for i, value := range term.Literal.Values {
			values[i] = unquote(value)
		}
		return NewTypeLiteral(b.nextLiteralName(len(values)), values...)
	default:
		return b.buildRef(term.Ref)
	}
}

func (b *expressionBuilder) nextLiteralName(size int) string {
	if size < 2 {
		return b.LiteralName
	}
	b.literals++
	if b.literals == 1 {
		return b.LiteralName
	}
	return fmt.Sprintf("%s%d", b.LiteralName, b.literals)
}

func (b *expressionBuilder) buildRef(ref *refNode) (FakeAnnotation, error) {
	args := make([]FakeAnnotation, 0, len(ref.Args))
	for _, arg := range ref.Args {
		built, err := b.buildExpr(arg)
		if err != nil {
			return nil, err
		}
		args = append(args, built)
	}

	parent, err := b.resolveName(ref.Path)
	if err != nil {
		return nil, err
	}
	if len(args) == 0 {
		return parent, nil
	}

	if typing, ok := parent.(*TypeAnnotation); ok {
		switch typing.Name {
		case "Union":
			return NewTypeUnion("", args...)
		case "Optional":
			if len(args) != 1 {
				return nil, errors.NewTypeAnnotationError("Optional", "Optional takes exactly one argument")
			}
			return NewTypeUnion("", args[0], NoneType)
		}
	}
	return NewTypeSubscript(parent, args...), nil
}

func (b *expressionBuilder) resolveName(path []string) (FakeAnnotation, error) {
	if len(path) > 1 {
		module := importhelpers.ParseImportString(strings.Join(path[:len(path)-1], "."))
		if module.Render() == "typing" {
			return NewTypeAnnotation(path[len(path)-1])
		}
		return NewExternalImport(module, path[len(path)-1], ""), nil
	}

	name := path[0]
	switch {
	case name == "None":
		return NoneType, nil
	case isBuiltinName(name):
		return Builtin(name), nil
	}
	if typing, err := NewTypeAnnotation(name); err == nil {
		return typing, nil
	}
	if b.Resolve != nil {
		if resolved, ok := b.Resolve(name); ok {
			return resolved, nil
		}
	}
	return nil, errors.NewTypeAnnotationError(name, "unknown name in type expression")
}

func isBuiltinName(name string) bool {
	for _, builtin := range builtinNames {
		if builtin == name {
			return true
		}
	}
	return false
}

func unquote(s string) string {
	if len(s) >= 2 {
		s = s[1 : len(s)-1]
	}
	s = strings.ReplaceAll(s, `\'`, `'`)
	return strings.ReplaceAll(s, `\"`, `"`)
}
