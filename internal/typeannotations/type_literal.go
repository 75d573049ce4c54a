package typeannotations

import (
	"fmt"
	"iter"
	"maps"
	"slices"
	"strings"

	"github.com/toyz/pystubgen/internal/errors"
	"github.com/toyz/pystubgen/internal/importhelpers"
	"github.com/toyz/pystubgen/internal/models"
)

// LiteralTemplate renders a named multi-value literal declaration
const LiteralTemplate = "common/literal.py.tmpl"

// TypeLiteral is a closed set of string values. Literals with one value are
// rendered inline, others by name with the declaration in the literals module.
type TypeLiteral struct {
	annotation
	Name   string
	values map[string]struct{}
}

// NewTypeLiteral fails when no values are given
func NewTypeLiteral(name string, children ...string) (*TypeLiteral, error) {
	if len(children) == 0 {
		return nil, errors.NewTypeAnnotationError(name, "Literal should have children")
	}
	l := &TypeLiteral{Name: name, values: make(map[string]struct{}, len(children))}
	for _, child := range children {
		l.values[child] = struct{}{}
	}
	return l, nil
}

// Children returns the values sorted
func (l *TypeLiteral) Children() []string {
	return slices.Sorted(maps.Keys(l.values))
}

// Inline is true for single-value literals
func (l *TypeLiteral) Inline() bool {
	return len(l.values) == 1
}

// RenderedChildren returns the sorted values as Python string literals
func (l *TypeLiteral) RenderedChildren() []string {
	children := l.Children()
	result := make([]string, len(children))
	for i, child := range children {
		result[i] = pyRepr(child)
	}
	return result
}

func (l *TypeLiteral) Render() string {
	if l.Inline() {
		return fmt.Sprintf("Literal[%s]", strings.Join(l.RenderedChildren(), ", "))
	}
	return l.Name
}

func (l *TypeLiteral) Copy() FakeAnnotation {
	return &TypeLiteral{Name: l.Name, values: maps.Clone(l.values)}
}

// SortKey sorts literals by name
func (l *TypeLiteral) SortKey() string {
	return l.Name
}

func (l *TypeLiteral) IterateTypes() iter.Seq[FakeAnnotation] {
	return iterate(l)
}

func (l *TypeLiteral) IsLiteral() bool {
	return true
}

// AddChild is disabled, values change only through AddLiteralChild
func (l *TypeLiteral) AddChild(child FakeAnnotation) error {
	return errors.NewTypeAnnotationError(l.Name, "Use AddLiteralChild function.")
}

// IsSame reports equal value sets regardless of name
func (l *TypeLiteral) IsSame(other *TypeLiteral) bool {
	return maps.Equal(l.values, other.values)
}

func (l *TypeLiteral) LocalTypes() []FakeAnnotation {
	return []FakeAnnotation{l}
}

// RenderDefinition renders `Name = Literal[...]`
func (l *TypeLiteral) RenderDefinition(r Renderer) (string, error) {
	return r.Render(LiteralTemplate, map[string]any{"literal": l})
}

// DefinitionImportRecords are the imports of the declaration
func (l *TypeLiteral) DefinitionImportRecords() *importhelpers.ImportSet {
	return importhelpers.NewImportSet(LiteralType.ImportRecord())
}

func (l *TypeLiteral) ownImportRecords() []importhelpers.ImportRecord {
	if l.Inline() {
		return []importhelpers.ImportRecord{LiteralType.ImportRecord()}
	}
	return []importhelpers.ImportRecord{
		importhelpers.NewInternalImportRecord(string(models.ModuleLiterals), l.Name, ""),
	}
}

// AddLiteralChild adds values to a literal. It is the only way a literal's
// value set changes after construction.
func AddLiteralChild(l *TypeLiteral, values ...string) {
	for _, value := range values {
		l.values[value] = struct{}{}
	}
}

// pyRepr renders s the way Python's repr() renders a str
func pyRepr(s string) string {
	quote := "'"
	if strings.Contains(s, "'") && !strings.Contains(s, `"`) {
		quote = `"`
	}
	var b strings.Builder
	b.WriteString(quote)
	for _, r := range s {
		switch {
		case r == '\\':
			b.WriteString(`\\`)
		case string(r) == quote:
			b.WriteString(`\` + quote)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\t':
			b.WriteString(`\t`)
		case r == '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteString(quote)
	return b.String()
}

func (l *TypeLiteral) ClosedOver() ([]FakeAnnotation, bool) {
	return nil, true
}
