package typeannotations

import (
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/toyz/pystubgen/internal/errors"
)

// TypeSubscript is a generic application such as List[str] or Dict[str, Any]
type TypeSubscript struct {
	annotation
	Parent   FakeAnnotation
	Children []FakeAnnotation
}

// NewTypeSubscript creates a subscript of parent
func NewTypeSubscript(parent FakeAnnotation, children ...FakeAnnotation) *TypeSubscript {
	return &TypeSubscript{Parent: parent, Children: children}
}

func (t *TypeSubscript) Render() string {
	if len(t.Children) == 0 {
		return t.Parent.Render()
	}
	rendered := make([]string, len(t.Children))
	for i, child := range t.Children {
		rendered[i] = child.Render()
	}
	return fmt.Sprintf("%s[%s]", t.Parent.Render(), strings.Join(rendered, ", "))
}

// Copy keeps the child annotations but owns a new child list
func (t *TypeSubscript) Copy() FakeAnnotation {
	return &TypeSubscript{Parent: t.Parent, Children: slices.Clone(t.Children)}
}

func (t *TypeSubscript) SortKey() string {
	return t.Render()
}

func (t *TypeSubscript) IterateTypes() iter.Seq[FakeAnnotation] {
	return iterate(t)
}

func (t *TypeSubscript) RenderDefinition(Renderer) (string, error) {
	return t.Render(), nil
}

func (t *TypeSubscript) IsDict() bool {
	return t.Parent.IsDict()
}

func (t *TypeSubscript) IsList() bool {
	return t.Parent.IsList()
}

// AddChild appends a type argument
func (t *TypeSubscript) AddChild(child FakeAnnotation) {
	t.Children = append(t.Children, child)
}

// ChildTypes returns the type arguments
func (t *TypeSubscript) ChildTypes() []FakeAnnotation {
	return t.Children
}

// ReplaceChild swaps a type argument, matched by identity
func (t *TypeSubscript) ReplaceChild(child, newChild FakeAnnotation) error {
	index := slices.Index(t.Children, child)
	if index < 0 {
		return errors.NewTypeAnnotationError(t.Render(), fmt.Sprintf("child not found: %s", child.Render()))
	}
	t.Children[index] = newChild
	return nil
}

func (t *TypeSubscript) LocalTypes() []FakeAnnotation {
	return collectLocalTypes(t.Children)
}

func (t *TypeSubscript) children() []FakeAnnotation {
	return append([]FakeAnnotation{t.Parent}, t.Children...)
}

func (t *TypeSubscript) usageChildren() []FakeAnnotation {
	return t.children()
}

func collectLocalTypes(items []FakeAnnotation) []FakeAnnotation {
	var result []FakeAnnotation
	for _, item := range items {
		result = append(result, item.LocalTypes()...)
	}
	return result
}

// ClosedOver holds for lists and dicts of closed types
func (t *TypeSubscript) ClosedOver() ([]FakeAnnotation, bool) {
	if !t.IsList() && !t.IsDict() {
		return nil, false
	}
	return t.Children, true
}
