package typeannotations

import (
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/toyz/pystubgen/internal/errors"
	"github.com/toyz/pystubgen/internal/importhelpers"
	"github.com/toyz/pystubgen/internal/models"
)

// NamedUnionTemplate renders `Name = Union[...]`
const NamedUnionTemplate = "common/named_union.py.tmpl"

// TypeUnion is Union[A, B]. A union with a name is declared once in the
// type_defs module and referenced by that name.
type TypeUnion struct {
	annotation
	Name     string
	Children []FakeAnnotation
}

// NewTypeUnion fails for fewer than two children
func NewTypeUnion(name string, children ...FakeAnnotation) (*TypeUnion, error) {
	if len(children) < 2 {
		return nil, errors.NewTypeAnnotationError(name, "Union should have at least 2 children")
	}
	return &TypeUnion{Name: name, Children: children}, nil
}

// IsNamed reports a union declared by name
func (u *TypeUnion) IsNamed() bool {
	return u.Name != ""
}

// RenderInline renders Union[...] regardless of the name
func (u *TypeUnion) RenderInline() string {
	rendered := make([]string, len(u.Children))
	for i, child := range u.Children {
		rendered[i] = child.Render()
	}
	return fmt.Sprintf("Union[%s]", strings.Join(rendered, ", "))
}

func (u *TypeUnion) Render() string {
	if u.IsNamed() {
		return u.Name
	}
	return u.RenderInline()
}

func (u *TypeUnion) Copy() FakeAnnotation {
	return &TypeUnion{Name: u.Name, Children: slices.Clone(u.Children)}
}

func (u *TypeUnion) SortKey() string {
	return u.Render()
}

func (u *TypeUnion) IterateTypes() iter.Seq[FakeAnnotation] {
	return iterate(u)
}

// RenderDefinition renders the named declaration, or the inline union
func (u *TypeUnion) RenderDefinition(r Renderer) (string, error) {
	if !u.IsNamed() {
		return u.Render(), nil
	}
	return r.Render(NamedUnionTemplate, map[string]any{"type_def": u})
}

// ChildTypes returns the union members
func (u *TypeUnion) ChildTypes() []FakeAnnotation {
	return u.Children
}

// AddChild appends a union member
func (u *TypeUnion) AddChild(child FakeAnnotation) {
	u.Children = append(u.Children, child)
}

// ReplaceChild swaps a member, matched by identity
func (u *TypeUnion) ReplaceChild(child, newChild FakeAnnotation) error {
	index := slices.Index(u.Children, child)
	if index < 0 {
		return errors.NewTypeAnnotationError(u.Render(), fmt.Sprintf("child not found: %s", child.Render()))
	}
	u.Children[index] = newChild
	return nil
}

func (u *TypeUnion) LocalTypes() []FakeAnnotation {
	if u.IsNamed() {
		return []FakeAnnotation{u}
	}
	return collectLocalTypes(u.Children)
}

// DefinitionImportRecords are the imports of the named declaration
func (u *TypeUnion) DefinitionImportRecords() *importhelpers.ImportSet {
	result := importhelpers.NewImportSet(UnionType.ImportRecord())
	for _, child := range u.Children {
		result.Merge(GetImportRecords(child))
	}
	return result
}

func (u *TypeUnion) ownImportRecords() []importhelpers.ImportRecord {
	if u.IsNamed() {
		return []importhelpers.ImportRecord{
			importhelpers.NewInternalImportRecord(string(models.ModuleTypeDefs), u.Name, ""),
		}
	}
	return []importhelpers.ImportRecord{UnionType.ImportRecord()}
}

func (u *TypeUnion) children() []FakeAnnotation {
	return u.Children
}

func (u *TypeUnion) usageChildren() []FakeAnnotation {
	if u.IsNamed() {
		return nil
	}
	return u.Children
}

// IsNamedDeclaration is true for unions declared by name
func (u *TypeUnion) IsNamedDeclaration() bool {
	return u.IsNamed()
}

func (u *TypeUnion) ClosedOver() ([]FakeAnnotation, bool) {
	return u.Children, true
}
