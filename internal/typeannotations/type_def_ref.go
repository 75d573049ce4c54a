package typeannotations

import (
	"iter"
	"strconv"
)

// TypeDefRef is a quoted forward reference to a declaration by name. It
// replaces direct self references so a recursive TypedDict has no cycle.
type TypeDefRef struct {
	annotation
	Name string
}

// NewTypeDefRef references a declaration
func NewTypeDefRef(name string) *TypeDefRef {
	return &TypeDefRef{Name: name}
}

func (r *TypeDefRef) Render() string {
	return strconv.Quote(r.Name)
}

func (r *TypeDefRef) Copy() FakeAnnotation {
	return &TypeDefRef{Name: r.Name}
}

// SortKey matches the referenced declaration
func (r *TypeDefRef) SortKey() string {
	return r.Name
}

func (r *TypeDefRef) IterateTypes() iter.Seq[FakeAnnotation] {
	return iterate(r)
}

func (r *TypeDefRef) RenderDefinition(Renderer) (string, error) {
	return r.Render(), nil
}

// Resolve looks the declaration up in an arena of named declarations
func (r *TypeDefRef) Resolve(lookup func(name string) (FakeAnnotation, bool)) (FakeAnnotation, bool) {
	return lookup(r.Name)
}

func (r *TypeDefRef) ReferenceName() (string, bool) {
	return r.Name, true
}
