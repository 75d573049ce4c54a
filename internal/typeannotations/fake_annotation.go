// Package typeannotations models Python type annotations used in generated
// stubs. Every annotation knows how to render itself, which imports it
// needs, and which nested annotations it owns.
package typeannotations

import (
	"iter"

	"github.com/toyz/pystubgen/internal/importhelpers"
)

// Renderer renders a named template with a context mapping
type Renderer interface {
	Render(templateName string, data map[string]any) (string, error)
}

// FakeAnnotation is implemented by every annotation variant in this package
type FakeAnnotation interface {
	// Render returns the annotation as used at a call site
	Render() string
	// Copy returns a clone whose variant fields can be mutated independently
	Copy() FakeAnnotation
	// SortKey orders and deduplicates annotations
	SortKey() string
	// IterateTypes yields the annotation and every nested annotation once
	IterateTypes() iter.Seq[FakeAnnotation]
	// RenderDefinition renders a standalone declaration
	RenderDefinition(r Renderer) (string, error)
	// LocalTypes returns declarations the generator must emit for this type
	LocalTypes() []FakeAnnotation

	IsDict() bool
	IsList() bool
	IsLiteral() bool
	IsTypedDict() bool
	// IsNamedDeclaration is true for types declared in the type defs module
	IsNamedDeclaration() bool
	// ReferenceName is the referenced declaration of a forward reference
	ReferenceName() (string, bool)
	// ClosedOver reports whether the value set is statically known once
	// the returned children are known
	ClosedOver() ([]FakeAnnotation, bool)
	// DefinitionImportRecords are the imports of a standalone declaration,
	// nil when it needs the same imports as a call site
	DefinitionImportRecords() *importhelpers.ImportSet

	ownImportRecords() []importhelpers.ImportRecord
	children() []FakeAnnotation
	usageChildren() []FakeAnnotation
}

// TypeParent is a composite annotation whose children can be replaced
type TypeParent interface {
	FakeAnnotation
	ChildTypes() []FakeAnnotation
	ReplaceChild(child, newChild FakeAnnotation) error
}

// annotation carries the default capability set
type annotation struct{}

func (annotation) IsDict() bool                                      { return false }
func (annotation) IsList() bool                                      { return false }
func (annotation) IsLiteral() bool                                   { return false }
func (annotation) IsTypedDict() bool                                 { return false }
func (annotation) IsNamedDeclaration() bool                          { return false }
func (annotation) ReferenceName() (string, bool)                     { return "", false }
func (annotation) ClosedOver() ([]FakeAnnotation, bool)              { return nil, false }
func (annotation) DefinitionImportRecords() *importhelpers.ImportSet { return nil }
func (annotation) LocalTypes() []FakeAnnotation                      { return nil }
func (annotation) ownImportRecords() []importhelpers.ImportRecord    { return nil }
func (annotation) children() []FakeAnnotation                        { return nil }
func (annotation) usageChildren() []FakeAnnotation                   { return nil }

// iterate walks root depth-first. Each call starts a fresh walk, and an
// annotation reachable twice (including through a cycle) is yielded once.
func iterate(root FakeAnnotation) iter.Seq[FakeAnnotation] {
	return func(yield func(FakeAnnotation) bool) {
		visited := make(map[FakeAnnotation]struct{})
		var walk func(FakeAnnotation) bool
		walk = func(a FakeAnnotation) bool {
			if _, ok := visited[a]; ok {
				return true
			}
			visited[a] = struct{}{}
			if !yield(a) {
				return false
			}
			for _, child := range a.children() {
				if !walk(child) {
					return false
				}
			}
			return true
		}
		walk(root)
	}
}

// GetImportRecords collects the imports needed to use a at a call site.
// Declarations such as TypedDicts contribute only their own name, their
// fields are imported where the declaration is written.
func GetImportRecords(a FakeAnnotation) *importhelpers.ImportSet {
	result := importhelpers.NewImportSet()
	visited := make(map[FakeAnnotation]struct{})
	var walk func(FakeAnnotation)
	walk = func(a FakeAnnotation) {
		if _, ok := visited[a]; ok {
			return
		}
		visited[a] = struct{}{}
		result.Add(a.ownImportRecords()...)
		for _, child := range a.usageChildren() {
			walk(child)
		}
	}
	walk(a)
	return result
}

// GetDefinitionImportRecords collects the imports a standalone declaration
// of a needs.
func GetDefinitionImportRecords(a FakeAnnotation) *importhelpers.ImportSet {
	if records := a.DefinitionImportRecords(); records != nil {
		return records
	}
	return GetImportRecords(a)
}
