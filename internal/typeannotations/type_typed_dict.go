package typeannotations

import (
	"fmt"
	"iter"
	"slices"
	"strconv"

	"github.com/toyz/pystubgen/internal/errors"
	"github.com/toyz/pystubgen/internal/importhelpers"
	"github.com/toyz/pystubgen/internal/models"
	"github.com/toyz/pystubgen/internal/utils"
)

const (
	// TypedDictClassTemplate renders `class Name(TypedDict): ...`
	TypedDictClassTemplate = "common/typed_dict_class.py.tmpl"
	// TypedDictFunctionalTemplate renders `Name = TypedDict("Name", {...})`
	TypedDictFunctionalTemplate = "common/typed_dict.py.tmpl"
)

// TypedDictAttribute is one key of a TypedDict
type TypedDictAttribute struct {
	Name     string
	Type     FakeAnnotation
	Required bool
}

// NewTypedDictAttribute creates an attribute
func NewTypedDictAttribute(name string, typ FakeAnnotation, required bool) *TypedDictAttribute {
	return &TypedDictAttribute{Name: name, Type: typ, Required: required}
}

// RenderType renders the value type. Optional keys of a strict TypedDict
// are wrapped in NotRequired.
func (a *TypedDictAttribute) RenderType(safe bool) string {
	if a.Required || safe {
		return a.Type.Render()
	}
	return fmt.Sprintf("%s[%s]", NotRequiredType.Render(), a.Type.Render())
}

// Render renders the attribute as a class body line
func (a *TypedDictAttribute) Render(safe bool) string {
	return fmt.Sprintf("%s: %s", a.Name, a.RenderType(safe))
}

// RenderFunctional renders the attribute as a functional syntax entry
func (a *TypedDictAttribute) RenderFunctional(safe bool) string {
	return fmt.Sprintf("%s: %s", strconv.Quote(a.Name), a.RenderType(safe))
}

// TypeTypedDict is a TypedDict declared in the type_defs module
type TypeTypedDict struct {
	annotation
	Name       string
	Attributes []*TypedDictAttribute
	Docstring  string
	// Safe TypedDicts have no required keys and fully known value types,
	// they are declared with total=False instead of NotRequired wrappers.
	Safe bool
	// Functional forces TypedDict("Name", {...}) syntax
	Functional bool
}

// NewTypeTypedDict creates an empty TypedDict
func NewTypeTypedDict(name string, attributes ...*TypedDictAttribute) *TypeTypedDict {
	return &TypeTypedDict{Name: name, Attributes: attributes}
}

// AddAttribute appends a key
func (t *TypeTypedDict) AddAttribute(name string, typ FakeAnnotation, required bool) {
	t.Attributes = append(t.Attributes, NewTypedDictAttribute(name, typ, required))
}

// GetAttribute finds a key by name
func (t *TypeTypedDict) GetAttribute(name string) (*TypedDictAttribute, bool) {
	for _, attr := range t.Attributes {
		if attr.Name == name {
			return attr, true
		}
	}
	return nil, false
}

// HasRequired reports any required key
func (t *TypeTypedDict) HasRequired() bool {
	return slices.ContainsFunc(t.Attributes, func(a *TypedDictAttribute) bool { return a.Required })
}

// HasOptional reports any optional key
func (t *TypeTypedDict) HasOptional() bool {
	return slices.ContainsFunc(t.Attributes, func(a *TypedDictAttribute) bool { return !a.Required })
}

// RequiredAttributes returns required keys in declaration order
func (t *TypeTypedDict) RequiredAttributes() []*TypedDictAttribute {
	var result []*TypedDictAttribute
	for _, attr := range t.Attributes {
		if attr.Required {
			result = append(result, attr)
		}
	}
	return result
}

// OptionalAttributes returns optional keys in declaration order
func (t *TypeTypedDict) OptionalAttributes() []*TypedDictAttribute {
	var result []*TypedDictAttribute
	for _, attr := range t.Attributes {
		if !attr.Required {
			result = append(result, attr)
		}
	}
	return result
}

// NeedsFunctionalSyntax is true when a key cannot be a class attribute
func (t *TypeTypedDict) NeedsFunctionalSyntax() bool {
	if t.Functional {
		return true
	}
	return slices.ContainsFunc(t.Attributes, func(a *TypedDictAttribute) bool {
		return !utils.IsPythonIdentifier(a.Name)
	})
}

// RenderedAttributes returns class body lines
func (t *TypeTypedDict) RenderedAttributes() []string {
	result := make([]string, len(t.Attributes))
	for i, attr := range t.Attributes {
		result[i] = attr.Render(t.Safe)
	}
	return result
}

// RenderedFunctionalAttributes returns functional syntax entries
func (t *TypeTypedDict) RenderedFunctionalAttributes() []string {
	result := make([]string, len(t.Attributes))
	for i, attr := range t.Attributes {
		result[i] = attr.RenderFunctional(t.Safe)
	}
	return result
}

func (t *TypeTypedDict) Render() string {
	return t.Name
}

// Copy owns new attribute values, the attribute types are shared
func (t *TypeTypedDict) Copy() FakeAnnotation {
	attributes := make([]*TypedDictAttribute, len(t.Attributes))
	for i, attr := range t.Attributes {
		clone := *attr
		attributes[i] = &clone
	}
	return &TypeTypedDict{
		Name:       t.Name,
		Attributes: attributes,
		Docstring:  t.Docstring,
		Safe:       t.Safe,
		Functional: t.Functional,
	}
}

// SortKey sorts TypedDicts by name
func (t *TypeTypedDict) SortKey() string {
	return t.Name
}

func (t *TypeTypedDict) IterateTypes() iter.Seq[FakeAnnotation] {
	return iterate(t)
}

func (t *TypeTypedDict) IsDict() bool {
	return true
}

func (t *TypeTypedDict) IsTypedDict() bool {
	return true
}

// IsSame reports equal keys with equally rendered types
func (t *TypeTypedDict) IsSame(other *TypeTypedDict) bool {
	return slices.EqualFunc(t.Attributes, other.Attributes, func(a, b *TypedDictAttribute) bool {
		return a.Name == b.Name && a.Required == b.Required && a.Type.Render() == b.Type.Render()
	})
}

// RenderDefinition renders the declaration in class or functional syntax
func (t *TypeTypedDict) RenderDefinition(r Renderer) (string, error) {
	templateName := TypedDictClassTemplate
	if t.NeedsFunctionalSyntax() {
		templateName = TypedDictFunctionalTemplate
	}
	return r.Render(templateName, map[string]any{"type_def": t})
}

// ChildTypes returns attribute types in declaration order
func (t *TypeTypedDict) ChildTypes() []FakeAnnotation {
	result := make([]FakeAnnotation, len(t.Attributes))
	for i, attr := range t.Attributes {
		result[i] = attr.Type
	}
	return result
}

// ReplaceChild swaps the type of every attribute typed as child
func (t *TypeTypedDict) ReplaceChild(child, newChild FakeAnnotation) error {
	found := false
	for _, attr := range t.Attributes {
		if attr.Type == child {
			attr.Type = newChild
			found = true
		}
	}
	if !found {
		return errors.NewTypeAnnotationError(t.Name, fmt.Sprintf("child not found: %s", child.Render()))
	}
	return nil
}

func (t *TypeTypedDict) LocalTypes() []FakeAnnotation {
	return []FakeAnnotation{t}
}

// DefinitionImportRecords are the imports of the declaration
func (t *TypeTypedDict) DefinitionImportRecords() *importhelpers.ImportSet {
	result := importhelpers.NewImportSet(TypedDictType.ImportRecord())
	if !t.Safe && t.HasOptional() {
		result.Add(NotRequiredType.ImportRecord())
	}
	for _, attr := range t.Attributes {
		result.Merge(GetImportRecords(attr.Type))
	}
	return result
}

func (t *TypeTypedDict) ownImportRecords() []importhelpers.ImportRecord {
	return []importhelpers.ImportRecord{
		importhelpers.NewInternalImportRecord(string(models.ModuleTypeDefs), t.Name, ""),
	}
}

func (t *TypeTypedDict) children() []FakeAnnotation {
	return t.ChildTypes()
}

func (t *TypeTypedDict) IsNamedDeclaration() bool {
	return true
}
