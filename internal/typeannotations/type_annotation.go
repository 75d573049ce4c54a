package typeannotations

import (
	"fmt"
	"iter"
	"slices"

	"github.com/toyz/pystubgen/internal/errors"
	"github.com/toyz/pystubgen/internal/importhelpers"
)

var supportedTypingNames = []string{
	"Any",
	"AsyncIterator",
	"Awaitable",
	"BinaryIO",
	"Callable",
	"Dict",
	"IO",
	"Iterator",
	"List",
	"Literal",
	"Mapping",
	"NotRequired",
	"Optional",
	"Self",
	"Sequence",
	"Set",
	"Tuple",
	"Type",
	"TypedDict",
	"Union",
	"Unpack",
	"overload",
}

// names that moved into typing after the oldest supported interpreter
var typingMinVersions = map[string][]int{
	"NotRequired": {3, 11},
	"Self":        {3, 11},
	"Unpack":      {3, 12},
}

// TypeAnnotation wraps a name from the typing module
type TypeAnnotation struct {
	annotation
	Name string
}

// NewTypeAnnotation fails for names outside the supported typing set
func NewTypeAnnotation(name string) (*TypeAnnotation, error) {
	if !slices.Contains(supportedTypingNames, name) {
		return nil, errors.NewTypeAnnotationError(name, fmt.Sprintf("unsupported typing name %q", name))
	}
	return &TypeAnnotation{Name: name}, nil
}

func mustTypeAnnotation(name string) *TypeAnnotation {
	t, err := NewTypeAnnotation(name)
	if err != nil {
		panic(err)
	}
	return t
}

var (
	AnyType         = mustTypeAnnotation("Any")
	DictType        = mustTypeAnnotation("Dict")
	ListType        = mustTypeAnnotation("List")
	MappingType     = mustTypeAnnotation("Mapping")
	SequenceType    = mustTypeAnnotation("Sequence")
	LiteralType     = mustTypeAnnotation("Literal")
	UnionType       = mustTypeAnnotation("Union")
	NotRequiredType = mustTypeAnnotation("NotRequired")
	TypedDictType   = mustTypeAnnotation("TypedDict")
	UnpackType      = mustTypeAnnotation("Unpack")
	IOType          = mustTypeAnnotation("IO")
	IteratorType    = mustTypeAnnotation("Iterator")
	OverloadType    = mustTypeAnnotation("overload")
)

func (t *TypeAnnotation) Render() string {
	return t.Name
}

func (t *TypeAnnotation) Copy() FakeAnnotation {
	return &TypeAnnotation{Name: t.Name}
}

func (t *TypeAnnotation) SortKey() string {
	return t.Render()
}

func (t *TypeAnnotation) IterateTypes() iter.Seq[FakeAnnotation] {
	return iterate(t)
}

func (t *TypeAnnotation) RenderDefinition(Renderer) (string, error) {
	return t.Render(), nil
}

// IsDict is true for Dict and Mapping
func (t *TypeAnnotation) IsDict() bool {
	return t.Name == "Dict" || t.Name == "Mapping"
}

// IsList is true for List and Sequence
func (t *TypeAnnotation) IsList() bool {
	return t.Name == "List" || t.Name == "Sequence"
}

// ImportRecord returns the typing import, version-guarded when needed
func (t *TypeAnnotation) ImportRecord() importhelpers.ImportRecord {
	if minVersion, ok := typingMinVersions[t.Name]; ok {
		return importhelpers.NewFallbackImportRecord(importhelpers.Typing, t.Name, minVersion, importhelpers.TypingExtensions)
	}
	return importhelpers.NewImportRecord(importhelpers.Typing, t.Name, "")
}

func (t *TypeAnnotation) ownImportRecords() []importhelpers.ImportRecord {
	return []importhelpers.ImportRecord{t.ImportRecord()}
}
