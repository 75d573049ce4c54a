package typeannotations

import (
	"iter"

	"github.com/toyz/pystubgen/internal/importhelpers"
)

// ExternalImport is a type imported from outside the generated package,
// like botocore.response.StreamingBody.
type ExternalImport struct {
	annotation
	Source importhelpers.ImportString
	Name   string
	Alias  string
}

// NewExternalImport creates an external import
func NewExternalImport(source importhelpers.ImportString, name, alias string) *ExternalImport {
	return &ExternalImport{Source: source, Name: name, Alias: alias}
}

// Builtin references a builtins name such as str, which is never imported
func Builtin(name string) *ExternalImport {
	return NewExternalImport(importhelpers.Builtins, name, "")
}

// ImportRecord is the single record this type is imported by
func (e *ExternalImport) ImportRecord() importhelpers.ImportRecord {
	return importhelpers.NewImportRecord(e.Source, e.Name, e.Alias)
}

// Render returns the local name of the import
func (e *ExternalImport) Render() string {
	return e.ImportRecord().LocalName()
}

func (e *ExternalImport) Copy() FakeAnnotation {
	return NewExternalImport(e.Source, e.Name, e.Alias)
}

func (e *ExternalImport) SortKey() string {
	return e.Render()
}

func (e *ExternalImport) IterateTypes() iter.Seq[FakeAnnotation] {
	return iterate(e)
}

func (e *ExternalImport) RenderDefinition(Renderer) (string, error) {
	return e.Render(), nil
}

func (e *ExternalImport) ownImportRecords() []importhelpers.ImportRecord {
	return []importhelpers.ImportRecord{e.ImportRecord()}
}

// ClosedOver is true for builtin scalars and datetime
func (e *ExternalImport) ClosedOver() ([]FakeAnnotation, bool) {
	return nil, e.Source.IsBuiltins() || e.Source.Equal(importhelpers.Datetime)
}
