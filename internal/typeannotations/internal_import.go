package typeannotations

import (
	"iter"
	"strconv"

	"github.com/toyz/pystubgen/internal/importhelpers"
	"github.com/toyz/pystubgen/internal/models"
)

// InternalImport references a name declared inside the generated package.
// An empty Module means the name lives in the module being rendered.
type InternalImport struct {
	annotation
	Name      string
	Module    models.ServiceModuleName
	Stringify bool
}

// NewInternalImport creates an internal import
func NewInternalImport(name string, module models.ServiceModuleName) *InternalImport {
	return &InternalImport{Name: name, Module: module}
}

func (i *InternalImport) Render() string {
	if i.Stringify {
		return strconv.Quote(i.Name)
	}
	return i.Name
}

func (i *InternalImport) Copy() FakeAnnotation {
	return &InternalImport{Name: i.Name, Module: i.Module, Stringify: i.Stringify}
}

func (i *InternalImport) SortKey() string {
	return i.Name
}

func (i *InternalImport) IterateTypes() iter.Seq[FakeAnnotation] {
	return iterate(i)
}

func (i *InternalImport) RenderDefinition(Renderer) (string, error) {
	return i.Render(), nil
}

func (i *InternalImport) ownImportRecords() []importhelpers.ImportRecord {
	if i.Module == "" {
		return nil
	}
	return []importhelpers.ImportRecord{importhelpers.NewInternalImportRecord(string(i.Module), i.Name, "")}
}
