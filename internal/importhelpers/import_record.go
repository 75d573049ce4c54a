package importhelpers

import (
	"fmt"
	"strings"
)

// ImportRecord describes one `from source import name as alias` line.
// Records compare by their rendered text.
type ImportRecord struct {
	Source     ImportString
	Name       string
	Alias      string
	MinVersion []int         // python version the primary import needs
	Fallback   *ImportRecord // used below MinVersion
}

// NewImportRecord creates a plain record
func NewImportRecord(source ImportString, name, alias string) ImportRecord {
	return ImportRecord{Source: source, Name: name, Alias: alias}
}

// NewInternalImportRecord imports name from a sibling module of the package
func NewInternalImportRecord(module, name, alias string) ImportRecord {
	return ImportRecord{Source: LocalImportString(module), Name: name, Alias: alias}
}

// NewFallbackImportRecord imports name from source on new interpreters and
// from fallback otherwise
func NewFallbackImportRecord(source ImportString, name string, minVersion []int, fallback ImportString) ImportRecord {
	fb := NewImportRecord(fallback, name, "")
	return ImportRecord{Source: source, Name: name, MinVersion: minVersion, Fallback: &fb}
}

// IsEmpty reports a record that produces no import line
func (r ImportRecord) IsEmpty() bool {
	return r.Source.IsEmpty() && r.Name == ""
}

// NeedsSysImport is true for version-conditional records
func (r ImportRecord) NeedsSysImport() bool {
	return r.Fallback != nil && len(r.MinVersion) > 0
}

// LocalName is the name the import binds in the module
func (r ImportRecord) LocalName() string {
	if r.Alias != "" {
		return r.Alias
	}
	if r.Name != "" {
		return r.Name
	}
	return r.Source.Render()
}

// Render returns the import line without version guards
func (r ImportRecord) Render() string {
	source := r.Source.Render()
	switch {
	case r.IsEmpty():
		return ""
	case r.Name != "" && r.Alias != "":
		return fmt.Sprintf("from %s import %s as %s", source, r.Name, r.Alias)
	case r.Name != "":
		return fmt.Sprintf("from %s import %s", source, r.Name)
	case r.Alias != "":
		return fmt.Sprintf("import %s as %s", source, r.Alias)
	default:
		return fmt.Sprintf("import %s", source)
	}
}

// Key identifies the record for deduplication
func (r ImportRecord) Key() string {
	if r.NeedsSysImport() {
		return r.Render() + "|" + r.Fallback.Render()
	}
	return r.Render()
}

// RenderBlock renders the record including the sys.version_info guard
func (r ImportRecord) RenderBlock() string {
	if !r.NeedsSysImport() {
		return r.Render()
	}
	version := make([]string, len(r.MinVersion))
	for i, part := range r.MinVersion {
		version[i] = fmt.Sprint(part)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "if sys.version_info >= (%s):\n", strings.Join(version, ", "))
	fmt.Fprintf(&b, "    %s\n", r.Render())
	b.WriteString("else:\n")
	fmt.Fprintf(&b, "    %s", r.Fallback.Render())
	return b.String()
}

func (r ImportRecord) String() string {
	return r.Render()
}

// Less orders records by group, then source, then name
func (r ImportRecord) Less(other ImportRecord) bool {
	if r.NeedsSysImport() != other.NeedsSysImport() {
		return !r.NeedsSysImport()
	}
	if r.Source.Group() != other.Source.Group() {
		return r.Source.Group() < other.Source.Group()
	}
	if r.Source.Render() != other.Source.Render() {
		return r.Source.Render() < other.Source.Render()
	}
	if r.Name != other.Name {
		return r.Name < other.Name
	}
	return r.Alias < other.Alias
}
