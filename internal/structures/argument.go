package structures

import (
	"iter"

	ta "github.com/toyz/pystubgen/internal/typeannotations"
)

// Argument is one parameter of a generated method
type Argument struct {
	Name           string
	TypeAnnotation ta.FakeAnnotation // nil for self and the bare * marker
	Default        ta.FakeAnnotation // nil when the argument is required
	Prefix         string            // "", "*" or "**"
}

// NewArgument creates a typed argument
func NewArgument(name string, typ ta.FakeAnnotation, def ta.FakeAnnotation) *Argument {
	return &Argument{Name: name, TypeAnnotation: typ, Default: def}
}

// SelfArgument is the leading self parameter
func SelfArgument() *Argument {
	return &Argument{Name: "self"}
}

// KwFlag is the bare * that makes the following arguments keyword-only
func KwFlag() *Argument {
	return &Argument{Prefix: "*"}
}

// IsKwFlag reports the bare * marker
func (a *Argument) IsKwFlag() bool {
	return a.Prefix == "*" && a.Name == ""
}

// Required reports an argument without a default
func (a *Argument) Required() bool {
	return a.Default == nil
}

// Render renders `name: Type = default`
func (a *Argument) Render() string {
	result := a.Prefix + a.Name
	if a.TypeAnnotation != nil {
		result += ": " + a.TypeAnnotation.Render()
	}
	if a.Default != nil {
		result += " = " + a.Default.Render()
	}
	return result
}

// Copy returns an argument with the same annotations
func (a *Argument) Copy() *Argument {
	clone := *a
	return &clone
}

// IterateTypes yields the annotation and default types
func (a *Argument) IterateTypes() iter.Seq[ta.FakeAnnotation] {
	return func(yield func(ta.FakeAnnotation) bool) {
		for _, root := range []ta.FakeAnnotation{a.TypeAnnotation, a.Default} {
			if root == nil {
				continue
			}
			for item := range root.IterateTypes() {
				if !yield(item) {
					return
				}
			}
		}
	}
}
