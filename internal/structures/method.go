package structures

import (
	"iter"
	"strings"

	"github.com/toyz/pystubgen/internal/importhelpers"
	ta "github.com/toyz/pystubgen/internal/typeannotations"
	"github.com/toyz/pystubgen/internal/utils"
)

// Method is a generated method signature
type Method struct {
	Name       string
	Arguments  []*Argument
	ReturnType ta.FakeAnnotation
	Docstring  string
	Decorators []ta.FakeAnnotation
	// RequestTypeDef collects the keyword arguments as a TypedDict, used
	// when the signature switches to **kwargs: Unpack[...]
	RequestTypeDef *ta.TypeTypedDict
}

// NewMethod creates a method with self as the first argument
func NewMethod(name string, returnType ta.FakeAnnotation, arguments ...*Argument) *Method {
	args := append([]*Argument{SelfArgument()}, arguments...)
	return &Method{Name: name, Arguments: args, ReturnType: returnType}
}

// RenderArguments joins the rendered arguments
func (m *Method) RenderArguments() string {
	rendered := make([]string, len(m.Arguments))
	for i, arg := range m.Arguments {
		rendered[i] = arg.Render()
	}
	return strings.Join(rendered, ", ")
}

// RenderedDecorators returns decorator lines without the @
func (m *Method) RenderedDecorators() []string {
	result := make([]string, len(m.Decorators))
	for i, decorator := range m.Decorators {
		result[i] = decorator.Render()
	}
	return result
}

// KeywordArguments returns the arguments after the * marker
func (m *Method) KeywordArguments() []*Argument {
	for i, arg := range m.Arguments {
		if arg.IsKwFlag() {
			return m.Arguments[i+1:]
		}
	}
	return nil
}

// HasInvalidArgumentNames reports arguments that are not Python identifiers
func (m *Method) HasInvalidArgumentNames() bool {
	for _, arg := range m.Arguments {
		if arg.Name == "" {
			continue
		}
		if !utils.IsPythonIdentifier(arg.Name) {
			return true
		}
	}
	return false
}

// UseUnpackKwargs replaces the keyword arguments with
// **kwargs: Unpack[RequestTypeDef]. It reports whether the signature changed.
func (m *Method) UseUnpackKwargs() bool {
	if m.RequestTypeDef == nil {
		return false
	}
	kept := make([]*Argument, 0, len(m.Arguments))
	for _, arg := range m.Arguments {
		if arg.IsKwFlag() {
			break
		}
		kept = append(kept, arg)
	}
	kwargs := &Argument{
		Name:           "kwargs",
		Prefix:         "**",
		TypeAnnotation: ta.NewTypeSubscript(ta.UnpackType, m.RequestTypeDef),
	}
	m.Arguments = append(kept, kwargs)
	return true
}

// IterateTypes yields every annotation used in the signature
func (m *Method) IterateTypes() iter.Seq[ta.FakeAnnotation] {
	return func(yield func(ta.FakeAnnotation) bool) {
		for _, arg := range m.Arguments {
			for item := range arg.IterateTypes() {
				if !yield(item) {
					return
				}
			}
		}
		roots := append([]ta.FakeAnnotation{m.ReturnType}, m.Decorators...)
		for _, root := range roots {
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

// ImportRecords collects imports the signature needs
func (m *Method) ImportRecords() *importhelpers.ImportSet {
	result := importhelpers.NewImportSet()
	for _, arg := range m.Arguments {
		for _, root := range []ta.FakeAnnotation{arg.TypeAnnotation, arg.Default} {
			if root != nil {
				result.Merge(ta.GetImportRecords(root))
			}
		}
	}
	if m.ReturnType != nil {
		result.Merge(ta.GetImportRecords(m.ReturnType))
	}
	for _, decorator := range m.Decorators {
		result.Merge(ta.GetImportRecords(decorator))
	}
	return result
}

// roots returns the annotations directly referenced by the signature
func (m *Method) roots() []ta.FakeAnnotation {
	var result []ta.FakeAnnotation
	for _, arg := range m.Arguments {
		if arg.TypeAnnotation != nil {
			result = append(result, arg.TypeAnnotation)
		}
	}
	if m.ReturnType != nil {
		result = append(result, m.ReturnType)
	}
	return result
}

// replaceRoots swaps directly referenced annotations
func (m *Method) replaceRoots(replace func(ta.FakeAnnotation) (ta.FakeAnnotation, bool)) {
	for _, arg := range m.Arguments {
		if arg.TypeAnnotation == nil {
			continue
		}
		if replacement, ok := replace(arg.TypeAnnotation); ok {
			arg.TypeAnnotation = replacement
		}
	}
	if m.ReturnType != nil {
		if replacement, ok := replace(m.ReturnType); ok {
			m.ReturnType = replacement
		}
	}
}
