package postprocessors

import (
	"fmt"

	"github.com/toyz/pystubgen/internal/errors"
	"github.com/toyz/pystubgen/internal/structures"
	ta "github.com/toyz/pystubgen/internal/typeannotations"
	"github.com/toyz/pystubgen/internal/utils"
)

// ProcessPackage applies fixups required by Python declaration syntax:
// methods with argument names that are not identifiers take
// **kwargs: Unpack[...], TypedDicts with such keys use functional syntax,
// declarations are unique by name and every method has a return type.
type ProcessPackage struct{}

func (ProcessPackage) Name() string { return "process_package" }

func (ProcessPackage) Run(pkg *structures.ServicePackage) error {
	for _, method := range pkg.Methods() {
		if method.ReturnType == nil {
			method.ReturnType = ta.NoneType
		}
		if !method.HasInvalidArgumentNames() {
			continue
		}
		if !method.UseUnpackKwargs() {
			return errors.NewTypeAnnotationError(method.Name, "argument names are not valid identifiers and there is no request TypedDict")
		}
	}
	pkg.RefreshDeclarations()

	for _, td := range pkg.TypedDicts() {
		for _, attr := range td.Attributes {
			if !utils.IsPythonIdentifier(attr.Name) {
				td.Functional = true
				break
			}
		}
	}

	return dedupeTypeDefs(pkg)
}

// dedupeTypeDefs points every use of a declaration at one instance per
// name. Declarations that share a name but differ fail.
func dedupeTypeDefs(pkg *structures.ServicePackage) error {
	canonical := make(map[string]ta.FakeAnnotation)
	replacements := make(map[ta.FakeAnnotation]ta.FakeAnnotation)
	for item := range pkg.IterateTypes() {
		if !isDeclaration(item) {
			continue
		}
		name := item.SortKey()
		first, ok := canonical[name]
		if !ok {
			canonical[name] = item
			continue
		}
		if first == item {
			continue
		}
		if !sameDeclaration(first, item) {
			return errors.NewTypeAnnotationError(name, fmt.Sprintf("conflicting declarations named %s", name))
		}
		replacements[item] = first
	}
	if len(replacements) == 0 {
		return nil
	}
	return pkg.ReplaceTypes(func(item ta.FakeAnnotation) (ta.FakeAnnotation, bool) {
		replacement, ok := replacements[item]
		return replacement, ok
	})
}

func isDeclaration(item ta.FakeAnnotation) bool {
	if item.IsTypedDict() {
		return true
	}
	union, ok := item.(*ta.TypeUnion)
	return ok && union.IsNamed()
}

func sameDeclaration(a, b ta.FakeAnnotation) bool {
	switch first := a.(type) {
	case *ta.TypeTypedDict:
		second, ok := b.(*ta.TypeTypedDict)
		return ok && first.IsSame(second)
	case *ta.TypeUnion:
		second, ok := b.(*ta.TypeUnion)
		return ok && first.RenderInline() == second.RenderInline()
	default:
		return false
	}
}
