package structures

import (
	"iter"
	"slices"

	"github.com/toyz/pystubgen/internal/importhelpers"
	"github.com/toyz/pystubgen/internal/models"
	ta "github.com/toyz/pystubgen/internal/typeannotations"
)

// ServicePackage is the stubs package of one service. It owns the type
// graph reachable from its client, paginators and waiters, plus the
// declarations arena: TypeDefs and Literals addressed by name.
type ServicePackage struct {
	*Package
	ServiceName *models.ServiceName
	Client      *Client
	Paginators  []*Paginator
	Waiters     []*Waiter
	TypeDefs    []ta.FakeAnnotation
	Literals    []*ta.TypeLiteral
}

// NewServicePackage creates an empty service package
func NewServicePackage(data *models.PackageData, serviceName *models.ServiceName, ver string) *ServicePackage {
	pkg := NewPackage(data, data.ServicePackageName(serviceName), data.ServicePyPIName(serviceName), ver, []*models.ServiceName{serviceName})
	return &ServicePackage{
		Package:     pkg,
		ServiceName: serviceName,
		Client:      NewClient(serviceName),
	}
}

// methods returns every method of the package
func (p *ServicePackage) methods() []*Method {
	result := append([]*Method{}, p.Client.Methods...)
	for _, paginator := range p.Paginators {
		if paginator.PaginateMethod != nil {
			result = append(result, paginator.PaginateMethod)
		}
	}
	for _, waiter := range p.Waiters {
		if waiter.WaitMethod != nil {
			result = append(result, waiter.WaitMethod)
		}
	}
	return result
}

// Methods returns client, paginator and waiter methods
func (p *ServicePackage) Methods() []*Method {
	return p.methods()
}

// IterateTypes yields every annotation reachable from the package
// signatures. An annotation reachable from several methods is yielded once.
func (p *ServicePackage) IterateTypes() iter.Seq[ta.FakeAnnotation] {
	return func(yield func(ta.FakeAnnotation) bool) {
		seen := make(map[ta.FakeAnnotation]struct{})
		emit := func(item ta.FakeAnnotation) bool {
			if _, ok := seen[item]; ok {
				return true
			}
			seen[item] = struct{}{}
			return yield(item)
		}
		for _, method := range p.methods() {
			for item := range method.IterateTypes() {
				if !emit(item) {
					return
				}
			}
		}
		for _, typeDef := range p.TypeDefs {
			for item := range typeDef.IterateTypes() {
				if !emit(item) {
					return
				}
			}
		}
	}
}

// ExtractTypeDefs returns named declarations reachable from the package:
// TypedDicts and named unions, sorted and unique by name.
func (p *ServicePackage) ExtractTypeDefs() []ta.FakeAnnotation {
	var result []ta.FakeAnnotation
	for item := range p.IterateTypes() {
		if item.IsNamedDeclaration() {
			result = append(result, item)
		}
	}
	return ta.UniqueSorted(result)
}

// ExtractLiterals returns multi-value literals reachable from the package
func (p *ServicePackage) ExtractLiterals() []*ta.TypeLiteral {
	var result []*ta.TypeLiteral
	for item := range p.IterateTypes() {
		if !item.IsLiteral() {
			continue
		}
		if literal := item.(*ta.TypeLiteral); !literal.Inline() {
			result = append(result, literal)
		}
	}
	return ta.UniqueSorted(result)
}

// RefreshDeclarations recomputes TypeDefs and Literals from the graph
func (p *ServicePackage) RefreshDeclarations() {
	p.TypeDefs = p.ExtractTypeDefs()
	p.Literals = p.ExtractLiterals()
}

// GetTypeDef looks a declaration up by name
func (p *ServicePackage) GetTypeDef(name string) (ta.FakeAnnotation, bool) {
	for _, typeDef := range p.TypeDefs {
		if typeDef.SortKey() == name {
			return typeDef, true
		}
	}
	return nil, false
}

// TypedDicts returns the TypedDict declarations
func (p *ServicePackage) TypedDicts() []*ta.TypeTypedDict {
	var result []*ta.TypeTypedDict
	for _, typeDef := range p.TypeDefs {
		if typeDef.IsTypedDict() {
			result = append(result, typeDef.(*ta.TypeTypedDict))
		}
	}
	return result
}

// AddLiteralChild extends a literal owned by the package
func (p *ServicePackage) AddLiteralChild(literal *ta.TypeLiteral, values ...string) {
	ta.AddLiteralChild(literal, values...)
}

// ReplaceTypes swaps annotations everywhere in the package graph. replace
// is asked about every method root and every child of a composite type.
func (p *ServicePackage) ReplaceTypes(replace func(ta.FakeAnnotation) (ta.FakeAnnotation, bool)) error {
	for _, method := range p.methods() {
		method.replaceRoots(replace)
	}
	for i, typeDef := range p.TypeDefs {
		if replacement, ok := replace(typeDef); ok {
			p.TypeDefs[i] = replacement
		}
	}

	var parents []ta.TypeParent
	for item := range p.IterateTypes() {
		if parent, ok := item.(ta.TypeParent); ok {
			parents = append(parents, parent)
		}
	}
	for _, parent := range parents {
		for _, child := range parent.ChildTypes() {
			replacement, ok := replace(child)
			if !ok || !slices.Contains(parent.ChildTypes(), child) {
				continue
			}
			if err := parent.ReplaceChild(child, replacement); err != nil {
				return err
			}
		}
	}
	return nil
}

// ModuleImports returns imports of one generated module, without records
// that point back at the module itself.
func (p *ServicePackage) ModuleImports(module models.ServiceModuleName) *importhelpers.ImportSet {
	result := importhelpers.NewImportSet()
	switch module {
	case models.ModuleClient:
		result.Merge(p.Client.ImportRecords())
	case models.ModulePaginator:
		for _, paginator := range p.Paginators {
			result.Merge(paginator.ImportRecords())
		}
	case models.ModuleWaiter:
		for _, waiter := range p.Waiters {
			result.Merge(waiter.ImportRecords())
		}
	case models.ModuleTypeDefs:
		for _, typeDef := range p.TypeDefs {
			result.Merge(ta.GetDefinitionImportRecords(typeDef))
		}
	case models.ModuleLiterals:
		for _, literal := range p.Literals {
			result.Merge(literal.DefinitionImportRecords())
		}
	}

	self := importhelpers.LocalImportString(string(module))
	return result.Filter(func(record importhelpers.ImportRecord) bool {
		return !record.Source.Equal(self)
	})
}

// Modules lists the modules the package renders
func (p *ServicePackage) Modules() []models.ServiceModuleName {
	modules := []models.ServiceModuleName{models.ModuleClient}
	if len(p.Paginators) > 0 {
		modules = append(modules, models.ModulePaginator)
	}
	if len(p.Waiters) > 0 {
		modules = append(modules, models.ModuleWaiter)
	}
	return append(modules, models.ModuleLiterals, models.ModuleTypeDefs)
}
