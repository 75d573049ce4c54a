package parser

import (
	"slices"
	"strings"

	"github.com/toyz/pystubgen/internal/errors"
	"github.com/toyz/pystubgen/internal/models"
	"github.com/toyz/pystubgen/internal/structures"
	ta "github.com/toyz/pystubgen/internal/typeannotations"
	"github.com/toyz/pystubgen/internal/utils"
)

// ServicePackageParser builds the ServicePackage of one service from its
// model files.
type ServicePackageParser struct {
	loader      *Loader
	data        *models.PackageData
	serviceName *models.ServiceName
	version     string
	overrides   map[string]string
}

// NewServicePackageParser creates a parser for one service
func NewServicePackageParser(loader *Loader, data *models.PackageData, serviceName *models.ServiceName, ver string, overrides map[string]string) *ServicePackageParser {
	return &ServicePackageParser{
		loader:      loader,
		data:        data,
		serviceName: serviceName,
		version:     ver,
		overrides:   overrides,
	}
}

// Parse loads the model and returns the package with declarations extracted
func (p *ServicePackageParser) Parse() (*structures.ServicePackage, error) {
	service := p.serviceName.Name
	model, err := p.loader.LoadService(service)
	if err != nil {
		return nil, err
	}
	paginators, err := p.loader.LoadPaginators(service)
	if err != nil {
		return nil, err
	}
	waiters, err := p.loader.LoadWaiters(service)
	if err != nil {
		return nil, err
	}

	shapes := NewShapeParser(service, model, p.overrides)
	pkg := structures.NewServicePackage(p.data, p.serviceName, p.version)
	pkg.Client.Docstring = model.Documentation
	pkg.Client.Methods = clientCommonMethods()

	for _, name := range model.OperationNames() {
		method, err := p.parseOperation(shapes, model.Operations[name])
		if err != nil {
			return nil, errors.Wrapf(err, "parse operation %s.%s", service, name)
		}
		pkg.Client.Methods = append(pkg.Client.Methods, method)
	}

	for _, name := range sortedKeys(paginators.Pagination) {
		paginator, err := p.parsePaginator(shapes, model, name, paginators.Pagination[name])
		if err != nil {
			return nil, errors.Wrapf(err, "parse paginator %s.%s", service, name)
		}
		pkg.Paginators = append(pkg.Paginators, paginator)
	}

	for _, name := range sortedKeys(waiters.Waiters) {
		waiter, err := p.parseWaiter(shapes, model, name, waiters.Waiters[name])
		if err != nil {
			return nil, errors.Wrapf(err, "parse waiter %s.%s", service, name)
		}
		pkg.Waiters = append(pkg.Waiters, waiter)
	}

	pkg.Client.Methods = append(pkg.Client.Methods, getPaginatorMethods(pkg.Paginators)...)
	pkg.Client.Methods = append(pkg.Client.Methods, getWaiterMethods(pkg.Waiters)...)
	slices.SortStableFunc(pkg.Client.Methods, func(a, b *structures.Method) int {
		return strings.Compare(a.Name, b.Name)
	})

	pkg.RefreshDeclarations()
	return pkg, nil
}

func (p *ServicePackageParser) parseOperation(shapes *ShapeParser, op *Operation) (*structures.Method, error) {
	arguments, request, err := shapes.OperationArguments(op)
	if err != nil {
		return nil, err
	}
	output, err := shapes.OperationOutput(op)
	if err != nil {
		return nil, err
	}
	method := structures.NewMethod(utils.ToSnakeCase(op.Name), output, keywordOnly(arguments)...)
	method.Docstring = op.Documentation
	method.RequestTypeDef = request
	return method, nil
}

func (p *ServicePackageParser) parsePaginator(shapes *ShapeParser, model *ServiceModel, name string, config PaginatorConfig) (*structures.Paginator, error) {
	op, ok := model.Operations[name]
	if !ok {
		return nil, errors.NewModelError(p.serviceName.Name, name, "paginator references an unknown operation")
	}
	arguments, _, err := shapes.OperationArguments(op, config.InputTokens()...)
	if err != nil {
		return nil, err
	}
	arguments = append(arguments, structures.NewArgument("PaginationConfig", shapes.PaginatorConfig(), ta.Ellipsis))
	output, err := shapes.OperationOutput(op)
	if err != nil {
		return nil, err
	}

	method := structures.NewMethod("paginate", ta.NewTypeSubscript(ta.IteratorType, output), keywordOnly(arguments)...)
	method.Docstring = op.Documentation
	return &structures.Paginator{
		Name:           name + "Paginator",
		OperationName:  name,
		ServiceName:    p.serviceName,
		PaginateMethod: method,
	}, nil
}

func (p *ServicePackageParser) parseWaiter(shapes *ShapeParser, model *ServiceModel, name string, config WaiterConfig) (*structures.Waiter, error) {
	op, ok := model.Operations[config.Operation]
	if !ok {
		return nil, errors.NewModelError(p.serviceName.Name, name, "waiter references an unknown operation")
	}
	arguments, _, err := shapes.OperationArguments(op)
	if err != nil {
		return nil, err
	}
	arguments = append(arguments, structures.NewArgument("WaiterConfig", shapes.WaiterConfig(), ta.Ellipsis))

	method := structures.NewMethod("wait", ta.NoneType, keywordOnly(arguments)...)
	method.Docstring = config.Description
	return &structures.Waiter{
		Name:        name + "Waiter",
		WaiterName:  name,
		ServiceName: p.serviceName,
		WaitMethod:  method,
	}, nil
}

// keywordOnly prefixes arguments with the bare * marker
func keywordOnly(arguments []*structures.Argument) []*structures.Argument {
	if len(arguments) == 0 {
		return nil
	}
	return append([]*structures.Argument{structures.KwFlag()}, arguments...)
}

func clientCommonMethods() []*structures.Method {
	str := ta.Builtin("str")
	return []*structures.Method{
		structures.NewMethod("can_paginate", ta.Builtin("bool"),
			structures.NewArgument("operation_name", str, nil)),
		structures.NewMethod("close", ta.NoneType),
		structures.NewMethod("generate_presigned_url", str,
			structures.NewArgument("ClientMethod", str, nil),
			structures.NewArgument("Params", ta.NewTypeSubscript(ta.MappingType, str, ta.AnyType), ta.Ellipsis),
			structures.NewArgument("ExpiresIn", ta.Builtin("int"), ta.Ellipsis),
			structures.NewArgument("HttpMethod", str, ta.Ellipsis)),
	}
}

// getPaginatorMethods returns one get_paginator signature per paginator,
// overloaded when there is more than one.
func getPaginatorMethods(paginators []*structures.Paginator) []*structures.Method {
	result := make([]*structures.Method, 0, len(paginators))
	for _, paginator := range paginators {
		literal, _ := ta.NewTypeLiteral(paginator.Name+LiteralSuffix, paginator.PaginatorName())
		method := structures.NewMethod("get_paginator",
			ta.NewInternalImport(paginator.Name, models.ModulePaginator),
			structures.NewArgument("operation_name", literal, nil))
		result = append(result, method)
	}
	markOverloads(result)
	return result
}

// getWaiterMethods returns one get_waiter signature per waiter
func getWaiterMethods(waiters []*structures.Waiter) []*structures.Method {
	result := make([]*structures.Method, 0, len(waiters))
	for _, waiter := range waiters {
		literal, _ := ta.NewTypeLiteral(waiter.Name+LiteralSuffix, waiter.AttributeName())
		method := structures.NewMethod("get_waiter",
			ta.NewInternalImport(waiter.Name, models.ModuleWaiter),
			structures.NewArgument("waiter_name", literal, nil))
		result = append(result, method)
	}
	markOverloads(result)
	return result
}

func markOverloads(methods []*structures.Method) {
	if len(methods) < 2 {
		return
	}
	for _, method := range methods {
		method.Decorators = []ta.FakeAnnotation{ta.OverloadType}
	}
}
