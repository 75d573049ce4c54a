package parser

import (
	"fmt"

	"github.com/toyz/pystubgen/internal/errors"
	"github.com/toyz/pystubgen/internal/importhelpers"
	"github.com/toyz/pystubgen/internal/structures"
	ta "github.com/toyz/pystubgen/internal/typeannotations"
)

type shapeContext int

const (
	inputContext shapeContext = iota
	outputContext
)

var (
	datetimeType      = ta.NewExternalImport(importhelpers.Datetime, "datetime", "")
	streamingBodyType = ta.NewExternalImport(importhelpers.NewImportString("botocore", "response"), "StreamingBody", "")
)

// ShapeParser converts shapes of one service model into annotations.
// Structures become TypedDicts and enums become literals; both are
// created once per name so every use shares one declaration. Lists and
// maps are built fresh at each use.
type ShapeParser struct {
	service     string
	model       *ServiceModel
	overrides   map[string]string
	inputShapes map[string]struct{}

	typedDicts map[string]*ta.TypeTypedDict
	literals   map[string]*ta.TypeLiteral
	unions     map[string]*ta.TypeUnion
}

// NewShapeParser creates a parser. overrides maps "Shape" or
// "Shape.Member" to a type expression used instead of the model type.
func NewShapeParser(service string, model *ServiceModel, overrides map[string]string) *ShapeParser {
	p := &ShapeParser{
		service:     service,
		model:       model,
		overrides:   overrides,
		inputShapes: make(map[string]struct{}),
		typedDicts:  make(map[string]*ta.TypeTypedDict),
		literals:    make(map[string]*ta.TypeLiteral),
		unions:      make(map[string]*ta.TypeUnion),
	}
	for _, name := range model.OperationNames() {
		if input := model.Operations[name].Input; input != nil {
			p.collectInputShapes(input.Shape)
		}
	}
	return p
}

func (p *ShapeParser) collectInputShapes(name string) {
	if _, ok := p.inputShapes[name]; ok {
		return
	}
	shape, ok := p.model.Shapes[name]
	if !ok {
		return
	}
	p.inputShapes[name] = struct{}{}
	for _, member := range shape.Members {
		p.collectInputShapes(member.Ref.Shape)
	}
	for _, ref := range []*ShapeRef{shape.Member, shape.Key, shape.Value} {
		if ref != nil {
			p.collectInputShapes(ref.Shape)
		}
	}
}

// ParseInput parses a shape as a request value
func (p *ShapeParser) ParseInput(name string) (ta.FakeAnnotation, error) {
	return p.parseShape(name, inputContext)
}

// ParseOutput parses a shape as a response value
func (p *ShapeParser) ParseOutput(name string) (ta.FakeAnnotation, error) {
	return p.parseShape(name, outputContext)
}

// OperationArguments returns keyword arguments of an operation, required
// first, and the request TypedDict. Members named in skip are left out.
func (p *ShapeParser) OperationArguments(op *Operation, skip ...string) ([]*structures.Argument, *ta.TypeTypedDict, error) {
	if op.Input == nil {
		return nil, nil, nil
	}
	shape, err := p.shape(op.Input.Shape)
	if err != nil {
		return nil, nil, err
	}
	request, err := p.ParseInput(op.Input.Shape)
	if err != nil {
		return nil, nil, err
	}
	requestTypeDef, _ := request.(*ta.TypeTypedDict)

	skipped := make(map[string]struct{}, len(skip))
	for _, name := range skip {
		skipped[name] = struct{}{}
	}
	var required, optional []*structures.Argument
	for _, member := range shape.Members {
		if _, ok := skipped[member.Name]; ok {
			continue
		}
		typ, err := p.parseMember(op.Input.Shape, member, inputContext)
		if err != nil {
			return nil, nil, err
		}
		if shape.IsRequired(member.Name) {
			required = append(required, structures.NewArgument(member.Name, typ, nil))
			continue
		}
		optional = append(optional, structures.NewArgument(member.Name, typ, ta.Ellipsis))
	}
	return append(required, optional...), requestTypeDef, nil
}

// OperationOutput returns the response TypedDict of an operation, with the
// ResponseMetadata key every response carries.
func (p *ShapeParser) OperationOutput(op *Operation) (ta.FakeAnnotation, error) {
	if op.Output == nil {
		name := "EmptyResponseMetadata" + TypeDefSuffix
		if td, ok := p.typedDicts[name]; ok {
			return td, nil
		}
		td := ta.NewTypeTypedDict(name)
		td.AddAttribute(ResponseMetadataKey, p.ResponseMetadata(), true)
		p.typedDicts[name] = td
		return td, nil
	}

	output, err := p.ParseOutput(op.Output.Shape)
	if err != nil {
		return nil, err
	}
	td, ok := output.(*ta.TypeTypedDict)
	if !ok {
		return output, nil
	}
	if _, exists := td.GetAttribute(ResponseMetadataKey); !exists {
		td.AddAttribute(ResponseMetadataKey, p.ResponseMetadata(), true)
	}
	return td, nil
}

// ResponseMetadata is the metadata TypedDict attached to every response
func (p *ShapeParser) ResponseMetadata() *ta.TypeTypedDict {
	name := ResponseMetadataKey + TypeDefSuffix
	if td, ok := p.typedDicts[name]; ok {
		return td
	}
	td := ta.NewTypeTypedDict(name)
	td.AddAttribute("RequestId", ta.Builtin("str"), true)
	td.AddAttribute("HTTPStatusCode", ta.Builtin("int"), true)
	td.AddAttribute("HTTPHeaders", ta.NewTypeSubscript(ta.DictType, ta.Builtin("str"), ta.Builtin("str")), true)
	td.AddAttribute("RetryAttempts", ta.Builtin("int"), true)
	td.AddAttribute("HostId", ta.Builtin("str"), false)
	p.typedDicts[name] = td
	return td
}

// PaginatorConfig is the PaginationConfig argument of paginate
func (p *ShapeParser) PaginatorConfig() *ta.TypeTypedDict {
	name := "PaginatorConfig" + TypeDefSuffix
	if td, ok := p.typedDicts[name]; ok {
		return td
	}
	td := ta.NewTypeTypedDict(name)
	td.AddAttribute("MaxItems", ta.Builtin("int"), false)
	td.AddAttribute("PageSize", ta.Builtin("int"), false)
	td.AddAttribute("StartingToken", ta.Builtin("str"), false)
	p.typedDicts[name] = td
	return td
}

// WaiterConfig is the WaiterConfig argument of wait
func (p *ShapeParser) WaiterConfig() *ta.TypeTypedDict {
	name := "WaiterConfig" + TypeDefSuffix
	if td, ok := p.typedDicts[name]; ok {
		return td
	}
	td := ta.NewTypeTypedDict(name)
	td.AddAttribute("Delay", ta.Builtin("int"), false)
	td.AddAttribute("MaxAttempts", ta.Builtin("int"), false)
	p.typedDicts[name] = td
	return td
}

func (p *ShapeParser) shape(name string) (*Shape, error) {
	shape, ok := p.model.Shapes[name]
	if !ok {
		return nil, errors.NewModelError(p.service, name, "shape is not defined")
	}
	return shape, nil
}

func (p *ShapeParser) parseMember(owner string, member Member, ctx shapeContext) (ta.FakeAnnotation, error) {
	if expr, ok := p.overrides[owner+"."+member.Name]; ok {
		return p.parseOverride(owner+member.Name, expr, ctx)
	}
	return p.parseShape(member.Ref.Shape, ctx)
}

func (p *ShapeParser) parseRef(ref *ShapeRef, ctx shapeContext) (ta.FakeAnnotation, error) {
	if ref == nil {
		return ta.AnyType, nil
	}
	return p.parseShape(ref.Shape, ctx)
}

func (p *ShapeParser) parseOverride(name, expr string, ctx shapeContext) (ta.FakeAnnotation, error) {
	result, err := ta.ParseExpression(expr, ta.ExpressionOptions{
		LiteralName: name + LiteralSuffix,
		Resolve: func(ref string) (ta.FakeAnnotation, bool) {
			if _, ok := p.model.Shapes[ref]; !ok {
				return nil, false
			}
			resolved, err := p.parseShape(ref, ctx)
			return resolved, err == nil
		},
	})
	if err != nil {
		return nil, errors.Wrapf(err, "type override for %s", name)
	}
	return result, nil
}

func (p *ShapeParser) parseShape(name string, ctx shapeContext) (ta.FakeAnnotation, error) {
	if expr, ok := p.overrides[name]; ok {
		return p.parseOverride(name, expr, ctx)
	}
	shape, err := p.shape(name)
	if err != nil {
		return nil, err
	}

	switch shape.Type {
	case "string":
		if len(shape.Enum) > 0 {
			return p.literal(name, shape.Enum)
		}
		return ta.Builtin("str"), nil
	case "integer", "long":
		return ta.Builtin("int"), nil
	case "float", "double":
		return ta.Builtin("float"), nil
	case "boolean":
		return ta.Builtin("bool"), nil
	case "timestamp":
		if ctx == outputContext {
			return datetimeType, nil
		}
		return p.namedUnion("Timestamp", datetimeType, ta.Builtin("str"))
	case "blob":
		if ctx == outputContext {
			if shape.Streaming {
				return streamingBodyType, nil
			}
			return ta.Builtin("bytes"), nil
		}
		return p.namedUnion("Blob", ta.Builtin("str"), ta.Builtin("bytes"), ta.NewTypeSubscript(ta.IOType, ta.AnyType), streamingBodyType)
	case "list":
		member, err := p.parseRef(shape.Member, ctx)
		if err != nil {
			return nil, err
		}
		if ctx == inputContext {
			return ta.NewTypeSubscript(ta.SequenceType, member), nil
		}
		return ta.NewTypeSubscript(ta.ListType, member), nil
	case "map":
		key, err := p.parseRef(shape.Key, ctx)
		if err != nil {
			return nil, err
		}
		value, err := p.parseRef(shape.Value, ctx)
		if err != nil {
			return nil, err
		}
		if ctx == inputContext {
			return ta.NewTypeSubscript(ta.MappingType, key, value), nil
		}
		return ta.NewTypeSubscript(ta.DictType, key, value), nil
	case "structure":
		if shape.Document || shape.EventStream {
			return ta.NewTypeSubscript(ta.DictType, ta.Builtin("str"), ta.AnyType), nil
		}
		return p.typedDict(name, shape, ctx)
	default:
		return nil, errors.NewModelError(p.service, name, fmt.Sprintf("unsupported shape type %q", shape.Type))
	}
}

func (p *ShapeParser) typedDictName(name string, ctx shapeContext) string {
	if ctx == outputContext {
		if _, ok := p.inputShapes[name]; ok {
			return name + OutputTypeDefSuffix
		}
	}
	return name + TypeDefSuffix
}

func (p *ShapeParser) typedDict(name string, shape *Shape, ctx shapeContext) (*ta.TypeTypedDict, error) {
	tdName := p.typedDictName(name, ctx)
	if td, ok := p.typedDicts[tdName]; ok {
		return td, nil
	}

	td := ta.NewTypeTypedDict(tdName)
	td.Docstring = shape.Documentation
	p.typedDicts[tdName] = td

	for _, member := range shape.Members {
		typ, err := p.parseMember(name, member, ctx)
		if err != nil {
			return nil, err
		}
		required := shape.IsRequired(member.Name) || (ctx == outputContext && !shape.Union)
		td.AddAttribute(member.Name, typ, required)
	}
	return td, nil
}

func (p *ShapeParser) literal(name string, values []string) (*ta.TypeLiteral, error) {
	literalName := name + LiteralSuffix
	if literal, ok := p.literals[literalName]; ok {
		return literal, nil
	}
	literal, err := ta.NewTypeLiteral(literalName, values...)
	if err != nil {
		return nil, err
	}
	p.literals[literalName] = literal
	return literal, nil
}

func (p *ShapeParser) namedUnion(name string, children ...ta.FakeAnnotation) (*ta.TypeUnion, error) {
	unionName := name + TypeDefSuffix
	if union, ok := p.unions[unionName]; ok {
		return union, nil
	}
	union, err := ta.NewTypeUnion(unionName, children...)
	if err != nil {
		return nil, err
	}
	p.unions[unionName] = union
	return union, nil
}
