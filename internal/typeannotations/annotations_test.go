package typeannotations

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/pystubgen/internal/errors"
	"github.com/toyz/pystubgen/internal/importhelpers"
	"github.com/toyz/pystubgen/internal/models"
)

func TestTypeAnnotation(t *testing.T) {
	_, err := NewTypeAnnotation("Frobnicate")
	assert.True(t, errors.IsCode(err, errors.TypeAnnotationErrorCode))

	assert.True(t, DictType.IsDict())
	assert.True(t, MappingType.IsDict())
	assert.True(t, SequenceType.IsList())
	assert.False(t, AnyType.IsList())
	assert.Equal(t, "from typing import Any", GetImportRecords(AnyType).Render())
	assert.True(t, NotRequiredType.ImportRecord().NeedsSysImport())
}

func TestExternalImport(t *testing.T) {
	body := NewExternalImport(importhelpers.NewImportString("botocore", "response"), "StreamingBody", "")
	aliased := NewExternalImport(importhelpers.Datetime, "datetime", "Datetime")

	assert.Equal(t, "StreamingBody", body.Render())
	assert.Equal(t, "Datetime", aliased.Render())
	assert.Equal(t, "from botocore.response import StreamingBody", GetImportRecords(body).Render())
	assert.Equal(t, 0, GetImportRecords(Builtin("str")).Len())

	clone := body.Copy().(*ExternalImport)
	assert.Equal(t, body.Render(), clone.Render())
	assert.NotSame(t, body, clone)
}

func TestTypeSubscript(t *testing.T) {
	subscript := NewTypeSubscript(DictType, Builtin("str"), AnyType)

	assert.Equal(t, "Dict[str, Any]", subscript.Render())
	assert.True(t, subscript.IsDict())
	assert.False(t, subscript.IsList())
	assert.Equal(t, "from typing import Any\nfrom typing import Dict", GetImportRecords(subscript).Render())

	clone := subscript.Copy().(*TypeSubscript)
	clone.AddChild(NoneType)
	assert.Equal(t, "Dict[str, Any]", subscript.Render())

	require.NoError(t, subscript.ReplaceChild(AnyType, Builtin("int")))
	assert.Equal(t, "Dict[str, int]", subscript.Render())
	assert.Error(t, subscript.ReplaceChild(AnyType, NoneType))
}

func TestTypeUnion(t *testing.T) {
	_, err := NewTypeUnion("", Builtin("str"))
	var annotationErr *errors.TypeAnnotationError
	require.ErrorAs(t, err, &annotationErr)

	inline, err := NewTypeUnion("", Builtin("str"), NoneType)
	require.NoError(t, err)
	assert.Equal(t, "Union[str, None]", inline.Render())
	assert.Equal(t, "from typing import Union", GetImportRecords(inline).Render())
	assert.Empty(t, inline.LocalTypes())

	named, err := NewTypeUnion("AttributeValueUnionTypeDef", Builtin("str"), Builtin("bytes"))
	require.NoError(t, err)
	assert.Equal(t, "AttributeValueUnionTypeDef", named.Render())
	assert.Equal(t, "from .type_defs import AttributeValueUnionTypeDef", GetImportRecords(named).Render())
	assert.Equal(t, []FakeAnnotation{named}, named.LocalTypes())

	renderer := &recordingRenderer{}
	out, err := named.RenderDefinition(renderer)
	require.NoError(t, err)
	assert.Equal(t, "rendered common/named_union.py.tmpl", out)
}

func TestTypeTypedDict(t *testing.T) {
	literal, err := NewTypeLiteral("StateType", "on", "off")
	require.NoError(t, err)
	typedDict := NewTypeTypedDict("ThingTypeDef")
	typedDict.AddAttribute("Name", Builtin("str"), true)
	typedDict.AddAttribute("State", literal, false)

	assert.True(t, typedDict.IsTypedDict())
	assert.True(t, typedDict.IsDict())
	assert.Equal(t, "ThingTypeDef", typedDict.Render())
	assert.Equal(t, []string{"Name: str", "State: NotRequired[StateType]"}, typedDict.RenderedAttributes())
	assert.False(t, typedDict.NeedsFunctionalSyntax())

	typedDict.Safe = true
	assert.Equal(t, []string{"Name: str", "State: StateType"}, typedDict.RenderedAttributes())
	typedDict.Safe = false

	assert.Equal(t, "from .type_defs import ThingTypeDef", GetImportRecords(typedDict).Render())
	definitionImports := typedDict.DefinitionImportRecords()
	assert.True(t, definitionImports.Contains(importhelpers.NewImportRecord(importhelpers.Typing, "TypedDict", "")))
	assert.True(t, definitionImports.Contains(NotRequiredType.ImportRecord()))
	assert.True(t, definitionImports.Contains(importhelpers.NewInternalImportRecord(string(models.ModuleLiterals), "StateType", "")))
}

func TestTypeTypedDict_FunctionalSyntax(t *testing.T) {
	typedDict := NewTypeTypedDict("MetadataTypeDef")
	typedDict.AddAttribute("x-amz-meta", Builtin("str"), true)
	typedDict.AddAttribute("from", Builtin("str"), false)

	assert.True(t, typedDict.NeedsFunctionalSyntax())
	assert.Equal(t, []string{`"x-amz-meta": str`, `"from": NotRequired[str]`}, typedDict.RenderedFunctionalAttributes())

	renderer := &recordingRenderer{}
	_, err := typedDict.RenderDefinition(renderer)
	require.NoError(t, err)
	assert.Equal(t, TypedDictFunctionalTemplate, renderer.name)
}

func TestTypeTypedDict_CopyAndReplace(t *testing.T) {
	typedDict := NewTypeTypedDict("ThingTypeDef")
	typedDict.AddAttribute("Tags", NewTypeSubscript(ListType, Builtin("str")), false)

	clone := typedDict.Copy().(*TypeTypedDict)
	clone.Attributes[0].Required = true
	clone.Name = "OtherTypeDef"
	assert.False(t, typedDict.Attributes[0].Required)
	assert.Equal(t, "ThingTypeDef", typedDict.Render())

	tags := typedDict.Attributes[0].Type
	require.NoError(t, typedDict.ReplaceChild(tags, AnyType))
	assert.Equal(t, "Any", typedDict.Attributes[0].Type.Render())
	assert.Error(t, typedDict.ReplaceChild(tags, AnyType))
}

func TestIterateTypes_Cycle(t *testing.T) {
	node := NewTypeTypedDict("NodeTypeDef")
	node.AddAttribute("Children", NewTypeSubscript(ListType, node), false)
	node.AddAttribute("Name", Builtin("str"), true)

	first := slices.Collect(node.IterateTypes())
	second := slices.Collect(node.IterateTypes())

	rendered := make([]string, len(first))
	for i, item := range first {
		rendered[i] = item.Render()
	}
	assert.Equal(t, []string{"NodeTypeDef", "List[NodeTypeDef]", "List", "str"}, rendered)
	assert.Equal(t, first, second)
}

func TestIterateTypes_EarlyStop(t *testing.T) {
	subscript := NewTypeSubscript(DictType, Builtin("str"), AnyType)
	count := 0
	for range subscript.IterateTypes() {
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(t, 2, count)
}

func TestTypeDefRef(t *testing.T) {
	node := NewTypeTypedDict("NodeTypeDef")
	ref := NewTypeDefRef("NodeTypeDef")

	assert.Equal(t, `"NodeTypeDef"`, ref.Render())
	assert.True(t, Equal(ref, node))
	assert.Equal(t, 0, GetImportRecords(ref).Len())

	resolved, ok := ref.Resolve(func(name string) (FakeAnnotation, bool) {
		return node, name == "NodeTypeDef"
	})
	require.True(t, ok)
	assert.Same(t, node, resolved)
}

func TestInternalImport(t *testing.T) {
	ref := NewInternalImport("EC2Client", models.ModuleClient)
	local := NewInternalImport("Waiter", "")

	assert.Equal(t, "from .client import EC2Client", GetImportRecords(ref).Render())
	assert.Equal(t, 0, GetImportRecords(local).Len())

	local.Stringify = true
	assert.Equal(t, `"Waiter"`, local.Render())
}

func TestSortAndUnique(t *testing.T) {
	b, err := NewTypeLiteral("B", "1", "2")
	require.NoError(t, err)
	a, err := NewTypeLiteral("A", "1", "2")
	require.NoError(t, err)
	aAgain, err := NewTypeLiteral("A", "3", "4")
	require.NoError(t, err)

	items := []FakeAnnotation{b, a, AnyType, aAgain}
	SortAnnotations(items)
	assert.Equal(t, []FakeAnnotation{a, aAgain, AnyType, b}, items)

	again := slices.Clone(items)
	SortAnnotations(again)
	assert.Equal(t, items, again)

	unique := UniqueSorted([]FakeAnnotation{b, a, AnyType, aAgain})
	assert.Equal(t, []FakeAnnotation{a, AnyType, b}, unique)

	assert.Equal(t, 0, Compare(a, aAgain))
	assert.Equal(t, -1, Compare(a, b))
	assert.Equal(t, 1, Compare(b, a))
}

func TestClassificationPredicates(t *testing.T) {
	named, err := NewTypeUnion("ValueUnionTypeDef", Builtin("str"), Builtin("int"))
	require.NoError(t, err)
	inline, err := NewTypeUnion("", Builtin("str"), NoneType)
	require.NoError(t, err)
	typedDict := NewTypeTypedDict("ItemTypeDef")
	ref := NewTypeDefRef("ItemTypeDef")

	assert.True(t, named.IsNamedDeclaration())
	assert.False(t, inline.IsNamedDeclaration())
	assert.True(t, typedDict.IsNamedDeclaration())
	assert.False(t, Builtin("str").IsNamedDeclaration())

	name, ok := ref.ReferenceName()
	assert.True(t, ok)
	assert.Equal(t, "ItemTypeDef", name)
	_, ok = typedDict.ReferenceName()
	assert.False(t, ok)

	children, closed := NewTypeSubscript(ListType, Builtin("str")).ClosedOver()
	assert.True(t, closed)
	assert.Len(t, children, 1)
	_, closed = AnyType.ClosedOver()
	assert.False(t, closed)
	_, closed = NewExternalImport(importhelpers.Datetime, "datetime", "").ClosedOver()
	assert.True(t, closed)
}

func TestGetDefinitionImportRecords_FallsBackToUsage(t *testing.T) {
	list := NewTypeSubscript(ListType, NewExternalImport(importhelpers.Datetime, "datetime", ""))
	assert.Nil(t, list.DefinitionImportRecords())

	records := GetDefinitionImportRecords(list)
	assert.True(t, records.Contains(importhelpers.NewImportRecord(importhelpers.Datetime, "datetime", "")))

	union, err := NewTypeUnion("ValueUnionTypeDef", Builtin("str"), Builtin("int"))
	require.NoError(t, err)
	assert.True(t, GetDefinitionImportRecords(union).Contains(UnionType.ImportRecord()))
}
