package structures

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"

	ta "github.com/toyz/pystubgen/internal/typeannotations"
)

func TestArgument_Render(t *testing.T) {
	tests := []struct {
		name     string
		arg      *Argument
		expected string
	}{
		{"self", SelfArgument(), "self"},
		{"kwflag", KwFlag(), "*"},
		{"required", NewArgument("Bucket", ta.Builtin("str"), nil), "Bucket: str"},
		{"optional", NewArgument("MaxKeys", ta.Builtin("int"), ta.Ellipsis), "MaxKeys: int = ..."},
		{"kwargs", &Argument{Name: "kwargs", Prefix: "**", TypeAnnotation: ta.AnyType}, "**kwargs: Any"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.arg.Render())
		})
	}

	assert.True(t, KwFlag().IsKwFlag())
	assert.True(t, NewArgument("Bucket", ta.Builtin("str"), nil).Required())
}

func TestMethod_RenderArguments(t *testing.T) {
	method := NewMethod("get_object", ta.AnyType,
		KwFlag(),
		NewArgument("Bucket", ta.Builtin("str"), nil),
		NewArgument("Key", ta.Builtin("str"), nil),
	)

	assert.Equal(t, "self, *, Bucket: str, Key: str", method.RenderArguments())
	assert.Len(t, method.KeywordArguments(), 2)
	assert.False(t, method.HasInvalidArgumentNames())
}

func TestMethod_UseUnpackKwargs(t *testing.T) {
	request := ta.NewTypeTypedDict("PutObjectRequestTypeDef")
	request.AddAttribute("x-amz-meta", ta.Builtin("str"), true)
	method := NewMethod("put_object", ta.NoneType,
		KwFlag(),
		NewArgument("x-amz-meta", ta.Builtin("str"), nil),
	)
	assert.True(t, method.HasInvalidArgumentNames())
	assert.False(t, (&Method{Name: "plain"}).UseUnpackKwargs())

	method.RequestTypeDef = request
	assert.True(t, method.UseUnpackKwargs())

	assert.Equal(t, "self, **kwargs: Unpack[PutObjectRequestTypeDef]", method.RenderArguments())
	assert.False(t, method.HasInvalidArgumentNames())
	imports := method.ImportRecords()
	assert.True(t, imports.Contains(ta.UnpackType.ImportRecord()))
}

func TestMethod_IterateTypes(t *testing.T) {
	method := NewMethod("list", ta.NewTypeSubscript(ta.ListType, ta.Builtin("str")),
		NewArgument("Limit", ta.Builtin("int"), ta.Ellipsis),
	)
	method.Decorators = []ta.FakeAnnotation{ta.OverloadType}

	var rendered []string
	for item := range method.IterateTypes() {
		rendered = append(rendered, item.Render())
	}

	assert.True(t, slices.Contains(rendered, "int"))
	assert.True(t, slices.Contains(rendered, "..."))
	assert.True(t, slices.Contains(rendered, "List[str]"))
	assert.True(t, slices.Contains(rendered, "overload"))
	assert.Equal(t, []string{"overload"}, method.RenderedDecorators())
}
