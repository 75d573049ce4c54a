package typeannotations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/pystubgen/internal/errors"
	"github.com/toyz/pystubgen/internal/importhelpers"
)

type recordingRenderer struct {
	name string
	data map[string]any
}

func (r *recordingRenderer) Render(name string, data map[string]any) (string, error) {
	r.name = name
	r.data = data
	return "rendered " + name, nil
}

func TestTypeLiteral_Render(t *testing.T) {
	tests := []struct {
		name     string
		children []string
		expected string
		inline   bool
	}{
		{"single value", []string{"a"}, "Literal['a']", true},
		{"multiple values", []string{"b", "a"}, "MyLiteral", false},
		{"duplicate values collapse", []string{"a", "a"}, "Literal['a']", true},
		{"quote in value", []string{"it's"}, `Literal["it's"]`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			literal, err := NewTypeLiteral("MyLiteral", tt.children...)
			require.NoError(t, err)

			assert.Equal(t, tt.expected, literal.Render())
			assert.Equal(t, tt.inline, literal.Inline())
		})
	}
}

func TestTypeLiteral_SortedChildren(t *testing.T) {
	literal, err := NewTypeLiteral("Region", "us-west-2", "eu-west-1", "ap-south-1")
	require.NoError(t, err)

	assert.Equal(t, []string{"ap-south-1", "eu-west-1", "us-west-2"}, literal.Children())
	assert.Equal(t, []string{"'ap-south-1'", "'eu-west-1'", "'us-west-2'"}, literal.RenderedChildren())
}

func TestTypeLiteral_EmptyFails(t *testing.T) {
	_, err := NewTypeLiteral("Empty")

	var annotationErr *errors.TypeAnnotationError
	require.ErrorAs(t, err, &annotationErr)
	assert.Equal(t, "Empty", annotationErr.Annotation)
}

func TestTypeLiteral_AddChildDisabled(t *testing.T) {
	literal, err := NewTypeLiteral("Name", "a", "b")
	require.NoError(t, err)

	err = literal.AddChild(Builtin("str"))

	assert.True(t, errors.IsCode(err, errors.TypeAnnotationErrorCode))
	assert.Equal(t, []string{"a", "b"}, literal.Children())
}

func TestTypeLiteral_IsSame(t *testing.T) {
	first, err := NewTypeLiteral("First", "a", "b")
	require.NoError(t, err)
	second, err := NewTypeLiteral("Second", "b", "a")
	require.NoError(t, err)
	third, err := NewTypeLiteral("First", "a", "c")
	require.NoError(t, err)

	assert.True(t, first.IsSame(second))
	assert.False(t, first.IsSame(third))
	assert.True(t, Equal(first, third))
}

func TestTypeLiteral_AddLiteralChild(t *testing.T) {
	literal, err := NewTypeLiteral("Name", "a")
	require.NoError(t, err)
	assert.True(t, literal.Inline())

	AddLiteralChild(literal, "b", "a")

	assert.False(t, literal.Inline())
	assert.Equal(t, "Name", literal.Render())
}

func TestTypeLiteral_ImportRecords(t *testing.T) {
	inline, err := NewTypeLiteral("Inline", "a")
	require.NoError(t, err)
	named, err := NewTypeLiteral("Named", "a", "b")
	require.NoError(t, err)

	assert.Equal(t, "from typing import Literal", GetImportRecords(inline).Render())
	assert.Equal(t, "from .literals import Named", GetImportRecords(named).Render())
	assert.True(t, named.DefinitionImportRecords().Contains(importhelpers.NewImportRecord(importhelpers.Typing, "Literal", "")))
}

func TestTypeLiteral_RenderDefinition(t *testing.T) {
	literal, err := NewTypeLiteral("Named", "a", "b")
	require.NoError(t, err)
	renderer := &recordingRenderer{}

	out, err := literal.RenderDefinition(renderer)

	require.NoError(t, err)
	assert.Equal(t, "rendered common/literal.py.tmpl", out)
	assert.Same(t, literal, renderer.data["literal"])
}

func TestTypeLiteral_Copy(t *testing.T) {
	literal, err := NewTypeLiteral("Named", "a", "b")
	require.NoError(t, err)

	clone := literal.Copy().(*TypeLiteral)
	assert.Equal(t, literal.Render(), clone.Render())
	assert.NotSame(t, literal, clone)

	AddLiteralChild(clone, "c")
	clone.Name = "Other"
	assert.Equal(t, []string{"a", "b"}, literal.Children())
	assert.Equal(t, "Named", literal.Name)
}

var _ FakeAnnotation = (*TypeLiteral)(nil)

func TestTypeLiteral_IterateTypesInsideSubscript(t *testing.T) {
	state, err := NewTypeLiteral("StateType", "ok", "bad")
	require.NoError(t, err)
	list := NewTypeSubscript(ListType, state)

	var found []FakeAnnotation
	for a := range list.IterateTypes() {
		found = append(found, a)
	}
	assert.Contains(t, found, FakeAnnotation(state))

	var own []FakeAnnotation
	for a := range state.IterateTypes() {
		own = append(own, a)
	}
	assert.Equal(t, []FakeAnnotation{state}, own)
	assert.Equal(t, "List[StateType]", list.Render())
}
