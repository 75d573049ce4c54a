package typeannotations

import "iter"

// TypeConstant is a constant used as a type, None or an ellipsis
type TypeConstant struct {
	annotation
	Value string
}

var (
	NoneType = &TypeConstant{Value: "None"}
	Ellipsis = &TypeConstant{Value: "..."}
)

func (t *TypeConstant) Render() string {
	return t.Value
}

func (t *TypeConstant) Copy() FakeAnnotation {
	return &TypeConstant{Value: t.Value}
}

func (t *TypeConstant) SortKey() string {
	return t.Render()
}

func (t *TypeConstant) IterateTypes() iter.Seq[FakeAnnotation] {
	return iterate(t)
}

func (t *TypeConstant) RenderDefinition(Renderer) (string, error) {
	return t.Render(), nil
}

func (t *TypeConstant) ClosedOver() ([]FakeAnnotation, bool) {
	return nil, true
}
