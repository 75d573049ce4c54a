package postprocessors

import (
	"slices"

	"github.com/toyz/pystubgen/internal/structures"
	ta "github.com/toyz/pystubgen/internal/typeannotations"
)

// ReplaceSelfRefTypedDicts breaks direct TypedDict recursion. Inside the
// attribute types of a TypedDict, up to the next TypedDict, every use of
// the TypedDict itself becomes a quoted reference to its name.
type ReplaceSelfRefTypedDicts struct{}

func (ReplaceSelfRefTypedDicts) Name() string { return "replace_self_ref_typed_dicts" }

func (ReplaceSelfRefTypedDicts) Run(pkg *structures.ServicePackage) error {
	for _, td := range pkg.TypedDicts() {
		if err := replaceSelfRefs(td); err != nil {
			return err
		}
	}
	return nil
}

func replaceSelfRefs(td *ta.TypeTypedDict) error {
	visited := make(map[ta.FakeAnnotation]struct{})
	var walk func(parent ta.TypeParent) error
	walk = func(parent ta.TypeParent) error {
		if _, ok := visited[parent]; ok {
			return nil
		}
		visited[parent] = struct{}{}
		for _, child := range parent.ChildTypes() {
			if child == ta.FakeAnnotation(td) {
				// a parent may swap every occurrence in one call
				if !slices.Contains(parent.ChildTypes(), child) {
					continue
				}
				if err := parent.ReplaceChild(child, ta.NewTypeDefRef(td.Name)); err != nil {
					return err
				}
				continue
			}
			if child.IsTypedDict() {
				continue
			}
			if nested, ok := child.(ta.TypeParent); ok {
				if err := walk(nested); err != nil {
					return err
				}
			}
		}
		return nil
	}
	return walk(td)
}
