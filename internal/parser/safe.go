package parser

import (
	"github.com/toyz/pystubgen/internal/structures"
	ta "github.com/toyz/pystubgen/internal/typeannotations"
)

// MarkSafeTypedDicts flags the TypedDicts of pkg that can be declared with
// total=False: no required keys and only statically closed value types.
//
// Every TypedDict starts safe and is marked unsafe until nothing changes, so
// mutually referencing TypedDicts count as closed unless one of them is not.
func MarkSafeTypedDicts(pkg *structures.ServicePackage) {
	checker := &safetyChecker{
		lookup: pkg.GetTypeDef,
		safe:   make(map[ta.FakeAnnotation]bool),
	}
	var typedDicts []*ta.TypeTypedDict
	for _, td := range pkg.TypedDicts() {
		for item := range td.IterateTypes() {
			if _, seen := checker.safe[item]; seen || !item.IsTypedDict() {
				continue
			}
			checker.safe[item] = true
			typedDicts = append(typedDicts, item.(*ta.TypeTypedDict))
		}
	}

	for changed := true; changed; {
		changed = false
		for _, td := range typedDicts {
			if checker.safe[td] && !checker.holds(td) {
				checker.safe[td] = false
				changed = true
			}
		}
	}
	for _, td := range typedDicts {
		td.Safe = checker.safe[td]
	}
}

type safetyChecker struct {
	lookup func(name string) (ta.FakeAnnotation, bool)
	safe   map[ta.FakeAnnotation]bool
}

func (c *safetyChecker) holds(td *ta.TypeTypedDict) bool {
	if td.HasRequired() {
		return false
	}
	for _, attr := range td.Attributes {
		if !c.isClosed(attr.Type, map[ta.FakeAnnotation]struct{}{}) {
			return false
		}
	}
	return true
}

// isClosed uses the current assumption for TypedDicts. seen stops reference
// loops that do not pass through a TypedDict.
func (c *safetyChecker) isClosed(a ta.FakeAnnotation, seen map[ta.FakeAnnotation]struct{}) bool {
	if a.IsTypedDict() {
		return c.safe[a]
	}
	if _, ok := seen[a]; ok {
		return true
	}
	seen[a] = struct{}{}

	if name, ok := a.ReferenceName(); ok {
		resolved, found := c.lookup(name)
		return found && c.isClosed(resolved, seen)
	}
	children, closed := a.ClosedOver()
	if !closed {
		return false
	}
	for _, child := range children {
		if !c.isClosed(child, seen) {
			return false
		}
	}
	return true
}
