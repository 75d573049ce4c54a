package postprocessors

import (
	"github.com/toyz/pystubgen/internal/structures"
	ta "github.com/toyz/pystubgen/internal/typeannotations"
)

// ExtendLiterals leaves one literal per value set. Literals sharing a name
// are merged into the first with the union of their values; afterwards
// differently named literals with equal values collapse into the one that
// sorts first by name.
type ExtendLiterals struct{}

func (ExtendLiterals) Name() string { return "extend_literals" }

func (ExtendLiterals) Run(pkg *structures.ServicePackage) error {
	replacements := make(map[ta.FakeAnnotation]ta.FakeAnnotation)

	byName := make(map[string]*ta.TypeLiteral)
	var order []*ta.TypeLiteral
	for item := range pkg.IterateTypes() {
		literal, ok := item.(*ta.TypeLiteral)
		if !ok {
			continue
		}
		first, seen := byName[literal.Name]
		if !seen {
			byName[literal.Name] = literal
			order = append(order, literal)
			continue
		}
		pkg.AddLiteralChild(first, literal.Children()...)
		replacements[literal] = first
	}

	ta.SortAnnotations(order)
	var kept []*ta.TypeLiteral
	for _, literal := range order {
		if literal.Inline() {
			continue
		}
		merged := false
		for _, existing := range kept {
			if existing.IsSame(literal) {
				replacements[literal] = existing
				merged = true
				break
			}
		}
		if !merged {
			kept = append(kept, literal)
		}
	}

	// a literal merged by name may point at one merged by value
	for from, to := range replacements {
		for {
			next, ok := replacements[to]
			if !ok {
				break
			}
			to = next
		}
		replacements[from] = to
	}

	if len(replacements) == 0 {
		return nil
	}
	return pkg.ReplaceTypes(func(item ta.FakeAnnotation) (ta.FakeAnnotation, bool) {
		replacement, ok := replacements[item]
		return replacement, ok
	})
}
