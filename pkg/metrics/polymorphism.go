package metrics

import (
	"github.com/RoaringBitmap/roaring/v2"
	"github.com/panbanda/mood/pkg/hierarchy"
)

// POFForClass counts the own methods of c that are re-declared by at least
// one proper descendant. It is an absolute count, not a ratio. A class on
// an inheritance cycle would be its own descendant, so it fails with a
// CycleError instead.
func POFForClass(reg *hierarchy.Registry, c *hierarchy.Class) (int, error) {
	if _, err := hierarchy.AncestorChain(c); err != nil {
		return 0, err
	}
	overridden := roaring.New()
	for _, d := range reg.Descendants(c.Name()) {
		overridden.Or(d.MethodBits())
	}
	return card(roaring.And(c.MethodBits(), overridden)), nil
}

// POFForRegistry is the corpus-wide polymorphism factor: the share of
// possible override slots that are actually used.
//
// For each class c, the methods it introduces (own minus inherited) each
// contribute childCount(c)+1 slots to the denominator, and each of them
// that some other class in the registry also declares contributes one to
// the numerator. The result is undefined when no class introduces a method.
func POFForRegistry(reg *hierarchy.Registry) (Factor, error) {
	classes := reg.Classes()

	declaredBy := make(map[uint32]int)
	for _, c := range classes {
		it := c.MethodBits().Iterator()
		for it.HasNext() {
			declaredBy[it.Next()]++
		}
	}

	var numerator, denominator int
	for _, c := range classes {
		m, err := Classify(c)
		if err != nil {
			return Undefined, err
		}
		introduced := m.IntroducedMethods()
		it := introduced.Iterator()
		for it.HasNext() {
			// c itself accounts for one declaration.
			if declaredBy[it.Next()] > 1 {
				numerator++
			}
		}
		denominator += card(introduced) * (len(reg.Children(c.Name())) + 1)
	}
	return NewFactor(numerator, denominator), nil
}
