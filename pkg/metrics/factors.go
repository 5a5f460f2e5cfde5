package metrics

import "github.com/RoaringBitmap/roaring/v2"

// MOOD holds the inheritance and hiding factors of one class.
//
// MHF and AHF are counts of inherited members the class does not
// re-declare. Despite the "hidden" naming they count visible,
// non-overridden inherited members.
type MOOD struct {
	MIF Factor `json:"mif"`
	MHF int    `json:"mhf"`
	AHF int    `json:"ahf"`
	AIF Factor `json:"aif"`
}

// Factors derives the MOOD factors from a classified member set.
func Factors(m *Members) MOOD {
	return MOOD{
		MIF: NewFactor(card(m.InheritedMethods), card(m.AllMethods())),
		MHF: card(roaring.AndNot(m.InheritedMethods, m.OwnMethods)),
		AHF: card(roaring.AndNot(m.InheritedAttributes, m.OwnAttributes)),
		AIF: NewFactor(card(m.InheritedAttributes), card(m.AllAttributes())),
	}
}

func card(b *roaring.Bitmap) int {
	return int(b.GetCardinality())
}
