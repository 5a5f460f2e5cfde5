package metrics

import (
	"github.com/RoaringBitmap/roaring/v2"
	"github.com/panbanda/mood/pkg/hierarchy"
)

// Members partitions the visible members of a class into the ones it
// declares and the ones it inherits. Sets are keyed by the registry's
// symbol ids; use Class.Resolve to turn them back into names.
type Members struct {
	Class               *hierarchy.Class
	OwnMethods          *roaring.Bitmap
	InheritedMethods    *roaring.Bitmap
	OwnAttributes       *roaring.Bitmap
	InheritedAttributes *roaring.Bitmap
}

// Classify collects the inherited members of c as the plain union of every
// ancestor's own members. Shadowing is not resolved: a name re-declared by
// a closer ancestor is still counted once as inherited.
func Classify(c *hierarchy.Class) (*Members, error) {
	chain, err := hierarchy.AncestorChain(c)
	if err != nil {
		return nil, err
	}

	m := &Members{
		Class:               c,
		OwnMethods:          c.MethodBits().Clone(),
		InheritedMethods:    roaring.New(),
		OwnAttributes:       c.AttributeBits().Clone(),
		InheritedAttributes: roaring.New(),
	}
	for _, ancestor := range chain {
		m.InheritedMethods.Or(ancestor.MethodBits())
		m.InheritedAttributes.Or(ancestor.AttributeBits())
	}
	return m, nil
}

// AllMethods returns inherited ∪ own methods.
func (m *Members) AllMethods() *roaring.Bitmap {
	return roaring.Or(m.InheritedMethods, m.OwnMethods)
}

// AllAttributes returns inherited ∪ own attributes.
func (m *Members) AllAttributes() *roaring.Bitmap {
	return roaring.Or(m.InheritedAttributes, m.OwnAttributes)
}

// IntroducedMethods returns the own methods that no ancestor declares.
func (m *Members) IntroducedMethods() *roaring.Bitmap {
	return roaring.AndNot(m.OwnMethods, m.InheritedMethods)
}

// Names returns the member sets as sorted name lists.
func (m *Members) Names() MemberNames {
	return MemberNames{
		OwnMethods:          m.Class.Resolve(m.OwnMethods),
		InheritedMethods:    m.Class.Resolve(m.InheritedMethods),
		OwnAttributes:       m.Class.Resolve(m.OwnAttributes),
		InheritedAttributes: m.Class.Resolve(m.InheritedAttributes),
	}
}

// MemberNames is the name-level view of Members.
type MemberNames struct {
	OwnMethods          []string `json:"own_methods"`
	InheritedMethods    []string `json:"inherited_methods"`
	OwnAttributes       []string `json:"own_attributes"`
	InheritedAttributes []string `json:"inherited_attributes"`
}
