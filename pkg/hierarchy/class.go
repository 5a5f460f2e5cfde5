package hierarchy

import (
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
)

// Constructor is the method name that never counts as a member.
const Constructor = "constructor"

// Class is the declared shape of one class: its name, an optional parent and
// the methods and attributes it declares itself. A Class is never modified
// after its registry has been built.
type Class struct {
	name       string
	parent     *Class
	methods    *roaring.Bitmap
	attributes *roaring.Bitmap
	symbols    *symbolTable
}

// Name returns the class name.
func (c *Class) Name() string { return c.name }

// Parent returns the parent class, or nil for a root class.
func (c *Class) Parent() *Class { return c.parent }

// ParentName returns the parent's name, or "" for a root class.
func (c *Class) ParentName() string {
	if c.parent == nil {
		return ""
	}
	return c.parent.name
}

// IsRoot reports whether the class extends only the implicit universal base.
func (c *Class) IsRoot() bool { return c.parent == nil }

// Methods returns the own method names in lexical order.
func (c *Class) Methods() []string { return c.symbols.resolve(c.methods) }

// Attributes returns the own attribute names in lexical order.
func (c *Class) Attributes() []string { return c.symbols.resolve(c.attributes) }

// HasMethod reports whether name is declared as an own method.
func (c *Class) HasMethod(name string) bool {
	id, ok := c.symbols.id(name)
	return ok && c.methods.Contains(id)
}

// HasAttribute reports whether name is declared as an own attribute.
func (c *Class) HasAttribute(name string) bool {
	id, ok := c.symbols.id(name)
	return ok && c.attributes.Contains(id)
}

// MethodBits returns the own method set keyed by the registry's symbol ids.
// The bitmap is shared; callers must not modify it.
func (c *Class) MethodBits() *roaring.Bitmap { return c.methods }

// AttributeBits returns the own attribute set keyed by the registry's symbol ids.
// The bitmap is shared; callers must not modify it.
func (c *Class) AttributeBits() *roaring.Bitmap { return c.attributes }

// Resolve maps a member bitmap built from this class's registry back to sorted names.
func (c *Class) Resolve(b *roaring.Bitmap) []string { return c.symbols.resolve(b) }

// newClass interns the member names and enforces the member invariants:
// the constructor and empty names are dropped, and no name may be both a
// method and an attribute.
func newClass(name string, methods, attributes []string, symbols *symbolTable) (*Class, error) {
	c := &Class{
		name:       name,
		methods:    roaring.New(),
		attributes: roaring.New(),
		symbols:    symbols,
	}
	for _, m := range methods {
		m = strings.TrimSpace(m)
		if m == "" || m == Constructor {
			continue
		}
		c.methods.Add(symbols.intern(m))
	}
	for _, a := range attributes {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		id := symbols.intern(a)
		if c.methods.Contains(id) {
			return nil, &MemberConflictError{Class: name, Member: a}
		}
		c.attributes.Add(id)
	}
	c.methods.RunOptimize()
	c.attributes.RunOptimize()
	return c, nil
}
