package hierarchy

import (
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
)

// symbolTable interns member names so member sets can be stored as bitmaps.
// Interning only happens while classes are registered; lookups are read-only.
type symbolTable struct {
	ids   map[string]uint32
	names []string
}

func newSymbolTable() *symbolTable {
	return &symbolTable{ids: make(map[string]uint32)}
}

func (t *symbolTable) intern(name string) uint32 {
	if id, ok := t.ids[name]; ok {
		return id
	}
	id := uint32(len(t.names))
	t.ids[name] = id
	t.names = append(t.names, name)
	return id
}

func (t *symbolTable) id(name string) (uint32, bool) {
	id, ok := t.ids[name]
	return id, ok
}

// resolve returns the names of the bitmap's members in lexical order.
func (t *symbolTable) resolve(b *roaring.Bitmap) []string {
	if b == nil || b.IsEmpty() {
		return []string{}
	}
	names := make([]string, 0, b.GetCardinality())
	it := b.Iterator()
	for it.HasNext() {
		names = append(names, t.names[it.Next()])
	}
	sort.Strings(names)
	return names
}
