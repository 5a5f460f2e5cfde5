package extract

import "strings"

type memberKind int

const (
	kindMethod memberKind = iota
	kindAttribute
)

// memberSet collects the members of one class body in declaration order.
// A name declared twice keeps the kind of its last declaration, as a later
// definition replaces an earlier one in the class body.
type memberSet struct {
	kinds map[string]memberKind
	order []string
}

func newMemberSet() *memberSet {
	return &memberSet{kinds: make(map[string]memberKind)}
}

func (m *memberSet) add(name string, kind memberKind) {
	name = strings.TrimSpace(name)
	if name == "" || strings.HasPrefix(name, "[") {
		return
	}
	if _, ok := m.kinds[name]; !ok {
		m.order = append(m.order, name)
	}
	m.kinds[name] = kind
}

func (m *memberSet) method(name string)    { m.add(name, kindMethod) }
func (m *memberSet) attribute(name string) { m.add(name, kindAttribute) }

func (m *memberSet) split() (methods, attributes []string) {
	for _, name := range m.order {
		if m.kinds[name] == kindAttribute {
			attributes = append(attributes, name)
		} else {
			methods = append(methods, name)
		}
	}
	return methods, attributes
}
