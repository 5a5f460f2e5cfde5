// Package hierarchy models a single-inheritance class hierarchy: the classes of
// one analysis run, their parent links and their declared members.
package hierarchy

import (
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Declaration is the serialisable description of a class used to build a
// Registry in one step.
type Declaration struct {
	Name       string   `json:"name" yaml:"name" toml:"name"`
	Extends    string   `json:"extends,omitempty" yaml:"extends,omitempty" toml:"extends,omitempty"`
	Methods    []string `json:"methods,omitempty" yaml:"methods,omitempty" toml:"methods,omitempty"`
	Attributes []string `json:"attributes,omitempty" yaml:"attributes,omitempty" toml:"attributes,omitempty"`
}

// Registry holds every class of one analysis run, keyed by name.
//
// Register is not safe for concurrent use. Once all classes are registered
// the registry must be treated as immutable; all read methods are then safe
// for concurrent use.
type Registry struct {
	classes  map[string]*Class
	order    []*Class
	children map[string][]*Class
	symbols  *symbolTable
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		classes:  make(map[string]*Class),
		children: make(map[string][]*Class),
		symbols:  newSymbolTable(),
	}
}

// Register adds a class. parentName may be empty for a root class; otherwise
// it must name an already registered class.
func (r *Registry) Register(name, parentName string, methods, attributes []string) (*Class, error) {
	name = strings.TrimSpace(name)
	parentName = strings.TrimSpace(parentName)
	if name == "" {
		return nil, ErrEmptyName
	}
	if _, exists := r.classes[name]; exists {
		return nil, &DuplicateClassError{Name: name}
	}

	var parent *Class
	if parentName != "" {
		p, ok := r.classes[parentName]
		if !ok {
			return nil, &UnknownClassError{Name: parentName, Referrer: name}
		}
		parent = p
	}

	c, err := newClass(name, methods, attributes, r.symbols)
	if err != nil {
		return nil, err
	}
	c.parent = parent
	r.add(c)
	return c, nil
}

// Build creates a registry from declarations given in any order. Parent
// names are resolved once every class is known. Build does not reject
// inheritance cycles; use Validate, or let the walker report them.
func Build(decls []Declaration) (*Registry, error) {
	r := NewRegistry()
	pending := make([]*Class, 0, len(decls))
	for _, d := range decls {
		name := strings.TrimSpace(d.Name)
		if name == "" {
			return nil, ErrEmptyName
		}
		if _, exists := r.classes[name]; exists {
			return nil, &DuplicateClassError{Name: name}
		}
		c, err := newClass(name, d.Methods, d.Attributes, r.symbols)
		if err != nil {
			return nil, err
		}
		r.classes[name] = c
		pending = append(pending, c)
	}

	for i, d := range decls {
		parentName := strings.TrimSpace(d.Extends)
		if parentName == "" {
			continue
		}
		p, ok := r.classes[parentName]
		if !ok {
			return nil, &UnknownClassError{Name: parentName, Referrer: pending[i].name}
		}
		pending[i].parent = p
	}

	for _, c := range pending {
		r.order = append(r.order, c)
		if c.parent != nil {
			r.children[c.parent.name] = append(r.children[c.parent.name], c)
		}
	}
	return r, nil
}

func (r *Registry) add(c *Class) {
	r.classes[c.name] = c
	r.order = append(r.order, c)
	if c.parent != nil {
		r.children[c.parent.name] = append(r.children[c.parent.name], c)
	}
}

// Len returns the number of registered classes.
func (r *Registry) Len() int { return len(r.order) }

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

// Lookup returns the class registered under name.
func (r *Registry) Lookup(name string) (*Class, bool) {
	c, ok := r.classes[name]
	return c, ok
}

// Get returns the class registered under name or an UnknownClassError.
func (r *Registry) Get(name string) (*Class, error) {
	c, ok := r.Lookup(name)
	if !ok {
		return nil, &UnknownClassError{Name: name}
	}
	return c, nil
}

// Classes returns every class sorted by name.
func (r *Registry) Classes() []*Class {
	out := make([]*Class, len(r.order))
	copy(out, r.order)
	sortByName(out)
	return out
}

// Names returns every class name in lexical order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.order))
	for _, c := range r.order {
		names = append(names, c.name)
	}
	sort.Strings(names)
	return names
}

// Roots returns the classes without a parent, sorted by name.
func (r *Registry) Roots() []*Class {
	var roots []*Class
	for _, c := range r.order {
		if c.IsRoot() {
			roots = append(roots, c)
		}
	}
	sortByName(roots)
	return roots
}

// Children returns the classes whose parent is exactly name, sorted by name.
// An unknown name has no children.
func (r *Registry) Children(name string) []*Class {
	kids := r.children[name]
	out := make([]*Class, len(kids))
	copy(out, kids)
	sortByName(out)
	return out
}

// Descendants returns the transitive closure of Children, sorted by name.
// The walk tracks visited classes, so it terminates on cyclic models; the
// starting class itself is never included.
func (r *Registry) Descendants(name string) []*Class {
	start, ok := r.classes[name]
	if !ok {
		return []*Class{}
	}
	visited := map[*Class]bool{start: true}
	queue := []string{name}
	out := []*Class{}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		for _, child := range r.children[next] {
			if visited[child] {
				continue
			}
			visited[child] = true
			out = append(out, child)
			queue = append(queue, child.name)
		}
	}
	sortByName(out)
	return out
}

// Declarations returns the registry as declarations sorted by class name.
func (r *Registry) Declarations() []Declaration {
	classes := r.Classes()
	decls := make([]Declaration, 0, len(classes))
	for _, c := range classes {
		decls = append(decls, Declaration{
			Name:       c.name,
			Extends:    c.ParentName(),
			Methods:    c.Methods(),
			Attributes: c.Attributes(),
		})
	}
	return decls
}

// Fingerprint returns a hash of the canonical declaration list. Registries
// with the same classes, parents and members have the same fingerprint
// regardless of registration order.
func (r *Registry) Fingerprint() uint64 {
	d := xxhash.New()
	for _, decl := range r.Declarations() {
		d.WriteString(decl.Name)
		d.WriteString("\x00")
		d.WriteString(decl.Extends)
		d.WriteString("\x00")
		d.WriteString(strings.Join(decl.Methods, ","))
		d.WriteString("\x00")
		d.WriteString(strings.Join(decl.Attributes, ","))
		d.WriteString("\n")
	}
	return d.Sum64()
}

func sortByName(classes []*Class) {
	sort.Slice(classes, func(i, j int) bool {
		return classes[i].name < classes[j].name
	})
}
