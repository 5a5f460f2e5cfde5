package hierarchy

import (
	"errors"
	"sort"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// inheritanceGraph maps the registry onto a gonum directed graph with an
// edge from each parent to each of its children.
type inheritanceGraph struct {
	directed *simple.DirectedGraph
	nodeIDs  map[string]int64
	classes  []*Class
}

func (r *Registry) graph() *inheritanceGraph {
	classes := r.Classes()
	g := &inheritanceGraph{
		directed: simple.NewDirectedGraph(),
		nodeIDs:  make(map[string]int64, len(classes)),
		classes:  classes,
	}
	for i, c := range classes {
		id := int64(i)
		g.nodeIDs[c.name] = id
		g.directed.AddNode(simple.Node(id))
	}
	for _, c := range classes {
		if c.parent == nil || c.parent == c {
			// simple graphs reject self edges; self-parenting is reported separately.
			continue
		}
		g.directed.SetEdge(simple.Edge{
			F: simple.Node(g.nodeIDs[c.parent.name]),
			T: simple.Node(g.nodeIDs[c.name]),
		})
	}
	return g
}

// Cycles returns every inheritance cycle in the registry as a sorted list of
// class names. A registry built with Register never has cycles; one built
// with Build may.
func (r *Registry) Cycles() [][]string {
	g := r.graph()
	var cycles [][]string

	for _, c := range g.classes {
		if c.parent == c {
			cycles = append(cycles, []string{c.name})
		}
	}

	for _, scc := range topo.TarjanSCC(g.directed) {
		if len(scc) < 2 {
			continue
		}
		names := make([]string, 0, len(scc))
		for _, n := range scc {
			names = append(names, g.classes[n.ID()].name)
		}
		sort.Strings(names)
		cycles = append(cycles, names)
	}

	sort.Slice(cycles, func(i, j int) bool { return cycles[i][0] < cycles[j][0] })
	return cycles
}

// Validate returns a joined CycleError for every cycle in the registry, or
// nil when the parent relation is a forest.
func (r *Registry) Validate() error {
	var errs []error
	for _, cycle := range r.Cycles() {
		start := r.classes[cycle[0]]
		path := []string{start.name}
		for p := start.parent; p != start; p = p.parent {
			path = append(path, p.name)
		}
		path = append(path, start.name)
		errs = append(errs, &CycleError{Class: start.name, Path: path})
	}
	return errors.Join(errs...)
}
