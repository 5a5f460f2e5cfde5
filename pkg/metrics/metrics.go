// Package metrics computes structural object-oriented design metrics (DIT,
// NOC, the MOOD factors and the polymorphism factor) from a hierarchy
// registry. Every function is a pure function of the registry and is safe
// for concurrent use as long as the registry is no longer being modified.
package metrics

import "github.com/panbanda/mood/pkg/hierarchy"

// ComputeDIT returns the depth of inheritance tree of the named class.
func ComputeDIT(reg *hierarchy.Registry, name string) (int, error) {
	c, err := reg.Get(name)
	if err != nil {
		return 0, err
	}
	return hierarchy.Depth(c)
}

// ComputeNOC returns the number of direct subclasses of the named class.
func ComputeNOC(reg *hierarchy.Registry, name string) (int, error) {
	if _, err := reg.Get(name); err != nil {
		return 0, err
	}
	return len(reg.Children(name)), nil
}

// ComputeMOOD returns the MIF, MHF, AHF and AIF of the named class.
func ComputeMOOD(reg *hierarchy.Registry, name string) (MOOD, error) {
	c, err := reg.Get(name)
	if err != nil {
		return MOOD{}, err
	}
	m, err := Classify(c)
	if err != nil {
		return MOOD{}, err
	}
	return Factors(m), nil
}

// ComputePOFForClass returns how many of the named class's own methods are
// overridden somewhere below it.
func ComputePOFForClass(reg *hierarchy.Registry, name string) (int, error) {
	c, err := reg.Get(name)
	if err != nil {
		return 0, err
	}
	return POFForClass(reg, c)
}

// ComputePOFForRegistry returns the corpus-wide polymorphism factor.
func ComputePOFForRegistry(reg *hierarchy.Registry) (Factor, error) {
	return POFForRegistry(reg)
}
