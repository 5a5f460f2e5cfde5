package metrics

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/panbanda/mood/pkg/hierarchy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newSampleRegistry builds Base <- Child1 <- Grandchild1 and Base <- Child2 <- Grandchild2.
func newSampleRegistry(t *testing.T) *hierarchy.Registry {
	t.Helper()
	r := hierarchy.NewRegistry()
	register := func(name, parent string, methods, attrs []string) {
		t.Helper()
		_, err := r.Register(name, parent, methods, attrs)
		require.NoError(t, err)
	}
	register("Base", "", []string{"constructor", "baseMethod"}, []string{"baseAttribute"})
	register("Child1", "Base",
		[]string{"constructor", "some", "additionalMethod", "additionalMethod2", "baseMethod"},
		[]string{"childAttribute"})
	register("Grandchild1", "Child1", []string{"anotherMethod", "additionalMethod", "additionalMethod2"}, nil)
	register("Child2", "Base", []string{"anotherMethod"}, nil)
	register("Grandchild2", "Child2", []string{"extraMethod"}, nil)
	return r
}

func newCyclicRegistry(t *testing.T) *hierarchy.Registry {
	t.Helper()
	r, err := hierarchy.Build([]hierarchy.Declaration{
		{Name: "A", Extends: "B", Methods: []string{"a"}},
		{Name: "B", Extends: "A", Methods: []string{"b"}},
	})
	require.NoError(t, err)
	return r
}

func TestComputeDIT(t *testing.T) {
	r := newSampleRegistry(t)

	tests := map[string]int{
		"Base":        0,
		"Child1":      1,
		"Child2":      1,
		"Grandchild1": 2,
		"Grandchild2": 2,
	}
	for name, want := range tests {
		got, err := ComputeDIT(r, name)
		require.NoError(t, err)
		assert.Equal(t, want, got, name)
	}

	_, err := ComputeDIT(r, "Missing")
	assert.ErrorIs(t, err, hierarchy.ErrUnknownClass)
}

func TestComputeDITRootsAreZero(t *testing.T) {
	r := hierarchy.NewRegistry()
	for _, name := range []string{"A", "B", "C"} {
		_, err := r.Register(name, "", nil, nil)
		require.NoError(t, err)
	}
	for _, c := range r.Roots() {
		dit, err := ComputeDIT(r, c.Name())
		require.NoError(t, err)
		assert.Zero(t, dit)
	}
}

func TestComputeDITCycle(t *testing.T) {
	r := newCyclicRegistry(t)

	_, err := ComputeDIT(r, "A")
	assert.ErrorIs(t, err, hierarchy.ErrCycle)
	_, err = ComputeDIT(r, "B")
	assert.ErrorIs(t, err, hierarchy.ErrCycle)

	_, err = ComputeMOOD(r, "A")
	assert.ErrorIs(t, err, hierarchy.ErrCycle)

	// A is its own descendant here; its methods must not count as overridden.
	pof, err := ComputePOFForClass(r, "A")
	assert.ErrorIs(t, err, hierarchy.ErrCycle)
	assert.Zero(t, pof)

	_, err = ComputePOFForRegistry(r)
	assert.ErrorIs(t, err, hierarchy.ErrCycle)
}

func TestComputeNOC(t *testing.T) {
	r := newSampleRegistry(t)

	tests := map[string]int{
		"Base":        2,
		"Child1":      1,
		"Child2":      1,
		"Grandchild1": 0,
		"Grandchild2": 0,
	}
	for name, want := range tests {
		got, err := ComputeNOC(r, name)
		require.NoError(t, err)
		assert.Equal(t, want, got, name)
	}

	_, err := ComputeNOC(r, "Missing")
	assert.ErrorIs(t, err, hierarchy.ErrUnknownClass)
}

func TestComputeNOCMatchesParentCount(t *testing.T) {
	r := newSampleRegistry(t)
	for _, c := range r.Classes() {
		want := 0
		for _, other := range r.Classes() {
			if other.Parent() == c {
				want++
			}
		}
		got, err := ComputeNOC(r, c.Name())
		require.NoError(t, err)
		assert.Equal(t, want, got, c.Name())
	}
}

func TestClassify(t *testing.T) {
	r := newSampleRegistry(t)
	c, err := r.Get("Grandchild1")
	require.NoError(t, err)

	m, err := Classify(c)
	require.NoError(t, err)

	n := m.Names()
	assert.Equal(t, []string{"additionalMethod", "additionalMethod2", "anotherMethod"}, n.OwnMethods)
	assert.Equal(t, []string{"additionalMethod", "additionalMethod2", "baseMethod", "some"}, n.InheritedMethods)
	assert.Empty(t, n.OwnAttributes)
	assert.Equal(t, []string{"baseAttribute", "childAttribute"}, n.InheritedAttributes)
	assert.Equal(t, []string{"additionalMethod", "additionalMethod2", "anotherMethod", "baseMethod", "some"},
		c.Resolve(m.AllMethods()))
	assert.Equal(t, []string{"anotherMethod"}, c.Resolve(m.IntroducedMethods()))
}

func TestClassifyDoesNotResolveShadowing(t *testing.T) {
	// Mid re-declares run; Leaf still sees a single inherited run.
	r, err := hierarchy.Build([]hierarchy.Declaration{
		{Name: "Top", Methods: []string{"run"}},
		{Name: "Mid", Extends: "Top", Methods: []string{"run"}},
		{Name: "Leaf", Extends: "Mid"},
	})
	require.NoError(t, err)

	mood, err := ComputeMOOD(r, "Leaf")
	require.NoError(t, err)
	assert.Equal(t, NewFactor(1, 1), mood.MIF)
	assert.Equal(t, 1, mood.MHF)
}

func TestComputeMOOD(t *testing.T) {
	r := newSampleRegistry(t)

	tests := []struct {
		class string
		want  MOOD
	}{
		{"Base", MOOD{MIF: NewFactor(0, 1), MHF: 0, AHF: 0, AIF: NewFactor(0, 1)}},
		{"Child1", MOOD{MIF: NewFactor(1, 4), MHF: 0, AHF: 1, AIF: NewFactor(1, 2)}},
		{"Grandchild1", MOOD{MIF: NewFactor(4, 5), MHF: 2, AHF: 2, AIF: NewFactor(2, 2)}},
		{"Child2", MOOD{MIF: NewFactor(1, 2), MHF: 1, AHF: 1, AIF: NewFactor(1, 1)}},
		{"Grandchild2", MOOD{MIF: NewFactor(2, 3), MHF: 2, AHF: 1, AIF: NewFactor(1, 1)}},
	}

	for _, tt := range tests {
		t.Run(tt.class, func(t *testing.T) {
			got, err := ComputeMOOD(r, tt.class)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			for _, f := range []Factor{got.MIF, got.AIF} {
				v, ok := f.Value()
				require.True(t, ok)
				assert.GreaterOrEqual(t, v, 0.0)
				assert.LessOrEqual(t, v, 1.0)
			}
		})
	}

	_, err := ComputeMOOD(r, "Missing")
	assert.ErrorIs(t, err, hierarchy.ErrUnknownClass)
}

func TestComputeMOODUndefined(t *testing.T) {
	r := hierarchy.NewRegistry()
	_, err := r.Register("Marker", "", []string{"constructor"}, nil)
	require.NoError(t, err)

	got, err := ComputeMOOD(r, "Marker")
	require.NoError(t, err)
	assert.False(t, got.MIF.Defined())
	assert.False(t, got.AIF.Defined())
	assert.Equal(t, Undefined, got.MIF)
	assert.Zero(t, got.MHF)
	assert.Zero(t, got.AHF)
}

func TestComputePOFForClass(t *testing.T) {
	r := newSampleRegistry(t)

	tests := map[string]int{
		"Base":        1, // baseMethod overridden by Child1
		"Child1":      2, // additionalMethod, additionalMethod2 overridden by Grandchild1
		"Grandchild1": 0,
		"Child2":      0,
		"Grandchild2": 0,
	}
	for name, want := range tests {
		got, err := ComputePOFForClass(r, name)
		require.NoError(t, err)
		assert.Equal(t, want, got, name)
	}

	_, err := ComputePOFForClass(r, "Missing")
	assert.ErrorIs(t, err, hierarchy.ErrUnknownClass)
}

func TestComputePOFForClassIgnoresSiblings(t *testing.T) {
	// Child2 declares anotherMethod and so does its cousin Grandchild1;
	// only descendants count.
	r := newSampleRegistry(t)
	got, err := ComputePOFForClass(r, "Child2")
	require.NoError(t, err)
	assert.Zero(t, got)
}

func TestComputePOFForRegistry(t *testing.T) {
	r := newSampleRegistry(t)

	got, err := ComputePOFForRegistry(r)
	require.NoError(t, err)
	// numerator: Base{baseMethod} + Child1{additionalMethod, additionalMethod2}
	//   + Grandchild1{anotherMethod} + Child2{anotherMethod} = 5
	// denominator: 1*3 + 3*2 + 1*1 + 1*2 + 1*1 = 13
	assert.Equal(t, NewFactor(5, 13), got)

	v, ok := got.Value()
	require.True(t, ok)
	assert.InDelta(t, 5.0/13.0, v, 1e-12)
}

func TestComputePOFForRegistryUndefined(t *testing.T) {
	r := hierarchy.NewRegistry()
	got, err := ComputePOFForRegistry(r)
	require.NoError(t, err)
	assert.False(t, got.Defined())

	_, err = r.Register("Empty", "", nil, []string{"field"})
	require.NoError(t, err)
	got, err = ComputePOFForRegistry(r)
	require.NoError(t, err)
	assert.False(t, got.Defined())
}

func TestComputeIdempotent(t *testing.T) {
	r := newSampleRegistry(t)
	for _, c := range r.Classes() {
		name := c.Name()

		d1, _ := ComputeDIT(r, name)
		d2, _ := ComputeDIT(r, name)
		assert.Equal(t, d1, d2)

		n1, _ := ComputeNOC(r, name)
		n2, _ := ComputeNOC(r, name)
		assert.Equal(t, n1, n2)

		m1, _ := ComputeMOOD(r, name)
		m2, _ := ComputeMOOD(r, name)
		assert.Equal(t, m1, m2)

		p1, _ := ComputePOFForClass(r, name)
		p2, _ := ComputePOFForClass(r, name)
		assert.Equal(t, p1, p2)
	}

	f1, _ := ComputePOFForRegistry(r)
	f2, _ := ComputePOFForRegistry(r)
	assert.Equal(t, f1, f2)
}

func TestFactor(t *testing.T) {
	f := NewFactor(1, 4)
	assert.True(t, f.Defined())
	assert.Equal(t, 0.25, f.Float())
	assert.Equal(t, "0.250", f.String())
	require.NotNil(t, f.Ptr())
	assert.Equal(t, 0.25, *f.Ptr())

	assert.Equal(t, Undefined, NewFactor(3, 0))
	assert.True(t, math.IsNaN(Undefined.Float()))
	assert.Equal(t, "undefined", Undefined.String())
	assert.Nil(t, Undefined.Ptr())

	data, err := json.Marshal(MOOD{MIF: NewFactor(1, 2), AIF: Undefined})
	require.NoError(t, err)
	assert.JSONEq(t, `{"mif":0.5,"mhf":0,"ahf":0,"aif":null}`, string(data))
}
