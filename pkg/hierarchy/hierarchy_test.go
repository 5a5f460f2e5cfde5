package hierarchy

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleRegistry builds the five-class hierarchy used across the metric tests.
func sampleRegistry(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry()
	_, err := r.Register("Base", "", []string{"baseMethod"}, []string{"baseAttribute"})
	require.NoError(t, err)
	_, err = r.Register("Child1", "Base",
		[]string{"some", "additionalMethod", "additionalMethod2", "baseMethod"},
		[]string{"childAttribute"})
	require.NoError(t, err)
	_, err = r.Register("Grandchild1", "Child1",
		[]string{"anotherMethod", "additionalMethod", "additionalMethod2"}, nil)
	require.NoError(t, err)
	_, err = r.Register("Child2", "Base", []string{"anotherMethod"}, nil)
	require.NoError(t, err)
	_, err = r.Register("Grandchild2", "Child2", []string{"extraMethod"}, nil)
	require.NoError(t, err)
	return r
}

func names(classes []*Class) []string {
	out := make([]string, 0, len(classes))
	for _, c := range classes {
		out = append(out, c.Name())
	}
	return out
}

func TestRegister(t *testing.T) {
	r := sampleRegistry(t)

	assert.Equal(t, 5, r.Len())
	assert.True(t, r.Has("Child1"))
	assert.False(t, r.Has("Missing"))

	c, err := r.Get("Child1")
	require.NoError(t, err)
	assert.Equal(t, "Base", c.ParentName())
	assert.Equal(t, []string{"additionalMethod", "additionalMethod2", "baseMethod", "some"}, c.Methods())
	assert.Equal(t, []string{"childAttribute"}, c.Attributes())
	assert.True(t, c.HasMethod("some"))
	assert.False(t, c.HasMethod("childAttribute"))
	assert.True(t, c.HasAttribute("childAttribute"))
}

func TestRegisterDropsConstructor(t *testing.T) {
	r := NewRegistry()
	c, err := r.Register("A", "", []string{"constructor", "run", " ", ""}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"run"}, c.Methods())
	assert.False(t, c.HasMethod(Constructor))
}

func TestRegisterErrors(t *testing.T) {
	t.Run("duplicate", func(t *testing.T) {
		r := sampleRegistry(t)
		_, err := r.Register("Base", "", nil, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrDuplicateClass)
		var dup *DuplicateClassError
		require.True(t, errors.As(err, &dup))
		assert.Equal(t, "Base", dup.Name)
		assert.Equal(t, 5, r.Len(), "failed registration must not change the registry")
	})

	t.Run("unknown parent", func(t *testing.T) {
		r := NewRegistry()
		_, err := r.Register("A", "B", nil, nil)
		assert.ErrorIs(t, err, ErrUnknownClass)
		var unk *UnknownClassError
		require.True(t, errors.As(err, &unk))
		assert.Equal(t, "B", unk.Name)
		assert.Equal(t, "A", unk.Referrer)

		// B registered second cannot point back at A, because A never got in.
		_, err = r.Register("B", "A", nil, nil)
		assert.ErrorIs(t, err, ErrUnknownClass)
		assert.Equal(t, 0, r.Len())
	})

	t.Run("member conflict", func(t *testing.T) {
		r := NewRegistry()
		_, err := r.Register("A", "", []string{"x"}, []string{"x"})
		assert.ErrorIs(t, err, ErrMemberConflict)
		assert.False(t, r.Has("A"))
	})

	t.Run("empty name", func(t *testing.T) {
		r := NewRegistry()
		_, err := r.Register("  ", "", nil, nil)
		assert.ErrorIs(t, err, ErrEmptyName)
	})
}

func TestChildrenAndDescendants(t *testing.T) {
	r := sampleRegistry(t)

	assert.Equal(t, []string{"Child1", "Child2"}, names(r.Children("Base")))
	assert.Equal(t, []string{"Grandchild1"}, names(r.Children("Child1")))
	assert.Empty(t, r.Children("Grandchild2"))
	assert.Empty(t, r.Children("Missing"))

	assert.Equal(t, []string{"Child1", "Child2", "Grandchild1", "Grandchild2"}, names(r.Descendants("Base")))
	assert.Equal(t, []string{"Grandchild2"}, names(r.Descendants("Child2")))
	assert.Empty(t, r.Descendants("Grandchild1"))
	assert.Empty(t, r.Descendants("Missing"))

	assert.Equal(t, []string{"Base"}, names(r.Roots()))
}

func TestLookupAndIsRoot(t *testing.T) {
	r := sampleRegistry(t)

	base, ok := r.Lookup("Base")
	require.True(t, ok)
	assert.True(t, base.IsRoot())

	child, ok := r.Lookup("Child1")
	require.True(t, ok)
	assert.False(t, child.IsRoot())
	assert.Same(t, base, child.Parent())

	_, ok = r.Lookup("Missing")
	assert.False(t, ok)
	assert.False(t, r.Has("Missing"))
}

func TestDepthAndAncestorChain(t *testing.T) {
	r := sampleRegistry(t)

	tests := []struct {
		class string
		depth int
		chain []string
	}{
		{"Base", 0, nil},
		{"Child1", 1, []string{"Base"}},
		{"Child2", 1, []string{"Base"}},
		{"Grandchild1", 2, []string{"Child1", "Base"}},
		{"Grandchild2", 2, []string{"Child2", "Base"}},
	}

	for _, tt := range tests {
		t.Run(tt.class, func(t *testing.T) {
			c, err := r.Get(tt.class)
			require.NoError(t, err)

			depth, err := Depth(c)
			require.NoError(t, err)
			assert.Equal(t, tt.depth, depth)

			chain, err := AncestorChain(c)
			require.NoError(t, err)
			if tt.chain == nil {
				assert.Empty(t, chain)
			} else {
				assert.Equal(t, tt.chain, names(chain))
			}
		})
	}
}

func TestBuildOutOfOrder(t *testing.T) {
	r, err := Build([]Declaration{
		{Name: "Grandchild", Extends: "Child", Methods: []string{"c"}},
		{Name: "Child", Extends: "Root", Methods: []string{"b"}},
		{Name: "Root", Methods: []string{"a", "constructor"}, Attributes: []string{"x"}},
	})
	require.NoError(t, err)

	c, err := r.Get("Grandchild")
	require.NoError(t, err)
	depth, err := Depth(c)
	require.NoError(t, err)
	assert.Equal(t, 2, depth)
	assert.Equal(t, []string{"Child"}, names(r.Children("Root")))
	assert.NoError(t, r.Validate())
}

func TestBuildErrors(t *testing.T) {
	_, err := Build([]Declaration{{Name: "A"}, {Name: "A"}})
	assert.ErrorIs(t, err, ErrDuplicateClass)

	_, err = Build([]Declaration{{Name: "A", Extends: "Nope"}})
	assert.ErrorIs(t, err, ErrUnknownClass)

	_, err = Build([]Declaration{{Name: ""}})
	assert.ErrorIs(t, err, ErrEmptyName)
}

func TestCycleDetection(t *testing.T) {
	r, err := Build([]Declaration{
		{Name: "A", Extends: "B"},
		{Name: "B", Extends: "A"},
		{Name: "C", Extends: "A"},
		{Name: "Self", Extends: "Self"},
		{Name: "Root"},
	})
	require.NoError(t, err, "Build represents cycles instead of rejecting them")

	for _, name := range []string{"A", "B", "C", "Self"} {
		c, err := r.Get(name)
		require.NoError(t, err)
		_, err = Depth(c)
		assert.ErrorIs(t, err, ErrCycle, name)
		_, err = AncestorChain(c)
		assert.ErrorIs(t, err, ErrCycle, name)
	}

	root, err := r.Get("Root")
	require.NoError(t, err)
	depth, err := Depth(root)
	require.NoError(t, err)
	assert.Equal(t, 0, depth)

	assert.Equal(t, [][]string{{"A", "B"}, {"Self"}}, r.Cycles())

	err = r.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCycle)
	assert.Contains(t, err.Error(), "A -> B -> A")
	assert.Contains(t, err.Error(), "Self -> Self")

	// Descendant walks still terminate.
	assert.Equal(t, []string{"B", "C"}, names(r.Descendants("A")))
}

func TestCycleErrorPath(t *testing.T) {
	r, err := Build([]Declaration{
		{Name: "Leaf", Extends: "X"},
		{Name: "X", Extends: "Y"},
		{Name: "Y", Extends: "X"},
	})
	require.NoError(t, err)

	leaf, err := r.Get("Leaf")
	require.NoError(t, err)
	_, err = Depth(leaf)
	var cycle *CycleError
	require.True(t, errors.As(err, &cycle))
	assert.Equal(t, "Leaf", cycle.Class)
	assert.Equal(t, []string{"Leaf", "X", "Y", "X"}, cycle.Path)
}

func TestDeclarationsAndFingerprint(t *testing.T) {
	r := sampleRegistry(t)
	decls := r.Declarations()
	require.Len(t, decls, 5)
	assert.Equal(t, "Base", decls[0].Name)
	assert.Equal(t, "", decls[0].Extends)
	assert.Equal(t, "Child1", decls[1].Name)
	assert.Equal(t, "Base", decls[1].Extends)

	// Rebuilding in a different order yields the same fingerprint.
	reversed := make([]Declaration, len(decls))
	for i, d := range decls {
		reversed[len(decls)-1-i] = d
	}
	rebuilt, err := Build(reversed)
	require.NoError(t, err)
	assert.Equal(t, r.Fingerprint(), rebuilt.Fingerprint())

	other := sampleRegistry(t)
	_, err = other.Register("Extra", "Base", nil, nil)
	require.NoError(t, err)
	assert.NotEqual(t, r.Fingerprint(), other.Fingerprint())
}
