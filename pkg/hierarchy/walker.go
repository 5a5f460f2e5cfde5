package hierarchy

// AncestorChain returns the strict ancestors of c, nearest first, ending
// below the implicit root. It fails with a CycleError if the parent chain
// revisits a class.
func AncestorChain(c *Class) ([]*Class, error) {
	seen := map[*Class]bool{c: true}
	path := []string{c.name}
	var chain []*Class
	for p := c.parent; p != nil; p = p.parent {
		path = append(path, p.name)
		if seen[p] {
			return nil, &CycleError{Class: c.name, Path: path}
		}
		seen[p] = true
		chain = append(chain, p)
	}
	return chain, nil
}

// Depth returns the number of parent links from c to the root. A root
// class has depth 0.
func Depth(c *Class) (int, error) {
	chain, err := AncestorChain(c)
	if err != nil {
		return 0, err
	}
	return len(chain), nil
}
