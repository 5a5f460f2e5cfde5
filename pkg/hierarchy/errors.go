package hierarchy

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors matched by the typed errors below via errors.Is.
var (
	ErrUnknownClass   = errors.New("unknown class")
	ErrDuplicateClass = errors.New("duplicate class")
	ErrCycle          = errors.New("inheritance cycle")
	ErrMemberConflict = errors.New("member declared as both method and attribute")
	ErrEmptyName      = errors.New("class name is empty")
)

// UnknownClassError reports a reference to a class that is not registered.
type UnknownClassError struct {
	Name string
	// Referrer is the class whose parent reference could not be resolved, if any.
	Referrer string
}

func (e *UnknownClassError) Error() string {
	if e.Referrer != "" {
		return fmt.Sprintf("unknown class %q (parent of %q)", e.Name, e.Referrer)
	}
	return fmt.Sprintf("unknown class %q", e.Name)
}

func (e *UnknownClassError) Is(target error) bool { return target == ErrUnknownClass }

// DuplicateClassError reports a second registration of the same name.
type DuplicateClassError struct {
	Name string
}

func (e *DuplicateClassError) Error() string {
	return fmt.Sprintf("duplicate class %q", e.Name)
}

func (e *DuplicateClassError) Is(target error) bool { return target == ErrDuplicateClass }

// CycleError reports a parent chain that revisits a class.
// Path lists the walk from the starting class up to and including the revisited class.
type CycleError struct {
	Class string
	Path  []string
}

func (e *CycleError) Error() string {
	if len(e.Path) == 0 {
		return fmt.Sprintf("inheritance cycle at %q", e.Class)
	}
	return fmt.Sprintf("inheritance cycle at %q: %s", e.Class, strings.Join(e.Path, " -> "))
}

func (e *CycleError) Is(target error) bool { return target == ErrCycle }

// MemberConflictError reports a name present in both the method and attribute sets of one class.
type MemberConflictError struct {
	Class  string
	Member string
}

func (e *MemberConflictError) Error() string {
	return fmt.Sprintf("class %q declares %q as both method and attribute", e.Class, e.Member)
}

func (e *MemberConflictError) Is(target error) bool { return target == ErrMemberConflict }
