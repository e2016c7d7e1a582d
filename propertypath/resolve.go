package propertypath

import (
	"fmt"

	"github.com/jacoelho/pathwatch/observable"
)

// ValueAt walks p from root and returns the value found at depth. Depth
// p.Len()-1 addresses the terminal value, p.Len()-2 the object owning the
// terminal property and -1 the root itself.
//
// found is false when an intermediate before depth is absent; that is an
// expected outcome, not an error.
func ValueAt(root any, p Path, depth int) (value any, found bool, err error) {
	if observable.IsNil(root) {
		return nil, false, fmt.Errorf("%w: root", ErrArgumentRequired)
	}
	if depth < -1 || depth >= p.Len() {
		return nil, false, fmt.Errorf("%w: %d not in [-1, %d)", ErrDepthOutOfRange, depth, p.Len())
	}

	current := root
	for i := 0; i <= depth; i++ {
		if observable.IsNil(current) {
			return nil, false, nil
		}

		current, err = p.segments[i].Read(current)
		if err != nil {
			return nil, false, err
		}
	}

	return current, true, nil
}

// Value returns the terminal value of p on root.
func Value(root any, p Path) (any, bool, error) {
	return ValueAt(root, p, p.Len()-1)
}

// Owner returns the object that owns the terminal property of p.
func Owner(root any, p Path) (any, bool, error) {
	return ValueAt(root, p, p.Len()-2)
}

// Set writes value to the terminal property of p on root. It fails with
// ErrArgumentRequired when the owning object is absent.
func Set(root any, p Path, value any) error {
	terminal, ok := p.Terminal()
	if !ok {
		return fmt.Errorf("%w: cannot assign the root object", ErrInvalidPathShape)
	}

	owner, found, err := Owner(root, p)
	if err != nil {
		return err
	}
	if !found || observable.IsNil(owner) {
		return fmt.Errorf("%w: %s has no owner object", ErrArgumentRequired, p)
	}

	return terminal.Write(owner, value)
}
