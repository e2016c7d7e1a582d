package observer

import (
	"fmt"

	"github.com/jacoelho/pathwatch/observable"
	"github.com/jacoelho/pathwatch/propertypath"
)

// Chain observes a property path from a root object. It raises one Change for
// each external notification that alters the terminal segment, whether the
// leaf changed or an intermediate object was replaced.
//
// A Chain is not safe for concurrent use; the observed graph must be mutated
// from one goroutine or under external synchronization.
type Chain struct {
	root any
	path propertypath.Path

	head *node
	tail *node
	size int

	events emitter
	dirty  bool
	closed bool
	err    error
}

var _ Source = (*Chain)(nil)

// NewChain builds the segment chain for p on root and attaches it.
func NewChain(root any, p propertypath.Path) (*Chain, error) {
	if observable.IsNil(root) {
		return nil, fmt.Errorf("%w: root", ErrArgumentRequired)
	}
	if p.Len() == 0 {
		return nil, ErrEmptyPath
	}

	c := &Chain{root: root, path: p}

	var prev *node
	for _, segment := range p.Segments() {
		n := &node{chain: c, segment: segment}
		if prev == nil {
			c.head = n
		} else {
			prev.child = n
		}
		prev = n
		c.size++
	}
	c.tail = prev

	c.head.setObserved(root)
	c.dirty = false

	if c.err != nil {
		err := c.err
		c.Close()
		return nil, fmt.Errorf("%s: %w", p, err)
	}

	return c, nil
}

// Subscribe registers fn for path changes. It returns the zero token after Close.
func (c *Chain) Subscribe(fn ChangeFunc) observable.Token {
	if c.closed {
		return 0
	}
	return c.events.add(fn)
}

// Unsubscribe removes the listener identified by t.
func (c *Chain) Unsubscribe(t observable.Token) {
	c.events.remove(t)
}

// Root returns the object the chain is rooted at.
func (c *Chain) Root() any {
	return c.root
}

// Path returns the observed path.
func (c *Chain) Path() propertypath.Path {
	return c.path
}

// Len returns the number of segment nodes.
func (c *Chain) Len() int {
	return c.size
}

// Value returns the terminal value. found is false while an intermediate
// object along the path is absent.
func (c *Chain) Value() (value any, found bool) {
	if observable.IsNil(c.tail.observed) {
		return nil, false
	}
	return c.tail.value, true
}

// Err returns the first resolution failure seen while re-wiring after
// construction, such as a dynamically typed segment without the property.
func (c *Chain) Err() error {
	return c.err
}

// Closed reports whether Close has been called.
func (c *Chain) Closed() bool {
	return c.closed
}

// Close detaches every node from its observed object, top to bottom, and
// drops all listeners. It is safe to call more than once.
func (c *Chain) Close() {
	if c.closed {
		return
	}
	c.closed = true

	for n := c.head; n != nil; n = n.child {
		n.detach()
	}
	c.events.clear()
}

func (c *Chain) markDirty() {
	c.dirty = true
}

func (c *Chain) fail(err error) {
	if c.err == nil {
		c.err = err
	}
}

// flush raises the pending change, if any. Listeners may mutate the graph;
// those mutations flush on their own.
func (c *Chain) flush() {
	if !c.dirty || c.closed {
		return
	}
	c.dirty = false

	value, _ := c.Value()
	c.events.emit(Change{Name: c.tail.segment.Name, Value: value})
}
