// Package propertypath turns property selectors into ordered segment lists and
// resolves them against object graphs.
//
// A property is an exported struct field, a getter (a method with no
// parameters and a single result) or a key of an observable.PropertyBag.
// Selectors come in two forms:
//
//	$.Address.Building.Owner.Name     JSONPath, name segments only
//	p.Address.Building.Owner.Name     Go selector expression on a parameter
//
// "$" and a bare identifier select the root object and yield an empty Path.
package propertypath

import (
	"reflect"
	"slices"
	"strings"
)

// Segment is one property access step. Owner is the declaring type when it is
// known statically and nil when the previous step is dynamically typed.
type Segment struct {
	Name  string
	Owner reflect.Type
}

func (s Segment) String() string {
	if s.Owner == nil {
		return s.Name
	}
	return s.Owner.String() + "." + s.Name
}

// Path is an immutable, root-first list of segments.
type Path struct {
	segments []Segment
}

// NewPath builds a Path from segments.
func NewPath(segments ...Segment) Path {
	return Path{segments: slices.Clone(segments)}
}

// Len returns the number of segments.
func (p Path) Len() int {
	return len(p.segments)
}

// IsRoot reports whether the path selects the root object itself.
func (p Path) IsRoot() bool {
	return len(p.segments) == 0
}

// Segment returns the segment at index i.
func (p Path) Segment(i int) Segment {
	return p.segments[i]
}

// Segments returns a copy of the segments.
func (p Path) Segments() []Segment {
	return slices.Clone(p.segments)
}

// Terminal returns the last segment.
func (p Path) Terminal() (Segment, bool) {
	if len(p.segments) == 0 {
		return Segment{}, false
	}
	return p.segments[len(p.segments)-1], true
}

// Names returns the segment names in order.
func (p Path) Names() []string {
	names := make([]string, len(p.segments))
	for i, s := range p.segments {
		names[i] = s.Name
	}
	return names
}

// String renders the path in JSONPath form, e.g. "$.Address.Name".
func (p Path) String() string {
	var b strings.Builder
	b.WriteByte('$')
	for _, s := range p.segments {
		b.WriteByte('.')
		b.WriteString(s.Name)
	}
	return b.String()
}
