package observable

import (
	"maps"
	"reflect"
	"slices"
)

// PropertyBag is implemented by objects whose properties are looked up by name
// at run time instead of through struct fields or getters.
type PropertyBag interface {
	Property(name string) (any, bool)
}

// PropertySetter is implemented by property bags that accept writes.
type PropertySetter interface {
	SetProperty(name string, value any)
}

// Record is an observable PropertyBag backed by a map. Writes that change a
// value announce the property name.
type Record struct {
	Object
	values map[string]any
}

var (
	_ PropertyBag    = (*Record)(nil)
	_ PropertySetter = (*Record)(nil)
)

// NewRecord creates a Record holding a copy of values.
func NewRecord(values map[string]any) *Record {
	r := &Record{values: make(map[string]any, len(values))}
	maps.Copy(r.values, values)
	return r
}

// Property returns the value stored under name.
func (r *Record) Property(name string) (any, bool) {
	v, ok := r.values[name]
	return v, ok
}

// SetProperty stores value under name and announces name when it differs from
// the previous value.
func (r *Record) SetProperty(name string, value any) {
	if r.values == nil {
		r.values = make(map[string]any)
	}

	old, ok := r.values[name]
	if ok && Same(old, value) {
		return
	}

	r.values[name] = value
	r.NotifyPropertyChanged(name)
}

// DeleteProperty removes name and announces it when it was present.
func (r *Record) DeleteProperty(name string) {
	if _, ok := r.values[name]; !ok {
		return
	}

	delete(r.values, name)
	r.NotifyPropertyChanged(name)
}

// Keys returns the property names in sorted order.
func (r *Record) Keys() []string {
	return slices.Sorted(maps.Keys(r.values))
}

// Same reports whether a and b denote the same value: identity for pointers,
// == for other comparable values and deep equality for the rest. Typed nils
// are equal to nil.
func Same(a, b any) bool {
	aNil, bNil := IsNil(a), IsNil(b)
	if aNil || bNil {
		return aNil == bNil
	}

	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	if va.Comparable() && vb.Comparable() {
		return va.Equal(vb)
	}

	return reflect.DeepEqual(a, b)
}
