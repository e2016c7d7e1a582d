package propertypath

import (
	"fmt"
	"reflect"

	"github.com/jacoelho/pathwatch/observable"
)

var propertyBagType = reflect.TypeFor[observable.PropertyBag]()

// propertyType reports the static type of property name on t. A nil result
// with a nil error means the property exists or may exist but its type is only
// known at run time.
func propertyType(t reflect.Type, name string) (reflect.Type, error) {
	if t.Implements(propertyBagType) {
		return nil, nil
	}

	if m, ok := t.MethodByName(name); ok {
		// Method types of concrete types include the receiver.
		in := m.Type.NumIn()
		if t.Kind() != reflect.Interface {
			in--
		}
		if in == 0 && m.Type.NumOut() == 1 {
			return m.Type.Out(0), nil
		}
		return nil, fmt.Errorf("%w: %s.%s is a method with parameters or multiple results", ErrNonPropertyMember, t, name)
	}

	base := t
	for base.Kind() == reflect.Ptr {
		base = base.Elem()
	}

	switch base.Kind() {
	case reflect.Interface:
		return nil, nil
	case reflect.Struct:
		f, ok := base.FieldByName(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s has no property %s", ErrNonPropertyMember, t, name)
		}
		if !f.IsExported() {
			return nil, fmt.Errorf("%w: %s.%s is unexported", ErrNonPropertyMember, t, name)
		}
		return f.Type, nil
	default:
		return nil, fmt.Errorf("%w: %s has no property %s", ErrNonPropertyMember, t, name)
	}
}

// Read returns the value of the segment's property on obj. A nil obj yields nil.
func (s Segment) Read(obj any) (any, error) {
	if observable.IsNil(obj) {
		return nil, nil
	}

	if bag, ok := obj.(observable.PropertyBag); ok {
		v, _ := bag.Property(s.Name)
		return v, nil
	}

	rv := reflect.ValueOf(obj)
	if m := rv.MethodByName(s.Name); m.IsValid() {
		if m.Type().NumIn() != 0 || m.Type().NumOut() != 1 {
			return nil, fmt.Errorf("%w: %T.%s is a method with parameters or multiple results", ErrNonPropertyMember, obj, s.Name)
		}
		return m.Call(nil)[0].Interface(), nil
	}

	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, nil
		}
		rv = rv.Elem()
	}

	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %T has no property %s", ErrNonPropertyMember, obj, s.Name)
	}

	f, ok := rv.Type().FieldByName(s.Name)
	if !ok || !f.IsExported() {
		return nil, fmt.Errorf("%w: %T has no exported property %s", ErrNonPropertyMember, obj, s.Name)
	}

	fv, err := rv.FieldByIndexErr(f.Index)
	if err != nil {
		// Promoted through a nil embedded pointer.
		return nil, nil
	}

	return fv.Interface(), nil
}

// Write assigns value to the segment's property on obj. It calls a Set<Name>
// method when obj has one, stores into a PropertySetter, or assigns the
// exported field through a pointer and then announces Name when obj is an
// observable.Announcer.
func (s Segment) Write(obj any, value any) error {
	if observable.IsNil(obj) {
		return fmt.Errorf("%w: owner of %s is nil", ErrArgumentRequired, s.Name)
	}

	rv := reflect.ValueOf(obj)
	if m := rv.MethodByName("Set" + s.Name); m.IsValid() && m.Type().NumIn() == 1 {
		arg, err := convertValue(value, m.Type().In(0))
		if err != nil {
			return fmt.Errorf("set %s: %w", s.Name, err)
		}
		m.Call([]reflect.Value{arg})
		return nil
	}

	if setter, ok := obj.(observable.PropertySetter); ok {
		setter.SetProperty(s.Name, value)
		return nil
	}

	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w: %T is not a pointer to a struct", ErrNonPropertyMember, obj)
	}

	elem := rv.Elem()
	f, ok := elem.Type().FieldByName(s.Name)
	if !ok || !f.IsExported() {
		return fmt.Errorf("%w: %T has no exported property %s", ErrNonPropertyMember, obj, s.Name)
	}

	fv, err := elem.FieldByIndexErr(f.Index)
	if err != nil {
		return fmt.Errorf("%w: %s is promoted through a nil embedded pointer", ErrNonPropertyMember, s.Name)
	}

	arg, err := convertValue(value, f.Type)
	if err != nil {
		return fmt.Errorf("%s: %w", s.Name, err)
	}
	fv.Set(arg)

	if a, ok := obj.(observable.Announcer); ok {
		a.NotifyPropertyChanged(s.Name)
	}

	return nil
}

func convertValue(value any, t reflect.Type) (reflect.Value, error) {
	if observable.IsNil(value) {
		switch t.Kind() {
		case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
			return reflect.Zero(t), nil
		default:
			return reflect.Value{}, fmt.Errorf("%w: nil to %s", ErrIncompatibleValue, t)
		}
	}

	rv := reflect.ValueOf(value)
	if rv.Type().AssignableTo(t) {
		return rv, nil
	}
	if isNumeric(rv.Kind()) && isNumeric(t.Kind()) {
		return rv.Convert(t), nil
	}

	return reflect.Value{}, fmt.Errorf("%w: %s to %s", ErrIncompatibleValue, rv.Type(), t)
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
