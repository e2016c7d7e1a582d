package number

import (
	"fmt"
	"math"
	"reflect"
)

// ToFloat64 converts any value of a numeric kind to float64. Named numeric
// types are accepted.
func ToFloat64(value any) (float64, bool) {
	if value == nil {
		return 0, false
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}

// ToInt converts integer kinds to int. Floats are rejected even when whole.
func ToInt(value any) (int, error) {
	if value == nil {
		return 0, fmt.Errorf("value <nil> is not an integer")
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > math.MaxInt {
			return 0, fmt.Errorf("value %d overflows int", u)
		}
		return int(u), nil
	default:
		return 0, fmt.Errorf("value %T is not an integer", value)
	}
}
