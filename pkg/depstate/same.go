package depstate

import (
	"math"
	"reflect"
)

// Same reports whether a and b are the same value.
//
// Numbers, strings and bools compare by value, except that floats compare by
// identity: NaN is the same as NaN, and +0 is not the same as -0. Pointers,
// maps, channels and funcs compare by address, and slices by backing array and
// length, never by contents. Arrays and structs are the same when every
// element or field is. Values of different dynamic types are never the same.
func Same[T any](a, b T) bool {
	switch av := any(a).(type) {
	case int:
		bv, ok := any(b).(int)
		return ok && av == bv
	case string:
		bv, ok := any(b).(string)
		return ok && av == bv
	case bool:
		bv, ok := any(b).(bool)
		return ok && av == bv
	case float64:
		bv, ok := any(b).(float64)
		return ok && sameFloat(av, bv)
	}
	return sameValue(reflect.ValueOf(&a).Elem(), reflect.ValueOf(&b).Elem())
}

// DepsEqual reports whether two dependency lists are equal: same length and
// Same at every position. Two empty lists are equal.
func DepsEqual(prev, next []any) bool {
	if len(prev) != len(next) {
		return false
	}
	for i := range prev {
		if !sameValue(reflect.ValueOf(prev[i]), reflect.ValueOf(next[i])) {
			return false
		}
	}
	return true
}

func sameFloat(a, b float64) bool {
	if math.IsNaN(a) && math.IsNaN(b) {
		return true
	}
	return math.Float64bits(a) == math.Float64bits(b)
}

func sameValue(a, b reflect.Value) bool {
	if !a.IsValid() || !b.IsValid() {
		return a.IsValid() == b.IsValid()
	}
	if a.Type() != b.Type() {
		return false
	}

	switch a.Kind() {
	case reflect.Bool:
		return a.Bool() == b.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return a.Int() == b.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return a.Uint() == b.Uint()
	case reflect.Float32, reflect.Float64:
		return sameFloat(a.Float(), b.Float())
	case reflect.Complex64, reflect.Complex128:
		ac, bc := a.Complex(), b.Complex()
		return sameFloat(real(ac), real(bc)) && sameFloat(imag(ac), imag(bc))
	case reflect.String:
		return a.String() == b.String()
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return a.Pointer() == b.Pointer()
	case reflect.Slice:
		if a.IsNil() || b.IsNil() {
			return a.IsNil() == b.IsNil()
		}
		return a.Pointer() == b.Pointer() && a.Len() == b.Len()
	case reflect.Interface:
		if a.IsNil() || b.IsNil() {
			return a.IsNil() == b.IsNil()
		}
		return sameValue(a.Elem(), b.Elem())
	case reflect.Array:
		for i := 0; i < a.Len(); i++ {
			if !sameValue(a.Index(i), b.Index(i)) {
				return false
			}
		}
		return true
	case reflect.Struct:
		for i := 0; i < a.NumField(); i++ {
			if !sameValue(a.Field(i), b.Field(i)) {
				return false
			}
		}
		return true
	}
	return false
}
