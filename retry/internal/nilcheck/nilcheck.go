// Package nilcheck detects nil collaborators handed to functional options,
// including typed-nil pointers boxed into interfaces.
package nilcheck

import "reflect"

// Nil reports whether value is nil once unwrapped from any interface box.
// A (*T)(nil) stored in an interface compares non-nil with ==, so option
// guards use this check to make such values fall back to defaults.
func Nil(value any) bool {
	if value == nil {
		return true
	}

	switch rv := reflect.ValueOf(value); rv.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return rv.IsNil()
	default:
		return false
	}
}
