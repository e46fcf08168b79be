// Package utils holds helpers for the optional fields the API serves as
// JSON null.
package utils

// Ptr returns a pointer to a copy of v.
func Ptr[T any](v T) *T {
	return &v
}

// Value dereferences v, giving the zero value for nil.
func Value[T any](v *T) T {
	var zero T
	if v == nil {
		return zero
	}
	return *v
}

// NonZero is Ptr for set values and nil for the zero value, so an empty
// string is sent as null.
func NonZero[T comparable](v T) *T {
	var zero T
	if v == zero {
		return nil
	}
	return &v
}
