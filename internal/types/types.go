// Package types contains small generic types shared across the httphdr packages.
package types

// Cloneable is implemented by values that can produce a deep copy of themselves.
type Cloneable[T any] interface {
	Clone() T
}

// Clone clones v if it implements [Cloneable], otherwise v is returned as is.
func Clone[T any](v T) T {
	if c, ok := any(v).(Cloneable[T]); ok {
		return c.Clone()
	}
	return v
}
