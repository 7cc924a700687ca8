package model

// Source records where a read result came from and whether the read persisted anything
type Source int

const (
	// SourceDefault means no record exists and a default was returned without persisting it
	SourceDefault Source = iota
	// SourceCreated means no record existed and this read created it
	SourceCreated
	// SourceStored means the record already existed
	SourceStored
)

// String returns a log-friendly name
func (s Source) String() string {
	switch s {
	case SourceDefault:
		return "default"
	case SourceCreated:
		return "created"
	case SourceStored:
		return "stored"
	default:
		return "unknown"
	}
}

// Resolved is a read result together with its Source
type Resolved[T any] struct {
	Value  T
	Source Source
}

// Defaulted wraps a value that was synthesized without persistence
func Defaulted[T any](v T) Resolved[T] {
	return Resolved[T]{Value: v, Source: SourceDefault}
}

// Persisted wraps a value read from the store, marking whether the read created it
func Persisted[T any](v T, created bool) Resolved[T] {
	if created {
		return Resolved[T]{Value: v, Source: SourceCreated}
	}
	return Resolved[T]{Value: v, Source: SourceStored}
}
