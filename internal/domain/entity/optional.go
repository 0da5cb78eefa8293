package entity

// Optional carries a patch field that may be absent, explicitly null, or set.
// Set is true when the field appeared in the payload; Value is nil for an explicit null.
type Optional[T any] struct {
	Set   bool
	Value *T
}

// Some returns a present, non-null Optional
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: &v}
}

// Null returns a present Optional that clears the field
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true}
}

// Apply overwrites dst when the field was present in the payload
func (o Optional[T]) Apply(dst **T) {
	if !o.Set {
		return
	}
	if o.Value == nil {
		*dst = nil
		return
	}
	v := *o.Value
	*dst = &v
}
