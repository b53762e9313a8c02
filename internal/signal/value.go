package signal

// NewValue returns a Value holding value.
func NewValue[T comparable](value T) *Value[T] {
	return &Value[T]{V: value}
}

// Value is a comparable value that runs its effects whenever it changes.
type Value[T comparable] struct {
	V       T
	effects []func(old T)
}

// Set updates the value and runs the effects. It reports whether the value
// changed.
func (v *Value[T]) Set(value T) bool {
	if v.V == value {
		return false
	}
	old := v.V
	v.V = value
	for _, fn := range v.effects {
		fn(old)
	}
	return true
}

func (v *Value[T]) AddEffect(fn func(old T)) {
	v.effects = append(v.effects, fn)
}
