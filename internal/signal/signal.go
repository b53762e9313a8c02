// Package signal provides synchronous, single-goroutine notifications used
// between the window manager components.
package signal

// Signal delivers a value to every connected slot in connection order.
// It is not safe for concurrent use; all emitters and slots run on the
// compositor loop.
type Signal[T any] struct {
	nextID int
	slots  []slot[T]
}

type slot[T any] struct {
	id int
	fn func(T)
}

// Connect adds fn and returns a function that disconnects it.
func (s *Signal[T]) Connect(fn func(T)) func() {
	s.nextID++
	id := s.nextID
	s.slots = append(s.slots, slot[T]{id: id, fn: fn})
	return func() {
		for i := range s.slots {
			if s.slots[i].id == id {
				s.slots = append(s.slots[:i:i], s.slots[i+1:]...)
				return
			}
		}
	}
}

// Emit calls the slots connected at the time of the call.
func (s *Signal[T]) Emit(value T) {
	slots := s.slots
	for _, sl := range slots {
		sl.fn(value)
	}
}

// Len returns the number of connected slots.
func (s *Signal[T]) Len() int {
	return len(s.slots)
}
