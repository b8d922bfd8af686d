package connection

import "sync/atomic"

// Notifier is a single-slot callback fired when the API rejects the
// credential. The zero value is an empty slot.
type Notifier struct {
	slot atomic.Pointer[func()]
}

// Register replaces the callback. Register(nil) empties the slot.
func (n *Notifier) Register(fn func()) {
	if fn == nil {
		n.slot.Store(nil)
		return
	}
	n.slot.Store(&fn)
}

// Fire invokes the callback, if any, and reports whether one ran.
func (n *Notifier) Fire() bool {
	fn := n.slot.Load()
	if fn == nil {
		return false
	}
	(*fn)()
	return true
}
