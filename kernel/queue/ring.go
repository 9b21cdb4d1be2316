// Package queue provides a lock-free bounded ring buffer suitable for
// passing values between interrupt handlers and the task executor without
// allocating or blocking. It reproduces the contract of the Rust
// `crossbeam_queue::ArrayQueue` type the original kernel this core is based
// on uses for its ready queue and scancode stream: a fixed-capacity slot
// array, a full push fails instead of blocking, and an empty pop fails
// instead of blocking.
package queue

import (
	"sync/atomic"

	"github.com/MikhailMS/radius-os/kernel"
)

// ErrFull is returned by Push when the ring buffer has no free slots.
var ErrFull = &kernel.Error{Module: "queue", Message: "queue is full"}

// ErrEmpty is returned by Pop when the ring buffer has no pending values.
var ErrEmpty = &kernel.Error{Module: "queue", Message: "queue is empty"}

// Ring is a fixed-capacity bounded queue safe for concurrent use by multiple
// producers and multiple consumers without locking. The zero value is not
// usable; construct one with New.
type Ring[T any] struct {
	slots []slot[T]
	mask  uint64

	head uint64 // next slot a consumer will try to pop from
	tail uint64 // next slot a producer will try to push into
}

type slot[T any] struct {
	seq   uint64
	value T
}

// New creates a Ring with room for capacity values. capacity is rounded up
// to the next power of two so that slot indices can be derived with a
// bitmask instead of a division.
func New[T any](capacity int) *Ring[T] {
	if capacity < 1 {
		capacity = 1
	}

	size := 1
	for size < capacity {
		size <<= 1
	}

	r := &Ring[T]{
		slots: make([]slot[T], size),
		mask:  uint64(size - 1),
	}
	for i := range r.slots {
		r.slots[i].seq = uint64(i)
	}

	return r
}

// Push appends a value to the queue. It returns ErrFull without blocking if
// the queue has no free slots. Push is safe to call from interrupt context:
// it never allocates.
func (r *Ring[T]) Push(v T) *kernel.Error {
	for {
		tail := atomic.LoadUint64(&r.tail)
		s := &r.slots[tail&r.mask]
		seq := atomic.LoadUint64(&s.seq)

		diff := int64(seq) - int64(tail)
		switch {
		case diff == 0:
			if atomic.CompareAndSwapUint64(&r.tail, tail, tail+1) {
				s.value = v
				atomic.StoreUint64(&s.seq, tail+1)
				return nil
			}
		case diff < 0:
			return ErrFull
		default:
			// another producer raced ahead of us; retry.
		}
	}
}

// IsEmpty reports whether the queue currently has no pending values. Like
// every other observation of a lock-free MPMC queue, the result can be
// stale by the time the caller acts on it; the task executor's idle loop
// accounts for this by disabling interrupts before checking and halting.
func (r *Ring[T]) IsEmpty() bool {
	head := atomic.LoadUint64(&r.head)
	s := &r.slots[head&r.mask]
	seq := atomic.LoadUint64(&s.seq)
	return int64(seq)-int64(head+1) < 0
}

// Pop removes and returns the oldest queued value. It returns ErrEmpty
// without blocking if the queue has nothing pending.
func (r *Ring[T]) Pop() (T, *kernel.Error) {
	for {
		head := atomic.LoadUint64(&r.head)
		s := &r.slots[head&r.mask]
		seq := atomic.LoadUint64(&s.seq)

		diff := int64(seq) - int64(head+1)
		switch {
		case diff == 0:
			if atomic.CompareAndSwapUint64(&r.head, head, head+1) {
				v := s.value
				var zero T
				s.value = zero
				atomic.StoreUint64(&s.seq, head+r.mask+1)
				return v, nil
			}
		case diff < 0:
			var zero T
			return zero, ErrEmpty
		default:
			// another consumer raced ahead of us; retry.
		}
	}
}
