// Package keyboard turns the raw scancode byte stream delivered by the
// keyboard IRQ handler into an async-style source a task can poll. It
// reproduces original_source/src/task/keyboard.rs's design: a single,
// lazily-created bounded queue of pending scancodes plus a single-slot
// waker so the executor only re-polls the consuming task once new input
// has actually arrived, instead of busy-polling every tick.
package keyboard

import (
	"sync/atomic"

	"github.com/MikhailMS/radius-os/kernel/queue"
	"github.com/MikhailMS/radius-os/kernel/task"
)

// scancodeQueueCapacity bounds how many scancodes can be buffered between
// the keyboard IRQ firing and the consuming task draining them. The
// original source uses the same fixed capacity (ArrayQueue::new(100)).
const scancodeQueueCapacity = 100

var (
	scancodeQueue *queue.Ring[uint8]
	waker         atomic.Pointer[task.Waker]
)

// ScancodeStream is the single allowed consumer of the raw scancode queue.
// Like the original source's OnceCell-guarded SCANCODE_QUEUE, only one may
// ever exist; constructing a second panics rather than silently creating
// two independent queues that would each only see half the keypresses.
type ScancodeStream struct{}

// NewScancodeStream initializes the scancode queue and returns its sole
// stream. It must only be called once for the lifetime of the kernel.
func NewScancodeStream() *ScancodeStream {
	if scancodeQueue != nil {
		panic("keyboard: NewScancodeStream must only be called once")
	}
	scancodeQueue = queue.New[uint8](scancodeQueueCapacity)
	return &ScancodeStream{}
}

// Poll returns the next scancode if one is already queued. Otherwise it
// registers ctx.Waker to be notified by AddScancode and reports Pending.
// The queue is checked once before registering and once again after, so a
// scancode delivered by an interrupt in the narrow window between the two
// checks is not missed (mirroring the original's "pop, register, pop
// again" sequence).
func (s *ScancodeStream) Poll(ctx *task.Context) (sc uint8, poll task.Poll) {
	if v, err := scancodeQueue.Pop(); err == nil {
		return v, task.Ready
	}

	waker.Store(&ctx.Waker)

	if v, err := scancodeQueue.Pop(); err == nil {
		waker.Store(nil)
		return v, task.Ready
	}

	return 0, task.Pending
}

// AddScancode is called from the keyboard IRQ handler. It must not block or
// allocate: Push never does either, and Swap just exchanges a pointer.
func AddScancode(sc uint8) {
	if scancodeQueue == nil {
		return
	}

	if err := scancodeQueue.Push(sc); err != nil {
		return
	}

	if w := waker.Swap(nil); w != nil {
		(*w).Wake()
	}
}
