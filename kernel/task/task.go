// Package task implements the cooperative, single-CPU task executor. Go has
// no native async/await, so a task here is not a Future trait object the way
// it is in the original kernel this core is based on
// (original_source/src/task/mod.rs); instead it is a resumable closure
// state machine: a func(*Context) Poll that the executor calls repeatedly
// until it reports Ready. Tasks close over whatever local state they need
// to resume where they left off, the same role Rust's compiler-generated
// Future state machine plays.
package task

import "sync/atomic"

// Poll is the outcome of a single resumption of a task.
type Poll int

const (
	// Pending means the task has more work to do and should be polled
	// again once its Waker fires.
	Pending Poll = iota
	// Ready means the task has finished and can be dropped.
	Ready
)

// TaskId uniquely identifies a spawned task for its lifetime, mirroring
// original_source/src/task/executor.rs's use of TaskId as the key into both
// the task table and the waker cache.
type TaskId uint64

var nextID uint64

func newTaskId() TaskId {
	return TaskId(atomic.AddUint64(&nextID, 1))
}

// Waker lets a pending task (or an interrupt handler acting on its behalf)
// tell the executor "I may be ready now, poll me again", without the
// executor having to poll every task on every iteration.
type Waker interface {
	Wake()
}

// Context is handed to a task's poll function on every resumption. Tasks
// that cannot complete immediately must stash ctx.Waker somewhere an
// interrupt handler or another task can reach, and call Wake() once the
// condition the task is waiting on becomes true.
type Context struct {
	Waker Waker
}

// PollFunc is the resumable body of a task.
type PollFunc func(ctx *Context) Poll

// Task pairs a stable identity with its resumable body.
type Task struct {
	id   TaskId
	poll PollFunc
}

// New wraps poll as a freshly identified Task.
func New(poll PollFunc) *Task {
	return &Task{id: newTaskId(), poll: poll}
}

// ID returns the task's stable identity.
func (t *Task) ID() TaskId {
	return t.id
}

// Poll resumes the task once. Only the executor that owns the task should
// normally call this; it is exported so other packages that build tasks
// (e.g. kernel/keyboard) can unit test the PollFunc they wrap without
// needing a full Executor.
func (t *Task) Poll(ctx *Context) Poll {
	return t.poll(ctx)
}
