package keyboard

import "github.com/MikhailMS/radius-os/kernel/task"

// NewPrintTask returns a task that decodes every scancode delivered to the
// stream and passes the decoded character to write, mirroring the original
// source's print_keypress async fn. It drains every scancode that is
// already queued before reporting Pending, so a burst of keystrokes does
// not each require a separate trip through the executor.
func NewPrintTask(stream *ScancodeStream, write func(byte)) *task.Task {
	return task.New(func(ctx *task.Context) task.Poll {
		for {
			sc, poll := stream.Poll(ctx)
			if poll == task.Pending {
				return task.Pending
			}

			if ch, ok := Decode(sc); ok {
				write(ch)
			}
		}
	})
}
