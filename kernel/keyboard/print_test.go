package keyboard

import (
	"testing"

	"github.com/MikhailMS/radius-os/kernel/task"
)

func TestNewPrintTaskDrainsQueuedScancodes(t *testing.T) {
	resetState(t)
	s := NewScancodeStream()
	scancodeQueue.Push(0x1E) // a
	scancodeQueue.Push(0x1F) // s

	var out []byte
	tk := NewPrintTask(s, func(b byte) { out = append(out, b) })

	poll := tk.Poll(&task.Context{})
	if poll != task.Pending {
		t.Fatalf("expected the print task to stay Pending; got %v", poll)
	}

	if string(out) != "as" {
		t.Fatalf("expected decoded output %q; got %q", "as", string(out))
	}
}
