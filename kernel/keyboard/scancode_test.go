package keyboard

import (
	"testing"

	"github.com/MikhailMS/radius-os/kernel/task"
)

func resetState(t *testing.T) {
	t.Helper()
	savedQueue := scancodeQueue
	t.Cleanup(func() {
		scancodeQueue = savedQueue
		waker.Store(nil)
	})
	scancodeQueue = nil
}

type fakeWaker struct{ woken int }

func (w *fakeWaker) Wake() { w.woken++ }

func TestNewScancodeStreamPanicsOnSecondCall(t *testing.T) {
	resetState(t)
	NewScancodeStream()

	defer func() {
		if recover() == nil {
			t.Fatal("expected a second NewScancodeStream call to panic")
		}
	}()
	NewScancodeStream()
}

func TestPollReturnsQueuedScancodeImmediately(t *testing.T) {
	resetState(t)
	s := NewScancodeStream()
	scancodeQueue.Push(0x1E)

	sc, poll := s.Poll(&task.Context{})
	if poll != task.Ready || sc != 0x1E {
		t.Fatalf("expected Ready(0x1E); got poll=%v sc=%#x", poll, sc)
	}
}

func TestPollRegistersWakerWhenEmpty(t *testing.T) {
	resetState(t)
	s := NewScancodeStream()

	fw := &fakeWaker{}
	var w task.Waker = fw
	sc, poll := s.Poll(&task.Context{Waker: w})
	if poll != task.Pending || sc != 0 {
		t.Fatalf("expected Pending; got poll=%v sc=%#x", poll, sc)
	}

	AddScancode(0x1E)
	if fw.woken != 1 {
		t.Fatalf("expected the registered waker to be woken once; woken=%d", fw.woken)
	}

	sc, poll = s.Poll(&task.Context{})
	if poll != task.Ready || sc != 0x1E {
		t.Fatalf("expected the delivered scancode to now be poppable; got poll=%v sc=%#x", poll, sc)
	}
}

func TestAddScancodeBeforeStreamExistsIsNoop(t *testing.T) {
	resetState(t)
	AddScancode(0x1E) // must not panic
}

func TestDecode(t *testing.T) {
	if ch, ok := Decode(0x1E); !ok || ch != 'a' {
		t.Fatalf("expected 'a'; got %q ok=%v", ch, ok)
	}
	if _, ok := Decode(0x1E | makeCodeMask); ok {
		t.Fatal("expected break codes to decode as not-ok")
	}
	if _, ok := Decode(0x7F); ok {
		t.Fatal("expected an unmapped scancode to decode as not-ok")
	}
}
