package task

import "testing"

func TestNewAssignsIncreasingIDs(t *testing.T) {
	t1 := New(func(*Context) Poll { return Ready })
	t2 := New(func(*Context) Poll { return Ready })

	if t2.ID() <= t1.ID() {
		t.Fatalf("expected increasing task IDs; got %d then %d", t1.ID(), t2.ID())
	}
}
