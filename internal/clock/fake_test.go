package clock

import (
	"testing"
	"time"
)

func TestFakeAfterFiresInOrder(t *testing.T) {
	clk := NewFake(time.Unix(0, 0))

	var fired []string
	clk.AfterFunc(2*time.Second, func() { fired = append(fired, "second") })
	clk.AfterFunc(time.Second, func() { fired = append(fired, "first") })

	clk.Advance(500 * time.Millisecond)
	if len(fired) != 0 {
		t.Fatalf("nothing should fire before its deadline: %v", fired)
	}

	clk.Advance(2 * time.Second)
	if len(fired) != 2 || fired[0] != "first" || fired[1] != "second" {
		t.Fatalf("timers fired out of order: %v", fired)
	}
}

func TestFakeStop(t *testing.T) {
	clk := NewFake(time.Unix(0, 0))

	fired := false
	timer := clk.AfterFunc(time.Second, func() { fired = true })
	if !timer.Stop() {
		t.Fatalf("first stop should report the timer as active")
	}
	if timer.Stop() {
		t.Fatalf("second stop should report it already stopped")
	}

	clk.Advance(2 * time.Second)
	if fired {
		t.Fatalf("stopped timer must not fire")
	}
}

func TestFakeAfterChannel(t *testing.T) {
	clk := NewFake(time.Unix(0, 0))
	ch := clk.After(time.Second)

	select {
	case <-ch:
		t.Fatalf("channel fired early")
	default:
	}

	clk.Advance(time.Second)
	select {
	case <-ch:
	default:
		t.Fatalf("channel should have fired")
	}
}
