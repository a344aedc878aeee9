package event

import "testing"

func TestAddEventZeroDelayFiresImmediately(t *testing.T) {
	var s Scheduler
	fired := false
	s.AddEvent(nil, func(arg int) { fired = true }, 0, 0)
	if !fired {
		t.Fatalf("zero-delay event must fire synchronously")
	}
	if s.head != nil {
		t.Fatalf("zero-delay event must never enter the queue")
	}
}

func TestAdvanceFiresInOrder(t *testing.T) {
	var s Scheduler
	var order []int
	s.AddEvent("a", func(arg int) { order = append(order, arg) }, 10, 1)
	s.AddEvent("b", func(arg int) { order = append(order, arg) }, 5, 2)
	s.AddEvent("c", func(arg int) { order = append(order, arg) }, 20, 3)

	s.Advance(5)
	if len(order) != 1 || order[0] != 2 {
		t.Fatalf("after advance(5) = %v, want [2]", order)
	}
	s.Advance(5)
	if len(order) != 2 || order[1] != 1 {
		t.Fatalf("after advance(5) again = %v, want [2 1]", order)
	}
	s.Advance(10)
	if len(order) != 3 || order[2] != 3 {
		t.Fatalf("after advance(10) = %v, want [2 1 3]", order)
	}
}

func TestCancelEventRemovesIt(t *testing.T) {
	var s Scheduler
	var fired []int
	s.AddEvent("a", func(arg int) { fired = append(fired, arg) }, 5, 1)
	s.AddEvent("b", func(arg int) { fired = append(fired, arg) }, 10, 2)

	s.CancelEvent("a", 1)
	s.Advance(10)

	if len(fired) != 1 || fired[0] != 2 {
		t.Fatalf("fired = %v, want only [2]", fired)
	}
}

func TestCancelEventPreservesLaterTiming(t *testing.T) {
	var s Scheduler
	var order []int
	s.AddEvent("a", func(arg int) { order = append(order, arg) }, 5, 1)
	s.AddEvent("b", func(arg int) { order = append(order, arg) }, 15, 2)

	s.CancelEvent("a", 1)

	s.Advance(14)
	if len(order) != 0 {
		t.Fatalf("order after advance(14) = %v, want none yet", order)
	}
	s.Advance(1)
	if len(order) != 1 || order[0] != 2 {
		t.Fatalf("order after advance(15 total) = %v, want [2]", order)
	}
}

func TestAdvanceOnEmptySchedulerIsNoop(t *testing.T) {
	var s Scheduler
	s.Advance(100) // must not panic
}
