/*
 * Eres OS - Relative-delay event scheduler.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package event is a relative-delay callback queue: a doubly-linked
// list of events whose times are stored as deltas from the previous
// entry, so advancing the clock only ever touches the head. No other
// package in this module arms or advances a Scheduler.
package event

// Callback is invoked with the argument it was armed with, when its
// event's delay reaches zero.
type Callback func(arg int)

type entry struct {
	delay int
	owner any
	cb    Callback
	arg   int
	prev  *entry
	next  *entry
}

// Scheduler is a single relative-delay event queue. The zero value is
// ready to use. Not safe for concurrent use; this kernel only ever
// advances a Scheduler from mainline code.
type Scheduler struct {
	head *entry
	tail *entry
}

// AddEvent arms cb to fire after delay ticks, tagged with owner (used by
// CancelEvent to find it again) and arg (passed back to cb). A delay of
// 0 invokes cb immediately and returns without touching the queue.
func (s *Scheduler) AddEvent(owner any, cb Callback, delay int, arg int) {
	if delay <= 0 {
		cb(arg)
		return
	}

	ev := &entry{owner: owner, cb: cb, delay: delay, arg: arg}

	cur := s.head
	if cur == nil {
		s.head = ev
		s.tail = ev
		return
	}

	for cur != nil {
		if ev.delay <= cur.delay {
			cur.delay -= ev.delay
			ev.prev = cur.prev
			ev.next = cur
			cur.prev = ev
			if ev.prev != nil {
				ev.prev.next = ev
			} else {
				s.head = ev
			}
			return
		}
		ev.delay -= cur.delay
		cur = cur.next
	}

	ev.prev = s.tail
	s.tail.next = ev
	s.tail = ev
}

// CancelEvent removes the first queued event matching owner and arg, if
// any, folding its remaining delay into the following event so the
// total elapsed time to every later event is unaffected.
func (s *Scheduler) CancelEvent(owner any, arg int) {
	for cur := s.head; cur != nil; cur = cur.next {
		if cur.owner != owner || cur.arg != arg {
			continue
		}
		if cur.next != nil {
			cur.next.delay += cur.delay
			cur.next.prev = cur.prev
		} else {
			s.tail = cur.prev
		}
		if cur.prev != nil {
			cur.prev.next = cur.next
		} else {
			s.head = cur.next
		}
		return
	}
}

// Advance moves the clock forward by t ticks, firing every event whose
// cumulative delay reaches zero, in order. A callback that wants to
// repeat must re-arm itself via AddEvent.
func (s *Scheduler) Advance(t int) {
	if s.head == nil {
		return
	}
	s.head.delay -= t
	for s.head != nil && s.head.delay <= 0 {
		fired := s.head
		s.head = fired.next
		if s.head != nil {
			s.head.prev = nil
			s.head.delay += fired.delay
		} else {
			s.tail = nil
		}
		fired.cb(fired.arg)
	}
}
