// Package sched runs delayed narrative callbacks on a virtual clock.
//
// Multi-stage sequences (dial, download progress, mail tossing, traceroute)
// schedule continuations here instead of sleeping. Nothing fires until the
// owner advances the clock, so tests drive sequences deterministically and a
// UI can map real time onto Advance calls.
package sched

import "time"

// ID identifies a scheduled callback.
type ID uint64

type timer struct {
	id  ID
	due time.Duration
	fn  func()
}

// Scheduler holds pending callbacks. It is not safe for concurrent use.
type Scheduler struct {
	now     time.Duration
	nextID  ID
	pending []timer
}

// New creates an empty scheduler at virtual time zero.
func New() *Scheduler {
	return &Scheduler{}
}

// Now returns the current virtual time.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// After schedules fn to run once delay has elapsed.
func (s *Scheduler) After(delay time.Duration, fn func()) ID {
	if delay < 0 {
		delay = 0
	}
	s.nextID++
	s.pending = append(s.pending, timer{id: s.nextID, due: s.now + delay, fn: fn})
	return s.nextID
}

// Cancel removes a pending callback. It reports whether it was pending.
func (s *Scheduler) Cancel(id ID) bool {
	for i, t := range s.pending {
		if t.id == id {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			return true
		}
	}
	return false
}

// Pending returns the number of callbacks waiting to fire.
func (s *Scheduler) Pending() int {
	return len(s.pending)
}

// NextDue returns the delay until the earliest pending callback.
func (s *Scheduler) NextDue() (time.Duration, bool) {
	if len(s.pending) == 0 {
		return 0, false
	}
	first := s.pending[0].due
	for _, t := range s.pending[1:] {
		if t.due < first {
			first = t.due
		}
	}
	return first - s.now, true
}

// Advance moves the clock forward by d and fires every callback that falls
// due, earliest first, ties in scheduling order. Callbacks scheduled while
// advancing fire in the same call if they fall inside the window.
func (s *Scheduler) Advance(d time.Duration) int {
	if d < 0 {
		d = 0
	}
	target := s.now + d
	fired := 0
	for {
		i, ok := s.earliest(target)
		if !ok {
			break
		}
		t := s.pending[i]
		s.pending = append(s.pending[:i], s.pending[i+1:]...)
		if t.due > s.now {
			s.now = t.due
		}
		t.fn()
		fired++
	}
	s.now = target
	return fired
}

// Drain fires every pending callback, including ones scheduled by the
// callbacks themselves, and leaves the clock at the last due time.
func (s *Scheduler) Drain() int {
	fired := 0
	for len(s.pending) > 0 {
		d, _ := s.NextDue()
		fired += s.Advance(d)
	}
	return fired
}

// Reset drops every pending callback and rewinds the clock.
func (s *Scheduler) Reset() {
	s.pending = nil
	s.now = 0
}

// earliest finds the first pending timer due at or before limit.
func (s *Scheduler) earliest(limit time.Duration) (int, bool) {
	idx := -1
	for i, t := range s.pending {
		if t.due > limit {
			continue
		}
		if idx < 0 || t.due < s.pending[idx].due ||
			(t.due == s.pending[idx].due && t.id < s.pending[idx].id) {
			idx = i
		}
	}
	return idx, idx >= 0
}

// Sequence runs steps one after another, each delay after the previous.
// It returns the id of the first scheduled step.
func (s *Scheduler) Sequence(delay time.Duration, steps ...func()) ID {
	if len(steps) == 0 {
		return 0
	}
	return s.After(delay, func() {
		steps[0]()
		if len(steps) > 1 {
			s.Sequence(delay, steps[1:]...)
		}
	})
}
