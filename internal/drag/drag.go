// Package drag tracks a single pointer drag at a time and routes raw
// pointer motion to the callbacks that started it.
package drag

import "time"

// Pointer is a raw pointer event in client coordinates.
type Pointer struct {
	ClientX float64   `json:"clientX"`
	ClientY float64   `json:"clientY"`
	Shift   bool      `json:"shift"`
	Time    time.Time `json:"time"`
}

// Func receives pointer events during a drag.
type Func func(ev Pointer)

// Session is one active drag. It owns its callbacks.
type Session struct {
	Start  Pointer
	onMove Func
	onEnd  Func
}

// Tracker holds at most one active session.
type Tracker struct {
	active *Session
}

// Begin starts a drag. It returns false, and changes nothing, when a
// drag is already running.
func (t *Tracker) Begin(ev Pointer, onMove, onEnd Func) bool {
	if t.active != nil {
		return false
	}
	t.active = &Session{Start: ev, onMove: onMove, onEnd: onEnd}
	return true
}

// Dragging reports whether a session is active.
func (t *Tracker) Dragging() bool {
	return t.active != nil
}

// Current returns the active session, or nil.
func (t *Tracker) Current() *Session {
	return t.active
}

// Move forwards pointer motion to the active session.
func (t *Tracker) Move(ev Pointer) {
	if s := t.active; s != nil && s.onMove != nil {
		s.onMove(ev)
	}
}

// Release forwards a pointer-up to the active session and ends it.
func (t *Tracker) Release(ev Pointer) {
	s := t.active
	if s == nil {
		return
	}
	if s.onEnd != nil {
		s.onEnd(ev)
	}
	if t.active == s {
		t.active = nil
	}
}

// End stops the active session without notifying it. Calling End with
// no active session does nothing.
func (t *Tracker) End() {
	t.active = nil
}
