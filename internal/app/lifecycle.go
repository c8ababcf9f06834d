package app

import (
	"errors"
	"sync"
)

// ErrBusy is returned when a submission arrives while another request is
// still in flight. The caller must treat it as "not submitted" and must not
// queue or retry the action itself.
var ErrBusy = errors.New("another request is in flight")

type RequestState int

const (
	StateIdle RequestState = iota
	StateBusy
)

func (s RequestState) String() string {
	if s == StateBusy {
		return "busy"
	}
	return "idle"
}

// RequestLifecycle owns the single busy flag that serializes all outbound
// activity: uploads and queries share it, so no two network calls from one
// session ever overlap. UI code observes the state but never sets it
// directly.
type RequestLifecycle struct {
	mu    sync.Mutex
	state RequestState
}

func NewRequestLifecycle() *RequestLifecycle {
	return &RequestLifecycle{state: StateIdle}
}

// Begin claims the in-flight slot. It fails with ErrBusy if a request is
// already pending, even under rapid repeated submissions.
func (rl *RequestLifecycle) Begin() error {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	if rl.state == StateBusy {
		return ErrBusy
	}
	rl.state = StateBusy
	return nil
}

// Resolve returns the lifecycle to idle after a request finishes, whether it
// succeeded or failed.
func (rl *RequestLifecycle) Resolve() {
	rl.mu.Lock()
	rl.state = StateIdle
	rl.mu.Unlock()
}

func (rl *RequestLifecycle) Busy() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return rl.state == StateBusy
}

func (rl *RequestLifecycle) State() RequestState {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return rl.state
}
