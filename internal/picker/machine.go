// Package picker unifies divergent native date/time picker capabilities
// behind a single resolved-timestamp state machine. Combined-capability
// platforms resolve in one confirmation; sequential platforms confirm a
// date, then a time, with a short delay before the second picker reopens
// so the first can fully dismiss.
package picker

import (
	"errors"
	"sync"
	"time"
)

// State identifies the machine's current position.
type State int

const (
	StateClosed State = iota
	StatePickingDate
	StatePickingTime
	StatePickingDateTime
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StatePickingDate:
		return "picking_date"
	case StatePickingTime:
		return "picking_time"
	case StatePickingDateTime:
		return "picking_datetime"
	default:
		return "unknown"
	}
}

// Capability describes what the underlying platform picker can do.
type Capability int

const (
	// Sequential platforms expose single-mode pickers: date first, then time.
	Sequential Capability = iota
	// Combined platforms expose one picker resolving date and time together.
	Combined
)

var (
	ErrNotOpen           = errors.New("picker is not open")
	ErrInvalidTransition = errors.New("invalid picker transition")
	ErrBeforeMinimum     = errors.New("selection is before the minimum bound")
)

// Config wires a machine instance. Two flows on one screen (create and
// edit) must each own their own Machine.
type Config struct {
	Capability  Capability
	ReopenDelay time.Duration
	// Clock supplies "now" for the selectable lower bound; defaults to
	// time.Now.
	Clock func() time.Time
	// OnResolve receives the final merged timestamp.
	OnResolve func(time.Time)
	// OnReopen fires after ReopenDelay when the sequential flow advances
	// from date to time, signalling the second picker should open.
	OnReopen func()
}

// Machine is the date/time selection controller.
type Machine struct {
	mu sync.Mutex

	capability  Capability
	reopenDelay time.Duration
	clock       func() time.Time
	onResolve   func(time.Time)
	onReopen    func()

	state       State
	minBound    time.Time
	pendingDate time.Time
	reopenTimer *time.Timer

	resolved    time.Time
	hasResolved bool
}

// NewMachine constructs a machine in the Closed state.
func NewMachine(cfg Config) *Machine {
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.ReopenDelay <= 0 {
		cfg.ReopenDelay = 100 * time.Millisecond
	}
	return &Machine{
		capability:  cfg.Capability,
		reopenDelay: cfg.ReopenDelay,
		clock:       cfg.Clock,
		onResolve:   cfg.OnResolve,
		onReopen:    cfg.OnReopen,
	}
}

// State returns the current state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// MinBound is the earliest selectable moment, fixed when the picker opened.
func (m *Machine) MinBound() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.minBound
}

// Resolved returns the last emitted timestamp, if any.
func (m *Machine) Resolved() (time.Time, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resolved, m.hasResolved
}

// Open starts a selection. The lower bound is the current moment at open
// time, so a completed selection can never land in the past.
func (m *Machine) Open() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateClosed {
		return ErrInvalidTransition
	}
	m.minBound = m.clock()
	if m.capability == Combined {
		m.state = StatePickingDateTime
	} else {
		m.state = StatePickingDate
	}
	return nil
}

// ConfirmDate advances the sequential flow, holding the chosen date and
// scheduling the time picker to reopen. No value is emitted yet.
func (m *Machine) ConfirmDate(date time.Time) error {
	m.mu.Lock()
	if m.state != StatePickingDate {
		m.mu.Unlock()
		return m.wrongState()
	}
	if beforeDay(date, m.minBound) {
		m.mu.Unlock()
		return ErrBeforeMinimum
	}
	m.pendingDate = date
	m.state = StatePickingTime
	reopen := m.onReopen
	delay := m.reopenDelay
	if reopen != nil {
		m.reopenTimer = time.AfterFunc(delay, reopen)
	}
	m.mu.Unlock()
	return nil
}

// ConfirmTime merges the pending date with the chosen time-of-day, emits
// the result and closes the machine.
func (m *Machine) ConfirmTime(timeOfDay time.Time) error {
	m.mu.Lock()
	if m.state != StatePickingTime {
		m.mu.Unlock()
		return m.wrongState()
	}
	merged := time.Date(
		m.pendingDate.Year(), m.pendingDate.Month(), m.pendingDate.Day(),
		timeOfDay.Hour(), timeOfDay.Minute(), 0, 0,
		m.pendingDate.Location(),
	)
	if merged.Before(m.minBound) {
		m.mu.Unlock()
		return ErrBeforeMinimum
	}
	m.emitLocked(merged)
	m.mu.Unlock()
	return nil
}

// ConfirmDateTime resolves the combined flow in one step.
func (m *Machine) ConfirmDateTime(value time.Time) error {
	m.mu.Lock()
	if m.state != StatePickingDateTime {
		m.mu.Unlock()
		return m.wrongState()
	}
	if value.Before(m.minBound) {
		m.mu.Unlock()
		return ErrBeforeMinimum
	}
	m.emitLocked(value)
	m.mu.Unlock()
	return nil
}

// Dismiss aborts the selection at any point. A previously resolved value
// stays untouched.
func (m *Machine) Dismiss() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.reopenTimer != nil {
		m.reopenTimer.Stop()
		m.reopenTimer = nil
	}
	m.pendingDate = time.Time{}
	m.state = StateClosed
}

// emitLocked records and publishes the resolved timestamp. Callers hold
// the mutex; the callback runs after state is settled.
func (m *Machine) emitLocked(value time.Time) {
	m.resolved = value
	m.hasResolved = true
	m.pendingDate = time.Time{}
	m.state = StateClosed
	if m.onResolve != nil {
		cb := m.onResolve
		m.mu.Unlock()
		cb(value)
		m.mu.Lock()
	}
}

func (m *Machine) wrongState() error {
	if m.state == StateClosed {
		return ErrNotOpen
	}
	return ErrInvalidTransition
}

// beforeDay compares calendar days, ignoring time-of-day: picking today is
// always allowed, the time step enforces the exact bound.
func beforeDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	if ay != by {
		return ay < by
	}
	if am != bm {
		return am < bm
	}
	return ad < bd
}
