package view

import "errors"

// State is the visibility of the detail view.
type State int

const (
	Summary State = iota
	Detail
)

func (s State) String() string {
	switch s {
	case Summary:
		return "summary"
	case Detail:
		return "detail"
	default:
		return "unknown"
	}
}

// Effect reacts to a state being entered. The returned release func, if
// non-nil, is called exactly once when that state is left or the machine
// is closed.
type Effect func() (release func())

// ErrClosed is returned by transitions attempted after Close.
var ErrClosed = errors.New("view: machine closed")

// Machine is the Summary/Detail state machine. Effects are registered per
// target state and run once per transition into it; their releases are
// owned by the machine, so no caller has to pair acquire and release.
//
// Machine is driven from a single UI goroutine and is not safe for
// concurrent use. Transitions may be triggered from inside an effect's
// callback (an outside click exiting Detail, for instance).
type Machine struct {
	state    State
	effects  map[State][]Effect
	releases []func()
	closed   bool

	observers []func(from, to State)
}

// NewMachine returns a machine in the Summary state.
func NewMachine() *Machine {
	return &Machine{
		state:   Summary,
		effects: make(map[State][]Effect),
	}
}

// On registers e to run each time the machine enters s. Effects run in
// registration order.
func (m *Machine) On(s State, e Effect) {
	m.effects[s] = append(m.effects[s], e)
}

// Observe registers fn to be called after every completed transition.
func (m *Machine) Observe(fn func(from, to State)) {
	m.observers = append(m.observers, fn)
}

func (m *Machine) State() State { return m.state }

func (m *Machine) Closed() bool { return m.closed }

// Transition moves the machine to s. It reports whether the state
// changed; moving to the current state is a no-op.
func (m *Machine) Transition(s State) (bool, error) {
	if m.closed {
		return false, ErrClosed
	}
	if s == m.state {
		return false, nil
	}

	from := m.state
	m.release()
	m.state = s

	for _, e := range m.effects[s] {
		// An effect may already have moved us on (or closed us).
		if m.closed || m.state != s {
			break
		}
		if rel := e(); rel != nil {
			if m.closed || m.state != s {
				rel()
				break
			}
			m.releases = append(m.releases, rel)
		}
	}

	for _, fn := range m.observers {
		fn(from, s)
	}
	return true, nil
}

// Close releases every resource held for the current state. Further
// transitions fail with ErrClosed. Close is idempotent.
func (m *Machine) Close() {
	if m.closed {
		return
	}
	m.closed = true
	m.release()
}

// release runs held releases in reverse acquisition order.
func (m *Machine) release() {
	rels := m.releases
	m.releases = nil
	for i := len(rels) - 1; i >= 0; i-- {
		rels[i]()
	}
}
