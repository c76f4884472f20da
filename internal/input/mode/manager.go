package mode

import (
	"fmt"
	"sync"
)

// ModeChangeCallback observes a completed mode transition.
type ModeChangeCallback func(from, to Mode)

// Manager owns the registered modes and drives transitions between
// them. Every switch runs the old mode's Exit and the new mode's Enter;
// Push/Pop layer a temporary mode (operator-pending, a prompt) over the
// current one and restore it afterwards. Callbacks fire after the
// transition commits, outside the lock, so a callback may itself
// inspect or switch modes.
type Manager struct {
	mu sync.RWMutex

	modes     map[string]Mode
	current   Mode
	previous  Mode
	stack     []Mode
	callbacks []ModeChangeCallback
	context   *Context
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{
		modes:   make(map[string]Mode),
		context: NewContext(),
	}
}

// Register adds (or replaces) a mode under its own name.
func (m *Manager) Register(mode Mode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.modes[mode.Name()] = mode
}

// Unregister removes a mode; the current mode cannot be removed.
func (m *Manager) Unregister(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current != nil && m.current.Name() == name {
		return fmt.Errorf("cannot unregister current mode: %s", name)
	}
	delete(m.modes, name)
	return nil
}

// Get returns a registered mode, nil when absent.
func (m *Manager) Get(name string) Mode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.modes[name]
}

// Current returns the active mode, nil before initialization.
func (m *Manager) Current() Mode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// CurrentName returns the active mode's name, "" before initialization.
func (m *Manager) CurrentName() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return ""
	}
	return m.current.Name()
}

// Previous returns the mode active before the last transition.
func (m *Manager) Previous() Mode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.previous
}

// IsMode reports whether the named mode is active.
func (m *Manager) IsMode(name string) bool {
	return m.CurrentName() == name
}

// IsAnyMode reports whether any of the named modes is active.
func (m *Manager) IsAnyMode(names ...string) bool {
	current := m.CurrentName()
	if current == "" {
		return false
	}
	for _, name := range names {
		if current == name {
			return true
		}
	}
	return false
}

// Modes lists the registered mode names.
func (m *Manager) Modes() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.modes))
	for name := range m.modes {
		names = append(names, name)
	}
	return names
}

// StackDepth returns how many modes are pushed.
func (m *Manager) StackDepth() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.stack)
}

// Switch transitions to the named mode.
func (m *Manager) Switch(name string) error {
	return m.SwitchWithContext(name, nil)
}

// SwitchWithContext transitions with caller-supplied transition context.
func (m *Manager) SwitchWithContext(name string, ctx *Context) error {
	return m.transitionByName(name, ctx, false)
}

// Push layers the named mode over the current one; Pop restores it.
func (m *Manager) Push(name string) error {
	return m.PushWithContext(name, nil)
}

// PushWithContext pushes with caller-supplied transition context.
func (m *Manager) PushWithContext(name string, ctx *Context) error {
	return m.transitionByName(name, ctx, true)
}

// Pop restores the most recently pushed mode.
func (m *Manager) Pop() error {
	return m.PopWithContext(nil)
}

// PopWithContext pops with caller-supplied transition context.
func (m *Manager) PopWithContext(ctx *Context) error {
	m.mu.Lock()
	if len(m.stack) == 0 {
		m.mu.Unlock()
		return fmt.Errorf("mode stack is empty")
	}
	target := m.stack[len(m.stack)-1]
	m.stack = m.stack[:len(m.stack)-1]

	from, callbacks, err := m.commitLocked(target, ctx)
	m.mu.Unlock()
	if err != nil {
		return err
	}
	notify(callbacks, from, target)
	return nil
}

// transitionByName resolves the target, optionally saving the current
// mode on the stack, and commits the transition.
func (m *Manager) transitionByName(name string, ctx *Context, push bool) error {
	m.mu.Lock()
	target, ok := m.modes[name]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("unknown mode: %s", name)
	}
	if push && m.current != nil {
		m.stack = append(m.stack, m.current)
	}

	from, callbacks, err := m.commitLocked(target, ctx)
	m.mu.Unlock()
	if err != nil {
		return err
	}
	notify(callbacks, from, target)
	return nil
}

// commitLocked runs Exit on the old mode and Enter on the new one.
// Callers hold the lock; the returned callbacks run after release.
func (m *Manager) commitLocked(target Mode, ctx *Context) (Mode, []ModeChangeCallback, error) {
	if ctx == nil {
		ctx = m.context
	}
	from := m.current

	if from != nil {
		ctx.NextMode = target.Name()
		if err := from.Exit(ctx); err != nil {
			return nil, nil, fmt.Errorf("exit %s: %w", from.Name(), err)
		}
		ctx.PreviousMode = from.Name()
	} else {
		ctx.PreviousMode = ""
	}
	ctx.NextMode = ""

	if err := target.Enter(ctx); err != nil {
		return nil, nil, fmt.Errorf("enter %s: %w", target.Name(), err)
	}

	m.previous = from
	m.current = target
	return from, append([]ModeChangeCallback(nil), m.callbacks...), nil
}

func notify(callbacks []ModeChangeCallback, from, to Mode) {
	for _, cb := range callbacks {
		if cb != nil {
			cb(from, to)
		}
	}
}

// OnChange registers a transition observer and returns its unregister
// function.
func (m *Manager) OnChange(callback ModeChangeCallback) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callbacks = append(m.callbacks, callback)
	index := len(m.callbacks) - 1

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if index < len(m.callbacks) {
			m.callbacks[index] = nil
		}
	}
}

// SetInitialMode activates the named mode without exiting anything;
// called once at startup.
func (m *Manager) SetInitialMode(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	mode, ok := m.modes[name]
	if !ok {
		return fmt.Errorf("unknown mode: %s", name)
	}
	m.current = mode
	m.context.PreviousMode = ""
	return mode.Enter(m.context)
}
