package session

import (
	"github.com/yndnr/securenotes-go/internal/core/domain"
)

// State is the derived session state.
type State int

const (
	StateAbsent State = iota
	StatePresent
)

func (s State) String() string {
	if s == StatePresent {
		return "present"
	}
	return "absent"
}

// Store is the credential store the manager reads from.
type Store interface {
	Get() (string, bool)
	Set(string)
	Clear()
}

// Manager derives session state from the token store on every call.
// It keeps no state of its own.
type Manager struct {
	store Store
}

// NewManager creates a session manager over store.
func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

// State returns the current session state.
func (m *Manager) State() State {
	if _, ok := m.store.Get(); ok {
		return StatePresent
	}
	return StateAbsent
}

// IsAuthenticated returns true when a credential is present.
func (m *Manager) IsAuthenticated() bool {
	return m.State() == StatePresent
}

// Establish stores credential as the current session.
func (m *Manager) Establish(credential string) error {
	if credential == "" {
		return domain.ErrCredentialEmpty
	}
	m.store.Set(credential)
	return nil
}

// End clears the session. Idempotent.
func (m *Manager) End() {
	m.store.Clear()
}
