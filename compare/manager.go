/*
Package compare holds side-by-side mortgage scenarios.

PURPOSE:
  A small keyed collection of computed scenarios for comparison views.
  Adding a scenario runs the amortization engine immediately so every
  entry always carries its results; listing preserves insertion order so
  the comparison columns never reshuffle.

KEY CONCEPTS:
  - Scenario: A label, the input terms, and the computed results
  - Manager: Mutex-guarded map plus insertion-order slice

SEE ALSO:
  - loan/engine.go: The engine every Add runs through
*/
package compare

import (
	"sync"
	"time"

	"github.com/warp/mortgage-engine/loan"
)

// Scenario is one labelled loan under comparison.
type Scenario struct {
	ID      string
	Label   string
	Terms   loan.Terms
	Results *loan.Results
}

// Manager is a keyed scenario collection safe for concurrent use.
// Listing returns scenarios in the order they were added.
type Manager struct {
	mu        sync.RWMutex
	engine    loan.Engine
	scenarios map[string]*Scenario
	order     []string
	start     time.Time
}

// NewManager builds an empty manager. All scenarios amortize from the
// same start date so their schedules line up period for period.
func NewManager(start time.Time) *Manager {
	return &Manager{
		scenarios: make(map[string]*Scenario),
		start:     start,
	}
}

// Add computes the terms and stores the scenario under id. Re-adding an
// existing id replaces its terms and results but keeps its original
// position.
func (m *Manager) Add(id, label string, terms loan.Terms) (*Scenario, error) {
	results, err := m.engine.Calculate(terms, m.start)
	if err != nil {
		return nil, err
	}

	scenario := &Scenario{ID: id, Label: label, Terms: terms, Results: results}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.scenarios[id]; !exists {
		m.order = append(m.order, id)
	}
	m.scenarios[id] = scenario
	return scenario, nil
}

// Get returns the scenario under id, or false.
func (m *Manager) Get(id string) (*Scenario, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.scenarios[id]
	return s, ok
}

// Remove deletes the scenario under id and reports whether it existed.
func (m *Manager) Remove(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.scenarios[id]; !ok {
		return false
	}
	delete(m.scenarios, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return true
}

// List returns all scenarios in insertion order.
func (m *Manager) List() []*Scenario {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Scenario, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.scenarios[id])
	}
	return out
}

// Clear removes every scenario.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scenarios = make(map[string]*Scenario)
	m.order = nil
}

// Len reports the number of scenarios held.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.order)
}
