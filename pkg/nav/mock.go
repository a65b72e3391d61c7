package nav

import (
	"context"
	"fmt"
	"sync"
)

// Mock is an in-memory Navigator for tests. Goals are recorded in order;
// completion is either immediate (AutoComplete) or driven by the test via
// Complete.
type Mock struct {
	mu      sync.Mutex
	sent    []Goal
	cancels int
	auto    bool
	waiting []chan Outcome
	nextID  int
}

var _ Navigator = (*Mock)(nil)

// NewMock creates a mock whose goals complete only when Complete is called.
func NewMock() *Mock {
	return &Mock{}
}

// NewAutoMock creates a mock whose goals report success immediately.
func NewAutoMock() *Mock {
	return &Mock{auto: true}
}

// SendGoal records the goal and returns a handle.
func (m *Mock) SendGoal(_ context.Context, goal Goal) (Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if goal.ID == "" {
		m.nextID++
		goal.ID = fmt.Sprintf("goal-%d", m.nextID)
	}
	m.sent = append(m.sent, goal)

	ch := make(chan Outcome, 1)
	if m.auto {
		ch <- Outcome{GoalID: goal.ID, State: StateSucceeded}
	} else {
		m.waiting = append(m.waiting, ch)
	}
	return &mockHandle{outcome: ch}, nil
}

// CancelAll records the cancellation request.
func (m *Mock) CancelAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancels++
}

// Complete releases the oldest in-flight goal with the given state.
// Returns false if no goal is waiting.
func (m *Mock) Complete(state State) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.waiting) == 0 {
		return false
	}
	ch := m.waiting[0]
	m.waiting = m.waiting[1:]
	ch <- Outcome{State: state}
	return true
}

// Sent returns a copy of all goals received so far, in dispatch order.
func (m *Mock) Sent() []Goal {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Goal, len(m.sent))
	copy(out, m.sent)
	return out
}

// SentCount returns the number of goals received.
func (m *Mock) SentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

// InFlight returns the number of goals awaiting completion.
func (m *Mock) InFlight() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.waiting)
}

// CancelCount returns how many times CancelAll was called.
func (m *Mock) CancelCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cancels
}

type mockHandle struct {
	outcome chan Outcome
}

func (h *mockHandle) Wait(ctx context.Context) (Outcome, error) {
	select {
	case out := <-h.outcome:
		return out, nil
	case <-ctx.Done():
		return Outcome{}, ctx.Err()
	}
}
