package gateway

import (
	"context"
	"errors"
	"sync"
)

// Mock records requests and completes them when the test says so
type Mock struct {
	mu       sync.Mutex
	requests []Request
	pending  []Callbacks
	// Err, when set, is returned synchronously from UpdateAccount
	Err error
}

func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) UpdateAccount(ctx context.Context, req Request, cb Callbacks) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}
	m.requests = append(m.requests, req)
	m.pending = append(m.pending, cb)
	return nil
}

// Requests returns every request received so far
func (m *Mock) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// Last returns the most recent request
func (m *Mock) Last() (Request, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return Request{}, false
	}
	return m.requests[len(m.requests)-1], true
}

// Pending returns how many requests await completion
func (m *Mock) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// Succeed completes the oldest pending request successfully
func (m *Mock) Succeed() error {
	cb, err := m.pop()
	if err != nil {
		return err
	}
	cb.OnSuccess()
	return nil
}

// Fail completes the oldest pending request with err
func (m *Mock) Fail(err error) error {
	cb, popErr := m.pop()
	if popErr != nil {
		return popErr
	}
	cb.OnError(err)
	return nil
}

func (m *Mock) pop() (Callbacks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.pending) == 0 {
		return Callbacks{}, errors.New("no pending request")
	}
	cb := m.pending[0]
	m.pending = m.pending[1:]
	return cb, nil
}

var _ Gateway = (*Mock)(nil)
