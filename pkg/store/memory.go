package store

import "sync"

// Memory is an in-process store used by tests and the memory backend
type Memory struct {
	mu     sync.Mutex
	cells  map[string]string
	closed bool
}

// NewMemory creates an empty memory store
func NewMemory() *Memory {
	return &Memory{cells: make(map[string]string)}
}

func (m *Memory) LoadCell(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return "", false, ErrClosed
	}
	v, ok := m.cells[key]
	return v, ok, nil
}

func (m *Memory) SaveCell(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.cells[key] = value
	return nil
}

func (m *Memory) DeleteCell(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	delete(m.cells, key)
	return nil
}

func (m *Memory) Keys() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrClosed
	}
	return sortedKeys(m.cells), nil
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
