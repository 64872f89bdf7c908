package storage

import "sync"

// Memory implements Provider entirely in process. It backs tests and
// ephemeral runs where nothing should touch disk.
type Memory struct {
	mu   sync.Mutex
	data []byte
	ok   bool
}

// NewMemory creates an empty in-memory provider.
func NewMemory() *Memory {
	return &Memory{}
}

// Load returns the last saved blob, if any.
func (m *Memory) Load() ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.ok {
		return nil, false, nil
	}
	out := make([]byte, len(m.data))
	copy(out, m.data)
	return out, true, nil
}

// Save replaces the stored blob.
func (m *Memory) Save(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make([]byte, len(data))
	copy(m.data, data)
	m.ok = true
	return nil
}

// Location identifies the provider in logs.
func (m *Memory) Location() string { return "memory" }

// Close is a no-op for the memory provider.
func (m *Memory) Close() error { return nil }
