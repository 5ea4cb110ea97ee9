package config

import "sync"

// KV is the byte-oriented persistent store the record lives in. GetBytes
// returns nil, nil for a key that has never been written.
type KV interface {
	GetBytes(key string) ([]byte, error)
	PutBytes(key string, data []byte) error
}

// MemoryKV keeps records in process memory.
type MemoryKV struct {
	mu     sync.Mutex
	values map[string][]byte
	puts   int
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: make(map[string][]byte)}
}

func (m *MemoryKV) GetBytes(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryKV) PutBytes(key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = append([]byte(nil), data...)
	m.puts++
	return nil
}

// Puts reports how many writes the store has seen.
func (m *MemoryKV) Puts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.puts
}
