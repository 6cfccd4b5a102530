package backend

// Memory is an in-memory backend holding the last committed snapshot.
// It is intended for tests and for hosts without durable storage.
type Memory struct {
	data []byte
}

// NewMemory creates an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{}
}

// Commit keeps a copy of the snapshot.
func (m *Memory) Commit(data []byte) error {
	m.data = append(m.data[:0], data...)
	if m.data == nil {
		m.data = []byte{}
	}
	return nil
}

// Load returns a copy of the last committed snapshot.
func (m *Memory) Load() ([]byte, error) {
	if m.data == nil {
		return nil, ErrNotFound
	}
	out := make([]byte, len(m.data))
	copy(out, m.data)
	return out, nil
}
