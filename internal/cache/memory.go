package cache

// MemoryStore is an in-memory Store used in tests and dry runs. Nothing
// survives the process.
type MemoryStore struct {
	entries map[string]string
	synced  map[string]bool
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]string),
		synced:  make(map[string]bool),
	}
}

func (m *MemoryStore) Get(key string) (string, bool, error) {
	v, ok := m.entries[key]
	return v, ok, nil
}

func (m *MemoryStore) Put(key, value string) error {
	m.entries[key] = value
	return nil
}

func (m *MemoryStore) Seen(assignmentID string) (bool, error) {
	return m.synced[assignmentID], nil
}

func (m *MemoryStore) MarkSeen(assignmentID string) error {
	m.synced[assignmentID] = true
	return nil
}

func (m *MemoryStore) Close() error { return nil }
