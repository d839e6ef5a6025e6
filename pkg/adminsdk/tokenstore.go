package adminsdk

import "sync"

// TokenStore persists the session credentials between runs. Save must be
// atomic from the caller's perspective: a concurrent Load never observes a
// token pair without its identity or vice versa. A Load that cannot parse a
// stored identity reports it as absent rather than failing; the session then
// simply starts unauthenticated.
type TokenStore interface {
	Save(pair TokenPair, identity Identity) error
	Load() (*TokenPair, *Identity, error)
	Clear() error
}

// MemoryStore is an in-process TokenStore. It backs ephemeral sessions and
// stands in for the durable store in tests.
type MemoryStore struct {
	mu       sync.Mutex
	pair     *TokenPair
	identity *Identity
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (m *MemoryStore) Save(pair TokenPair, identity Identity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, id := pair, identity
	m.pair, m.identity = &p, &id
	return nil
}

func (m *MemoryStore) Load() (*TokenPair, *Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pair == nil || m.identity == nil {
		return nil, nil, nil
	}
	p, id := *m.pair, *m.identity
	return &p, &id, nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pair, m.identity = nil, nil
	return nil
}
