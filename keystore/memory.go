package keystore

import (
	"sync"

	"github.com/mezonai/xoledger/signing"
)

// MemoryStore keeps records in process memory. Used for tests and
// throwaway sessions.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string][]byte
	closed  bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string][]byte)}
}

func (m *MemoryStore) Load(name string) (signing.PrivateKey, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}
	record, ok := m.records[name]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return decodeRecord(record)
}

func (m *MemoryStore) Save(name string, key signing.PrivateKey) error {
	if err := validateName(name); err != nil {
		return err
	}
	record, err := encodeRecord(key)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	if old, ok := m.records[name]; ok {
		clear(old)
	}
	m.records[name] = record
	return nil
}

func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for name, record := range m.records {
		clear(record)
		delete(m.records, name)
	}
	m.closed = true
	return nil
}
