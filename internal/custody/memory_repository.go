package custody

import (
	"context"
	"sync"
)

type memoryRepository struct {
	mu      sync.RWMutex
	storage map[string]WalletRecord
}

// NewMemoryRepository constructs an in-memory repository for tests and
// development mode.
func NewMemoryRepository() Repository {
	return &memoryRepository{storage: make(map[string]WalletRecord)}
}

func (r *memoryRepository) Create(_ context.Context, rec WalletRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.storage[rec.OwnerIdentity]; exists {
		return ErrAlreadyProvisioned
	}
	r.storage[rec.OwnerIdentity] = rec
	return nil
}

func (r *memoryRepository) Get(_ context.Context, identity string) (WalletRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.storage[identity]
	if !ok {
		return WalletRecord{}, ErrNotProvisioned
	}
	return rec, nil
}

func (r *memoryRepository) Exists(_ context.Context, identity string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.storage[identity]
	return ok, nil
}
