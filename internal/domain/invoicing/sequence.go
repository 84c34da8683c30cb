package invoicing

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// DefaultStartNumber is handed out when the practice never configured a
// sequence pointer.
const DefaultStartNumber int64 = 10000

// SequenceStore reads and writes the persisted sequence pointer. The read
// must hold a lock on the pointer until the surrounding transaction ends.
type SequenceStore interface {
	GetSequenceForUpdate(ctx context.Context) (string, error)
	SetSequence(ctx context.Context, value string) error
}

// SequenceAllocator hands out invoice numbers. Numbers are unique, numeric
// strings; gaps are allowed, duplicates never.
type SequenceAllocator interface {
	NextNumber(ctx context.Context) (string, error)
}

type storeAllocator struct {
	store SequenceStore
}

// NewSequenceAllocator returns an allocator backed by the persisted pointer.
// It must run inside the transaction that persists the invoice, the row lock
// taken by the store is what serializes concurrent allocations.
func NewSequenceAllocator(store SequenceStore) SequenceAllocator {
	return &storeAllocator{store: store}
}

func (a *storeAllocator) NextNumber(ctx context.Context) (string, error) {
	raw, err := a.store.GetSequenceForUpdate(ctx)
	if err != nil {
		return "", err
	}

	current := DefaultStartNumber
	if trimmed := strings.TrimSpace(raw); trimmed != "" {
		parsed, err := strconv.ParseInt(trimmed, 10, 64)
		if err != nil {
			return "", fmt.Errorf("corrupt invoice sequence %q: %w", raw, err)
		}
		current = parsed
	}

	if err := a.store.SetSequence(ctx, strconv.FormatInt(current+1, 10)); err != nil {
		return "", err
	}
	return strconv.FormatInt(current, 10), nil
}

// MemorySequenceAllocator is an in-process allocator for tests.
type MemorySequenceAllocator struct {
	mu   sync.Mutex
	next int64
}

func NewMemorySequenceAllocator() *MemorySequenceAllocator {
	return &MemorySequenceAllocator{next: DefaultStartNumber}
}

func (a *MemorySequenceAllocator) NextNumber(ctx context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := a.next
	a.next++
	return strconv.FormatInt(n, 10), nil
}
