package users

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
)

// MemStorage is a transient in-memory Storage intended for tests. Keys are
// kept sorted so Scan behaves like the on-disk backends.
type MemStorage struct {
	mu     sync.RWMutex
	items  []memKV // sorted by key
	closed bool
}

type memKV struct {
	key   []byte
	value []byte
}

func NewMemStorage() *MemStorage {
	return &MemStorage{}
}

func (s *MemStorage) Get(ctx context.Context, key []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, errStorageClosed
	}
	i, ok := s.find(s.items, key)
	if !ok {
		return nil, ErrKeyNotFound
	}
	return slices.Clone(s.items[i].value), nil
}

func (s *MemStorage) Put(ctx context.Context, key, value []byte) error {
	return s.Batch(ctx, []Op{putOp(key, value)})
}

// Batch applies ops to a copy of the key list and swaps it in only if every
// op succeeded.
func (s *MemStorage) Batch(ctx context.Context, ops []Op) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errStorageClosed
	}

	items := slices.Clone(s.items)
	for _, op := range ops {
		i, ok := s.find(items, op.Key)
		switch op.Type {
		case OpPut, OpInsert:
			if ok {
				if op.Type == OpInsert {
					return ErrKeyExists
				}
				items[i].value = slices.Clone(op.Value)
			} else {
				items = slices.Insert(items, i, memKV{key: slices.Clone(op.Key), value: slices.Clone(op.Value)})
			}
		case OpDelete:
			if ok {
				items = slices.Delete(items, i, i+1)
			}
		default:
			return fmt.Errorf("unsupported batch op %v", op.Type)
		}
	}
	s.items = items
	return nil
}

func (s *MemStorage) Scan(ctx context.Context, prefix []byte, f func(k, v []byte) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return errStorageClosed
	}
	// snapshot so that f may call back into the storage
	i, _ := s.find(s.items, prefix)
	var snap []memKV
	for ; i < len(s.items) && bytes.HasPrefix(s.items[i].key, prefix); i++ {
		snap = append(snap, s.items[i])
	}
	s.mu.RUnlock()

	for _, kv := range snap {
		if err := f(kv.key, kv.value); err != nil {
			return err
		}
	}
	return nil
}

func (s *MemStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.items = nil
	return nil
}

// Len returns the number of keys currently stored.
func (s *MemStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *MemStorage) find(items []memKV, key []byte) (idx int, ok bool) {
	i := sort.Search(len(items), func(i int) bool {
		return bytes.Compare(items[i].key, key) >= 0
	})
	if i < len(items) && bytes.Equal(items[i].key, key) {
		return i, true
	}
	return i, false
}
