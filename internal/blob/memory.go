package blob

import (
	"context"
	"sync"
	"time"
)

// Memory is an in-process Store. Used by tests and STORAGE_BACKEND=memory.
type Memory struct {
	mu      sync.RWMutex
	objects map[string]Object
	puts    int
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{objects: make(map[string]Object)}
}

func (m *Memory) Name() string { return "memory" }

func (m *Memory) Get(ctx context.Context, key string) (Object, error) {
	if err := ctx.Err(); err != nil {
		return Object{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	obj, ok := m.objects[key]
	if !ok {
		return Object{}, ErrNotFound
	}
	obj.Data = append([]byte(nil), obj.Data...)
	return obj, nil
}

func (m *Memory) Put(ctx context.Context, key string, obj Object) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	obj.Data = append([]byte(nil), obj.Data...)
	if obj.UpdatedAt.IsZero() {
		obj.UpdatedAt = time.Now()
	}
	m.objects[key] = obj
	m.puts++
	return nil
}

// Puts returns how many times Put succeeded.
func (m *Memory) Puts() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.puts
}
