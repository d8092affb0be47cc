package storage

import (
	"context"
	"sync"
)

// Persisted keys. Values are plain strings; tasks and activeBoard hold JSON.
const (
	KeyTasks       = "tasks"
	KeyActiveBoard = "activeBoard"
	KeyShowSidebar = "showSideBar"
	KeyLightTheme  = "light-theme"
)

// KV is a string keyed store of string values.
type KV interface {
	// Get returns the value of key; ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Memory is an in-process KV.
type Memory struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemory returns an empty in-process KV.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	m.data[key] = value
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}

// Namespaced prefixes every key with "<namespace>:" so several boards owners
// can share one backend.
type Namespaced struct {
	base      KV
	namespace string
}

// WithNamespace scopes base to namespace. An empty namespace returns base unchanged.
func WithNamespace(base KV, namespace string) KV {
	if namespace == "" {
		return base
	}
	return &Namespaced{base: base, namespace: namespace}
}

func (n *Namespaced) key(k string) string {
	return n.namespace + ":" + k
}

func (n *Namespaced) Get(ctx context.Context, key string) (string, bool, error) {
	return n.base.Get(ctx, n.key(key))
}

func (n *Namespaced) Set(ctx context.Context, key, value string) error {
	return n.base.Set(ctx, n.key(key), value)
}

func (n *Namespaced) Delete(ctx context.Context, key string) error {
	return n.base.Delete(ctx, n.key(key))
}
