package status

import (
	"sort"
	"sync"
)

// MetricMap maps names to metrics of type T.
// Creating a key takes the write lock; reading through a returned pointer does not
type MetricMap[T any] struct {
	mu    sync.RWMutex
	items map[string]*T
}

// NewMetricMap creates an initialized MetricMap
func NewMetricMap[T any]() *MetricMap[T] {
	return &MetricMap[T]{
		items: make(map[string]*T),
	}
}

// Get returns the metric for key, creating it on first use
func (m *MetricMap[T]) Get(key string) *T {
	m.mu.RLock()
	ptr, ok := m.items[key]
	m.mu.RUnlock()
	if ok {
		return ptr
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if ptr, ok := m.items[key]; ok {
		return ptr
	}
	ptr = new(T)
	m.items[key] = ptr
	return ptr
}

// Has reports whether key was ever requested
func (m *MetricMap[T]) Has(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.items[key]
	return ok
}

// Keys returns the registered names in sorted order
func (m *MetricMap[T]) Keys() []string {
	m.mu.RLock()
	keys := make([]string, 0, len(m.items))
	for k := range m.items {
		keys = append(keys, k)
	}
	m.mu.RUnlock()

	sort.Strings(keys)
	return keys
}

// Range visits metrics in key order. fn runs without the map lock held and
// may register new metrics; those are not visited
func (m *MetricMap[T]) Range(fn func(key string, ptr *T)) {
	keys := m.Keys()
	if len(keys) == 0 {
		return
	}

	ptrs := make([]*T, len(keys))
	m.mu.RLock()
	for i, k := range keys {
		ptrs[i] = m.items[k]
	}
	m.mu.RUnlock()

	for i, k := range keys {
		fn(k, ptrs[i])
	}
}

// CopyInto stores read(metric) under each name in out, overwriting any entry
// of the same name
func (m *MetricMap[T]) CopyInto(out map[string]interface{}, read func(*T) interface{}) {
	m.Range(func(key string, ptr *T) {
		out[key] = read(ptr)
	})
}

// Count returns the number of registered metrics
func (m *MetricMap[T]) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}
