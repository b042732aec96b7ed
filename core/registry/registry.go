package registry

import "sync"

// Registry is a process-wide key/value store for extension points (commands,
// cron jobs, API modules). A key can be locked once the owning subsystem has
// started; writers check IsLocked before SetGlobal.
type Registry struct {
	mu     sync.RWMutex
	values map[string]interface{}
	locked map[string]bool
}

// GlobalRegistry is shared by the cmd, cron, api and graphql registries.
var GlobalRegistry = New()

// New returns an empty Registry.
func New() *Registry {
	return &Registry{
		values: make(map[string]interface{}),
		locked: make(map[string]bool),
	}
}

// SetGlobal stores v under key.
func (r *Registry) SetGlobal(key string, v interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[key] = v
}

// GetGlobal returns the value stored under key.
func (r *Registry) GetGlobal(key string) (interface{}, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.values[key]
	return v, ok
}

// Lock marks key immutable.
func (r *Registry) Lock(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.locked[key] = true
}

// IsLocked reports whether key has been locked.
func (r *Registry) IsLocked(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.locked[key]
}

// UnlockForTesting reopens key for registration.
func (r *Registry) UnlockForTesting(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.locked, key)
}

// Append adds v to the list stored under key. Panics if key is locked.
func Append[T any](r *Registry, key string, v T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.locked[key] {
		panic("registry: " + key + " is locked")
	}
	list, _ := r.values[key].([]T)
	r.values[key] = append(list, v)
}

// List returns a copy of the list stored under key.
func List[T any](r *Registry, key string) []T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list, _ := r.values[key].([]T)
	return append([]T(nil), list...)
}

// Put stores v as name in the map under key. Panics if key is locked or
// name is taken.
func Put[T any](r *Registry, key, name string, v T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.locked[key] {
		panic("registry: " + key + " is locked")
	}
	m, _ := r.values[key].(map[string]T)
	if m == nil {
		m = make(map[string]T)
		r.values[key] = m
	}
	if _, ok := m[name]; ok {
		panic("registry: duplicate " + name + " in " + key)
	}
	m[name] = v
}

// Remove deletes name from the map under key and reopens key.
func Remove[T any](r *Registry, key, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.locked, key)
	if m, ok := r.values[key].(map[string]T); ok {
		delete(m, name)
	}
}

// Entries returns a copy of the map under key.
func Entries[T any](r *Registry, key string) map[string]T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, _ := r.values[key].(map[string]T)
	out := make(map[string]T, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
