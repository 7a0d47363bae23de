package maps

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// Provider loads a map by name.
type Provider interface {
	Load(ctx context.Context, name string) (Map, error)
}

// Registry is an in-memory Provider seeded with the default map.
type Registry struct {
	mu   sync.RWMutex
	maps map[string]Map
}

// NewRegistry creates a registry holding the embedded default map.
func NewRegistry() *Registry {
	r := &Registry{maps: make(map[string]Map)}
	r.maps[DefaultName] = Default()
	return r
}

// Register validates and stores a map, replacing any map with the same name.
func (r *Registry) Register(m Map) error {
	if err := m.Validate(); err != nil {
		return fmt.Errorf("failed to register map: %w", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.maps[m.Name] = m
	return nil
}

// Get returns a registered map.
func (r *Registry) Get(name string) (Map, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.maps[name]
	return m, ok
}

// Names returns the registered map names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.maps))
	for name := range r.maps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Load implements Provider.
func (r *Registry) Load(ctx context.Context, name string) (Map, error) {
	if err := ctx.Err(); err != nil {
		return Map{}, err
	}
	if name == "" {
		name = DefaultName
	}
	m, ok := r.Get(name)
	if !ok {
		return Map{}, fmt.Errorf("%w: %s", ErrUnknownMap, name)
	}
	return m, nil
}

// LoadDir registers every *.yaml map in dir and returns their names.
func (r *Registry) LoadDir(dir string) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to list maps in %s: %w", dir, err)
	}
	sort.Strings(paths)

	var names []string
	for _, path := range paths {
		m, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		if err := r.Register(m); err != nil {
			return nil, err
		}
		names = append(names, m.Name)
	}
	return names, nil
}

// LoadFile reads and parses one map document.
func LoadFile(path string) (Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Map{}, fmt.Errorf("failed to read map file: %w", err)
	}
	m, err := Parse(data)
	if err != nil {
		return Map{}, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}
