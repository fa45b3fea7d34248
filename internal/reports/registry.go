package reports

import (
	"fmt"
	"sort"
	"sync"
)

var (
	registry = make(map[string]Report)
	mu       sync.RWMutex
)

// Register adds a report to the registry.
func Register(r Report) {
	mu.Lock()
	defer mu.Unlock()
	registry[r.Name()] = r
}

// Get retrieves a report by name.
func Get(name string) (Report, error) {
	mu.RLock()
	defer mu.RUnlock()

	r, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown report: %s", name)
	}
	return r, nil
}

// List returns all registered report names, sorted.
func List() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns all registered reports, ordered by name.
func All() []Report {
	names := List()

	mu.RLock()
	defer mu.RUnlock()

	all := make([]Report, 0, len(names))
	for _, name := range names {
		all = append(all, registry[name])
	}
	return all
}
