package agent

import (
	"fmt"
	"sync"
)

// Registry maps agent names to implementations. Built once at startup and
// read-only afterwards, but guarded anyway since tests re-register agents.
type Registry struct {
	mu     sync.RWMutex
	agents map[string]Agent
}

func NewRegistry() *Registry {
	return &Registry{
		agents: make(map[string]Agent),
	}
}

func (r *Registry) Register(a Agent) {
	r.mu.Lock()
	r.agents[a.Name()] = a
	r.mu.Unlock()
}

func (r *Registry) Resolve(name string) (Agent, error) {
	r.mu.RLock()
	a, ok := r.agents[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown agent %q", name)
	}
	return a, nil
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.agents))
	for name := range r.agents {
		names = append(names, name)
	}
	return names
}
