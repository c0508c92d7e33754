package controller

import "sync"

// Exclusions is the single shared set of categories hidden from derived
// views. The list and chart controllers read the same instance, so the two
// screens can never drift apart.
type Exclusions struct {
	mu  sync.RWMutex
	set map[string]struct{}
}

func NewExclusions() *Exclusions {
	return &Exclusions{set: make(map[string]struct{})}
}

func (x *Exclusions) Add(name string) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.set[name] = struct{}{}
}

func (x *Exclusions) Remove(name string) {
	x.mu.Lock()
	defer x.mu.Unlock()
	delete(x.set, name)
}

func (x *Exclusions) Has(name string) bool {
	x.mu.RLock()
	defer x.mu.RUnlock()
	_, ok := x.set[name]
	return ok
}

// Snapshot returns a copy of the current set.
func (x *Exclusions) Snapshot() map[string]struct{} {
	x.mu.RLock()
	defer x.mu.RUnlock()
	out := make(map[string]struct{}, len(x.set))
	for k := range x.set {
		out[k] = struct{}{}
	}
	return out
}
