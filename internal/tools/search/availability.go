package search

import (
	"os/exec"
	"sync"
)

// ProbeCache memoizes external binary availability for the process
// lifetime. A failed probe is remembered so repeated queries don't
// re-probe; entries are written at most once per key.
type ProbeCache struct {
	mu   sync.Mutex
	seen map[string]bool
	// look is exec.LookPath unless a test injects its own.
	look func(name string) (string, error)
}

// NewProbeCache creates a cache probing with exec.LookPath.
func NewProbeCache() *ProbeCache {
	return &ProbeCache{
		seen: make(map[string]bool),
		look: exec.LookPath,
	}
}

// NewProbeCacheWithLookup creates a cache with a custom lookup, for
// tests.
func NewProbeCacheWithLookup(look func(name string) (string, error)) *ProbeCache {
	return &ProbeCache{seen: make(map[string]bool), look: look}
}

// Available reports whether the binary is on PATH, probing at most once
// per name.
func (c *ProbeCache) Available(binary string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ok, probed := c.seen[binary]; probed {
		return ok
	}
	_, err := c.look(binary)
	c.seen[binary] = err == nil
	return c.seen[binary]
}
