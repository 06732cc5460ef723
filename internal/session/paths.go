// Package session holds the per-session state tools are allowed to
// share across calls: the working directory and path resolution built
// on top of it.
package session

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ResolveOptions tweaks ResolvePath behavior.
type ResolveOptions struct {
	// SkipExistenceCheck resolves the path without requiring it to
	// exist (needed when resolving a file about to be created).
	SkipExistenceCheck bool
}

// Paths tracks the working directory per session key and resolves raw
// tool paths against it. It is the only session-scoped mutable state in
// the runtime.
type Paths struct {
	mu  sync.RWMutex
	cwd map[string]string
}

// NewPaths creates an empty path store.
func NewPaths() *Paths {
	return &Paths{cwd: make(map[string]string)}
}

// GetCwd returns the session's working directory, falling back to the
// process working directory when the session never set one.
func (p *Paths) GetCwd(sessionKey string) string {
	p.mu.RLock()
	dir, ok := p.cwd[sessionKey]
	p.mu.RUnlock()
	if ok {
		return dir
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "/"
}

// SetCwd records the session's working directory. The directory must
// exist.
func (p *Paths) SetCwd(sessionKey, dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("failed to absolutize %q: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("cannot set cwd to %q: %w", abs, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("cannot set cwd to %q: not a directory", abs)
	}
	p.mu.Lock()
	p.cwd[sessionKey] = abs
	p.mu.Unlock()
	return nil
}

// ResolvePath absolutizes a raw tool path against the session's working
// directory. Unless opts.SkipExistenceCheck is set, the resolved path
// must exist.
func (p *Paths) ResolvePath(sessionKey, raw string, opts ResolveOptions) (string, error) {
	if raw == "" {
		return "", fmt.Errorf("path must not be empty")
	}
	path := raw
	if path == "~" || len(path) > 1 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to expand ~: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(p.GetCwd(sessionKey), path)
	}
	path = filepath.Clean(path)

	if !opts.SkipExistenceCheck {
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("path %q does not exist: %w", path, err)
		}
	}
	return path, nil
}
