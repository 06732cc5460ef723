package engine

import (
	"sort"
	"sync"
)

// Definition is the external-facing projection of a visible tool,
// handed to the orchestrator as part of the catalog.
type Definition struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	SchemaJSON  string `json:"schema"`
}

// Category groups related tools in the catalog.
type Category struct {
	ID          string
	Description string
}

// Registry is the process-wide table of tools. It is written during
// start-up and effectively read-only afterwards; the mutex exists so
// concurrent reads during execution stay safe against a late Register.
type Registry struct {
	mu         sync.RWMutex
	tools      map[string]Tool
	categories map[string]Category
	toolCat    map[string]string
	// defs is a derived, cached projection of the visible tools,
	// invalidated on every Register.
	defs []Definition
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		tools:      make(map[string]Tool),
		categories: make(map[string]Category),
		toolCat:    make(map[string]string),
	}
}

// RegisterCategory declares a category tools can be registered under.
func (r *Registry) RegisterCategory(c Category) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.categories[c.ID] = c
}

// Register adds a tool, overwriting any previous tool of the same name
// and invalidating the cached definition list.
func (r *Registry) Register(t Tool, categoryID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[t.Name] = t
	if categoryID != "" {
		r.toolCat[t.Name] = categoryID
	}
	r.defs = nil
}

// Get resolves a tool by name, hidden tools included.
func (r *Registry) Get(name string) (Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	if !ok {
		return Tool{}, &ToolNotFoundError{Name: name, Known: r.visibleLocked()}
	}
	return t, nil
}

// ListVisible returns the names of all non-hidden tools, sorted.
func (r *Registry) ListVisible() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.visibleLocked()
}

// ListAll returns every registered name including hidden tools, sorted.
// Hidden commit tools must still resolve as real targets.
func (r *Registry) ListAll() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) visibleLocked() []string {
	names := make([]string, 0, len(r.tools))
	for name, t := range r.tools {
		if t.Hidden {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Definitions returns the memoized, visible-only definition list. The
// cache is rebuilt lazily after a Register invalidated it.
func (r *Registry) Definitions() []Definition {
	r.mu.RLock()
	if r.defs != nil {
		defs := r.defs
		r.mu.RUnlock()
		return defs
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.defs == nil {
		defs := make([]Definition, 0, len(r.tools))
		for _, name := range r.visibleLocked() {
			t := r.tools[name]
			defs = append(defs, Definition{
				Name:        t.Name,
				Description: t.Description,
				SchemaJSON:  t.SchemaJSON,
			})
		}
		r.defs = defs
	}
	return r.defs
}

// ByCategory groups visible tool names by category id. Both the
// category keys and the names within each category come back in
// deterministic alphabetic order.
func (r *Registry) ByCategory() ([]string, map[string][]string) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	groups := make(map[string][]string)
	for _, name := range r.visibleLocked() {
		cat := r.toolCat[name]
		if cat == "" {
			cat = "general"
		}
		groups[cat] = append(groups[cat], name)
	}

	cats := make([]string, 0, len(groups))
	for cat, names := range groups {
		sort.Strings(names)
		cats = append(cats, cat)
	}
	sort.Strings(cats)
	return cats, groups
}
