package search

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ChamsBouzaiene/magpie/internal/sandbox"
	"github.com/ChamsBouzaiene/magpie/internal/tools/filesystem"
)

// backend is one concrete search implementation the engine selects
// among.
type backend interface {
	name() string
	find(ctx context.Context, root string, q FindQuery) ([]Match, error)
}

// Engine answers find queries with the most capable available backend:
// the in-process globbing path when the query allows it, otherwise fd
// with a fallback to find.
type Engine struct {
	glob   backend
	fd     backend
	findBk backend
	probe  *ProbeCache
	// MinSmartResults is the threshold at which a smart multi-root
	// search stops scanning further roots.
	MinSmartResults int
	// MaxParentRoots bounds how many parent directories a smart
	// search climbs.
	MaxParentRoots int
}

// NewEngine creates a search engine over the given collaborators.
func NewEngine(fsys filesystem.FileSystem, runner sandbox.Runner, probe *ProbeCache) *Engine {
	return &Engine{
		glob:            &globBackend{fs: fsys},
		fd:              newFdBackend(runner),
		findBk:          newFindBackend(runner),
		probe:           probe,
		MinSmartResults: 10,
		MaxParentRoots:  3,
	}
}

// Find answers a query against one root, selecting the backend.
func (e *Engine) Find(ctx context.Context, q FindQuery) ([]Match, error) {
	if q.Path == "" {
		return e.smartFind(ctx, q)
	}
	return e.findIn(ctx, q.Path, q)
}

func (e *Engine) findIn(ctx context.Context, root string, q FindQuery) ([]Match, error) {
	if !q.needsExternal() {
		return e.glob.find(ctx, root, q)
	}

	if e.probe.Available(e.fd.name()) {
		matches, err := e.fd.find(ctx, root, q)
		if err == nil {
			return matches, nil
		}
		// Unexpected exit status from the preferred binary: fall
		// back to the universally-available one.
	}

	matches, err := e.findBk.find(ctx, root, q)
	if err != nil {
		return nil, fmt.Errorf("all search backends failed: %w", err)
	}
	return matches, nil
}

// smartFind scans an ordered list of candidate roots (working
// directory, successive parents, then home) concurrently, one scan per
// root, and short-circuits remaining roots once MinSmartResults is met.
func (e *Engine) smartFind(ctx context.Context, q FindQuery) ([]Match, error) {
	roots := e.candidateRoots()
	if len(roots) == 0 {
		return nil, fmt.Errorf("no candidate roots to search")
	}

	cctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([][]Match, len(roots))
	scanErrs := make([]error, len(roots))
	done := make([]chan struct{}, len(roots))
	var wg sync.WaitGroup
	for i, root := range roots {
		done[i] = make(chan struct{})
		wg.Add(1)
		go func(i int, root string) {
			defer wg.Done()
			defer close(done[i])
			matches, err := e.findIn(cctx, root, q)
			if err != nil {
				scanErrs[i] = err
				return
			}
			results[i] = matches
		}(i, root)
	}

	threshold := e.MinSmartResults
	if threshold <= 0 {
		threshold = 1
	}

	var out []Match
	seen := make(map[string]bool)
	scannedAny := false
	for i := range roots {
		<-done[i]
		if scanErrs[i] != nil {
			// A single broken root does not sink the whole search.
			continue
		}
		scannedAny = true
		for _, m := range results[i] {
			if seen[m.Path] {
				continue
			}
			seen[m.Path] = true
			out = append(out, m)
			if q.Limit > 0 && len(out) >= q.Limit {
				cancel()
				wg.Wait()
				return out, nil
			}
		}
		if len(out) >= threshold {
			// Enough hits; stop waiting on farther roots.
			cancel()
			break
		}
	}
	wg.Wait()
	if !scannedAny {
		return nil, fmt.Errorf("every smart search root failed: %w", errors.Join(scanErrs...))
	}
	return out, nil
}

// candidateRoots returns the ordered smart-search roots: cwd, a bounded
// number of parents, then home. Duplicates are dropped.
func (e *Engine) candidateRoots() []string {
	var roots []string
	seen := make(map[string]bool)
	add := func(dir string) {
		if dir == "" || seen[dir] {
			return
		}
		seen[dir] = true
		roots = append(roots, dir)
	}

	cwd, err := os.Getwd()
	if err == nil {
		add(cwd)
		parent := cwd
		for i := 0; i < e.MaxParentRoots; i++ {
			next := filepath.Dir(parent)
			if next == parent {
				break
			}
			parent = next
			add(parent)
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		add(home)
	}
	return roots
}
