package search

import (
	"fmt"
	"time"

	units "github.com/docker/go-units"
)

// FindQuery describes a name search. Pattern is a substring unless
// Regex is set; Path empty means smart multi-root search.
type FindQuery struct {
	Pattern   string
	Path      string
	Kind      string // "file", "dir" or "any"
	Regex     bool
	MaxDepth  int // 0 = unlimited
	MinDepth  int
	MinSize   string // human-readable, e.g. "1M"
	MaxSize   string
	NewerThan string // duration, e.g. "48h"
	FullPath  bool
	Exclude   []string
	Limit     int
}

// needsExternal reports whether the query uses features the in-process
// globbing backend cannot express.
func (q FindQuery) needsExternal() bool {
	return q.MinSize != "" || q.MaxSize != "" || q.NewerThan != "" ||
		q.MinDepth > 0 || q.FullPath || len(q.Exclude) > 0
}

// sizeBounds parses the human-readable size filters into bytes.
func (q FindQuery) sizeBounds() (min, max int64, err error) {
	min, max = -1, -1
	if q.MinSize != "" {
		min, err = units.RAMInBytes(q.MinSize)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid min_size %q: %w", q.MinSize, err)
		}
	}
	if q.MaxSize != "" {
		max, err = units.RAMInBytes(q.MaxSize)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid max_size %q: %w", q.MaxSize, err)
		}
	}
	return min, max, nil
}

// newerThan parses the mtime filter.
func (q FindQuery) newerThan() (time.Duration, error) {
	if q.NewerThan == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(q.NewerThan)
	if err != nil {
		return 0, fmt.Errorf("invalid newer_than %q: %w", q.NewerThan, err)
	}
	return d, nil
}

// Match is one search hit.
type Match struct {
	Path string `json:"path"`
}
