package search

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ChamsBouzaiene/magpie/internal/tools/filesystem"
)

// globBackend is the in-process backend: fast, dependency-free, handles
// name/type/depth filters and .gitignore-derived exclusions.
type globBackend struct {
	fs filesystem.FileSystem
}

func (b *globBackend) name() string { return "glob" }

func (b *globBackend) find(ctx context.Context, root string, q FindQuery) ([]Match, error) {
	var matchName func(name string) bool
	if q.Regex {
		re, err := regexp.Compile(q.Pattern)
		if err != nil {
			return nil, err
		}
		matchName = re.MatchString
	} else {
		needle := strings.ToLower(q.Pattern)
		matchName = func(name string) bool {
			return needle == "" || strings.Contains(strings.ToLower(name), needle)
		}
	}

	ignore := ignoreMatcherFor(root)
	var matches []Match

	err := b.fs.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if path == root {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		if ignore.MatchesPath(rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		depth := strings.Count(rel, string(filepath.Separator)) + 1
		if q.MaxDepth > 0 && depth > q.MaxDepth {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		switch q.Kind {
		case "file":
			if d.IsDir() {
				return nil
			}
		case "dir":
			if !d.IsDir() {
				return nil
			}
		}

		if !matchName(d.Name()) {
			return nil
		}

		matches = append(matches, Match{Path: path})
		if q.Limit > 0 && len(matches) >= q.Limit {
			return filepath.SkipAll
		}
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return nil, err
	}
	return matches, nil
}
