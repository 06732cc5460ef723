package search

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ChamsBouzaiene/magpie/internal/engine"
	"github.com/ChamsBouzaiene/magpie/internal/sandbox"
)

const searchTimeout = 30 * time.Second

// externalBackend shells out to a find-style binary. Exit code 0 means
// matches found, 1 means none; anything else is a backend failure the
// engine falls back on.
type externalBackend struct {
	binary string
	runner sandbox.Runner
	args   func(q FindQuery, excludes []string) ([]string, error)
}

func (b *externalBackend) name() string { return b.binary }

func (b *externalBackend) find(ctx context.Context, root string, q FindQuery) ([]Match, error) {
	excludes := ExclusionGlobs(root)
	excludes = append(excludes, q.Exclude...)

	args, err := b.args(q, excludes)
	if err != nil {
		return nil, err
	}

	res, runErr := b.runner.RunCmd(ctx, root, b.binary, args, searchTimeout)
	if res.TimedOut {
		return nil, engine.NewDomainError("search_timeout",
			fmt.Sprintf("%s timed out after %s", b.binary, searchTimeout),
			map[string]any{"backend": b.binary})
	}
	if runErr != nil && res.Code != 1 {
		return nil, fmt.Errorf("%s exited with code %d: %s", b.binary, res.Code, strings.TrimSpace(res.Stderr))
	}

	var matches []Match
	for _, line := range strings.Split(res.Stdout, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		// find reports paths relative to the directory it ran in;
		// every backend must hand back absolute paths.
		if !filepath.IsAbs(line) {
			line = filepath.Join(root, line)
		}
		matches = append(matches, Match{Path: line})
		if q.Limit > 0 && len(matches) >= q.Limit {
			break
		}
	}
	return matches, nil
}

// newFdBackend builds the preferred backend around the fd binary.
func newFdBackend(runner sandbox.Runner) *externalBackend {
	return &externalBackend{
		binary: "fd",
		runner: runner,
		args:   fdArgs,
	}
}

// newFindBackend builds the universally-available fallback around
// POSIX find.
func newFindBackend(runner sandbox.Runner) *externalBackend {
	return &externalBackend{
		binary: "find",
		runner: runner,
		args:   findArgs,
	}
}

func fdArgs(q FindQuery, excludes []string) ([]string, error) {
	args := []string{"--absolute-path", "--hidden"}
	if !q.Regex {
		args = append(args, "--fixed-strings")
	}
	switch q.Kind {
	case "file":
		args = append(args, "--type", "f")
	case "dir":
		args = append(args, "--type", "d")
	}
	if q.MaxDepth > 0 {
		args = append(args, "--max-depth", fmt.Sprint(q.MaxDepth))
	}
	if q.MinDepth > 0 {
		args = append(args, "--min-depth", fmt.Sprint(q.MinDepth))
	}
	if q.MinSize != "" {
		args = append(args, "--size", "+"+q.MinSize)
	}
	if q.MaxSize != "" {
		args = append(args, "--size", "-"+q.MaxSize)
	}
	if q.NewerThan != "" {
		if _, err := q.newerThan(); err != nil {
			return nil, err
		}
		args = append(args, "--changed-within", q.NewerThan)
	}
	if q.FullPath {
		args = append(args, "--full-path")
	}
	for _, e := range excludes {
		args = append(args, "--exclude", e)
	}
	if q.Pattern != "" {
		args = append(args, q.Pattern)
	}
	return args, nil
}

func findArgs(q FindQuery, excludes []string) ([]string, error) {
	args := []string{"."}
	if q.MaxDepth > 0 {
		args = append(args, "-maxdepth", fmt.Sprint(q.MaxDepth))
	}
	if q.MinDepth > 0 {
		args = append(args, "-mindepth", fmt.Sprint(q.MinDepth))
	}
	for _, e := range excludes {
		args = append(args, "!", "-path", "*/"+e+"/*", "!", "-name", e)
	}
	switch q.Kind {
	case "file":
		args = append(args, "-type", "f")
	case "dir":
		args = append(args, "-type", "d")
	}
	if q.Pattern != "" {
		switch {
		case q.Regex:
			args = append(args, "-regex", ".*"+q.Pattern+".*")
		case q.FullPath:
			args = append(args, "-path", "*"+q.Pattern+"*")
		default:
			args = append(args, "-name", "*"+q.Pattern+"*")
		}
	}
	min, max, err := q.sizeBounds()
	if err != nil {
		return nil, err
	}
	if min >= 0 {
		args = append(args, "-size", fmt.Sprintf("+%dc", min))
	}
	if max >= 0 {
		args = append(args, "-size", fmt.Sprintf("-%dc", max))
	}
	if q.NewerThan != "" {
		d, err := q.newerThan()
		if err != nil {
			return nil, err
		}
		args = append(args, "-mmin", fmt.Sprintf("-%d", int(d.Minutes())+1))
	}
	return args, nil
}
