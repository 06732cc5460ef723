package search

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
)

// DefaultIgnorePatterns are always excluded, .gitignore or not:
// version-control and dependency directories no search should descend
// into.
var DefaultIgnorePatterns = []string{
	".git",
	".hg",
	".svn",
	"node_modules",
	"vendor",
	"__pycache__",
	".venv",
	"dist",
	"build",
	"target",
	".cache",
}

// ignoreMatcherFor compiles the root's .gitignore rules unioned with
// DefaultIgnorePatterns into a single matcher.
func ignoreMatcherFor(root string) gitignore.IgnoreParser {
	patterns := make([]string, 0, len(DefaultIgnorePatterns)+16)
	patterns = append(patterns, DefaultIgnorePatterns...)
	if lines, err := readGitignoreLines(filepath.Join(root, ".gitignore")); err == nil {
		patterns = append(patterns, lines...)
	}
	return gitignore.CompileIgnoreLines(patterns...)
}

// ExclusionGlobs translates the root's .gitignore rules into plain glob
// exclusion patterns for external backends, unioned with the fixed
// defaults.
func ExclusionGlobs(root string) []string {
	globs := make([]string, 0, len(DefaultIgnorePatterns)+16)
	globs = append(globs, DefaultIgnorePatterns...)
	lines, err := readGitignoreLines(filepath.Join(root, ".gitignore"))
	if err != nil {
		return globs
	}
	for _, line := range lines {
		// Negations have no glob-exclusion equivalent; skipping one
		// only makes the search wider, never wrong.
		if strings.HasPrefix(line, "!") {
			continue
		}
		globs = append(globs, strings.TrimSuffix(strings.TrimPrefix(line, "/"), "/"))
	}
	return globs
}

func readGitignoreLines(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
