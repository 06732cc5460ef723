package editing

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ChamsBouzaiene/magpie/internal/engine"
)

// Apply runs an ordered batch of operations against a snapshot of the
// file's lines. The batch is atomic: the first failing operation aborts
// the whole thing and the error names its 1-based position. On success
// it returns the new lines and one description per applied operation.
func Apply(lines []string, ops []Operation, limits Limits) ([]string, []string, error) {
	if limits.MaxPatternIterations <= 0 {
		limits = DefaultLimits()
	}

	current := lines
	applied := make([]string, 0, len(ops))
	for i, op := range ops {
		next, desc, err := op.apply(current, limits)
		if err != nil {
			return nil, nil, wrapOpError(err, i+1)
		}
		current = next
		applied = append(applied, desc)
	}
	return current, applied, nil
}

// wrapOpError prefixes the failing operation's position while keeping
// the underlying domain error's kind and detail intact.
func wrapOpError(err error, pos int) error {
	if de, ok := err.(*engine.DomainError); ok {
		detail := map[string]any{"operation": pos}
		for k, v := range de.Detail {
			detail[k] = v
		}
		return engine.NewDomainError(de.Kind, fmt.Sprintf("operation %d: %s", pos, de.Msg), detail)
	}
	return fmt.Errorf("operation %d: %w", pos, err)
}

func (op ReplaceLines) apply(lines []string, _ Limits) ([]string, string, error) {
	if op.Start < 1 || op.End > len(lines) {
		return nil, "", boundsError(
			fmt.Sprintf("replace_lines %d-%d out of range, file has %d lines", op.Start, op.End, len(lines)),
			op.Start, op.End, len(lines))
	}
	content := splitLines(op.Content)
	out := make([]string, 0, len(lines)-(op.End-op.Start+1)+len(content))
	out = append(out, lines[:op.Start-1]...)
	out = append(out, content...)
	out = append(out, lines[op.End:]...)
	return out, fmt.Sprintf("replaced lines %d-%d", op.Start, op.End), nil
}

func (op DeleteLines) apply(lines []string, _ Limits) ([]string, string, error) {
	if op.Start < 1 || op.End > len(lines) {
		return nil, "", boundsError(
			fmt.Sprintf("delete_lines %d-%d out of range, file has %d lines", op.Start, op.End, len(lines)),
			op.Start, op.End, len(lines))
	}
	out := make([]string, 0, len(lines)-(op.End-op.Start+1))
	out = append(out, lines[:op.Start-1]...)
	out = append(out, lines[op.End:]...)
	return out, fmt.Sprintf("deleted lines %d-%d", op.Start, op.End), nil
}

func (op Insert) apply(lines []string, _ Limits) ([]string, string, error) {
	if op.AfterLine < 0 || op.AfterLine > len(lines) {
		return nil, "", boundsError(
			fmt.Sprintf("insert after line %d out of range, file has %d lines", op.AfterLine, len(lines)),
			op.AfterLine, op.AfterLine, len(lines))
	}
	content := splitLines(op.Content)
	out := make([]string, 0, len(lines)+len(content))
	out = append(out, lines[:op.AfterLine]...)
	out = append(out, content...)
	out = append(out, lines[op.AfterLine:]...)
	return out, fmt.Sprintf("inserted %d line(s) after line %d", len(content), op.AfterLine), nil
}

func (op ReplacePattern) apply(lines []string, limits Limits) ([]string, string, error) {
	buf := strings.Join(lines, "\n")

	var matches [][2]int
	var err error
	if rest, ok := strings.CutPrefix(op.Pattern, RegexPrefix); ok {
		matches, err = findRegexMatches(buf, rest, op.Count, limits)
	} else {
		matches, err = findLiteralMatches(buf, op.Pattern, op.Count, limits)
	}
	if err != nil {
		return nil, "", err
	}

	if len(matches) == 0 {
		return nil, "", engine.NewDomainError("pattern_not_found",
			fmt.Sprintf("pattern %q not found", op.Pattern),
			map[string]any{"pattern": op.Pattern})
	}

	// Substitute from the last match backward so earlier offsets stay
	// valid.
	for i := len(matches) - 1; i >= 0; i-- {
		m := matches[i]
		buf = buf[:m[0]] + op.Replacement + buf[m[1]:]
	}

	return strings.Split(buf, "\n"),
		fmt.Sprintf("replaced %d occurrence(s) of %q", len(matches), op.Pattern), nil
}

// findLiteralMatches locates up to count non-overlapping occurrences of
// a literal substring. An empty search string is rejected outright: it
// would match every offset with zero progress.
func findLiteralMatches(buf, pattern string, count int, limits Limits) ([][2]int, error) {
	if pattern == "" {
		return nil, engine.NewDomainError("empty_pattern",
			"empty search string is not allowed", nil)
	}

	var matches [][2]int
	offset := 0
	for iterations := 0; count == -1 || len(matches) < count; iterations++ {
		if iterations >= limits.MaxPatternIterations {
			return nil, iterationLimitError(pattern, limits.MaxPatternIterations)
		}
		idx := strings.Index(buf[offset:], pattern)
		if idx < 0 {
			break
		}
		start := offset + idx
		end := start + len(pattern)
		matches = append(matches, [2]int{start, end})
		offset = end
	}
	return matches, nil
}

// findRegexMatches locates up to count matches of a regular expression,
// advancing at least one byte per iteration so zero-length matches
// (anchor-only patterns) cannot loop forever.
func findRegexMatches(buf, pattern string, count int, limits Limits) ([][2]int, error) {
	// (?m) so ^ and $ anchor per line, matching how edits reason
	// about a file as a list of lines.
	re, err := regexp.Compile("(?m)" + pattern)
	if err != nil {
		return nil, engine.NewDomainError("invalid_pattern",
			fmt.Sprintf("invalid regular expression %q: %v", pattern, err),
			map[string]any{"pattern": pattern})
	}

	var matches [][2]int
	offset := 0
	for iterations := 0; offset <= len(buf) && (count == -1 || len(matches) < count); iterations++ {
		if iterations >= limits.MaxPatternIterations {
			return nil, iterationLimitError(pattern, limits.MaxPatternIterations)
		}
		loc := re.FindStringIndex(buf[offset:])
		if loc == nil {
			break
		}
		start := offset + loc[0]
		end := offset + loc[1]
		matches = append(matches, [2]int{start, end})
		if end > offset {
			offset = end
		} else {
			// Zero-width match: force progress.
			offset++
		}
	}
	return matches, nil
}

func iterationLimitError(pattern string, limit int) error {
	return engine.NewDomainError("iteration_limit",
		fmt.Sprintf("pattern %q exceeded the %d iteration ceiling", pattern, limit),
		map[string]any{"pattern": pattern, "limit": limit})
}

// splitLines splits content on newlines. Empty content contributes no
// lines rather than one empty line.
func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	return strings.Split(content, "\n")
}
