package editing

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/ChamsBouzaiene/magpie/internal/engine"
)

// RegexPrefix marks a replace_pattern search string as a regular
// expression instead of a literal substring.
const RegexPrefix = "re:"

// Operation is one typed text edit. An ordered batch of operations is
// applied left-to-right against an immutable input line slice; each
// operation sees the output of the previous one.
type Operation interface {
	// apply returns the new lines and a short description of what was
	// done. Line slices are never mutated in place.
	apply(lines []string, limits Limits) ([]string, string, error)
}

// Limits bounds pattern matching in ReplacePattern.
type Limits struct {
	// MaxPatternIterations is the hard scan ceiling guarding against
	// catastrophic or zero-width-match regular expressions.
	MaxPatternIterations int
}

// DefaultLimits returns the built-in limits.
func DefaultLimits() Limits {
	return Limits{MaxPatternIterations: 100000}
}

// ReplaceLines replaces the 1-based inclusive range [Start,End] with
// Content (split on newlines).
type ReplaceLines struct {
	Start   int    `json:"start"`
	End     int    `json:"end"`
	Content string `json:"content"`
}

// ReplacePattern replaces occurrences of a literal substring or, with
// the "re:" prefix, a regular expression. Count 1 replaces the first
// match only; -1 is unbounded.
type ReplacePattern struct {
	Pattern     string `json:"pattern"`
	Replacement string `json:"replacement"`
	Count       int    `json:"count"`
}

// Insert inserts Content after the 0-based line AfterLine; 0 inserts
// before the first line, len(lines) appends.
type Insert struct {
	AfterLine int    `json:"after_line"`
	Content   string `json:"content"`
}

// DeleteLines deletes the 1-based inclusive range [Start,End].
type DeleteLines struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

func boundsError(msg string, start, end, lineCount int) error {
	return engine.NewDomainError("bounds", msg, map[string]any{
		"start": start,
		"end":   end,
		"lines": lineCount,
	})
}

// wireOp is the JSON wire shape of a single operation.
type wireOp struct {
	Type        string `json:"type"`
	Start       int    `json:"start,omitempty"`
	End         int    `json:"end,omitempty"`
	Content     string `json:"content,omitempty"`
	Pattern     string `json:"pattern,omitempty"`
	Replacement string `json:"replacement,omitempty"`
	Count       *int   `json:"count,omitempty"`
	AfterLine   int    `json:"after_line,omitempty"`
}

// DecodeOperations parses the wire JSON array of typed edits. Unknown
// operation types, unknown fields and statically invalid ranges
// (start > end) are rejected here, before any file is touched.
func DecodeOperations(raw json.RawMessage) ([]Operation, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("operations must be a JSON array: %w", err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("operations must not be empty")
	}

	ops := make([]Operation, 0, len(items))
	for i, item := range items {
		dec := json.NewDecoder(bytes.NewReader(item))
		dec.DisallowUnknownFields()
		var w wireOp
		if err := dec.Decode(&w); err != nil {
			return nil, fmt.Errorf("operation %d: %w", i+1, err)
		}

		op, err := opFromWire(w)
		if err != nil {
			return nil, fmt.Errorf("operation %d: %w", i+1, err)
		}
		ops = append(ops, op)
	}
	return ops, nil
}

func opFromWire(w wireOp) (Operation, error) {
	switch w.Type {
	case "replace_lines":
		if w.Start > w.End {
			return nil, fmt.Errorf("replace_lines: start %d > end %d", w.Start, w.End)
		}
		return ReplaceLines{Start: w.Start, End: w.End, Content: w.Content}, nil
	case "replace_pattern":
		count := 1
		if w.Count != nil {
			count = *w.Count
		}
		if count == 0 || count < -1 {
			return nil, fmt.Errorf("replace_pattern: count must be positive or -1, got %d", count)
		}
		return ReplacePattern{Pattern: w.Pattern, Replacement: w.Replacement, Count: count}, nil
	case "insert":
		return Insert{AfterLine: w.AfterLine, Content: w.Content}, nil
	case "delete_lines":
		if w.Start > w.End {
			return nil, fmt.Errorf("delete_lines: start %d > end %d", w.Start, w.End)
		}
		return DeleteLines{Start: w.Start, End: w.End}, nil
	default:
		return nil, fmt.Errorf("unknown operation type %q", w.Type)
	}
}
