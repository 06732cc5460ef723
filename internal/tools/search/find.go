package search

import (
	"context"
	"fmt"

	"github.com/ChamsBouzaiene/magpie/internal/engine"
	"github.com/ChamsBouzaiene/magpie/internal/session"
)

const defaultMaxResults = 200

const findFilesSchema = `{
	"type": "object",
	"additionalProperties": false,
	"properties": {
		"pattern": {"type": "string", "description": "Name substring, or a regular expression when regex is true"},
		"path": {"type": "string", "description": "Root to search; omit for a smart multi-root search"},
		"kind": {"type": "string", "enum": ["file", "dir", "any"], "description": "Entry type filter"},
		"regex": {"type": "boolean", "description": "Treat pattern as a regular expression"},
		"max_depth": {"type": "integer", "description": "Maximum directory depth"},
		"min_depth": {"type": "integer", "description": "Minimum directory depth"},
		"min_size": {"type": "string", "description": "Minimum file size, e.g. \"1M\""},
		"max_size": {"type": "string", "description": "Maximum file size"},
		"newer_than": {"type": "string", "description": "Only entries modified within this duration, e.g. \"48h\""},
		"full_path": {"type": "boolean", "description": "Match the pattern against the full path"},
		"exclude": {"type": "array", "items": {"type": "string"}, "description": "Extra exclusion globs"},
		"limit": {"type": "integer", "description": "Maximum number of matches"}
	},
	"required": ["pattern"]
}`

func queryFromArgs(args map[string]any, defaultLimit int) FindQuery {
	q := FindQuery{Kind: "any", Limit: defaultLimit}
	if v, ok := args["pattern"].(string); ok {
		q.Pattern = v
	}
	if v, ok := args["path"].(string); ok {
		q.Path = v
	}
	if v, ok := args["kind"].(string); ok && v != "" {
		q.Kind = v
	}
	if v, ok := args["regex"].(bool); ok {
		q.Regex = v
	}
	if v, ok := args["max_depth"].(float64); ok {
		q.MaxDepth = int(v)
	}
	if v, ok := args["min_depth"].(float64); ok {
		q.MinDepth = int(v)
	}
	if v, ok := args["min_size"].(string); ok {
		q.MinSize = v
	}
	if v, ok := args["max_size"].(string); ok {
		q.MaxSize = v
	}
	if v, ok := args["newer_than"].(string); ok {
		q.NewerThan = v
	}
	if v, ok := args["full_path"].(bool); ok {
		q.FullPath = v
	}
	if v, ok := args["exclude"].([]any); ok {
		for _, item := range v {
			if s, ok := item.(string); ok {
				q.Exclude = append(q.Exclude, s)
			}
		}
	}
	if v, ok := args["limit"].(float64); ok && v > 0 {
		q.Limit = int(v)
	}
	return q
}

// NewFindFilesTool creates the find_files tool over the search engine.
// maxResults caps the match count unless the caller passes a smaller
// limit of its own.
func NewFindFilesTool(e *Engine, paths *session.Paths, maxResults int) engine.Tool {
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	return engine.Tool{
		Name:        "find_files",
		Description: "Finds files and directories by name, type, depth, size and modification time. Honors .gitignore exclusions and falls back across search backends automatically.",
		SchemaJSON:  findFilesSchema,
		RiskLevel:   engine.RiskLow,
		Fn: func(ctx context.Context, args map[string]any, call engine.Call) (any, error) {
			q := queryFromArgs(args, maxResults)
			if q.Limit > maxResults {
				q.Limit = maxResults
			}
			if q.Path != "" {
				resolved, err := paths.ResolvePath(call.Key(), q.Path, session.ResolveOptions{})
				if err != nil {
					return nil, engine.NewDomainError("file_not_found", err.Error(), map[string]any{"path": q.Path})
				}
				q.Path = resolved
			}
			matches, err := e.Find(ctx, q)
			if err != nil {
				return nil, err
			}
			return map[string]any{
				"pattern": q.Pattern,
				"matches": matches,
				"count":   len(matches),
			}, nil
		},
		Summarize: func(result any) string {
			if m, ok := result.(map[string]any); ok {
				return fmt.Sprintf("found %v match(es) for %q", m["count"], m["pattern"])
			}
			return ""
		},
		Metadata: engine.ToolMetadata{
			Category: "search",
			Tags:     []string{"read-only", "idempotent"},
		},
	}
}
