package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/ChamsBouzaiene/magpie/internal/engine"
	"github.com/ChamsBouzaiene/magpie/internal/session"
)

const defaultListLimit = 1000

func listFilesImpl(fsys FileSystem, paths *session.Paths, call engine.Call, rawPath string, recursive bool, limit int) (map[string]any, error) {
	if rawPath == "" {
		rawPath = "."
	}
	root, err := paths.ResolvePath(call.Key(), rawPath, session.ResolveOptions{})
	if err != nil {
		return nil, engine.NewDomainError("file_not_found", err.Error(), map[string]any{"path": rawPath})
	}
	if limit <= 0 {
		limit = defaultListLimit
	}

	var entries []string
	truncated := false

	if !recursive {
		dirEntries, err := fsys.ReadDir(root)
		if err != nil {
			return nil, engine.NewDomainError("file_unreadable",
				fmt.Sprintf("failed to list %s: %v", root, err), map[string]any{"path": root})
		}
		for _, e := range dirEntries {
			if strings.HasPrefix(e.Name(), ".") {
				continue
			}
			if len(entries) >= limit {
				truncated = true
				break
			}
			entries = append(entries, e.Name())
		}
	} else {
		err := fsys.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if path == root {
				return nil
			}
			if strings.HasPrefix(d.Name(), ".") {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				return nil
			}
			if len(entries) >= limit {
				truncated = true
				return filepath.SkipAll
			}
			entries = append(entries, rel)
			return nil
		})
		if err != nil {
			return nil, engine.NewDomainError("file_unreadable",
				fmt.Sprintf("failed to walk %s: %v", root, err), map[string]any{"path": root})
		}
	}

	return map[string]any{
		"path":      root,
		"files":     entries,
		"count":     len(entries),
		"truncated": truncated,
	}, nil
}

// NewListFilesTool creates the list_files tool.
func NewListFilesTool(fsys FileSystem, paths *session.Paths) engine.Tool {
	return engine.Tool{
		Name:        "list_files",
		Description: "Lists files and directories under a path, optionally recursively. Hidden entries are skipped.",
		SchemaJSON: `{
			"type": "object",
			"additionalProperties": false,
			"properties": {
				"path": {"type": "string", "description": "Directory to list (default: session cwd)"},
				"recursive": {"type": "boolean", "description": "Walk subdirectories"},
				"limit": {"type": "integer", "description": "Maximum number of entries"}
			}
		}`,
		RiskLevel: engine.RiskLow,
		Fn: func(ctx context.Context, args map[string]any, call engine.Call) (any, error) {
			rawPath, _ := args["path"].(string)
			recursive, _ := args["recursive"].(bool)
			limit := 0
			if v, ok := args["limit"].(float64); ok {
				limit = int(v)
			}
			return listFilesImpl(fsys, paths, call, rawPath, recursive, limit)
		},
		Summarize: func(result any) string {
			if m, ok := result.(map[string]any); ok {
				return fmt.Sprintf("listed %v entries under %v", m["count"], m["path"])
			}
			return ""
		},
		Metadata: engine.ToolMetadata{
			Category: "filesystem",
			Tags:     []string{"read-only", "idempotent"},
		},
	}
}
