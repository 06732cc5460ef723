package filesystem

import (
	"context"
	"fmt"
	"strings"

	"github.com/ChamsBouzaiene/magpie/internal/engine"
	"github.com/ChamsBouzaiene/magpie/internal/session"
)

const maxReadBytes = 1 << 20 // 1 MiB

func readFileImpl(fs FileSystem, paths *session.Paths, call engine.Call, rawPath string) (map[string]any, error) {
	path, err := paths.ResolvePath(call.Key(), rawPath, session.ResolveOptions{})
	if err != nil {
		return nil, engine.NewDomainError("file_not_found", err.Error(), map[string]any{"path": rawPath})
	}

	content, err := fs.ReadFile(path)
	if err != nil {
		return nil, engine.NewDomainError("file_unreadable",
			fmt.Sprintf("failed to read %s: %v", path, err), map[string]any{"path": path})
	}

	truncated := false
	if len(content) > maxReadBytes {
		content = content[:maxReadBytes]
		truncated = true
	}

	return map[string]any{
		"path":      path,
		"content":   string(content),
		"lines":     strings.Count(string(content), "\n") + 1,
		"truncated": truncated,
	}, nil
}

// NewReadFileTool creates the read_file tool.
func NewReadFileTool(fs FileSystem, paths *session.Paths) engine.Tool {
	return engine.Tool{
		Name:        "read_file",
		Description: "Reads a text file and returns its content. Paths are resolved against the session working directory.",
		SchemaJSON: `{
			"type": "object",
			"additionalProperties": false,
			"properties": {
				"path": {"type": "string", "description": "File to read"}
			},
			"required": ["path"]
		}`,
		RiskLevel: engine.RiskLow,
		Fn: func(ctx context.Context, args map[string]any, call engine.Call) (any, error) {
			rawPath, ok := args["path"].(string)
			if !ok {
				return nil, fmt.Errorf("path must be a string")
			}
			return readFileImpl(fs, paths, call, rawPath)
		},
		Summarize: func(result any) string {
			if m, ok := result.(map[string]any); ok {
				return fmt.Sprintf("read %v (%v lines)", m["path"], m["lines"])
			}
			return ""
		},
		Metadata: engine.ToolMetadata{
			Category: "filesystem",
			Tags:     []string{"read-only", "idempotent"},
		},
	}
}
