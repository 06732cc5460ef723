package filesystem

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/ChamsBouzaiene/magpie/internal/engine"
	"github.com/ChamsBouzaiene/magpie/internal/session"
)

const writeFileSchema = `{
	"type": "object",
	"additionalProperties": false,
	"properties": {
		"path": {"type": "string", "description": "File to write"},
		"content": {"type": "string", "description": "Full file content"}
	},
	"required": ["path", "content"]
}`

// NewWriteFileTools builds the write_file approval pair. The proposal
// only describes the write (with an overwrite warning when the target
// exists); the hidden commit performs it.
func NewWriteFileTools(fs FileSystem, paths *session.Paths) []engine.Tool {
	tool := engine.Tool{
		Name:        "write_file",
		Description: "Writes full content to a file, creating parent directories as needed. Asks for confirmation before touching disk.",
		SchemaJSON:  writeFileSchema,
		RiskLevel:   engine.RiskMedium,
		Metadata: engine.ToolMetadata{
			Category: "filesystem",
			Tags:     []string{"write", "side-effect"},
		},
	}

	resolve := func(args map[string]any, call engine.Call) (string, error) {
		rawPath, ok := args["path"].(string)
		if !ok {
			return "", fmt.Errorf("path must be a string")
		}
		return paths.ResolvePath(call.Key(), rawPath, session.ResolveOptions{SkipExistenceCheck: true})
	}

	propose := func(ctx context.Context, args map[string]any, call engine.Call) (string, error) {
		path, err := resolve(args, call)
		if err != nil {
			return "", err
		}
		content, _ := args["content"].(string)
		warning := ""
		if Exists(fs, path) {
			warning = " WARNING: the file exists and will be overwritten."
		}
		return fmt.Sprintf("Write %d bytes to %s?%s Confirm by calling %swrite_file with the same arguments.",
			len(content), path, warning, engine.CommitPrefix), nil
	}

	commit := func(ctx context.Context, args map[string]any, call engine.Call) (any, error) {
		path, err := resolve(args, call)
		if err != nil {
			return nil, err
		}
		content, _ := args["content"].(string)

		if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, engine.NewDomainError("file_unwritable",
				fmt.Sprintf("failed to create parent directory for %s: %v", path, err),
				map[string]any{"path": path})
		}
		if err := fs.WriteFile(path, []byte(content), 0644); err != nil {
			return nil, engine.NewDomainError("file_unwritable",
				fmt.Sprintf("failed to write %s: %v", path, err), map[string]any{"path": path})
		}
		return map[string]any{"path": path, "bytes": len(content)}, nil
	}

	pair := engine.NewApprovalPair(tool, propose, commit)
	pair[1].Summarize = func(result any) string {
		if m, ok := result.(map[string]any); ok {
			return fmt.Sprintf("wrote %v bytes to %v", m["bytes"], m["path"])
		}
		return ""
	}
	return pair
}
