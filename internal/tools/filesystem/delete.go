package filesystem

import (
	"context"
	"fmt"

	"github.com/ChamsBouzaiene/magpie/internal/engine"
	"github.com/ChamsBouzaiene/magpie/internal/session"
)

const deleteFileSchema = `{
	"type": "object",
	"additionalProperties": false,
	"properties": {
		"path": {"type": "string", "description": "File or directory to delete"},
		"recursive": {"type": "boolean", "description": "Delete directories and their contents"},
		"force": {"type": "boolean", "description": "Do not fail when the path is already gone"}
	},
	"required": ["path"]
}`

// NewDeleteFileTools builds the delete_file approval pair. Like
// move_file, the commit refuses the home directory and filesystem
// roots; force only relaxes the already-gone check.
func NewDeleteFileTools(fs FileSystem, paths *session.Paths) []engine.Tool {
	tool := engine.Tool{
		Name:        "delete_file",
		Description: "Deletes a file, or a directory when recursive is set. Asks for confirmation before touching disk.",
		SchemaJSON:  deleteFileSchema,
		RiskLevel:   engine.RiskHigh,
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
		if err := protectedPathError(path); err != nil {
			return "", err
		}
		recursive, _ := args["recursive"].(bool)
		kind := "file"
		if info, statErr := fs.Stat(path); statErr == nil && info.IsDir() {
			kind = "directory"
			if !recursive {
				return "", engine.NewDomainError("is_directory",
					fmt.Sprintf("%s is a directory; pass recursive to delete it", path),
					map[string]any{"path": path})
			}
		}
		return fmt.Sprintf("Delete %s %s? This cannot be undone. Confirm by calling %sdelete_file with the same arguments.",
			kind, path, engine.CommitPrefix), nil
	}

	commit := func(ctx context.Context, args map[string]any, call engine.Call) (any, error) {
		path, err := resolve(args, call)
		if err != nil {
			return nil, err
		}
		recursive, _ := args["recursive"].(bool)
		force, _ := args["force"].(bool)

		if err := protectedPathError(path); err != nil {
			return nil, err
		}

		info, statErr := fs.Stat(path)
		if statErr != nil {
			if force {
				return map[string]any{"path": path, "deleted": false}, nil
			}
			return nil, engine.NewDomainError("file_not_found",
				fmt.Sprintf("%s does not exist", path), map[string]any{"path": path})
		}

		if info.IsDir() {
			if !recursive {
				return nil, engine.NewDomainError("is_directory",
					fmt.Sprintf("%s is a directory; pass recursive to delete it", path),
					map[string]any{"path": path})
			}
			err = fs.RemoveAll(path)
		} else {
			err = fs.Remove(path)
		}
		if err != nil {
			// A real failure stays a failure, force or not.
			return nil, engine.NewDomainError("delete_failed",
				fmt.Sprintf("failed to delete %s: %v", path, err), map[string]any{"path": path})
		}
		return map[string]any{"path": path, "deleted": true}, nil
	}

	pair := engine.NewApprovalPair(tool, propose, commit)
	pair[1].Summarize = func(result any) string {
		if m, ok := result.(map[string]any); ok {
			return fmt.Sprintf("deleted %v", m["path"])
		}
		return ""
	}
	return pair
}
