package filesystem

import (
	"context"
	"fmt"

	"github.com/ChamsBouzaiene/magpie/internal/engine"
	"github.com/ChamsBouzaiene/magpie/internal/session"
)

const moveFileSchema = `{
	"type": "object",
	"additionalProperties": false,
	"properties": {
		"source": {"type": "string", "description": "Existing file or directory to move"},
		"destination": {"type": "string", "description": "New path"},
		"force": {"type": "boolean", "description": "Overwrite an existing destination"}
	},
	"required": ["source", "destination"]
}`

// NewMoveFileTools builds the move_file approval pair. The commit
// refuses to move the home directory or a filesystem root no matter
// what force says; force only skips the destination-exists check.
func NewMoveFileTools(fs FileSystem, paths *session.Paths) []engine.Tool {
	tool := engine.Tool{
		Name:        "move_file",
		Description: "Moves or renames a file or directory. Asks for confirmation before touching disk.",
		SchemaJSON:  moveFileSchema,
		RiskLevel:   engine.RiskHigh,
		Metadata: engine.ToolMetadata{
			Category: "filesystem",
			Tags:     []string{"write", "side-effect"},
		},
	}

	resolve := func(args map[string]any, call engine.Call) (src, dst string, err error) {
		rawSrc, ok := args["source"].(string)
		if !ok {
			return "", "", fmt.Errorf("source must be a string")
		}
		rawDst, ok := args["destination"].(string)
		if !ok {
			return "", "", fmt.Errorf("destination must be a string")
		}
		src, err = paths.ResolvePath(call.Key(), rawSrc, session.ResolveOptions{})
		if err != nil {
			return "", "", engine.NewDomainError("file_not_found", err.Error(), map[string]any{"path": rawSrc})
		}
		dst, err = paths.ResolvePath(call.Key(), rawDst, session.ResolveOptions{SkipExistenceCheck: true})
		if err != nil {
			return "", "", err
		}
		return src, dst, nil
	}

	propose := func(ctx context.Context, args map[string]any, call engine.Call) (string, error) {
		src, dst, err := resolve(args, call)
		if err != nil {
			return "", err
		}
		if err := protectedPathError(src); err != nil {
			return "", err
		}
		warning := ""
		if Exists(fs, dst) {
			warning = " WARNING: the destination exists; pass force to overwrite it."
		}
		return fmt.Sprintf("Move %s to %s?%s Confirm by calling %smove_file with the same arguments.",
			src, dst, warning, engine.CommitPrefix), nil
	}

	commit := func(ctx context.Context, args map[string]any, call engine.Call) (any, error) {
		src, dst, err := resolve(args, call)
		if err != nil {
			return nil, err
		}
		force, _ := args["force"].(bool)

		// Protected paths stay refused regardless of force.
		if err := protectedPathError(src); err != nil {
			return nil, err
		}
		if !force && Exists(fs, dst) {
			return nil, engine.NewDomainError("destination_exists",
				fmt.Sprintf("destination %s already exists", dst), map[string]any{"path": dst})
		}
		if err := fs.Rename(src, dst); err != nil {
			return nil, engine.NewDomainError("move_failed",
				fmt.Sprintf("failed to move %s to %s: %v", src, dst, err),
				map[string]any{"source": src, "destination": dst})
		}
		return map[string]any{"source": src, "destination": dst}, nil
	}

	pair := engine.NewApprovalPair(tool, propose, commit)
	pair[1].Summarize = func(result any) string {
		if m, ok := result.(map[string]any); ok {
			return fmt.Sprintf("moved %v to %v", m["source"], m["destination"])
		}
		return ""
	}
	return pair
}
