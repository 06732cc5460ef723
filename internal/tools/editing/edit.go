package editing

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ChamsBouzaiene/magpie/internal/engine"
	"github.com/ChamsBouzaiene/magpie/internal/session"
	"github.com/ChamsBouzaiene/magpie/internal/tools/filesystem"
)

const editFileSchema = `{
	"type": "object",
	"additionalProperties": false,
	"properties": {
		"path": {"type": "string", "description": "File to edit, relative to the session working directory"},
		"operations": {
			"type": "array",
			"minItems": 1,
			"items": {"type": "object"},
			"description": "Ordered edit operations: replace_lines, replace_pattern, insert, delete_lines"
		}
	},
	"required": ["path", "operations"]
}`

// fileSnapshot is a file decomposed into lines plus enough shape to
// re-serialize it faithfully.
type fileSnapshot struct {
	path       string
	lines      []string
	trailingNL bool
}

func loadSnapshot(fs filesystem.FileSystem, paths *session.Paths, call engine.Call, rawPath string) (*fileSnapshot, error) {
	path, err := paths.ResolvePath(call.Key(), rawPath, session.ResolveOptions{})
	if err != nil {
		return nil, engine.NewDomainError("file_not_found", err.Error(), map[string]any{"path": rawPath})
	}
	content, err := fs.ReadFile(path)
	if err != nil {
		return nil, engine.NewDomainError("file_unreadable",
			fmt.Sprintf("failed to read %s: %v", path, err), map[string]any{"path": path})
	}

	text := string(content)
	snap := &fileSnapshot{path: path, trailingNL: strings.HasSuffix(text, "\n")}
	if text != "" {
		snap.lines = strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	}
	return snap, nil
}

func (s *fileSnapshot) serialize(lines []string) string {
	out := strings.Join(lines, "\n")
	if s.trailingNL && out != "" {
		out += "\n"
	}
	return out
}

func decodeOpsArg(args map[string]any) ([]Operation, error) {
	raw, err := json.Marshal(args["operations"])
	if err != nil {
		return nil, fmt.Errorf("failed to re-encode operations: %w", err)
	}
	return DecodeOperations(raw)
}

// NewEditFileTools builds the edit_file approval pair. The proposal
// applies the batch in memory and returns a diff preview; only the
// hidden commit half writes the file.
func NewEditFileTools(fs filesystem.FileSystem, paths *session.Paths, limits Limits) []engine.Tool {
	runBatch := func(args map[string]any, call engine.Call) (*fileSnapshot, []string, []string, error) {
		rawPath, ok := args["path"].(string)
		if !ok {
			return nil, nil, nil, fmt.Errorf("path must be a string")
		}
		snap, err := loadSnapshot(fs, paths, call, rawPath)
		if err != nil {
			return nil, nil, nil, err
		}
		ops, err := decodeOpsArg(args)
		if err != nil {
			return nil, nil, nil, err
		}
		edited, applied, err := Apply(snap.lines, ops, limits)
		if err != nil {
			return nil, nil, nil, err
		}
		return snap, edited, applied, nil
	}

	tool := engine.Tool{
		Name:        "edit_file",
		Description: "Applies an ordered batch of typed text edits to a file. Returns a diff preview and asks for confirmation; nothing is written until the edit is confirmed.",
		SchemaJSON:  editFileSchema,
		RiskLevel:   engine.RiskMedium,
		Metadata: engine.ToolMetadata{
			Category: "editing",
			Tags:     []string{"write", "side-effect"},
		},
	}

	propose := func(ctx context.Context, args map[string]any, call engine.Call) (string, error) {
		snap, edited, applied, err := runBatch(args, call)
		if err != nil {
			return "", err
		}
		diff := UnifiedDiff(snap.path, snap.lines, edited)
		return fmt.Sprintf("Apply %d edit(s) to %s?\n%s\n%s\nConfirm by calling %s%s with the same arguments.",
			len(applied), snap.path, strings.Join(applied, "; "), diff,
			engine.CommitPrefix, tool.Name), nil
	}

	commit := func(ctx context.Context, args map[string]any, call engine.Call) (any, error) {
		snap, edited, applied, err := runBatch(args, call)
		if err != nil {
			return nil, err
		}
		if err := fs.WriteFile(snap.path, []byte(snap.serialize(edited)), 0644); err != nil {
			return nil, engine.NewDomainError("file_unwritable",
				fmt.Sprintf("failed to write %s: %v", snap.path, err), map[string]any{"path": snap.path})
		}
		return map[string]any{
			"path":    snap.path,
			"applied": applied,
			"lines":   len(edited),
		}, nil
	}

	pair := engine.NewApprovalPair(tool, propose, commit)
	pair[1].Summarize = func(result any) string {
		if m, ok := result.(map[string]any); ok {
			if applied, ok := m["applied"].([]string); ok {
				return fmt.Sprintf("applied %d edit(s) to %v", len(applied), m["path"])
			}
		}
		return ""
	}
	return pair
}
