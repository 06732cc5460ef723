package search

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ChamsBouzaiene/magpie/internal/engine"
	"github.com/ChamsBouzaiene/magpie/internal/sandbox"
	"github.com/ChamsBouzaiene/magpie/internal/session"
)

const defaultMaxGrepResults = 100

// GrepResult is one content-search hit.
type GrepResult struct {
	Path    string `json:"path"`
	Line    int    `json:"line"`
	Content string `json:"content"`
}

// grepImpl searches file contents with ripgrep, falling back to plain
// grep when rg is unavailable or fails outside the expected exit range.
func grepImpl(ctx context.Context, runner sandbox.Runner, probe *ProbeCache, dir, pattern string, caseInsensitive bool) ([]GrepResult, error) {
	if probe.Available("rg") {
		results, err := runRipgrep(ctx, runner, dir, pattern, caseInsensitive)
		if err == nil {
			return results, nil
		}
	}
	return runGrep(ctx, runner, dir, pattern, caseInsensitive)
}

func runRipgrep(ctx context.Context, runner sandbox.Runner, dir, pattern string, caseInsensitive bool) ([]GrepResult, error) {
	args := []string{"--json"}
	if caseInsensitive {
		args = append(args, "-i")
	}
	args = append(args, "-e", pattern, ".")

	res, err := runner.RunCmd(ctx, dir, "rg", args, searchTimeout)
	if err != nil {
		// Exit code 1 just means no matches.
		if res.Code == 1 {
			return []GrepResult{}, nil
		}
		return nil, fmt.Errorf("rg failed: %v, stderr: %s", err, res.Stderr)
	}

	// rg --json outputs one JSON object per line.
	type rgMatch struct {
		Type string `json:"type"`
		Data struct {
			Path struct {
				Text string `json:"text"`
			} `json:"path"`
			Lines struct {
				Text string `json:"text"`
			} `json:"lines"`
			LineNumber int `json:"line_number"`
		} `json:"data"`
	}

	results := make([]GrepResult, 0)
	for _, line := range strings.Split(res.Stdout, "\n") {
		if line == "" {
			continue
		}
		var msg rgMatch
		if err := json.Unmarshal([]byte(line), &msg); err != nil {
			continue
		}
		if msg.Type == "match" {
			results = append(results, GrepResult{
				Path:    msg.Data.Path.Text,
				Line:    msg.Data.LineNumber,
				Content: strings.TrimSpace(msg.Data.Lines.Text),
			})
		}
	}
	return results, nil
}

func runGrep(ctx context.Context, runner sandbox.Runner, dir, pattern string, caseInsensitive bool) ([]GrepResult, error) {
	args := []string{"-rn"}
	if caseInsensitive {
		args = append(args, "-i")
	}
	args = append(args, "-e", pattern, ".")

	res, err := runner.RunCmd(ctx, dir, "grep", args, searchTimeout)
	if err != nil {
		if res.Code == 1 {
			return []GrepResult{}, nil
		}
		return nil, fmt.Errorf("grep failed: %v, stderr: %s", err, res.Stderr)
	}

	results := make([]GrepResult, 0)
	for _, line := range strings.Split(res.Stdout, "\n") {
		if line == "" {
			continue
		}
		// path:line:content
		parts := strings.SplitN(line, ":", 3)
		if len(parts) != 3 {
			continue
		}
		var lineNo int
		if _, err := fmt.Sscanf(parts[1], "%d", &lineNo); err != nil {
			continue
		}
		results = append(results, GrepResult{
			Path:    parts[0],
			Line:    lineNo,
			Content: strings.TrimSpace(parts[2]),
		})
	}
	return results, nil
}

// NewGrepTool creates the content-search tool. maxResults caps the hit
// count returned per call.
func NewGrepTool(runner sandbox.Runner, probe *ProbeCache, paths *session.Paths, maxResults int) engine.Tool {
	if maxResults <= 0 {
		maxResults = defaultMaxGrepResults
	}
	return engine.Tool{
		Name:        "grep",
		Description: "Fast, regex-based content search using ripgrep, with a grep fallback. Use this to find code patterns, definitions or references.",
		SchemaJSON: `{
			"type": "object",
			"additionalProperties": false,
			"properties": {
				"pattern": {"type": "string", "description": "Regex pattern to search for"},
				"path": {"type": "string", "description": "Directory to search (default: session cwd)"},
				"case_insensitive": {"type": "boolean", "description": "Case-insensitive search"}
			},
			"required": ["pattern"]
		}`,
		RiskLevel: engine.RiskLow,
		Fn: func(ctx context.Context, args map[string]any, call engine.Call) (any, error) {
			pattern, ok := args["pattern"].(string)
			if !ok {
				return nil, fmt.Errorf("pattern must be a string")
			}
			dir := paths.GetCwd(call.Key())
			if p, ok := args["path"].(string); ok && p != "" {
				resolved, err := paths.ResolvePath(call.Key(), p, session.ResolveOptions{})
				if err != nil {
					return nil, engine.NewDomainError("file_not_found", err.Error(), map[string]any{"path": p})
				}
				dir = resolved
			}
			caseInsensitive, _ := args["case_insensitive"].(bool)

			results, err := grepImpl(ctx, runner, probe, dir, pattern, caseInsensitive)
			if err != nil {
				return nil, err
			}
			truncated := false
			if len(results) > maxResults {
				results = results[:maxResults]
				truncated = true
			}
			return map[string]any{
				"pattern":   pattern,
				"results":   results,
				"count":     len(results),
				"truncated": truncated,
			}, nil
		},
		Summarize: func(result any) string {
			if m, ok := result.(map[string]any); ok {
				return fmt.Sprintf("%v match(es) for %q", m["count"], m["pattern"])
			}
			return ""
		},
		Metadata: engine.ToolMetadata{
			Category: "search",
			Tags:     []string{"read-only", "idempotent"},
		},
	}
}
