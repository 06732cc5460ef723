// Package execution exposes external command execution as an
// approval-gated tool.
package execution

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ChamsBouzaiene/magpie/internal/engine"
	"github.com/ChamsBouzaiene/magpie/internal/sandbox"
	"github.com/ChamsBouzaiene/magpie/internal/session"
)

const runCmdSchema = `{
	"type": "object",
	"additionalProperties": false,
	"properties": {
		"command": {"type": "string", "description": "Executable name, e.g. \"go\""},
		"args": {"type": "array", "items": {"type": "string"}, "description": "Arguments"},
		"timeout_sec": {"type": "integer", "description": "Timeout in seconds (default from config)"}
	},
	"required": ["command"]
}`

// NewRunCmdTools builds the run_cmd approval pair. The spawned process
// gets a sanitized environment and a mandatory timeout.
func NewRunCmdTools(runner sandbox.Runner, paths *session.Paths, defaultTimeout time.Duration) []engine.Tool {
	tool := engine.Tool{
		Name:        "run_cmd",
		Description: "Runs an external command in the session working directory. Asks for confirmation before executing.",
		SchemaJSON:  runCmdSchema,
		RiskLevel:   engine.RiskHigh,
		Metadata: engine.ToolMetadata{
			Category: "execution",
			Tags:     []string{"side-effect"},
		},
	}

	parse := func(args map[string]any) (command string, cmdArgs []string, timeout time.Duration, err error) {
		command, ok := args["command"].(string)
		if !ok || command == "" {
			return "", nil, 0, fmt.Errorf("command must be a non-empty string")
		}
		if raw, ok := args["args"].([]any); ok {
			for _, item := range raw {
				if s, ok := item.(string); ok {
					cmdArgs = append(cmdArgs, s)
				}
			}
		}
		timeout = defaultTimeout
		if v, ok := args["timeout_sec"].(float64); ok && v > 0 {
			timeout = time.Duration(v) * time.Second
		}
		return command, cmdArgs, timeout, nil
	}

	propose := func(ctx context.Context, args map[string]any, call engine.Call) (string, error) {
		command, cmdArgs, timeout, err := parse(args)
		if err != nil {
			return "", err
		}
		cwd := paths.GetCwd(call.Key())
		return fmt.Sprintf("Run `%s %s` in %s (timeout %s)? Confirm by calling %srun_cmd with the same arguments.",
			command, strings.Join(cmdArgs, " "), cwd, timeout, engine.CommitPrefix), nil
	}

	commit := func(ctx context.Context, args map[string]any, call engine.Call) (any, error) {
		command, cmdArgs, timeout, err := parse(args)
		if err != nil {
			return nil, err
		}
		cwd := paths.GetCwd(call.Key())

		res, runErr := runner.RunCmd(ctx, cwd, command, cmdArgs, timeout)
		if res.TimedOut {
			return nil, engine.NewDomainError("timeout",
				fmt.Sprintf("command %s timed out after %s", command, timeout),
				map[string]any{"command": command, "timeout": timeout.String()})
		}
		if runErr != nil && res.Stdout == "" && res.Stderr == "" {
			return nil, fmt.Errorf("failed to run %s: %w", command, runErr)
		}
		return map[string]any{
			"command":   command,
			"exit_code": res.Code,
			"stdout":    res.Stdout,
			"stderr":    res.Stderr,
		}, nil
	}

	pair := engine.NewApprovalPair(tool, propose, commit)
	pair[1].Summarize = func(result any) string {
		if m, ok := result.(map[string]any); ok {
			return fmt.Sprintf("%v exited with code %v", m["command"], m["exit_code"])
		}
		return ""
	}
	return pair
}
