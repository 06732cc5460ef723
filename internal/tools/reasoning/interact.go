// Package reasoning holds the side-effect-free meta tools: recording a
// thought and asking the user a question.
package reasoning

import (
	"context"
	"fmt"

	"github.com/ChamsBouzaiene/magpie/internal/engine"
)

// NewThinkTool creates the think tool. It records the agent's reasoning
// so it shows up in the lifecycle log; it has no other effect.
func NewThinkTool() engine.Tool {
	return engine.Tool{
		Name:        "think",
		Description: "Record your reasoning and thought process. Use this before making changes to explain what you are about to do and why.",
		SchemaJSON: `{
			"type": "object",
			"additionalProperties": false,
			"properties": {
				"reasoning": {"type": "string", "description": "Your reasoning or plan. Include file and function names when relevant."}
			},
			"required": ["reasoning"]
		}`,
		RiskLevel: engine.RiskLow,
		Fn: func(ctx context.Context, args map[string]any, call engine.Call) (any, error) {
			reasoning, ok := args["reasoning"].(string)
			if !ok || reasoning == "" {
				return nil, fmt.Errorf("reasoning must be a non-empty string")
			}
			return map[string]any{"status": "noted"}, nil
		},
		Summarize: func(any) string { return "reasoning noted" },
		Metadata: engine.ToolMetadata{
			Category: "meta",
			Tags:     []string{"read-only", "idempotent"},
		},
	}
}

// NewAskUserTool creates the ask_user tool. The runtime does not talk
// to the user directly; the returned payload tells the orchestrator to
// relay the question and come back with the answer.
func NewAskUserTool() engine.Tool {
	return engine.Tool{
		Name:        "ask_user",
		Description: "Asks the user a clarifying question. Use when the task is ambiguous and guessing would waste work.",
		SchemaJSON: `{
			"type": "object",
			"additionalProperties": false,
			"properties": {
				"question": {"type": "string", "description": "The question to put to the user"},
				"options": {"type": "array", "items": {"type": "string"}, "description": "Optional fixed choices"}
			},
			"required": ["question"]
		}`,
		RiskLevel: engine.RiskLow,
		Fn: func(ctx context.Context, args map[string]any, call engine.Call) (any, error) {
			question, ok := args["question"].(string)
			if !ok || question == "" {
				return nil, fmt.Errorf("question must be a non-empty string")
			}
			payload := map[string]any{
				"question": question,
			}
			if opts, ok := args["options"].([]any); ok && len(opts) > 0 {
				payload["options"] = opts
			}
			return payload, nil
		},
		Summarize: func(result any) string {
			if m, ok := result.(map[string]any); ok {
				return fmt.Sprintf("asked: %v", m["question"])
			}
			return ""
		},
		Metadata: engine.ToolMetadata{
			Category: "meta",
			Tags:     []string{"read-only"},
		},
	}
}
