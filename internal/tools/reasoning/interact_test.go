package reasoning

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChamsBouzaiene/magpie/internal/engine"
)

func TestThinkTool(t *testing.T) {
	tool := NewThinkTool()
	result, err := tool.Fn(context.Background(), map[string]any{"reasoning": "rename the helper first"}, engine.Call{AgentID: "a"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"status": "noted"}, result)

	_, err = tool.Fn(context.Background(), map[string]any{"reasoning": ""}, engine.Call{AgentID: "a"})
	assert.Error(t, err)
}

func TestAskUserTool(t *testing.T) {
	tool := NewAskUserTool()
	result, err := tool.Fn(context.Background(), map[string]any{
		"question": "which database?",
		"options":  []any{"postgres", "sqlite"},
	}, engine.Call{AgentID: "a"})
	require.NoError(t, err)

	payload := result.(map[string]any)
	assert.Equal(t, "which database?", payload["question"])
	assert.Equal(t, []any{"postgres", "sqlite"}, payload["options"])

	result, err = tool.Fn(context.Background(), map[string]any{"question": "proceed?"}, engine.Call{AgentID: "a"})
	require.NoError(t, err)
	assert.NotContains(t, result.(map[string]any), "options")
}
