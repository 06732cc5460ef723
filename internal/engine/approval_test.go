package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewApprovalPair(t *testing.T) {
	base := Tool{
		Name:        "write_thing",
		Description: "writes a thing",
		SchemaJSON:  `{"type":"object","additionalProperties":false,"properties":{"path":{"type":"string"}},"required":["path"]}`,
		RiskLevel:   RiskMedium,
	}

	committed := false
	pair := NewApprovalPair(base,
		func(ctx context.Context, args map[string]any, call Call) (string, error) {
			return "confirm writing " + args["path"].(string), nil
		},
		func(ctx context.Context, args map[string]any, call Call) (any, error) {
			committed = true
			return "done", nil
		},
	)
	require.Len(t, pair, 2)

	proposal, commit := pair[0], pair[1]
	assert.Equal(t, "write_thing", proposal.Name)
	assert.False(t, proposal.Hidden)
	assert.Equal(t, "execute_write_thing", commit.Name)
	assert.True(t, commit.Hidden)
	// The pair shares one schema so replayed args validate identically.
	assert.Equal(t, proposal.SchemaJSON, commit.SchemaJSON)

	args := map[string]any{"path": "/tmp/t"}
	value, err := proposal.Fn(context.Background(), args, Call{AgentID: "a"})
	require.NoError(t, err)

	req, ok := value.(*ApprovalRequest)
	require.True(t, ok)
	assert.Equal(t, "confirm writing /tmp/t", req.Message)
	assert.Equal(t, args, req.ReplayArgs)
	assert.False(t, committed, "the proposal half must not perform the effect")

	_, err = commit.Fn(context.Background(), args, Call{AgentID: "a"})
	require.NoError(t, err)
	assert.True(t, committed)
}

func TestCallKey(t *testing.T) {
	assert.Equal(t, "a", Call{AgentID: "a"}.Key())
	assert.Equal(t, "a:c", Call{AgentID: "a", ConversationID: "c"}.Key())
}
