package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChamsBouzaiene/magpie/internal/engine"
	"github.com/ChamsBouzaiene/magpie/internal/session"
)

func TestFindFilesToolHonorsConfiguredLimit(t *testing.T) {
	root := t.TempDir()
	paths := session.NewPaths()
	call := engine.Call{AgentID: "test"}
	require.NoError(t, paths.SetCwd(call.Key(), root))

	glob := &stubBackend{id: "glob", byRoot: map[string][]Match{
		root: {{Path: root + "/1"}, {Path: root + "/2"}, {Path: root + "/3"}},
	}}
	e := &Engine{glob: glob, fd: &stubBackend{id: "fd"}, findBk: &stubBackend{id: "find"}, probe: probeWith()}

	tool := NewFindFilesTool(e, paths, 2)
	result, err := tool.Fn(context.Background(), map[string]any{"pattern": "x", "path": root}, call)
	require.NoError(t, err)

	payload := result.(map[string]any)
	assert.Equal(t, 2, payload["count"], "the configured cap bounds the default limit")

	// A caller-supplied limit cannot exceed the cap either.
	result, err = tool.Fn(context.Background(), map[string]any{"pattern": "x", "path": root, "limit": float64(50)}, call)
	require.NoError(t, err)
	assert.Equal(t, 2, result.(map[string]any)["count"])
}
