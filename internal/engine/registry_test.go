package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noopTool(name string, hidden bool, category string) Tool {
	return Tool{
		Name:        name,
		Description: "test tool " + name,
		SchemaJSON:  `{"type":"object","additionalProperties":false}`,
		Hidden:      hidden,
		Fn: func(ctx context.Context, args map[string]any, call Call) (any, error) {
			return "ok", nil
		},
		Metadata: ToolMetadata{Category: category},
	}
}

func TestRegistryHiddenVisibility(t *testing.T) {
	reg := NewRegistry()
	reg.Register(noopTool("visible", false, "a"), "a")
	reg.Register(noopTool("execute_visible", true, "a"), "a")

	assert.Equal(t, []string{"visible"}, reg.ListVisible())
	assert.Equal(t, []string{"execute_visible", "visible"}, reg.ListAll())

	defs := reg.Definitions()
	require.Len(t, defs, 1)
	assert.Equal(t, "visible", defs[0].Name)

	// Hidden tools stay retrievable by exact name.
	hiddenTool, err := reg.Get("execute_visible")
	require.NoError(t, err)
	assert.True(t, hiddenTool.Hidden)
}

func TestRegistryGetUnknown(t *testing.T) {
	reg := NewRegistry()
	reg.Register(noopTool("alpha", false, ""), "")

	_, err := reg.Get("beta")
	require.Error(t, err)

	var notFound *ToolNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "beta", notFound.Name)
	assert.Contains(t, err.Error(), "alpha") // remediation hint
}

func TestRegistryDefinitionsMemoized(t *testing.T) {
	reg := NewRegistry()
	reg.Register(noopTool("one", false, ""), "")

	first := reg.Definitions()
	second := reg.Definitions()
	require.Len(t, first, 1)
	// Same cached backing slice until a registration invalidates it.
	assert.Same(t, &first[0], &second[0])

	reg.Register(noopTool("two", false, ""), "")
	third := reg.Definitions()
	assert.Len(t, third, 2)
}

func TestRegistryRegisterOverwrites(t *testing.T) {
	reg := NewRegistry()
	reg.Register(noopTool("dup", false, ""), "")

	replacement := noopTool("dup", false, "")
	replacement.Description = "replaced"
	reg.Register(replacement, "")

	got, err := reg.Get("dup")
	require.NoError(t, err)
	assert.Equal(t, "replaced", got.Description)
	assert.Len(t, reg.ListAll(), 1)
}

func TestRegistryByCategoryOrdering(t *testing.T) {
	reg := NewRegistry()
	reg.Register(noopTool("zeta", false, ""), "search")
	reg.Register(noopTool("alpha", false, ""), "search")
	reg.Register(noopTool("mid", false, ""), "editing")
	reg.Register(noopTool("ghost", true, ""), "editing")

	cats, groups := reg.ByCategory()
	assert.Equal(t, []string{"editing", "search"}, cats)
	assert.Equal(t, []string{"mid"}, groups["editing"])
	assert.Equal(t, []string{"alpha", "zeta"}, groups["search"])
}
