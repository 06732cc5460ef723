package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistryAllTools(t *testing.T) {
	reg := NewRegistry(Deps{}, AllTools())

	visible := reg.ListVisible()
	assert.Equal(t, []string{
		"ask_user", "delete_file", "edit_file", "find_files", "grep",
		"list_files", "move_file", "read_file", "run_cmd", "think",
		"write_file",
	}, visible)

	// Every mutating proposal has its hidden commit twin.
	for _, name := range []string{"write_file", "move_file", "delete_file", "edit_file", "run_cmd"} {
		commit, err := reg.Get("execute_" + name)
		require.NoError(t, err)
		assert.True(t, commit.Hidden, name)
	}
}

func TestNewRegistrySubset(t *testing.T) {
	reg := NewRegistry(Deps{}, ToolSet{Search: true, Meta: true})

	assert.Equal(t, []string{"ask_user", "find_files", "grep", "think"}, reg.ListVisible())

	_, err := reg.Get("write_file")
	assert.Error(t, err)

	cats, groups := reg.ByCategory()
	assert.Equal(t, []string{"meta", "search"}, cats)
	assert.Equal(t, []string{"find_files", "grep"}, groups["search"])
}
