package search

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProbeCacheMemoizes(t *testing.T) {
	lookups := 0
	probe := NewProbeCacheWithLookup(func(name string) (string, error) {
		lookups++
		if name == "fd" {
			return "/usr/bin/fd", nil
		}
		return "", errors.New("not found")
	})

	assert.True(t, probe.Available("fd"))
	assert.True(t, probe.Available("fd"))
	assert.True(t, probe.Available("fd"))
	assert.Equal(t, 1, lookups, "one probe per binary, ever")

	// Negative results are cached too.
	assert.False(t, probe.Available("rg"))
	assert.False(t, probe.Available("rg"))
	assert.Equal(t, 2, lookups)
}
