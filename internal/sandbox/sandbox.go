// Package sandbox runs external binaries on behalf of tools: every
// spawn carries a mandatory timeout and a sanitized copy of the
// ambient environment.
package sandbox

import (
	"context"
	"time"
)

// Result captures the outcome of a spawned process.
type Result struct {
	Stdout   string
	Stderr   string
	Code     int
	TimedOut bool
}

// Runner defines the interface for running commands. It allows mocking
// process execution in tests.
type Runner interface {
	RunCmd(ctx context.Context, dir, name string, args []string, timeout time.Duration) (Result, error)
}

// NewDefaultRunner returns the host runner.
func NewDefaultRunner() Runner {
	return &HostRunner{}
}
