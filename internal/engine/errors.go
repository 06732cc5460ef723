// Package engine provides the tool abstraction, registry and execution
// engine of the runtime.
package engine

import (
	"fmt"
	"strings"
)

// ToolNotFoundError indicates a lookup for a name no tool is registered
// under.
type ToolNotFoundError struct {
	Name  string
	Known []string
}

func (e *ToolNotFoundError) Error() string {
	if len(e.Known) == 0 {
		return fmt.Sprintf("tool %q not found", e.Name)
	}
	return fmt.Sprintf("tool %q not found; known tools: %s", e.Name, strings.Join(e.Known, ", "))
}

// ToolValidationError indicates that tool arguments failed JSON schema
// validation.
type ToolValidationError struct {
	ToolName string
	Errors   []string
}

func (e *ToolValidationError) Error() string {
	return fmt.Sprintf("tool %s validation failed: %s", e.ToolName, strings.Join(e.Errors, "; "))
}

// DomainError is an expected, named failure condition raised
// deliberately by a handler. Kind is a stable discriminator the caller
// can branch on; Detail carries structured context for retries.
type DomainError struct {
	Kind   string
	Msg    string
	Detail map[string]any
}

func (e *DomainError) Error() string { return e.Msg }

// NewDomainError creates a DomainError with the given discriminator.
func NewDomainError(kind, msg string, detail map[string]any) *DomainError {
	return &DomainError{Kind: kind, Msg: msg, Detail: detail}
}
