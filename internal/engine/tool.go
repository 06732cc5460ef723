package engine

import (
	"context"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// ToolFunc is the sole side-effecting entry point of a tool. It is only
// ever invoked with arguments that passed ValidateArgs.
type ToolFunc func(ctx context.Context, args map[string]any, call Call) (any, error)

// RiskLevel classifies how dangerous a tool invocation is.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// ToolMetadata provides categorization for tools.
type ToolMetadata struct {
	Category string   // e.g. "filesystem", "editing", "search"
	Tags     []string // e.g. ["read-only", "idempotent"]
}

// Tool is a named unit of work: a validation schema, a handler and a
// few classification attributes. Tools are built once at process start
// and never modified afterwards.
type Tool struct {
	Name        string
	Description string
	SchemaJSON  string
	Fn          ToolFunc
	// Hidden tools are omitted from the orchestrator-visible catalog
	// but stay invocable by name. Used for the commit half of
	// approval pairs.
	Hidden    bool
	RiskLevel RiskLevel
	// Summarize optionally turns a raw result into a short
	// human-readable line for logging.
	Summarize func(result any) string
	Metadata  ToolMetadata
}

// Call identifies the calling session.
type Call struct {
	AgentID        string
	ConversationID string
}

// Key returns a stable key for session-scoped state.
func (c Call) Key() string {
	if c.ConversationID == "" {
		return c.AgentID
	}
	return c.AgentID + ":" + c.ConversationID
}

// ValidateArgs validates the provided arguments against the tool's JSON
// schema. Schemas are closed: unknown fields are rejected.
func (t Tool) ValidateArgs(args map[string]any) error {
	schemaLoader := gojsonschema.NewStringLoader(t.SchemaJSON)
	documentLoader := gojsonschema.NewGoLoader(args)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}

	if !result.Valid() {
		var errorMsgs []string
		for _, err := range result.Errors() {
			errorMsgs = append(errorMsgs, err.String())
		}
		return &ToolValidationError{
			ToolName: t.Name,
			Errors:   errorMsgs,
		}
	}

	return nil
}

// Category returns the tool category, defaulting to "general" if unset.
func (t Tool) Category() string {
	if t.Metadata.Category == "" {
		return "general"
	}
	return t.Metadata.Category
}
