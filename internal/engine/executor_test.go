package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingHook captures lifecycle events for assertions.
type recordingHook struct {
	started   []string
	succeeded []string
	approvals []string
	errored   []string
}

func (h *recordingHook) OnStart(_, name string, _ map[string]any) {
	h.started = append(h.started, name)
}
func (h *recordingHook) OnSuccess(_, name string, _ time.Duration, _ string, _ any) {
	h.succeeded = append(h.succeeded, name)
}
func (h *recordingHook) OnApprovalRequired(_, name string, _ time.Duration, msg string) {
	h.approvals = append(h.approvals, msg)
}
func (h *recordingHook) OnError(_, name string, _ time.Duration, msg string) {
	h.errored = append(h.errored, msg)
}

// panicHook misbehaves on every event.
type panicHook struct{}

func (panicHook) OnStart(_, _ string, _ map[string]any)                    { panic("hook start") }
func (panicHook) OnSuccess(_, _ string, _ time.Duration, _ string, _ any)  { panic("hook success") }
func (panicHook) OnApprovalRequired(_, _ string, _ time.Duration, _ string) { panic("hook approval") }
func (panicHook) OnError(_, _ string, _ time.Duration, _ string)           { panic("hook error") }

const echoSchema = `{
	"type": "object",
	"additionalProperties": false,
	"properties": {"value": {"type": "string"}},
	"required": ["value"]
}`

func TestExecuteSuccess(t *testing.T) {
	reg := NewRegistry()
	reg.Register(Tool{
		Name:       "echo",
		SchemaJSON: echoSchema,
		Fn: func(ctx context.Context, args map[string]any, call Call) (any, error) {
			return args["value"], nil
		},
		Summarize: func(result any) string { return "echoed" },
	}, "")

	hook := &recordingHook{}
	ex := NewExecutor(reg, hook)

	res := ex.Execute(context.Background(), "echo", map[string]any{"value": "hi"}, Call{AgentID: "a"})
	require.True(t, res.Success)
	assert.Equal(t, "hi", res.Result)
	assert.Equal(t, "echoed", res.Summary)
	assert.Equal(t, []string{"echo"}, hook.started)
	assert.Equal(t, []string{"echo"}, hook.succeeded)
}

func TestExecuteUnknownTool(t *testing.T) {
	ex := NewExecutor(NewRegistry())
	res := ex.Execute(context.Background(), "nope", nil, Call{AgentID: "a"})
	require.False(t, res.Success)
	assert.Contains(t, res.Error, "nope")
}

func TestExecuteRejectsInvalidArgs(t *testing.T) {
	called := false
	reg := NewRegistry()
	reg.Register(Tool{
		Name:       "echo",
		SchemaJSON: echoSchema,
		Fn: func(ctx context.Context, args map[string]any, call Call) (any, error) {
			called = true
			return nil, nil
		},
	}, "")

	ex := NewExecutor(reg)

	// Missing required field.
	res := ex.Execute(context.Background(), "echo", map[string]any{}, Call{AgentID: "a"})
	require.False(t, res.Success)
	assert.Contains(t, res.Error, "validation failed")

	// Unknown field: schemas are closed.
	res = ex.Execute(context.Background(), "echo", map[string]any{"value": "x", "bogus": 1}, Call{AgentID: "a"})
	require.False(t, res.Success)

	assert.False(t, called, "handler must never see unvalidated arguments")
}

func TestExecuteRecoversPanic(t *testing.T) {
	reg := NewRegistry()
	reg.Register(Tool{
		Name:       "boom",
		SchemaJSON: `{"type":"object","additionalProperties":false}`,
		Fn: func(ctx context.Context, args map[string]any, call Call) (any, error) {
			panic("kaboom")
		},
	}, "")

	hook := &recordingHook{}
	ex := NewExecutor(reg, hook)

	res := ex.Execute(context.Background(), "boom", map[string]any{}, Call{AgentID: "a"})
	require.False(t, res.Success)
	assert.Contains(t, res.Error, "kaboom")
	assert.Len(t, hook.errored, 1)
}

func TestExecuteDomainErrorPayload(t *testing.T) {
	reg := NewRegistry()
	reg.Register(Tool{
		Name:       "bounded",
		SchemaJSON: `{"type":"object","additionalProperties":false}`,
		Fn: func(ctx context.Context, args map[string]any, call Call) (any, error) {
			return nil, NewDomainError("bounds", "range 4-9 out of range, file has 3 lines",
				map[string]any{"start": 4, "end": 9, "lines": 3})
		},
	}, "")

	ex := NewExecutor(reg)
	res := ex.Execute(context.Background(), "bounded", map[string]any{}, Call{AgentID: "a"})
	require.False(t, res.Success)

	payload, ok := res.Result.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "bounds", payload["kind"])
	assert.Equal(t, 3, payload["lines"])
}

func TestExecuteApprovalRequest(t *testing.T) {
	reg := NewRegistry()
	reg.Register(Tool{
		Name:       "mutate",
		SchemaJSON: `{"type":"object","additionalProperties":false,"properties":{"path":{"type":"string"}},"required":["path"]}`,
		Fn: func(ctx context.Context, args map[string]any, call Call) (any, error) {
			return &ApprovalRequest{Message: "really?", ReplayArgs: args}, nil
		},
	}, "")

	hook := &recordingHook{}
	ex := NewExecutor(reg, hook)

	args := map[string]any{"path": "/tmp/x"}
	res := ex.Execute(context.Background(), "mutate", args, Call{AgentID: "a"})

	// Soft failure, logged as needs-attention rather than error.
	require.False(t, res.Success)
	assert.Equal(t, []string{"really?"}, hook.approvals)
	assert.Empty(t, hook.errored)

	payload, ok := res.Result.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, payload["approval_required"])
	assert.Equal(t, args, payload["args"], "replay arguments must round-trip verbatim")
}

func TestExecuteHookPanicIsolated(t *testing.T) {
	reg := NewRegistry()
	reg.Register(Tool{
		Name:       "quiet",
		SchemaJSON: `{"type":"object","additionalProperties":false}`,
		Fn: func(ctx context.Context, args map[string]any, call Call) (any, error) {
			return 42, nil
		},
	}, "")

	ex := NewExecutor(reg, panicHook{})
	res := ex.Execute(context.Background(), "quiet", map[string]any{}, Call{AgentID: "a"})
	require.True(t, res.Success, "a failing hook must never affect the result")
	assert.Equal(t, 42, res.Result)
}

func TestDomainErrorUnwrapsThroughWrapping(t *testing.T) {
	inner := NewDomainError("pattern_not_found", "no match", nil)
	wrapped := errorsJoin(inner)

	var de *DomainError
	require.ErrorAs(t, wrapped, &de)
	assert.Equal(t, "pattern_not_found", de.Kind)
}

func errorsJoin(err error) error {
	return errors.Join(errors.New("context"), err)
}
