package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Executor resolves tool names against a registry, runs handlers inside
// a failure-isolating boundary and normalizes every outcome into a
// Result. Nothing above the Executor throws.
type Executor struct {
	registry *Registry
	hooks    Hooks
}

// NewExecutor creates an Executor over the given registry.
func NewExecutor(registry *Registry, hooks ...Hook) *Executor {
	if registry == nil {
		panic("engine: registry must not be nil")
	}
	return &Executor{registry: registry, hooks: hooks}
}

// AddHook attaches an additional lifecycle hook.
func (e *Executor) AddHook(h Hook) {
	e.hooks = append(e.hooks, h)
}

// Registry returns the underlying registry.
func (e *Executor) Registry() *Registry {
	return e.registry
}

// Execute runs the named tool with the given arguments. Expected domain
// failures and defects alike come back as a failure Result; the process
// never crashes on a tool defect.
func (e *Executor) Execute(ctx context.Context, name string, args map[string]any, call Call) Result {
	callID := uuid.NewString()

	t, err := e.registry.Get(name)
	if err != nil {
		e.emitError(callID, name, 0, err.Error())
		return Fail(err.Error(), nil)
	}

	if err := t.ValidateArgs(args); err != nil {
		e.emitError(callID, name, 0, err.Error())
		return Fail(err.Error(), nil)
	}

	e.emit(func(h Hook) { h.OnStart(callID, name, args) })

	start := time.Now()
	value, runErr := e.invoke(ctx, t, args, call)
	elapsed := time.Since(start)

	if runErr != nil {
		payload := diagnosticPayload(runErr)
		e.emitError(callID, name, elapsed, runErr.Error())
		return Fail(runErr.Error(), payload)
	}

	if req, ok := value.(*ApprovalRequest); ok {
		e.emit(func(h Hook) { h.OnApprovalRequired(callID, name, elapsed, req.Message) })
		return Fail(req.Message, req.payload())
	}

	summary := ""
	if t.Summarize != nil {
		summary = t.Summarize(value)
	}
	e.emit(func(h Hook) { h.OnSuccess(callID, name, elapsed, summary, value) })
	return Result{Success: true, Result: value, Summary: summary}
}

// invoke runs the handler with a recover boundary so defects degrade to
// an error instead of terminating the process.
func (e *Executor) invoke(ctx context.Context, t Tool, args map[string]any, call Call) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			value = nil
			err = fmt.Errorf("tool %s panicked: %v", t.Name, r)
		}
	}()
	return t.Fn(ctx, args, call)
}

// diagnosticPayload surfaces the structured context of a DomainError so
// the orchestrator can branch without parsing message text.
func diagnosticPayload(err error) any {
	var de *DomainError
	if errors.As(err, &de) {
		payload := map[string]any{"kind": de.Kind}
		for k, v := range de.Detail {
			payload[k] = v
		}
		return payload
	}
	return nil
}

func (e *Executor) emitError(callID, name string, d time.Duration, msg string) {
	e.emit(func(h Hook) { h.OnError(callID, name, d, msg) })
}

// emit delivers an event to every hook, swallowing hook panics so
// logging can never affect the execution result.
func (e *Executor) emit(fn func(Hook)) {
	for _, h := range e.hooks {
		func() {
			defer func() { _ = recover() }()
			fn(h)
		}()
	}
}
