package engine

// Result is the uniform shape every tool invocation resolves to. A
// handler never raises past the Executor boundary: expected domain
// errors and defects alike are normalized into this type before the
// orchestrator sees them.
type Result struct {
	Success bool   `json:"success"`
	Result  any    `json:"result,omitempty"`
	Summary string `json:"summary,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Ok builds a success result.
func Ok(payload any) Result {
	return Result{Success: true, Result: payload}
}

// Fail builds a failure result with an optional diagnostic payload.
func Fail(msg string, payload any) Result {
	return Result{Success: false, Result: payload, Error: msg}
}

// ApprovalRequest is the value a proposal handler returns instead of
// performing its effect. It is a deliberate soft-failure signal, not an
// error: the orchestrator must obtain confirmation and replay
// ReplayArgs against the hidden commit tool.
type ApprovalRequest struct {
	Message    string         `json:"message"`
	ReplayArgs map[string]any `json:"args"`
}

// payload renders the request as the result body of a soft failure.
func (a *ApprovalRequest) payload() map[string]any {
	return map[string]any{
		"approval_required": true,
		"message":           a.Message,
		"args":              a.ReplayArgs,
	}
}
