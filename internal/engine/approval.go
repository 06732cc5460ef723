package engine

import "context"

// CommitPrefix links the two halves of an approval pair by naming
// convention: commit name = CommitPrefix + proposal name.
const CommitPrefix = "execute_"

// ProposeFunc describes the intended effect of a mutating operation
// without performing it. It must be pure with respect to external
// state; the returned message is shown to the human for confirmation
// and must describe the exact arguments to replay.
type ProposeFunc func(ctx context.Context, args map[string]any, call Call) (string, error)

// NewApprovalPair wraps a mutating operation as two tools: a visible
// proposal that only returns an ApprovalRequest, and a hidden commit
// tool named CommitPrefix+name that performs the effect. The pair
// shares one schema, so the arguments the orchestrator replays after
// confirmation validate identically on both halves.
func NewApprovalPair(t Tool, propose ProposeFunc, commit ToolFunc) []Tool {
	proposal := t
	proposal.Fn = func(ctx context.Context, args map[string]any, call Call) (any, error) {
		message, err := propose(ctx, args, call)
		if err != nil {
			return nil, err
		}
		return &ApprovalRequest{Message: message, ReplayArgs: args}, nil
	}

	commitTool := t
	commitTool.Name = CommitPrefix + t.Name
	commitTool.Description = "Executes a previously proposed " + t.Name + " after user confirmation. Invoke only with the exact arguments restated by " + t.Name + "."
	commitTool.Hidden = true
	commitTool.Fn = commit

	return []Tool{proposal, commitTool}
}
