package borgo

import "context"

// ToolSpec describes how a tool is presented to the model.
type ToolSpec struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	InputSchema map[string]any   `json:"input_schema"`
	Examples    []map[string]any `json:"examples,omitempty"`
}

// ToolRequest captures an invocation request for a tool.
type ToolRequest struct {
	SessionID string
	Arguments map[string]any
}

// ToolResponse represents the structured response returned by a tool.
type ToolResponse struct {
	Content  string
	Metadata map[string]string
}

// Tool exposes structured metadata and an invocation handler.
type Tool interface {
	Spec() ToolSpec
	Invoke(ctx context.Context, req ToolRequest) (ToolResponse, error)
}

// ToolCatalog maintains an ordered set of tools and provides lookup by name.
type ToolCatalog interface {
	Register(tool Tool) error
	Lookup(name string) (Tool, ToolSpec, bool)
	Specs() []ToolSpec
	Tools() []Tool
	Execute(ctx context.Context, name string, args map[string]any) ToolCall
}

// ToolCall is the recorded outcome of one tool execution. Exactly one of
// Result (with Success true) or Error (with Success false) is populated.
type ToolCall struct {
	Tool    string
	Args    map[string]any
	Result  string
	Success bool
	Error   string
}

// AgentStep is one Thought/Action/Observation cycle in a run's trace.
type AgentStep struct {
	Iteration   int
	Thought     string
	Action      *ToolCall
	Observation string
}

// AgentResult is the terminal artifact of one reasoning run.
type AgentResult struct {
	Answer     string
	Steps      []AgentStep
	ToolsUsed  []string
	Iterations int
	// Completed is false when the iteration cap was hit and the answer was
	// synthesized from the collected thoughts.
	Completed bool
}

// StepEvent mirrors the run state machine for incremental display.
type StepEvent struct {
	Type        string
	Iteration   int
	Thought     string
	Call        *ToolCall
	Observation string
	Answer      string
	Err         error
}

// StepEvent types emitted by RunStream.
const (
	EventIteration     = "iteration"
	EventThought       = "thought"
	EventAction        = "action"
	EventObservation   = "observation"
	EventAnswer        = "answer"
	EventMaxIterations = "max_iterations"
	EventError         = "error"
)

// Approver asks the user to confirm a pending action. Implementations block
// until the user answers; declining cancels only the one action.
type Approver interface {
	Confirm(prompt string) bool
}

// AutoApprover approves everything. Tests and non-interactive batch runs
// only; never wire it to an interactive session default.
type AutoApprover struct{}

func (AutoApprover) Confirm(string) bool { return true }

// DenyApprover declines everything.
type DenyApprover struct{}

func (DenyApprover) Confirm(string) bool { return false }
