// Package workflow defines the typed workflow tree (ParsedWorkflow, Task,
// the Function sum type) and the two-phase validator that turns raw
// workflow JSON into it.
package workflow

// FunctionKind discriminates the Function sum type.
type FunctionKind string

const (
	FunctionCliCommand FunctionKind = "cli_command"
	FunctionAgent       FunctionKind = "cursor_agent"
	FunctionUserInput   FunctionKind = "user_input"
	FunctionCustom      FunctionKind = "custom"
)

// PauseForInput lets a cli_command task raise a user-input gate after a
// successful run, per §4.3.
type PauseForInput struct {
	Prompt string `json:"prompt"`
}

// CliCommandFunction spawns a subprocess.
type CliCommandFunction struct {
	Command       string         `json:"command"`
	Args          []string       `json:"args,omitempty"`
	PauseForInput *PauseForInput `json:"pause_for_input,omitempty"`
}

// AgentFunction invokes an agent CLI with a templated prompt.
type AgentFunction struct {
	Prompt       string   `json:"prompt,omitempty"`
	PromptID     string   `json:"prompt_id,omitempty"`
	Model        string   `json:"model,omitempty"`
	ExtraArgs    []string `json:"extra_args,omitempty"`
	ResponseType string   `json:"response_type,omitempty"` // "text" | "json"
}

// UserInputFunction suspends the workflow awaiting out-of-band input.
type UserInputFunction struct {
	Prompt    string `json:"prompt"`
	InputType string `json:"input_type,omitempty"` // "string" | "number" | "boolean"
	Required  bool   `json:"required,omitempty"`
	Default   any    `json:"default,omitempty"`
}

// CustomFunction is the passthrough variant for any unrecognized function
// name.
type CustomFunction struct {
	Name  string         `json:"name"`
	Input map[string]any `json:"input"`
}

// Function is the sum type of the four task function variants. Exactly one
// of the typed fields is non-nil, selected by Kind.
type Function struct {
	Kind       FunctionKind
	CliCommand *CliCommandFunction
	Agent      *AgentFunction
	UserInput  *UserInputFunction
	Custom     *CustomFunction
}

// Task is one node of the workflow tree.
type Task struct {
	ID        string
	Name      string
	Function  Function
	NextTasks []*Task
	IsRoot    bool
}

// ParsedWorkflow is the in-memory, validated, cycle-free tree produced by
// Validate.
type ParsedWorkflow struct {
	ID    string
	Name  string
	Roots []*Task
}

// Preorder returns every task in the tree, parent before children,
// left-to-right, matching the order the engine uses to materialize
// TaskExecution rows and WorkflowExecution.TaskIDs.
func (w *ParsedWorkflow) Preorder() []*Task {
	var out []*Task
	var walk func(t *Task)
	walk = func(t *Task) {
		out = append(out, t)
		for _, c := range t.NextTasks {
			walk(c)
		}
	}
	for _, r := range w.Roots {
		walk(r)
	}
	return out
}

// FindTask locates a task by ID anywhere in the tree.
func (w *ParsedWorkflow) FindTask(id string) *Task {
	for _, t := range w.Preorder() {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// WorkflowDefinition is the persistent declaration of a workflow: the raw
// JSON plus editorial metadata. Owned exclusively by the store.
type WorkflowDefinition struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Content     string `json:"content"`
	IsDefault   bool   `json:"is_default"`
	IsEdited    bool   `json:"is_edited"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// Prompt is a reusable prompt template, referenced by an agent task's
// prompt_id.
type Prompt struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Content   string `json:"content"`
	IsDefault bool   `json:"is_default"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}
