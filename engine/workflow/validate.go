package workflow

import (
	"encoding/json"
	"fmt"
)

// rawWorkflow and rawTask mirror the wire shape closely enough to walk by
// hand; Function mapping happens afterward, once the schema and duplicate-ID
// passes have already rejected anything malformed enough to make the walk
// unsafe.
type rawWorkflow struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Tasks       []rawTask `json:"tasks"`
}

type rawTask struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Function  rawFunction     `json:"function"`
	NextTasks []rawTask       `json:"next_tasks"`
}

type rawFunction struct {
	Name  string          `json:"name"`
	Input json.RawMessage `json:"input"`
}

// Validate runs the four-phase pipeline over a raw workflow document: JSON
// syntax, schema shape, duplicate-task-ID structure, then Function mapping.
// It returns on the first failure at each phase rather than accumulating
// errors, matching the fail-fast contract in §4.2.
func Validate(raw []byte) (*ParsedWorkflow, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &ValidationError{
			Kind:    ValidationInvalidJSON,
			Message: fmt.Sprintf("invalid JSON: %v", err),
		}
	}

	if err := checkSchema(doc); err != nil {
		return nil, err
	}

	var rw rawWorkflow
	if err := json.Unmarshal(raw, &rw); err != nil {
		return nil, &ValidationError{
			Kind:    ValidationInvalidJSON,
			Message: fmt.Sprintf("invalid JSON: %v", err),
		}
	}

	seen := make(map[string]bool)
	if err := checkDuplicateIDs(rw.Tasks, seen, "tasks"); err != nil {
		return nil, err
	}

	roots := make([]*Task, 0, len(rw.Tasks))
	for i := range rw.Tasks {
		t, err := buildTask(&rw.Tasks[i], fmt.Sprintf("tasks[%d]", i))
		if err != nil {
			return nil, err
		}
		t.IsRoot = true
		roots = append(roots, t)
	}

	return &ParsedWorkflow{ID: rw.ID, Name: rw.Name, Roots: roots}, nil
}

func checkDuplicateIDs(tasks []rawTask, seen map[string]bool, path string) error {
	for i := range tasks {
		t := &tasks[i]
		if seen[t.ID] {
			return &ValidationError{
				Kind:       ValidationDuplicateID,
				Path:       fmt.Sprintf("%s[%d].id", path, i),
				Message:    fmt.Sprintf("duplicate task id %q", t.ID),
				Suggestion: "every task id must be unique across the whole workflow tree",
			}
		}
		seen[t.ID] = true
		if err := checkDuplicateIDs(t.NextTasks, seen, fmt.Sprintf("%s[%d].next_tasks", path, i)); err != nil {
			return err
		}
	}
	return nil
}

func buildTask(rt *rawTask, path string) (*Task, error) {
	fn, err := buildFunction(&rt.Function, path+".function")
	if err != nil {
		return nil, err
	}
	children := make([]*Task, 0, len(rt.NextTasks))
	for i := range rt.NextTasks {
		childPath := fmt.Sprintf("%s.next_tasks[%d]", path, i)
		c, err := buildTask(&rt.NextTasks[i], childPath)
		if err != nil {
			return nil, err
		}
		children = append(children, c)
	}
	return &Task{
		ID:        rt.ID,
		Name:      rt.Name,
		Function:  *fn,
		NextTasks: children,
	}, nil
}

func missingField(path, field, suggestion string) error {
	return &ValidationError{
		Kind:       ValidationMissingField,
		Path:       path + "." + field,
		Message:    fmt.Sprintf("missing required field %q", field),
		Suggestion: suggestion,
	}
}

func buildFunction(rf *rawFunction, path string) (*Function, error) {
	switch FunctionKind(rf.Name) {
	case FunctionCliCommand:
		var in struct {
			Command       string         `json:"command"`
			Args          []string       `json:"args"`
			PauseForInput *PauseForInput `json:"pause_for_input"`
		}
		if err := json.Unmarshal(rf.Input, &in); err != nil {
			return nil, &ValidationError{Kind: ValidationInvalidJSON, Path: path + ".input", Message: err.Error()}
		}
		if in.Command == "" {
			return nil, missingField(path+".input", "command", suggestionForPath(path+".cli_command"))
		}
		if in.PauseForInput != nil && in.PauseForInput.Prompt == "" {
			return nil, missingField(path+".input.pause_for_input", "prompt", suggestionForPath(path+".cli_command"))
		}
		return &Function{
			Kind: FunctionCliCommand,
			CliCommand: &CliCommandFunction{
				Command:       in.Command,
				Args:          in.Args,
				PauseForInput: in.PauseForInput,
			},
		}, nil

	case FunctionAgent:
		var in struct {
			Prompt       string   `json:"prompt"`
			PromptID     string   `json:"prompt_id"`
			Model        string   `json:"model"`
			ExtraArgs    []string `json:"extra_args"`
			ResponseType string   `json:"response_type"`
		}
		if err := json.Unmarshal(rf.Input, &in); err != nil {
			return nil, &ValidationError{Kind: ValidationInvalidJSON, Path: path + ".input", Message: err.Error()}
		}
		if in.Prompt == "" && in.PromptID == "" {
			return nil, missingField(path+".input", "prompt", suggestionForPath(path+".cursor_agent"))
		}
		return &Function{
			Kind: FunctionAgent,
			Agent: &AgentFunction{
				Prompt:       in.Prompt,
				PromptID:     in.PromptID,
				Model:        in.Model,
				ExtraArgs:    in.ExtraArgs,
				ResponseType: in.ResponseType,
			},
		}, nil

	case FunctionUserInput:
		var in struct {
			Prompt    string `json:"prompt"`
			InputType string `json:"input_type"`
			Required  bool   `json:"required"`
			Default   any    `json:"default"`
		}
		if err := json.Unmarshal(rf.Input, &in); err != nil {
			return nil, &ValidationError{Kind: ValidationInvalidJSON, Path: path + ".input", Message: err.Error()}
		}
		if in.Prompt == "" {
			return nil, missingField(path+".input", "prompt", suggestionForPath(path+".user_input"))
		}
		return &Function{
			Kind: FunctionUserInput,
			UserInput: &UserInputFunction{
				Prompt:    in.Prompt,
				InputType: in.InputType,
				Required:  in.Required,
				Default:   in.Default,
			},
		}, nil

	default:
		var in map[string]any
		if len(rf.Input) > 0 {
			if err := json.Unmarshal(rf.Input, &in); err != nil {
				return nil, &ValidationError{Kind: ValidationInvalidJSON, Path: path + ".input", Message: err.Error()}
			}
		}
		return &Function{
			Kind: FunctionCustom,
			Custom: &CustomFunction{
				Name:  rf.Name,
				Input: in,
			},
		}, nil
	}
}
