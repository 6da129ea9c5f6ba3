package workflow

import (
	"fmt"
	"sync"

	"github.com/kaptinlin/jsonschema"
)

// workflowSchemaJSON is the Draft 2020-12 schema a raw workflow document
// must satisfy before structural validation and Function mapping run. It
// mirrors the wire shape documented in spec §6: top-level id/name/tasks,
// each task requiring id/name/function, next_tasks defaulting to empty.
const workflowSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://see.dev/schemas/workflow.json",
  "type": "object",
  "required": ["id", "name", "tasks"],
  "properties": {
    "id": {"type": "string", "minLength": 1},
    "name": {"type": "string", "minLength": 1},
    "description": {"type": "string"},
    "tasks": {
      "type": "array",
      "items": {"$ref": "#/$defs/task"}
    }
  },
  "$defs": {
    "task": {
      "type": "object",
      "required": ["id", "name", "function"],
      "properties": {
        "id": {"type": "string", "minLength": 1},
        "name": {"type": "string", "minLength": 1},
        "function": {
          "type": "object",
          "required": ["name", "input"],
          "properties": {
            "name": {"type": "string"},
            "input": {"type": "object"}
          }
        },
        "next_tasks": {
          "type": "array",
          "items": {"$ref": "#/$defs/task"},
          "default": []
        }
      }
    }
  }
}`

var (
	compiledSchema     *jsonschema.Schema
	compiledSchemaOnce sync.Once
	compiledSchemaErr  error
)

func schema() (*jsonschema.Schema, error) {
	compiledSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiledSchema, compiledSchemaErr = compiler.Compile([]byte(workflowSchemaJSON))
	})
	if compiledSchemaErr != nil {
		return nil, fmt.Errorf("compile workflow schema: %w", compiledSchemaErr)
	}
	return compiledSchema, nil
}

// checkSchema validates the decoded document against workflowSchemaJSON and
// returns a ValidationError describing the first schema breach, if any.
func checkSchema(doc any) error {
	s, err := schema()
	if err != nil {
		return err
	}
	result := s.Validate(doc)
	if result.IsValid() {
		return nil
	}
	for path, detail := range result.ToList().Errors {
		return &ValidationError{
			Kind:       ValidationSchemaBreach,
			Path:       path,
			Message:    fmt.Sprintf("%v", detail),
			Suggestion: suggestionForPath(path),
		}
	}
	return &ValidationError{Kind: ValidationSchemaBreach, Message: "schema validation failed"}
}
