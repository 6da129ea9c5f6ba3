package workflow

import "fmt"

// ValidationKind classifies a ValidationError.
type ValidationKind string

const (
	ValidationInvalidJSON   ValidationKind = "invalid_json"
	ValidationSchemaBreach  ValidationKind = "schema_breach"
	ValidationDuplicateID   ValidationKind = "duplicate_id"
	ValidationMissingField  ValidationKind = "missing_field"
)

// ValidationError is returned by Validate. Path, when set, is a dotted path
// into the offending task (e.g. "function.input.command"); Suggestion is a
// contextual hint derived from that path.
type ValidationError struct {
	Kind       ValidationKind
	Path       string
	Message    string
	Suggestion string
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	if e.Suggestion == "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Path, e.Message, e.Suggestion)
}

// suggestionForPath returns a contextual hint for a dotted schema path,
// e.g. a path through "function.cli_command" hints about command/args.
func suggestionForPath(path string) string {
	switch {
	case contains(path, "cli_command"):
		return "cli_command input requires a \"command\" string and accepts an optional \"args\" array"
	case contains(path, "cursor_agent"):
		return "cursor_agent input requires a \"prompt\" or \"prompt_id\""
	case contains(path, "user_input"):
		return "user_input input requires a \"prompt\" string"
	case contains(path, "tasks"):
		return "each task requires \"id\", \"name\", and \"function\""
	default:
		return ""
	}
}

func contains(haystack, needle string) bool {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return true
		}
	}
	return false
}
