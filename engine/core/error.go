package core

// Kind classifies an Error without callers needing to pattern-match on
// message text. It mirrors the error taxonomy in the design (validation,
// store, execution, not-found); a suspension is not an error and has no
// Kind.
type Kind string

const (
	KindValidation          Kind = "validation"
	KindStoreSerialization  Kind = "store_serialization"
	KindStoreIO             Kind = "store_io"
	KindExecutionCommand    Kind = "execution_command"
	KindExecutionSerialize  Kind = "execution_serialization"
	KindExecutionMutex      Kind = "execution_mutex_poisoned"
	KindNotFound            Kind = "not_found"
)

// Error is the engine-wide error value: a message, a classifying code, and
// optional structured details, wrapping an underlying cause when present.
type Error struct {
	Message string         `json:"message,omitempty"`
	Code    Kind           `json:"code,omitempty"`
	Details map[string]any `json:"details,omitempty"`
	cause   error
}

// NewError builds an Error from a cause, a Kind, and optional details.
func NewError(err error, code Kind, details map[string]any) *Error {
	message := "unknown error"
	if err != nil {
		message = err.Error()
	}
	return &Error{Message: message, Code: code, Details: details, cause: err}
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Is supports errors.Is comparisons against another *Error by Code.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok || e == nil || other == nil {
		return false
	}
	return e.Code == other.Code
}
