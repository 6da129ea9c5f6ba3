// Package store is the embedded, durable key-value store: workflow
// definitions, executions and their metadata, per-task rows, user-input
// requests, prompts, and app settings. All durable records are owned
// exclusively by this package; callers never touch the underlying database.
package store

import (
	"github.com/seeflow/see/engine/core"
)

// ExecutionStatus is the lifecycle of a WorkflowExecution.
type ExecutionStatus string

const (
	ExecutionPending         ExecutionStatus = "pending"
	ExecutionRunning         ExecutionStatus = "running"
	ExecutionWaitingForInput ExecutionStatus = "waiting_for_input"
	ExecutionComplete        ExecutionStatus = "complete"
	ExecutionFailed          ExecutionStatus = "failed"
)

// TaskStatus is the lifecycle of a single TaskExecution.
type TaskStatus string

const (
	TaskPending         TaskStatus = "pending"
	TaskInProgress      TaskStatus = "in_progress"
	TaskWaitingForInput TaskStatus = "waiting_for_input"
	TaskComplete        TaskStatus = "complete"
	TaskFailed          TaskStatus = "failed"
)

// InputRequestStatus is the lifecycle of a UserInputRequest.
type InputRequestStatus string

const (
	InputPending   InputRequestStatus = "pending"
	InputFulfilled InputRequestStatus = "fulfilled"
)

// WorkflowDefinition is the persistent declaration of a workflow: the raw
// JSON content plus editorial metadata.
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

// WorkflowExecution is one durable run of a workflow.
type WorkflowExecution struct {
	ID               string          `json:"id"`
	WorkflowID       string          `json:"workflow_id"`
	WorkflowName     string          `json:"workflow_name"`
	WorkflowSnapshot string          `json:"workflow_snapshot"`
	Status           ExecutionStatus `json:"status"`
	CreatedAt        string          `json:"created_at"`
	CompletedAt      string          `json:"completed_at,omitempty"`
	Success          *bool           `json:"success,omitempty"`
	IsPaused         bool            `json:"is_paused"`
	PausedTaskID     string          `json:"paused_task_id,omitempty"`
	TaskIDs          []string        `json:"task_ids"`
	Errors           []string        `json:"errors,omitempty"`
}

// TaskExecution is one durable row per DAG node per run.
type TaskExecution struct {
	ExecutionID    string     `json:"execution_id"`
	TaskID         string     `json:"task_id"`
	TaskName       string     `json:"task_name"`
	Status         TaskStatus `json:"status"`
	Logs           []string   `json:"logs,omitempty"`
	StartTimestamp string     `json:"start_timestamp"`
	EndTimestamp   string     `json:"end_timestamp,omitempty"`
	UserInput      string     `json:"user_input,omitempty"`
	InputRequestID string     `json:"input_request_id,omitempty"`
}

// UserInputRequest is a durable record of one pause-for-input gate.
type UserInputRequest struct {
	ID                  string             `json:"id"`
	WorkflowExecutionID string             `json:"workflow_execution_id"`
	TaskExecutionID     string             `json:"task_execution_id"`
	PromptText          string             `json:"prompt_text"`
	InputType           string             `json:"input_type"`
	Required            bool               `json:"required"`
	DefaultValue        string             `json:"default_value,omitempty"`
	Status              InputRequestStatus `json:"status"`
	CreatedAt           string             `json:"created_at"`
	FulfilledAt         string             `json:"fulfilled_at,omitempty"`
	FulfilledValue      string             `json:"fulfilled_value,omitempty"`
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

// AppSettings holds process-wide preferences owned by the store but outside
// the scheduling path.
type AppSettings struct {
	DefaultDBPath   string `json:"default_db_path"`
	Verbosity       string `json:"verbosity"`
	RetryMaxAttempts int   `json:"retry_max_attempts"`
	RetryBaseDelayMS int   `json:"retry_base_delay_ms"`
}

// DefaultAppSettings returns the settings GetSettings reports when none has
// been saved.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Verbosity:        "info",
		RetryMaxAttempts: 5,
		RetryBaseDelayMS: 100,
	}
}

func nowTimestamp() string {
	return core.FormatTimestamp(core.SystemClock.Now())
}
