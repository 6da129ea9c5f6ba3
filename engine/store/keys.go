package store

import "fmt"

var (
	bucketDefinitions   = []byte("workflow_definitions")
	bucketExecutions    = []byte("executions")
	bucketMetadata      = []byte("executions_meta")
	bucketExecutionIdx  = []byte("executions_index")
	bucketTasks         = []byte("tasks")
	bucketInputRequests = []byte("input_requests")
	bucketPrompts       = []byte("prompts")
	bucketSettings      = []byte("settings")
)

var allBuckets = [][]byte{
	bucketDefinitions,
	bucketExecutions,
	bucketMetadata,
	bucketExecutionIdx,
	bucketTasks,
	bucketInputRequests,
	bucketPrompts,
	bucketSettings,
}

// executionKey is the execution row key: `<execution_id>`.
func executionKey(id string) []byte {
	return []byte(id)
}

// metadataKey is the metadata row key: `workflow:<execution_id>`.
func metadataKey(id string) []byte {
	return []byte(fmt.Sprintf("workflow:%s", id))
}

// executionIndexKey is the execution-order index key:
// `<RFC3339 timestamp>:<execution_id>`.
func executionIndexKey(timestamp, id string) []byte {
	return []byte(fmt.Sprintf("%s:%s", timestamp, id))
}

// taskKey is the task row key: `task:<execution_id>:<task_id>`.
func taskKey(executionID, taskID string) []byte {
	return []byte(fmt.Sprintf("task:%s:%s", executionID, taskID))
}

// taskPrefix bounds a scan over every task row of one execution.
func taskPrefix(executionID string) []byte {
	return []byte(fmt.Sprintf("task:%s:", executionID))
}

// inputRequestKey is the input-request row key: `input:<request_id>`.
func inputRequestKey(id string) []byte {
	return []byte(fmt.Sprintf("input:%s", id))
}

func hasPrefix(key, prefix []byte) bool {
	if len(key) < len(prefix) {
		return false
	}
	for i := range prefix {
		if key[i] != prefix[i] {
			return false
		}
	}
	return true
}
