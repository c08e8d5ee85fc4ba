package types

const ContextUserKey = "user"

// Task enums. Any other value is rejected with a validation error before
// persistence.
const (
	TaskStatusTodo       = "to-do"
	TaskStatusInProgress = "in-progress"
	TaskStatusDone       = "done"

	TaskPriorityLow    = "low"
	TaskPriorityMedium = "medium"
	TaskPriorityHigh   = "high"
)
