package enums

import "slices"

// TaskPriority orders tasks on an event board.
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

var validTaskPriorities = []TaskPriority{
	TaskPriorityLow,
	TaskPriorityMedium,
	TaskPriorityHigh,
}

func (p TaskPriority) IsValid() bool {
	return slices.Contains(validTaskPriorities, p)
}

func ParseTaskPriority(value string) (TaskPriority, error) {
	return parse(validTaskPriorities, value, "task priority")
}

// TaskStatus is the kanban column of a task.
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
)

var validTaskStatuses = []TaskStatus{
	TaskStatusTodo,
	TaskStatusInProgress,
	TaskStatusDone,
}

func (s TaskStatus) IsValid() bool {
	return slices.Contains(validTaskStatuses, s)
}

func ParseTaskStatus(value string) (TaskStatus, error) {
	return parse(validTaskStatuses, value, "task status")
}
