package ws

import "tasktracker/internal/domain"

const (
	EventTaskCreated = "task.created"
	EventTaskUpdated = "task.updated"
	EventTaskDeleted = "task.deleted"
)

// Event is a task change notification pushed to the owner's subscribers.
// Task is set for created/updated events, TaskID alone for deletions.
type Event struct {
	Type   string       `json:"type"`
	Task   *domain.Task `json:"task,omitempty"`
	TaskID int64        `json:"task_id,omitempty"`
}
