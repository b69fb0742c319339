package broadcast

import "github.com/zulandar/taskdeck/internal/models"

// Wire event types, one JSON object per message.
const (
	EventTaskCreated     = "task:created"
	EventTaskUpdated     = "task:updated"
	EventTaskMoved       = "task:moved"
	EventTaskDeleted     = "task:deleted"
	EventActivityCreated = "activity:created"
	EventFileChanged     = "file:changed"
	EventFileCreated     = "file:created"
	EventFileDeleted     = "file:deleted"
	EventFileMoved       = "file:moved"
)

// TaskEvent notifies viewers of a task state change. Created and updated
// events carry the full record; moved and deleted events carry only the
// id (plus the destination column for moves).
type TaskEvent struct {
	Type   string       `json:"type"`
	Task   *models.Task `json:"task,omitempty"`
	TaskID uint         `json:"taskId,omitempty"`
	Column string       `json:"column,omitempty"`
}

// ActivityEvent notifies viewers of a freshly appended activity.
type ActivityEvent struct {
	Type     string           `json:"type"`
	Activity *models.Activity `json:"activity"`
}

// FileEvent notifies viewers of a workspace file mutation.
type FileEvent struct {
	Type    string `json:"type"`
	Path    string `json:"path,omitempty"`
	From    string `json:"from,omitempty"`
	To      string `json:"to,omitempty"`
	Content string `json:"content,omitempty"`
}

// TaskCreated builds a task:created event.
func TaskCreated(t *models.Task) TaskEvent {
	return TaskEvent{Type: EventTaskCreated, Task: t}
}

// TaskUpdated builds a task:updated event.
func TaskUpdated(t *models.Task) TaskEvent {
	return TaskEvent{Type: EventTaskUpdated, Task: t}
}

// TaskMoved builds a task:moved event.
func TaskMoved(id uint, column string) TaskEvent {
	return TaskEvent{Type: EventTaskMoved, TaskID: id, Column: column}
}

// TaskDeleted builds a task:deleted event.
func TaskDeleted(id uint) TaskEvent {
	return TaskEvent{Type: EventTaskDeleted, TaskID: id}
}

// ActivityCreated builds an activity:created event.
func ActivityCreated(a *models.Activity) ActivityEvent {
	return ActivityEvent{Type: EventActivityCreated, Activity: a}
}
