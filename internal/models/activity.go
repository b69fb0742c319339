package models

import "time"

// Activity sources.
const (
	SourceAgent = "agent"
	SourceTask  = "task"
)

// Activity types. Unrecognized input normalizes to TypeMessageSent.
const (
	TypeFileEdit      = "file_edit"
	TypeToolCall      = "tool_call"
	TypeMessageSent   = "message_sent"
	TypeCommandRun    = "command_run"
	TypeResearch      = "research"
	TypeThinking      = "thinking"
	TypeTaskCreated   = "task_created"
	TypeTaskUpdated   = "task_updated"
	TypeTaskMoved     = "task_moved"
	TypeTaskCompleted = "task_completed"
	TypeTaskDeleted   = "task_deleted"
)

// Activity is an immutable audit record of one domain event. Rows are
// append-only: there is no update or delete path.
type Activity struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Source      string    `gorm:"size:16;not null;default:agent;index" json:"source"`
	Type        string    `gorm:"size:32;not null" json:"type"`
	Action      string    `gorm:"not null" json:"action"`
	Description string    `gorm:"type:text;not null" json:"description"`
	AgentName   *string   `gorm:"size:64" json:"agent_name"`
	AgentEmoji  *string   `gorm:"size:16" json:"agent_emoji"`
	FilePath    *string   `gorm:"index" json:"file_path"`
	TaskID      *uint     `gorm:"index" json:"task_id"`
	TaskColumn  *string   `gorm:"size:16" json:"task_column"`
	Metadata    *string   `gorm:"type:text" json:"metadata"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}
