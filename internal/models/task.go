package models

import "time"

// TaskColumns is the ordered set of kanban columns a task can occupy.
var TaskColumns = []string{"backlog", "todo", "doing", "review", "done"}

// Task is the core work item on the board.
type Task struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description *string   `gorm:"type:text" json:"description"`
	Column      string    `gorm:"column:task_column;size:16;not null;default:backlog;index" json:"column"`
	Assignee    string    `gorm:"size:64;default:Unassigned" json:"assignee"`
	Metadata    string    `gorm:"type:text" json:"metadata"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `gorm:"index" json:"updated_at"`
}

// IsTaskColumn reports whether value is one of the closed column set.
func IsTaskColumn(value string) bool {
	for _, c := range TaskColumns {
		if c == value {
			return true
		}
	}
	return false
}
