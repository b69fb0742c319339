// Package task provides board task persistence operations.
package task

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/zulandar/taskdeck/internal/models"
	"gorm.io/gorm"
)

// CreateOpts holds parameters for creating a new task.
type CreateOpts struct {
	Name        string
	Description string
	Column      string
	Assignee    string
	Metadata    string
}

// UpdateOpts holds a partial update. Nil fields are left untouched.
type UpdateOpts struct {
	Name        *string
	Description *string
	Column      *string
	Assignee    *string
	Metadata    *string
}

// NormalizeColumn lowercases value and maps anything outside the closed
// column set to "backlog".
func NormalizeColumn(value string) string {
	lowered := strings.ToLower(strings.TrimSpace(value))
	if models.IsTaskColumn(lowered) {
		return lowered
	}
	return "backlog"
}

// Create inserts a new task. The name must be non-empty after trimming.
func Create(db *gorm.DB, opts CreateOpts) (*models.Task, error) {
	name := strings.TrimSpace(opts.Name)
	if name == "" {
		return nil, fmt.Errorf("task: name is required")
	}

	now := time.Now().UTC()
	t := models.Task{
		Name:      name,
		Column:    NormalizeColumn(opts.Column),
		Assignee:  defaultAssignee(opts.Assignee),
		Metadata:  defaultMetadata(opts.Metadata),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if desc := strings.TrimSpace(opts.Description); desc != "" {
		t.Description = &desc
	}

	if err := db.Create(&t).Error; err != nil {
		return nil, fmt.Errorf("task: create: %w", err)
	}
	return &t, nil
}

// Get retrieves a task by id. Returns (nil, nil) when no row exists so
// callers can distinguish absence from storage failure.
func Get(db *gorm.DB, id uint) (*models.Task, error) {
	var t models.Task
	if err := db.Where("id = ?", id).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("task: get %d: %w", id, err)
	}
	return &t, nil
}

// List returns all tasks, most recently updated first.
func List(db *gorm.DB) ([]models.Task, error) {
	var tasks []models.Task
	if err := db.Order("updated_at DESC, id DESC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("task: list: %w", err)
	}
	return tasks, nil
}

// Update applies the non-nil fields of opts to the task. Returns
// (nil, nil) when the id is unknown. An empty update returns the record
// unchanged without touching updated_at.
func Update(db *gorm.DB, id uint, opts UpdateOpts) (*models.Task, error) {
	existing, err := Get(db, id)
	if err != nil || existing == nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if opts.Name != nil {
		updates["name"] = strings.TrimSpace(*opts.Name)
	}
	if opts.Description != nil {
		if desc := strings.TrimSpace(*opts.Description); desc != "" {
			updates["description"] = desc
		} else {
			updates["description"] = nil
		}
	}
	if opts.Column != nil {
		updates["task_column"] = NormalizeColumn(*opts.Column)
	}
	if opts.Assignee != nil {
		updates["assignee"] = defaultAssignee(*opts.Assignee)
	}
	if opts.Metadata != nil {
		updates["metadata"] = defaultMetadata(*opts.Metadata)
	}

	if len(updates) == 0 {
		return existing, nil
	}

	if err := db.Model(&models.Task{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("task: update %d: %w", id, err)
	}
	return Get(db, id)
}

// Move sets the task's column, normalizing invalid input to "backlog",
// and refreshes updated_at. Returns (nil, nil) when the id is unknown.
func Move(db *gorm.DB, id uint, column string) (*models.Task, error) {
	result := db.Model(&models.Task{}).Where("id = ?", id).
		Updates(map[string]interface{}{"task_column": NormalizeColumn(column)})
	if result.Error != nil {
		return nil, fmt.Errorf("task: move %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return Get(db, id)
}

// Delete removes the task. Returns true when a row was removed.
func Delete(db *gorm.DB, id uint) (bool, error) {
	result := db.Where("id = ?", id).Delete(&models.Task{})
	if result.Error != nil {
		return false, fmt.Errorf("task: delete %d: %w", id, result.Error)
	}
	return result.RowsAffected > 0, nil
}

func defaultAssignee(value string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return "Unassigned"
}

func defaultMetadata(value string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return "{}"
}
