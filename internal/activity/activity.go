// Package activity provides the append-only activity log.
package activity

import (
	"fmt"
	"strings"
	"time"

	"github.com/zulandar/taskdeck/internal/models"
	"gorm.io/gorm"
)

// DefaultLimit is the listing limit applied when the caller gives none.
const DefaultLimit = 100

// MaxLimit caps how many activities a single listing can return.
const MaxLimit = 500

// CreateOpts holds parameters for recording one activity.
type CreateOpts struct {
	Source      string
	Type        string
	Action      string
	Description string
	AgentName   string
	AgentEmoji  string
	FilePath    string
	TaskID      *uint
	TaskColumn  string
	Metadata    string
}

var activityTypes = map[string]bool{
	models.TypeFileEdit:      true,
	models.TypeToolCall:      true,
	models.TypeMessageSent:   true,
	models.TypeCommandRun:    true,
	models.TypeResearch:      true,
	models.TypeThinking:      true,
	models.TypeTaskCreated:   true,
	models.TypeTaskUpdated:   true,
	models.TypeTaskMoved:     true,
	models.TypeTaskCompleted: true,
	models.TypeTaskDeleted:   true,
}

// NormalizeType maps unrecognized type input to message_sent.
func NormalizeType(value string) string {
	lowered := strings.ToLower(strings.TrimSpace(value))
	if activityTypes[lowered] {
		return lowered
	}
	return models.TypeMessageSent
}

// NormalizeSource maps any source other than "task" to "agent".
func NormalizeSource(value string) string {
	if strings.TrimSpace(value) == models.SourceTask {
		return models.SourceTask
	}
	return models.SourceAgent
}

// ClampLimit bounds a listing limit to [1, MaxLimit].
func ClampLimit(limit int) int {
	if limit < 1 {
		return 1
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// Create appends one activity. Action and description must be non-empty
// after trimming; type and source are normalized to their closed sets.
func Create(db *gorm.DB, opts CreateOpts) (*models.Activity, error) {
	action := strings.TrimSpace(opts.Action)
	description := strings.TrimSpace(opts.Description)
	if action == "" || description == "" {
		return nil, fmt.Errorf("activity: action and description are required")
	}

	a := models.Activity{
		Source:      NormalizeSource(opts.Source),
		Type:        NormalizeType(opts.Type),
		Action:      action,
		Description: description,
		TaskID:      opts.TaskID,
		CreatedAt:   time.Now().UTC(),
	}
	a.AgentName = trimmedOrNil(opts.AgentName)
	a.AgentEmoji = trimmedOrNil(opts.AgentEmoji)
	a.FilePath = trimmedOrNil(opts.FilePath)
	a.TaskColumn = trimmedOrNil(opts.TaskColumn)
	a.Metadata = trimmedOrNil(opts.Metadata)

	if err := db.Create(&a).Error; err != nil {
		return nil, fmt.Errorf("activity: create: %w", err)
	}
	return &a, nil
}

// List returns up to limit activities, newest first with id as the
// tie-break so entries within the same timestamp tick keep insertion
// order.
func List(db *gorm.DB, limit int) ([]models.Activity, error) {
	var activities []models.Activity
	if err := db.Order("created_at DESC, id DESC").
		Limit(ClampLimit(limit)).Find(&activities).Error; err != nil {
		return nil, fmt.Errorf("activity: list: %w", err)
	}
	return activities, nil
}

func trimmedOrNil(value string) *string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return &trimmed
	}
	return nil
}
