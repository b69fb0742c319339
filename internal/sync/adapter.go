// Package sync routes task mutations to a local embedded store or a
// remote HTTP mirror, resolved per call by a layered mode policy.
package sync

import (
	"context"
	"strings"

	"github.com/zulandar/taskdeck/internal/models"
	"github.com/zulandar/taskdeck/internal/task"
)

// Mode selects which backend serves task operations.
type Mode string

const (
	ModeLocal Mode = "LOCAL"
	ModeCloud Mode = "CLOUD"
)

// ParseMode normalizes free-form mode input. The second return is false
// for anything other than LOCAL or CLOUD.
func ParseMode(value string) (Mode, bool) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case string(ModeLocal):
		return ModeLocal, true
	case string(ModeCloud):
		return ModeCloud, true
	default:
		return "", false
	}
}

// Adapter is the task CRUD contract implemented identically by the local
// and cloud backends. Get, update, move, and delete signal absence via
// nil/false returns rather than errors.
type Adapter interface {
	Mode() Mode
	ListTasks(ctx context.Context) ([]models.Task, error)
	GetTask(ctx context.Context, id uint) (*models.Task, error)
	CreateTask(ctx context.Context, opts task.CreateOpts) (*models.Task, error)
	UpdateTask(ctx context.Context, id uint, opts task.UpdateOpts) (*models.Task, error)
	MoveTask(ctx context.Context, id uint, column string) (*models.Task, error)
	DeleteTask(ctx context.Context, id uint) (bool, error)
}
