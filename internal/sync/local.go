package sync

import (
	"context"

	"github.com/zulandar/taskdeck/internal/models"
	"github.com/zulandar/taskdeck/internal/task"
	"gorm.io/gorm"
)

// LocalAdapter serves the adapter contract from the embedded store. The
// store connection is owned exclusively by this adapter (and the seeding
// step at startup).
type LocalAdapter struct {
	db *gorm.DB
}

// NewLocalAdapter wraps an opened, migrated store.
func NewLocalAdapter(db *gorm.DB) *LocalAdapter {
	return &LocalAdapter{db: db}
}

func (a *LocalAdapter) Mode() Mode { return ModeLocal }

func (a *LocalAdapter) ListTasks(ctx context.Context) ([]models.Task, error) {
	return task.List(a.db.WithContext(ctx))
}

func (a *LocalAdapter) GetTask(ctx context.Context, id uint) (*models.Task, error) {
	return task.Get(a.db.WithContext(ctx), id)
}

func (a *LocalAdapter) CreateTask(ctx context.Context, opts task.CreateOpts) (*models.Task, error) {
	return task.Create(a.db.WithContext(ctx), opts)
}

func (a *LocalAdapter) UpdateTask(ctx context.Context, id uint, opts task.UpdateOpts) (*models.Task, error) {
	return task.Update(a.db.WithContext(ctx), id, opts)
}

func (a *LocalAdapter) MoveTask(ctx context.Context, id uint, column string) (*models.Task, error) {
	return task.Move(a.db.WithContext(ctx), id, column)
}

func (a *LocalAdapter) DeleteTask(ctx context.Context, id uint) (bool, error) {
	return task.Delete(a.db.WithContext(ctx), id)
}
