package board

import (
	"context"
	"fmt"
	"sync"

	"github.com/zulandar/taskdeck/internal/models"
)

// Board is a client-side snapshot of the task list. Mutations are
// applied optimistically through MoveTransaction and reconciled with
// server events via ApplyEvent.
type Board struct {
	mu     sync.Mutex
	client *Client
	tasks  []models.Task
}

// NewBoard creates an empty board backed by client.
func NewBoard(client *Client) *Board {
	return &Board{client: client}
}

// Refresh replaces the snapshot with the server's task list.
func (b *Board) Refresh(ctx context.Context) error {
	tasks, err := b.client.ListTasks(ctx)
	if err != nil {
		return err
	}
	b.mu.Lock()
	b.tasks = tasks
	b.mu.Unlock()
	return nil
}

// Tasks returns a copy of the current snapshot.
func (b *Board) Tasks() []models.Task {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]models.Task, len(b.tasks))
	copy(out, b.tasks)
	return out
}

// Task returns the snapshot record for id, if present.
func (b *Board) Task(id uint) (models.Task, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, t := range b.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return models.Task{}, false
}

func (b *Board) upsertLocked(t models.Task) {
	for i := range b.tasks {
		if b.tasks[i].ID == t.ID {
			b.tasks[i] = t
			return
		}
	}
	b.tasks = append(b.tasks, t)
}

func (b *Board) setColumnLocked(id uint, column string) {
	for i := range b.tasks {
		if b.tasks[i].ID == id {
			b.tasks[i].Column = column
			return
		}
	}
}

func (b *Board) removeLocked(id uint) {
	for i := range b.tasks {
		if b.tasks[i].ID == id {
			b.tasks = append(b.tasks[:i], b.tasks[i+1:]...)
			return
		}
	}
}

// Transaction states for an optimistic move.
const (
	StatePending    = "pending"
	StateCommitted  = "committed"
	StateRolledBack = "rolled_back"
)

// MoveTransaction is one optimistic move: the snapshot is mutated
// immediately at BeginMove, then Commit asks the server. On failure the
// board is restored to its pre-move state.
type MoveTransaction struct {
	board  *Board
	taskID uint
	column string

	snapshot []models.Task
	state    string
	err      error
}

// BeginMove captures the pre-move snapshot and sets the task's column
// locally before the server is consulted.
func (b *Board) BeginMove(id uint, column string) *MoveTransaction {
	b.mu.Lock()
	defer b.mu.Unlock()

	snapshot := make([]models.Task, len(b.tasks))
	copy(snapshot, b.tasks)
	b.setColumnLocked(id, column)

	return &MoveTransaction{
		board:    b,
		taskID:   id,
		column:   column,
		snapshot: snapshot,
		state:    StatePending,
	}
}

// Commit sends the move to the server. On success the authoritative
// server record replaces the optimistic one; on failure the snapshot is
// restored and the error surfaced. Commit is a no-op once the
// transaction has settled.
func (tx *MoveTransaction) Commit(ctx context.Context) error {
	if tx.state != StatePending {
		return tx.err
	}

	t, err := tx.board.client.MoveTask(ctx, tx.taskID, tx.column)
	if err == nil && t == nil {
		err = fmt.Errorf("board: task %d not found", tx.taskID)
	}

	tx.board.mu.Lock()
	defer tx.board.mu.Unlock()
	if err != nil {
		tx.board.tasks = tx.snapshot
		tx.state = StateRolledBack
		tx.err = err
		return err
	}

	tx.board.upsertLocked(*t)
	tx.state = StateCommitted
	return nil
}

// State reports the transaction's lifecycle state.
func (tx *MoveTransaction) State() string { return tx.state }

// Err returns the failure that triggered a rollback, if any.
func (tx *MoveTransaction) Err() error { return tx.err }

// MoveTask runs a full optimistic move: begin, then commit.
func (b *Board) MoveTask(ctx context.Context, id uint, column string) error {
	return b.BeginMove(id, column).Commit(ctx)
}
