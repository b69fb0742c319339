package board

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/zulandar/taskdeck/internal/models"
)

// wireEvent is the superset of all broadcast payloads.
type wireEvent struct {
	Type   string       `json:"type"`
	Task   *models.Task `json:"task"`
	TaskID uint         `json:"taskId"`
	Column string       `json:"column"`
}

// ApplyEvent reconciles one broadcast message into the snapshot.
// Unknown event types are ignored.
func (b *Board) ApplyEvent(raw []byte) {
	var event wireEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	switch event.Type {
	case "task:created", "task:updated":
		if event.Task != nil {
			b.upsertLocked(*event.Task)
		}
	case "task:moved":
		b.setColumnLocked(event.TaskID, event.Column)
	case "task:deleted":
		b.removeLocked(event.TaskID)
	}
}

// Listen connects to the server's websocket feed and applies events
// until ctx is cancelled or the connection drops.
func (b *Board) Listen(ctx context.Context, url string) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return fmt.Errorf("board: dial %s: %w", url, err)
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("board: read: %w", err)
		}
		b.ApplyEvent(msg)
	}
}
