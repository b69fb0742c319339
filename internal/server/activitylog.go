package server

import (
	"encoding/json"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/taskdeck/internal/activity"
	"github.com/zulandar/taskdeck/internal/broadcast"
)

// activityInput describes one activity to derive from a mutation.
type activityInput struct {
	Source      string
	Type        string
	Action      string
	Description string
	AgentName   string
	AgentEmoji  string
	FilePath    string
	TaskID      *uint
	TaskColumn  string
	Metadata    map[string]interface{}
}

// logActivity appends an activity and fans it out. Best-effort relative
// to the mutation it describes: failures are logged, never propagated.
func (d *deps) logActivity(c *gin.Context, in activityInput) {
	metadata := ""
	if in.Metadata != nil {
		if data, err := json.Marshal(in.Metadata); err == nil {
			metadata = string(data)
		}
	}

	a, err := activity.Create(d.db, activity.CreateOpts{
		Source:      in.Source,
		Type:        in.Type,
		Action:      in.Action,
		Description: in.Description,
		AgentName:   in.AgentName,
		AgentEmoji:  in.AgentEmoji,
		FilePath:    in.FilePath,
		TaskID:      in.TaskID,
		TaskColumn:  in.TaskColumn,
		Metadata:    metadata,
	})
	if err != nil {
		log.Printf("server: log activity: %v", err)
		return
	}

	d.hub.Broadcast(broadcast.ActivityCreated(a))
	if d.watcher != nil {
		d.watcher.ActivityLogged(c.Request.Context(), a)
	}
}
