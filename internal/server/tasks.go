package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/taskdeck/internal/broadcast"
	"github.com/zulandar/taskdeck/internal/models"
	"github.com/zulandar/taskdeck/internal/task"
)

type createTaskRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Column      string `json:"column"`
	Assignee    string `json:"assignee"`
	Metadata    string `json:"metadata"`
}

type updateTaskRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Column      *string `json:"column"`
	Assignee    *string `json:"assignee"`
	Metadata    *string `json:"metadata"`
}

type moveTaskRequest struct {
	Column string `json:"column"`
}

func (d *deps) handleListTasks(c *gin.Context) {
	tasks, err := d.facade.ListTasks(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

func (d *deps) handleGetTask(c *gin.Context) {
	id, ok := parseTaskID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}

	t, err := d.facade.GetTask(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if t == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}
	c.JSON(http.StatusOK, t)
}

func (d *deps) handleCreateTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name required"})
		return
	}

	t, err := d.facade.CreateTask(c.Request.Context(), task.CreateOpts{
		Name:        req.Name,
		Description: req.Description,
		Column:      req.Column,
		Assignee:    req.Assignee,
		Metadata:    req.Metadata,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	activityType := models.TypeTaskCreated
	action := "Created task"
	if t.Column == "done" {
		activityType = models.TypeTaskCompleted
		action = "Completed task"
	}
	d.logActivity(c, activityInput{
		Source:      models.SourceTask,
		Type:        activityType,
		Action:      action,
		Description: fmt.Sprintf("%s in %s.", t.Name, capitalizeColumn(t.Column)),
		TaskID:      &t.ID,
		TaskColumn:  t.Column,
		Metadata:    taskMetadata(t),
	})
	d.hub.Broadcast(broadcast.TaskCreated(t))
	c.JSON(http.StatusCreated, t)
}

func (d *deps) handleUpdateTask(c *gin.Context) {
	id, ok := parseTaskID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}

	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	existing, err := d.facade.GetTask(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if existing == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}

	if req.Column != nil && !models.IsTaskColumn(strings.ToLower(*req.Column)) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid column"})
		return
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name cannot be empty"})
		return
	}

	t, err := d.facade.UpdateTask(c.Request.Context(), id, task.UpdateOpts{
		Name:        req.Name,
		Description: req.Description,
		Column:      req.Column,
		Assignee:    req.Assignee,
		Metadata:    req.Metadata,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if t == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}

	// The server recomputes the done transition from the pre-mutation
	// record; clients may disagree but this decision is authoritative.
	becameDone := existing.Column != "done" && t.Column == "done"
	activityType := models.TypeTaskUpdated
	action := "Updated task"
	if becameDone {
		activityType = models.TypeTaskCompleted
		action = "Completed task"
	}
	d.logActivity(c, activityInput{
		Source:      models.SourceTask,
		Type:        activityType,
		Action:      action,
		Description: fmt.Sprintf("%s in %s.", t.Name, capitalizeColumn(t.Column)),
		TaskID:      &t.ID,
		TaskColumn:  t.Column,
		Metadata:    taskMetadata(t),
	})
	d.hub.Broadcast(broadcast.TaskUpdated(t))
	c.JSON(http.StatusOK, t)
}

func (d *deps) handleMoveTask(c *gin.Context) {
	id, ok := parseTaskID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}

	var req moveTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil || !models.IsTaskColumn(strings.ToLower(req.Column)) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "valid column required"})
		return
	}

	existing, err := d.facade.GetTask(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	t, err := d.facade.MoveTask(c.Request.Context(), id, req.Column)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if t == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}

	becameDone := existing != nil && existing.Column != "done" && t.Column == "done"
	activityType := models.TypeTaskMoved
	action := "Moved task"
	if becameDone {
		activityType = models.TypeTaskCompleted
		action = "Completed task"
	}
	d.logActivity(c, activityInput{
		Source:      models.SourceTask,
		Type:        activityType,
		Action:      action,
		Description: fmt.Sprintf("%s moved to %s.", t.Name, capitalizeColumn(t.Column)),
		TaskID:      &t.ID,
		TaskColumn:  t.Column,
		Metadata:    taskMetadata(t),
	})
	d.hub.Broadcast(broadcast.TaskMoved(id, t.Column))
	c.JSON(http.StatusOK, t)
}

func (d *deps) handleDeleteTask(c *gin.Context) {
	id, ok := parseTaskID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}

	existing, err := d.facade.GetTask(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	deleted, err := d.facade.DeleteTask(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}

	if existing != nil {
		d.logActivity(c, activityInput{
			Source:      models.SourceTask,
			Type:        models.TypeTaskDeleted,
			Action:      "Deleted task",
			Description: fmt.Sprintf("%s removed from %s.", existing.Name, capitalizeColumn(existing.Column)),
			TaskID:      &existing.ID,
			TaskColumn:  existing.Column,
			Metadata:    taskMetadata(existing),
		})
	}
	d.hub.Broadcast(broadcast.TaskDeleted(id))
	c.Status(http.StatusNoContent)
}

// parseTaskID parses a positive integer task id from a path parameter.
func parseTaskID(value string) (uint, bool) {
	id, err := strconv.ParseUint(value, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func capitalizeColumn(column string) string {
	if column == "" {
		return column
	}
	return strings.ToUpper(column[:1]) + column[1:]
}

func taskMetadata(t *models.Task) map[string]interface{} {
	return map[string]interface{}{
		"taskName": t.Name,
		"assignee": t.Assignee,
	}
}
