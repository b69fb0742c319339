package sync

import (
	"strconv"
	"strings"
	"time"

	"github.com/zulandar/taskdeck/internal/models"
	"github.com/zulandar/taskdeck/internal/task"
)

// parseKind tags the outcome of normalizing one peer payload.
type parseKind int

const (
	parsedTask parseKind = iota
	parsedNotFound
	parsedInvalid
)

// taskParse is the tagged result of a peer payload parse: a valid task,
// an explicit not-found, or an invalid record to be dropped.
type taskParse struct {
	kind parseKind
	task models.Task
}

// parseTaskRecord validates and normalizes one peer task object. Records
// without a positive integer id or a non-empty name are invalid.
func parseTaskRecord(raw interface{}) taskParse {
	row, ok := raw.(map[string]interface{})
	if !ok {
		return taskParse{kind: parsedInvalid}
	}

	id := parseTaskID(row["id"])
	name := ""
	if s, ok := row["name"].(string); ok {
		name = strings.TrimSpace(s)
	}
	if id == 0 || name == "" {
		return taskParse{kind: parsedInvalid}
	}

	t := models.Task{
		ID:        id,
		Name:      name,
		Column:    task.NormalizeColumn(stringField(row, "column")),
		Assignee:  "Unassigned",
		Metadata:  "{}",
		CreatedAt: parseTimestamp(row["created_at"]),
	}
	if assignee, ok := row["assignee"].(string); ok && strings.TrimSpace(assignee) != "" {
		t.Assignee = assignee
	}
	if desc, ok := row["description"].(string); ok {
		t.Description = &desc
	}
	if meta, ok := row["metadata"].(string); ok {
		t.Metadata = meta
	}
	if _, ok := row["updated_at"]; ok {
		t.UpdatedAt = parseTimestamp(row["updated_at"])
	} else {
		t.UpdatedAt = t.CreatedAt
	}

	return taskParse{kind: parsedTask, task: t}
}

// parseTaskList accepts a bare array or a {tasks: [...]} wrapper and
// drops any record that fails validation rather than failing the batch.
func parseTaskList(payload interface{}) []models.Task {
	items, ok := payload.([]interface{})
	if !ok {
		if wrapper, isMap := payload.(map[string]interface{}); isMap {
			items, ok = wrapper["tasks"].([]interface{})
		}
		if !ok {
			return []models.Task{}
		}
	}

	tasks := make([]models.Task, 0, len(items))
	for _, item := range items {
		if parsed := parseTaskRecord(item); parsed.kind == parsedTask {
			tasks = append(tasks, parsed.task)
		}
	}
	return tasks
}

// parseSingleTask accepts a bare task object or a {task: ...} wrapper.
func parseSingleTask(payload interface{}) taskParse {
	if payload == nil {
		return taskParse{kind: parsedInvalid}
	}

	if direct := parseTaskRecord(payload); direct.kind == parsedTask {
		return direct
	}

	if wrapper, ok := payload.(map[string]interface{}); ok {
		if nested, ok := wrapper["task"].(map[string]interface{}); ok {
			return parseTaskRecord(nested)
		}
	}

	return taskParse{kind: parsedInvalid}
}

func parseTaskID(value interface{}) uint {
	switch v := value.(type) {
	case float64:
		if v > 0 && v == float64(uint(v)) {
			return uint(v)
		}
	case string:
		if n, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64); err == nil && n > 0 {
			return uint(n)
		}
	}
	return 0
}

func stringField(row map[string]interface{}, key string) string {
	if s, ok := row[key].(string); ok {
		return s
	}
	return ""
}

// parseTimestamp normalizes a peer timestamp, substituting now for
// anything unparseable.
func parseTimestamp(value interface{}) time.Time {
	if s, ok := value.(string); ok {
		if ts, err := time.Parse(time.RFC3339, strings.TrimSpace(s)); err == nil {
			return ts.UTC()
		}
	}
	return time.Now().UTC()
}
