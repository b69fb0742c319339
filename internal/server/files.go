package server

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/taskdeck/internal/broadcast"
	"github.com/zulandar/taskdeck/internal/models"
)

// Agent identity recorded on file activities.
const (
	fileAgentName  = "taskdeck"
	fileAgentEmoji = "🛠️"
)

type fileEntry struct {
	Name        string `json:"name"`
	IsDirectory bool   `json:"isDirectory"`
	Path        string `json:"path"`
}

func (d *deps) handleListFiles(c *gin.Context) {
	dirPath := c.Query("path")
	if dirPath == "" {
		dirPath = d.workspace
	}

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	files := make([]fileEntry, 0, len(entries))
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		files = append(files, fileEntry{
			Name:        entry.Name(),
			IsDirectory: entry.IsDir(),
			Path:        filepath.Join(dirPath, entry.Name()),
		})
	}
	c.JSON(http.StatusOK, files)
}

func (d *deps) handleReadFile(c *gin.Context) {
	filePath := c.Query("path")
	if filePath == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path required"})
		return
	}

	content, err := os.ReadFile(filePath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	info, err := os.Stat(filePath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"content": string(content),
		"size":    info.Size(),
		"mtime":   info.ModTime(),
	})
}

type writeFileRequest struct {
	Content string `json:"content"`
}

func (d *deps) handleWriteFile(c *gin.Context) {
	filePath := c.Query("path")
	if filePath == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path required"})
		return
	}

	var req writeFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := os.WriteFile(filePath, []byte(req.Content), 0o644); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	d.logActivity(c, activityInput{
		Source:      models.SourceAgent,
		Type:        models.TypeFileEdit,
		Action:      "Edited file",
		Description: fmt.Sprintf("Updated %s.", d.workspaceRelative(filePath)),
		FilePath:    filePath,
		AgentName:   fileAgentName,
		AgentEmoji:  fileAgentEmoji,
	})
	d.hub.Broadcast(broadcast.FileEvent{Type: broadcast.EventFileChanged, Path: filePath, Content: req.Content})
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type createFileRequest struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

func (d *deps) handleCreateFile(c *gin.Context) {
	var req createFileRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Path == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path required"})
		return
	}

	if err := os.MkdirAll(filepath.Dir(req.Path), 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := os.WriteFile(req.Path, []byte(req.Content), 0o644); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	d.logActivity(c, activityInput{
		Source:      models.SourceAgent,
		Type:        models.TypeFileEdit,
		Action:      "Created file",
		Description: fmt.Sprintf("Created %s.", d.workspaceRelative(req.Path)),
		FilePath:    req.Path,
		AgentName:   fileAgentName,
		AgentEmoji:  fileAgentEmoji,
	})
	d.hub.Broadcast(broadcast.FileEvent{Type: broadcast.EventFileCreated, Path: req.Path})
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (d *deps) handleDeleteFile(c *gin.Context) {
	filePath := c.Query("path")
	if filePath == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path required"})
		return
	}

	if err := os.Remove(filePath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	d.logActivity(c, activityInput{
		Source:      models.SourceAgent,
		Type:        models.TypeFileEdit,
		Action:      "Deleted file",
		Description: fmt.Sprintf("Deleted %s.", d.workspaceRelative(filePath)),
		FilePath:    filePath,
		AgentName:   fileAgentName,
		AgentEmoji:  fileAgentEmoji,
	})
	d.hub.Broadcast(broadcast.FileEvent{Type: broadcast.EventFileDeleted, Path: filePath})
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type moveFileRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func (d *deps) handleMoveFile(c *gin.Context) {
	var req moveFileRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.From == "" || req.To == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from and to required"})
		return
	}

	if err := os.Rename(req.From, req.To); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	d.logActivity(c, activityInput{
		Source:      models.SourceAgent,
		Type:        models.TypeFileEdit,
		Action:      "Moved file",
		Description: fmt.Sprintf("Moved %s to %s.", d.workspaceRelative(req.From), d.workspaceRelative(req.To)),
		FilePath:    req.To,
		AgentName:   fileAgentName,
		AgentEmoji:  fileAgentEmoji,
	})
	d.hub.Broadcast(broadcast.FileEvent{Type: broadcast.EventFileMoved, From: req.From, To: req.To})
	c.JSON(http.StatusOK, gin.H{"success": true})
}

const (
	searchMaxDepth   = 3
	searchMaxResults = 50
)

func (d *deps) handleSearch(c *gin.Context) {
	query := strings.ToLower(c.Query("q"))
	searchPath := c.Query("path")
	if searchPath == "" {
		searchPath = d.workspace
	}

	var results []fileEntry
	var walk func(dir string, depth int)
	walk = func(dir string, depth int) {
		if depth > searchMaxDepth || len(results) >= searchMaxResults {
			return
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			return
		}
		for _, entry := range entries {
			if strings.HasPrefix(entry.Name(), ".") {
				continue
			}
			full := filepath.Join(dir, entry.Name())
			if entry.IsDir() {
				walk(full, depth+1)
			} else if strings.Contains(strings.ToLower(entry.Name()), query) {
				results = append(results, fileEntry{Name: entry.Name(), Path: full})
			}
		}
	}
	walk(searchPath, 0)

	if results == nil {
		results = []fileEntry{}
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// workspaceRelative rewrites an absolute path inside the workspace as a
// workspace-relative one for activity descriptions.
func (d *deps) workspaceRelative(filePath string) string {
	if !filepath.IsAbs(filePath) || d.workspace == "" {
		return filePath
	}
	rel, err := filepath.Rel(d.workspace, filePath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filePath
	}
	if rel == "." {
		return filepath.Base(filePath)
	}
	return rel
}
