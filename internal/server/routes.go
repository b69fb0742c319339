package server

import "github.com/gin-gonic/gin"

// registerRoutes sets up all routes. Task, activity, mode, and file
// endpoints are registered both bare and under /api so older clients
// keep working.
func registerRoutes(router *gin.Engine, d *deps) {
	for _, prefix := range []string{"", "/api"} {
		g := router.Group(prefix)

		g.GET("/tasks", d.handleListTasks)
		g.POST("/tasks", d.handleCreateTask)
		g.GET("/tasks/:id", d.handleGetTask)
		g.PUT("/tasks/:id", d.handleUpdateTask)
		g.PUT("/tasks/:id/move", d.handleMoveTask)
		g.DELETE("/tasks/:id", d.handleDeleteTask)

		g.GET("/activities", d.handleListActivities)

		g.GET("/db-mode", d.handleGetMode)
		g.POST("/db-mode", d.handleSetMode)

		g.GET("/files", d.handleListFiles)
		g.GET("/file", d.handleReadFile)
		g.PUT("/file", d.handleWriteFile)
		g.POST("/file", d.handleCreateFile)
		g.DELETE("/file", d.handleDeleteFile)
		g.POST("/file/move", d.handleMoveFile)
		g.GET("/search", d.handleSearch)
	}

	router.GET("/ws", d.handleWS)
}
