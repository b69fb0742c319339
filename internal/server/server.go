// Package server exposes the task, activity, mode, and workspace file
// HTTP surface plus the websocket feed.
package server

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/taskdeck/internal/broadcast"
	"github.com/zulandar/taskdeck/internal/notify"
	"github.com/zulandar/taskdeck/internal/sync"
	"gorm.io/gorm"
)

// Opts holds configuration for the HTTP server.
type Opts struct {
	DB        *gorm.DB     // activity log store, always local
	Facade    *sync.Facade // task routing
	Hub       *broadcast.Hub
	Watcher   *notify.Watcher // optional
	Workspace string
	Port      int
	Out       io.Writer
}

// deps carries the wired collaborators into the route handlers.
type deps struct {
	db        *gorm.DB
	facade    *sync.Facade
	hub       *broadcast.Hub
	watcher   *notify.Watcher
	workspace string
}

// NewRouter builds the gin router with all routes registered. Exposed
// separately from Start for tests.
func NewRouter(opts Opts) (*gin.Engine, error) {
	if opts.DB == nil {
		return nil, fmt.Errorf("server: db is required")
	}
	if opts.Facade == nil {
		return nil, fmt.Errorf("server: sync facade is required")
	}

	hub := opts.Hub
	if hub == nil {
		hub = broadcast.NewHub()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	registerRoutes(router, &deps{
		db:        opts.DB,
		facade:    opts.Facade,
		hub:       hub,
		watcher:   opts.Watcher,
		workspace: opts.Workspace,
	})
	return router, nil
}

// Start launches the HTTP server. It blocks until ctx is cancelled, then
// shuts down gracefully.
func Start(ctx context.Context, opts Opts) error {
	if opts.Port <= 0 {
		opts.Port = 3001
	}

	gin.SetMode(gin.ReleaseMode)
	router, err := NewRouter(opts)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", opts.Port),
		Handler: router,
	}

	// Graceful shutdown on context cancellation.
	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()

	if opts.Out != nil {
		fmt.Fprintf(opts.Out, "taskdeck server on port %d\n", opts.Port)
	}

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}
