package sync

import (
	"context"
	"os"
	"strings"
	gosync "sync"

	"github.com/zulandar/taskdeck/internal/models"
	"github.com/zulandar/taskdeck/internal/task"
)

// Environment keys checked by the mode resolver, first defined wins. The
// second name in each pair is the legacy alias.
var (
	modeEnvKeys      = []string{"TASKDECK_DB_MODE", "DB_MODE"}
	cloudBaseEnvKeys = []string{"TASKDECK_CLOUD_API_BASE", "CLOUD_API_BASE"}
	platformEnvKeys  = []string{"TASKDECK_RUNTIME", "TASKDECK_PLATFORM"}
)

// FacadeOpts holds construction parameters for the sync facade.
type FacadeOpts struct {
	Local    *LocalAdapter
	Cloud    *CloudAdapter       // nil when no remote mirror is configured
	Mode     string              // initial override, "" for none
	Platform string              // explicit platform hint, falls back to env
	Env      func(string) string // defaults to os.Getenv
}

// Facade presents the unified adapter contract, re-resolving the mode on
// every call so an override flip takes effect on the very next call. It
// owns the override cell privately; no global state is involved.
type Facade struct {
	local    *LocalAdapter
	cloud    *CloudAdapter
	platform string
	env      func(string) string

	mu       gosync.Mutex
	override *Mode
}

// NewFacade builds a facade. The local adapter is required.
func NewFacade(opts FacadeOpts) *Facade {
	env := opts.Env
	if env == nil {
		env = os.Getenv
	}

	f := &Facade{
		local:    opts.Local,
		cloud:    opts.Cloud,
		platform: resolvePlatform(opts.Platform, env),
		env:      env,
	}
	if mode, ok := ParseMode(opts.Mode); ok {
		f.override = &mode
	}
	return f
}

// ResolveCloudBaseURL returns the explicit base URL when given, else the
// first defined base-URL environment key.
func ResolveCloudBaseURL(explicit string, env func(string) string) string {
	if env == nil {
		env = os.Getenv
	}
	if trimmed := strings.TrimSpace(explicit); trimmed != "" {
		return trimmed
	}
	return firstDefinedEnv(cloudBaseEnvKeys, env)
}

// Mode resolves the current sync mode. Pure function of the override
// cell, environment, and platform hint; safe to call on every request.
func (f *Facade) Mode() Mode {
	f.mu.Lock()
	override := f.override
	f.mu.Unlock()

	if override != nil {
		if *override == ModeCloud && f.cloud != nil {
			return ModeCloud
		}
		if *override == ModeLocal {
			return ModeLocal
		}
	}

	for _, key := range modeEnvKeys {
		envMode, ok := ParseMode(f.env(key))
		if !ok {
			continue
		}
		if envMode == ModeCloud && f.cloud != nil {
			return ModeCloud
		}
		return ModeLocal
	}

	if prefersLocalRuntime(f.platform) {
		return ModeLocal
	}

	if f.cloud != nil {
		return ModeCloud
	}
	return ModeLocal
}

// SetMode pins or clears the runtime override. A nil mode reverts to the
// environment, platform, and default chain.
func (f *Facade) SetMode(mode *Mode) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.override = mode
}

// HasCloudAdapter reports whether a remote mirror is configured.
func (f *Facade) HasCloudAdapter() bool {
	return f.cloud != nil
}

// adapter picks the backend for one call. Exactly one of local/cloud
// serves a given call; in-flight calls stay on the adapter they started
// with.
func (f *Facade) adapter() Adapter {
	if f.Mode() == ModeCloud && f.cloud != nil {
		return f.cloud
	}
	return f.local
}

func (f *Facade) ListTasks(ctx context.Context) ([]models.Task, error) {
	return f.adapter().ListTasks(ctx)
}

func (f *Facade) GetTask(ctx context.Context, id uint) (*models.Task, error) {
	return f.adapter().GetTask(ctx, id)
}

func (f *Facade) CreateTask(ctx context.Context, opts task.CreateOpts) (*models.Task, error) {
	return f.adapter().CreateTask(ctx, opts)
}

func (f *Facade) UpdateTask(ctx context.Context, id uint, opts task.UpdateOpts) (*models.Task, error) {
	return f.adapter().UpdateTask(ctx, id, opts)
}

func (f *Facade) MoveTask(ctx context.Context, id uint, column string) (*models.Task, error) {
	return f.adapter().MoveTask(ctx, id, column)
}

func (f *Facade) DeleteTask(ctx context.Context, id uint) (bool, error) {
	return f.adapter().DeleteTask(ctx, id)
}

// prefersLocalRuntime reports whether the platform hint names a runtime
// that ships its own embedded store.
func prefersLocalRuntime(platform string) bool {
	switch strings.ToLower(platform) {
	case "electron", "desktop", "mobile":
		return true
	default:
		return false
	}
}

func resolvePlatform(explicit string, env func(string) string) string {
	if trimmed := strings.TrimSpace(explicit); trimmed != "" {
		return trimmed
	}
	return firstDefinedEnv(platformEnvKeys, env)
}

func firstDefinedEnv(keys []string, env func(string) string) string {
	for _, key := range keys {
		if value := strings.TrimSpace(env(key)); value != "" {
			return value
		}
	}
	return ""
}
