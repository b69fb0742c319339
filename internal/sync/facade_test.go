package sync

import (
	"context"
	"testing"

	"github.com/zulandar/taskdeck/internal/models"
	"github.com/zulandar/taskdeck/internal/task"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testLocal(t *testing.T) *LocalAdapter {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.Task{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewLocalAdapter(db)
}

func emptyEnv(string) string { return "" }

func envOf(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func cloudForTest(t *testing.T) *CloudAdapter {
	t.Helper()
	cloud, err := NewCloudAdapter(CloudOpts{BaseURL: "http://cloud.example"})
	if err != nil {
		t.Fatalf("NewCloudAdapter: %v", err)
	}
	return cloud
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
		ok   bool
	}{
		{"LOCAL", ModeLocal, true},
		{"local", ModeLocal, true},
		{" Cloud ", ModeCloud, true},
		{"CLOUD", ModeCloud, true},
		{"hybrid", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseMode(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseMode(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestMode_DefaultLocalWithoutCloud(t *testing.T) {
	f := NewFacade(FacadeOpts{Local: testLocal(t), Env: emptyEnv})
	if got := f.Mode(); got != ModeLocal {
		t.Errorf("Mode() = %q, want LOCAL", got)
	}
}

func TestMode_DefaultCloudWhenConfigured(t *testing.T) {
	f := NewFacade(FacadeOpts{Local: testLocal(t), Cloud: cloudForTest(t), Env: emptyEnv})
	if got := f.Mode(); got != ModeCloud {
		t.Errorf("Mode() = %q, want CLOUD", got)
	}
}

func TestMode_OverrideCloudWithoutAdapterFallsBack(t *testing.T) {
	f := NewFacade(FacadeOpts{Local: testLocal(t), Mode: "CLOUD", Env: emptyEnv})
	if got := f.Mode(); got != ModeLocal {
		t.Errorf("Mode() = %q, want LOCAL when no cloud adapter exists", got)
	}
}

func TestMode_OverrideLocalBeatsCloudDefault(t *testing.T) {
	f := NewFacade(FacadeOpts{Local: testLocal(t), Cloud: cloudForTest(t), Mode: "LOCAL", Env: emptyEnv})
	if got := f.Mode(); got != ModeLocal {
		t.Errorf("Mode() = %q, want LOCAL", got)
	}
}

func TestMode_EnvKeyPrecedence(t *testing.T) {
	f := NewFacade(FacadeOpts{
		Local: testLocal(t),
		Cloud: cloudForTest(t),
		Env: envOf(map[string]string{
			"TASKDECK_DB_MODE": "LOCAL",
			"DB_MODE":          "CLOUD",
		}),
	})
	if got := f.Mode(); got != ModeLocal {
		t.Errorf("Mode() = %q, want LOCAL from first defined key", got)
	}
}

func TestMode_EnvCloudWithoutAdapterFallsBack(t *testing.T) {
	f := NewFacade(FacadeOpts{
		Local: testLocal(t),
		Env:   envOf(map[string]string{"DB_MODE": "CLOUD"}),
	})
	if got := f.Mode(); got != ModeLocal {
		t.Errorf("Mode() = %q, want LOCAL", got)
	}
}

func TestMode_UnparseableEnvIgnored(t *testing.T) {
	f := NewFacade(FacadeOpts{
		Local: testLocal(t),
		Cloud: cloudForTest(t),
		Env:   envOf(map[string]string{"TASKDECK_DB_MODE": "hybrid"}),
	})
	if got := f.Mode(); got != ModeCloud {
		t.Errorf("Mode() = %q, want CLOUD after skipping junk env", got)
	}
}

func TestMode_PlatformHintPrefersLocal(t *testing.T) {
	for _, platform := range []string{"electron", "desktop", "mobile", "Electron"} {
		f := NewFacade(FacadeOpts{
			Local:    testLocal(t),
			Cloud:    cloudForTest(t),
			Platform: platform,
			Env:      emptyEnv,
		})
		if got := f.Mode(); got != ModeLocal {
			t.Errorf("platform %q: Mode() = %q, want LOCAL", platform, got)
		}
	}
}

func TestMode_EnvBeatsPlatform(t *testing.T) {
	f := NewFacade(FacadeOpts{
		Local:    testLocal(t),
		Cloud:    cloudForTest(t),
		Platform: "electron",
		Env:      envOf(map[string]string{"DB_MODE": "CLOUD"}),
	})
	if got := f.Mode(); got != ModeCloud {
		t.Errorf("Mode() = %q, want CLOUD from env over platform hint", got)
	}
}

func TestSetMode_FlipTakesEffectImmediately(t *testing.T) {
	f := NewFacade(FacadeOpts{Local: testLocal(t), Cloud: cloudForTest(t), Env: emptyEnv})
	if got := f.Mode(); got != ModeCloud {
		t.Fatalf("Mode() = %q, want CLOUD", got)
	}

	local := ModeLocal
	f.SetMode(&local)
	if got := f.Mode(); got != ModeLocal {
		t.Errorf("Mode() after SetMode = %q, want LOCAL", got)
	}

	f.SetMode(nil)
	if got := f.Mode(); got != ModeCloud {
		t.Errorf("Mode() after clear = %q, want CLOUD", got)
	}
}

func TestFacade_LocalDispatch(t *testing.T) {
	ctx := context.Background()
	f := NewFacade(FacadeOpts{Local: testLocal(t), Env: emptyEnv})

	created, err := f.CreateTask(ctx, task.CreateOpts{Name: "Route me", Column: "todo"})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	fetched, err := f.GetTask(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if fetched == nil || fetched.Name != "Route me" {
		t.Fatalf("GetTask = %+v, want Route me", fetched)
	}

	moved, err := f.MoveTask(ctx, created.ID, "done")
	if err != nil {
		t.Fatalf("MoveTask: %v", err)
	}
	if moved.Column != "done" {
		t.Errorf("column = %q, want done", moved.Column)
	}

	deleted, err := f.DeleteTask(ctx, created.ID)
	if err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	if !deleted {
		t.Error("DeleteTask returned false")
	}
}

func TestResolveCloudBaseURL(t *testing.T) {
	if got := ResolveCloudBaseURL("https://explicit.example", emptyEnv); got != "https://explicit.example" {
		t.Errorf("explicit base = %q", got)
	}

	env := envOf(map[string]string{"CLOUD_API_BASE": "https://env.example"})
	if got := ResolveCloudBaseURL("", env); got != "https://env.example" {
		t.Errorf("env base = %q", got)
	}

	env = envOf(map[string]string{
		"TASKDECK_CLOUD_API_BASE": "https://primary.example",
		"CLOUD_API_BASE":          "https://alias.example",
	})
	if got := ResolveCloudBaseURL("", env); got != "https://primary.example" {
		t.Errorf("precedence base = %q, want primary", got)
	}

	if got := ResolveCloudBaseURL("", emptyEnv); got != "" {
		t.Errorf("empty base = %q, want empty", got)
	}
}
