package notify

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	slackapi "github.com/slack-go/slack"
	"github.com/zulandar/taskdeck/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type mockSlack struct {
	channels []string
	options  [][]slackapi.MsgOption
	err      error
}

func (m *mockSlack) PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
	m.channels = append(m.channels, channelID)
	m.options = append(m.options, options)
	return "", "", m.err
}

type mockSession struct {
	embeds []*discordgo.MessageEmbed
	closed bool
	err    error
}

func (m *mockSession) ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	m.embeds = append(m.embeds, embed)
	return nil, m.err
}

func (m *mockSession) Close() error {
	m.closed = true
	return nil
}

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.Activity{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedActivity(t *testing.T, db *gorm.DB, activityType string, createdAt time.Time) {
	t.Helper()
	a := models.Activity{
		Source:      models.SourceTask,
		Type:        activityType,
		Action:      "seed",
		Description: "seed entry",
		CreatedAt:   createdAt,
	}
	if err := db.Create(&a).Error; err != nil {
		t.Fatalf("seed activity: %v", err)
	}
}

func TestNewSlack_Validation(t *testing.T) {
	if _, err := NewSlack(SlackOpts{ChannelID: "C1"}); err == nil {
		t.Error("expected error without token or client")
	}
	if _, err := NewSlack(SlackOpts{BotToken: "xoxb-1"}); err == nil {
		t.Error("expected error without channel")
	}
	if _, err := NewSlack(SlackOpts{Client: &mockSlack{}, ChannelID: "C1"}); err != nil {
		t.Errorf("NewSlack with mock: %v", err)
	}
}

func TestSlackSend(t *testing.T) {
	mock := &mockSlack{}
	n, err := NewSlack(SlackOpts{Client: mock, ChannelID: "C123"})
	if err != nil {
		t.Fatalf("NewSlack: %v", err)
	}

	err = n.Send(context.Background(), Event{Title: "Completed task", Body: "Ship v1 in Done.", Color: ColorSuccess})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(mock.channels) != 1 || mock.channels[0] != "C123" {
		t.Errorf("channels = %v", mock.channels)
	}
}

func TestSlackSend_Error(t *testing.T) {
	mock := &mockSlack{err: fmt.Errorf("rate limited")}
	n, _ := NewSlack(SlackOpts{Client: mock, ChannelID: "C123"})
	if err := n.Send(context.Background(), Event{Title: "x"}); err == nil {
		t.Error("expected error propagated")
	}
}

func TestNewDiscord_Validation(t *testing.T) {
	if _, err := NewDiscord(DiscordOpts{ChannelID: "123"}); err == nil {
		t.Error("expected error without token or session")
	}
	if _, err := NewDiscord(DiscordOpts{BotToken: "tok"}); err == nil {
		t.Error("expected error without channel")
	}
}

func TestDiscordSend(t *testing.T) {
	mock := &mockSession{}
	n, err := NewDiscord(DiscordOpts{Session: mock, ChannelID: "123"})
	if err != nil {
		t.Fatalf("NewDiscord: %v", err)
	}

	err = n.Send(context.Background(), Event{Title: "Completed task", Body: "body", Color: ColorSuccess})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(mock.embeds) != 1 || mock.embeds[0].Title != "Completed task" {
		t.Errorf("embeds = %+v", mock.embeds)
	}

	if err := n.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !mock.closed {
		t.Error("session not closed")
	}
}

func TestHexColor(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"#36a64f", 0x36a64f},
		{"36a64f", 0x36a64f},
		{" #ff0000 ", 0xff0000},
		{"nonsense", 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := hexColor(tt.in); got != tt.want {
			t.Errorf("hexColor(%q) = %#x, want %#x", tt.in, got, tt.want)
		}
	}
}

func TestWatcher_ActivityLogged_OnlyCompletions(t *testing.T) {
	mock := &mockSlack{}
	slack, _ := NewSlack(SlackOpts{Client: mock, ChannelID: "C1"})
	w := NewWatcher(WatcherOpts{Notifiers: []Notifier{slack}})

	ctx := context.Background()
	w.ActivityLogged(ctx, &models.Activity{Type: models.TypeTaskCreated, Action: "Created task", Description: "x"})
	w.ActivityLogged(ctx, &models.Activity{Type: models.TypeTaskMoved, Action: "Moved task", Description: "x"})
	if len(mock.channels) != 0 {
		t.Errorf("non-completion activity pushed %d notifications", len(mock.channels))
	}

	w.ActivityLogged(ctx, &models.Activity{Type: models.TypeTaskCompleted, Action: "Completed task", Description: "Ship v1 in Done."})
	if len(mock.channels) != 1 {
		t.Errorf("completion pushed %d notifications, want 1", len(mock.channels))
	}

	// Nil activity and nil notifier list are both safe.
	w.ActivityLogged(ctx, nil)
	NewWatcher(WatcherOpts{}).ActivityLogged(ctx, &models.Activity{Type: models.TypeTaskCompleted})
}

func TestBuildDailyDigest(t *testing.T) {
	db := testDB(t)
	now := time.Now().UTC()

	seedActivity(t, db, models.TypeTaskCreated, now.Add(-2*time.Hour))
	seedActivity(t, db, models.TypeTaskCompleted, now.Add(-1*time.Hour))
	seedActivity(t, db, models.TypeTaskCompleted, now.Add(-30*time.Minute))
	seedActivity(t, db, models.TypeFileEdit, now.Add(-10*time.Minute))
	// Outside the 24h window.
	seedActivity(t, db, models.TypeTaskCreated, now.Add(-48*time.Hour))

	event, err := BuildDailyDigest(db)
	if err != nil {
		t.Fatalf("BuildDailyDigest: %v", err)
	}
	if event == nil {
		t.Fatal("digest = nil, want event")
	}
	want := "Tasks: 1 created, 2 completed, 0 moved, 0 deleted\nFiles: 1 edits"
	if event.Body != want {
		t.Errorf("body = %q, want %q", event.Body, want)
	}
	if event.Color != ColorInfo {
		t.Errorf("color = %q, want info", event.Color)
	}
}

func TestBuildDailyDigest_QuietDaySuppressed(t *testing.T) {
	db := testDB(t)
	event, err := BuildDailyDigest(db)
	if err != nil {
		t.Fatalf("BuildDailyDigest: %v", err)
	}
	if event != nil {
		t.Errorf("digest = %+v, want nil for a quiet day", event)
	}
}

func TestNextCronDuration(t *testing.T) {
	d := nextCronDuration("0 9 * * *")
	if d <= 0 || d > 24*time.Hour {
		t.Errorf("duration = %v, want within 24h", d)
	}

	if d := nextCronDuration("not a cron"); d != 0 {
		t.Errorf("invalid expression: duration = %v, want 0", d)
	}
	if d := nextCronDuration("0 9 * *"); d != 0 {
		t.Errorf("wrong field count: duration = %v, want 0", d)
	}
}

func TestRunDigest_NoScheduleReturns(t *testing.T) {
	w := NewWatcher(WatcherOpts{Notifiers: []Notifier{}})
	done := make(chan struct{})
	go func() {
		w.RunDigest(context.Background())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RunDigest did not return without a schedule")
	}
}
