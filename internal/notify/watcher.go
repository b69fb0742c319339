package notify

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/zulandar/taskdeck/internal/models"
	"gorm.io/gorm"
)

// Watcher fans activity-derived notifications out to the configured
// notifiers and runs the scheduled digest.
type Watcher struct {
	db         *gorm.DB
	notifiers  []Notifier
	digestCron string
}

// WatcherOpts holds parameters for creating a Watcher.
type WatcherOpts struct {
	DB         *gorm.DB
	Notifiers  []Notifier
	DigestCron string // 5-field cron expression, "" disables the digest
}

// NewWatcher creates a watcher. With no notifiers every method is a
// no-op, so callers can wire it unconditionally.
func NewWatcher(opts WatcherOpts) *Watcher {
	return &Watcher{
		db:         opts.DB,
		notifiers:  opts.Notifiers,
		digestCron: opts.DigestCron,
	}
}

// ActivityLogged forwards noteworthy activities to chat. Only task
// completions are pushed; everything else stays in the feed.
func (w *Watcher) ActivityLogged(ctx context.Context, a *models.Activity) {
	if a == nil || a.Type != models.TypeTaskCompleted || len(w.notifiers) == 0 {
		return
	}

	event := Event{
		Title: a.Action,
		Body:  a.Description,
		Color: ColorSuccess,
	}
	w.send(ctx, event)
}

// RunDigest blocks, posting the daily digest on the configured cron
// schedule, until ctx is cancelled. Returns immediately when no schedule
// or no notifiers are configured.
func (w *Watcher) RunDigest(ctx context.Context) {
	if w.digestCron == "" || len(w.notifiers) == 0 {
		return
	}

	for {
		wait := nextCronDuration(w.digestCron)
		if wait == 0 {
			log.Printf("notify: invalid digest cron %q, digest disabled", w.digestCron)
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
			event, err := BuildDailyDigest(w.db)
			if err != nil {
				log.Printf("notify: daily digest: %v", err)
				continue
			}
			if event != nil {
				w.send(ctx, *event)
			}
		}
	}
}

func (w *Watcher) send(ctx context.Context, event Event) {
	for _, n := range w.notifiers {
		if err := n.Send(ctx, event); err != nil {
			log.Printf("notify: send: %v", err)
		}
	}
}

// DailyReport holds activity counts for a 24-hour period.
type DailyReport struct {
	PeriodStart    time.Time
	PeriodEnd      time.Time
	TasksCreated   int64
	TasksCompleted int64
	TasksMoved     int64
	TasksDeleted   int64
	FileEdits      int64
}

// BuildDailyDigest counts the last 24 hours of activity and formats a
// digest event. Returns nil when there was no activity.
func BuildDailyDigest(db *gorm.DB) (*Event, error) {
	now := time.Now()
	report, err := buildDailyReport(db, now.Add(-24*time.Hour), now)
	if err != nil {
		return nil, fmt.Errorf("notify: daily digest: %w", err)
	}

	// Suppress when no activity.
	if report.TasksCreated == 0 && report.TasksCompleted == 0 &&
		report.TasksMoved == 0 && report.TasksDeleted == 0 && report.FileEdits == 0 {
		return nil, nil
	}

	event := FormatDaily(report)
	return &event, nil
}

// buildDailyReport counts activities by type within the given range.
func buildDailyReport(db *gorm.DB, since, until time.Time) (*DailyReport, error) {
	report := &DailyReport{PeriodStart: since, PeriodEnd: until}

	counts := []struct {
		activityType string
		dest         *int64
	}{
		{models.TypeTaskCreated, &report.TasksCreated},
		{models.TypeTaskCompleted, &report.TasksCompleted},
		{models.TypeTaskMoved, &report.TasksMoved},
		{models.TypeTaskDeleted, &report.TasksDeleted},
		{models.TypeFileEdit, &report.FileEdits},
	}
	for _, c := range counts {
		if err := db.Model(&models.Activity{}).
			Where("type = ? AND created_at >= ? AND created_at < ?", c.activityType, since, until).
			Count(c.dest).Error; err != nil {
			return nil, err
		}
	}
	return report, nil
}

// FormatDaily renders a daily report as a digest event.
func FormatDaily(report *DailyReport) Event {
	body := fmt.Sprintf(
		"Tasks: %d created, %d completed, %d moved, %d deleted\nFiles: %d edits",
		report.TasksCreated, report.TasksCompleted, report.TasksMoved,
		report.TasksDeleted, report.FileEdits,
	)
	return Event{
		Title: fmt.Sprintf("Daily digest for %s", report.PeriodEnd.Format("Jan 2")),
		Body:  body,
		Color: ColorInfo,
	}
}
