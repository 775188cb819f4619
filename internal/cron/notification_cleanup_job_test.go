package cron

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/llanero/admin-backend/pkg/logger"
)

func TestNotificationCleanupJobPassesRetention(t *testing.T) {
	purger := &fakeNotificationPurger{deletedRows: 42}
	job := newNotificationCleanupJob(t, purger, 0)

	deleted, err := job.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if deleted != 42 {
		t.Fatalf("expected 42 rows reported, got %d", deleted)
	}
	if purger.lastRetention != defaultNotificationRetention {
		t.Fatalf("expected default retention %s, got %s", defaultNotificationRetention, purger.lastRetention)
	}
	if purger.called != 1 {
		t.Fatalf("expected purge called once, got %d", purger.called)
	}

	custom := newNotificationCleanupJob(t, purger, 72*time.Hour)
	if _, err := custom.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if purger.lastRetention != 72*time.Hour {
		t.Fatalf("expected configured retention, got %s", purger.lastRetention)
	}
}

func TestNotificationCleanupJobPropagatesErrors(t *testing.T) {
	job := newNotificationCleanupJob(t, &fakeNotificationPurger{err: errors.New("boom")}, 0)

	if _, err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func newNotificationCleanupJob(t *testing.T, purger *fakeNotificationPurger, retention time.Duration) Job {
	t.Helper()
	job, err := NewNotificationCleanupJob(NotificationCleanupJobParams{
		Logger:        logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		Notifications: purger,
		Retention:     retention,
	})
	if err != nil {
		t.Fatalf("NewNotificationCleanupJob: %v", err)
	}
	return job
}

type fakeNotificationPurger struct {
	lastRetention time.Duration
	deletedRows   int64
	err           error
	called        int
}

func (f *fakeNotificationPurger) DeleteOlderThan(ctx context.Context, retention time.Duration) (int64, error) {
	f.called++
	f.lastRetention = retention
	if f.err != nil {
		return 0, f.err
	}
	return f.deletedRows, nil
}
