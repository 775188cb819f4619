package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/llanero/admin-backend/pkg/logger"
)

const defaultNotificationRetention = 30 * 24 * time.Hour

type NotificationCleanupJobParams struct {
	Logger        *logger.Logger
	Notifications notificationPurger
	Retention     time.Duration
}

type notificationPurger interface {
	DeleteOlderThan(ctx context.Context, retention time.Duration) (int64, error)
}

// NewNotificationCleanupJob deletes read notifications older than the retention.
func NewNotificationCleanupJob(params NotificationCleanupJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Notifications == nil {
		return nil, fmt.Errorf("notifications service required")
	}
	retention := params.Retention
	if retention <= 0 {
		retention = defaultNotificationRetention
	}
	return &notificationCleanupJob{
		logg:          params.Logger,
		notifications: params.Notifications,
		retention:     retention,
	}, nil
}

type notificationCleanupJob struct {
	logg          *logger.Logger
	notifications notificationPurger
	retention     time.Duration
}

func (j *notificationCleanupJob) Name() string { return "notification-cleanup" }

func (j *notificationCleanupJob) Run(ctx context.Context) (int64, error) {
	deleted, err := j.notifications.DeleteOlderThan(ctx, j.retention)
	if err != nil {
		return 0, fmt.Errorf("notification cleanup: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"retention_hours": int64(j.retention / time.Hour),
		"rows_deleted":    deleted,
	})
	j.logg.Info(logCtx, "notification cleanup complete")
	return deleted, nil
}
