package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/llanero/admin-backend/pkg/logger"
)

type BannerExpiryJobParams struct {
	Logger  *logger.Logger
	Banners bannerExpirer
}

type bannerExpirer interface {
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
}

// NewBannerExpiryJob switches off banners whose end date has passed so the
// customer app stops showing them.
func NewBannerExpiryJob(params BannerExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Banners == nil {
		return nil, fmt.Errorf("banners service required")
	}
	return &bannerExpiryJob{
		logg:    params.Logger,
		banners: params.Banners,
		now:     time.Now,
	}, nil
}

type bannerExpiryJob struct {
	logg    *logger.Logger
	banners bannerExpirer
	now     func() time.Time
}

func (j *bannerExpiryJob) Name() string { return "banner-expiry" }

func (j *bannerExpiryJob) Run(ctx context.Context) (int64, error) {
	now := j.now().UTC()
	n, err := j.banners.DeactivateExpired(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("banner expiry: %w", err)
	}
	j.logg.Info(j.logg.WithField(ctx, "banners_deactivated", n), "banner expiry complete")
	return n, nil
}
