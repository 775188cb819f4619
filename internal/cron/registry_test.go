package cron

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type stubJob struct {
	name string
}

func (s *stubJob) Name() string                       { return s.name }
func (s *stubJob) Run(context.Context) (int64, error) { return 0, nil }

func TestRegistryKeepsOrderAndRejectsDuplicates(t *testing.T) {
	cleanup := &stubJob{name: "notification-cleanup"}
	expiry := &stubJob{name: "banner-expiry"}

	registry, err := NewRegistry(cleanup, nil, expiry)
	require.NoError(t, err)
	require.Equal(t, []Job{cleanup, expiry}, registry.Jobs())
	require.Equal(t, []string{"banner-expiry", "notification-cleanup"}, registry.Names())

	jobs := registry.Jobs()
	jobs[0] = nil
	require.NotNil(t, registry.Jobs()[0])

	require.Error(t, registry.Register(&stubJob{name: "banner-expiry"}))
	_, err = NewRegistry(&stubJob{})
	require.Error(t, err)
}

func TestRegistrySelect(t *testing.T) {
	cleanup := &stubJob{name: "notification-cleanup"}
	expiry := &stubJob{name: "banner-expiry"}
	registry, err := NewRegistry(cleanup, expiry)
	require.NoError(t, err)

	all, err := registry.Select()
	require.NoError(t, err)
	require.Len(t, all.Jobs(), 2)

	only, err := registry.Select("banner-expiry")
	require.NoError(t, err)
	require.Equal(t, []Job{expiry}, only.Jobs())

	_, err = registry.Select("order-ttl")
	require.ErrorContains(t, err, "unknown cron job")
}
