package realtime

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/llanero/admin-backend/pkg/logger"
)

// PGListener holds a dedicated connection LISTENing on the row change channel
// and publishes every payload into the hub.
type PGListener struct {
	dsn            string
	channel        string
	hub            *Hub
	reconnectDelay time.Duration
	logg           *logger.Logger
}

func NewPGListener(dsn, channel string, hub *Hub, reconnectDelay time.Duration, logg *logger.Logger) (*PGListener, error) {
	if dsn == "" {
		return nil, errors.New("dsn required")
	}
	if channel == "" {
		return nil, errors.New("channel required")
	}
	if hub == nil {
		return nil, errors.New("hub required")
	}
	if reconnectDelay <= 0 {
		reconnectDelay = 3 * time.Second
	}
	return &PGListener{
		dsn:            dsn,
		channel:        channel,
		hub:            hub,
		reconnectDelay: reconnectDelay,
		logg:           logg,
	}, nil
}

// Run listens until ctx is cancelled, reconnecting after connection errors.
func (l *PGListener) Run(ctx context.Context) error {
	for {
		err := l.listen(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if l.logg != nil {
			l.logg.Error(ctx, "realtime listener disconnected", err)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(l.reconnectDelay):
		}
	}
}

func (l *PGListener) listen(ctx context.Context) error {
	conn, err := pgx.Connect(ctx, l.dsn)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(context.Background())

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{l.channel}.Sanitize()); err != nil {
		return fmt.Errorf("listen %s: %w", l.channel, err)
	}
	if l.logg != nil {
		l.logg.Info(l.logg.WithField(ctx, "channel", l.channel), "realtime listener started")
	}

	for {
		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			return fmt.Errorf("wait for notification: %w", err)
		}
		evt, err := ParseEvent([]byte(n.Payload))
		if err != nil {
			if l.logg != nil {
				l.logg.Warn(l.logg.WithField(ctx, "error", err.Error()), "realtime payload skipped")
			}
			continue
		}
		l.hub.Publish(evt)
	}
}
