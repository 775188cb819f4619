package realtime

import (
	"context"
	"errors"
	"sync"

	"github.com/llanero/admin-backend/pkg/enums"
	"github.com/llanero/admin-backend/pkg/logger"
)

// Filter decides whether an event concerns a channel.
type Filter func(Event) bool

// MatchField keeps events whose row has column field equal to value. An empty
// value matches everything.
func MatchField(field, value string) Filter {
	if value == "" {
		return nil
	}
	return func(evt Event) bool {
		got, ok := evt.Field(field)
		return ok && got == value
	}
}

// RefetchFunc reloads whatever view the channel keeps in sync.
type RefetchFunc func(ctx context.Context) error

type ChannelConfig struct {
	Table   string
	Filter  Filter
	Refetch RefetchFunc
	Alert   AlertBuilder
	Sink    AlertSink
	Logger  *logger.Logger
}

// Channel binds a table subscription to a refetch, insert callbacks and an
// alert sink. Events are handled one at a time in arrival order.
type Channel struct {
	cfg    ChannelConfig
	sub    *Subscription
	cancel context.CancelFunc
	done   chan struct{}

	mu        sync.RWMutex
	callbacks []func(Event)
	closeOnce sync.Once
}

// Open subscribes to cfg.Table and starts handling events until ctx ends or
// Close is called.
func Open(ctx context.Context, hub *Hub, cfg ChannelConfig) (*Channel, error) {
	if hub == nil {
		return nil, errors.New("hub required")
	}
	if cfg.Table == "" {
		return nil, errors.New("table required")
	}
	if cfg.Refetch == nil {
		return nil, errors.New("refetch required")
	}

	runCtx, cancel := context.WithCancel(ctx)
	ch := &Channel{
		cfg:    cfg,
		sub:    hub.Subscribe(cfg.Table),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go ch.run(runCtx)
	return ch, nil
}

// OnInsert registers cb to run once per matching insert, after the refetch.
func (c *Channel) OnInsert(cb func(Event)) {
	if cb == nil {
		return
	}
	c.mu.Lock()
	c.callbacks = append(c.callbacks, cb)
	c.mu.Unlock()
}

// Close unsubscribes and waits for the handler loop. Do not call it from a callback.
func (c *Channel) Close() {
	c.closeOnce.Do(func() {
		c.cancel()
		c.sub.Close()
		<-c.done
	})
}

// Done is closed once the channel stops handling events.
func (c *Channel) Done() <-chan struct{} {
	return c.done
}

func (c *Channel) run(ctx context.Context) {
	defer close(c.done)
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-c.sub.Events():
			if !ok {
				return
			}
			c.handle(ctx, evt)
		}
	}
}

func (c *Channel) handle(ctx context.Context, evt Event) {
	if c.cfg.Filter != nil && !c.cfg.Filter(evt) {
		return
	}

	if err := c.cfg.Refetch(ctx); err != nil && c.cfg.Logger != nil && ctx.Err() == nil {
		logCtx := c.cfg.Logger.WithField(ctx, "table", evt.Table)
		c.cfg.Logger.Error(logCtx, "realtime refetch failed", err)
	}

	if evt.Type != enums.ChangeTypeInsert {
		return
	}

	c.mu.RLock()
	callbacks := append([]func(Event){}, c.callbacks...)
	c.mu.RUnlock()
	for _, cb := range callbacks {
		cb(evt)
	}

	if c.cfg.Alert == nil || c.cfg.Sink == nil {
		return
	}
	if alert, ok := c.cfg.Alert(evt); ok {
		c.cfg.Sink(alert)
	}
}
