package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/llanero/admin-backend/internal/realtime"
	"github.com/llanero/admin-backend/internal/testdb"
	"github.com/llanero/admin-backend/pkg/enums"
	"github.com/llanero/admin-backend/pkg/logger"
	"github.com/llanero/admin-backend/pkg/pagination"
)

func orderInsert(t *testing.T, orderID, warehouseID uuid.UUID, number int) realtime.Event {
	t.Helper()
	record, err := json.Marshal(map[string]any{
		"id":           orderID.String(),
		"warehouse_id": warehouseID.String(),
		"order_number": number,
		"total_usd":    "18.40",
	})
	require.NoError(t, err)
	return realtime.Event{Table: realtime.TableOrders, Type: enums.ChangeTypeInsert, Record: record, ReceivedAt: time.Now()}
}

func TestConsumerCreatesOneNotificationPerOrder(t *testing.T) {
	repo := &fakeRepository{}
	hub := realtime.NewHub(4, nil)
	consumer, err := NewConsumer(repo, hub, logger.New(logger.Options{Output: io.Discard}))
	require.NoError(t, err)

	orderID := uuid.New()
	warehouseID := uuid.New()
	evt := orderInsert(t, orderID, warehouseID, 1042)

	consumer.process(context.Background(), evt)
	consumer.process(context.Background(), evt)

	require.Len(t, repo.created, 1)
	n := repo.created[0]
	require.Equal(t, "Nuevo pedido #1042", n.Title)
	require.Equal(t, "Total: $18.40", n.Message)
	require.Equal(t, enums.NotificationTypeNewOrder, n.Type)
	require.Equal(t, warehouseID, *n.WarehouseID)
	require.Nil(t, n.RecipientID)
}

func TestConsumerIgnoresUpdates(t *testing.T) {
	repo := &fakeRepository{}
	consumer, err := NewConsumer(repo, realtime.NewHub(4, nil), logger.New(logger.Options{Output: io.Discard}))
	require.NoError(t, err)

	evt := orderInsert(t, uuid.New(), uuid.New(), 7)
	evt.Type = enums.ChangeTypeUpdate
	consumer.process(context.Background(), evt)

	require.Empty(t, repo.created)
}

func TestConsumerRunWritesThroughRepository(t *testing.T) {
	db := testdb.New(t)
	repo := NewRepository(db)
	hub := realtime.NewHub(4, nil)
	consumer, err := NewConsumer(repo, hub, logger.New(logger.Options{Output: io.Discard}))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- consumer.Run(ctx) }()
	require.Eventually(t, func() bool { return hub.Subscribers(realtime.TableOrders) == 1 }, 2*time.Second, 10*time.Millisecond)

	hub.Publish(orderInsert(t, uuid.New(), uuid.New(), 15))

	require.Eventually(t, func() bool {
		page, err := repo.List(context.Background(), pagination.Params{}, ListFilter{UnreadOnly: true})
		return err == nil && page.TotalCount == 1
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	require.Equal(t, 0, hub.Subscribers(realtime.TableOrders))
}

// staleLookup never sees existing rows, like two instances reading before either inserts.
type staleLookup struct {
	Repository
}

func (staleLookup) ExistsForOrder(context.Context, uuid.UUID, enums.NotificationType) (bool, error) {
	return false, nil
}

func TestConsumerLosingInsertRaceIsNotAnError(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(testdb.New(t))
	var logs bytes.Buffer
	consumer, err := NewConsumer(staleLookup{Repository: repo}, realtime.NewHub(4, nil), logger.New(logger.Options{Level: "debug", Output: &logs}))
	require.NoError(t, err)

	evt := orderInsert(t, uuid.New(), uuid.New(), 88)
	consumer.process(ctx, evt)
	consumer.process(ctx, evt)

	page, err := repo.List(ctx, pagination.Params{}, ListFilter{})
	require.NoError(t, err)
	require.EqualValues(t, 1, page.TotalCount)
	require.NotContains(t, logs.String(), `"level":"error"`)
	require.Contains(t, logs.String(), "new order already notified")
}
