package realtime

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/llanero/admin-backend/pkg/enums"
)

const (
	TableOrders        = "orders"
	TableNotifications = "notifications"
)

// Event is one row change published by the notify_row_change trigger.
type Event struct {
	Table      string           `json:"table"`
	Type       enums.ChangeType `json:"type"`
	Record     json.RawMessage  `json:"record,omitempty"`
	OldRecord  json.RawMessage  `json:"old_record,omitempty"`
	ReceivedAt time.Time        `json:"received_at"`
}

// ParseEvent decodes a trigger payload.
func ParseEvent(payload []byte) (Event, error) {
	var evt Event
	if err := json.Unmarshal(payload, &evt); err != nil {
		return Event{}, fmt.Errorf("decode change payload: %w", err)
	}
	if evt.Table == "" {
		return Event{}, fmt.Errorf("change payload missing table")
	}
	if !evt.Type.IsValid() {
		return Event{}, fmt.Errorf("change payload has invalid type %q", evt.Type)
	}
	if evt.ReceivedAt.IsZero() {
		evt.ReceivedAt = time.Now().UTC()
	}
	return evt, nil
}

// Row returns the record the event is about: the new row, or the old row for deletes.
func (e Event) Row() json.RawMessage {
	if e.Type == enums.ChangeTypeDelete || len(e.Record) == 0 || string(e.Record) == "null" {
		return e.OldRecord
	}
	return e.Record
}

// Field returns a top-level column of Row as a string.
func (e Event) Field(name string) (string, bool) {
	row := e.Row()
	if len(row) == 0 {
		return "", false
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(row, &fields); err != nil {
		return "", false
	}
	raw, ok := fields[name]
	if !ok || string(raw) == "null" {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), true
	}
	return string(raw), true
}

// IntField returns a numeric column of Row.
func (e Event) IntField(name string) (int64, bool) {
	raw, ok := e.Field(name)
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
