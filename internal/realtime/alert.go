package realtime

import (
	"fmt"
	"strings"
	"time"
)

// Alert is the transient toast shown when a matching row is inserted.
type Alert struct {
	Table    string    `json:"table"`
	RecordID string    `json:"recordId,omitempty"`
	Title    string    `json:"title"`
	Body     string    `json:"body,omitempty"`
	Sound    *Sound    `json:"sound,omitempty"`
	At       time.Time `json:"at"`
}

// AlertBuilder turns an insert into an alert. Returning false skips the alert.
type AlertBuilder func(Event) (Alert, bool)

// AlertSink receives alerts built by a Channel.
type AlertSink func(Alert)

// OrderAlert names the new order by its sequential number.
func OrderAlert(evt Event) (Alert, bool) {
	alert := Alert{Table: evt.Table, At: evt.ReceivedAt}
	alert.RecordID, _ = evt.Field("id")
	if n, ok := evt.IntField("order_number"); ok {
		alert.Title = fmt.Sprintf("Nuevo pedido #%d", n)
	} else {
		alert.Title = "Nuevo pedido"
	}
	if total, ok := evt.Field("total_usd"); ok {
		alert.Body = "Total: $" + total
	}
	return alert, true
}

// NotificationAlert repeats the notification text and plays the chime.
func NotificationAlert(evt Event) (Alert, bool) {
	title, _ := evt.Field("title")
	if strings.TrimSpace(title) == "" {
		return Alert{}, false
	}
	alert := Alert{
		Table: evt.Table,
		Title: title,
		Sound: NotificationChime(),
		At:    evt.ReceivedAt,
	}
	alert.RecordID, _ = evt.Field("id")
	alert.Body, _ = evt.Field("message")
	return alert, true
}
