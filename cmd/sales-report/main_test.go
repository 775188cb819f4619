package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/llanero/admin-backend/internal/reports"
	"github.com/llanero/admin-backend/pkg/enums"
)

func TestParseFilterMakesEndInclusive(t *testing.T) {
	filter, err := parseFilter("2026-02-01", "2026-02-28", "")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !filter.To.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected end %v", filter.To)
	}
	if filter.WarehouseID != nil {
		t.Fatalf("expected no warehouse")
	}
}

func TestParseFilterRejectsBadInput(t *testing.T) {
	cases := [][3]string{
		{"", "2026-02-28", ""},
		{"2026-02-01", "28/02/2026", ""},
		{"2026-02-01", "2026-02-28", "central"},
		{"2026-03-01", "2026-02-01", ""},
	}
	for _, c := range cases {
		if _, err := parseFilter(c[0], c[1], c[2]); err == nil {
			t.Fatalf("expected error for %v", c)
		}
	}
}

func TestRenderPrintsTotals(t *testing.T) {
	summary := &reports.Summary{
		From:             time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		To:               time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		OrderCount:       3,
		TotalUSD:         decimal.RequireFromString("45.50"),
		TotalVES:         decimal.Zero,
		AverageTicketUSD: decimal.RequireFromString("15.17"),
		ByStatus: []reports.StatusTotal{
			{Status: enums.OrderStatusDelivered, Label: "Entregado", Count: 3, TotalUSD: decimal.RequireFromString("45.50")},
		},
		TopProducts: []reports.ProductTotal{
			{Name: "Harina PAN", Quantity: 12, TotalUSD: decimal.RequireFromString("18.00")},
		},
	}

	var buf bytes.Buffer
	if err := render(&buf, summary); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Ventas del 2026-02-01 al 2026-02-28", "45.50", "15.17", "Entregado", "Harina PAN"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}
