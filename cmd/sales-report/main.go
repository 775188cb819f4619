package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"

	"github.com/llanero/admin-backend/internal/orders"
	"github.com/llanero/admin-backend/internal/reports"
	"github.com/llanero/admin-backend/pkg/config"
	"github.com/llanero/admin-backend/pkg/db"
	"github.com/llanero/admin-backend/pkg/env"
	"github.com/llanero/admin-backend/pkg/logger"
)

const dateLayout = "2006-01-02"

func main() {
	from := flag.String("from", "", "first day of the report (YYYY-MM-DD)")
	to := flag.String("to", "", "last day of the report, inclusive (YYYY-MM-DD)")
	warehouse := flag.String("warehouse", "", "limit the report to one warehouse id")
	xlsxPath := flag.String("xlsx", "", "also write the spreadsheet export to this path")
	flag.Parse()

	logg := logger.New(logger.Options{ServiceName: "sales-report"})
	_, _ = env.LoadFiles("")

	filter, err := parseFilter(*from, *to, *warehouse)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	requireResource(logg, "config", err)
	logg = logger.New(logger.Options{
		ServiceName: "sales-report",
		Env:         cfg.App.Env,
		Level:       cfg.App.LogLevel,
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx := context.Background()
	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(logg, "database", err)
	defer dbClient.Close()

	orderSvc, err := orders.NewService(orders.NewRepository(dbClient.DB()), dbClient)
	requireResource(logg, "orders service", err)
	svc, err := reports.NewService(reports.NewRepository(dbClient.DB()), orderSvc)
	requireResource(logg, "reports service", err)

	summary, err := svc.Summary(ctx, filter)
	requireResource(logg, "sales summary", err)
	if err := render(os.Stdout, summary); err != nil {
		fmt.Fprintf(os.Stderr, "render report: %v\n", err)
		os.Exit(1)
	}

	if *xlsxPath == "" {
		return
	}
	body, err := svc.Export(ctx, filter)
	requireResource(logg, "sales export", err)
	if err := os.WriteFile(*xlsxPath, body, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write %s: %v\n", *xlsxPath, err)
		os.Exit(1)
	}
	fmt.Println("wrote", *xlsxPath)
}

// parseFilter turns the inclusive calendar range into the half-open filter.
func parseFilter(from, to, warehouse string) (reports.Filter, error) {
	var filter reports.Filter
	start, err := time.ParseInLocation(dateLayout, from, time.UTC)
	if err != nil {
		return filter, fmt.Errorf("invalid -from %q", from)
	}
	end, err := time.ParseInLocation(dateLayout, to, time.UTC)
	if err != nil {
		return filter, fmt.Errorf("invalid -to %q", to)
	}
	filter.From = start
	filter.To = end.AddDate(0, 0, 1)
	if warehouse != "" {
		id, err := uuid.Parse(warehouse)
		if err != nil {
			return filter, fmt.Errorf("invalid -warehouse %q", warehouse)
		}
		filter.WarehouseID = &id
	}
	return filter.Validate()
}

func render(w io.Writer, s *reports.Summary) error {
	fmt.Fprintf(w, "Ventas del %s al %s\n", s.From.Format(dateLayout), s.To.AddDate(0, 0, -1).Format(dateLayout))
	if s.WarehouseID != nil {
		fmt.Fprintf(w, "Almacén %s\n", s.WarehouseID)
	}

	totals := tablewriter.NewWriter(w)
	totals.Header("Pedidos", "Cancelados", "Total USD", "Total VES", "Ticket promedio USD")
	if err := totals.Append([]string{
		fmt.Sprint(s.OrderCount),
		fmt.Sprint(s.CancelledCount),
		s.TotalUSD.StringFixed(2),
		s.TotalVES.StringFixed(2),
		s.AverageTicketUSD.StringFixed(2),
	}); err != nil {
		return err
	}
	if err := totals.Render(); err != nil {
		return err
	}

	byStatus := tablewriter.NewWriter(w)
	byStatus.Header("Estado", "Pedidos", "Total USD")
	for _, row := range s.ByStatus {
		if err := byStatus.Append([]string{row.Label, fmt.Sprint(row.Count), row.TotalUSD.StringFixed(2)}); err != nil {
			return err
		}
	}
	if err := byStatus.Render(); err != nil {
		return err
	}

	if len(s.TopProducts) == 0 {
		return nil
	}
	products := tablewriter.NewWriter(w)
	products.Header("Producto", "Cantidad", "Total USD")
	for _, p := range s.TopProducts {
		if err := products.Append([]string{p.Name, fmt.Sprint(p.Quantity), p.TotalUSD.StringFixed(2)}); err != nil {
			return err
		}
	}
	return products.Render()
}

func requireResource(logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "resource not working: "+resource, err)
	os.Exit(1)
}
