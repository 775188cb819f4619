package reports

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/llanero/admin-backend/internal/listview"
	"github.com/llanero/admin-backend/internal/orders"
	pkgerrors "github.com/llanero/admin-backend/pkg/errors"
	"github.com/llanero/admin-backend/pkg/pagination"
)

const (
	summarySheet  = "Resumen"
	ordersSheet   = "Pedidos"
	productsSheet = "Productos"
	dateLayout    = "2006-01-02 15:04"
)

var orderHeader = []interface{}{
	"Pedido", "Fecha", "Estado", "Cliente", "Bodegón", "Repartidor",
	"Subtotal USD", "Delivery USD", "Total USD", "Tasa", "Total VES", "Dirección",
}

// Export writes the summary, the best sellers and every order of the range
// into an XLSX workbook.
func (s *service) Export(ctx context.Context, filter Filter) ([]byte, error) {
	summary, err := s.Summary(ctx, filter)
	if err != nil {
		return nil, err
	}
	filter, _ = filter.Validate()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), summarySheet); err != nil {
		return nil, exportErr(err)
	}
	if err := writeSummary(f, summary); err != nil {
		return nil, exportErr(err)
	}
	if _, err := f.NewSheet(productsSheet); err != nil {
		return nil, exportErr(err)
	}
	if err := writeProducts(f, summary.TopProducts); err != nil {
		return nil, exportErr(err)
	}
	if _, err := f.NewSheet(ordersSheet); err != nil {
		return nil, exportErr(err)
	}
	if err := s.writeOrders(ctx, f, filter); err != nil {
		return nil, err
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, exportErr(err)
	}
	return buf.Bytes(), nil
}

func exportErr(err error) error {
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build sales workbook")
}

func writeSummary(f *excelize.File, summary *Summary) error {
	rows := [][]interface{}{
		{"Desde", summary.From.Format(dateLayout)},
		{"Hasta", summary.To.Format(dateLayout)},
		{"Pedidos", summary.OrderCount},
		{"Cancelados", summary.CancelledCount},
		{"Total USD", summary.TotalUSD.InexactFloat64()},
		{"Total VES", summary.TotalVES.InexactFloat64()},
		{"Ticket promedio USD", summary.AverageTicketUSD.InexactFloat64()},
		{},
		{"Estado", "Pedidos", "Total USD"},
	}
	for _, st := range summary.ByStatus {
		rows = append(rows, []interface{}{st.Label, st.Count, st.TotalUSD.InexactFloat64()})
	}
	return setRows(f, summarySheet, 1, rows)
}

func writeProducts(f *excelize.File, products []ProductTotal) error {
	rows := [][]interface{}{{"Producto", "Cantidad", "Total USD"}}
	for _, p := range products {
		rows = append(rows, []interface{}{p.Name, p.Quantity, p.TotalUSD.InexactFloat64()})
	}
	return setRows(f, productsSheet, 1, rows)
}

// writeOrders walks the order list page by page, the same way the console
// table does, so the sheet matches what staff see.
func (s *service) writeOrders(ctx context.Context, f *excelize.File, filter Filter) error {
	if err := setRows(f, ordersSheet, 1, [][]interface{}{orderHeader}); err != nil {
		return exportErr(err)
	}

	from, to := filter.From, filter.To
	view := listview.New[orders.OrderDTO, orders.ListFilter](
		s.orders.List,
		func(o orders.OrderDTO) string { return o.ID.String() },
		listview.WithPageSize[orders.OrderDTO, orders.ListFilter](pagination.MaxPageSize),
		listview.WithFilter[orders.OrderDTO, orders.ListFilter](orders.ListFilter{
			WarehouseID: filter.WarehouseID,
			From:        &from,
			To:          &to,
		}),
	)
	if err := view.Load(ctx); err != nil {
		return err
	}

	row := 2
	for {
		snap := view.Snapshot()
		for _, o := range snap.Page.Data {
			if err := setRows(f, ordersSheet, row, [][]interface{}{orderRow(o)}); err != nil {
				return exportErr(err)
			}
			row++
		}
		if snap.Page.Page >= snap.Page.TotalPages {
			return nil
		}
		if err := view.SetPage(ctx, snap.Page.Page+1); err != nil {
			return err
		}
	}
}

func orderRow(o orders.OrderDTO) []interface{} {
	customer, rider := "", ""
	if o.Customer != nil {
		customer = o.Customer.FullName
	}
	if o.DeliveryMember != nil {
		rider = o.DeliveryMember.FullName
	}
	return []interface{}{
		fmt.Sprintf("#%d", o.OrderNumber),
		o.CreatedAt.UTC().Format(dateLayout),
		orders.StatusLabel(o.Status),
		customer,
		o.WarehouseName,
		rider,
		o.SubtotalUSD.InexactFloat64(),
		o.DeliveryFeeUSD.InexactFloat64(),
		o.TotalUSD.InexactFloat64(),
		o.ExchangeRate.InexactFloat64(),
		o.TotalVES.InexactFloat64(),
		o.DeliveryAddress,
	}
}

func setRows(f *excelize.File, sheet string, start int, rows [][]interface{}) error {
	for i, values := range rows {
		if len(values) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, start+i)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}
	return nil
}
