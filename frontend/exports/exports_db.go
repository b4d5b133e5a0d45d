package exports

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"

	"github.com/uptrace/bun"

	"despacho/infrastructure/sqlite"
)

func writeItemDeliveriesCSV(ctx context.Context, db *sqlite.DB, w io.Writer, deliveryID *int64) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	header := []string{"numero", "fecha", "entregado_a", "motivo", "codigo", "articulo", "cantidad", "unidad", "lote", "solicitud"}
	if err := writer.Write(header); err != nil {
		return err
	}

	type row struct {
		Number      string `bun:"number"`
		CreatedAt   string `bun:"created_at"`
		DeliveredTo string `bun:"delivered_to"`
		Reason      string `bun:"reason"`
		Code        string `bun:"code"`
		Article     string `bun:"article"`
		Qty         string `bun:"qty"`
		Unit        string `bun:"unit"`
		Lot         string `bun:"lot"`
		Request     string `bun:"request"`
	}

	rows := make([]row, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		q := `
SELECT d.number,
       strftime('%d/%m/%Y %H:%M', d.created_at) AS created_at,
       d.delivered_to, d.reason,
       a.code, a.name AS article,
       CAST(l.qty AS TEXT) AS qty, a.unit,
       COALESCE(l.lot, '') AS lot,
       COALESCE(r.number, '') AS request
FROM item_delivery_lines l
JOIN item_deliveries d ON d.id = l.delivery_id
JOIN articles a ON a.id = l.article_id
LEFT JOIN requests r ON r.id = d.request_id`
		args := make([]any, 0)
		if deliveryID != nil {
			q += " WHERE d.id = ?"
			args = append(args, *deliveryID)
		}
		q += " ORDER BY d.id ASC, l.id ASC"
		return tx.NewRaw(q, args...).Scan(ctx, &rows)
	})
	if err != nil {
		return err
	}

	for _, r := range rows {
		record := []string{r.Number, r.CreatedAt, r.DeliveredTo, r.Reason, r.Code, r.Article, r.Qty, r.Unit, r.Lot, r.Request}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	return writer.Error()
}

func writeGoodsDeliveriesCSV(ctx context.Context, db *sqlite.DB, w io.Writer) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"numero", "fecha", "entregado_a", "motivo", "codigo", "bien", "cantidad", "numero_serie", "estado_fisico"}); err != nil {
		return err
	}

	type row struct {
		Number       string `bun:"number"`
		CreatedAt    string `bun:"created_at"`
		DeliveredTo  string `bun:"delivered_to"`
		Reason       string `bun:"reason"`
		Code         string `bun:"code"`
		Asset        string `bun:"asset"`
		Qty          int64  `bun:"qty"`
		SerialNumber string `bun:"serial_number"`
		Condition    string `bun:"condition"`
	}

	rows := make([]row, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`
SELECT d.number,
       strftime('%d/%m/%Y %H:%M', d.created_at) AS created_at,
       d.delivered_to, d.reason,
       b.code, b.name AS asset,
       l.qty,
       COALESCE(l.serial_number, '') AS serial_number,
       COALESCE(l.condition, '') AS condition
FROM goods_delivery_lines l
JOIN goods_deliveries d ON d.id = l.delivery_id
JOIN assets b ON b.id = l.asset_id
ORDER BY d.id ASC, l.id ASC`).Scan(ctx, &rows)
	})
	if err != nil {
		return err
	}

	for _, r := range rows {
		record := []string{r.Number, r.CreatedAt, r.DeliveredTo, r.Reason, r.Code, r.Asset, toString(r.Qty), r.SerialNumber, r.Condition}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	return writer.Error()
}

func writeStockMovementsCSV(ctx context.Context, db *sqlite.DB, w io.Writer) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"fecha", "codigo", "articulo", "operacion", "cantidad", "stock_anterior", "stock_posterior", "motivo"}); err != nil {
		return err
	}

	type row struct {
		CreatedAt   string `bun:"created_at"`
		Code        string `bun:"code"`
		Article     string `bun:"article"`
		Operation   string `bun:"operation"`
		Qty         string `bun:"qty"`
		StockBefore string `bun:"stock_before"`
		StockAfter  string `bun:"stock_after"`
		Reason      string `bun:"reason"`
	}

	rows := make([]row, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`
SELECT strftime('%d/%m/%Y %H:%M', m.created_at) AS created_at,
       a.code, a.name AS article,
       m.operation,
       CAST(m.qty AS TEXT) AS qty,
       CAST(m.stock_before AS TEXT) AS stock_before,
       CAST(m.stock_after AS TEXT) AS stock_after,
       COALESCE(m.reason, '') AS reason
FROM stock_movements m
JOIN articles a ON a.id = m.article_id
ORDER BY m.id ASC`).Scan(ctx, &rows)
	})
	if err != nil {
		return err
	}

	for _, r := range rows {
		record := []string{r.CreatedAt, r.Code, r.Article, r.Operation, r.Qty, r.StockBefore, r.StockAfter, r.Reason}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	return writer.Error()
}

func recordExportRun(ctx context.Context, db *sqlite.DB, actor, exportType string) error {
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO export_runs (actor, export_type, created_at) VALUES (?, ?, CURRENT_TIMESTAMP)`,
			actor, exportType)
		return err
	})
}

func itemDeliveryExists(ctx context.Context, db *sqlite.DB, deliveryID int64) (bool, error) {
	var count int
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`SELECT COUNT(1) FROM item_deliveries WHERE id = ?`, deliveryID).Scan(ctx, &count)
	})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func toString(v int64) string {
	return strconv.FormatInt(v, 10)
}
