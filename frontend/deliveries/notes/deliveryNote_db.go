package notes

import (
	"context"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"despacho/infrastructure/sqlite"
)

// LoadItemNote loads an item delivery as printable note data.
func LoadItemNote(ctx context.Context, db *sqlite.DB, deliveryID int64) (NoteData, error) {
	data := NoteData{Title: "Entrega de Artículos"}
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var header struct {
			Number      string    `bun:"number"`
			DeliveredTo string    `bun:"delivered_to"`
			Reason      string    `bun:"reason"`
			Notes       string    `bun:"notes"`
			CreatedAt   time.Time `bun:"created_at"`
		}
		if err := tx.NewRaw(`
SELECT number, delivered_to, reason, notes, created_at
FROM item_deliveries WHERE id = ?`, deliveryID).Scan(ctx,
			&header.Number, &header.DeliveredTo, &header.Reason, &header.Notes, &header.CreatedAt); err != nil {
			return err
		}
		data.Number = header.Number
		data.DeliveredTo = header.DeliveredTo
		data.Reason = header.Reason
		data.Notes = header.Notes
		data.CreatedAt = header.CreatedAt

		var lines []struct {
			Code string `bun:"code"`
			Name string `bun:"name"`
			Qty  string `bun:"qty"`
			Unit string `bun:"unit"`
			Lot  string `bun:"lot"`
		}
		if err := tx.NewRaw(`
SELECT a.code, a.name, CAST(l.qty AS TEXT) AS qty, a.unit, l.lot
FROM item_delivery_lines l
JOIN articles a ON a.id = l.article_id
WHERE l.delivery_id = ?
ORDER BY l.id ASC`, deliveryID).Scan(ctx, &lines); err != nil {
			return err
		}
		for _, line := range lines {
			detail := ""
			if strings.TrimSpace(line.Lot) != "" {
				detail = "Lote: " + line.Lot
			}
			data.Lines = append(data.Lines, NoteLine{
				Code:   line.Code,
				Name:   line.Name,
				Qty:    line.Qty,
				Unit:   line.Unit,
				Detail: detail,
			})
		}
		return nil
	})
	return data, err
}

// LoadGoodsNote loads a goods delivery as printable note data.
func LoadGoodsNote(ctx context.Context, db *sqlite.DB, deliveryID int64) (NoteData, error) {
	data := NoteData{Title: "Entrega de Bienes"}
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var header struct {
			Number      string    `bun:"number"`
			DeliveredTo string    `bun:"delivered_to"`
			Reason      string    `bun:"reason"`
			Notes       string    `bun:"notes"`
			CreatedAt   time.Time `bun:"created_at"`
		}
		if err := tx.NewRaw(`
SELECT number, delivered_to, reason, notes, created_at
FROM goods_deliveries WHERE id = ?`, deliveryID).Scan(ctx,
			&header.Number, &header.DeliveredTo, &header.Reason, &header.Notes, &header.CreatedAt); err != nil {
			return err
		}
		data.Number = header.Number
		data.DeliveredTo = header.DeliveredTo
		data.Reason = header.Reason
		data.Notes = header.Notes
		data.CreatedAt = header.CreatedAt

		var lines []struct {
			Code         string `bun:"code"`
			Name         string `bun:"name"`
			Qty          string `bun:"qty"`
			SerialNumber string `bun:"serial_number"`
			Condition    string `bun:"condition"`
		}
		if err := tx.NewRaw(`
SELECT s.code, s.name, CAST(l.qty AS TEXT) AS qty, l.serial_number, l.condition
FROM goods_delivery_lines l
JOIN assets s ON s.id = l.asset_id
WHERE l.delivery_id = ?
ORDER BY l.id ASC`, deliveryID).Scan(ctx, &lines); err != nil {
			return err
		}
		for _, line := range lines {
			var parts []string
			if strings.TrimSpace(line.SerialNumber) != "" {
				parts = append(parts, "Serie: "+line.SerialNumber)
			}
			if strings.TrimSpace(line.Condition) != "" {
				parts = append(parts, "Estado: "+line.Condition)
			}
			data.Lines = append(data.Lines, NoteLine{
				Code:   line.Code,
				Name:   line.Name,
				Qty:    line.Qty,
				Unit:   "unidad",
				Detail: strings.Join(parts, ", "),
			})
		}
		return nil
	})
	return data, err
}
