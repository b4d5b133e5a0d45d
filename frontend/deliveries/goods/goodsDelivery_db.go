package goods

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"despacho/infrastructure/audit"
	"despacho/infrastructure/sqlite"
	"despacho/models"
)

// LoadFormData returns the active assets offered by the goods form.
func LoadFormData(ctx context.Context, db *sqlite.DB) (NewPageData, error) {
	data := NewPageData{Assets: make([]AssetOption, 0)}
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var assets []models.Asset
		if err := tx.NewSelect().Model(&assets).
			Where("active = 1").
			OrderExpr("code ASC").
			Scan(ctx); err != nil {
			return err
		}
		for _, a := range assets {
			data.Assets = append(data.Assets, AssetOption{ID: a.ID, Code: a.Code, Name: a.Name})
		}
		return nil
	})
	return data, err
}

// CreateDelivery creates a goods delivery atomically. Goods are not
// stock-tracked; the checks are existence, whole quantities of at least
// one, and a known condition value when one is given.
func CreateDelivery(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, actor string, input CreateInput) (string, error) {
	if len(input.Lines) == 0 {
		return "", errors.New("Debe agregar al menos una línea a la entrega")
	}

	var number string
	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var err error
		number, err = nextDeliveryNumber(ctx, tx)
		if err != nil {
			return err
		}

		delivery := models.GoodsDelivery{
			Number:      number,
			Reason:      input.Reason,
			Notes:       input.Notes,
			DeliveredTo: input.DeliveredTo,
		}
		if _, err := tx.NewInsert().Model(&delivery).Exec(ctx); err != nil {
			return err
		}

		for _, line := range input.Lines {
			if !line.Quantity.Positive() || !line.Quantity.IsWholeNumber() {
				return errors.New("La cantidad debe ser un número entero mayor o igual a 1")
			}

			var asset models.Asset
			if err := tx.NewSelect().Model(&asset).Where("id = ?", line.AssetID).Scan(ctx); err != nil {
				return fmt.Errorf("load asset %d: %w", line.AssetID, err)
			}

			deliveryLine := models.GoodsDeliveryLine{
				DeliveryID: delivery.ID,
				AssetID:    line.AssetID,
				Qty:        line.Quantity.IntPart(),
			}
			if line.SerialNumber != nil {
				deliveryLine.SerialNumber = *line.SerialNumber
			}
			if line.Condition != nil {
				deliveryLine.Condition = *line.Condition
			}
			if _, err := tx.NewInsert().Model(&deliveryLine).Exec(ctx); err != nil {
				return err
			}
		}

		if auditSvc != nil {
			if err := auditSvc.Write(ctx, tx, actor, "delivery.goods.create", "goods_deliveries",
				strconv.FormatInt(delivery.ID, 10), nil, delivery); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return number, nil
}

func nextDeliveryNumber(ctx context.Context, tx bun.Tx) (string, error) {
	day := time.Now().Format("20060102")
	prefix := "ENT-BIEN-" + day + "-"

	var last sql.NullString
	if err := tx.NewRaw(`SELECT MAX(number) FROM goods_deliveries WHERE number LIKE ?`, prefix+"%").Scan(ctx, &last); err != nil {
		return "", err
	}
	seq := 1
	if last.Valid {
		suffix := strings.TrimPrefix(last.String, prefix)
		if n, err := strconv.Atoi(suffix); err == nil {
			seq = n + 1
		}
	}
	return fmt.Sprintf("%s%03d", prefix, seq), nil
}

// ListDeliveries returns the goods deliveries, newest first.
func ListDeliveries(ctx context.Context, db *sqlite.DB) ([]DeliveryRow, error) {
	rows := make([]DeliveryRow, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`
SELECT d.id, d.number, d.delivered_to, d.reason,
       strftime('%d/%m/%Y %H:%M', d.created_at) AS created_at,
       (SELECT COUNT(*) FROM goods_delivery_lines l WHERE l.delivery_id = d.id) AS line_count
FROM goods_deliveries d
ORDER BY d.id DESC`).Scan(ctx, &rows)
	})
	return rows, err
}
