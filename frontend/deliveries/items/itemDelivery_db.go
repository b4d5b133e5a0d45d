package items

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
	"despacho/lineform"
	"despacho/models"
)

// LoadFormData gathers everything the new-delivery page needs: the
// in-stock article catalog, open requests and active warehouses.
func LoadFormData(ctx context.Context, db *sqlite.DB) (NewPageData, error) {
	data := NewPageData{
		Catalog:    make([]lineform.CatalogEntry, 0),
		Requests:   make([]RequestOption, 0),
		Warehouses: make([]WarehouseOption, 0),
	}
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var articles []models.Article
		if err := tx.NewSelect().Model(&articles).
			Where("active = 1").
			Where("current_stock > 0").
			OrderExpr("code ASC").
			Scan(ctx); err != nil {
			return err
		}
		for _, a := range articles {
			stock := lineform.Quantity{Decimal: a.CurrentStock}
			data.Catalog = append(data.Catalog, lineform.CatalogEntry{
				ID:       a.ID,
				Code:     a.Code,
				Name:     a.Name,
				Category: a.Category,
				Unit:     a.Unit,
				Stock:    &stock,
			})
		}

		var requests []models.Request
		if err := tx.NewSelect().Model(&requests).
			Where("status = ?", models.RequestStatusApproved).
			OrderExpr("number ASC").
			Scan(ctx); err != nil {
			return err
		}
		for _, rq := range requests {
			data.Requests = append(data.Requests, RequestOption{ID: rq.ID, Number: rq.Number, Requester: rq.Requester})
		}

		var warehouses []models.Warehouse
		if err := tx.NewSelect().Model(&warehouses).
			Where("active = 1").
			OrderExpr("name ASC").
			Scan(ctx); err != nil {
			return err
		}
		for _, wh := range warehouses {
			data.Warehouses = append(data.Warehouses, WarehouseOption{ID: wh.ID, Name: wh.Name})
		}
		return nil
	})
	return data, err
}

// Source adapts the database to lineform.RequestLineSource.
type Source struct {
	DB *sqlite.DB
}

func (s *Source) RequestLines(ctx context.Context, requestID int64) (lineform.RequestDetail, error) {
	return LoadRequestDetail(ctx, s.DB, requestID)
}

// LoadRequestDetail returns an approved request's header plus its lines
// that still have a pending amount.
func LoadRequestDetail(ctx context.Context, db *sqlite.DB, requestID int64) (lineform.RequestDetail, error) {
	var detail lineform.RequestDetail
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var req models.Request
		if err := tx.NewSelect().Model(&req).Where("id = ?", requestID).Scan(ctx); err != nil {
			return err
		}
		if req.Status != models.RequestStatusApproved {
			return fmt.Errorf("la solicitud %s no está aprobada", req.Number)
		}
		detail.Info = lineform.RequestInfo{
			ID:                req.ID,
			Number:            req.Number,
			Requester:         req.Requester,
			Department:        req.Department,
			Reason:            req.Reason,
			SourceWarehouseID: req.SourceWarehouseID,
		}

		var lines []models.RequestLine
		if err := tx.NewSelect().Model(&lines).
			Relation("Article").
			Where("rl.request_id = ?", requestID).
			Where("rl.dispatched_qty < rl.approved_qty").
			OrderExpr("rl.id ASC").
			Scan(ctx); err != nil {
			return err
		}
		for _, line := range lines {
			detail.Lines = append(detail.Lines, lineform.RequestLine{
				RequestLineID: line.ID,
				ArticleID:     line.ArticleID,
				Code:          line.Article.Code,
				Name:          line.Article.Name,
				Unit:          line.Article.Unit,
				Pending:       lineform.Quantity{Decimal: line.ApprovedQty.Sub(line.DispatchedQty)},
				Stock:         lineform.Quantity{Decimal: line.Article.CurrentStock},
			})
		}
		return nil
	})
	return detail, err
}

// requestLineDetails serves the JSON endpoint; it carries the approved
// and dispatched amounts alongside the computed pending.
func requestLineDetails(ctx context.Context, db *sqlite.DB, requestID int64) (requestLinesResponse, error) {
	var resp requestLinesResponse
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var req models.Request
		if err := tx.NewSelect().Model(&req).Where("id = ?", requestID).Scan(ctx); err != nil {
			return err
		}
		if req.Status != models.RequestStatusApproved {
			return fmt.Errorf("la solicitud %s no está aprobada", req.Number)
		}
		resp.Request = &requestHeaderJSON{
			Number:            req.Number,
			Requester:         req.Requester,
			Department:        req.Department,
			Reason:            req.Reason,
			SourceWarehouseID: req.SourceWarehouseID,
		}

		var lines []models.RequestLine
		if err := tx.NewSelect().Model(&lines).
			Relation("Article").
			Where("rl.request_id = ?", requestID).
			Where("rl.dispatched_qty < rl.approved_qty").
			OrderExpr("rl.id ASC").
			Scan(ctx); err != nil {
			return err
		}
		resp.Lines = make([]requestLineJSON, 0, len(lines))
		for _, line := range lines {
			resp.Lines = append(resp.Lines, requestLineJSON{
				RequestLineID: line.ID,
				ArticleID:     line.ArticleID,
				Code:          line.Article.Code,
				Name:          line.Article.Name,
				Category:      line.Article.Category,
				Unit:          line.Article.Unit,
				Stock:         lineform.Quantity{Decimal: line.Article.CurrentStock},
				Approved:      lineform.Quantity{Decimal: line.ApprovedQty},
				Dispatched:    lineform.Quantity{Decimal: line.DispatchedQty},
				Pending:       lineform.Quantity{Decimal: line.ApprovedQty.Sub(line.DispatchedQty)},
			})
		}
		return nil
	})
	if err != nil {
		return requestLinesResponse{}, err
	}
	resp.Success = true
	return resp, nil
}

// CreateDelivery creates the delivery atomically: header, lines, stock
// decrements, SALIDA movements, dispatched-quantity updates and, when a
// linked request is fully served, its completion. Bounds are re-checked
// here against live values; any violation rolls the whole submission back.
func CreateDelivery(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, actor string, input CreateInput) (string, error) {
	if len(input.Lines) == 0 {
		return "", errors.New("Debe agregar al menos una línea a la entrega")
	}

	var number string
	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var req *models.Request
		if input.RequestID != nil {
			req = new(models.Request)
			if err := tx.NewSelect().Model(req).Where("id = ?", *input.RequestID).Scan(ctx); err != nil {
				return fmt.Errorf("load request %d: %w", *input.RequestID, err)
			}
			if req.Status != models.RequestStatusApproved {
				return fmt.Errorf("la solicitud %s no está aprobada", req.Number)
			}
		}

		var err error
		number, err = nextDeliveryNumber(ctx, tx)
		if err != nil {
			return err
		}

		delivery := models.ItemDelivery{
			Number:            number,
			Reason:            input.Reason,
			Notes:             input.Notes,
			DeliveredTo:       input.DeliveredTo,
			RequestID:         input.RequestID,
			SourceWarehouseID: input.SourceWarehouseID,
		}
		if _, err := tx.NewInsert().Model(&delivery).Exec(ctx); err != nil {
			return err
		}

		for _, line := range input.Lines {
			if !line.Quantity.Positive() {
				return errors.New("Ingrese una cantidad válida en todas las líneas")
			}

			var article models.Article
			if err := tx.NewSelect().Model(&article).Where("id = ?", line.ArticleID).Scan(ctx); err != nil {
				return fmt.Errorf("load article %d: %w", line.ArticleID, err)
			}

			if line.RequestLineID != nil {
				if req == nil {
					return errors.New("línea vinculada sin solicitud seleccionada")
				}
				var reqLine models.RequestLine
				if err := tx.NewSelect().Model(&reqLine).
					Where("id = ?", *line.RequestLineID).
					Where("request_id = ?", req.ID).
					Scan(ctx); err != nil {
					return fmt.Errorf("load request line %d: %w", *line.RequestLineID, err)
				}
				pending := reqLine.ApprovedQty.Sub(reqLine.DispatchedQty)
				if line.Quantity.GreaterThan(pending) {
					return fmt.Errorf("La cantidad para %s excede lo pendiente. Pendiente: %s, Solicitado: %s",
						article.Name, pending.String(), line.Quantity.String())
				}
			}

			if line.Quantity.GreaterThan(article.CurrentStock) {
				return fmt.Errorf("Stock insuficiente para %s. Disponible: %s, Solicitado: %s",
					article.Name, article.CurrentStock.String(), line.Quantity.String())
			}

			deliveryLine := models.ItemDeliveryLine{
				DeliveryID:    delivery.ID,
				ArticleID:     line.ArticleID,
				Qty:           line.Quantity.Decimal,
				RequestLineID: line.RequestLineID,
			}
			if line.Lot != nil {
				deliveryLine.Lot = *line.Lot
			}
			if _, err := tx.NewInsert().Model(&deliveryLine).Exec(ctx); err != nil {
				return err
			}

			stockBefore := article.CurrentStock
			stockAfter := stockBefore.Sub(line.Quantity.Decimal)
			if _, err := tx.NewUpdate().Model(&article).
				Set("current_stock = ?", stockAfter).
				Set("updated_at = CURRENT_TIMESTAMP").
				WherePK().
				Exec(ctx); err != nil {
				return err
			}

			movement := models.StockMovement{
				ArticleID:   line.ArticleID,
				Operation:   models.MovementOut,
				Qty:         line.Quantity.Decimal,
				StockBefore: stockBefore,
				StockAfter:  stockAfter,
				Reason:      "Entrega " + number,
			}
			if _, err := tx.NewInsert().Model(&movement).Exec(ctx); err != nil {
				return err
			}

			if line.RequestLineID != nil {
				if _, err := tx.NewRaw(`
UPDATE request_lines
SET dispatched_qty = dispatched_qty + ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?`, line.Quantity.Decimal, *line.RequestLineID).Exec(ctx); err != nil {
					return err
				}
			}
		}

		if req != nil {
			if err := completeRequestIfServed(ctx, tx, req.ID); err != nil {
				return err
			}
		}

		if auditSvc != nil {
			if err := auditSvc.Write(ctx, tx, actor, "delivery.items.create", "item_deliveries",
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

// completeRequestIfServed marks the request completed once every line is
// fully dispatched.
func completeRequestIfServed(ctx context.Context, tx bun.Tx, requestID int64) error {
	var open int
	if err := tx.NewRaw(`
SELECT COUNT(1) FROM request_lines
WHERE request_id = ? AND dispatched_qty < approved_qty`, requestID).Scan(ctx, &open); err != nil {
		return err
	}
	if open > 0 {
		return nil
	}
	_, err := tx.NewRaw(`
UPDATE requests SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		models.RequestStatusCompleted, requestID).Exec(ctx)
	return err
}

func nextDeliveryNumber(ctx context.Context, tx bun.Tx) (string, error) {
	day := time.Now().Format("20060102")
	prefix := "ENT-ART-" + day + "-"

	var last sql.NullString
	if err := tx.NewRaw(`SELECT MAX(number) FROM item_deliveries WHERE number LIKE ?`, prefix+"%").Scan(ctx, &last); err != nil {
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

// SearchArticles matches active articles by code or name.
func SearchArticles(ctx context.Context, db *sqlite.DB, q string) ([]articleSearchJSON, error) {
	q = strings.TrimSpace(q)
	out := make([]articleSearchJSON, 0)
	if q == "" {
		return out, nil
	}
	var articles []models.Article
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&articles).
			Where("active = 1").
			Where("(code LIKE ? OR name LIKE ?)", "%"+q+"%", "%"+q+"%").
			OrderExpr("code ASC").
			Limit(20).
			Scan(ctx)
	})
	if err != nil {
		return nil, err
	}
	for _, a := range articles {
		out = append(out, articleSearchJSON{
			ID:    a.ID,
			Code:  a.Code,
			Name:  a.Name,
			Unit:  a.Unit,
			Stock: lineform.Quantity{Decimal: a.CurrentStock},
		})
	}
	return out, nil
}

// ListDeliveries returns the item deliveries, newest first.
func ListDeliveries(ctx context.Context, db *sqlite.DB) ([]DeliveryRow, error) {
	rows := make([]DeliveryRow, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`
SELECT d.id, d.number, d.delivered_to, d.reason,
       strftime('%d/%m/%Y %H:%M', d.created_at) AS created_at,
       (SELECT COUNT(*) FROM item_delivery_lines l WHERE l.delivery_id = d.id) AS line_count
FROM item_deliveries d
ORDER BY d.id DESC`).Scan(ctx, &rows)
	})
	return rows, err
}
