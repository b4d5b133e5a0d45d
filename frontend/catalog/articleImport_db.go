package catalog

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	"despacho/infrastructure/audit"
	"despacho/infrastructure/sqlite"
)

type ImportSummary struct {
	Inserted int
	Updated  int
	Errors   int
}

type ArticleRecord struct {
	ID           int64  `bun:"id"`
	Code         string `bun:"code"`
	Name         string `bun:"name"`
	Category     string `bun:"category"`
	Unit         string `bun:"unit"`
	CurrentStock string `bun:"current_stock"`
	UpdatedAt    string `bun:"updated_at"`
}

func ListArticles(ctx context.Context, db *sqlite.DB) ([]ArticleRecord, error) {
	rows := make([]ArticleRecord, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`
SELECT id, code, name, category, unit,
       CAST(current_stock AS TEXT) AS current_stock,
       strftime('%d/%m/%Y %H:%M', updated_at) AS updated_at
FROM articles
WHERE active = 1
ORDER BY code COLLATE NOCASE ASC`).Scan(ctx, &rows)
	})
	return rows, err
}

var importHeader = []string{"codigo", "nombre", "categoria", "unidad", "stock"}

// ImportCSV upserts articles from a CSV with header
// codigo,nombre,categoria,unidad,stock. Existing codes keep their stock
// unless the stock column carries a value.
func ImportCSV(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, actor string, reader io.Reader) (ImportSummary, error) {
	summary := ImportSummary{}
	r := csv.NewReader(reader)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return summary, fmt.Errorf("read header: %w", err)
	}
	if len(header) < len(importHeader) {
		return summary, fmt.Errorf("invalid CSV header; expected %s", strings.Join(importHeader, ","))
	}
	for i, want := range importHeader {
		if !strings.EqualFold(strings.TrimSpace(header[i]), want) {
			return summary, fmt.Errorf("invalid CSV header; expected %s", strings.Join(importHeader, ","))
		}
	}

	err = db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		for {
			record, err := r.Read()
			if err == io.EOF {
				break
			}
			if err != nil {
				summary.Errors++
				continue
			}
			if len(record) < len(importHeader) {
				summary.Errors++
				continue
			}
			code := strings.TrimSpace(record[0])
			name := strings.TrimSpace(record[1])
			category := strings.TrimSpace(record[2])
			unit := strings.TrimSpace(record[3])
			stockText := strings.TrimSpace(record[4])
			if code == "" || name == "" {
				summary.Errors++
				continue
			}
			if unit == "" {
				unit = "unidad"
			}

			var stock *decimal.Decimal
			if stockText != "" {
				parsed, err := decimal.NewFromString(stockText)
				if err != nil || parsed.IsNegative() {
					summary.Errors++
					continue
				}
				stock = &parsed
			}

			var exists int
			if err := tx.NewRaw(`SELECT COUNT(1) FROM articles WHERE code = ?`, code).Scan(ctx, &exists); err != nil {
				return err
			}
			if exists > 0 {
				summary.Updated++
				q := `
UPDATE articles
SET name = ?, category = ?, unit = ?, updated_at = CURRENT_TIMESTAMP
WHERE code = ?`
				if _, err := tx.ExecContext(ctx, q, name, category, unit, code); err != nil {
					summary.Errors++
					summary.Updated--
					continue
				}
				if stock != nil {
					if _, err := tx.ExecContext(ctx,
						`UPDATE articles SET current_stock = ? WHERE code = ?`, *stock, code); err != nil {
						summary.Errors++
						continue
					}
				}
				continue
			}

			summary.Inserted++
			initial := decimal.Zero
			if stock != nil {
				initial = *stock
			}
			if _, err := tx.ExecContext(ctx, `
INSERT INTO articles (code, name, category, unit, current_stock)
VALUES (?, ?, ?, ?, ?)`, code, name, category, unit, initial); err != nil {
				summary.Errors++
				summary.Inserted--
			}
		}

		if auditSvc != nil {
			after := map[string]any{"inserted": summary.Inserted, "updated": summary.Updated, "errors": summary.Errors}
			if err := auditSvc.Write(ctx, tx, actor, "catalog.import", "articles", "batch", nil, after); err != nil {
				return err
			}
		}
		return nil
	})
	return summary, err
}
