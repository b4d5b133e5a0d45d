package exports

import (
	"context"
	"encoding/csv"
	"net/http/httptest"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/uptrace/bun"

	"despacho/infrastructure/sqlite"
)

func openTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "exports-test.db")
	db, err := sqlite.Open(dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("runtime caller unavailable")
	}
	migrationsDir := filepath.Join(filepath.Dir(file), "..", "..", "infrastructure", "sqlite", "migrations")
	if err := sqlite.ApplyMigrations(context.Background(), db, migrationsDir); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return db
}

func seedItemDelivery(t *testing.T, db *sqlite.DB) int64 {
	t.Helper()
	var deliveryID int64
	err := db.WithWriteTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO articles (id, code, name, category, unit, current_stock)
VALUES (1, 'ART-001', 'Guantes de nitrilo', 'EPP', 'caja', 7)`); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `
INSERT INTO item_deliveries (number, reason, delivered_to)
VALUES ('ENT-ART-20260823-001', 'Reposición taller', 'J. Pérez')`)
		if err != nil {
			return err
		}
		deliveryID, err = res.LastInsertId()
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
INSERT INTO item_delivery_lines (delivery_id, article_id, qty, lot)
VALUES (?, 1, 3, 'L1')`, deliveryID)
		return err
	})
	if err != nil {
		t.Fatalf("seed delivery: %v", err)
	}
	return deliveryID
}

func TestItemDeliveriesCSV(t *testing.T) {
	db := openTestDB(t)
	seedItemDelivery(t, db)

	var buf strings.Builder
	if err := writeItemDeliveriesCSV(context.Background(), db, &buf, nil); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("rows = %d, want header + 1 line", len(records))
	}
	if got := records[0][0]; got != "numero" {
		t.Errorf("header starts with %s", got)
	}
	line := records[1]
	if line[0] != "ENT-ART-20260823-001" || line[4] != "ART-001" || line[6] != "3" || line[8] != "L1" {
		t.Errorf("unexpected line: %v", line)
	}
}

func TestItemDeliveriesCSVHandler(t *testing.T) {
	db := openTestDB(t)
	seedItemDelivery(t, db)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/despacho/exports/items.csv", nil)
	ItemDeliveriesCSVHandler(db)(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("content type = %s", ct)
	}
	if !strings.Contains(rec.Body.String(), "ENT-ART-20260823-001") {
		t.Errorf("body missing delivery number: %s", rec.Body.String())
	}

	var runs int
	err := db.WithReadTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`SELECT COUNT(1) FROM export_runs WHERE export_type = 'item_deliveries_csv'`).Scan(ctx, &runs)
	})
	if err != nil {
		t.Fatalf("count export runs: %v", err)
	}
	if runs != 1 {
		t.Errorf("export runs = %d, want 1", runs)
	}
}

func TestItemDeliveriesCSVHandlerUnknownDelivery(t *testing.T) {
	db := openTestDB(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/despacho/exports/items.csv?delivery_id=99", nil)
	ItemDeliveriesCSVHandler(db)(rec, req)

	if rec.Code != 404 {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestGoodsDeliveriesCSV(t *testing.T) {
	db := openTestDB(t)
	err := db.WithWriteTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO assets (id, code, name) VALUES (1, 'BIEN-010', 'Taladro percutor')`); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
INSERT INTO goods_deliveries (id, number, reason, delivered_to)
VALUES (1, 'ENT-BIEN-20260823-001', 'Obra norte', 'M. Soto')`); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
INSERT INTO goods_delivery_lines (delivery_id, asset_id, qty, serial_number, condition)
VALUES (1, 1, 2, 'SN-778', 'BUENO')`)
		return err
	})
	if err != nil {
		t.Fatalf("seed goods delivery: %v", err)
	}

	var buf strings.Builder
	if err := writeGoodsDeliveriesCSV(context.Background(), db, &buf); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("rows = %d, want header + 1 line", len(records))
	}
	line := records[1]
	if line[0] != "ENT-BIEN-20260823-001" || line[6] != "2" || line[7] != "SN-778" || line[8] != "BUENO" {
		t.Errorf("unexpected line: %v", line)
	}
}
