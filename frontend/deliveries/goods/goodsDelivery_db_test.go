package goods

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/uptrace/bun"

	"despacho/infrastructure/sqlite"
	"despacho/lineform"
)

func openTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "goods-test.db")
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
	migrationsDir := filepath.Join(filepath.Dir(file), "..", "..", "..", "infrastructure", "sqlite", "migrations")
	if err := sqlite.ApplyMigrations(context.Background(), db, migrationsDir); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return db
}

func seedAsset(t *testing.T, db *sqlite.DB, id int64, code, name string) {
	t.Helper()
	err := db.WithWriteTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO assets (id, code, name) VALUES (?, ?, ?)`, id, code, name)
		return err
	})
	if err != nil {
		t.Fatalf("seed asset: %v", err)
	}
}

func goodsLine(assetID int64, qty string, serial, condition *string) lineform.GoodsLine {
	return lineform.GoodsLine{
		AssetID:      assetID,
		Quantity:     lineform.MustQuantity(qty),
		SerialNumber: serial,
		Condition:    condition,
	}
}

func TestCreateDelivery_PersistsHeaderAndLines(t *testing.T) {
	db := openTestDB(t)
	seedAsset(t, db, 1, "EQ-001", "Taladro percutor")

	serial := "SN-778"
	cond := lineform.ConditionGood
	number, err := CreateDelivery(context.Background(), db, nil, "tester", CreateInput{
		Reason:      "Préstamo a terreno",
		DeliveredTo: "J. Pérez",
		Lines:       []lineform.GoodsLine{goodsLine(1, "2", &serial, &cond)},
	})
	if err != nil {
		t.Fatalf("create delivery: %v", err)
	}
	if !strings.HasPrefix(number, "ENT-BIEN-") || !strings.HasSuffix(number, "-001") {
		t.Errorf("delivery number = %s, want ENT-BIEN-YYYYMMDD-001", number)
	}

	var line struct {
		AssetID      int64  `bun:"asset_id"`
		Qty          int64  `bun:"qty"`
		SerialNumber string `bun:"serial_number"`
		Condition    string `bun:"condition"`
	}
	err = db.WithReadTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`SELECT asset_id, qty, serial_number, condition FROM goods_delivery_lines`).Scan(ctx, &line)
	})
	if err != nil {
		t.Fatalf("load line: %v", err)
	}
	if line.AssetID != 1 || line.Qty != 2 || line.SerialNumber != "SN-778" || line.Condition != "BUENO" {
		t.Errorf("line = %+v", line)
	}
}

func TestCreateDelivery_RejectsFractionalQuantity(t *testing.T) {
	db := openTestDB(t)
	seedAsset(t, db, 1, "EQ-001", "Taladro percutor")

	_, err := CreateDelivery(context.Background(), db, nil, "tester", CreateInput{
		Reason:      "Préstamo",
		DeliveredTo: "J. Pérez",
		Lines:       []lineform.GoodsLine{goodsLine(1, "1.5", nil, nil)},
	})
	if err == nil || !strings.Contains(err.Error(), "número entero") {
		t.Errorf("err = %v, want integer-quantity message", err)
	}

	var count int64
	_ = db.WithReadTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`SELECT COUNT(*) FROM goods_deliveries`).Scan(ctx, &count)
	})
	if count != 0 {
		t.Errorf("delivery persisted after rejection")
	}
}

func TestCreateDelivery_RejectsUnknownAsset(t *testing.T) {
	db := openTestDB(t)
	_, err := CreateDelivery(context.Background(), db, nil, "tester", CreateInput{
		Reason:      "Préstamo",
		DeliveredTo: "J. Pérez",
		Lines:       []lineform.GoodsLine{goodsLine(99, "1", nil, nil)},
	})
	if err == nil {
		t.Errorf("unknown asset accepted")
	}
}

func newCreateDeliveryRequest(form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/despacho/deliveries/goods", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestCreateDeliveryCommandHandler_CreatesAndRedirects(t *testing.T) {
	db := openTestDB(t)
	seedAsset(t, db, 1, "EQ-001", "Taladro percutor")

	handler := CreateDeliveryCommandHandler(db, nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, newCreateDeliveryRequest(url.Values{
		"motivo":      {"Préstamo a terreno"},
		"entregado_a": {"J. Pérez"},
		"detalles":    {`[{"equipo_id":1,"cantidad":1,"numero_serie":"SN-1","estado_fisico":"BUENO"}]`},
	}))

	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rr.Code)
	}
	if !strings.Contains(rr.Header().Get("Location"), "created=ENT-BIEN-") {
		t.Errorf("unexpected redirect: %s", rr.Header().Get("Location"))
	}
}

func TestCreateDeliveryCommandHandler_RejectsUnknownCondition(t *testing.T) {
	db := openTestDB(t)
	seedAsset(t, db, 1, "EQ-001", "Taladro percutor")

	handler := CreateDeliveryCommandHandler(db, nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, newCreateDeliveryRequest(url.Values{
		"motivo":      {"Préstamo"},
		"entregado_a": {"J. Pérez"},
		"detalles":    {`[{"equipo_id":1,"cantidad":1,"numero_serie":null,"estado_fisico":"NUEVO"}]`},
	}))

	location := rr.Header().Get("Location")
	if !strings.Contains(location, "error=") {
		t.Errorf("redirect missing error: %s", location)
	}

	var count int64
	_ = db.WithReadTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`SELECT COUNT(*) FROM goods_deliveries`).Scan(ctx, &count)
	})
	if count != 0 {
		t.Errorf("delivery persisted with invalid condition")
	}
}
