package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/uptrace/bun"

	"despacho/infrastructure/sqlite"
)

// Seeds a demo warehouse, a small article catalog, a few assets and one
// approved request so the delivery screens have data to work with.
func main() {
	migrationsDir, err := resolveMigrationsDir()
	if err != nil {
		log.Fatalf("resolve migrations dir: %v", err)
	}

	defaultDBPath := filepath.Join(filepath.Dir(filepath.Dir(filepath.Dir(migrationsDir))), "despacho.db")
	dbPath := getenv("SQLITE_PATH", defaultDBPath)

	db, err := sqlite.Open(dbPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := sqlite.ApplyMigrations(context.Background(), db, migrationsDir); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	if err := seed(context.Background(), db); err != nil {
		log.Fatalf("seed data: %v", err)
	}

	fmt.Println("seeded demo warehouse, articles, assets and request SOL-2026-012")
}

func seed(ctx context.Context, db *sqlite.DB) error {
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var existing int
		if err := tx.NewRaw(`SELECT COUNT(1) FROM requests WHERE number = 'SOL-2026-012'`).Scan(ctx, &existing); err != nil {
			return err
		}
		if existing > 0 {
			return nil
		}

		if _, err := tx.ExecContext(ctx, `
INSERT INTO warehouses (code, name) VALUES ('BOD-C', 'Bodega Central')`); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
INSERT INTO articles (code, name, category, unit, current_stock, minimum_stock) VALUES
  ('ART-001', 'Guantes de nitrilo', 'EPP', 'caja', 10, 2),
  ('ART-002', 'Alcohol gel', 'Aseo', 'litro', 7, 1),
  ('ART-003', 'Casco de seguridad', 'EPP', 'unidad', 15, 3)`); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
INSERT INTO assets (code, name, asset_type, serial_number) VALUES
  ('BIEN-010', 'Taladro percutor', 'Herramienta', 'SN-778'),
  ('BIEN-011', 'Escalera telescópica', 'Herramienta', '')`); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
INSERT INTO requests (number, requester, department, reason, status, source_warehouse_id)
VALUES ('SOL-2026-012', 'C. Rivas', 'Mantención', 'Reposición mensual', 'approved',
        (SELECT id FROM warehouses WHERE code = 'BOD-C'))`); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
INSERT INTO request_lines (request_id, article_id, approved_qty, dispatched_qty)
SELECT r.id, a.id, q.approved, 0
FROM (SELECT 'ART-001' AS code, 5 AS approved UNION ALL SELECT 'ART-002', 2) q
JOIN requests r ON r.number = 'SOL-2026-012'
JOIN articles a ON a.code = q.code`)
		return err
	})
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func resolveMigrationsDir() (string, error) {
	candidates := []string{
		filepath.Join("infrastructure", "sqlite", "migrations"),
		filepath.Join("..", "..", "infrastructure", "sqlite", "migrations"),
	}

	if _, file, _, ok := runtime.Caller(0); ok {
		candidates = append(candidates, filepath.Join(filepath.Dir(file), "..", "..", "infrastructure", "sqlite", "migrations"))
	}

	tried := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		absPath, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		tried = append(tried, absPath)

		info, err := os.Stat(absPath)
		if err != nil {
			continue
		}
		if info.IsDir() {
			return absPath, nil
		}
	}

	return "", fmt.Errorf("migrations dir not found; tried: %s", strings.Join(tried, ", "))
}
