package exports

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"despacho/infrastructure/sqlite"
)

// ItemDeliveriesCSVHandler streams every item delivery line as CSV.
// With ?delivery_id= it narrows to a single delivery.
func ItemDeliveriesCSVHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var deliveryID *int64
		if raw := strings.TrimSpace(r.URL.Query().Get("delivery_id")); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || id <= 0 {
				http.Error(w, "invalid delivery id", http.StatusBadRequest)
				return
			}
			exists, err := itemDeliveryExists(r.Context(), db, id)
			if err != nil {
				http.Error(w, "failed to validate delivery", http.StatusInternalServerError)
				return
			}
			if !exists {
				http.Error(w, "delivery not found", http.StatusNotFound)
				return
			}
			deliveryID = &id
		}

		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", "attachment; filename=entregas-articulos.csv")
		if err := writeItemDeliveriesCSV(r.Context(), db, w, deliveryID); err != nil {
			http.Error(w, "failed to export csv", http.StatusInternalServerError)
			return
		}
		if err := recordExportRun(r.Context(), db, exportActor(r), exportTypeItems(deliveryID)); err != nil {
			slog.Error("record export run failed", slog.String("type", exportTypeItems(deliveryID)), slog.Any("err", err))
		}
	}
}

// GoodsDeliveriesCSVHandler streams every goods delivery line as CSV.
func GoodsDeliveriesCSVHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", "attachment; filename=entregas-bienes.csv")
		if err := writeGoodsDeliveriesCSV(r.Context(), db, w); err != nil {
			http.Error(w, "failed to export csv", http.StatusInternalServerError)
			return
		}
		if err := recordExportRun(r.Context(), db, exportActor(r), "goods_deliveries_csv"); err != nil {
			slog.Error("record export run failed", slog.String("type", "goods_deliveries_csv"), slog.Any("err", err))
		}
	}
}

// StockMovementsCSVHandler streams the stock movement ledger as CSV.
func StockMovementsCSVHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", "attachment; filename=movimientos.csv")
		if err := writeStockMovementsCSV(r.Context(), db, w); err != nil {
			http.Error(w, "failed to export csv", http.StatusInternalServerError)
			return
		}
		if err := recordExportRun(r.Context(), db, exportActor(r), "stock_movements_csv"); err != nil {
			slog.Error("record export run failed", slog.String("type", "stock_movements_csv"), slog.Any("err", err))
		}
	}
}

func exportActor(r *http.Request) string {
	actor := strings.TrimSpace(r.URL.Query().Get("responsable"))
	if actor == "" {
		return "sistema"
	}
	return actor
}

func exportTypeItems(deliveryID *int64) string {
	if deliveryID == nil {
		return "item_deliveries_csv"
	}
	return "item_deliveries_csv:" + strconv.FormatInt(*deliveryID, 10)
}
