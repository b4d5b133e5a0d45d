package notes

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"despacho/infrastructure/sqlite"
)

// ItemNoteQueryHandler streams the printable note for an item delivery.
func ItemNoteQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return notePDFHandler(db, LoadItemNote)
}

// GoodsNoteQueryHandler streams the printable note for a goods delivery.
func GoodsNoteQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return notePDFHandler(db, LoadGoodsNote)
}

func notePDFHandler(db *sqlite.DB, load func(context.Context, *sqlite.DB, int64) (NoteData, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			http.Error(w, "invalid delivery id", http.StatusBadRequest)
			return
		}
		data, err := load(r.Context(), db, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				http.NotFound(w, r)
				return
			}
			http.Error(w, "failed to load delivery", http.StatusInternalServerError)
			return
		}
		pdfBytes, err := renderDeliveryNotePDF(data, time.Now())
		if err != nil {
			http.Error(w, "failed to render delivery note", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `inline; filename="`+data.Number+`.pdf"`)
		_, _ = w.Write(pdfBytes)
	}
}
