package catalog

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"despacho/infrastructure/audit"
	"despacho/infrastructure/sqlite"
)

// ImportPageQueryHandler renders the article catalog with the CSV
// upload form.
func ImportPageQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		message := r.URL.Query().Get("status")
		if message == "" {
			message = "Suba un CSV con encabezado: codigo,nombre,categoria,unidad,stock"
		}
		rows, err := ListArticles(r.Context(), db)
		if err != nil {
			http.Error(w, "failed to load articles", http.StatusInternalServerError)
			return
		}
		data := PageData{Message: message, Articles: rows}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := ImportPage(data).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render catalog page", http.StatusInternalServerError)
			return
		}
	}
}

// ImportCommandHandler consumes the uploaded CSV and upserts articles.
func ImportCommandHandler(db *sqlite.DB, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			redirectStatus(w, r, "Error: archivo inválido")
			return
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			redirectStatus(w, r, "Error: el archivo es obligatorio")
			return
		}
		defer file.Close()

		actor := strings.TrimSpace(r.FormValue("responsable"))
		if actor == "" {
			actor = "sistema"
		}
		summary, err := ImportCSV(r.Context(), db, auditSvc, actor, file)
		if err != nil {
			redirectStatus(w, r, "Error: "+err.Error())
			return
		}
		redirectStatus(w, r, fmt.Sprintf("Importación: %d insertados, %d actualizados, %d errores",
			summary.Inserted, summary.Updated, summary.Errors))
	}
}

func redirectStatus(w http.ResponseWriter, r *http.Request, msg string) {
	http.Redirect(w, r, "/despacho/catalog?status="+url.QueryEscape(msg), http.StatusSeeOther)
}
