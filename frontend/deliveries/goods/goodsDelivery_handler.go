package goods

import (
	"database/sql"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"despacho/infrastructure/audit"
	"despacho/infrastructure/sqlite"
	"despacho/lineform"
)

var sanitizer = bluemonday.StrictPolicy()

// NewDeliveryPageQueryHandler renders the new goods-delivery form.
func NewDeliveryPageQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := LoadFormData(r.Context(), db)
		if err != nil {
			http.Error(w, "failed to load delivery form", http.StatusInternalServerError)
			return
		}
		data.Message = strings.TrimSpace(r.URL.Query().Get("error"))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := NewDeliveryPage(data).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render delivery form", http.StatusInternalServerError)
			return
		}
	}
}

// CreateDeliveryCommandHandler consumes the posted goods form.
func CreateDeliveryCommandHandler(db *sqlite.DB, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			redirectError(w, r, "formulario inválido")
			return
		}

		input := CreateInput{
			Reason:       sanitizeText(r.FormValue("motivo")),
			Notes:        sanitizeText(r.FormValue("observaciones")),
			DeliveredTo:  sanitizeText(r.FormValue("entregado_a")),
			DispatchedBy: sanitizeText(r.FormValue("responsable")),
		}
		if input.Reason == "" {
			redirectError(w, r, "El motivo es obligatorio")
			return
		}
		if input.DeliveredTo == "" {
			redirectError(w, r, "Indique a quién se entrega")
			return
		}

		payload := strings.TrimSpace(r.FormValue("detalles"))
		if payload == "" || payload == "[]" {
			redirectError(w, r, "Debe agregar al menos una línea a la entrega")
			return
		}
		lines, err := lineform.DecodeGoodsLines(payload)
		if err != nil {
			redirectError(w, r, "detalle de entrega inválido")
			return
		}
		for i := range lines {
			if lines[i].SerialNumber != nil {
				serial := sanitizeText(*lines[i].SerialNumber)
				lines[i].SerialNumber = optional(serial)
			}
			if lines[i].Condition != nil {
				if !lineform.ValidCondition(*lines[i].Condition) {
					redirectError(w, r, "Estado físico inválido")
					return
				}
			}
		}
		input.Lines = lines

		actor := input.DispatchedBy
		if actor == "" {
			actor = "sistema"
		}
		number, err := CreateDelivery(r.Context(), db, auditSvc, actor, input)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				redirectError(w, r, "bien inexistente")
				return
			}
			redirectError(w, r, err.Error())
			return
		}
		http.Redirect(w, r, "/despacho/deliveries/goods?created="+url.QueryEscape(number), http.StatusSeeOther)
	}
}

// ListDeliveriesPageQueryHandler renders the goods deliveries list.
func ListDeliveriesPageQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := ListDeliveries(r.Context(), db)
		if err != nil {
			http.Error(w, "failed to load deliveries", http.StatusInternalServerError)
			return
		}
		data := ListPageData{Deliveries: rows}
		if created := strings.TrimSpace(r.URL.Query().Get("created")); created != "" {
			data.Message = "Entrega " + created + " registrada"
		}
		if msg := strings.TrimSpace(r.URL.Query().Get("error")); msg != "" {
			data.Message = msg
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := ListDeliveriesPage(data).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render deliveries", http.StatusInternalServerError)
			return
		}
	}
}

func redirectError(w http.ResponseWriter, r *http.Request, msg string) {
	http.Redirect(w, r, "/despacho/deliveries/goods/new?error="+url.QueryEscape(msg), http.StatusSeeOther)
}

func sanitizeText(s string) string {
	return strings.TrimSpace(sanitizer.Sanitize(s))
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
