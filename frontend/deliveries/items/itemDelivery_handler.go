package items

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/microcosm-cc/bluemonday"

	"despacho/infrastructure/audit"
	"despacho/infrastructure/sqlite"
	"despacho/lineform"
)

var sanitizer = bluemonday.StrictPolicy()

// NewDeliveryPageQueryHandler renders the new item-delivery form.
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

// CreateDeliveryCommandHandler consumes the posted form plus the hidden
// detalles payload and creates the delivery.
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

		if v := strings.TrimSpace(r.FormValue("solicitud_id")); v != "" {
			id, err := strconv.ParseInt(v, 10, 64)
			if err != nil || id <= 0 {
				redirectError(w, r, "solicitud inválida")
				return
			}
			input.RequestID = &id
		}
		if v := strings.TrimSpace(r.FormValue("bodega_origen_id")); v != "" {
			id, err := strconv.ParseInt(v, 10, 64)
			if err != nil || id <= 0 {
				redirectError(w, r, "bodega inválida")
				return
			}
			input.SourceWarehouseID = &id
		}

		payload := strings.TrimSpace(r.FormValue("detalles"))
		if payload == "" || payload == "[]" {
			redirectError(w, r, "Debe agregar al menos una línea a la entrega")
			return
		}
		lines, err := lineform.DecodeItemLines(payload)
		if err != nil {
			redirectError(w, r, "detalle de entrega inválido")
			return
		}
		for i := range lines {
			if lines[i].Lot != nil {
				lot := sanitizeText(*lines[i].Lot)
				lines[i].Lot = optional(lot)
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
				redirectError(w, r, "solicitud o artículo inexistente")
				return
			}
			redirectError(w, r, err.Error())
			return
		}
		http.Redirect(w, r, "/despacho/deliveries/items?created="+url.QueryEscape(number), http.StatusSeeOther)
	}
}

// ListDeliveriesPageQueryHandler renders the item deliveries list.
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

// RequestLinesQueryHandler returns a request's header and pending lines
// as JSON for the linked mode of the form. Failures never mutate state;
// they only report {success:false}.
func RequestLinesQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			writeRequestLinesError(w, "solicitud inválida")
			return
		}
		resp, err := requestLineDetails(r.Context(), db, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				writeRequestLinesError(w, "solicitud no encontrada")
				return
			}
			writeRequestLinesError(w, err.Error())
			return
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func writeRequestLinesError(w http.ResponseWriter, msg string) {
	_ = json.NewEncoder(w).Encode(requestLinesResponse{Success: false, Error: msg})
}

// SearchArticlesQueryHandler returns matching articles for the manual
// article picker.
func SearchArticlesQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := SearchArticles(r.Context(), db, r.URL.Query().Get("q"))
		if err != nil {
			http.Error(w, "failed to search articles", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(items)
	}
}

func redirectError(w http.ResponseWriter, r *http.Request, msg string) {
	http.Redirect(w, r, "/despacho/deliveries/items/new?error="+url.QueryEscape(msg), http.StatusSeeOther)
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
