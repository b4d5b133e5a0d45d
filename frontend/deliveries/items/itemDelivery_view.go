package items

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"despacho/frontend/shared/html"
	"despacho/lineform"
)

// NewDeliveryPage renders the item-delivery form. The row table starts
// in empty state; the form script grows it through the same fragments
// lineform renders.
func NewDeliveryPage(data NewPageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<h1>Nueva entrega de artículos</h1>`)
		b.WriteString(`<form method="POST" action="/despacho/deliveries/items" id="entrega_form">`)

		b.WriteString(`<fieldset><legend>Solicitud</legend>`)
		b.WriteString(`<select id="solicitud_id" name="solicitud_id"><option value="">Entrega manual</option>`)
		for _, rq := range data.Requests {
			fmt.Fprintf(&b, `<option value="%d">%s</option>`,
				rq.ID, lineform.Escape(rq.Number+" - "+rq.Requester))
		}
		b.WriteString(`</select>`)
		b.WriteString(`<div id="info_solicitud_panel" hidden></div>`)
		b.WriteString(`</fieldset>`)

		b.WriteString(`<fieldset><legend>Datos de la entrega</legend>`)
		b.WriteString(`<label for="bodega_origen_id">Bodega de origen</label>`)
		b.WriteString(`<select id="bodega_origen_id" name="bodega_origen_id"><option value="">Seleccione...</option>`)
		for _, wh := range data.Warehouses {
			fmt.Fprintf(&b, `<option value="%d">%s</option>`, wh.ID, lineform.Escape(wh.Name))
		}
		b.WriteString(`</select>`)
		b.WriteString(`<label for="entregado_a">Entregado a</label><input type="text" id="entregado_a" name="entregado_a" required>`)
		b.WriteString(`<label for="responsable">Responsable</label><input type="text" id="responsable" name="responsable">`)
		b.WriteString(`<label for="motivo">Motivo</label><input type="text" id="motivo" name="motivo" required>`)
		b.WriteString(`<label for="observaciones">Observaciones</label><textarea id="observaciones" name="observaciones"></textarea>`)
		b.WriteString(`</fieldset>`)

		b.WriteString(`<table id="tabla_detalles"><thead><tr>`)
		b.WriteString(`<th>Artículo</th><th>Cantidad</th><th>Lote</th><th></th>`)
		b.WriteString(`</tr></thead><tbody id="detalles_body">`)
		b.WriteString(lineform.RenderEmptyState(4))
		b.WriteString(`</tbody></table>`)
		b.WriteString(`<button type="button" id="agregar_fila">Agregar línea</button>`)

		b.WriteString(`<input type="hidden" id="detalles" name="detalles" value="">`)
		b.WriteString(`<button type="submit">Registrar entrega</button>`)
		b.WriteString(`</form>`)

		_, err := io.WriteString(w, html.RenderLayout("Nueva entrega de artículos", data.Message, b.String()))
		return err
	})
}

// ListDeliveriesPage renders the item deliveries list.
func ListDeliveriesPage(data ListPageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<h1>Entregas de artículos</h1>`)
		if len(data.Deliveries) == 0 {
			b.WriteString(`<p class="empty-state">No hay entregas registradas</p>`)
		} else {
			b.WriteString(`<table><thead><tr><th>Número</th><th>Entregado a</th><th>Motivo</th><th>Líneas</th><th>Fecha</th><th></th></tr></thead><tbody>`)
			for _, d := range data.Deliveries {
				fmt.Fprintf(&b, `<tr><td>%s</td><td>%s</td><td>%s</td><td>%d</td><td>%s</td><td><a href="/despacho/deliveries/items/%d/note.pdf">Guía</a></td></tr>`,
					lineform.Escape(d.Number), lineform.Escape(d.DeliveredTo), lineform.Escape(d.Reason),
					d.LineCount, lineform.Escape(d.CreatedAt), d.ID)
			}
			b.WriteString(`</tbody></table>`)
		}
		_, err := io.WriteString(w, html.RenderLayout("Entregas de artículos", data.Message, b.String()))
		return err
	})
}
