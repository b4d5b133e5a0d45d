package goods

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"despacho/frontend/shared/html"
	"despacho/lineform"
)

// NewDeliveryPage renders the goods-delivery form.
func NewDeliveryPage(data NewPageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<h1>Nueva entrega de bienes</h1>`)
		b.WriteString(`<form method="POST" action="/despacho/deliveries/goods" id="entrega_form">`)

		b.WriteString(`<fieldset><legend>Datos de la entrega</legend>`)
		b.WriteString(`<label for="entregado_a">Entregado a</label><input type="text" id="entregado_a" name="entregado_a" required>`)
		b.WriteString(`<label for="responsable">Responsable</label><input type="text" id="responsable" name="responsable">`)
		b.WriteString(`<label for="motivo">Motivo</label><input type="text" id="motivo" name="motivo" required>`)
		b.WriteString(`<label for="observaciones">Observaciones</label><textarea id="observaciones" name="observaciones"></textarea>`)
		b.WriteString(`</fieldset>`)

		b.WriteString(`<datalist id="bienes">`)
		for _, a := range data.Assets {
			fmt.Fprintf(&b, `<option value="%d">%s</option>`, a.ID, lineform.Escape(a.Code+" - "+a.Name))
		}
		b.WriteString(`</datalist>`)

		b.WriteString(`<table id="tabla_detalles"><thead><tr>`)
		b.WriteString(`<th>Bien</th><th>Cantidad</th><th>Número de serie</th><th>Estado físico</th><th></th>`)
		b.WriteString(`</tr></thead><tbody id="detalles_body">`)
		b.WriteString(lineform.RenderEmptyState(5))
		b.WriteString(`</tbody></table>`)
		b.WriteString(`<button type="button" id="agregar_fila">Agregar línea</button>`)

		b.WriteString(`<input type="hidden" id="detalles" name="detalles" value="">`)
		b.WriteString(`<button type="submit">Registrar entrega</button>`)
		b.WriteString(`</form>`)

		_, err := io.WriteString(w, html.RenderLayout("Nueva entrega de bienes", data.Message, b.String()))
		return err
	})
}

// ListDeliveriesPage renders the goods deliveries list.
func ListDeliveriesPage(data ListPageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<h1>Entregas de bienes</h1>`)
		if len(data.Deliveries) == 0 {
			b.WriteString(`<p class="empty-state">No hay entregas registradas</p>`)
		} else {
			b.WriteString(`<table><thead><tr><th>Número</th><th>Entregado a</th><th>Motivo</th><th>Líneas</th><th>Fecha</th><th></th></tr></thead><tbody>`)
			for _, d := range data.Deliveries {
				fmt.Fprintf(&b, `<tr><td>%s</td><td>%s</td><td>%s</td><td>%d</td><td>%s</td><td><a href="/despacho/deliveries/goods/%d/note.pdf">Guía</a></td></tr>`,
					lineform.Escape(d.Number), lineform.Escape(d.DeliveredTo), lineform.Escape(d.Reason),
					d.LineCount, lineform.Escape(d.CreatedAt), d.ID)
			}
			b.WriteString(`</tbody></table>`)
		}
		_, err := io.WriteString(w, html.RenderLayout("Entregas de bienes", data.Message, b.String()))
		return err
	})
}
