package lineform

import (
	"fmt"
	"html"
	"strings"
)

// Escape makes dynamic text safe for insertion into markup. Every
// rendered catalog or request string goes through it.
func Escape(s string) string {
	return html.EscapeString(s)
}

// RenderEmptyState is the placeholder row shown when the registry is empty.
func RenderEmptyState(columns int) string {
	return fmt.Sprintf(
		`<tr id="fila_vacia"><td colspan="%d" class="empty-state">No hay líneas agregadas</td></tr>`,
		columns)
}

// RenderRequestInfo renders the linked-request header panel.
func RenderRequestInfo(info RequestInfo) string {
	var b strings.Builder
	b.WriteString(`<div id="info_solicitud" class="request-info">`)
	fmt.Fprintf(&b, `<p><strong>Solicitud:</strong> %s</p>`, Escape(info.Number))
	fmt.Fprintf(&b, `<p><strong>Solicitante:</strong> %s</p>`, Escape(info.Requester))
	if info.Department != "" {
		fmt.Fprintf(&b, `<p><strong>Departamento:</strong> %s</p>`, Escape(info.Department))
	}
	if info.Reason != "" {
		fmt.Fprintf(&b, `<p><strong>Motivo:</strong> %s</p>`, Escape(info.Reason))
	}
	b.WriteString(`</div>`)
	return b.String()
}

// RenderRows renders every live row in ascending id order. Anchors are
// derived from the row id so event wiring survives deletions.
func RenderRows(c *Component) string {
	if c.Empty() {
		return RenderEmptyState(renderColumns(c.Profile()))
	}
	var b strings.Builder
	for _, row := range c.Rows() {
		b.WriteString(renderRow(c, row))
	}
	return b.String()
}

func renderColumns(p Profile) int {
	if p.IntegerQuantity {
		return 5 // selection, qty, serial, condition, delete
	}
	return 4 // selection, qty, lot, delete
}

func renderRow(c *Component, row *Row) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<tr id="fila_%d">`, row.ID)

	b.WriteString(`<td>`)
	if row.Mode == RowLinked {
		b.WriteString(renderLinkedSelection(c, row))
	} else {
		b.WriteString(renderCatalogSelect(c, row))
	}
	b.WriteString(`</td>`)

	fmt.Fprintf(&b, `<td><input type="number" id="cantidad_%d" name="cantidad_%d" step="%s" min="%s" value="%s"></td>`,
		row.ID, row.ID, quantityStep(c.Profile()), quantityMin(c.Profile()), quantityValue(row))

	if c.Profile().IntegerQuantity {
		fmt.Fprintf(&b, `<td><input type="text" id="serie_%d" name="serie_%d" value="%s"></td>`,
			row.ID, row.ID, Escape(row.AuxText))
		b.WriteString(`<td>` + renderConditionSelect(row) + `</td>`)
	} else {
		fmt.Fprintf(&b, `<td><input type="text" id="lote_%d" name="lote_%d" value="%s"></td>`,
			row.ID, row.ID, Escape(row.AuxText))
	}

	fmt.Fprintf(&b, `<td><button type="button" class="remove-row" data-row="%d">&times;</button></td>`, row.ID)
	b.WriteString(`</tr>`)
	return b.String()
}

func renderCatalogSelect(c *Component, row *Row) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<select id="articulo_%d" name="articulo_%d">`, row.ID, row.ID)
	b.WriteString(`<option value="">Seleccione...</option>`)
	for _, entry := range c.Catalog().Entries() {
		selected := ""
		if entry.ID == row.CatalogID {
			selected = ` selected`
		}
		label := entry.Code + " - " + entry.Name
		if entry.Stock != nil {
			label += " (Stock: " + entry.Stock.String() + ")"
		}
		fmt.Fprintf(&b, `<option value="%d"%s>%s</option>`, entry.ID, selected, Escape(label))
	}
	b.WriteString(`</select>`)
	return b.String()
}

func renderLinkedSelection(c *Component, row *Row) string {
	label := c.rowLabel(row)
	pending := ""
	if row.Pending != nil {
		pending = fmt.Sprintf(` <span class="pending">Pendiente: %s</span>`, Escape(row.Pending.String()))
	}
	return fmt.Sprintf(`<span id="articulo_%d" data-articulo="%d">%s</span>%s`,
		row.ID, row.CatalogID, Escape(label), pending)
}

func renderConditionSelect(row *Row) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<select id="estado_%d" name="estado_%d">`, row.ID, row.ID)
	b.WriteString(`<option value="">Seleccione...</option>`)
	for _, cond := range []string{ConditionExcellent, ConditionGood, ConditionFair, ConditionPoor} {
		selected := ""
		if cond == row.Condition {
			selected = ` selected`
		}
		fmt.Fprintf(&b, `<option value="%s"%s>%s</option>`, cond, selected, cond)
	}
	b.WriteString(`</select>`)
	return b.String()
}

func quantityStep(p Profile) string {
	if p.IntegerQuantity {
		return "1"
	}
	return "0.01"
}

func quantityMin(p Profile) string {
	if p.IntegerQuantity {
		return "1"
	}
	return "0.01"
}

func quantityValue(row *Row) string {
	if row.Quantity == nil {
		return ""
	}
	return row.Quantity.String()
}
