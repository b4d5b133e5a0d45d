package catalog

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"despacho/frontend/shared/html"
	"despacho/lineform"
)

type PageData struct {
	Message  string
	Articles []ArticleRecord
}

// ImportPage renders the article catalog and the CSV upload form.
func ImportPage(data PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<h1>Catálogo de artículos</h1>`)
		b.WriteString(`<form method="POST" action="/despacho/catalog/import" enctype="multipart/form-data">`)
		b.WriteString(`<input type="file" name="file" accept=".csv" required>`)
		b.WriteString(`<input type="text" name="responsable" placeholder="Responsable">`)
		b.WriteString(`<button type="submit">Importar CSV</button>`)
		b.WriteString(`</form>`)

		if len(data.Articles) == 0 {
			b.WriteString(`<p class="empty-state">No hay artículos registrados</p>`)
		} else {
			b.WriteString(`<table><thead><tr><th>Código</th><th>Nombre</th><th>Categoría</th><th>Unidad</th><th>Stock</th><th>Actualizado</th></tr></thead><tbody>`)
			for _, a := range data.Articles {
				fmt.Fprintf(&b, `<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>`,
					lineform.Escape(a.Code), lineform.Escape(a.Name), lineform.Escape(a.Category),
					lineform.Escape(a.Unit), lineform.Escape(a.CurrentStock), lineform.Escape(a.UpdatedAt))
			}
			b.WriteString(`</tbody></table>`)
		}

		_, err := io.WriteString(w, html.RenderLayout("Catálogo de artículos", data.Message, b.String()))
		return err
	})
}
