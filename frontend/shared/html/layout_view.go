package html

import (
	"fmt"
	"html"
	"strings"
)

// RenderLayout wraps body in the standard document shell with the shared
// navigation bar. title and message are escaped here; body is trusted
// markup assembled by the caller.
func RenderLayout(title, message, body string) string {
	var b strings.Builder
	b.WriteString(`<!doctype html><html lang="es"><head><meta charset="utf-8">`)
	fmt.Fprintf(&b, `<title>%s</title>`, html.EscapeString(title))
	b.WriteString(`<link rel="stylesheet" href="/assets/app.css"></head><body>`)
	b.WriteString(renderNav())
	if strings.TrimSpace(message) != "" {
		fmt.Fprintf(&b, `<div class="alert" role="alert">%s</div>`, html.EscapeString(message))
	}
	b.WriteString(`<main class="container">`)
	b.WriteString(body)
	b.WriteString(`</main>`)
	b.WriteString(CSRFFormScript())
	b.WriteString(`</body></html>`)
	return b.String()
}

func renderNav() string {
	return `<nav class="navbar">` +
		`<a href="/despacho/deliveries/items">Entregas de artículos</a>` +
		`<a href="/despacho/deliveries/items/new">Nueva entrega de artículos</a>` +
		`<a href="/despacho/deliveries/goods">Entregas de bienes</a>` +
		`<a href="/despacho/deliveries/goods/new">Nueva entrega de bienes</a>` +
		`<a href="/despacho/catalog">Catálogo</a>` +
		`</nav>`
}
