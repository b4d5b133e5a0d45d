package lineform

import (
	"strings"
	"testing"
)

func TestEscapeNeutralizesMarkup(t *testing.T) {
	got := Escape("<script>alert(1)</script>")
	if strings.Contains(got, "<script>") {
		t.Fatalf("Escape left executable markup: %q", got)
	}
	if !strings.Contains(got, "&lt;script&gt;") {
		t.Errorf("Escape output = %q, want &lt;script&gt;", got)
	}
}

func TestRenderRowsEscapesCatalogNames(t *testing.T) {
	cat := NewCatalog([]CatalogEntry{
		{ID: 1, Code: "X", Name: "<script>"},
	})
	c := NewComponent(ItemsProfile(), cat, nil)
	id, _ := c.AddManualRow()
	c.SelectCatalog(id, 1)

	out := RenderRows(c)
	if strings.Contains(out, "<script>") {
		t.Fatalf("rendered rows contain raw markup: %s", out)
	}
	if !strings.Contains(out, "&lt;script&gt;") {
		t.Errorf("rendered rows missing escaped name: %s", out)
	}
}

func TestRenderRowsUsesRowIDAnchors(t *testing.T) {
	c := NewComponent(ItemsProfile(), testCatalog(), nil)
	c.AddManualRow()
	id, _ := c.AddManualRow()

	out := RenderRows(c)
	for _, anchor := range []string{`id="fila_0"`, `id="fila_1"`, `id="cantidad_1"`, `id="lote_1"`, `id="articulo_1"`} {
		if !strings.Contains(out, anchor) {
			t.Errorf("rendered rows missing anchor %s", anchor)
		}
	}
	c.RemoveRow(id)
	out = RenderRows(c)
	if strings.Contains(out, `id="fila_1"`) {
		t.Errorf("removed row still rendered")
	}
}

func TestRenderGoodsRowHasConditionAndSerial(t *testing.T) {
	c := NewComponent(GoodsProfile(), testCatalog(), nil)
	id, _ := c.AddManualRow()
	c.SetCondition(id, ConditionFair)

	out := RenderRows(c)
	if !strings.Contains(out, `id="estado_0"`) || !strings.Contains(out, `id="serie_0"`) {
		t.Errorf("goods row missing condition or serial anchors: %s", out)
	}
	if !strings.Contains(out, `value="REGULAR" selected`) {
		t.Errorf("selected condition not marked: %s", out)
	}
}

func TestRenderRequestInfoEscapesMetadata(t *testing.T) {
	out := RenderRequestInfo(RequestInfo{
		Number:    "SOL-2026-001",
		Requester: `<img src=x onerror=alert(1)>`,
	})
	if strings.Contains(out, "<img") {
		t.Fatalf("request info contains raw markup: %s", out)
	}
	if !strings.Contains(out, "SOL-2026-001") {
		t.Errorf("request number missing: %s", out)
	}
}

func TestRenderEmptyState(t *testing.T) {
	out := RenderEmptyState(4)
	if !strings.Contains(out, `colspan="4"`) || !strings.Contains(out, "No hay líneas agregadas") {
		t.Errorf("unexpected empty state: %s", out)
	}
}
