package lineform

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestItemPayloadRoundTrip(t *testing.T) {
	c := NewComponent(ItemsProfile(), testCatalog(), nil)

	first, _ := c.AddManualRow()
	c.SelectCatalog(first, 5)
	q3 := MustQuantity("3")
	c.SetQuantity(first, &q3)
	c.SetAuxText(first, "L1")

	second, _ := c.AddManualRow()
	c.SelectCatalog(second, 9)
	q1 := MustQuantity("1")
	c.SetQuantity(second, &q1)

	payload, err := c.Payload()
	if err != nil {
		t.Fatalf("Payload: %v", err)
	}

	lines, err := DecodeItemLines(payload)
	if err != nil {
		t.Fatalf("DecodeItemLines: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("len(lines) = %d, want 2", len(lines))
	}
	lot := "L1"
	want := []ItemLine{
		{ArticleID: 5, Quantity: q3, Lot: &lot},
		{ArticleID: 9, Quantity: q1, Lot: nil},
	}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Errorf("decoded lines mismatch (-want +got):\n%s", diff)
	}
	// Manual rows never carry the linking field.
	if strings.Contains(payload, "detalle_solicitud_id") {
		t.Errorf("manual payload carries detalle_solicitud_id: %s", payload)
	}
}

func TestItemPayloadQuantitiesAreJSONNumbers(t *testing.T) {
	c := NewComponent(ItemsProfile(), testCatalog(), nil)
	id, _ := c.AddManualRow()
	c.SelectCatalog(id, 5)
	q := MustQuantity("3")
	c.SetQuantity(id, &q)

	payload, err := c.Payload()
	if err != nil {
		t.Fatalf("Payload: %v", err)
	}

	dec := json.NewDecoder(strings.NewReader(payload))
	dec.UseNumber()
	var raw []map[string]any
	if err := dec.Decode(&raw); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if _, ok := raw[0]["cantidad"].(json.Number); !ok {
		t.Errorf("cantidad encoded as %T, want JSON number", raw[0]["cantidad"])
	}
	if _, ok := raw[0]["articulo_id"].(json.Number); !ok {
		t.Errorf("articulo_id encoded as %T, want JSON number", raw[0]["articulo_id"])
	}
}

func TestLinkedPayloadCarriesRequestLineID(t *testing.T) {
	src := &fakeSource{detail: twoLineDetail()}
	c := NewComponent(ItemsProfile(), testCatalog(), src)
	if _, err := c.SelectRequest(context.Background(), 12); err != nil {
		t.Fatalf("SelectRequest: %v", err)
	}

	payload, err := c.Payload()
	if err != nil {
		t.Fatalf("Payload: %v", err)
	}
	lines, err := DecodeItemLines(payload)
	if err != nil {
		t.Fatalf("DecodeItemLines: %v", err)
	}
	if lines[0].RequestLineID == nil || *lines[0].RequestLineID != 101 {
		t.Errorf("first line request-line id = %v, want 101", lines[0].RequestLineID)
	}
	if lines[1].RequestLineID == nil || *lines[1].RequestLineID != 102 {
		t.Errorf("second line request-line id = %v, want 102", lines[1].RequestLineID)
	}
}

func TestGoodsPayloadShape(t *testing.T) {
	c := NewComponent(GoodsProfile(), testCatalog(), nil)
	id, _ := c.AddManualRow()
	c.SelectCatalog(id, 5)
	c.SetAuxText(id, "SN-778")
	c.SetCondition(id, ConditionGood)

	payload, err := c.Payload()
	if err != nil {
		t.Fatalf("Payload: %v", err)
	}
	lines, err := DecodeGoodsLines(payload)
	if err != nil {
		t.Fatalf("DecodeGoodsLines: %v", err)
	}
	sn := "SN-778"
	cond := ConditionGood
	want := []GoodsLine{
		{AssetID: 5, Quantity: QuantityFromInt(1), SerialNumber: &sn, Condition: &cond},
	}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Errorf("decoded lines mismatch (-want +got):\n%s", diff)
	}

	// Absent optionals serialize as explicit nulls.
	second, _ := c.AddManualRow()
	c.SelectCatalog(second, 9)
	payload, _ = c.Payload()
	if !strings.Contains(payload, `"numero_serie":null`) || !strings.Contains(payload, `"estado_fisico":null`) {
		t.Errorf("payload should null absent optionals: %s", payload)
	}
}

func TestPayloadPreservesRowOrder(t *testing.T) {
	c := NewComponent(ItemsProfile(), testCatalog(), nil)
	ids := make([]int, 3)
	for i, catalogID := range []int64{9, 5, 9} {
		id, _ := c.AddManualRow()
		c.SelectCatalog(id, catalogID)
		q := QuantityFromInt(int64(i + 1))
		c.SetQuantity(id, &q)
		ids[i] = id
	}
	c.RemoveRow(ids[1])

	payload, err := c.Payload()
	if err != nil {
		t.Fatalf("Payload: %v", err)
	}
	lines, _ := DecodeItemLines(payload)
	if len(lines) != 2 {
		t.Fatalf("len(lines) = %d, want 2", len(lines))
	}
	if !lines[0].Quantity.Equal(QuantityFromInt(1).Decimal) || !lines[1].Quantity.Equal(QuantityFromInt(3).Decimal) {
		t.Errorf("payload order broken: %s", payload)
	}
}

func TestValidCondition(t *testing.T) {
	for _, good := range []string{"EXCELLENTE", "BUENO", "REGULAR", "MALO"} {
		if !ValidCondition(good) {
			t.Errorf("ValidCondition(%q) = false", good)
		}
	}
	for _, bad := range []string{"", "bueno", "NUEVO"} {
		if ValidCondition(bad) {
			t.Errorf("ValidCondition(%q) = true", bad)
		}
	}
}
