package lineform

import "testing"

func testCatalog() *Catalog {
	s10 := MustQuantity("10")
	s7 := MustQuantity("7")
	return NewCatalog([]CatalogEntry{
		{ID: 5, Code: "ART-005", Name: "Guantes de nitrilo", Unit: "caja", Stock: &s10},
		{ID: 9, Code: "ART-009", Name: "Alcohol gel", Unit: "litro", Stock: &s7},
	})
}

func TestRowIDsAreMonotonicAndUnique(t *testing.T) {
	c := NewComponent(ItemsProfile(), testCatalog(), nil)

	seen := map[int]bool{}
	var ids []int
	for i := 0; i < 4; i++ {
		id, ok := c.AddManualRow()
		if !ok {
			t.Fatalf("AddManualRow returned ok=false")
		}
		if id < 0 {
			t.Fatalf("negative row id %d", id)
		}
		if seen[id] {
			t.Fatalf("duplicate row id %d", id)
		}
		seen[id] = true
		ids = append(ids, id)
	}
	for i := 1; i < len(ids); i++ {
		if ids[i] <= ids[i-1] {
			t.Fatalf("ids not increasing: %v", ids)
		}
	}

	// Removing a middle row must not disturb the others or reuse its id.
	c.RemoveRow(ids[1])
	id, _ := c.AddManualRow()
	if id == ids[1] {
		t.Fatalf("row id %d reused while registry non-empty", id)
	}
}

func TestRemovingLastRowYieldsEmptyState(t *testing.T) {
	c := NewComponent(ItemsProfile(), testCatalog(), nil)
	id, _ := c.AddManualRow()
	c.RemoveRow(id)

	if !c.Empty() {
		t.Fatalf("registry not empty after removing last row")
	}
	got := RenderRows(c)
	want := RenderEmptyState(renderColumns(c.Profile()))
	if got != want {
		t.Errorf("rendered %q, want empty-state placeholder", got)
	}
}

func TestItemsCounterResetsWhenEmpty(t *testing.T) {
	c := NewComponent(ItemsProfile(), testCatalog(), nil)
	id0, _ := c.AddManualRow()
	id1, _ := c.AddManualRow()
	c.RemoveRow(id0)
	c.RemoveRow(id1)

	id, _ := c.AddManualRow()
	if id != 0 {
		t.Errorf("items profile row id after empty = %d, want 0", id)
	}
}

func TestGoodsCounterDoesNotReset(t *testing.T) {
	c := NewComponent(GoodsProfile(), testCatalog(), nil)
	id0, _ := c.AddManualRow()
	c.RemoveRow(id0)

	id, _ := c.AddManualRow()
	if id != 1 {
		t.Errorf("goods profile row id after empty = %d, want 1", id)
	}
}

func TestGoodsRowsDefaultToQuantityOne(t *testing.T) {
	c := NewComponent(GoodsProfile(), testCatalog(), nil)
	id, _ := c.AddManualRow()
	row := c.reg.Get(id)
	if row.Quantity == nil || !row.Quantity.Equal(QuantityFromInt(1).Decimal) {
		t.Errorf("goods default quantity = %v, want 1", row.Quantity)
	}

	ci := NewComponent(ItemsProfile(), testCatalog(), nil)
	id, _ = ci.AddManualRow()
	if ci.reg.Get(id).Quantity != nil {
		t.Errorf("items default quantity should be unset")
	}
}

func TestClearEmptiesRegardlessOfMode(t *testing.T) {
	c := NewComponent(ItemsProfile(), testCatalog(), nil)
	c.AddManualRow()
	c.AddManualRow()
	c.Clear()
	if !c.Empty() {
		t.Fatalf("registry not empty after Clear")
	}
}

func TestSelectCatalogCapturesStockSnapshot(t *testing.T) {
	c := NewComponent(ItemsProfile(), testCatalog(), nil)
	id, _ := c.AddManualRow()
	if err := c.SelectCatalog(id, 9); err != nil {
		t.Fatalf("SelectCatalog: %v", err)
	}
	row := c.reg.Get(id)
	if row.StockSnapshot == nil || !row.StockSnapshot.Equal(MustQuantity("7").Decimal) {
		t.Errorf("stock snapshot = %v, want 7", row.StockSnapshot)
	}

	if err := c.SelectCatalog(id, 404); err == nil {
		t.Errorf("expected error selecting unknown catalog entry")
	}
}
