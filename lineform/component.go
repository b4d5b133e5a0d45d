package lineform

import "fmt"

// Component is one delivery form instance: its catalog, its row registry
// and its entry mode. Construct one per rendered form; there is no
// shared state between instances.
type Component struct {
	profile Profile
	catalog *Catalog
	reg     *Registry
	mode    Mode
	request *RequestInfo
	source  RequestLineSource
}

// NewComponent builds a form instance over an already loaded catalog.
// source may be nil for profiles without request linking.
func NewComponent(profile Profile, catalog *Catalog, source RequestLineSource) *Component {
	return &Component{
		profile: profile,
		catalog: catalog,
		reg:     NewRegistry(profile.ResetCounterOnEmpty),
		mode:    ModeManual,
		source:  source,
	}
}

func (c *Component) Profile() Profile      { return c.profile }
func (c *Component) Catalog() *Catalog     { return c.catalog }
func (c *Component) Mode() Mode            { return c.mode }
func (c *Component) Rows() []*Row          { return c.reg.Rows() }
func (c *Component) Empty() bool           { return c.reg.Empty() }
func (c *Component) Request() *RequestInfo { return c.request }

// AddManualRow appends a fresh manual row and returns its id. In linked
// mode the add affordance is disabled, so this is a no-op.
func (c *Component) AddManualRow() (int, bool) {
	if c.mode == ModeLinked {
		return 0, false
	}
	row := &Row{Mode: RowManual}
	if c.profile.DefaultQuantity != nil {
		q := *c.profile.DefaultQuantity
		row.Quantity = &q
	}
	return c.reg.Add(row), true
}

// AddLinkedRow appends a row bound to a fetched request line, quantity
// defaulted to the pending amount.
func (c *Component) AddLinkedRow(line RequestLine) int {
	return c.reg.Add(c.linkedRow(line))
}

// SelectCatalog binds a row to a catalog entry and captures the stock
// snapshot at selection time.
func (c *Component) SelectCatalog(rowID int, catalogID int64) error {
	row := c.reg.Get(rowID)
	if row == nil {
		return fmt.Errorf("no row %d", rowID)
	}
	entry := c.catalog.Lookup(catalogID)
	if entry == nil {
		return fmt.Errorf("no catalog entry %d", catalogID)
	}
	row.CatalogID = catalogID
	row.StockSnapshot = nil
	if entry.Stock != nil {
		snap := *entry.Stock
		row.StockSnapshot = &snap
	}
	return nil
}

func (c *Component) SetQuantity(rowID int, q *Quantity) error {
	row := c.reg.Get(rowID)
	if row == nil {
		return fmt.Errorf("no row %d", rowID)
	}
	row.Quantity = q
	return nil
}

func (c *Component) SetAuxText(rowID int, text string) error {
	row := c.reg.Get(rowID)
	if row == nil {
		return fmt.Errorf("no row %d", rowID)
	}
	row.AuxText = text
	return nil
}

func (c *Component) SetCondition(rowID int, condition string) error {
	row := c.reg.Get(rowID)
	if row == nil {
		return fmt.Errorf("no row %d", rowID)
	}
	row.Condition = condition
	return nil
}

// RemoveRow deletes the row. Removal of a missing id is a no-op.
func (c *Component) RemoveRow(rowID int) {
	c.reg.Remove(rowID)
}

// Clear wipes the registry regardless of mode.
func (c *Component) Clear() {
	c.reg.Clear()
}
