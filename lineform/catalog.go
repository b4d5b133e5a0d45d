package lineform

// CatalogEntry is one selectable item. The stock level is the value at
// load time; it is never refreshed for the life of the component.
type CatalogEntry struct {
	ID       int64
	Code     string
	Name     string
	Category string
	Unit     string
	Stock    *Quantity
}

// Catalog is the immutable set of selectable entries, loaded once at
// component construction.
type Catalog struct {
	entries []CatalogEntry
	byID    map[int64]*CatalogEntry
}

func NewCatalog(entries []CatalogEntry) *Catalog {
	c := &Catalog{
		entries: make([]CatalogEntry, len(entries)),
		byID:    make(map[int64]*CatalogEntry, len(entries)),
	}
	copy(c.entries, entries)
	for i := range c.entries {
		c.byID[c.entries[i].ID] = &c.entries[i]
	}
	return c
}

// Lookup returns the entry for id, or nil when unknown.
func (c *Catalog) Lookup(id int64) *CatalogEntry {
	return c.byID[id]
}

// Entries returns the catalog in load order.
func (c *Catalog) Entries() []CatalogEntry {
	return c.entries
}

func (c *Catalog) Len() int {
	return len(c.entries)
}
