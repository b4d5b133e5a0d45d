package lineform

import "sort"

// RowMode says where a row's data came from.
type RowMode int

const (
	RowManual RowMode = iota
	RowLinked
)

// Row is one line item. Rows are identified by an integer assigned at
// creation; ids are never reused while rows exist.
type Row struct {
	ID            int
	Mode          RowMode
	CatalogID     int64 // 0 until the user picks an entry
	Quantity      *Quantity
	AuxText       string // serial number or lot
	Condition     string // goods form only
	RequestLineID int64  // set only for linked rows
	Pending       *Quantity
	StockSnapshot *Quantity
}

// Registry holds the live rows keyed by id. An empty registry renders as
// the empty-state placeholder, never as a row.
type Registry struct {
	nextID       int
	rows         map[int]*Row
	resetOnEmpty bool
}

func NewRegistry(resetOnEmpty bool) *Registry {
	return &Registry{rows: make(map[int]*Row), resetOnEmpty: resetOnEmpty}
}

// Add inserts the row, assigns its id and returns it.
func (r *Registry) Add(row *Row) int {
	row.ID = r.nextID
	r.nextID++
	r.rows[row.ID] = row
	return row.ID
}

// Get returns the row for id, or nil.
func (r *Registry) Get(id int) *Row {
	return r.rows[id]
}

// Remove deletes the row. Removing the last row resets the id counter
// when the registry was built with resetOnEmpty.
func (r *Registry) Remove(id int) {
	delete(r.rows, id)
	if len(r.rows) == 0 && r.resetOnEmpty {
		r.nextID = 0
	}
}

// Clear removes every row and resets the counter per the registry policy.
func (r *Registry) Clear() {
	r.rows = make(map[int]*Row)
	if r.resetOnEmpty {
		r.nextID = 0
	}
}

func (r *Registry) Empty() bool {
	return len(r.rows) == 0
}

func (r *Registry) Len() int {
	return len(r.rows)
}

// Rows returns the live rows in ascending id order.
func (r *Registry) Rows() []*Row {
	ids := make([]int, 0, len(r.rows))
	for id := range r.rows {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]*Row, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.rows[id])
	}
	return out
}
