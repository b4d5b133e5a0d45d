package lineform

import (
	"errors"
	"fmt"
)

var (
	ErrNoRows      = errors.New("Debe agregar al menos una línea a la entrega")
	ErrNoSelection = errors.New("Seleccione un artículo en todas las líneas")
	ErrBadQuantity = errors.New("Ingrese una cantidad válida en todas las líneas")
)

// Validate walks the registry in ascending row order and returns the
// first violation, or nil when every row is submittable. Rule order per
// row: selection, bounds, quantity presence.
func (c *Component) Validate() error {
	if c.reg.Empty() {
		return ErrNoRows
	}

	for _, row := range c.reg.Rows() {
		if row.CatalogID == 0 {
			return ErrNoSelection
		}

		if row.Quantity != nil {
			switch row.Mode {
			case RowManual:
				if c.profile.CheckStock && row.StockSnapshot != nil && row.Quantity.GreaterThan(row.StockSnapshot.Decimal) {
					return fmt.Errorf("Stock insuficiente para %s. Disponible: %s, Solicitado: %s",
						c.rowLabel(row), row.StockSnapshot.String(), row.Quantity.String())
				}
			case RowLinked:
				if row.Pending != nil && row.Quantity.GreaterThan(row.Pending.Decimal) {
					return fmt.Errorf("La cantidad para %s excede lo pendiente. Pendiente: %s, Solicitado: %s",
						c.rowLabel(row), row.Pending.String(), row.Quantity.String())
				}
				if row.StockSnapshot != nil && row.Quantity.GreaterThan(row.StockSnapshot.Decimal) {
					return fmt.Errorf("Stock insuficiente para %s. Disponible: %s, Solicitado: %s",
						c.rowLabel(row), row.StockSnapshot.String(), row.Quantity.String())
				}
			}
		}

		if row.Quantity == nil || !row.Quantity.Positive() {
			return ErrBadQuantity
		}

		if c.profile.IntegerQuantity {
			if !row.Quantity.IsWholeNumber() || row.Quantity.LessThan(QuantityFromInt(1).Decimal) {
				return fmt.Errorf("La cantidad para %s debe ser un número entero mayor o igual a 1", c.rowLabel(row))
			}
		}
	}
	return nil
}

func (c *Component) rowLabel(row *Row) string {
	if entry := c.catalog.Lookup(row.CatalogID); entry != nil {
		return entry.Name
	}
	return fmt.Sprintf("la línea %d", row.ID+1)
}
