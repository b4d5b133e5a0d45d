package lineform

// Profile fixes the per-form behavior differences between the two
// delivery forms.
type Profile struct {
	Name string

	// DefaultQuantity is assigned to new manual rows; nil leaves the
	// quantity unset until the user types one.
	DefaultQuantity *Quantity

	// IntegerQuantity requires whole quantities of at least 1.
	IntegerQuantity bool

	// CheckStock enforces the stock snapshot bound on manual rows.
	CheckStock bool

	// SupportsLinking enables the request-linked mode.
	SupportsLinking bool

	// ResetCounterOnEmpty resets row ids to 0 whenever the registry
	// empties out.
	ResetCounterOnEmpty bool
}

// GoodsProfile drives the goods (bienes) delivery form: unit quantities,
// condition per line, no stock tracking, no request linking.
func GoodsProfile() Profile {
	one := QuantityFromInt(1)
	return Profile{
		Name:            "goods",
		DefaultQuantity: &one,
		IntegerQuantity: true,
	}
}

// ItemsProfile drives the items (articulos) delivery form: decimal
// quantities bounded by stock, optional lot, request linking.
func ItemsProfile() Profile {
	return Profile{
		Name:                "items",
		CheckStock:          true,
		SupportsLinking:     true,
		ResetCounterOnEmpty: true,
	}
}
