package data

import "github.com/shopspring/decimal"

// ItemRef says what a list item or ingredient points at: a known product or
// a free-text label. Exactly one of the two variants is ever used.
type ItemRef interface {
	itemRef()
}

type ByProduct struct {
	ID string
}

type ByLabel struct {
	Text string
	Unit *Unit
}

func (ByProduct) itemRef() {}

func (ByLabel) itemRef() {}

type ItemOptions struct {
	Quantity *decimal.Decimal
	Checked  *bool
}

// ItemUpdate carries only the fields a caller asked to change. ClearQuantity
// removes the quantity and wins over Quantity.
type ItemUpdate struct {
	Quantity      *decimal.Decimal
	ClearQuantity bool
	Checked       *bool
}

func (u ItemUpdate) IsEmpty() bool {
	return u.Quantity == nil && !u.ClearQuantity && u.Checked == nil
}

// Columns returns the storage columns touched by the update.
func (u ItemUpdate) Columns() map[string]interface{} {
	columns := make(map[string]interface{}, 2)
	if u.ClearQuantity {
		columns["quantity"] = nil
	} else if u.Quantity != nil {
		columns["quantity"] = *u.Quantity
	}
	if u.Checked != nil {
		columns["checked"] = *u.Checked
	}
	return columns
}
