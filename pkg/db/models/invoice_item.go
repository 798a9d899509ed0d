package models

import "github.com/shopspring/decimal"

// InvoiceItem is a line on an invoice. UnitPrice is a snapshot taken at
// invoicing time, independent of later product price changes. Amount is
// always Quantity × UnitPrice, recomputed on every edit.
type InvoiceItem struct {
	ID          string          `gorm:"column:id;primaryKey"`
	InvoiceID   string          `gorm:"column:invoice_id;not null;index"`
	ProductID   string          `gorm:"column:product_id;not null"`
	Description string          `gorm:"column:description;not null;default:''"`
	Quantity    int             `gorm:"column:quantity;not null"`
	UnitPrice   decimal.Decimal `gorm:"column:unit_price;type:numeric;not null"`
	Amount      decimal.Decimal `gorm:"column:amount;type:numeric;not null"`
	CreatedAt   string          `gorm:"column:created_at;not null"`
	UpdatedAt   string          `gorm:"column:updated_at;not null"`
}

func (i InvoiceItem) RecordID() string        { return i.ID }
func (i InvoiceItem) RecordUpdatedAt() string { return i.UpdatedAt }
