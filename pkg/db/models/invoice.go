package models

import (
	"github.com/shopspring/decimal"

	"github.com/nectarbooks/backend/pkg/enums"
)

// Invoice is the document header. Items live in their own table (and their
// own spreadsheet sheet); Subtotal and TotalAmount are derived from them on
// every save and never trusted from input.
type Invoice struct {
	ID            string              `gorm:"column:id;primaryKey"`
	InvoiceNumber string              `gorm:"column:invoice_number;not null;uniqueIndex"`
	CustomerID    string              `gorm:"column:customer_id;not null"`
	Date          string              `gorm:"column:date;not null;default:''"`
	Subtotal      decimal.Decimal     `gorm:"column:subtotal;type:numeric;not null"`
	TotalAmount   decimal.Decimal     `gorm:"column:total_amount;type:numeric;not null"`
	PaidAmount    decimal.Decimal     `gorm:"column:paid_amount;type:numeric;not null"`
	Status        enums.InvoiceStatus `gorm:"column:status;not null;default:'pending'"`
	Notes         string              `gorm:"column:notes;not null;default:''"`
	CreatedAt     string              `gorm:"column:created_at;not null"`
	UpdatedAt     string              `gorm:"column:updated_at;not null"`

	Items []InvoiceItem `gorm:"-"`
}

func (i Invoice) RecordID() string        { return i.ID }
func (i Invoice) RecordUpdatedAt() string { return i.UpdatedAt }
