package models

import (
	"github.com/shopspring/decimal"

	"github.com/nectarbooks/backend/pkg/enums"
)

// Payment records money received against an invoice.
type Payment struct {
	ID        string              `gorm:"column:id;primaryKey"`
	InvoiceID string              `gorm:"column:invoice_id;not null;index"`
	Amount    decimal.Decimal     `gorm:"column:amount;type:numeric;not null"`
	Method    enums.PaymentMethod `gorm:"column:method;not null;default:'cash'"`
	PaidAt    string              `gorm:"column:paid_at;not null;default:''"`
	CreatedAt string              `gorm:"column:created_at;not null"`
	UpdatedAt string              `gorm:"column:updated_at;not null"`
}

func (p Payment) RecordID() string        { return p.ID }
func (p Payment) RecordUpdatedAt() string { return p.UpdatedAt }
