package models

import (
	"github.com/shopspring/decimal"

	"github.com/nectarbooks/backend/pkg/enums"
)

// Product is a catalog entry. The id is client-generated and immutable;
// price and stock are never negative.
type Product struct {
	ID          string              `gorm:"column:id;primaryKey"`
	Name        string              `gorm:"column:name;not null"`
	Description string              `gorm:"column:description;not null;default:''"`
	Category    string              `gorm:"column:category;not null;default:''"`
	Price       decimal.Decimal     `gorm:"column:price;type:numeric;not null"`
	Stock       int                 `gorm:"column:stock;not null;default:0"`
	Status      enums.ProductStatus `gorm:"column:status;not null;default:'active'"`
	CreatedAt   string              `gorm:"column:created_at;not null"`
	UpdatedAt   string              `gorm:"column:updated_at;not null"`
}

func (p Product) RecordID() string        { return p.ID }
func (p Product) RecordUpdatedAt() string { return p.UpdatedAt }
