package models

// Customer is a billing contact referenced by invoices via CustomerID.
// There is no foreign-key constraint; lookups happen at display time.
type Customer struct {
	ID        string `gorm:"column:id;primaryKey"`
	Name      string `gorm:"column:name;not null"`
	Email     string `gorm:"column:email;not null;default:''"`
	Phone     string `gorm:"column:phone;not null;default:''"`
	Address   string `gorm:"column:address;not null;default:''"`
	CreatedAt string `gorm:"column:created_at;not null"`
	UpdatedAt string `gorm:"column:updated_at;not null"`
}

func (c Customer) RecordID() string        { return c.ID }
func (c Customer) RecordUpdatedAt() string { return c.UpdatedAt }
