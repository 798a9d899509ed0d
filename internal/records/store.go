package records

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nectarbooks/backend/pkg/db"
	"github.com/nectarbooks/backend/pkg/db/models"
	pkgerrors "github.com/nectarbooks/backend/pkg/errors"
)

// Table is a single-entity gateway over the local database. It exposes the
// four record-store operations and nothing else; callers compose multi-table
// writes themselves and own the cleanup on partial failure.
type Table[T models.Record] struct {
	db *gorm.DB
}

// NewTable builds a table gateway tied to the provided GORM connection.
func NewTable[T models.Record](conn *gorm.DB) *Table[T] {
	return &Table[T]{db: conn}
}

// GetAll loads the full table in one read.
func (t *Table[T]) GetAll(ctx context.Context) ([]T, error) {
	var out []T
	if err := t.db.WithContext(ctx).Find(&out).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStore, err, "loading table")
	}
	return out, nil
}

// Get loads one record by id.
func (t *Table[T]) Get(ctx context.Context, id string) (*T, error) {
	var rec T
	err := t.db.WithContext(ctx).First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "record not found").WithDetails(map[string]string{"id": id})
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStore, err, "loading record")
	}
	return &rec, nil
}

// Set inserts or replaces the record keyed by its id.
func (t *Table[T]) Set(ctx context.Context, rec *T) (*T, error) {
	err := t.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(rec).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStore, err, "persisting record")
	}
	return rec, nil
}

// Remove deletes one record by id.
func (t *Table[T]) Remove(ctx context.Context, id string) error {
	res := t.db.WithContext(ctx).Delete(new(T), "id = ?", id)
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStore, res.Error, "deleting record")
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "record not found").WithDetails(map[string]string{"id": id})
	}
	return nil
}

// Store aggregates the per-entity tables. It is constructed once at process
// start and passed by reference to everything that needs persistence.
type Store struct {
	Products     *Table[models.Product]
	Customers    *Table[models.Customer]
	Invoices     *Table[models.Invoice]
	InvoiceItems *Table[models.InvoiceItem]
	Payments     *Table[models.Payment]
	Metadata     *Table[models.ImportMetadata]
}

// New builds the store over the shared database client.
func New(client *db.Client) *Store {
	return NewWithDB(client.DB())
}

// NewWithDB builds the store over a raw GORM connection (tests).
func NewWithDB(conn *gorm.DB) *Store {
	return &Store{
		Products:     NewTable[models.Product](conn),
		Customers:    NewTable[models.Customer](conn),
		Invoices:     NewTable[models.Invoice](conn),
		InvoiceItems: NewTable[models.InvoiceItem](conn),
		Payments:     NewTable[models.Payment](conn),
		Metadata:     NewTable[models.ImportMetadata](conn),
	}
}
