package reconcile

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/nectarbooks/backend/internal/excel"
	"github.com/nectarbooks/backend/internal/records"
	"github.com/nectarbooks/backend/pkg/db/models"
	"github.com/nectarbooks/backend/pkg/enums"
	pkgerrors "github.com/nectarbooks/backend/pkg/errors"
	"github.com/nectarbooks/backend/pkg/logger"
	"github.com/nectarbooks/backend/pkg/migrate"
)

func setupEngine(t *testing.T) (*Engine, *records.Store) {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "reconcile.db")), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	require.NoError(t, migrate.Up(context.Background(), sqlDB))

	store := records.NewWithDB(conn)
	log := logger.New(logger.Options{ServiceName: "reconcile-test", Output: io.Discard})

	engine, err := New(store, log)
	require.NoError(t, err)
	return engine, store
}

func mergeProduct(id, name, updatedAt string) models.Product {
	return models.Product{
		ID:        id,
		Name:      name,
		Category:  "honey",
		Price:     decimal.RequireFromString("12.50"),
		Stock:     10,
		Status:    enums.ProductStatusActive,
		CreatedAt: "2024-01-01T00:00:00Z",
		UpdatedAt: updatedAt,
	}
}

func encodeProducts(t *testing.T, products ...models.Product) []byte {
	t.Helper()
	data, err := excel.Encode(&excel.Snapshot{Products: products})
	require.NoError(t, err)
	return data
}

func TestImportInsertsNewRecords(t *testing.T) {
	engine, store := setupEngine(t)
	ctx := context.Background()

	data := encodeProducts(t,
		mergeProduct("p1", "Wildflower Honey", "2024-03-01T00:00:00Z"),
		mergeProduct("p2", "Clover Honey", "2024-03-02T00:00:00Z"),
	)

	res, err := engine.ImportFromExcel(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Created)
	assert.Zero(t, res.Updated)
	assert.Zero(t, res.Skipped)
	assert.Empty(t, res.Malformed)

	all, err := store.Products.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestImportNewerWins(t *testing.T) {
	engine, store := setupEngine(t)
	ctx := context.Background()

	local := mergeProduct("p1", "Old Name", "2024-03-01T00:00:00Z")
	_, err := store.Products.Set(ctx, &local)
	require.NoError(t, err)

	res, err := engine.ImportFromExcel(ctx, encodeProducts(t,
		mergeProduct("p1", "New Name", "2024-03-05T00:00:00Z"),
	))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Updated)

	got, err := store.Products.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "New Name", got.Name)
	assert.Equal(t, "2024-03-05T00:00:00Z", got.UpdatedAt)
}

func TestImportOlderLoses(t *testing.T) {
	engine, store := setupEngine(t)
	ctx := context.Background()

	local := mergeProduct("p1", "Current Name", "2024-03-05T00:00:00Z")
	_, err := store.Products.Set(ctx, &local)
	require.NoError(t, err)

	res, err := engine.ImportFromExcel(ctx, encodeProducts(t,
		mergeProduct("p1", "Stale Name", "2024-03-01T00:00:00Z"),
	))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Skipped)
	assert.Zero(t, res.Updated)

	got, err := store.Products.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Current Name", got.Name)
}

func TestImportEqualTimestampKeepsLocal(t *testing.T) {
	engine, store := setupEngine(t)
	ctx := context.Background()

	local := mergeProduct("p1", "Local Name", "2024-03-05T00:00:00Z")
	_, err := store.Products.Set(ctx, &local)
	require.NoError(t, err)

	res, err := engine.ImportFromExcel(ctx, encodeProducts(t,
		mergeProduct("p1", "Imported Name", "2024-03-05T00:00:00Z"),
	))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Skipped)

	got, err := store.Products.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Local Name", got.Name)
}

func TestImportNeverDeletes(t *testing.T) {
	engine, store := setupEngine(t)
	ctx := context.Background()

	keeper := mergeProduct("p-local", "Local Only", "2024-03-01T00:00:00Z")
	_, err := store.Products.Set(ctx, &keeper)
	require.NoError(t, err)

	_, err = engine.ImportFromExcel(ctx, encodeProducts(t,
		mergeProduct("p-imported", "Imported Only", "2024-03-02T00:00:00Z"),
	))
	require.NoError(t, err)

	all, err := store.Products.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2, "records absent from the workbook must survive the import")
}

func TestExportImportRoundTripIsNoOp(t *testing.T) {
	engine, store := setupEngine(t)
	ctx := context.Background()

	product := mergeProduct("p1", "Wildflower Honey", "2024-03-01T00:00:00Z")
	_, err := store.Products.Set(ctx, &product)
	require.NoError(t, err)

	customer := models.Customer{
		ID:        "c1",
		Name:      "Hillside Market",
		Email:     "orders@hillside.example",
		Phone:     "555-0100",
		CreatedAt: "2024-01-01T00:00:00Z",
		UpdatedAt: "2024-02-01T00:00:00Z",
	}
	_, err = store.Customers.Set(ctx, &customer)
	require.NoError(t, err)

	data, err := engine.ExportToExcel(ctx)
	require.NoError(t, err)

	res, err := engine.ImportFromExcel(ctx, data)
	require.NoError(t, err)
	assert.Zero(t, res.Created)
	assert.Zero(t, res.Updated)
	assert.Equal(t, 2, res.Skipped, "every exported record ties on updatedAt and keeps local")
	assert.Empty(t, res.Malformed)

	got, err := store.Customers.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Hillside Market", got.Name)
}

func TestImportBumpsMetadataOnce(t *testing.T) {
	engine, store := setupEngine(t)
	ctx := context.Background()

	frozen := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	engine.now = func() time.Time { return frozen }

	_, err := engine.ImportFromExcel(ctx, encodeProducts(t,
		mergeProduct("p1", "Wildflower Honey", "2024-03-01T00:00:00Z"),
		mergeProduct("p2", "Clover Honey", "2024-03-02T00:00:00Z"),
	))
	require.NoError(t, err)

	meta, err := store.Metadata.Get(ctx, models.ImportMetadataID)
	require.NoError(t, err)
	assert.Equal(t, 1, meta.ImportCount, "one import bumps the counter once regardless of record count")
	assert.Equal(t, "2024-06-01T12:00:00Z", meta.LastImported)

	_, err = engine.ImportFromExcel(ctx, encodeProducts(t,
		mergeProduct("p1", "Wildflower Honey", "2024-03-01T00:00:00Z"),
	))
	require.NoError(t, err)

	meta, err = store.Metadata.Get(ctx, models.ImportMetadataID)
	require.NoError(t, err)
	assert.Equal(t, 2, meta.ImportCount)
}

func TestImportReportsMalformedRowsAndMergesTheRest(t *testing.T) {
	engine, store := setupEngine(t)
	ctx := context.Background()

	f := excelize.NewFile()
	_, err := f.NewSheet(excel.SheetProducts)
	require.NoError(t, err)
	rows := [][]any{
		{"id", "name", "price", "stock", "status", "createdAt", "updatedAt"},
		{"p1", "Wildflower Honey", "12.50", 10, "active", "2024-01-01T00:00:00Z", "2024-03-01T00:00:00Z"},
		{"p2", "Broken Price", "twelve", 5, "active", "2024-01-01T00:00:00Z", "2024-03-01T00:00:00Z"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(excel.SheetProducts, cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	res, err := engine.ImportFromExcel(ctx, buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created, "the valid row still merges")
	require.Len(t, res.Malformed, 1)
	assert.Equal(t, excel.SheetProducts, res.Malformed[0].Sheet)
	assert.Equal(t, "price", res.Malformed[0].Field)

	got, err := store.Products.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Wildflower Honey", got.Name)

	_, err = store.Products.Get(ctx, "p2")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestImportRejectsGarbageBytes(t *testing.T) {
	engine, _ := setupEngine(t)

	_, err := engine.ImportFromExcel(context.Background(), []byte("not a workbook"))
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeCodec))
}

func TestImportMergesAllEntityTypes(t *testing.T) {
	engine, store := setupEngine(t)
	ctx := context.Background()

	invoice := models.Invoice{
		ID:            "inv1",
		InvoiceNumber: "INV-0001",
		CustomerID:    "c1",
		Status:        enums.InvoiceStatusPending,
		Subtotal:      decimal.RequireFromString("31.50"),
		TotalAmount:   decimal.RequireFromString("31.50"),
		PaidAmount:    decimal.Zero,
		CreatedAt:     "2024-03-01T00:00:00Z",
		UpdatedAt:     "2024-03-01T00:00:00Z",
	}
	item := models.InvoiceItem{
		ID:        "it1",
		InvoiceID: "inv1",
		ProductID: "p1",
		Quantity:  3,
		UnitPrice: decimal.RequireFromString("10.50"),
		Amount:    decimal.RequireFromString("31.50"),
		CreatedAt: "2024-03-01T00:00:00Z",
		UpdatedAt: "2024-03-01T00:00:00Z",
	}
	payment := models.Payment{
		ID:        "pay1",
		InvoiceID: "inv1",
		Amount:    decimal.RequireFromString("31.50"),
		Method:    enums.PaymentMethodCash,
		PaidAt:    "2024-03-02T00:00:00Z",
		CreatedAt: "2024-03-02T00:00:00Z",
		UpdatedAt: "2024-03-02T00:00:00Z",
	}

	data, err := excel.Encode(&excel.Snapshot{
		Invoices:     []models.Invoice{invoice},
		InvoiceItems: []models.InvoiceItem{item},
		Payments:     []models.Payment{payment},
	})
	require.NoError(t, err)

	res, err := engine.ImportFromExcel(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Created)

	gotInvoice, err := store.Invoices.Get(ctx, "inv1")
	require.NoError(t, err)
	assert.True(t, gotInvoice.TotalAmount.Equal(decimal.RequireFromString("31.50")))

	gotItem, err := store.InvoiceItems.Get(ctx, "it1")
	require.NoError(t, err)
	assert.True(t, gotItem.Amount.Equal(decimal.RequireFromString("31.50")))

	gotPayment, err := store.Payments.Get(ctx, "pay1")
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentMethodCash, gotPayment.Method)
}
