package excel

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/nectarbooks/backend/pkg/db/models"
	"github.com/nectarbooks/backend/pkg/enums"
)

func sampleSnapshot() *Snapshot {
	return &Snapshot{
		Products: []models.Product{{
			ID:          "p1",
			Name:        "Wildflower Honey",
			Description: "500g jar",
			Category:    "honey",
			Price:       decimal.RequireFromString("12.50"),
			Stock:       24,
			Status:      enums.ProductStatusActive,
			CreatedAt:   "2024-01-01T00:00:00Z",
			UpdatedAt:   "2024-01-02T00:00:00Z",
		}},
		Customers: []models.Customer{{
			ID:        "c1",
			Name:      "Rosa Fuentes",
			Email:     "rosa@example.com",
			Phone:     "555-0101",
			Address:   "12 Orchard Lane",
			CreatedAt: "2024-01-01T00:00:00Z",
			UpdatedAt: "2024-01-01T00:00:00Z",
		}},
		Invoices: []models.Invoice{{
			ID:            "i1",
			InvoiceNumber: "INV-0001",
			CustomerID:    "c1",
			Date:          "2024-02-01",
			Subtotal:      decimal.RequireFromString("63.00"),
			TotalAmount:   decimal.RequireFromString("63.00"),
			PaidAmount:    decimal.Zero,
			Status:        enums.InvoiceStatusPending,
			Notes:         "deliver friday",
			CreatedAt:     "2024-02-01T08:00:00Z",
			UpdatedAt:     "2024-02-01T08:00:00Z",
		}},
		InvoiceItems: []models.InvoiceItem{{
			ID:        "li1",
			InvoiceID: "i1",
			ProductID: "p1",
			Quantity:  3,
			UnitPrice: decimal.RequireFromString("10.50"),
			Amount:    decimal.RequireFromString("31.50"),
			CreatedAt: "2024-02-01T08:00:00Z",
			UpdatedAt: "2024-02-01T08:00:00Z",
		}},
		Payments: []models.Payment{{
			ID:        "pay1",
			InvoiceID: "i1",
			Amount:    decimal.RequireFromString("20.00"),
			Method:    enums.PaymentMethodCash,
			PaidAt:    "2024-02-10T00:00:00Z",
			CreatedAt: "2024-02-10T00:00:00Z",
			UpdatedAt: "2024-02-10T00:00:00Z",
		}},
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	data, err := Encode(sampleSnapshot())
	require.NoError(t, err)

	snap, malformed, err := Decode(data)
	require.NoError(t, err)
	assert.Empty(t, malformed)

	require.Len(t, snap.Products, 1)
	p := snap.Products[0]
	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, "Wildflower Honey", p.Name)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("12.50")))
	assert.Equal(t, 24, p.Stock)
	assert.Equal(t, enums.ProductStatusActive, p.Status)
	assert.Equal(t, "2024-01-02T00:00:00Z", p.UpdatedAt)

	require.Len(t, snap.Customers, 1)
	assert.Equal(t, "rosa@example.com", snap.Customers[0].Email)

	require.Len(t, snap.Invoices, 1)
	inv := snap.Invoices[0]
	assert.Equal(t, "INV-0001", inv.InvoiceNumber)
	assert.True(t, inv.TotalAmount.Equal(decimal.RequireFromString("63.00")))
	assert.Equal(t, enums.InvoiceStatusPending, inv.Status)

	require.Len(t, snap.InvoiceItems, 1)
	item := snap.InvoiceItems[0]
	assert.Equal(t, 3, item.Quantity)
	assert.True(t, item.Amount.Equal(decimal.RequireFromString("31.50")))

	require.Len(t, snap.Payments, 1)
	assert.Equal(t, enums.PaymentMethodCash, snap.Payments[0].Method)
}

func TestEncodeEmitsFixedSheetNames(t *testing.T) {
	data, err := Encode(&Snapshot{})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t,
		[]string{SheetProducts, SheetCustomers, SheetInvoices, SheetInvoiceItems, SheetPayments},
		f.GetSheetList())
}

func TestDecodeMissingSheetYieldsEmptyCollection(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	_, err := f.NewSheet(SheetProducts)
	require.NoError(t, err)
	header := productHeader
	require.NoError(t, f.SetSheetRow(SheetProducts, "A1", &header))
	row := []any{"p1", "Honey", "", "honey", "5.00", 1, "active", "", "2024-01-01T00:00:00Z"}
	require.NoError(t, f.SetSheetRow(SheetProducts, "A2", &row))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	snap, malformed, err := Decode(buf.Bytes())
	require.NoError(t, err)
	assert.Empty(t, malformed)
	assert.Len(t, snap.Products, 1)
	assert.Empty(t, snap.Customers)
	assert.Empty(t, snap.Invoices)
	assert.Empty(t, snap.Payments)
}

func TestDecodeMatchesColumnsByHeaderName(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	_, err := f.NewSheet(SheetCustomers)
	require.NoError(t, err)
	// Shuffled column order relative to the export layout.
	header := []string{"updatedAt", "name", "id"}
	require.NoError(t, f.SetSheetRow(SheetCustomers, "A1", &header))
	row := []any{"2024-03-01T00:00:00Z", "Rosa", "c1"}
	require.NoError(t, f.SetSheetRow(SheetCustomers, "A2", &row))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	snap, malformed, err := Decode(buf.Bytes())
	require.NoError(t, err)
	assert.Empty(t, malformed)
	require.Len(t, snap.Customers, 1)
	assert.Equal(t, "c1", snap.Customers[0].ID)
	assert.Equal(t, "Rosa", snap.Customers[0].Name)
	assert.Equal(t, "2024-03-01T00:00:00Z", snap.Customers[0].UpdatedAt)
}

func TestDecodeSkipsAndReportsMalformedRows(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	_, err := f.NewSheet(SheetProducts)
	require.NoError(t, err)
	header := productHeader
	require.NoError(t, f.SetSheetRow(SheetProducts, "A1", &header))
	rows := [][]any{
		{"p1", "Good", "", "honey", "5.00", 1, "active", "", "2024-01-01T00:00:00Z"},
		{"", "Missing id", "", "honey", "5.00", 1, "active", "", "2024-01-01T00:00:00Z"},
		{"p3", "Bad price", "", "honey", "not-a-number", 1, "active", "", "2024-01-01T00:00:00Z"},
		{"p4", "Bad timestamp", "", "honey", "5.00", 1, "active", "", "yesterday"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(SheetProducts, cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	snap, malformed, err := Decode(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, snap.Products, 1)
	assert.Equal(t, "p1", snap.Products[0].ID)

	require.Len(t, malformed, 3)
	fields := map[string]bool{}
	for _, rerr := range malformed {
		assert.Equal(t, SheetProducts, rerr.Sheet)
		fields[rerr.Field] = true
	}
	assert.True(t, fields["id"], "missing id should be reported")
	assert.True(t, fields["price"], "malformed monetary value must not become zero")
	assert.True(t, fields["updatedAt"], "malformed timestamp should be reported")
}

func TestDecodeRecomputesItemAmount(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	_, err := f.NewSheet(SheetInvoiceItems)
	require.NoError(t, err)
	header := invoiceItemHeader
	require.NoError(t, f.SetSheetRow(SheetInvoiceItems, "A1", &header))
	// amount column lies; quantity × unitPrice wins.
	row := []any{"li1", "i1", "p1", "", 3, "10.50", "999.99", "", "2024-01-01T00:00:00Z"}
	require.NoError(t, f.SetSheetRow(SheetInvoiceItems, "A2", &row))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	snap, malformed, err := Decode(buf.Bytes())
	require.NoError(t, err)
	assert.Empty(t, malformed)
	require.Len(t, snap.InvoiceItems, 1)
	assert.True(t, snap.InvoiceItems[0].Amount.Equal(decimal.RequireFromString("31.50")))
}

func TestDecodeRejectsGarbageBytes(t *testing.T) {
	_, _, err := Decode([]byte("not a workbook"))
	require.Error(t, err)
}
