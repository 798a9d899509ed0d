// Package excel converts between record collections and a single xlsx
// workbook: one sheet per entity type, header row naming the fields. It is
// the only wire format the application reads and writes.
package excel

import (
	"bytes"

	"github.com/xuri/excelize/v2"

	"github.com/nectarbooks/backend/pkg/db/models"
	pkgerrors "github.com/nectarbooks/backend/pkg/errors"
)

// Snapshot holds every record collection carried by one workbook.
type Snapshot struct {
	Products     []models.Product
	Customers    []models.Customer
	Invoices     []models.Invoice
	InvoiceItems []models.InvoiceItem
	Payments     []models.Payment
}

// Encode serializes the snapshot into xlsx workbook bytes. Nested structures
// are never embedded: invoice items get their own sheet, cross-referenced by
// invoice id and product id.
func Encode(snap *Snapshot) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheets := []struct {
		name   string
		header []string
		rows   [][]any
	}{
		{SheetProducts, productHeader, mapRows(snap.Products, productRow)},
		{SheetCustomers, customerHeader, mapRows(snap.Customers, customerRow)},
		{SheetInvoices, invoiceHeader, mapRows(snap.Invoices, invoiceRow)},
		{SheetInvoiceItems, invoiceItemHeader, mapRows(snap.InvoiceItems, invoiceItemRow)},
		{SheetPayments, paymentHeader, mapRows(snap.Payments, paymentRow)},
	}

	for _, s := range sheets {
		if _, err := f.NewSheet(s.name); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeCodec, err, "creating sheet "+s.name)
		}
		if err := f.SetSheetRow(s.name, "A1", &s.header); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeCodec, err, "writing header for "+s.name)
		}
		for i := range s.rows {
			cell, err := excelize.CoordinatesToCellName(1, i+2)
			if err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeCodec, err, "addressing row in "+s.name)
			}
			if err := f.SetSheetRow(s.name, cell, &s.rows[i]); err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeCodec, err, "writing row in "+s.name)
			}
		}
	}

	// Drop the workbook's default sheet; only the five named sheets remain.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeCodec, err, "removing default sheet")
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeCodec, err, "serializing workbook")
	}
	return buf.Bytes(), nil
}

// Decode parses workbook bytes back into typed collections. A sheet absent
// from the document yields an empty collection; a malformed row is skipped
// and reported, never silently coerced.
func Decode(data []byte) (*Snapshot, []RowError, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeCodec, err, "opening workbook")
	}
	defer f.Close()

	snap := &Snapshot{}
	var malformed []RowError

	products, bad, err := decodeSheet(f, SheetProducts, parseProductRow)
	if err != nil {
		return nil, nil, err
	}
	snap.Products = products
	malformed = append(malformed, bad...)

	customers, bad, err := decodeSheet(f, SheetCustomers, parseCustomerRow)
	if err != nil {
		return nil, nil, err
	}
	snap.Customers = customers
	malformed = append(malformed, bad...)

	invoices, bad, err := decodeSheet(f, SheetInvoices, parseInvoiceRow)
	if err != nil {
		return nil, nil, err
	}
	snap.Invoices = invoices
	malformed = append(malformed, bad...)

	items, bad, err := decodeSheet(f, SheetInvoiceItems, parseInvoiceItemRow)
	if err != nil {
		return nil, nil, err
	}
	snap.InvoiceItems = items
	malformed = append(malformed, bad...)

	payments, bad, err := decodeSheet(f, SheetPayments, parsePaymentRow)
	if err != nil {
		return nil, nil, err
	}
	snap.Payments = payments
	malformed = append(malformed, bad...)

	return snap, malformed, nil
}

func mapRows[T any](recs []T, row func(T) []any) [][]any {
	out := make([][]any, 0, len(recs))
	for _, rec := range recs {
		out = append(out, row(rec))
	}
	return out
}

func decodeSheet[T any](f *excelize.File, sheet string, parse func(*rowReader) T) ([]T, []RowError, error) {
	idx, err := f.GetSheetIndex(sheet)
	if err != nil || idx == -1 {
		return nil, nil, nil
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeCodec, err, "reading sheet "+sheet)
	}
	if len(rows) < 2 {
		return nil, nil, nil
	}

	cols := headerIndex(rows[0])
	var out []T
	var bad []RowError
	for i, cells := range rows[1:] {
		if emptyRow(cells) {
			continue
		}
		r := &rowReader{sheet: sheet, line: i + 2, cols: cols, cells: cells}
		rec := parse(r)
		if r.err != nil {
			bad = append(bad, *r.err)
			continue
		}
		out = append(out, rec)
	}
	return out, bad, nil
}
