// Package reconcile merges spreadsheet-sourced records into the record store
// using a last-write-wins policy keyed by record id and updatedAt.
package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/nectarbooks/backend/internal/excel"
	"github.com/nectarbooks/backend/internal/records"
	"github.com/nectarbooks/backend/pkg/db/models"
	pkgerrors "github.com/nectarbooks/backend/pkg/errors"
	"github.com/nectarbooks/backend/pkg/logger"
)

// Engine drives spreadsheet export and import against the record store.
type Engine struct {
	store *records.Store
	log   *logger.Logger
	now   func() time.Time
}

func New(store *records.Store, log *logger.Logger) (*Engine, error) {
	if store == nil {
		return nil, fmt.Errorf("record store required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Engine{store: store, log: log, now: time.Now}, nil
}

// ExportToExcel reads every table and serializes the lot into one workbook.
// Export is all-or-nothing: any table read failure aborts it.
func (e *Engine) ExportToExcel(ctx context.Context) ([]byte, error) {
	snap := &excel.Snapshot{}

	var err error
	if snap.Products, err = e.store.Products.GetAll(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStore, err, "export aborted reading products")
	}
	if snap.Customers, err = e.store.Customers.GetAll(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStore, err, "export aborted reading customers")
	}
	if snap.Invoices, err = e.store.Invoices.GetAll(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStore, err, "export aborted reading invoices")
	}
	if snap.InvoiceItems, err = e.store.InvoiceItems.GetAll(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStore, err, "export aborted reading invoice items")
	}
	if snap.Payments, err = e.store.Payments.GetAll(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStore, err, "export aborted reading payments")
	}

	return excel.Encode(snap)
}

// ImportFromExcel parses the workbook and merges every collection into the
// store, one entity type at a time, then bumps the import metadata exactly
// once. Individual record write failures are counted and skipped; they never
// roll back writes that already happened.
func (e *Engine) ImportFromExcel(ctx context.Context, data []byte) (*Result, error) {
	snap, malformed, err := excel.Decode(data)
	if err != nil {
		return nil, err
	}

	res := &Result{Malformed: malformed}

	// Customers and products first so invoices can resolve names on display;
	// the tables are independent, so this is ordering for politeness, not
	// correctness.
	if err := mergeTable(ctx, e, excel.SheetProducts, e.store.Products, snap.Products, res); err != nil {
		return res, err
	}
	if err := mergeTable(ctx, e, excel.SheetCustomers, e.store.Customers, snap.Customers, res); err != nil {
		return res, err
	}
	if err := mergeTable(ctx, e, excel.SheetInvoices, e.store.Invoices, snap.Invoices, res); err != nil {
		return res, err
	}
	if err := mergeTable(ctx, e, excel.SheetInvoiceItems, e.store.InvoiceItems, snap.InvoiceItems, res); err != nil {
		return res, err
	}
	if err := mergeTable(ctx, e, excel.SheetPayments, e.store.Payments, snap.Payments, res); err != nil {
		return res, err
	}

	if err := e.trackImport(ctx); err != nil {
		return res, err
	}

	ctxLog := e.log.WithFields(ctx, map[string]any{
		"created": res.Created,
		"updated": res.Updated,
		"skipped": res.Skipped,
		"failed":  res.Failed,
	})
	e.log.Info(ctxLog, "import completed")

	return res, nil
}

// trackImport bumps the single metadata record: created on the first import,
// updated in place afterwards. Runs once per import, after all merges.
func (e *Engine) trackImport(ctx context.Context) error {
	meta, err := e.store.Metadata.Get(ctx, models.ImportMetadataID)
	if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		meta = &models.ImportMetadata{ID: models.ImportMetadataID}
	} else if err != nil {
		return err
	}

	meta.ImportCount++
	meta.LastImported = models.TimeString(e.now())

	if _, err := e.store.Metadata.Set(ctx, meta); err != nil {
		return err
	}
	return nil
}

// mergeTable applies the last-write-wins pass for one entity type: load the
// whole table once, then insert unknown ids and overwrite known ids only
// when the imported updatedAt is strictly greater. Equal timestamps keep the
// local record; nothing is ever deleted.
func mergeTable[T models.Record](ctx context.Context, e *Engine, sheet string, table *records.Table[T], incoming []T, res *Result) error {
	if len(incoming) == 0 {
		return nil
	}

	existing, err := table.GetAll(ctx)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStore, err, "import aborted loading "+sheet)
	}
	byID := make(map[string]T, len(existing))
	for _, rec := range existing {
		byID[rec.RecordID()] = rec
	}

	for i := range incoming {
		rec := incoming[i]
		current, ok := byID[rec.RecordID()]
		switch {
		case !ok:
			if _, err := table.Set(ctx, &rec); err != nil {
				res.Failed++
				e.log.Error(e.log.WithRecordID(e.log.WithSheet(ctx, sheet), rec.RecordID()), "import write failed", err)
				continue
			}
			res.Created++
		case rec.RecordUpdatedAt() > current.RecordUpdatedAt():
			if _, err := table.Set(ctx, &rec); err != nil {
				res.Failed++
				e.log.Error(e.log.WithRecordID(e.log.WithSheet(ctx, sheet), rec.RecordID()), "import write failed", err)
				continue
			}
			res.Updated++
		default:
			res.Skipped++
		}
	}
	return nil
}
