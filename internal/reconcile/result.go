package reconcile

import "github.com/nectarbooks/backend/internal/excel"

// Result is the per-import accounting across every sheet in the workbook.
type Result struct {
	// Created counts records inserted because the id was unknown locally.
	Created int
	// Updated counts records overwritten because the import carried a
	// strictly newer updatedAt.
	Updated int
	// Skipped counts records kept local (import was older or tied).
	Skipped int
	// Failed counts records whose write to the store failed.
	Failed int
	// Malformed lists rows the codec rejected before any merge ran.
	Malformed []excel.RowError
}

// Merged reports how many records changed the store.
func (r *Result) Merged() int {
	return r.Created + r.Updated
}
