package models

import "time"

// Record is implemented by every entity that participates in spreadsheet
// import/export reconciliation.
type Record interface {
	RecordID() string
	RecordUpdatedAt() string
}

// TimeString renders t in the RFC3339 UTC form used for createdAt/updatedAt.
// Timestamps are persisted as strings so lexicographic comparison matches
// chronological order across export/import round-trips.
func TimeString(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
