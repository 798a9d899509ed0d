package models

// ImportMetadataID is the fixed id of the single process-wide metadata row.
const ImportMetadataID = "import-metadata"

// ImportMetadata tracks when the last spreadsheet import happened and how
// many imports have occurred. Created on the first import, updated in place
// on every subsequent one.
type ImportMetadata struct {
	ID           string `gorm:"column:id;primaryKey"`
	LastImported string `gorm:"column:last_imported;not null;default:''"`
	ImportCount  int    `gorm:"column:import_count;not null;default:0"`
}

func (m ImportMetadata) RecordID() string        { return m.ID }
func (m ImportMetadata) RecordUpdatedAt() string { return m.LastImported }
