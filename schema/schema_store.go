package schema

import "time"

// TableStatus describes the score tables held by a table database.
type TableStatus struct {
	Backend        DatabaseBackend `json:"backend"`
	Connected      bool            `json:"connected"`
	Categories     int             `json:"categories"`
	Options        int             `json:"options"`
	Adjustments    int             `json:"adjustments"`
	Groups         int             `json:"groups"`
	LastImportTime time.Time       `json:"last_import_time"`
}

// ImportRecord is one row of the import audit table.
type ImportRecord struct {
	ImportID    int64
	ImportedAt  time.Time
	Source      string
	Categories  int
	Adjustments int
}
