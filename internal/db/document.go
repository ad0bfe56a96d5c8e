package db

import "gorm.io/datatypes" // JSON column type

// Document is one row of the documents table: a single document of the store,
// addressed by its full path and indexed by its parent collection.
type Document struct {
	Path       string         `gorm:"primaryKey;size:512"`     // Full document path, e.g. users/u1/accounts/a1
	Collection string         `gorm:"size:512;not null;index"` // Parent collection path, used by scans
	DocID      string         `gorm:"size:255;not null"`       // Last path segment
	Fields     datatypes.JSON `gorm:"type:json;not null"`      // Document content
	UpdatedAt  int64          `gorm:"autoUpdateTime:milli"`    // Last write in milliseconds
}
