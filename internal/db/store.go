package db

import (
	"context"       // Context for queries
	"encoding/json" // Fields serialization
	"errors"        // Error matching
	"fmt"           // Error wrapping

	"echo_bank/internal/store" // Store contract

	"gorm.io/datatypes"   // JSON column type
	"gorm.io/gorm"        // GORM ORM library
	"gorm.io/gorm/clause" // Upsert clause
)

// DocumentStore implements store.DocumentStore on top of a single SQL table
type DocumentStore struct {
	db *gorm.DB
}

// NewDocumentStore wraps an open GORM connection
func NewDocumentStore(db *gorm.DB) *DocumentStore {
	return &DocumentStore{db: db}
}

// Write stores fields at path. A merge write reads the current row first and
// lays the new fields over it; there is no transaction around the two steps.
func (s *DocumentStore) Write(ctx context.Context, path string, fields store.Fields, merge bool) error {
	collection, id, err := store.SplitDocPath(path) // Validate and split the path
	if err != nil {
		return err
	}
	payload := fields
	if merge {
		current, err := s.Read(ctx, path) // Load the existing document, if any
		switch {
		case err == nil:
			payload = store.Merge(current, fields) // Keep fields absent from this write
		case errors.Is(err, store.ErrNotFound):
			// Nothing to merge with
		default:
			return err
		}
	}
	raw, err := json.Marshal(payload) // Serialize the document
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if payload == nil {
		raw = []byte("{}") // Never store a JSON null
	}
	doc := Document{Path: path, Collection: collection, DocID: id, Fields: datatypes.JSON(raw)}
	// Insert or replace the row
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&doc).Error; err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Read returns the fields stored at path or store.ErrNotFound
func (s *DocumentStore) Read(ctx context.Context, path string) (store.Fields, error) {
	if _, _, err := store.SplitDocPath(path); err != nil {
		return nil, err
	}
	var doc Document // Row holder
	if err := s.db.WithContext(ctx).Where("path = ?", path).Take(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrNotFound // Missing document
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return store.DecodeJSON(doc.Fields) // Parse JSON column
}

// ScanCollection lists the direct children of a collection, ordered by id
func (s *DocumentStore) ScanCollection(ctx context.Context, path string) ([]store.Document, error) {
	if err := store.CheckCollectionPath(path); err != nil {
		return nil, err
	}
	var rows []Document // Matching rows
	if err := s.db.WithContext(ctx).Where("collection = ?", path).Order("doc_id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("scan %s: %w", path, err)
	}
	out := make([]store.Document, 0, len(rows))
	for _, r := range rows {
		f, err := store.DecodeJSON(r.Fields) // Parse each document
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", r.Path, err)
		}
		out = append(out, store.Document{ID: r.DocID, Fields: f})
	}
	return out, nil
}
