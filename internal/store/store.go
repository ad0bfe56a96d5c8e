// Package store defines the hierarchical document store the service persists to.
//
// Paths alternate collection and document segments: "users/u1" is a document,
// "users/u1/accounts" a collection, "users/u1/accounts/a1" a document again.
package store

import (
	"bytes"         // Decoder input
	"context"       // Context for the DocumentStore contract
	"encoding/json" // Field encoding
	"errors"        // Sentinel errors
	"fmt"           // Error wrapping
	"net/url"       // Email escaping
	"strings"       // Path handling
)

var (
	ErrNotFound    = errors.New("document not found")
	ErrInvalidPath = errors.New("invalid document path")
)

// Fields is the content of one document.
type Fields map[string]any

// Document is one entry returned by a collection scan.
type Document struct {
	ID     string
	Fields Fields
}

// DocumentStore is the persistence contract used by the services. Writes with
// merge=true update only the supplied fields; nested maps are merged recursively.
// There are no transactions.
type DocumentStore interface {
	Write(ctx context.Context, path string, fields Fields, merge bool) error
	Read(ctx context.Context, path string) (Fields, error)
	ScanCollection(ctx context.Context, path string) ([]Document, error)
}

// SplitDocPath returns the parent collection path and the id of a document path.
func SplitDocPath(path string) (collection, id string, err error) {
	segs := strings.Split(path, "/")
	if len(segs) < 2 || len(segs)%2 != 0 || hasEmpty(segs) {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	return strings.Join(segs[:len(segs)-1], "/"), segs[len(segs)-1], nil
}

// CheckCollectionPath validates a collection path.
func CheckCollectionPath(path string) error {
	segs := strings.Split(path, "/")
	if len(segs)%2 != 1 || hasEmpty(segs) {
		return fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	return nil
}

func hasEmpty(segs []string) bool {
	for _, s := range segs {
		if s == "" {
			return true
		}
	}
	return false
}

func UserDoc(userID string) string { return "users/" + userID }

func AccountsCollection(userID string) string { return UserDoc(userID) + "/accounts" }

func AccountDoc(userID, accountID string) string {
	return AccountsCollection(userID) + "/" + accountID
}

func TransactionsCollection(userID, accountID string) string {
	return AccountDoc(userID, accountID) + "/transactions"
}

func TransactionDoc(userID, accountID, txID string) string {
	return TransactionsCollection(userID, accountID) + "/" + txID
}

// EmailDoc is the email -> user id index entry. The email is lower-cased and
// escaped so it always forms a single path segment.
func EmailDoc(email string) string {
	return "emails/" + url.PathEscape(strings.ToLower(email))
}

// Encode turns a struct (or map) into document fields through its JSON form.
// The result shares no memory with v.
func Encode(v any) (Fields, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return DecodeJSON(raw)
}

// DecodeJSON parses a JSON object into fields, keeping numbers exact.
func DecodeJSON(raw []byte) (Fields, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber() // Keep numbers exact
	var f Fields
	if err := dec.Decode(&f); err != nil {
		return nil, err
	}
	if f == nil {
		f = Fields{}
	}
	return f, nil
}

// Decode fills dest (a pointer) from document fields.
func Decode(f Fields, dest any) error {
	raw, err := json.Marshal(f)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

// Merge returns dst with src laid over it. Keys missing from src are kept,
// and maps present on both sides are merged key by key.
func Merge(dst, src Fields) Fields {
	out := make(Fields, len(dst)+len(src))
	for k, v := range dst {
		out[k] = v
	}
	for k, v := range src {
		sm, srcIsMap := asMap(v)
		dm, dstIsMap := asMap(out[k])
		if srcIsMap && dstIsMap {
			out[k] = map[string]any(Merge(dm, sm))
			continue
		}
		out[k] = v
	}
	return out
}

func asMap(v any) (Fields, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Fields:
		return m, true
	}
	return nil, false
}
