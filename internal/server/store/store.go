// Package store defines the key-value contract the entity managers are
// written against. Backends live in the subpackages: dynamo for AWS DynamoDB,
// postgres for a JSONB emulation on PostgreSQL, memory for tests and local
// development.
package store

import (
	"context"
	"encoding/json"
	"fmt"
)

// Document is one stored item keyed by its JSON attribute names.
type Document map[string]any

// Key identifies an item by its primary key attribute.
type Key struct {
	Name  string
	Value string
}

// Condition guards a put.
type Condition int

const (
	// None writes unconditionally (upsert).
	None Condition = iota
	// MustExist fails with common.ErrorNotFound when the key is absent.
	MustExist
)

// Assignment sets the attribute at Path, e.g. []string{"instructors", id}.
// Intermediate maps must already exist.
type Assignment struct {
	Path  []string
	Value any
}

// Set is shorthand for a top-level Assignment.
func Set(attr string, value any) Assignment {
	return Assignment{Path: []string{attr}, Value: value}
}

// Store is the key-value collaborator. Each method is exactly one round trip.
type Store interface {
	// Scan returns every item of table in backend order.
	Scan(ctx context.Context, table string) ([]Document, error)
	// Query returns the items whose key attribute equals key.Value.
	Query(ctx context.Context, table string, key Key) ([]Document, error)
	// Put writes the whole item.
	Put(ctx context.Context, table string, key Key, item Document, cond Condition) error
	// Update merges the assignments into an existing item. Attributes not
	// named by an assignment are left as they are.
	Update(ctx context.Context, table string, key Key, set []Assignment) error
}

// ToDocument converts a JSON-tagged value into a Document.
func ToDocument(v any) (Document, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return doc, nil
}

// FromDocument fills the JSON-tagged value pointed to by v from doc.
func FromDocument(doc Document, v any) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	return nil
}

// Normalize turns any JSON-encodable value into plain maps, slices and
// scalars keyed by JSON names, the shape every backend persists.
func Normalize(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode value: %w", err)
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("encode value: %w", err)
	}
	return out, nil
}
