// Package memory is an in-process store.Store. Items are kept as deep copies
// so callers can never alias stored state.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/astdirectory/internal/common"
	"github.com/dmitrijs2005/astdirectory/internal/server/store"
)

type Store struct {
	mu     sync.RWMutex
	tables map[string]map[string]store.Document
}

func New() *Store {
	return &Store{tables: make(map[string]map[string]store.Document)}
}

func (s *Store) Scan(_ context.Context, table string) ([]store.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := s.tables[table]
	out := make([]store.Document, 0, len(items))
	for _, doc := range items {
		c, err := deepCopy(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *Store) Query(_ context.Context, table string, key store.Key) ([]store.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []store.Document{}
	doc, ok := s.tables[table][key.Value]
	if !ok || doc[key.Name] != key.Value {
		return out, nil
	}
	c, err := deepCopy(doc)
	if err != nil {
		return nil, err
	}
	return append(out, c), nil
}

func (s *Store) Put(_ context.Context, table string, key store.Key, item store.Document, cond store.Condition) error {
	c, err := deepCopy(item)
	if err != nil {
		return err
	}
	c[key.Name] = key.Value

	s.mu.Lock()
	defer s.mu.Unlock()

	items, ok := s.tables[table]
	if !ok {
		items = make(map[string]store.Document)
		s.tables[table] = items
	}
	if _, exists := items[key.Value]; cond == store.MustExist && !exists {
		return fmt.Errorf("%s %s=%s: %w", table, key.Name, key.Value, common.ErrorNotFound)
	}
	items[key.Value] = c
	return nil
}

func (s *Store) Update(_ context.Context, table string, key store.Key, set []store.Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.tables[table][key.Value]
	if !ok {
		return fmt.Errorf("%s %s=%s: %w", table, key.Name, key.Value, common.ErrorNotFound)
	}

	// work on a copy so a bad path leaves the item untouched
	next, err := deepCopy(current)
	if err != nil {
		return err
	}
	for _, a := range set {
		if err := assign(next, a); err != nil {
			return fmt.Errorf("%s %s=%s: %w", table, key.Name, key.Value, err)
		}
	}
	s.tables[table][key.Value] = next
	return nil
}

func assign(doc store.Document, a store.Assignment) error {
	if len(a.Path) == 0 {
		return fmt.Errorf("empty update path")
	}
	v, err := store.Normalize(a.Value)
	if err != nil {
		return err
	}

	parent := map[string]any(doc)
	for i, name := range a.Path[:len(a.Path)-1] {
		child, ok := parent[name].(map[string]any)
		if !ok {
			return fmt.Errorf("invalid document path %q", strings.Join(a.Path[:i+1], "."))
		}
		parent = child
	}
	parent[a.Path[len(a.Path)-1]] = v
	return nil
}

func deepCopy(doc store.Document) (store.Document, error) {
	c, err := store.ToDocument(doc)
	if err != nil {
		return nil, err
	}
	if c == nil {
		c = store.Document{}
	}
	return c, nil
}
