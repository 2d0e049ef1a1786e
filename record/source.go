package record

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
)

// Source supplies confidential records keyed by entity name. Implementations
// must treat missing records as a normal condition: Get returns ok=false
// rather than an error when the entity is unknown.
type Source interface {
	// Get returns the record for the named entity.
	Get(ctx context.Context, entity string) (Record, bool, error)
	// List returns all known entity names in lexical order.
	List(ctx context.Context) ([]string, error)
	// All returns every record keyed by entity name.
	All(ctx context.Context) (map[string]Record, error)
}

// StaticSource is an immutable in-memory Source, suitable for single scan
// requests and tests.
type StaticSource struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewStaticSource copies the provided records into a new source. Records with
// an empty EntityName inherit their map key.
func NewStaticSource(records map[string]Record) *StaticSource {
	copied := make(map[string]Record, len(records))
	for name, rec := range records {
		if rec.EntityName == "" {
			rec.EntityName = name
		}
		copied[name] = rec
	}
	return &StaticSource{records: copied}
}

// Get implements Source.
func (s *StaticSource) Get(_ context.Context, entity string) (Record, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[entity]
	return rec, ok, nil
}

// List implements Source.
func (s *StaticSource) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.records))
	for name := range s.records {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// All implements Source.
func (s *StaticSource) All(_ context.Context) (map[string]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]Record, len(s.records))
	for name, rec := range s.records {
		out[name] = rec
	}
	return out, nil
}

// Put inserts or replaces a record. Useful when assembling a source
// programmatically before handing it to a scanner.
func (s *StaticSource) Put(rec Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.records == nil {
		s.records = make(map[string]Record)
	}
	s.records[rec.EntityName] = rec
}

// databaseEntry mirrors one value of the on-disk entity database: the
// confidential half lives under "internal", public research under "external".
// Only the internal half feeds the scanner.
type databaseEntry struct {
	Internal Record         `json:"internal"`
	External map[string]any `json:"external,omitempty"`
}

// LoadFile reads a JSON entity database of the form
//
//	{"<entity name>": {"internal": {...}, "external": {...}}, ...}
//
// and returns a StaticSource over the internal records.
func LoadFile(path string) (*StaticSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read record database: %w", err)
	}

	var db map[string]databaseEntry
	if err := json.Unmarshal(data, &db); err != nil {
		return nil, fmt.Errorf("parse record database %s: %w", path, err)
	}

	records := make(map[string]Record, len(db))
	for name, entry := range db {
		rec := entry.Internal
		rec.EntityName = name
		records[name] = rec
	}
	return NewStaticSource(records), nil
}
