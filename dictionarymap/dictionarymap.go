/*
Package dictionarymap is the process-wide registry of named Dictionary
instances: create-by-name, then add/search/get routed to the named
handle. It is the outermost core component — transport/tcp and
transport/http both hold exactly one DictionaryMap.
*/
package dictionarymap

import (
	"errors"
	"sort"
	"sync"

	pkgerrors "github.com/pkg/errors"

	"github.com/bitmaptrie/trieserve/dictionary"
)

// dictionaryExistsError and dictionaryNotFoundError are the two error
// kinds the registry boundary can produce; everything else (unknown
// attribute keys, short search terms, out-of-range Get IDs) is an empty
// result, not an error.
type dictionaryExistsError struct{ name string }

func (e dictionaryExistsError) Error() string { return "dictionary already exists: " + e.name }

type dictionaryNotFoundError struct{ name string }

func (e dictionaryNotFoundError) Error() string { return "dictionary not found: " + e.name }

// IsExists reports whether err (or one it wraps) is a "dictionary
// already exists" error.
func IsExists(err error) bool {
	var target dictionaryExistsError
	return errors.As(err, &target)
}

// IsNotFound reports whether err (or one it wraps) is a "dictionary not
// found" error.
func IsNotFound(err error) bool {
	var target dictionaryNotFoundError
	return errors.As(err, &target)
}

// registry is a name-sorted index of dictionary handles. Creation is
// rare compared to lookup, so insertion pays for the sorted position
// (sort.SearchStrings into a slice) in exchange for Names() never
// needing its own sort pass.
type registry struct {
	order   []string
	handles map[string]*dictionary.Dictionary
}

func newRegistry() *registry {
	return &registry{handles: make(map[string]*dictionary.Dictionary)}
}

func (r *registry) put(name string, d *dictionary.Dictionary) {
	i := sort.SearchStrings(r.order, name)
	r.order = append(r.order, "")
	copy(r.order[i+1:], r.order[i:])
	r.order[i] = name
	r.handles[name] = d
}

func (r *registry) get(name string) (*dictionary.Dictionary, bool) {
	d, ok := r.handles[name]
	return d, ok
}

func (r *registry) contains(name string) bool {
	_, ok := r.handles[name]
	return ok
}

func (r *registry) names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

func (r *registry) size() int {
	return len(r.handles)
}

// DictionaryMap maps a dictionary name to its handle. The registry's
// own RWMutex only ever guards CreateDictionary's name-collision check,
// the lookup that routes the other four operations, and the Names and
// Sizes listings; once a handle
// is retrieved, its own lock takes over, so two callers touching
// different dictionaries never serialize on this one.
type DictionaryMap struct {
	mu    sync.RWMutex
	names *registry
}

// New returns an empty registry.
func New() *DictionaryMap {
	return &DictionaryMap{names: newRegistry()}
}

// CreateDictionary registers a new, empty Dictionary under name. It
// returns a dictionaryExistsError if the name is already taken.
func (m *DictionaryMap) CreateDictionary(name string, schema []dictionary.AttributeDef) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.names.contains(name) {
		return pkgerrors.WithStack(dictionaryExistsError{name: name})
	}
	m.names.put(name, dictionary.New(schema))
	return nil
}

func (m *DictionaryMap) lookup(name string) (*dictionary.Dictionary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	d, ok := m.names.get(name)
	if !ok {
		return nil, pkgerrors.WithStack(dictionaryNotFoundError{name: name})
	}
	return d, nil
}

// AddEntry routes record to name's dictionary.
func (m *DictionaryMap) AddEntry(name string, record map[string]string) (uint32, bool, error) {
	d, err := m.lookup(name)
	if err != nil {
		return 0, false, err
	}
	id, ok := d.AddEntry(record)
	return id, ok, nil
}

// Search routes term to name's dictionary.
func (m *DictionaryMap) Search(name, term string) ([]dictionary.SearchResult, error) {
	d, err := m.lookup(name)
	if err != nil {
		return nil, err
	}
	return d.Search(term), nil
}

// Get routes entryID to name's dictionary.
func (m *DictionaryMap) Get(name string, entryID uint32) (map[string]string, error) {
	d, err := m.lookup(name)
	if err != nil {
		return nil, err
	}
	return d.Get(entryID), nil
}

// RecentEntries routes to name's dictionary's RecentEntries.
func (m *DictionaryMap) RecentEntries(name string, n int) ([]uint32, error) {
	d, err := m.lookup(name)
	if err != nil {
		return nil, err
	}
	return d.RecentEntries(n), nil
}

// Sizes returns every registered dictionary's entry count, keyed by
// name.
func (m *DictionaryMap) Sizes() map[string]int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]int, m.names.size())
	for _, name := range m.names.names() {
		d, _ := m.names.get(name)
		out[name] = d.Size()
	}
	return out
}

// Names returns every registered dictionary name in sorted order.
func (m *DictionaryMap) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.names.names()
}
