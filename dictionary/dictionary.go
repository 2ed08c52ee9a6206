/*
Package dictionary implements the schema-aware layer that sits on top of
a Trie: it knows about named attributes, search modes, and records, and
translates between those and the Trie's word/posting vocabulary.

A Dictionary never exposes deletion — the spec reserves that capability
for the Trie itself, reached directly by a caller that already holds a
posting's (entry, attribute) identity. Everything else (ingestion,
querying, record retrieval) goes through this package.
*/
package dictionary

import (
	"strings"
	"sync"

	"github.com/bitmaptrie/trieserve/encoding"
	"github.com/bitmaptrie/trieserve/trie"
)

// AttributeSearchMode controls how an attribute's values are fed to the
// trie.
type AttributeSearchMode int

const (
	// ModeNone excludes the attribute from the trie entirely; its value
	// is still stored and returned by Get/Search.
	ModeNone AttributeSearchMode = iota
	// ModeExact indexes the attribute's whole value as one word.
	ModeExact
	// ModeMultiple splits the attribute into whitespace tokens and
	// indexes each WordWindow-token sliding window.
	ModeMultiple
)

// ParseAttributeSearchMode decodes a wire string into a mode,
// case-insensitively. Unknown values decode to ModeNone.
func ParseAttributeSearchMode(s string) AttributeSearchMode {
	switch strings.ToLower(s) {
	case "exact":
		return ModeExact
	case "multiple":
		return ModeMultiple
	default:
		return ModeNone
	}
}

func (m AttributeSearchMode) String() string {
	switch m {
	case ModeExact:
		return "exact"
	case ModeMultiple:
		return "multiple"
	default:
		return "none"
	}
}

// Search tuning constants. They are fixed at compile time: config.Config
// carries the same values as defaults, but nothing passes a configured
// value back into a Dictionary.
const (
	// WordWindow (W) is the number of consecutive whitespace tokens
	// joined into one indexed word under ModeMultiple.
	WordWindow = 3
	// MinTermLength is the shortest query Search will act on; anything
	// shorter returns no results.
	MinTermLength = 3
	// MaxSearchResults bounds the size of a Search result list.
	MaxSearchResults = 10
	// recentEntriesCap bounds the MRU log RecentEntries reads from.
	recentEntriesCap = 20
)

// AttributeDef is one entry of a Dictionary's ordered schema.
type AttributeDef struct {
	Name string
	Mode AttributeSearchMode
}

type attributeInfo struct {
	id   uint8
	mode AttributeSearchMode
}

// dictionaryEntry is one stored record: attribute ID indexes directly
// into values.
type dictionaryEntry struct {
	values []string
}

// SearchResult is one rendered hit from Dictionary.Search.
type SearchResult struct {
	Term           string
	AttributeName  string
	AttributeIndex uint8
	OriginalEntry  string
	Position       uint32
	EntryID        uint32
}

// Dictionary holds an ordered attribute schema, an append-only record
// store, and the Trie that indexes it. All three live behind a single
// RWMutex so that readers observe a consistent snapshot.
type Dictionary struct {
	mu sync.RWMutex

	attrNames  []string // id -> name, in schema order
	attrByName map[string]attributeInfo
	entries    []dictionaryEntry
	trie       *trie.Trie

	// recent is a bounded, insertion-order log of entry IDs, read by
	// RecentEntries. It exists purely so a caller can ask "what was
	// just added" without re-deriving it from entries' tail index math.
	recent recentEntryLog
}

// recentEntryLog is a fixed-capacity FIFO of entry IDs: AddEntry pushes
// the newly assigned ID and, once the log is at capacity, drops the
// oldest one. It is a plain ring over a slice rather than a linked
// chain since recentEntriesCap never changes after New.
type recentEntryLog struct {
	ids  []uint32
	head int
}

func newRecentEntryLog(capacity int) recentEntryLog {
	return recentEntryLog{ids: make([]uint32, 0, capacity)}
}

func (l *recentEntryLog) push(id uint32) {
	if len(l.ids) < cap(l.ids) {
		l.ids = append(l.ids, id)
		return
	}
	l.ids[l.head] = id
	l.head = (l.head + 1) % len(l.ids)
}

// ordered returns the logged IDs oldest first.
func (l *recentEntryLog) ordered() []uint32 {
	out := make([]uint32, len(l.ids))
	for i := range l.ids {
		out[i] = l.ids[(l.head+i)%len(l.ids)]
	}
	return out
}

// New builds a Dictionary from an ordered schema. Attribute IDs are
// assigned 0..len(schema)-1 in the order given.
func New(schema []AttributeDef) *Dictionary {
	names := make([]string, len(schema))
	byName := make(map[string]attributeInfo, len(schema))
	for i, def := range schema {
		names[i] = def.Name
		byName[def.Name] = attributeInfo{id: uint8(i), mode: def.Mode}
	}
	return &Dictionary{
		attrNames:  names,
		attrByName: byName,
		trie:       trie.NewTrie(),
		recent:     newRecentEntryLog(recentEntriesCap),
	}
}

// wordWindow is one sliding window produced by splitWord: the joined
// text and the byte offset of its first token in the source string.
type wordWindow struct {
	Text     string
	Position int
}

// splitWord breaks word into window consecutive whitespace tokens
// starting at every token position, tracking each window's byte offset
// in word. The final windows shrink as fewer tokens remain, so a
// six-token string with window 3 yields six windows, the last one
// holding a single token.
func splitWord(word string, window int) []wordWindow {
	tokens := strings.Fields(word)
	out := make([]wordWindow, 0, len(tokens))
	pos := 0
	for j, tok := range tokens {
		if idx := strings.Index(word[pos:], tok); idx >= 0 {
			pos += idx
		}
		end := j + window
		if end > len(tokens) {
			end = len(tokens)
		}
		out = append(out, wordWindow{Text: strings.Join(tokens[j:end], " "), Position: pos})
		pos += len(tok)
	}
	return out
}

// AddEntry stores record's recognized attributes as a new entry and
// indexes them per their mode. Unknown keys are silently dropped; if no
// recognized attribute had a value, no entry is created and ok is false.
func (d *Dictionary) AddEntry(record map[string]string) (entryID uint32, ok bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	values := make([]string, len(d.attrNames))
	present := false
	for name, val := range record {
		info, known := d.attrByName[name]
		if !known {
			continue
		}
		values[info.id] = val
		present = true
	}
	if !present {
		return 0, false
	}

	entryID = uint32(len(d.entries))
	d.entries = append(d.entries, dictionaryEntry{values: values})

	d.recent.push(entryID)

	for name, info := range d.attrByName {
		val := values[info.id]
		if val == "" {
			continue
		}
		switch info.mode {
		case ModeExact:
			d.trie.AddWord(val, entryID, info.id, 0, uint32(len(encoding.TranslateEncode(val))))
		case ModeMultiple:
			for _, win := range splitWord(val, WordWindow) {
				d.trie.AddWord(win.Text, entryID, info.id, uint32(win.Position), uint32(len(encoding.TranslateEncode(win.Text))))
			}
		case ModeNone:
		}
		_ = name
	}
	return entryID, true
}

// Search answers term against the indexed attributes. Terms shorter
// than MinTermLength return no results. A term spanning more than
// WordWindow whitespace tokens is matched on its first WordWindow
// tokens with an exact tail, then narrowed by a substring check against
// each candidate's full original value.
func (d *Dictionary) Search(term string) []SearchResult {
	if len(strings.TrimSpace(term)) < MinTermLength {
		return nil
	}
	d.mu.RLock()
	defer d.mu.RUnlock()

	tokens := strings.Fields(term)
	var hits []trie.SearchResult
	var substringFilter string
	if len(tokens) <= WordWindow {
		hits = d.trie.Search(term, false)
	} else {
		trieTerm := strings.Join(tokens[:WordWindow], " ")
		hits = d.trie.Search(trieTerm, true)
		substringFilter = encoding.TranslateEncode(term)
	}

	var results []SearchResult
	for _, hit := range hits {
		for _, p := range hit.Postings {
			if int(p.EntryID) >= len(d.entries) || int(p.AttributeID) >= len(d.attrNames) {
				continue
			}
			entry := d.entries[p.EntryID]
			if int(p.AttributeID) >= len(entry.values) {
				continue
			}
			original := entry.values[p.AttributeID]
			if substringFilter != "" && !strings.Contains(encoding.TranslateEncode(original), substringFilter) {
				continue
			}
			rendered := encoding.TranslateDecode(original, int(p.BytePosition), int(p.ByteLength))
			results = append(results, SearchResult{
				Term:           rendered,
				AttributeName:  d.attrNames[p.AttributeID],
				AttributeIndex: p.AttributeID,
				OriginalEntry:  original,
				Position:       p.BytePosition,
				EntryID:        p.EntryID,
			})
			if len(results) >= MaxSearchResults {
				return results
			}
		}
	}
	return results
}

// RecentEntries returns up to n of the most recently added entry IDs,
// most recent first.
func (d *Dictionary) RecentEntries(n int) []uint32 {
	d.mu.RLock()
	defer d.mu.RUnlock()

	all := d.recent.ordered()
	if n > len(all) {
		n = len(all)
	}
	out := make([]uint32, n)
	for i := 0; i < n; i++ {
		out[i] = all[len(all)-1-i]
	}
	return out
}

// Size returns the number of entries stored, for ranking/stats callers
// that need relative dictionary sizes without walking every entry.
func (d *Dictionary) Size() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.entries)
}

// Get reconstructs entryID's record as a name->value map. An
// out-of-range ID returns an empty map.
func (d *Dictionary) Get(entryID uint32) map[string]string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make(map[string]string)
	if int(entryID) >= len(d.entries) {
		return out
	}
	entry := d.entries[entryID]
	for i, name := range d.attrNames {
		if i < len(entry.values) {
			out[name] = entry.values[i]
		}
	}
	return out
}
