/*
Package trie implements the compact trie at the core of the autocomplete
index: a node arena with a LIFO free list, a row-keyed posting-list map,
and add/search/delete operations that walk the polymorphic nodes from
package trienode.

A Trie does not know about dictionaries, attributes, or records beyond
the four-tuple identifying where a word occurred (see Posting). Package
dictionary is the layer that understands schemas and records; this
package only ever sees already-selected words and the postings that
should be attached to them.

Concurrency follows the same pattern as the teacher library's other
containers: a single sync.RWMutex guards the arena and the posting-list
map together, so concurrent Search calls run in parallel while AddWord
and DeleteWord exclude all other access.
*/
package trie

import (
	"sync"

	"github.com/bitmaptrie/trieserve/encoding"
	"github.com/bitmaptrie/trieserve/priorityqueue"
	"github.com/bitmaptrie/trieserve/set"
	"github.com/bitmaptrie/trieserve/stack"
	"github.com/bitmaptrie/trieserve/trienode"
)

// DefaultMaxSearchResults bounds how many results Search returns. It is
// a compile-time constant rather than a config.Config field: changing it
// mid-run would change the shape of in-flight enumeration for no benefit,
// since a node's sparse/dense representation switch is itself permanent
// for the life of the arena.
const DefaultMaxSearchResults = 10

// Posting is one occurrence of a word in a source record: which entry,
// which attribute, and the byte range within that attribute's original
// string. Postings are deduplicated by full-tuple equality, so Posting
// must stay comparable.
type Posting struct {
	EntryID      uint32
	AttributeID  uint8
	BytePosition uint32
	ByteLength   uint32
}

// SearchResult is one hit returned by Trie.Search: the normalized word
// that matched and the postings recorded at the row containing its
// terminating edge.
type SearchResult struct {
	Word     string
	Postings []Posting
}

// Trie owns the node arena, the free list of reclaimed rows, and the
// row-keyed posting lists. The zero value is not usable; construct with
// NewTrie.
type Trie struct {
	mutex    sync.RWMutex
	arena    []trienode.Node
	freeList *stack.Stack[uint32]
	postings map[uint32]*set.UnorderedSet[Posting]
}

// NewTrie returns a Trie with a single root row. Row 0 is the root and
// is allocated here with a single placeholder child: an edge for symbol
// 0 (space) with Row 0 that is not terminated and carries no postings.
// Words added later get edges of their own beside it; only a word that
// starts with a space reuses it.
func NewTrie() *Trie {
	root := trienode.NewSparse()
	root.Add(0, trienode.NodeIndex{Row: 0, Terminated: false})
	return &Trie{
		arena:    []trienode.Node{root},
		freeList: stack.NewStack[uint32](),
		postings: make(map[uint32]*set.UnorderedSet[Posting]),
	}
}

func symbolsOf(encoded string) []uint8 {
	symbols := make([]uint8, 0, len(encoded))
	for _, r := range encoded {
		symbols = append(symbols, encoding.Idx(r))
	}
	return symbols
}

// allocRow returns a row to write a brand-new node into, preferring a
// reclaimed row from the free list over growing the arena.
func (t *Trie) allocRow() uint32 {
	if !t.freeList.IsEmpty() {
		if row, err := t.freeList.Pop(); err == nil {
			return row
		}
	}
	t.arena = append(t.arena, nil)
	return uint32(len(t.arena) - 1)
}

func (t *Trie) maybePromote(row uint32) {
	if sp, ok := t.arena[row].(*trienode.Sparse); ok && sp.Len() >= trienode.MaxDirectEntries {
		t.arena[row] = trienode.Promote(sp)
	}
}

func (t *Trie) addPosting(row uint32, p Posting) {
	s, ok := t.postings[row]
	if !ok {
		s = set.NewUnorderedSet[Posting]()
		t.postings[row] = s
	}
	s.Insert(p)
}

// AddWord inserts word into the trie and attaches a posting for it at
// the row containing its terminating edge. An empty word is a no-op.
//
// Algorithm: walk from the root consuming one encoded symbol per
// iteration. While a matching child exists, descend (marking its
// terminated flag along the way on the last symbol); the moment a
// symbol is missing or a matched child has no row yet, switch into
// append mode, where every remaining symbol gets its own freshly
// allocated row wired to the previous one.
func (t *Trie) AddWord(word string, entryID uint32, attributeID uint8, bytePosition, byteLength uint32) {
	if word == "" {
		return
	}
	t.mutex.Lock()
	defer t.mutex.Unlock()

	symbols := symbolsOf(encoding.TranslateEncode(word))
	n := len(symbols)

	var currRow, prevRow uint32
	var prevSymbol uint8
	appending := false

	for i, sym := range symbols {
		terminated := i == n-1

		if appending {
			newRow := t.allocRow()
			leaf := trienode.NewSparse()
			leaf.Add(sym, trienode.NodeIndex{Terminated: terminated})
			t.arena[newRow] = leaf
			t.arena[prevRow].UpdateIndex(prevSymbol, newRow)
			prevSymbol = sym
			prevRow = newRow
			currRow = newRow
			continue
		}

		prevSymbol = sym
		prevRow = currRow
		node := t.arena[currRow]

		if existing, ok := node.Find(sym); ok {
			if terminated {
				node.UpdateTerminated(sym, true)
			}
			if existing.Row != 0 {
				currRow = existing.Row
				continue
			}
			appending = true
			continue
		}

		node.Add(sym, trienode.NodeIndex{Terminated: terminated})
		t.maybePromote(currRow)
		appending = true
	}

	t.addPosting(prevRow, Posting{
		EntryID:      entryID,
		AttributeID:  attributeID,
		BytePosition: bytePosition,
		ByteLength:   byteLength,
	})
}

// dfsFrame is one unit of work in Search's bounded enumeration of
// descendants: the prefix accumulated so far, the row that contains the
// edge (needed to key the posting-list map), and the edge itself.
type dfsFrame struct {
	word      string
	parentRow uint32
	ni        trienode.NodeIndex
}

// Search walks term through the trie and returns matching words with
// their postings. If requireExactTail is true, only an exact match for
// term is returned (if any); otherwise every completion reachable from
// the walk's end row is also enumerated, depth-first, up to
// DefaultMaxSearchResults. Enumeration order is implementation-defined;
// callers that need a stable order must sort the result.
func (t *Trie) Search(term string, requireExactTail bool) []SearchResult {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	normalized := encoding.TranslateEncode(term)
	symbols := symbolsOf(normalized)

	var currRow, prevRow uint32
	lastTerminated := false
	for i, sym := range symbols {
		if i > 0 && currRow == 0 {
			// the previous edge has no child row, so nothing continues term
			return nil
		}
		ni, ok := t.arena[currRow].Find(sym)
		if !ok {
			return nil
		}
		prevRow = currRow
		currRow = ni.Row
		lastTerminated = ni.Terminated
	}

	var results []SearchResult
	if lastTerminated {
		if postings, ok := t.postings[prevRow]; ok {
			results = append(results, SearchResult{Word: normalized, Postings: postings.Items()})
		}
	}
	if requireExactTail || (len(symbols) > 0 && currRow == 0) {
		return results
	}

	st := stack.NewStack[dfsFrame]()
	for _, e := range t.arena[currRow].GetAll() {
		st.Push(dfsFrame{word: normalized + string(encoding.Decode(e.Symbol)), parentRow: currRow, ni: e.Index})
	}

	// collected bounds the completions found during the DFS below to
	// DefaultMaxSearchResults: enumeration stops the moment the heap
	// reaches the cap, and Sort at the end recovers discovery order
	// (the heap itself is ordered last-found-first, for a cheap eviction
	// point if a future caller wants to keep searching past the cap and
	// evict instead of stopping).
	collected := priorityqueue.NewBinaryHeapWithComparator(func(a, b discoveredResult) bool {
		return a.order > b.order
	})
	order := 0

	for !st.IsEmpty() && len(results)+collected.Size() < DefaultMaxSearchResults {
		f, err := st.Pop()
		if err != nil {
			break
		}
		if f.ni.Terminated {
			if postings, ok := t.postings[f.parentRow]; ok {
				collected.Add(discoveredResult{order: order, result: SearchResult{Word: f.word, Postings: postings.Items()}})
				order++
			}
		}
		if f.ni.Row != 0 {
			for _, e := range t.arena[f.ni.Row].GetAll() {
				st.Push(dfsFrame{word: f.word + string(encoding.Decode(e.Symbol)), parentRow: f.ni.Row, ni: e.Index})
			}
		}
	}

	ordered := collected.Sort()
	for i, j := 0, len(ordered)-1; i < j; i, j = i+1, j-1 {
		ordered[i], ordered[j] = ordered[j], ordered[i]
	}
	for _, d := range ordered {
		results = append(results, d.result)
	}
	return results
}

// discoveredResult pairs a DFS completion with the order it was found
// in, so the bounded collector in Search keeps the latest entry at its
// top while still emitting results in discovery order.
type discoveredResult struct {
	order  int
	result SearchResult
}

// removePosting deletes the posting matching entryID/attributeID from s,
// regardless of its byte position or length, and reports whether a
// matching posting was found.
func removePosting(s *set.UnorderedSet[Posting], entryID uint32, attributeID uint8) bool {
	var match Posting
	found := false
	for p := range s.Iter() {
		if p.EntryID == entryID && p.AttributeID == attributeID {
			match = p
			found = true
			break
		}
	}
	if found {
		s.Remove(match)
	}
	return found
}

// pruneEdge removes the edge for symbol from the node at row and, if
// that empties the node, reclaims row onto the free list. It reports
// whether row was freed.
func (t *Trie) pruneEdge(row uint32, symbol uint8) bool {
	if !t.arena[row].Remove(symbol) {
		return false
	}
	t.arena[row] = nil
	t.freeList.Push(row)
	return true
}

// DeleteWord removes the posting identified by (entryID, attributeID)
// from word's terminating row. If that empties the posting list, it
// also clears the terminal edge's terminated flag and prunes now-dead
// rows bottom-up: a row is reclaimed onto the free list only once it has
// no children left, and propagation stops the moment it reaches an edge
// that is itself terminated (that edge still denotes a shorter word) or
// one whose row still has live descendants.
func (t *Trie) DeleteWord(word string, entryID uint32, attributeID uint8) {
	if word == "" {
		return
	}
	t.mutex.Lock()
	defer t.mutex.Unlock()

	symbols := symbolsOf(encoding.TranslateEncode(word))

	type step struct {
		row    uint32
		symbol uint8
	}
	trail := make([]step, 0, len(symbols))

	var currRow uint32
	for i, sym := range symbols {
		if i > 0 && currRow == 0 {
			return
		}
		ni, ok := t.arena[currRow].Find(sym)
		if !ok {
			return
		}
		trail = append(trail, step{row: currRow, symbol: sym})
		currRow = ni.Row
	}
	if len(trail) == 0 {
		return
	}

	terminal := trail[len(trail)-1]
	postings, ok := t.postings[terminal.row]
	if !ok || !removePosting(postings, entryID, attributeID) {
		return
	}
	if postings.Size() > 0 {
		return
	}
	delete(t.postings, terminal.row)

	t.arena[terminal.row].UpdateTerminated(terminal.symbol, false)
	ni, _ := t.arena[terminal.row].Find(terminal.symbol)
	if ni.Row != 0 {
		// word is a prefix of another still-present word; the edge must
		// keep routing to that word's subtree.
		return
	}
	if !t.pruneEdge(terminal.row, terminal.symbol) {
		return
	}

	for i := len(trail) - 2; i >= 0; i-- {
		s := trail[i]
		node := t.arena[s.row]
		ni, _ := node.Find(s.symbol)
		node.UpdateIndex(s.symbol, 0)
		if ni.Terminated {
			return
		}
		if !t.pruneEdge(s.row, s.symbol) {
			return
		}
	}
}
