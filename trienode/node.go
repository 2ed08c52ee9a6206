/*
Package trienode implements the polymorphic trie node used by package
trie: a node that starts out as a small ordered list of children and is
promoted, once and irreversibly, to a 64-bit bitmap plus a dense vector
once it reaches MaxDirectEntries children.

Every node maps a subset of the 64-symbol alphabet (see package encoding)
to a NodeIndex — an arena row plus a terminated flag. Nodes never own
their children directly; a NodeIndex is a row number into the trie's
arena, which keeps the node type itself simple, Copy-able, and free of
reference cycles.

The variant set is closed (Sparse, Dense) and is modeled as a tagged
union rather than an interface hierarchy with dynamic dispatch, matching
the closed two-case switch the original implementation used.
*/
package trienode

import "math/bits"

// MaxDirectEntries is the number of children a Sparse node may hold
// before it is promoted to Dense. Promotion is one-way.
const MaxDirectEntries = 5

// NodeIndex is a node-pointer equivalent: a row in the trie's arena plus
// whether a word ends at this edge. Row 0 means "no child row" — the
// root is row 0 but is never itself referenced as a child. Terminated
// and a non-zero row are independent: a word may be a prefix of another,
// so both can be true at once.
type NodeIndex struct {
	Row        uint32
	Terminated bool
}

// Node is the shared operation contract for both node representations.
type Node interface {
	// Find returns the child for symbol idx, if present.
	Find(idx uint8) (NodeIndex, bool)

	// Add inserts a new child for symbol idx. The caller is responsible
	// for promoting a Sparse node that has just reached MaxDirectEntries
	// (see Promote).
	Add(idx uint8, ni NodeIndex)

	// UpdateIndex rewrites only the Row field of an existing child,
	// leaving Terminated untouched.
	UpdateIndex(idx uint8, row uint32)

	// UpdateTerminated rewrites only the Terminated field of a child. If
	// the child is absent (Dense nodes only — Sparse nodes never reach
	// this with a missing symbol in the add/search/delete walks), it is
	// created with Row 0.
	UpdateTerminated(idx uint8, terminated bool)

	// GetAll returns every (symbol, NodeIndex) pair in ascending symbol
	// order, for enumeration during search.
	GetAll() []SymbolEntry

	// Remove deletes the child for symbol idx. It returns true if the
	// node has no children left afterward.
	Remove(idx uint8) bool

	// Len reports the current number of children.
	Len() int
}

// SymbolEntry is one (symbol, NodeIndex) pair as returned by GetAll.
type SymbolEntry struct {
	Symbol uint8
	Index  NodeIndex
}

// Sparse is the small-degree node representation: an ordered list of
// (symbol, NodeIndex) pairs, scanned linearly. Cheap to build and to
// iterate while the fan-out at a row stays below MaxDirectEntries.
type Sparse struct {
	entries []SymbolEntry
}

// NewSparse returns an empty Sparse node.
func NewSparse() *Sparse {
	return &Sparse{}
}

func (s *Sparse) Find(idx uint8) (NodeIndex, bool) {
	for _, e := range s.entries {
		if e.Symbol == idx {
			return e.Index, true
		}
	}
	return NodeIndex{}, false
}

func (s *Sparse) Add(idx uint8, ni NodeIndex) {
	s.entries = append(s.entries, SymbolEntry{Symbol: idx, Index: ni})
}

func (s *Sparse) UpdateIndex(idx uint8, row uint32) {
	for i := range s.entries {
		if s.entries[i].Symbol == idx {
			s.entries[i].Index.Row = row
			return
		}
	}
}

func (s *Sparse) UpdateTerminated(idx uint8, terminated bool) {
	for i := range s.entries {
		if s.entries[i].Symbol == idx {
			s.entries[i].Index.Terminated = terminated
			return
		}
	}
	// A Sparse node is only ever mutated through Add/walks that already
	// know the symbol is present; unlike Dense, we do not fabricate a
	// new entry here because every add-path that needs one goes through
	// Add first.
}

func (s *Sparse) GetAll() []SymbolEntry {
	out := make([]SymbolEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *Sparse) Remove(idx uint8) bool {
	for i, e := range s.entries {
		if e.Symbol == idx {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			break
		}
	}
	return len(s.entries) == 0
}

func (s *Sparse) Len() int { return len(s.entries) }

// Dense is the bitmap representation, used once a node's fan-out
// reaches MaxDirectEntries. Bit i of Bitmap set means symbol i is
// present; its NodeIndex lives at position popcount(Bitmap & ((1<<i)-1))
// in Positions.
type Dense struct {
	Bitmap    uint64
	Positions []NodeIndex
}

// NewDense returns an empty Dense node.
func NewDense() *Dense {
	return &Dense{}
}

// Promote builds a Dense node from a Sparse node's current entries. The
// caller replaces its stored node with the result; Sparse itself is
// left untouched (promotion is performed by the owner, package trie,
// which holds the arena slot).
func Promote(s *Sparse) *Dense {
	d := NewDense()
	for _, e := range s.entries {
		d.insertAt(e.Symbol, e.Index)
	}
	return d
}

func (d *Dense) position(idx uint8) int {
	mask := uint64(1)<<idx - 1
	return bits.OnesCount64(d.Bitmap & mask)
}

func (d *Dense) has(idx uint8) bool {
	return d.Bitmap&(uint64(1)<<idx) != 0
}

// insertAt sets the child for symbol idx to ni, inserting a new slot if
// the bit was not already set and overwriting in place otherwise.
func (d *Dense) insertAt(idx uint8, ni NodeIndex) {
	p := d.position(idx)
	if d.has(idx) {
		d.Positions[p] = ni
		return
	}
	d.Bitmap |= uint64(1) << idx
	d.Positions = append(d.Positions, NodeIndex{})
	copy(d.Positions[p+1:], d.Positions[p:])
	d.Positions[p] = ni
}

// removeAt clears the child for symbol idx and returns true if the node
// is now empty.
func (d *Dense) removeAt(idx uint8) bool {
	if !d.has(idx) {
		return d.Bitmap == 0
	}
	p := d.position(idx)
	d.Positions = append(d.Positions[:p], d.Positions[p+1:]...)
	d.Bitmap &^= uint64(1) << idx
	return d.Bitmap == 0
}

func (d *Dense) Find(idx uint8) (NodeIndex, bool) {
	if !d.has(idx) {
		return NodeIndex{}, false
	}
	return d.Positions[d.position(idx)], true
}

func (d *Dense) Add(idx uint8, ni NodeIndex) {
	d.insertAt(idx, ni)
}

func (d *Dense) UpdateIndex(idx uint8, row uint32) {
	if ni, ok := d.Find(idx); ok {
		ni.Row = row
		d.insertAt(idx, ni)
		return
	}
	d.insertAt(idx, NodeIndex{Row: row})
}

func (d *Dense) UpdateTerminated(idx uint8, terminated bool) {
	if ni, ok := d.Find(idx); ok {
		ni.Terminated = terminated
		d.insertAt(idx, ni)
		return
	}
	d.insertAt(idx, NodeIndex{Terminated: terminated})
}

func (d *Dense) GetAll() []SymbolEntry {
	out := make([]SymbolEntry, 0, len(d.Positions))
	for i := 0; i < 64; i++ {
		if d.has(uint8(i)) {
			ni, _ := d.Find(uint8(i))
			out = append(out, SymbolEntry{Symbol: uint8(i), Index: ni})
		}
	}
	return out
}

func (d *Dense) Remove(idx uint8) bool {
	return d.removeAt(idx)
}

func (d *Dense) Len() int { return len(d.Positions) }
