package engine

import (
	"unsafe"

	"github.com/eremzeit/skeleton/board"
)

type EntryType uint8

const DefaultHashTableSizeMB = 16

const (
	EntryTypeUnknown EntryType = iota
	EntryTypeExact
	EntryTypeLowerBound
	EntryTypeUpperBound
)

func (t EntryType) String() string {
	switch t {
	case EntryTypeExact:
		return "exact"
	case EntryTypeLowerBound:
		return "lowerbound"
	case EntryTypeUpperBound:
		return "upperbound"
	default:
		return "unknown"
	}
}

// TranspositionTable is a fixed-size cache of search results addressed by
// hash modulo size. Colliding positions silently overwrite each other.
type TranspositionTable struct {
	table []entry
	size  uint64

	// stats
	hits   int
	misses int
	writes int
}

type entry struct {
	mv      board.Move
	score   int32
	check   uint16
	depth   uint8
	typ     EntryType
	ancient bool
}

var entrySize = uint64(unsafe.Sizeof(entry{}))

// NewTranspositionTable allocates size entries, at least one.
func NewTranspositionTable(size uint64) *TranspositionTable {
	if size == 0 {
		size = 1
	}
	return &TranspositionTable{
		table: make([]entry, size),
		size:  size,
	}
}

// NewTranspositionTableMB allocates as many entries as fit in mb megabytes.
func NewTranspositionTableMB(mb uint64) *TranspositionTable {
	return NewTranspositionTable(mb << 20 / entrySize)
}

// checksum is the fragment of hash kept to tell colliding positions apart.
func checksum(hash uint64) uint16 {
	return uint16(hash >> 48)
}

func (t *TranspositionTable) slot(hash uint64) *entry {
	return &t.table[hash%t.size]
}

// Probe looks hash up. It returns the stored score with ok set when the
// entry is deep enough and its bound settles the (alpha, beta) window;
// otherwise ok is false and mv still carries the stored move, if any, as
// an ordering hint.
func (t *TranspositionTable) Probe(hash uint64, depth uint8, alpha, beta int32) (score int32, mv board.Move, ok bool) {
	e := t.slot(hash)
	if e.typ == EntryTypeUnknown || e.check != checksum(hash) {
		t.misses++
		return 0, board.Move{}, false
	}
	t.hits++
	if e.depth >= depth {
		switch {
		case e.typ == EntryTypeExact,
			e.typ == EntryTypeLowerBound && e.score >= beta,
			e.typ == EntryTypeUpperBound && e.score <= alpha:
			return e.score, e.mv, true
		}
	}
	return 0, e.mv, false
}

// BestMove returns the move stored for hash.
func (t *TranspositionTable) BestMove(hash uint64) (board.Move, bool) {
	e := t.slot(hash)
	if e.typ == EntryTypeUnknown || e.check != checksum(hash) || e.mv.IsNull() {
		return board.Move{}, false
	}
	return e.mv, true
}

// Record stores a result unless the slot holds a deeper, current entry.
func (t *TranspositionTable) Record(hash uint64, score int32, mv board.Move, depth uint8, typ EntryType) {
	e := t.slot(hash)
	if e.typ != EntryTypeUnknown && depth < e.depth && !e.ancient {
		return
	}
	t.writes++
	*e = entry{
		mv:    mv,
		score: score,
		check: checksum(hash),
		depth: depth,
		typ:   typ,
	}
}

// SetAncient marks every entry replaceable without discarding it.
func (t *TranspositionTable) SetAncient() {
	for i := range t.table {
		t.table[i].ancient = true
	}
}

func (t *TranspositionTable) Clear() {
	clear(t.table)
	t.ResetStats()
}

func (t *TranspositionTable) Size() uint64 {
	return t.size
}

// PV follows stored moves from b while they stay legal, up to maxLen
// moves, stopping at the first repeated position. b is left unchanged.
func (t *TranspositionTable) PV(b *board.Board, maxLen int) []board.Move {
	var pv []board.Move
	seen := map[uint64]bool{}
	for len(pv) < maxLen && !seen[b.Hash()] {
		seen[b.Hash()] = true
		mv, ok := t.BestMove(b.Hash())
		if !ok || !isLegal(b, mv) {
			break
		}
		b.Apply(mv)
		pv = append(pv, mv)
	}
	for i := len(pv) - 1; i >= 0; i-- {
		b.Revert(pv[i])
	}
	return pv
}

// isLegal guards against moves stored by a colliding position.
func isLegal(b *board.Board, mv board.Move) bool {
	for legal := range b.LegalMovesForPiece(mv.From) {
		if legal == mv {
			return true
		}
	}
	return false
}

func (t *TranspositionTable) ResetStats() {
	t.hits = 0
	t.misses = 0
	t.writes = 0
}

func (t *TranspositionTable) Stats() (int, int, int) {
	return t.hits, t.misses, t.writes
}
