package search

import (
	"sync/atomic"

	"corvidchess/board"
)

// entry is the packed transposition table slot, written with plain stores. data
// packs depth/bound/generation/score/move into one word; key is stored
// XOR'd with data so a torn concurrent read (the two fields written by
// different goroutines' stores interleaving) is caught by recomputing the
// verification key on probe — "the key field must itself guard score/move
// consistency" per the concurrency note. Neither field is ever written
// independently: Store always builds the full packed pair first.
type entry struct {
	verifiedKey uint64
	data        uint64
}

func packData(depth int8, bound Bound, generation uint8, score int16, move board.Move) uint64 {
	return uint64(uint8(depth)) |
		uint64(bound)<<8 |
		uint64(generation)<<10 |
		uint64(uint16(score))<<16 |
		uint64(uint32(move))<<32
}

func unpackData(data uint64) (depth int8, bound Bound, generation uint8, score int16, move board.Move) {
	depth = int8(data)
	bound = Bound((data >> 8) & 0x3)
	generation = uint8((data >> 10) & 0x3F)
	score = int16(data >> 16)
	move = board.Move(uint32(data >> 32))
	return
}

const clusterSize = 4

// Table is the shared, fixed-size hash table of search results, indexed by
// Zobrist key. Multiple searcher goroutines read and write the same Table
// concurrently; see the concurrency notes on entry above.
type Table struct {
	clusters   []cluster
	generation uint32 // atomic
}

type cluster [clusterSize]entry

// NewTable allocates a table sized to approximately sizeMB megabytes.
func NewTable(sizeMB int) *Table {
	t := &Table{}
	t.Resize(sizeMB)
	return t
}

// Resize reallocates the table, discarding its contents.
func (t *Table) Resize(sizeMB int) {
	if sizeMB < 1 {
		sizeMB = 1
	}
	const clusterBytes = clusterSize * 16 // two uint64 fields per entry
	count := sizeMB * 1024 * 1024 / clusterBytes
	if count < 1 {
		count = 1
	}
	t.clusters = make([]cluster, count)
}

// Clear zeroes every slot without reallocating.
func (t *Table) Clear() {
	for i := range t.clusters {
		t.clusters[i] = cluster{}
	}
	atomic.StoreUint32(&t.generation, 0)
}

// NewSearch bumps the generation counter that Store records in each entry.
// Neither Store's replacement choice nor Probe reads the generation, so
// entries from earlier searches stay valid hits.
func (t *Table) NewSearch() {
	atomic.AddUint32(&t.generation, 1)
}

func (t *Table) clusterFor(key uint64) *cluster {
	return &t.clusters[key%uint64(len(t.clusters))]
}

// Probe looks up key. hit reports any key match; usable additionally reports
// that the stored depth reaches depth and the stored bound is usable against
// [alpha, beta]. The returned move is valid (for ordering) on any key match
// regardless of depth or usability, per §4.4. Mate scores are
// re-offset by ply before being returned.
func (t *Table) Probe(key uint64, depth int, ply int, alpha, beta int32) (hit bool, score int32, move board.Move, usable bool) {
	c := t.clusterFor(key)
	for i := range c {
		e := c[i]
		if e.verifiedKey^e.data != key {
			continue
		}
		eDepth, bound, _, rawScore, m := unpackData(e.data)
		move = m
		hit = true
		score = relativizeFromStorage(int32(rawScore), ply)
		if int(eDepth) < depth {
			return hit, score, move, false
		}
		switch bound {
		case BoundExact:
			usable = true
		case BoundLower:
			usable = score >= beta
		case BoundUpper:
			usable = score <= alpha
		}
		return hit, score, move, usable
	}
	return false, 0, board.NoMove, false
}

// Store writes unconditionally unless an existing same-key entry has
// strictly greater depth; otherwise it replaces the existing-key slot, then
// an empty slot, then the shallowest-depth slot in the cluster.
func (t *Table) Store(key uint64, depth int, ply int, score int32, bound Bound, move board.Move) {
	c := t.clusterFor(key)
	gen := uint8(atomic.LoadUint32(&t.generation))
	stored := relativizeForStorage(score, ply)

	replace := -1
	shallowest := int8(127)
	for i := range c {
		e := &c[i]
		if e.verifiedKey^e.data == key {
			eDepth, _, _, _, _ := unpackData(e.data)
			if int(eDepth) > depth {
				return
			}
			replace = i
			break
		}
		if e.data == 0 && e.verifiedKey == 0 {
			replace = i
			break
		}
		eDepth, _, _, _, _ := unpackData(e.data)
		if eDepth < shallowest {
			shallowest = eDepth
			replace = i
		}
	}
	if replace == -1 {
		replace = 0
	}

	data := packData(int8(depth), bound, gen, int16(stored), move)
	c[replace] = entry{verifiedKey: key ^ data, data: data}
}

// relativizeForStorage converts a mate score relative to the root into one
// relative to this node (distance from here), per §4.4/§9: "score + ply"
// when near mate.
func relativizeForStorage(score int32, ply int) int32 {
	if score > Mate-1000 {
		return score + int32(ply)
	}
	if score < -Mate+1000 {
		return score - int32(ply)
	}
	return score
}

// relativizeFromStorage is the inverse of relativizeForStorage, applied on
// probe: "score - ply".
func relativizeFromStorage(score int32, ply int) int32 {
	if score > Mate-1000 {
		return score - int32(ply)
	}
	if score < -Mate+1000 {
		return score + int32(ply)
	}
	return score
}
