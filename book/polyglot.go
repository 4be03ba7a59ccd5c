// Package book implements a Polyglot-format opening book: binary
// (key, move, weight, learn) records probed at the root of a search,
// with an optional weighted random draw among all of a position's entries.
// Grounded on original_source/hugine.cpp's OpeningBook class.
package book

import (
	"encoding/binary"
	"io"
	"math"
	"math/rand"
	"os"
	"sort"

	"corvidchess/board"
)

// entry is one 16-byte Polyglot book record, as written to disk: big-endian
// per the Polyglot file format specification.
type entry struct {
	Key    uint64
	Move   uint16
	Weight uint16
	Learn  uint32
}

const entrySize = 16

// Book is a loaded Polyglot book, sorted by key for binary-search probing.
type Book struct {
	entries []entry
	variety float64 // 0 = always play the heaviest move; >0 widens the draw
	rng     *rand.Rand
}

func New() *Book {
	return &Book{rng: rand.New(rand.NewSource(1))}
}

// SetVariety controls how Probe picks among a position's entries: 0 always
// plays the single heaviest entry; any higher value switches to a random
// draw weighted by weight^(1+v/10), so larger values favor the heavier
// entries more strongly.
func (b *Book) SetVariety(v float64) { b.variety = v }

// Load reads a Polyglot .bin file into memory, replacing any book already
// loaded.
func (b *Book) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	count := info.Size() / entrySize
	entries := make([]entry, 0, count)

	var raw [entrySize]byte
	for {
		_, err := io.ReadFull(f, raw[:])
		if err != nil {
			break
		}
		entries = append(entries, entry{
			Key:    binary.BigEndian.Uint64(raw[0:8]),
			Move:   binary.BigEndian.Uint16(raw[8:10]),
			Weight: binary.BigEndian.Uint16(raw[10:12]),
			Learn:  binary.BigEndian.Uint32(raw[12:16]),
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	b.entries = entries
	return nil
}

func (b *Book) matches(key uint64) []entry {
	lo := sort.Search(len(b.entries), func(i int) bool { return b.entries[i].Key >= key })
	hi := lo
	for hi < len(b.entries) && b.entries[hi].Key == key {
		hi++
	}
	return b.entries[lo:hi]
}

// Probe returns a book move for pos, or board.NoMove if the book holds
// nothing for this position (or isn't loaded).
func (b *Book) Probe(pos *board.Position) board.Move {
	if len(b.entries) == 0 {
		return board.NoMove
	}
	matches := b.matches(pos.PolyglotHash())
	if len(matches) == 0 {
		return board.NoMove
	}
	if b.variety == 0 {
		best := matches[0]
		for _, e := range matches[1:] {
			if e.Weight > best.Weight {
				best = e
			}
		}
		return decodeMove(best.Move, pos)
	}

	weights := make([]float64, len(matches))
	var total float64
	for i, e := range matches {
		w := math.Pow(float64(e.Weight), 1.0+b.variety/10.0)
		weights[i] = w
		total += w
	}
	r := b.rng.Float64() * total
	var sum float64
	for i, w := range weights {
		sum += w
		if r < sum {
			return decodeMove(matches[i].Move, pos)
		}
	}
	return decodeMove(matches[len(matches)-1].Move, pos)
}

// decodeMove unpacks a Polyglot move field (bits: from file 0-2, from rank
// 3-5, to file 6-8, to rank 9-11, promotion 12-14) and matches it against
// the position's legal moves, since Polyglot encodes castling as
// king-takes-own-rook in Chess960 style while this engine may render it
// differently.
func decodeMove(pgMove uint16, pos *board.Position) board.Move {
	fFrom := int(pgMove & 7)
	rFrom := int((pgMove >> 3) & 7)
	fTo := int((pgMove >> 6) & 7)
	rTo := int((pgMove >> 9) & 7)
	prom := int((pgMove >> 12) & 7)

	from := board.MakeSquare(fFrom, rFrom)
	to := board.MakeSquare(fTo, rTo)
	to = remapPolyglotCastleTo(pos, from, to)

	var buf [256]board.Move
	moves := pos.GenerateMoves(buf[:0], false)
	for _, m := range moves {
		if m.From() != from || m.To() != to {
			continue
		}
		mProm := m.Promotion()
		switch prom {
		case 0:
			if mProm == board.NoPieceType {
				return m
			}
		case 1:
			if mProm == board.Knight {
				return m
			}
		case 2:
			if mProm == board.Bishop {
				return m
			}
		case 3:
			if mProm == board.Rook {
				return m
			}
		case 4:
			if mProm == board.Queen {
				return m
			}
		}
	}
	return board.NoMove
}

// remapPolyglotCastleTo rewrites Polyglot's unconditional king-takes-own-rook
// castling notation into this engine's internal king-destination encoding
// (g-file kingside, c-file queenside). Every other move passes through
// unchanged.
func remapPolyglotCastleTo(pos *board.Position, from, to board.Square) board.Square {
	piece := pos.PieceAt(from)
	if piece.Type() != board.King {
		return to
	}
	us := piece.Color()
	rank := from.Rank()
	rights := pos.Castling()
	switch to {
	case rights.WhiteKingRook:
		if us == board.White {
			return board.MakeSquare(6, rank)
		}
	case rights.WhiteQueenRook:
		if us == board.White {
			return board.MakeSquare(2, rank)
		}
	case rights.BlackKingRook:
		if us == board.Black {
			return board.MakeSquare(6, rank)
		}
	case rights.BlackQueenRook:
		if us == board.Black {
			return board.MakeSquare(2, rank)
		}
	}
	return to
}
