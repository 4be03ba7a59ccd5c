// Package tablebase defines the endgame-tablebase probing seam: a WDL
// (win/draw/loss) result for a search leaf, and a piece-list builder shared
// by any concrete backend. No decoder for the Syzygy compressed file format
// ships here — Syzygy tables are a binary format maintained by a C library
// this module does not vendor — but the piece-code/probe-shape plumbing a
// real backend would need is fully wired, grounded on
// original_source/hugine.cpp's SyzygyTablebase class.
package tablebase

import (
	"math/bits"

	"corvidchess/board"
)

// WDL is a win/draw/loss verdict from the side-to-move's perspective, using
// the Syzygy five-value scale (a "cursed" win can't be forced to conversion
// inside the fifty-move counter; a "blessed" loss is its mirror).
type WDL int

const (
	Loss        WDL = -2
	BlessedLoss WDL = -1
	Draw        WDL = 0
	CursedWin   WDL = 1
	Win         WDL = 2
)

// Prober is the external tablebase collaborator: CanProbe gates whether a
// position is small enough for the loaded tables, ProbeWDL returns a
// verdict for positions it can resolve.
type Prober interface {
	CanProbe(pos *board.Position) bool
	ProbeWDL(pos *board.Position) (wdl WDL, ok bool)
	MaxPieces() int
}

// NoOpProber always declines, the default when no tablebase path is
// configured — the engine plays on its own evaluation and search instead.
type NoOpProber struct{}

func (NoOpProber) CanProbe(*board.Position) bool        { return false }
func (NoOpProber) ProbeWDL(*board.Position) (WDL, bool) { return Draw, false }
func (NoOpProber) MaxPieces() int                       { return 0 }

// WDLToScore converts a WDL verdict at the given search ply into a score in
// the same units as the search's mate/centipawn scale, so a tablebase hit
// slots into alpha-beta exactly like any other terminal score. scoreMate is
// the searcher's mate constant (search.Mate), passed in rather than
// imported to avoid a tablebase<->search dependency cycle.
func WDLToScore(wdl WDL, ply int, scoreMate int32) int32 {
	switch wdl {
	case Win:
		return scoreMate - int32(ply) - 1
	case Loss:
		return -scoreMate + int32(ply) + 1
	case CursedWin:
		return 1
	case BlessedLoss:
		return -1
	default:
		return 0
	}
}

// PieceCode is one square/piece-code pair in the canonical Syzygy probe
// shape: pieces sorted by code with White/Black distinguished by a side
// bitmask, as the probe functions of the reference library expect.
type PieceCode struct {
	Square board.Square
	Code   int
}

const sideMask = 8

var pieceCodeBase = [7]int{
	board.Pawn:   1,
	board.Knight: 2,
	board.Bishop: 3,
	board.Rook:   4,
	board.Queen:  5,
	board.King:   6,
}

// BuildPieceList walks pos's occupancy into the (code, square) list, sorted
// by code, that a Syzygy-shaped probe call expects; PieceCount reports the
// matching piece count. Exported so a real backend wired in behind Prober
// can reuse the same plumbing.
func BuildPieceList(pos *board.Position) []PieceCode {
	list := make([]PieceCode, 0, 32)
	occ := pos.AllOccupied()
	for occ != 0 {
		sq := occ.PopLSB()
		pc := pos.PieceAt(sq)
		code := pieceCodeBase[pc.Type()]
		if pc.Color() == board.Black {
			code |= sideMask
		}
		list = append(list, PieceCode{Square: sq, Code: code})
	}
	for i := 1; i < len(list); i++ {
		for j := i; j > 0 && list[j].Code < list[j-1].Code; j-- {
			list[j], list[j-1] = list[j-1], list[j]
		}
	}
	return list
}

// PieceCount reports how many pieces remain on the board, the figure
// CanProbe compares against a backend's max supported cardinality.
func PieceCount(pos *board.Position) int {
	return bits.OnesCount64(uint64(pos.AllOccupied()))
}
