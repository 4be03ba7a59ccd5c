package board

import "math/rand"

// Zobrist hashing tables for pieces, castling rights, en-passant file and side
// to move. Keys are deterministic (fixed seed) so perft and search traces are
// reproducible across runs, matching the determinism property tests require.
var (
	zobristPiece       [15][64]uint64
	zobristCastleRight [4]uint64 // WhiteK, WhiteQ, BlackK, BlackQ — presence-only
	zobristEnPassant   [8]uint64
	zobristSide        uint64
)

func init() {
	rnd := rand.New(rand.NewSource(0x5A4F42524953))
	for p := 0; p < 15; p++ {
		for sq := 0; sq < 64; sq++ {
			zobristPiece[p][sq] = rnd.Uint64()
		}
	}
	for i := range zobristCastleRight {
		zobristCastleRight[i] = rnd.Uint64()
	}
	for f := range zobristEnPassant {
		zobristEnPassant[f] = rnd.Uint64()
	}
	zobristSide = rnd.Uint64()
}

func castleRightKeys(cr CastlingRights) uint64 {
	var key uint64
	if cr.WhiteKingRook != NoSquare {
		key ^= zobristCastleRight[0]
	}
	if cr.WhiteQueenRook != NoSquare {
		key ^= zobristCastleRight[1]
	}
	if cr.BlackKingRook != NoSquare {
		key ^= zobristCastleRight[2]
	}
	if cr.BlackQueenRook != NoSquare {
		key ^= zobristCastleRight[3]
	}
	return key
}

// ComputeHash recomputes the Zobrist hash for the position from scratch. Used
// by the Validate invariant check; FEN loading and make/unmake maintain the
// hash incrementally and must always agree with this value.
func (p *Position) ComputeHash() uint64 {
	var key uint64
	for sq := 0; sq < 64; sq++ {
		if pc := p.pieces[sq]; pc != NoPiece {
			key ^= zobristPiece[pc][sq]
		}
	}
	if p.sideToMove == Black {
		key ^= zobristSide
	}
	key ^= castleRightKeys(p.castling)
	if p.epSquare != NoSquare {
		key ^= zobristEnPassant[p.epSquare.File()]
	}
	return key
}
