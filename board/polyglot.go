package board

// Polyglot-style hash keys, kept separate from this package's own Zobrist
// keys (zobrist.go). The key tables are filled from a fixed-seed xorshift
// generator and pieces are indexed black pawn..king then white pawn..king,
// so PolyglotHash does not reproduce the published Polyglot Random64 keys:
// only books keyed with this same scheme match. Grounded on other_examples/hailam-chessplay__polyglot.go.
var (
	polyglotPieces    [12][64]uint64
	polyglotCastling  [4]uint64
	polyglotEnPassant [8]uint64
	polyglotSide      uint64
)

func init() {
	var s uint64 = 0x37b4a4b3f0d1c0d0
	rng := func() uint64 {
		s ^= s >> 12
		s ^= s << 25
		s ^= s >> 27
		return s * 0x2545F4914F6CDD1D
	}
	for piece := 0; piece < 12; piece++ {
		for sq := 0; sq < 64; sq++ {
			polyglotPieces[piece][sq] = rng()
		}
	}
	for i := 0; i < 4; i++ {
		polyglotCastling[i] = rng()
	}
	for i := 0; i < 8; i++ {
		polyglotEnPassant[i] = rng()
	}
	polyglotSide = rng()
}

// polyglotKind maps (color, piece type) to the Polyglot piece index:
// black pawn..king = 0..5, white pawn..king = 6..11.
func polyglotKind(c Color, pt PieceType) int {
	idx := int(pt) - 1
	if c == White {
		idx += 6
	}
	return idx
}

// PolyglotHash computes the position's hash in this package's Polyglot-style
// key space (see the key tables above), for probing books stored in the
// Polyglot record format.
func (p *Position) PolyglotHash() uint64 {
	var hash uint64
	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			bb := p.bitboards[c][pt]
			for bb != 0 {
				sq := bb.PopLSB()
				hash ^= polyglotPieces[polyglotKind(c, pt)][sq]
			}
		}
	}

	if p.castling.WhiteKingRook != NoSquare {
		hash ^= polyglotCastling[0]
	}
	if p.castling.WhiteQueenRook != NoSquare {
		hash ^= polyglotCastling[1]
	}
	if p.castling.BlackKingRook != NoSquare {
		hash ^= polyglotCastling[2]
	}
	if p.castling.BlackQueenRook != NoSquare {
		hash ^= polyglotCastling[3]
	}

	if p.epSquare != NoSquare {
		file := p.epSquare.File()
		capturingRank := 4
		attacker := Black
		if p.sideToMove == White {
			capturingRank = 4
			attacker = White
		} else {
			capturingRank = 3
			attacker = Black
		}
		canCapture := false
		if file > 0 && p.bitboards[attacker][Pawn]&squareMask(MakeSquare(file-1, capturingRank)) != 0 {
			canCapture = true
		}
		if file < 7 && p.bitboards[attacker][Pawn]&squareMask(MakeSquare(file+1, capturingRank)) != 0 {
			canCapture = true
		}
		if canCapture {
			hash ^= polyglotEnPassant[file]
		}
	}

	if p.sideToMove == White {
		hash ^= polyglotSide
	}
	return hash
}
