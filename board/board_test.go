package board

import "testing"

// positionSnapshot is a comparable projection of Position (which itself
// holds a slice and so cannot be compared with ==) used to assert make/unmake
// round-trips restore every field exactly.
type positionSnapshot struct {
	bitboards  [2][7]Bitboard
	occupancy  [2]Bitboard
	pieces     [64]Piece
	sideToMove Color
	castling   CastlingRights
	epSquare   Square
	halfmove   int
	fullmove   int
	ply        int
	hash       uint64
	historyLen int
}

func snapshot(p *Position) positionSnapshot {
	return positionSnapshot{
		bitboards:  p.bitboards,
		occupancy:  p.occupancy,
		pieces:     p.pieces,
		sideToMove: p.sideToMove,
		castling:   p.castling,
		epSquare:   p.epSquare,
		halfmove:   p.halfmove,
		fullmove:   p.fullmove,
		ply:        p.ply,
		hash:       p.hash,
		historyLen: len(p.History),
	}
}

func TestMakeUnmakeSymmetry(t *testing.T) {
	positions := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"k7/8/8/3pP3/8/8/8/7K w - d6 0 2",
		"1n5k/P7/8/8/8/8/8/7K w - - 0 1",
	}
	for _, fen := range positions {
		p, err := ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", fen, err)
		}
		before := snapshot(p)

		var buf [256]Move
		moves := p.GenerateMoves(buf[:0], false)
		for _, m := range moves {
			undo := p.MakeMove(m)
			if !p.Validate() {
				t.Fatalf("%q: Validate failed after MakeMove(%s)", fen, m)
			}
			p.UnmakeMove(m, undo)

			after := snapshot(p)
			if after != before {
				t.Fatalf("%q: MakeMove/UnmakeMove(%s) did not round-trip:\nbefore=%+v\nafter=%+v", fen, m, before, after)
			}
		}
	}
}

func TestMakeMoveLeavesHashConsistent(t *testing.T) {
	p := NewStartingPosition()
	var buf [256]Move
	moves := p.GenerateMoves(buf[:0], false)
	for _, m := range moves {
		undo := p.MakeMove(m)
		if p.Hash() != p.ComputeHash() {
			t.Fatalf("incremental hash mismatch after %s: got %x want %x", m, p.Hash(), p.ComputeHash())
		}
		p.UnmakeMove(m, undo)
	}
}

func TestFENRoundTrip(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	}
	for _, fen := range fens {
		p, err := ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", fen, err)
		}
		got := p.ToFEN()
		if got != fen {
			t.Fatalf("round trip mismatch: got %q want %q", got, fen)
		}
	}
}

func TestCastlingRightsLostOnRookCapture(t *testing.T) {
	p, err := ParseFEN("r3k2r/8/8/8/8/8/6P1/4K2R w Kkq - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	// Capture the black rook on h8 directly: that clears BlackKingRook
	// without touching BlackQueenRook.
	from, _ := ParseSquare("h1")
	to, _ := ParseSquare("h8")
	m := NewMove(from, to, FlagNone, NoPieceType)
	p.MakeMove(m)
	if p.Castling().BlackKingRook != NoSquare {
		t.Fatalf("expected BlackKingRook right cleared after rook captured on h8")
	}
	if p.Castling().BlackQueenRook == NoSquare {
		t.Fatalf("BlackQueenRook right should survive a capture on h8")
	}
}

func TestStalemate(t *testing.T) {
	p, err := ParseFEN("k7/8/1Q6/8/8/8/8/7K b - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	var buf [256]Move
	moves := p.GenerateMoves(buf[:0], false)
	legal := 0
	for _, m := range moves {
		undo := p.MakeMove(m)
		if !p.MoverInCheck() {
			legal++
		}
		p.UnmakeMove(m, undo)
	}
	if legal != 0 {
		t.Fatalf("expected stalemate (0 legal moves), got %d", legal)
	}
	if p.InCheck(Black) {
		t.Fatalf("stalemate position must not have the side to move in check")
	}
}

func TestFiftyMoveRule(t *testing.T) {
	p := NewStartingPosition()
	if p.IsDrawByFiftyMoveRule() {
		t.Fatalf("fresh position must not be a fifty-move draw")
	}
	p.halfmove = 100
	if !p.IsDrawByFiftyMoveRule() {
		t.Fatalf("halfmove clock at 100 must be a fifty-move draw")
	}
}
