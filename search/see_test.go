package search

import (
	"testing"

	"corvidchess/board"
)

func findMove(t *testing.T, pos *board.Position, from, to string) board.Move {
	t.Helper()
	f, ok1 := board.ParseSquare(from)
	tt, ok2 := board.ParseSquare(to)
	if !ok1 || !ok2 {
		t.Fatalf("bad squares %s%s", from, to)
	}
	var buf [256]board.Move
	for _, m := range pos.GenerateMoves(buf[:0], false) {
		if m.From() == f && m.To() == tt {
			return m
		}
	}
	t.Fatalf("move %s%s not found among legal moves", from, to)
	return board.NoMove
}

func TestSEEWinningPawnTakesUndefendedKnight(t *testing.T) {
	// White pawn on e4 can take a lone, undefended knight on d5.
	pos, err := board.ParseFEN("4k3/8/8/3n4/4P3/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	m := findMove(t, pos, "e4", "d5")
	if v := SEE(pos, m); v <= 0 {
		t.Fatalf("expected a clearly winning capture, got SEE=%d", v)
	}
}

func TestSEELosingQueenTakesDefendedPawn(t *testing.T) {
	// White queen on d1 recaptures a pawn on d5 that is guarded by a black
	// knight on f6: after Qxd5 Nxd5, White has traded a queen for a pawn.
	pos, err := board.ParseFEN("4k3/8/5n2/3p4/8/8/8/3QK3 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	m := findMove(t, pos, "d1", "d5")
	if v := SEE(pos, m); v >= 0 {
		t.Fatalf("expected a clearly losing capture, got SEE=%d", v)
	}
}

func TestSEEEqualTrade(t *testing.T) {
	// Rooks facing each other on an open file, with Black's d8 rook guarding
	// d5: Rxd5 Rxd5 is a straight rook-for-rook trade with no further recapture.
	pos, err := board.ParseFEN("3rk3/8/8/3r4/8/8/8/3RK3 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	m := findMove(t, pos, "d1", "d5")
	if v := SEE(pos, m); v != 0 {
		t.Fatalf("expected an even rook-for-rook trade to score 0, got %d", v)
	}
}
