package search

import (
	"testing"

	"corvidchess/board"
)

func TestTableStoreProbeRoundTrip(t *testing.T) {
	tt := NewTable(1)
	from, _ := board.ParseSquare("e2")
	to, _ := board.ParseSquare("e4")
	m := board.NewMove(from, to, board.FlagNone, board.NoPieceType)

	key := uint64(0xdeadbeefcafef00d)
	tt.Store(key, 6, 0, 123, BoundExact, m)

	hit, score, move, usable := tt.Probe(key, 6, 0, -MaxScore, MaxScore)
	if !hit || !usable {
		t.Fatalf("expected a usable hit, got hit=%v usable=%v", hit, usable)
	}
	if score != 123 {
		t.Fatalf("expected score 123, got %d", score)
	}
	if move != m {
		t.Fatalf("expected stored move to round-trip, got %v", move)
	}
}

func TestTableProbeMissOnDifferentKey(t *testing.T) {
	tt := NewTable(1)
	hit, _, _, _ := tt.Probe(0x1234, 4, 0, -MaxScore, MaxScore)
	if hit {
		t.Fatalf("expected a miss on an empty table")
	}
}

func TestTableMateScoreRelativizedAcrossPly(t *testing.T) {
	tt := NewTable(1)
	key := uint64(0x1111)
	// A mate found 3 plies below the storing node.
	tt.Store(key, 10, 5, MateScore(3), BoundExact, board.NoMove)

	// Probing from a different ply must rescale the stored (node-relative)
	// mate score to one relative to the probing ply, per the ±ply convention.
	_, score, _, usable := tt.Probe(key, 10, 2, -MaxScore, MaxScore)
	if !usable {
		t.Fatalf("expected a usable hit")
	}
	if !IsMateScore(score) {
		t.Fatalf("expected the rescaled score to still read as a mate score, got %d", score)
	}
}

func TestTableStoreKeepsDeeperEntryOverShallowerOverwrite(t *testing.T) {
	tt := NewTable(1)
	key := uint64(0xabc)
	from1, _ := board.ParseSquare("g1")
	to1, _ := board.ParseSquare("f3")
	deep := board.NewMove(from1, to1, board.FlagNone, board.NoPieceType)
	from2, _ := board.ParseSquare("b1")
	to2, _ := board.ParseSquare("c3")
	shallow := board.NewMove(from2, to2, board.FlagNone, board.NoPieceType)

	tt.Store(key, 5, 0, 10, BoundExact, deep)
	tt.Store(key, 2, 0, 20, BoundExact, shallow)

	_, _, move, _ := tt.Probe(key, 5, 0, -MaxScore, MaxScore)
	if move != deep {
		t.Fatalf("expected the deeper entry to survive a shallower same-key store, got %v", move)
	}
}
