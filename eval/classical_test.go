package eval

import (
	"testing"

	"corvidchess/board"
)

func TestClassicalSymmetricStartingPosition(t *testing.T) {
	pos := board.NewStartingPosition()
	score := Classical{}.Evaluate(pos)
	if score != tempoBonus {
		t.Fatalf("expected material/PST-symmetric starting position to evaluate to the tempo bonus (%d), got %d", tempoBonus, score)
	}
}

func TestClassicalFavorsExtraQueen(t *testing.T) {
	pos, err := board.ParseFEN("4k3/8/8/8/8/8/8/R3K2Q w Q - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	score := Classical{}.Evaluate(pos)
	if score < 500 {
		t.Fatalf("expected a large material advantage for White, got %d", score)
	}
}

func TestClassicalBishopPairBonus(t *testing.T) {
	withPair, err := board.ParseFEN("4k3/8/8/8/8/8/8/2B1KB2 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	onePiece, err := board.ParseFEN("4k3/8/8/8/8/8/8/3BK3 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	pairScore := Classical{}.Evaluate(withPair)
	soloScore := Classical{}.Evaluate(onePiece)
	if pairScore-soloScore <= int32(pieceValueMG[board.Bishop]) {
		t.Fatalf("expected a second bishop plus the pair bonus to add more than a lone bishop's midgame value: pair=%d solo=%d", pairScore, soloScore)
	}
}
