package search

import (
	"testing"

	"corvidchess/board"
	"corvidchess/eval"
)

func newTestSearcher() *Searcher {
	stop := int32(0)
	return NewSearcher(NewTable(4), eval.Classical{}, nil, nil, nil, &stop)
}

func TestSearchFindsMateInOne(t *testing.T) {
	// Black king on g8 with the White king on g6 covering f7, g7 and h7:
	// Qa8 along the long diagonal is mate in one.
	pos, err := board.ParseFEN("6k1/8/6K1/8/8/8/8/7Q w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	s := newTestSearcher()
	score := s.Search(pos, -MaxScore, MaxScore, 4, 0, false, board.NoMove)
	if !IsMateScore(score) || score < 0 {
		t.Fatalf("expected a winning mate score, got %d", score)
	}
	pv := s.PV()
	if len(pv) == 0 {
		t.Fatalf("expected a non-empty PV for a forced mate")
	}
}

func TestSearchDetectsStalemateAsDraw(t *testing.T) {
	// Classic stalemate: Black king on a8 has no legal move, not in check.
	pos, err := board.ParseFEN("k7/8/1Q6/8/8/8/8/6K1 b - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	s := newTestSearcher()
	score := s.Search(pos, -MaxScore, MaxScore, 2, 0, false, board.NoMove)
	if score != Draw {
		t.Fatalf("expected stalemate to score as a draw, got %d", score)
	}
}

func TestSearchRespectsFiftyMoveDraw(t *testing.T) {
	pos, err := board.ParseFEN("4k3/8/8/8/8/8/8/4K2R w K - 99 60")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	s := newTestSearcher()
	// One quiet move away from the fifty-move rule; the search should reach
	// a drawn result inside the returned score rather than crashing or
	// mis-scoring the resulting position as anything but a draw once the
	// counter trips at ply 1.
	score := s.Search(pos, -MaxScore, MaxScore, 3, 0, false, board.NoMove)
	if IsMateScore(score) {
		t.Fatalf("did not expect a mate score with a king-and-rook-vs-king draw approaching, got %d", score)
	}
}

func TestSearchIsDeterministic(t *testing.T) {
	pos, err := board.ParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	s1 := newTestSearcher()
	score1 := s1.Search(pos.Clone(), -MaxScore, MaxScore, 4, 0, false, board.NoMove)
	pv1 := s1.PV()

	s2 := newTestSearcher()
	score2 := s2.Search(pos.Clone(), -MaxScore, MaxScore, 4, 0, false, board.NoMove)
	pv2 := s2.PV()

	if score1 != score2 {
		t.Fatalf("expected identical scores across repeated searches, got %d and %d", score1, score2)
	}
	if len(pv1) != len(pv2) {
		t.Fatalf("expected identical PV lengths, got %d and %d", len(pv1), len(pv2))
	}
	for i := range pv1 {
		if pv1[i] != pv2[i] {
			t.Fatalf("expected identical PVs at index %d, got %v and %v", i, pv1[i], pv2[i])
		}
	}
}

func TestRunReportsBestMoveWithinDepthLimit(t *testing.T) {
	pos, err := board.ParseFEN("6k1/8/6K1/8/8/8/8/7Q w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	s := newTestSearcher()
	tm := NewTimeManager()
	tm.Start(Limits{Infinite: true}, true)
	result := s.Run(pos, Limits{Depth: 3}, tm, nil)
	if result.BestMove.IsNone() {
		t.Fatalf("expected Run to report a best move")
	}
	if !IsMateScore(result.Score) {
		t.Fatalf("expected Run to find the mating score, got %d", result.Score)
	}
}
