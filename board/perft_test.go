package board

import "testing"

func TestPerftInitialPosition(t *testing.T) {
	p := NewStartingPosition()
	cases := []struct {
		depth int
		want  uint64
	}{
		{1, 20},
		{2, 400},
		{3, 8902},
		{4, 197281},
	}
	for _, c := range cases {
		if got := p.Perft(c.depth); got != c.want {
			t.Fatalf("perft depth %d: got %d want %d", c.depth, got, c.want)
		}
	}
}

// TestPerftInitialDeep extends the startpos table to depths 5 and 6,
// skipped under "go test -short" since depth 6 alone is ~119M nodes.
func TestPerftInitialDeep(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping deep perft in short mode")
	}
	p := NewStartingPosition()
	cases := []struct {
		depth int
		want  uint64
	}{
		{5, 4865609},
		{6, 119060324},
	}
	for _, c := range cases {
		if got := p.Perft(c.depth); got != c.want {
			t.Fatalf("perft depth %d: got %d want %d", c.depth, got, c.want)
		}
	}
}

func TestPerftKiwipeteDeep(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping deep perft in short mode")
	}
	p, err := ParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	if got := p.Perft(4); got != 4085603 {
		t.Fatalf("kiwipete depth4: got %d want 4085603", got)
	}
}

func TestPerftPosition3Deep(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping deep perft in short mode")
	}
	p, err := ParseFEN("8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	if got := p.Perft(6); got != 11030083 {
		t.Fatalf("pos3 depth6: got %d want 11030083", got)
	}
}

func TestPerftKiwipete(t *testing.T) {
	p, err := ParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	cases := []struct {
		depth int
		want  uint64
	}{
		{1, 48},
		{2, 2039},
		{3, 97862},
	}
	for _, c := range cases {
		if got := p.Perft(c.depth); got != c.want {
			t.Fatalf("kiwipete depth %d: got %d want %d", c.depth, got, c.want)
		}
	}
}

func TestPerftEnPassant(t *testing.T) {
	p, err := ParseFEN("k7/8/8/3pP3/8/8/8/7K w - d6 0 2")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	if got := p.Perft(1); got != 5 {
		t.Fatalf("ep depth1: got %d want 5", got)
	}
	if got := p.Perft(2); got != 19 {
		t.Fatalf("ep depth2: got %d want 19", got)
	}
}

func TestPerftPromotion(t *testing.T) {
	p, err := ParseFEN("1n5k/P7/8/8/8/8/8/7K w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	if got := p.Perft(1); got != 11 {
		t.Fatalf("promotion depth1: got %d want 11", got)
	}
}

func TestPerftPosition3(t *testing.T) {
	p, err := ParseFEN("8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	cases := []struct {
		depth int
		want  uint64
	}{
		{1, 14},
		{2, 191},
		{3, 2812},
	}
	for _, c := range cases {
		if got := p.Perft(c.depth); got != c.want {
			t.Fatalf("pos3 depth %d: got %d want %d", c.depth, got, c.want)
		}
	}
}

// Position 4 from the Chess Programming Wiki perft suite; exercises
// castling rights lost to rook capture and underpromotion together.
func TestPerftPosition4(t *testing.T) {
	p, err := ParseFEN("r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	if got := p.Perft(1); got != 6 {
		t.Fatalf("pos4 depth1: got %d want 6", got)
	}
	if got := p.Perft(2); got != 264 {
		t.Fatalf("pos4 depth2: got %d want 264", got)
	}
}

// The standard starting position's KQkq field must register the h1 and a1
// rooks as White's castling rook origins. Only the recorded rook-origin
// squares are checked here; no Chess960 array is parsed or counted.
func TestStartingPositionRookOrigins(t *testing.T) {
	p, err := ParseFEN(StartFEN)
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	if p.Castling().WhiteKingRook != 7 || p.Castling().WhiteQueenRook != 0 {
		t.Fatalf("expected standard rook origins, got %+v", p.Castling())
	}
}
