package protocol

import (
	"bytes"
	"strings"
	"testing"

	"corvidchess/board"
	"corvidchess/search"
)

type fakeEngine struct {
	pos      *board.Position
	newGames int
	options  map[string]string
	result   search.RootResult
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{pos: board.NewStartingPosition(), options: map[string]string{}}
}

func (f *fakeEngine) NewGame()                    { f.newGames++ }
func (f *fakeEngine) SetPosition(pos *board.Position) { f.pos = pos }
func (f *fakeEngine) SetOption(name, value string) { f.options[name] = value }
func (f *fakeEngine) Stop()                        {}
func (f *fakeEngine) PonderHit()                   {}
func (f *fakeEngine) Go(limits search.Limits, onInfo func(search.InfoLine)) search.RootResult {
	if onInfo != nil {
		onInfo(search.InfoLine{Depth: 1, Score: 0})
	}
	return f.result
}

func TestUCIHandshake(t *testing.T) {
	engine := newFakeEngine()
	var out bytes.Buffer
	Loop(strings.NewReader("uci\nquit\n"), &out, engine, "testengine", "tester")
	got := out.String()
	if !strings.Contains(got, "id name testengine") {
		t.Fatalf("expected id name line, got %q", got)
	}
	if !strings.Contains(got, "uciok") {
		t.Fatalf("expected uciok, got %q", got)
	}
}

func TestPositionStartposWithMoves(t *testing.T) {
	engine := newFakeEngine()
	var out bytes.Buffer
	Loop(strings.NewReader("position startpos moves e2e4 e7e5\nquit\n"), &out, engine, "e", "a")
	if engine.pos.SideToMove() != board.White {
		t.Fatalf("expected white to move after two plies, got %v", engine.pos.SideToMove())
	}
}

func TestPositionFEN(t *testing.T) {
	engine := newFakeEngine()
	var out bytes.Buffer
	Loop(strings.NewReader("position fen 4k3/8/8/8/8/8/8/4K3 w - - 0 1\nquit\n"), &out, engine, "e", "a")
	if engine.pos.PieceAt(mustSquare(t, "e1")) == board.NoPiece {
		t.Fatalf("expected a king parsed onto e1")
	}
}

func TestSetOptionParsesNameAndValue(t *testing.T) {
	engine := newFakeEngine()
	var out bytes.Buffer
	Loop(strings.NewReader("setoption name Threads value 4\nquit\n"), &out, engine, "e", "a")
	if engine.options["Threads"] != "4" {
		t.Fatalf("expected Threads=4, got %q", engine.options["Threads"])
	}
}

func TestGoProducesBestMove(t *testing.T) {
	engine := newFakeEngine()
	from, _ := board.ParseSquare("e2")
	to, _ := board.ParseSquare("e4")
	engine.result = search.RootResult{BestMove: board.NewMove(from, to, board.FlagNone, board.NoPieceType)}
	var out bytes.Buffer
	Loop(strings.NewReader("go depth 1\nquit\n"), &out, engine, "e", "a")
	if !strings.Contains(out.String(), "bestmove e2e4") {
		t.Fatalf("expected bestmove e2e4, got %q", out.String())
	}
}

func mustSquare(t *testing.T, s string) board.Square {
	t.Helper()
	sq, ok := board.ParseSquare(s)
	if !ok {
		t.Fatalf("bad square %q", s)
	}
	return sq
}
