package learn

import (
	"path/filepath"
	"testing"

	"corvidchess/board"
)

func TestAdjustmentZeroWhenDisabled(t *testing.T) {
	s := New(1024)
	s.SetEnabled(false)
	s.Update(42, WhiteWin, board.White)
	if adj := s.Adjustment(42); adj != 0 {
		t.Fatalf("expected 0 while disabled, got %d", adj)
	}
}

func TestUpdateOrientsToMover(t *testing.T) {
	s := New(1024)
	s.SetEnabled(true)

	s.Update(7, WhiteWin, board.White)
	if adj := s.Adjustment(7); adj <= 0 {
		t.Fatalf("expected a positive adjustment for White who won to move, got %d", adj)
	}

	s.Update(8, WhiteWin, board.Black)
	if adj := s.Adjustment(8); adj >= 0 {
		t.Fatalf("expected a negative adjustment for Black who lost to move, got %d", adj)
	}
}

func TestAdjustmentClampedToMaxAdjust(t *testing.T) {
	s := New(1024)
	s.SetEnabled(true)
	s.SetMaxAdjust(10)
	for i := 0; i < 100; i++ {
		s.Update(99, WhiteWin, board.White)
	}
	if adj := s.Adjustment(99); adj > 10 {
		t.Fatalf("expected adjustment clamped to 10, got %d", adj)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "learn.bin")

	s := New(256)
	s.SetEnabled(true)
	s.SetPath(path)
	s.Update(5, WhiteWin, board.White)
	s.Update(5, WhiteWin, board.White)
	if err := s.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded := New(256)
	loaded.SetEnabled(true)
	loaded.SetPath(path)
	if err := loaded.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got, want := loaded.Adjustment(5), s.Adjustment(5); got != want {
		t.Fatalf("round trip mismatch: got %d want %d", got, want)
	}
}
