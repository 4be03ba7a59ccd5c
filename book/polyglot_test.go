package book

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"corvidchess/board"
)

func writeTestBook(t *testing.T, path string, key uint64, pgMove uint16, weight uint16) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	var raw [entrySize]byte
	binary.BigEndian.PutUint64(raw[0:8], key)
	binary.BigEndian.PutUint16(raw[8:10], pgMove)
	binary.BigEndian.PutUint16(raw[10:12], weight)
	binary.BigEndian.PutUint32(raw[12:16], 0)
	if _, err := f.Write(raw[:]); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestProbeFindsKnownOpeningMove(t *testing.T) {
	pos := board.NewStartingPosition()
	key := pos.PolyglotHash()

	// e2e4: from=e2 (file4,rank1), to=e4 (file4,rank3), no promotion.
	pgMove := uint16(4 | 1<<3 | 4<<6 | 3<<9)

	dir := t.TempDir()
	path := filepath.Join(dir, "test.bin")
	writeTestBook(t, path, key, pgMove, 10)

	b := New()
	if err := b.Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	m := b.Probe(pos)
	if m.IsNone() {
		t.Fatal("expected a book move, got NoMove")
	}
	if m.From().String() != "e2" || m.To().String() != "e4" {
		t.Fatalf("expected e2e4, got %s", m.String())
	}
}

func TestProbeMissReturnsNoMove(t *testing.T) {
	pos := board.NewStartingPosition()
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.bin")
	writeTestBook(t, path, pos.PolyglotHash()^1, 0, 1)

	b := New()
	if err := b.Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m := b.Probe(pos); !m.IsNone() {
		t.Fatalf("expected NoMove for an unrelated key, got %s", m.String())
	}
}
