// Package learn implements a persistent, hash-indexed score-adjustment
// table: small nudges toward positions that have historically scored well
// or badly for the side that reached them, folded into static evaluation.
// Grounded on original_source/hugine.cpp's LearningTable class.
package learn

import (
	"encoding/binary"
	"io"
	"os"
	"sync"

	"corvidchess/board"
)

// record is one hash-indexed slot: a running total of side-to-move-relative
// game results and how many games contributed to it.
type record struct {
	TotalScore int32
	Count      uint32
}

const recordSize = 8 // two uint32 fields, fixed width on disk

// Store is a fixed-size open table of records indexed by the low bits of a
// position's hash; collisions are accepted and simply blend unrelated
// positions' adjustments, same tradeoff the reference engine makes.
type Store struct {
	mu              sync.RWMutex
	table           []record
	mask            uint64
	path            string
	enabled         bool
	learningRatePct int32
	maxAdjust       int32
}

// DefaultSize is 1<<20 records (8MB), the reference engine's table size.
const DefaultSize = 1 << 20

// New creates a disabled, empty store of size records (rounded up to a
// power of two so index can mask instead of mod).
func New(size int) *Store {
	n := 1
	for n < size {
		n <<= 1
	}
	return &Store{
		table:           make([]record, n),
		mask:            uint64(n - 1),
		learningRatePct: 100,
		maxAdjust:       50,
	}
}

func (s *Store) SetEnabled(e bool)       { s.enabled = e }
func (s *Store) SetPath(path string)     { s.path = path }
func (s *Store) SetLearningRate(pct int32) { s.learningRatePct = pct }
func (s *Store) SetMaxAdjust(v int32)    { s.maxAdjust = v }
func (s *Store) Enabled() bool           { return s.enabled }

func (s *Store) index(hash uint64) uint64 { return hash & s.mask }

// Load reads the table from Path, replacing current contents. A missing
// file is not an error — it just means there is no prior learning yet.
func (s *Store) Load() error {
	if s.path == "" {
		return nil
	}
	f, err := os.Open(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.table {
		var raw [recordSize]byte
		if _, err := io.ReadFull(f, raw[:]); err != nil {
			break
		}
		s.table[i] = record{
			TotalScore: int32(binary.LittleEndian.Uint32(raw[0:4])),
			Count:      binary.LittleEndian.Uint32(raw[4:8]),
		}
	}
	return nil
}

// Save writes the table to Path. A no-op when learning is disabled or no
// path is configured, mirroring the reference's save() guard.
func (s *Store) Save() error {
	if s.path == "" || !s.enabled {
		return nil
	}
	f, err := os.Create(s.path)
	if err != nil {
		return err
	}
	defer f.Close()

	s.mu.RLock()
	defer s.mu.RUnlock()
	buf := make([]byte, recordSize*len(s.table))
	for i, r := range s.table {
		binary.LittleEndian.PutUint32(buf[i*recordSize:], uint32(r.TotalScore))
		binary.LittleEndian.PutUint32(buf[i*recordSize+4:], r.Count)
	}
	_, err = f.Write(buf)
	return err
}

// Adjustment returns the centipawn nudge this hash has earned, clamped to
// +/-maxAdjust. Zero when disabled, unseen, or count is zero.
func (s *Store) Adjustment(hash uint64) int32 {
	if !s.enabled {
		return 0
	}
	s.mu.RLock()
	r := s.table[s.index(hash)]
	s.mu.RUnlock()
	if r.Count == 0 {
		return 0
	}
	adj := r.TotalScore * s.learningRatePct / int32(r.Count)
	if adj > s.maxAdjust {
		adj = s.maxAdjust
	}
	if adj < -s.maxAdjust {
		adj = -s.maxAdjust
	}
	return adj
}

// GameResult is the outcome of a finished game from White's perspective:
// +1 a White win, -1 a White loss, 0 a draw.
type GameResult int32

const (
	WhiteLoss GameResult = -1
	GameDraw  GameResult = 0
	WhiteWin  GameResult = 1
)

// Update records result for the one position with this hash, orienting the
// stored delta to the side that was to move there (a position where the
// mover went on to win gets a positive nudge regardless of which color
// that was).
func (s *Store) Update(hash uint64, result GameResult, sideToMove board.Color) {
	if !s.enabled {
		return
	}
	side := int32(1)
	if sideToMove == board.Black {
		side = -1
	}
	adjusted := int32(result) * side

	s.mu.Lock()
	defer s.mu.Unlock()
	r := &s.table[s.index(hash)]
	r.TotalScore += adjusted
	r.Count++
}
