// Package search implements the iterative-deepening alpha-beta searcher:
// transposition table, move ordering and history tables, quiescence search,
// static exchange evaluation, the negamax main search, the root driver, and
// the multi-threaded coordinator.
package search

import "corvidchess/board"

// Score constants. MaxScore bounds the alpha-beta window; Mate is the score
// assigned to an immediate mate, reduced by ply as the mate recedes from the
// root (see MateScore/IsMateScore); Draw is the neutral score.
const (
	MaxScore int32 = 32500
	Mate     int32 = 20000
	Draw     int32 = 0
)

// MateScore returns the score for being mated in plies-from-here moves.
func MateScore(ply int) int32 { return -Mate + int32(ply) }

// IsMateScore reports whether s represents a forced mate (for either side).
func IsMateScore(s int32) bool { return s > Mate-1000 || s < -Mate+1000 }

// MaxPly bounds per-ply stack arrays (PV, killers, static eval cache).
const MaxPly = 128

// MaxMoves is the move-buffer capacity the spec requires (≥256).
const MaxMoves = 256

// Bound identifies which side of the search window a stored score is exact
// on, matching the transposition table's usability rule in §4.4.
type Bound uint8

const (
	BoundNone Bound = iota
	BoundExact
	BoundLower // fail-high: stored score is a lower bound (beta cutoff)
	BoundUpper // fail-low: stored score is an upper bound (no improvement over alpha)
)

// Evaluator is the black-box position-to-centipawn function the core treats
// opaquely, per the out-of-scope evaluator collaborator.
type Evaluator interface {
	Evaluate(pos *board.Position) int32
}

// Limits bounds a single search: any zero-valued field is "unset". Depth
// bounds the iterative-deepening loop. The node limit is checked only after
// each completed depth, so it does not interrupt a depth in progress; only
// the stop flag is polled at the node interval.
type Limits struct {
	Depth      int
	Nodes      uint64
	MoveTime   int64 // ms, hard per-move budget
	WhiteTime  int64 // ms remaining
	BlackTime  int64
	WhiteInc   int64
	BlackInc   int64
	MovesToGo  int
	Infinite   bool
	Ponder     bool
	MultiPV    int
	SearchMove []board.Move // restrict the root to these moves; empty = all
}
