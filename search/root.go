package search

import (
	"fmt"
	"sync/atomic"
	"time"

	"corvidchess/board"
)

const aspirationWindow int32 = 35

// InfoLine is one iterative-deepening progress report, shaped after UCI's
// "info depth ... score ... nodes ... time ... pv ..." line but left as a
// plain struct so the protocol package decides how (or whether) to render
// it, keeping this package free of any UCI-specific formatting.
type InfoLine struct {
	Depth    int
	SelDepth int
	MultiPV  int // 1-indexed PV slot
	Score    int32
	Mate     bool
	Nodes    uint64
	TimeMs   int64
	NPS      uint64
	PV       []board.Move
}

// RootResult is what a completed Run returns: the chosen move plus the
// final reported line (for a "bestmove"/"ponder" reply upstream).
type RootResult struct {
	BestMove   board.Move
	PonderMove board.Move
	Score      int32
	Depth      int
}

// Run drives iterative deepening from the root: depth 1 upward, aspiration
// windows re-centered on the previous depth's score once depth >= 5,
// reporting each completed depth via onInfo. Stops when depth exceeds
// limits.Depth (if set), the time manager's StopEarly fires, or the shared
// stop flag is set by the coordinator.
//
// With limits.MultiPV > 1, each depth searches the root serially once per
// PV slot: the first slot searches the whole root move list, each
// subsequent slot excludes the moves already claimed by earlier slots
// (via Searcher.excludedRoot), so slot k reports the best line not already
// reported by slots 1..k-1 — the teacher's single-PV loop generalized
// rather than replaced.
func (s *Searcher) Run(pos *board.Position, limits Limits, tm *TimeManager, onInfo func(InfoLine)) RootResult {
	maxDepth := limits.Depth
	if maxDepth <= 0 || maxDepth > MaxPly-1 {
		maxDepth = MaxPly - 1
	}
	numPV := limits.MultiPV
	if numPV < 1 {
		numPV = 1
	}

	lines := make([]RootResult, numPV)
	var prevScore int32
	window := aspirationWindow
	start := time.Now()

	s.rootMoves = limits.SearchMove

	for depth := 1; depth <= maxDepth; depth++ {
		if depth > 1 && tm != nil && !tm.TimeForDepth() {
			break
		}

		s.excludedRoot = s.excludedRoot[:0]
		stopped := false
		bestMoveChanged := false

		for pvIdx := 0; pvIdx < numPV; pvIdx++ {
			var alpha, beta int32
			if pvIdx == 0 && depth >= 5 {
				alpha = prevScore - window
				beta = prevScore + window
				if alpha < -MaxScore {
					alpha = -MaxScore
				}
				if beta > MaxScore {
					beta = MaxScore
				}
			} else {
				alpha, beta = -MaxScore, MaxScore
			}

			var score int32
			for {
				score = s.Search(pos, alpha, beta, depth, 0, false, board.NoMove)
				if atomic.LoadInt32(s.stop) != 0 {
					break
				}
				if pvIdx == 0 && score <= alpha {
					window *= 2
					alpha = score - window
					if alpha < -MaxScore {
						alpha = -MaxScore
					}
					continue
				}
				if pvIdx == 0 && score >= beta {
					window *= 2
					beta = score + window
					if beta > MaxScore {
						beta = MaxScore
					}
					continue
				}
				break
			}

			if atomic.LoadInt32(s.stop) != 0 {
				stopped = true
			}

			pv := s.PV()
			if len(pv) == 0 {
				break // fewer legal root moves than requested PV slots
			}
			s.excludedRoot = append(s.excludedRoot, pv[0])

			if pvIdx == 0 {
				bestMoveChanged = pv[0] != lines[0].BestMove
				prevScore = score
				window = aspirationWindow
			}

			lines[pvIdx].BestMove = pv[0]
			if len(pv) > 1 {
				lines[pvIdx].PonderMove = pv[1]
			}
			lines[pvIdx].Score = score
			lines[pvIdx].Depth = depth

			elapsed := time.Since(start)
			nps := uint64(0)
			if ms := elapsed.Milliseconds(); ms > 0 {
				nps = s.nodes * 1000 / uint64(ms)
			}
			if onInfo != nil {
				onInfo(InfoLine{
					Depth:    depth,
					SelDepth: s.selDepth,
					MultiPV:  pvIdx + 1,
					Score:    score,
					Mate:     IsMateScore(score),
					Nodes:    s.nodes,
					TimeMs:   elapsed.Milliseconds(),
					NPS:      nps,
					PV:       pv,
				})
			}
			if stopped {
				break // don't search further PV slots once interrupted
			}
		}

		if stopped && depth > 1 {
			break
		}

		if tm != nil {
			tm.Update(lines[0].Score, bestMoveChanged)
		}
		if tm != nil && tm.StopEarly() {
			break
		}
		if limits.Nodes > 0 && s.nodes >= limits.Nodes {
			break
		}
		if IsMateScore(lines[0].Score) && depth > 2 {
			// A shallower forced mate is never worth searching past: extra
			// depth can only lengthen (or fail to shorten) the line found.
			break
		}
	}
	return lines[0]
}

// FormatScore renders a score the way UCI's "info score" token expects:
// "cp N" or "mate N" (N full moves to mate, negative if being mated).
func FormatScore(score int32) string {
	if IsMateScore(score) {
		if score > 0 {
			plies := Mate - score
			return fmt.Sprintf("mate %d", (plies+1)/2)
		}
		plies := Mate + score
		return fmt.Sprintf("mate %d", -((plies + 1) / 2))
	}
	return fmt.Sprintf("cp %d", score)
}
